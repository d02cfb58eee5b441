package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/services"
	"github.com/stefan/gigport-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newEventsTestApp(t *testing.T, jwtSvc *services.JWTService) (http.Handler, *testutil.MockThreadService, *testutil.MockHub) {
	t.Helper()
	mockThreadService := new(testutil.MockThreadService)
	mockHub := new(testutil.MockHub)
	handler := NewEventsHandler(mockHub, mockThreadService)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/events/:clientId/join/:threadId", handler.Join)
	app.Post("/events/:clientId/leave/:threadId", handler.Leave)
	return app, mockThreadService, mockHub
}

func TestEventsHandler_Join_Participant(t *testing.T) {
	jwtSvc := newTestJWTService()
	app, mockThreadService, mockHub := newEventsTestApp(t, jwtSvc)

	userID := uuid.New()
	threadID := uuid.New()
	clientID := uuid.New().String()

	mockThreadService.On("IsParticipant", mock.Anything, threadID, userID).Return(true, nil)
	mockHub.On("JoinThread", clientID, threadID).Return()

	token := generateTestToken(t, jwtSvc, userID, "cliff@example.com", models.RoleClient, "Cliff Client")
	req := httptest.NewRequest(http.MethodPost, "/events/"+clientID+"/join/"+threadID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockHub.AssertExpectations(t)
}

func TestEventsHandler_Join_NotParticipant(t *testing.T) {
	jwtSvc := newTestJWTService()
	app, mockThreadService, mockHub := newEventsTestApp(t, jwtSvc)

	userID := uuid.New()
	threadID := uuid.New()
	clientID := uuid.New().String()

	mockThreadService.On("IsParticipant", mock.Anything, threadID, userID).Return(false, nil)

	token := generateTestToken(t, jwtSvc, userID, "stranger@example.com", models.RoleClient, "Stranger")
	req := httptest.NewRequest(http.MethodPost, "/events/"+clientID+"/join/"+threadID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockHub.AssertNotCalled(t, "JoinThread", mock.Anything, mock.Anything)
}

func TestEventsHandler_Leave(t *testing.T) {
	jwtSvc := newTestJWTService()
	app, _, mockHub := newEventsTestApp(t, jwtSvc)

	threadID := uuid.New()
	clientID := uuid.New().String()
	mockHub.On("LeaveThread", clientID, threadID).Return()

	token := generateTestToken(t, jwtSvc, uuid.New(), "cliff@example.com", models.RoleClient, "Cliff Client")
	req := httptest.NewRequest(http.MethodPost, "/events/"+clientID+"/leave/"+threadID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockHub.AssertExpectations(t)
}

func TestEventsHandler_Join_InvalidThreadID(t *testing.T) {
	jwtSvc := newTestJWTService()
	app, _, mockHub := newEventsTestApp(t, jwtSvc)

	token := generateTestToken(t, jwtSvc, uuid.New(), "cliff@example.com", models.RoleClient, "Cliff Client")
	req := httptest.NewRequest(http.MethodPost, "/events/"+uuid.New().String()+"/join/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockHub.AssertNotCalled(t, "JoinThread", mock.Anything, mock.Anything)
}
