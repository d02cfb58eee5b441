package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stefan/gigport-api/internal/middleware"
	"github.com/stefan/gigport-api/internal/models"
	"github.com/stefan/gigport-api/internal/services"
	"github.com/stefan/gigport-api/pkg/dto"
	"github.com/stefan/gigport-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *services.JWTService {
	return services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
}

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID, email, role, fullName string) string {
	t.Helper()
	pair, err := jwtSvc.GenerateTokenPair(userID, email, role, fullName)
	require.NoError(t, err)
	return pair.AccessToken
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	mockTokenService := new(testutil.MockTokenService)
	jwtSvc := newTestJWTService()
	handler := NewAuthHandler(mockUserService, mockTokenService, jwtSvc)

	userID := uuid.New()
	user := &models.User{
		ID:       userID,
		Email:    "new@example.com",
		FullName: "New User",
		Role:     models.RoleClient,
	}

	mockUserService.On("Create", mock.Anything, "New User", "new@example.com", "password123", "client").
		Return(user, nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, userID, mock.Anything, mock.Anything).
		Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/signup", handler.Signup)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", jsonBody(t, dto.SignupRequest{
		FullName: "New User",
		Email:    "new@example.com",
		Password: "password123",
		Role:     "client",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, userID, response.User.ID)
	assert.Equal(t, "new@example.com", response.User.Email)
	assert.NotEmpty(t, response.Token.AccessToken)
	assert.NotEmpty(t, response.Token.RefreshToken)

	mockUserService.AssertExpectations(t)
	mockTokenService.AssertExpectations(t)
}

func TestAuthHandler_Signup_EmailTaken(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	mockTokenService := new(testutil.MockTokenService)
	handler := NewAuthHandler(mockUserService, mockTokenService, newTestJWTService())

	mockUserService.On("Create", mock.Anything, "New User", "taken@example.com", "password123", "client").
		Return(nil, services.ErrEmailTaken)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/signup", handler.Signup)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", jsonBody(t, dto.SignupRequest{
		FullName: "New User",
		Email:    "taken@example.com",
		Password: "password123",
		Role:     "client",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	mockUserService.AssertExpectations(t)
}

func TestAuthHandler_Signup_InvalidRole(t *testing.T) {
	handler := NewAuthHandler(new(testutil.MockUserService), new(testutil.MockTokenService), newTestJWTService())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/signup", handler.Signup)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", jsonBody(t, dto.SignupRequest{
		FullName: "New User",
		Email:    "new@example.com",
		Password: "password123",
		Role:     "admin",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	handler := NewAuthHandler(new(testutil.MockUserService), new(testutil.MockTokenService), newTestJWTService())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/signup", handler.Signup)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", jsonBody(t, dto.SignupRequest{
		FullName: "New User",
		Email:    "new@example.com",
		Password: "short",
		Role:     "client",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	mockTokenService := new(testutil.MockTokenService)
	handler := NewAuthHandler(mockUserService, mockTokenService, newTestJWTService())

	userID := uuid.New()
	user := &models.User{
		ID:       userID,
		Email:    "test@example.com",
		FullName: "Test User",
		Role:     models.RoleFreelancer,
	}

	mockUserService.On("Authenticate", mock.Anything, "test@example.com", "password123").
		Return(user, nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, userID, mock.Anything, mock.Anything).
		Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/login", handler.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, dto.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "freelancer", response.User.Role)
	mockUserService.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	handler := NewAuthHandler(mockUserService, new(testutil.MockTokenService), newTestJWTService())

	mockUserService.On("Authenticate", mock.Anything, "test@example.com", "wrong").
		Return(nil, services.ErrInvalidCredentials)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/login", handler.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, dto.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockUserService.AssertExpectations(t)
}

func TestAuthHandler_RefreshToken_Rotates(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	mockTokenService := new(testutil.MockTokenService)
	jwtSvc := newTestJWTService()
	handler := NewAuthHandler(mockUserService, mockTokenService, jwtSvc)

	userID := uuid.New()
	user := &models.User{ID: userID, Email: "test@example.com", FullName: "Test User", Role: models.RoleClient}

	pair, err := jwtSvc.GenerateTokenPair(userID, user.Email, user.Role, user.FullName)
	require.NoError(t, err)
	tokenHash := services.HashToken(pair.RefreshToken)

	mockTokenService.On("ValidateRefreshToken", mock.Anything, tokenHash).Return(userID, nil)
	mockUserService.On("GetByID", mock.Anything, userID).Return(user, nil)
	mockTokenService.On("RevokeRefreshToken", mock.Anything, tokenHash).Return(nil)
	mockTokenService.On("StoreRefreshToken", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", jsonBody(t, dto.RefreshTokenRequest{
		RefreshToken: pair.RefreshToken,
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.AccessToken)
	mockTokenService.AssertExpectations(t)
}

func TestAuthHandler_RefreshToken_NotStored(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	mockTokenService := new(testutil.MockTokenService)
	jwtSvc := newTestJWTService()
	handler := NewAuthHandler(mockUserService, mockTokenService, jwtSvc)

	userID := uuid.New()
	pair, err := jwtSvc.GenerateTokenPair(userID, "test@example.com", "client", "Test User")
	require.NoError(t, err)

	mockTokenService.On("ValidateRefreshToken", mock.Anything, services.HashToken(pair.RefreshToken)).
		Return(uuid.Nil, services.ErrRefreshTokenNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", jsonBody(t, dto.RefreshTokenRequest{
		RefreshToken: pair.RefreshToken,
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockTokenService.AssertExpectations(t)
}

func TestAuthHandler_Me_Success(t *testing.T) {
	mockUserService := new(testutil.MockUserService)
	jwtSvc := newTestJWTService()
	handler := NewAuthHandler(mockUserService, new(testutil.MockTokenService), jwtSvc)

	userID := uuid.New()
	user := &models.User{ID: userID, Email: "test@example.com", FullName: "Test User", Role: models.RoleClient}
	mockUserService.On("GetByID", mock.Anything, userID).Return(user, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/users/me", handler.Me)

	token := generateTestToken(t, jwtSvc, userID, user.Email, user.Role, user.FullName)
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, userID, response.ID)
	mockUserService.AssertExpectations(t)
}

func TestAuthHandler_Me_NoToken(t *testing.T) {
	jwtSvc := newTestJWTService()
	handler := NewAuthHandler(new(testutil.MockUserService), new(testutil.MockTokenService), jwtSvc)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/users/me", handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	mockTokenService := new(testutil.MockTokenService)
	jwtSvc := newTestJWTService()
	handler := NewAuthHandler(new(testutil.MockUserService), mockTokenService, jwtSvc)

	userID := uuid.New()
	mockTokenService.On("RevokeAllUserTokens", mock.Anything, userID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/auth/logout-all", handler.LogoutAll)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com", "client", "Test User")
	req := httptest.NewRequest(http.MethodPost, "/auth/logout-all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockTokenService.AssertExpectations(t)
}
