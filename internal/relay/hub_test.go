package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func newTestClient(userID uuid.UUID, threads ...uuid.UUID) *Client {
	m := make(map[uuid.UUID]bool, len(threads))
	for _, id := range threads {
		m[id] = true
	}
	return &Client{
		ID:      uuid.New().String(),
		UserID:  userID,
		Threads: m,
		Send:    make(chan []byte, 16),
	}
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishMessage_DeliversToRoom(t *testing.T) {
	hub := newTestHub(t)
	threadID := uuid.New()
	messageID := uuid.New()
	createdAt := time.Now().UTC()

	client := newTestClient(uuid.New(), threadID)
	hub.Register(client)

	hub.PublishMessage(threadID, messageID, "Cliff Client", "hello", createdAt)

	event := receiveEvent(t, client)
	assert.Equal(t, "message:new", event.Type)

	payload, err := json.Marshal(event.Data)
	require.NoError(t, err)
	var msg MessageEvent
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, messageID, msg.ID)
	assert.Equal(t, threadID, msg.ThreadID)
	assert.Equal(t, "Cliff Client", msg.From)
	assert.Equal(t, "hello", msg.Text)
}

func TestHub_PublishMessage_SkipsOtherRooms(t *testing.T) {
	hub := newTestHub(t)
	threadID := uuid.New()

	joined := newTestClient(uuid.New(), threadID)
	other := newTestClient(uuid.New(), uuid.New())
	hub.Register(joined)
	hub.Register(other)

	hub.PublishMessage(threadID, uuid.New(), "Cliff Client", "hello", time.Now())

	receiveEvent(t, joined)
	assertNoEvent(t, other)
}

func TestHub_JoinThread(t *testing.T) {
	hub := newTestHub(t)
	threadID := uuid.New()

	client := newTestClient(uuid.New())
	hub.Register(client)

	hub.PublishMessage(threadID, uuid.New(), "Cliff Client", "before join", time.Now())
	assertNoEvent(t, client)

	hub.JoinThread(client.ID, threadID)
	hub.PublishMessage(threadID, uuid.New(), "Cliff Client", "after join", time.Now())

	event := receiveEvent(t, client)
	assert.Equal(t, "message:new", event.Type)
}

func TestHub_LeaveThread(t *testing.T) {
	hub := newTestHub(t)
	threadID := uuid.New()

	client := newTestClient(uuid.New(), threadID)
	hub.Register(client)

	hub.LeaveThread(client.ID, threadID)
	hub.PublishMessage(threadID, uuid.New(), "Cliff Client", "hello", time.Now())

	assertNoEvent(t, client)
}

func TestHub_Unregister_ClosesSend(t *testing.T) {
	hub := newTestHub(t)

	client := newTestClient(uuid.New())
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestHub_Stop_DisconnectsClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(uuid.New())
	hub.Register(client)

	hub.Stop()

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
