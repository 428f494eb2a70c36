package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(pollID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New().String(),
		PollID: pollID,
		send:   make(chan WSMessage, 8),
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	pollID := uuid.New()

	c1 := newTestClient(pollID)
	c2 := newTestClient(pollID)
	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ViewerCount(pollID))

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ViewerCount(pollID))
	hub.Unregister(c2)
	assert.Equal(t, 0, hub.ViewerCount(pollID))
}

func TestHub_BroadcastReachesOnlyThePollRoom(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	pollA := uuid.New()
	pollB := uuid.New()

	inRoom := newTestClient(pollA)
	elsewhere := newTestClient(pollB)
	hub.Register(inRoom)
	hub.Register(elsewhere)

	hub.BroadcastToPoll(pollA, EventVoteCast, map[string]string{"option": "Go"})

	select {
	case msg := <-inRoom.send:
		assert.Equal(t, EventVoteCast, msg.Event)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(msg.Data, &payload))
		assert.Equal(t, "Go", payload["option"])
	default:
		t.Fatal("client in the poll room received nothing")
	}

	select {
	case <-elsewhere.send:
		t.Fatal("client in another poll room received the event")
	default:
	}
}

func TestHub_BroadcastSkipsFullBuffers(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	pollID := uuid.New()

	c := &Client{ID: uuid.New().String(), PollID: pollID, send: make(chan WSMessage)}
	hub.Register(c)

	// Unbuffered channel with no reader: the broadcast must not block.
	hub.BroadcastToPoll(pollID, EventPollUpdated, nil)
	assert.Equal(t, 1, hub.ViewerCount(pollID))
}
