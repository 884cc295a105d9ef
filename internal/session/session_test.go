package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/wordwave/internal/directory"
	"github.com/scythe504/wordwave/internal/domain"
	"github.com/scythe504/wordwave/internal/room"
	"github.com/scythe504/wordwave/internal/wire"
)

// newTestConnPair upgrades a real HTTP connection into a WebSocket pair:
// the server-side *websocket.Conn a Session would be built around, and the
// client-side *websocket.Conn a test drives directly.
func newTestConnPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	connCh := make(chan *websocket.Conn, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		connCh <- c
	}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	server = <-connCh
	t.Cleanup(func() { server.Close() })
	return server, client
}

func readGameStateFrame(t *testing.T, client *websocket.Conn) wire.GameStateFrame {
	t.Helper()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	var frame wire.GameStateFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	require.Equal(t, wire.KindGameState, frame.Kind)
	return frame
}

func TestRun_PingPong(t *testing.T) {
	dirHandle := directory.Spawn([]string{"sun", "moon", "ocean"}, time.Minute)
	created := dirHandle.CreateGame()
	result := dirHandle.GetGameActor(created.ID)
	require.NoError(t, result.Err)

	server, client := newTestConnPair(t)
	sess := New(server, result.Room, "p1")
	go sess.Run()

	readGameStateFrame(t, client) // initial snapshot on join

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(wire.PingText)))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, wire.PongText, string(data))
}

func TestRun_UnparseableFrameStaysOpen(t *testing.T) {
	dirHandle := directory.Spawn([]string{"sun", "moon", "ocean"}, time.Minute)
	created := dirHandle.CreateGame()
	result := dirHandle.GetGameActor(created.ID)
	require.NoError(t, result.Err)

	server, client := newTestConnPair(t)
	sess := New(server, result.Room, "p1")
	go sess.Run()

	readGameStateFrame(t, client) // initial snapshot on join

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("not json")))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	var frame wire.ErrorFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, domain.ErrUnprocessableMessage, frame.Type)

	// The connection is still alive: a subsequent ping still gets a pong.
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(wire.PingText)))
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err = client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, wire.PongText, string(data))
}

func TestRun_DuplicateNicknameRejectedWithErrorFrameThenClosed(t *testing.T) {
	dirHandle := directory.Spawn([]string{"sun", "moon", "ocean"}, time.Minute)
	created := dirHandle.CreateGame()
	result := dirHandle.GetGameActor(created.ID)
	require.NoError(t, result.Err)

	firstServer, firstClient := newTestConnPair(t)
	first := New(firstServer, result.Room, "p1")
	go first.Run()
	readGameStateFrame(t, firstClient)

	secondServer, secondClient := newTestConnPair(t)
	second := New(secondServer, result.Room, "p1")
	done := make(chan struct{})
	go func() {
		second.Run()
		close(done)
	}()

	require.NoError(t, secondClient.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := secondClient.ReadMessage()
	require.NoError(t, err)
	var frame wire.ErrorFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, domain.ErrPlayerAlreadyExists, frame.Type)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected rejected session to end")
	}
}

func TestWriteError_DomainErrorSurfacesAsFrame(t *testing.T) {
	server, client := newTestConnPair(t)
	s := New(server, room.Handle{}, "p1")

	s.writeError(domain.NewError(domain.ErrGameDoesNotExist, "ABCDE"))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	var frame wire.ErrorFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, domain.ErrGameDoesNotExist, frame.Type)
	assert.Equal(t, "ABCDE", frame.Detail)
}

func TestWriteError_InternalErrorIsSuppressed(t *testing.T) {
	server, client := newTestConnPair(t)
	s := New(server, room.Handle{}, "p1")

	s.writeError(domain.NewInternalError("invariant violated: %s", "boom"))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err, "internal errors must never reach the client")
}

func TestWriteError_PlainErrorFallsBackToUnprocessableMessage(t *testing.T) {
	server, client := newTestConnPair(t)
	s := New(server, room.Handle{}, "p1")

	s.writeError(assertableErr{"boom"})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	var frame wire.ErrorFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, domain.ErrUnprocessableMessage, frame.Type)
}

type assertableErr struct{ msg string }

func (e assertableErr) Error() string { return e.msg }
