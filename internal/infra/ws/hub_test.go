package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/websocket"

	"github.com/xavierca1/ligue-crm/internal/auth"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("segredo-de-teste-bem-longo", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	hub := NewHub()
	srv := httptest.NewServer(NewHandler(hub, tokens).WebSocket())
	t.Cleanup(srv.Close)
	return hub, srv, tokens
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		t.Fatalf("websocket.Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func receiveFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	if err := websocket.JSON.Receive(conn, &frame); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	return frame
}

func assertNoFrame(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var frame Frame
	err := websocket.JSON.Receive(conn, &frame)
	assert.Error(t, err, "não deveria haver frame pendente, veio %+v", frame)
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	hub, srv, tokens := newTestServer(t)

	token, _ := tokens.Generate("user-a", "SALES_EXEC")
	connAuth := dial(t, srv, token)
	connAnon := dial(t, srv, "")

	waitFor(t, func() bool { return len(hub.snapshotAll()) == 2 }, "peers não registraram")

	hub.Broadcast("lead:created", map[string]string{"id": "lead-1"})

	for _, conn := range []*websocket.Conn{connAuth, connAnon} {
		frame := receiveFrame(t, conn)
		assert.Equal(t, "lead:created", frame.Event)
		data := frame.Data.(map[string]any)
		assert.Equal(t, "lead-1", data["id"])
	}
}

func TestNotifyOnlyReachesUserRoom(t *testing.T) {
	hub, srv, tokens := newTestServer(t)

	tokenA, _ := tokens.Generate("user-a", "SALES_EXEC")
	tokenB, _ := tokens.Generate("user-b", "SALES_EXEC")
	connA := dial(t, srv, tokenA)
	connB := dial(t, srv, tokenB)

	waitFor(t, func() bool { return len(hub.snapshotRoom("user-a")) == 1 }, "sala de user-a não montou")
	waitFor(t, func() bool { return len(hub.snapshotRoom("user-b")) == 1 }, "sala de user-b não montou")

	hub.Notify("user-a", "notification:leadAssigned", map[string]string{"leadId": "lead-1"})

	frame := receiveFrame(t, connA)
	assert.Equal(t, "notification:leadAssigned", frame.Event)

	assertNoFrame(t, connB)
}

func TestNotifySameUserMultiDevice(t *testing.T) {
	hub, srv, tokens := newTestServer(t)

	token, _ := tokens.Generate("user-a", "SALES_EXEC")
	conn1 := dial(t, srv, token)
	conn2 := dial(t, srv, token)

	waitFor(t, func() bool { return len(hub.snapshotRoom("user-a")) == 2 }, "sala multi-dispositivo não montou")

	hub.Notify("user-a", "notification:leadAssigned", map[string]string{"leadId": "lead-1"})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		frame := receiveFrame(t, conn)
		assert.Equal(t, "notification:leadAssigned", frame.Event)
	}
}

func TestAnonymousConnectionGetsNoPrivateRoom(t *testing.T) {
	hub, srv, _ := newTestServer(t)

	conn := dial(t, srv, "")
	waitFor(t, func() bool { return len(hub.snapshotAll()) == 1 }, "peer não registrou")

	// Join auto-declarado não vale nada: a sala vem do token.
	err := websocket.JSON.Send(conn, map[string]string{"type": "join", "userId": "user-a"})
	assert.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, hub.snapshotRoom("user-a"))
}

func TestUnregisterDropsRooms(t *testing.T) {
	hub, srv, tokens := newTestServer(t)

	token, _ := tokens.Generate("user-a", "SALES_EXEC")
	conn := dial(t, srv, token)

	waitFor(t, func() bool { return len(hub.snapshotRoom("user-a")) == 1 }, "sala não montou")

	conn.Close()
	waitFor(t, func() bool { return len(hub.snapshotAll()) == 0 }, "peer não saiu do hub")
	assert.Empty(t, hub.snapshotRoom("user-a"))
}

func TestBroadcastDropsWedgedPeer(t *testing.T) {
	oldWait := writeWait
	writeWait = 100 * time.Millisecond
	defer func() { writeWait = oldWait }()

	hub, srv, _ := newTestServer(t)

	// Conexão que nunca lê: o buffer TCP enche e as escritas param.
	dial(t, srv, "")
	waitFor(t, func() bool { return len(hub.snapshotAll()) == 1 }, "peer não registrou")

	payload := strings.Repeat("x", 256*1024)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		start := time.Now()
		hub.Broadcast("lead:updated", map[string]string{"blob": payload})
		assert.Less(t, time.Since(start), 2*time.Second, "broadcast não pode bloquear no peer travado")
		if len(hub.snapshotAll()) == 0 {
			return
		}
	}
	t.Fatal("peer travado não foi removido do hub")
}

func TestUnregisterTwiceKeepsHubConsistent(t *testing.T) {
	hub := NewHub()
	p := NewPeer(nil)

	hub.Register(p)
	hub.JoinUser(p, "user-a")

	hub.Unregister(p)
	hub.Unregister(p)

	assert.Empty(t, hub.snapshotAll())
	assert.Empty(t, hub.snapshotRoom("user-a"))
}
