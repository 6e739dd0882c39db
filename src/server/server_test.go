package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"docinspect/src/auth"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeDispatcher struct {
	registry *PeerRegistry
}

func (d *fakeDispatcher) Dispatch(_ context.Context, peer *Peer, method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case "Test.echo":
		return map[string]json.RawMessage{"params": params}, nil
	case "Test.enable":
		d.registry.Register(peer)
		return nil, nil
	case "Test.fail":
		return nil, errors.New("I/O failure: disk gone")
	default:
		return nil, NewRPCError(CodeMethodNotFound, "%s wasn't found", method)
	}
}

type recordingListener struct {
	mu     sync.Mutex
	events []string
}

func (l *recordingListener) OnPeerRegistered(p *Peer) {
	l.mu.Lock()
	l.events = append(l.events, "registered")
	l.mu.Unlock()
	_ = p.Notify("Test.welcome", map[string]string{"id": p.ID})
}

func (l *recordingListener) OnPeerUnregistered(*Peer) {
	l.mu.Lock()
	l.events = append(l.events, "unregistered")
	l.mu.Unlock()
}

func (l *recordingListener) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func newTestBridge(t *testing.T, creds *auth.Credentials) (*Server, *PeerRegistry, *recordingListener, *httptest.Server) {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()
	listener := &recordingListener{}
	registry := NewPeerRegistry("Test", []PeerListener{listener}, logger)
	srv := NewServer(Config{Title: "orders-app", Version: "1.0.0", Credentials: creds}, &fakeDispatcher{registry: registry}, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, registry, listener, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + InspectorPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
	return readFrame(t, conn)
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestDispatchResult(t *testing.T) {
	_, _, _, ts := newTestBridge(t, nil)
	conn := dial(t, ts)

	msg := roundTrip(t, conn, `{"id":1,"method":"Test.echo","params":{"x":"y"}}`)
	assert.Equal(t, float64(1), msg["id"])
	assert.Equal(t, map[string]interface{}{"params": map[string]interface{}{"x": "y"}}, msg["result"])
	assert.NotContains(t, msg, "error")
}

func TestDispatchErrors(t *testing.T) {
	_, _, _, ts := newTestBridge(t, nil)
	conn := dial(t, ts)

	tests := []struct {
		name   string
		frame  string
		code   float64
		prefix string
	}{
		{"unknown method", `{"id":2,"method":"Nope.nope"}`, CodeMethodNotFound, "Nope.nope"},
		{"internal", `{"id":3,"method":"Test.fail"}`, CodeInternalError, "I/O failure"},
		{"parse", `{"id":`, CodeParseError, "parse error"},
		{"no method", `{"id":4}`, CodeInvalidRequest, "method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := roundTrip(t, conn, tt.frame)
			require.Contains(t, msg, "error")
			rpcErr := msg["error"].(map[string]interface{})
			assert.Equal(t, tt.code, rpcErr["code"])
			assert.True(t, strings.HasPrefix(rpcErr["message"].(string), tt.prefix), "message %q", rpcErr["message"])
		})
	}
}

func TestNotificationsGetNoResponse(t *testing.T) {
	_, _, _, ts := newTestBridge(t, nil)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"method":"Test.echo"}`)))
	msg := roundTrip(t, conn, `{"id":"next","method":"Test.echo"}`)
	assert.Equal(t, "next", msg["id"])
}

func TestRegistryLifecycle(t *testing.T) {
	srv, registry, listener, ts := newTestBridge(t, nil)
	conn := dial(t, ts)

	welcome := roundTrip(t, conn, `{"id":1,"method":"Test.enable"}`)
	assert.Equal(t, "Test.welcome", welcome["method"])
	ack := readFrame(t, conn)
	assert.Equal(t, float64(1), ack["id"])
	assert.Equal(t, map[string]interface{}{}, ack["result"])

	// A second enable does not notify listeners again.
	again := roundTrip(t, conn, `{"id":2,"method":"Test.enable"}`)
	assert.Equal(t, float64(2), again["id"])
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 1, srv.PeerCount())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return registry.Len() == 0 && srv.PeerCount() == 0 },
		5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"registered", "unregistered"}, listener.Events())
}

func TestWriteToConsoleBroadcasts(t *testing.T) {
	_, registry, _, ts := newTestBridge(t, nil)
	a, b := dial(t, ts), dial(t, ts)
	for _, c := range []*websocket.Conn{a, b} {
		readFrameAfter(t, c, `{"id":1,"method":"Test.enable"}`)
	}
	require.Equal(t, 2, registry.Len())

	registry.WriteToConsole("debug", "javascript", "{\n    \"a\": \"b\"\n}")
	for _, c := range []*websocket.Conn{a, b} {
		msg := readFrame(t, c)
		assert.Equal(t, "Console.messageAdded", msg["method"])
		assert.Equal(t, map[string]interface{}{
			"message": map[string]interface{}{
				"level":  "debug",
				"source": "javascript",
				"text":   "{\n    \"a\": \"b\"\n}",
			},
		}, msg["params"])
	}
}

// readFrameAfter sends frame and drains the welcome event and the response.
func readFrameAfter(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.Equal(t, "Test.welcome", roundTrip(t, conn, frame)["method"])
	readFrame(t, conn)
}

func TestDiscoveryRoutes(t *testing.T) {
	_, _, _, ts := newTestBridge(t, nil)

	resp, err := http.Get(ts.URL + "/json")
	require.NoError(t, err)
	defer resp.Body.Close()
	var targets []Target
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&targets))
	require.Len(t, targets, 1)
	assert.Equal(t, "orders-app", targets[0].Title)
	assert.Equal(t, "ws"+strings.TrimPrefix(ts.URL, "http")+InspectorPath, targets[0].WebSocketDebuggerURL)

	resp, err = http.Get(ts.URL + "/json/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var version map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&version))
	assert.Equal(t, "docinspect/1.0.0", version["Browser"])

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestBasicAuthProtectsBridge(t *testing.T) {
	creds, err := auth.ParseCredentials([]string{"ann:secret"}, auth.HashParams{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32})
	require.NoError(t, err)
	_, _, _, ts := newTestBridge(t, creds)

	resp, err := http.Get(ts.URL + "/json")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + InspectorPath
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{}
	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	req.SetBasicAuth("ann", "secret")
	header.Set("Authorization", req.Header.Get("Authorization"))
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()
	msg := roundTrip(t, conn, `{"id":1,"method":"Test.echo"}`)
	assert.Equal(t, float64(1), msg["id"])
}

func TestServeStopsOnCancel(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	srv := NewServer(Config{Host: "127.0.0.1", Port: 0}, &fakeDispatcher{registry: NewPeerRegistry("Test", nil, logger)}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
