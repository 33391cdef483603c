package host

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/touchmouse/internal/testutil"
)

// dial connects to srv and consumes the greeting.
func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "host: ready", string(msg))
	return conn
}

// TestServer_ExecutesAndReportsErrors verifies commands run and bad lines get an error reply.
func TestServer_ExecutesAndReportsErrors(t *testing.T) {
	inj := &testutil.FakeInjector{}
	srv := httptest.NewServer(NewServer(NewInterpreter(inj, DefaultConfig()), nil))
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("left click")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("wiggle 1")))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(msg), "error: "), string(msg))

	calls := inj.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Button left click", calls[0].String())
}

// TestServer_NewConnectionReplacesOld verifies the replace policy.
func TestServer_NewConnectionReplacesOld(t *testing.T) {
	s := NewServer(NewInterpreter(&testutil.FakeInjector{}, DefaultConfig()), nil)
	srv := httptest.NewServer(s)
	defer srv.Close()

	first := dial(t, srv)
	_ = dial(t, srv)

	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	assert.Error(t, err)
	assert.True(t, s.Connected())
}

// TestServer_Unauthorized verifies the authorize hook.
func TestServer_Unauthorized(t *testing.T) {
	s := NewServer(NewInterpreter(&testutil.FakeInjector{}, DefaultConfig()), func(*http.Request) bool { return false })
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
