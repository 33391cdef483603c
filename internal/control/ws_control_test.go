package control

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/session"
	"github.com/frudas24/touchmouse/internal/testutil"
)

// lockedPoster runs closures immediately, one at a time.
type lockedPoster struct {
	mu sync.Mutex
}

// Post runs fn under the lock.
func (p *lockedPoster) Post(fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
	return true
}

type padServer struct {
	clock  *testutil.Clock
	rec    *testutil.Recorder
	poster *lockedPoster
	sess   *session.Session
	s      *Server
	srv    *httptest.Server
}

// newPadServer starts a pad websocket server backed by a recorder.
func newPadServer(t *testing.T, sess *session.Session) *padServer {
	t.Helper()
	p := &padServer{clock: testutil.NewClock(), rec: &testutil.Recorder{}, poster: &lockedPoster{}, sess: sess}
	p.s = NewServer(sess, p.poster, func(ind indicator.Indicator) *Controller {
		return NewController(p.clock, p.rec, ind, DefaultControllerConfig())
	})
	p.srv = httptest.NewServer(p.s)
	t.Cleanup(p.srv.Close)
	return p
}

// dial connects and consumes the initial status message.
func (p *padServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(p.srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	fb := readFeedback(t, conn)
	require.Equal(t, FbStatus, fb.T)
	require.NotNil(t, fb.Ready)
	return conn
}

// lines returns the recorded commands.
func (p *padServer) lines() []string {
	return p.rec.Lines()
}

// readFeedback reads one feedback message.
func readFeedback(t *testing.T, conn *websocket.Conn) Feedback {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var fb Feedback
	require.NoError(t, conn.ReadJSON(&fb))
	return fb
}

// sendEvent writes a raw event message.
func sendEvent(t *testing.T, conn *websocket.Conn, area, button, ev string) {
	t.Helper()
	msg := `{"t":"ev","area":"` + area + `","button":"` + button + `","ev":` + ev + `}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

// TestServer_ButtonTapClicks verifies a tap on a button reaches the command stream and feedback.
func TestServer_ButtonTapClicks(t *testing.T) {
	p := newPadServer(t, session.New("", false))
	conn := p.dial(t)

	sendEvent(t, conn, AreaButton, "left", `{"type":"mousedown","timeStamp":0,"clientX":5,"clientY":5}`)
	fb := readFeedback(t, conn)
	assert.Equal(t, FbButton, fb.T)
	assert.Equal(t, "left", fb.Button)
	assert.True(t, fb.Held)

	sendEvent(t, conn, AreaButton, "left", `{"type":"mouseup","timeStamp":40,"clientX":5,"clientY":5}`)
	require.Eventually(t, func() bool { return len(p.lines()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"left click"}, p.lines())
}

// TestServer_MalformedEventDropped verifies a bad event is skipped without closing the socket.
func TestServer_MalformedEventDropped(t *testing.T) {
	p := newPadServer(t, session.New("", false))
	conn := p.dial(t)

	sendEvent(t, conn, AreaMove, "", `{"type":"touchstart","touches":[]}`)
	sendEvent(t, conn, AreaMove, "", `{"type":"touchstart","timeStamp":0,"touches":[{"clientX":1,"clientY":2}]}`)

	require.Eventually(t, func() bool { return len(p.lines()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"spin 0 0"}, p.lines())
}

// TestServer_SmoothToggle verifies the smooth message updates session and controller.
func TestServer_SmoothToggle(t *testing.T) {
	sess := session.New("", false)
	p := newPadServer(t, sess)
	conn := p.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"smooth","enabled":true}`)))
	require.Eventually(t, sess.SmoothScroll, 2*time.Second, 10*time.Millisecond)

	var smooth bool
	p.poster.Post(func() { smooth = p.s.Controller().Smooth() })
	assert.True(t, smooth)
}

// TestServer_DisconnectReleasesToggles verifies closing the pad releases toggled buttons.
func TestServer_DisconnectReleasesToggles(t *testing.T) {
	p := newPadServer(t, session.New("", false))
	conn := p.dial(t)

	sendEvent(t, conn, AreaButton, "right", `{"type":"touchstart","timeStamp":0,"targetTouches":[{"clientX":5,"clientY":5}]}`)
	_ = readFeedback(t, conn)
	p.poster.Post(func() { p.clock.Advance(300 * time.Millisecond) })
	require.Equal(t, []string{"right down"}, p.lines())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return len(p.lines()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"right down", "right up"}, p.lines())
	assert.False(t, p.s.Connected())
}

// TestServer_RequiresLogin verifies password mode rejects unauthenticated pads.
func TestServer_RequiresLogin(t *testing.T) {
	p := newPadServer(t, session.New("secret", true))

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(p.srv.URL, "http"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
