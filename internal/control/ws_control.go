package control

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/sampler"
	"github.com/frudas24/touchmouse/internal/session"
)

const (
	feedbackBuffer  = 128
	feedbackTimeout = time.Second
)

// Poster runs closures on the event loop.
type Poster interface {
	Post(fn func()) bool
}

// Server handles the pad websocket. A new connection replaces the active one.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	session  *session.Session
	loop     Poster
	ctrl     *Controller
	pad      *padConn
	ready    bool
	started  time.Time
}

type padConn struct {
	conn *websocket.Conn
	out  chan Feedback
	done chan struct{}
}

// NewServer creates a pad websocket server. build receives the indicator that
// draws on the connected page and returns the controller fed by the socket.
func NewServer(sess *session.Session, lp Poster, build func(ind indicator.Indicator) *Controller) *Server {
	s := &Server{
		session: sess,
		loop:    lp,
		started: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.ctrl = build(NewFeedbackIndicator(s.Emit))
	return s
}

// Controller returns the controller fed by the socket.
func (s *Server) Controller() *Controller {
	return s.ctrl
}

// ServeHTTP upgrades the connection and feeds pad messages to the controller.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.Authorized() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	pad := &padConn{conn: conn, out: make(chan Feedback, feedbackBuffer), done: make(chan struct{})}
	s.acceptConn(pad)
	defer s.cleanupConn(pad)
	go pad.writeLoop()

	logger := log.WithField("remote", r.RemoteAddr)
	logger.Info("control: pad connected")
	smooth, enabled := s.session.SmoothScroll(), s.session.InputEnabled()
	s.loop.Post(func() {
		s.ctrl.SetSmooth(smooth)
		s.ctrl.SetInputEnabled(enabled)
	})
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	s.Emit(Feedback{T: FbStatus, Ready: &ready})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			logger.WithError(err).Debug("control: pad disconnected")
			return
		}
		s.handleMessage(msg)
	}
}

// Emit sends fb to the connected page, dropping it when the page is slow or absent.
func (s *Server) Emit(fb Feedback) {
	s.mu.Lock()
	pad := s.pad
	s.mu.Unlock()
	if pad == nil {
		return
	}
	select {
	case pad.out <- fb:
	default:
	}
}

// SetHostReady reports command channel readiness to the page.
func (s *Server) SetHostReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
	s.Emit(Feedback{T: FbStatus, Ready: &ready})
}

// HostMessage forwards a host status line to the page.
func (s *Server) HostMessage(text string) {
	s.Emit(Feedback{T: FbHost, Text: text})
}

// Connected reports whether a pad is attached.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pad != nil
}

// handleMessage dispatches a single pad message.
func (s *Server) handleMessage(msg Message) {
	switch msg.T {
	case MsgEvent:
		s.handleEvent(msg)
	case MsgSmooth:
		if msg.Enabled == nil {
			return
		}
		on := *msg.Enabled
		s.session.SetSmoothScroll(on)
		s.loop.Post(func() { s.ctrl.SetSmooth(on) })
	case MsgInputEnabled:
		if msg.Enabled == nil {
			return
		}
		on := *msg.Enabled
		s.session.SetInputEnabled(on)
		s.loop.Post(func() { s.ctrl.SetInputEnabled(on) })
	default:
		log.WithField("t", msg.T).Debug("control: unknown message")
	}
}

// handleEvent decodes a raw browser event and posts it to the loop. Malformed
// events are dropped.
func (s *Server) handleEvent(msg Message) {
	fallback := float64(time.Since(s.started).Microseconds()) / 1000
	ev, err := sampler.Decode(msg.Ev, fallback)
	if err != nil {
		log.WithError(err).WithField("area", msg.Area).Warn("control: dropping event")
		return
	}
	area, button := msg.Area, msg.Button
	s.loop.Post(func() { s.ctrl.Handle(area, button, ev) })
}

// acceptConn installs pad, closing any previous connection.
func (s *Server) acceptConn(pad *padConn) {
	s.mu.Lock()
	old := s.pad
	s.pad = pad
	s.mu.Unlock()
	if old != nil {
		log.Info("control: replacing previous pad connection")
		s.loop.Post(s.ctrl.Reset)
		_ = old.conn.Close()
	}
}

// cleanupConn clears the active connection and stops its gestures.
func (s *Server) cleanupConn(pad *padConn) {
	s.mu.Lock()
	current := s.pad == pad
	if current {
		s.pad = nil
	}
	s.mu.Unlock()
	close(pad.done)
	_ = pad.conn.Close()
	if current {
		s.loop.Post(s.ctrl.Reset)
	}
}

// writeLoop writes queued feedback until the connection closes.
func (p *padConn) writeLoop() {
	for {
		select {
		case <-p.done:
			return
		case fb := <-p.out:
			_ = p.conn.SetWriteDeadline(time.Now().Add(feedbackTimeout))
			if err := p.conn.WriteJSON(fb); err != nil {
				return
			}
		}
	}
}
