package host

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/logging"
)

// Server accepts the pad command stream on a websocket. A new connection
// replaces the active one.
type Server struct {
	mu        sync.Mutex
	upgrader  websocket.Upgrader
	interp    *Interpreter
	authorize func(*http.Request) bool
	conn      *websocket.Conn
	cancel    context.CancelFunc
}

// NewServer creates a command websocket server. authorize may be nil.
func NewServer(interp *Interpreter, authorize func(*http.Request) bool) *Server {
	return &Server{
		interp:    interp,
		authorize: authorize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and executes each text message as a command.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authorize != nil && !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	s.acceptConn(conn, cancel)
	defer s.cleanupConn(conn, cancel)

	logger := log.WithFields(log.Fields{"remote": r.RemoteAddr, logging.LocalOnly: true})
	logger.Info("host: pad connected")
	_ = conn.WriteMessage(websocket.TextMessage, []byte("host: ready"))

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			logger.WithError(err).Debug("host: pad disconnected")
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		if err := s.interp.Handle(ctx, string(data)); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithError(err).WithField("line", string(data)).Warn("host: command failed")
			_ = conn.WriteMessage(websocket.TextMessage, []byte("error: "+err.Error()))
		}
	}
}

// Connected reports whether a pad is attached.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// acceptConn installs conn, closing any previous connection.
func (s *Server) acceptConn(conn *websocket.Conn, cancel context.CancelFunc) {
	s.mu.Lock()
	old, oldCancel := s.conn, s.cancel
	s.conn, s.cancel = conn, cancel
	s.mu.Unlock()
	if old != nil {
		log.WithField(logging.LocalOnly, true).Info("host: replacing previous pad connection")
		oldCancel()
		_ = old.Close()
	}
}

// cleanupConn clears the active connection when closed.
func (s *Server) cleanupConn(conn *websocket.Conn, cancel context.CancelFunc) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()
	_ = conn.Close()
}
