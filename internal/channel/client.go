// Package channel delivers commands to the host over a reconnecting websocket.
package channel

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/logging"
)

const (
	// DefaultReconnectDelay is the pause between dial attempts.
	DefaultReconnectDelay = time.Second
	// DefaultQueueLimit bounds the discrete commands kept while disconnected.
	DefaultQueueLimit = 32
	// DefaultWriteTimeout is the write deadline of one command frame.
	DefaultWriteTimeout = 2 * time.Second
	// DefaultBuffer is the outbound buffer of a live connection.
	DefaultBuffer = 256
)

// Config configures the client.
type Config struct {
	URL            string
	Header         http.Header
	ReconnectDelay time.Duration
	// QueueLimit bounds the discrete commands kept while disconnected.
	QueueLimit   int
	WriteTimeout time.Duration
	// Buffer bounds the commands waiting for the writer of a live connection.
	Buffer int
	// OnMessage receives every inbound text message.
	OnMessage func(text string)
	// OnState is called when readiness changes.
	OnState func(ready bool)
}

// Client sends commands to the host. Continuous commands are dropped while
// disconnected; discrete button commands are queued and flushed on reconnect.
// A writer goroutine per connection owns all network writes.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer

	mu    sync.Mutex
	conn  *websocket.Conn
	out   chan command.Command
	queue []command.Command
}

var _ command.Sender = (*Client)(nil)

// New returns a client for cfg.URL. Call Run to connect.
func New(cfg Config) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.QueueLimit <= 0 {
		cfg.QueueLimit = DefaultQueueLimit
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	cfg.Buffer = max(cfg.Buffer, cfg.QueueLimit)
	return &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 5 * time.Second,
		},
	}
}

// Run dials, reads and redials with a fixed delay until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, c.cfg.Header)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger().WithError(err).Debug("channel: dial failed")
		} else {
			c.serve(ctx, conn)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// Send hands cmd to the connection writer, queues it when disconnected and
// discrete, and drops it otherwise. It never waits on the network.
func (c *Client) Send(cmd command.Command) {
	c.mu.Lock()
	if c.conn == nil {
		queued := c.enqueueLocked(cmd)
		c.mu.Unlock()
		if !queued {
			c.logger().WithField("command", cmd.String()).Warn("channel: not ready, dropping command")
		}
		return
	}
	select {
	case c.out <- cmd:
		c.mu.Unlock()
	default:
		c.mu.Unlock()
		c.logger().WithField("command", cmd.String()).Warn("channel: writer backlog full, dropping command")
	}
}

// Ready reports whether a connection is established.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Queued returns the number of discrete commands waiting for a connection.
func (c *Client) Queued() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// serve installs conn, hands the queue to its writer and reads until the connection fails.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	out := make(chan command.Command, c.cfg.Buffer)
	c.mu.Lock()
	flushed := len(c.queue)
	for _, cmd := range c.queue {
		out <- cmd
	}
	c.queue = nil
	c.conn = conn
	c.out = out
	c.mu.Unlock()
	c.logger().WithFields(log.Fields{"url": c.cfg.URL, "flushed": flushed}).Info("channel: connected")
	c.notifyState(true)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	done := make(chan struct{})
	type writeResult struct {
		cmd    command.Command
		failed bool
	}
	result := make(chan writeResult, 1)
	go func() {
		cmd, failed := c.writeLoop(conn, out, done)
		result <- writeResult{cmd: cmd, failed: failed}
	}()

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				c.logger().WithError(err).Info("channel: disconnected")
			}
			break
		}
		if typ == websocket.TextMessage && c.cfg.OnMessage != nil {
			c.cfg.OnMessage(string(data))
		}
	}

	_ = conn.Close()
	close(done)
	res := <-result

	c.mu.Lock()
	wasCurrent := c.conn == conn
	if wasCurrent {
		c.conn = nil
		c.out = nil
	}
	if res.failed {
		c.enqueueLocked(res.cmd)
	}
	requeued := c.drainLocked(out)
	c.mu.Unlock()
	if requeued > 0 {
		c.logger().WithField("requeued", requeued).Debug("channel: unsent commands kept for reconnect")
	}
	if wasCurrent {
		c.notifyState(false)
	}
}

// writeLoop writes commands from out until done closes or a write fails. It
// returns the command whose write failed.
func (c *Client) writeLoop(conn *websocket.Conn, out <-chan command.Command, done <-chan struct{}) (command.Command, bool) {
	for {
		select {
		case <-done:
			return command.Command{}, false
		case cmd := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd.String())); err != nil {
				c.logger().WithError(err).WithField("command", cmd.String()).Warn("channel: write failed")
				_ = conn.Close()
				return cmd, true
			}
		}
	}
}

// drainLocked moves the discrete commands left in out back onto the queue.
func (c *Client) drainLocked(out chan command.Command) int {
	n := 0
	for {
		select {
		case cmd := <-out:
			if c.enqueueLocked(cmd) {
				n++
			}
		default:
			return n
		}
	}
}

// enqueueLocked keeps discrete commands, dropping the oldest beyond the limit.
func (c *Client) enqueueLocked(cmd command.Command) bool {
	if !cmd.Discrete() {
		return false
	}
	if len(c.queue) >= c.cfg.QueueLimit {
		c.logger().WithField("command", c.queue[0].String()).Warn("channel: queue full, dropping oldest")
		c.queue = c.queue[1:]
	}
	c.queue = append(c.queue, cmd)
	return true
}

// notifyState reports readiness changes.
func (c *Client) notifyState(ready bool) {
	if c.cfg.OnState != nil {
		c.cfg.OnState(ready)
	}
}

// logger tags entries so they are never forwarded back through the channel.
func (c *Client) logger() *log.Entry {
	return log.WithField(logging.LocalOnly, true)
}
