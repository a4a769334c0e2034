package connectionmanager

import (
	"net"
	"sync"
	"time"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/metrics"
	"gitlab.com/hashsearch.net/internal/tcp/codec"
	"gitlab.com/hashsearch.net/internal/tcp/defs"
)

var _ primary.MessageSender = (*Conn)(nil)

// Conn wraps a worker connection. Writes are serialised so frames from the
// session and from a broadcast never interleave.
type Conn struct {
	conn         net.Conn
	writeMu      sync.Mutex
	stopSent     bool
	writeTimeout time.Duration
}

func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:         conn,
		writeTimeout: defs.WriteTimeout,
	}
}

// Send writes one frame. The stop sentinel is written at most once; later
// attempts return nil without touching the socket.
func (c *Conn) Send(msgType string, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	stop := isStop(msgType, payload)
	if stop && c.stopSent {
		return nil
	}

	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	err := codec.WriteMessage(c.conn, msgType, payload)
	if stop {
		// a failed stop leaves a broken socket, never retry it
		c.stopSent = true
	}
	if err != nil {
		return err
	}

	metrics.MessagesTotal.WithLabelValues("out", msgType).Inc()
	return nil
}

func (c *Conn) SendStop() error {
	return c.Send(defs.MsgRange, []byte(defs.StopSentinel))
}

// StopSent reports whether the stop sentinel has been written
func (c *Conn) StopSent() bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.stopSent
}

func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Reader exposes the underlying connection for the session decoder
func (c *Conn) Reader() net.Conn {
	return c.conn
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

func isStop(msgType string, payload []byte) bool {
	return msgType == defs.MsgRange && string(payload) == defs.StopSentinel
}

// SendErrorMessage sends an ERR frame. Errors are ignored as the connection
// is usually about to close.
func SendErrorMessage(conn primary.MessageSender, text string) {
	_ = conn.Send(defs.MsgError, []byte(text))
}
