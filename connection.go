package memcheck

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/nrmn2492/redis-memory-check/resp"
)

var ErrConnectionClosed = errors.New("memcheck: connection closed")

// Connection is a single blocking connection to a Redis server.
// It is not safe for concurrent use.
type Connection struct {
	addr    string
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	closed  bool
}

// Dial opens a connection to target. The target timeout bounds the connect
// and every later read and write.
func Dial(ctx context.Context, target Target) (*Connection, error) {
	addr := target.Addr()

	dialer := net.Dialer{Timeout: target.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectionError{Addr: addr, Err: err}
	}

	return newConnection(addr, conn, target.Timeout), nil
}

func newConnection(addr string, conn net.Conn, timeout time.Duration) *Connection {
	return &Connection{
		addr:    addr,
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
	}
}

// setDeadline applies the operation timeout, or the context deadline if it
// comes first.
func (c *Connection) setDeadline(ctx context.Context) {
	var deadline time.Time
	if c.timeout > 0 {
		deadline = time.Now().Add(c.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	c.conn.SetDeadline(deadline)
}

// Auth sends AUTH once and expects +OK. On any other outcome the connection
// is closed and *AuthError is returned.
func (c *Connection) Auth(ctx context.Context, creds Credentials) error {
	if c.closed {
		return ErrConnectionClosed
	}

	err := c.auth(ctx, creds)
	if err != nil {
		c.Close()
	}
	return err
}

func (c *Connection) auth(ctx context.Context, creds Credentials) error {
	if err := ctx.Err(); err != nil {
		return &AuthError{Err: err}
	}
	c.setDeadline(ctx)

	if err := resp.WriteCommand(c.conn, resp.AuthCommand(creds.Username, creds.Password)...); err != nil {
		return &AuthError{Err: &IOError{Op: "send AUTH", Err: err}}
	}

	reply, err := resp.ReadSimpleReply(c.reader)
	if err != nil {
		return &AuthError{Err: err}
	}

	if !strings.HasPrefix(reply, resp.ReplyOK) {
		return &AuthError{Reply: reply}
	}

	return nil
}

// Info sends INFO and returns the reply text. Byte sequences that are not
// valid UTF-8 are dropped.
//
// With blankLine set the reply ends at the first blank line or when the
// peer closes; otherwise exactly the advertised bulk length is read.
func (c *Connection) Info(ctx context.Context, blankLine bool) (string, error) {
	if c.closed {
		return "", ErrConnectionClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.setDeadline(ctx)

	if err := resp.WriteCommand(c.conn, resp.CmdInfo); err != nil {
		return "", &IOError{Op: "send INFO", Err: err}
	}

	var (
		data []byte
		err  error
	)
	if blankLine {
		data, err = resp.ReadUntilBlankLine(c.reader)
	} else {
		data, err = resp.ReadBulkString(c.reader)
	}
	if err != nil {
		return "", &IOError{Op: "read INFO", Err: err}
	}

	return strings.ToValidUTF8(string(data), ""), nil
}

// Addr returns the connection address
func (c *Connection) Addr() string {
	return c.addr
}

// IsClosed returns whether the connection is closed
func (c *Connection) IsClosed() bool {
	return c.closed
}

// Close closes the connection. Closing twice is a no-op.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
