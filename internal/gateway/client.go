// Package gateway speaks the py4j text protocol used by Gaia Sky's
// scripting gateway.
package gateway

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// DefaultAddress is where Gaia Sky's py4j gateway listens by default.
const DefaultAddress = "127.0.0.1:25333"

// ErrNotConnected is returned when a command is sent on a closed client.
var ErrNotConnected = errors.New("gateway: not connected")

// Client is a single serial connection to the gateway.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	connected bool
	addr      string
}

// New creates a new, unconnected client.
func New() *Client {
	return &Client{}
}

// Connect dials the gateway. timeout bounds the dial only.
func (c *Client) Connect(ctx context.Context, addr string, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return fmt.Errorf("gateway: already connected to %s", c.addr)
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.connected = true
	c.addr = addr

	return nil
}

// Close closes the connection. Objects created on the JVM side are left to
// the gateway's own garbage collection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
		c.reader = nil
	}
	c.connected = false
	return err
}

// IsConnected returns connection status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Addr returns the address the client is connected to.
func (c *Client) Addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr
}

// Call invokes method on the object with id target and waits for the reply.
func (c *Client) Call(ctx context.Context, target, method string, args ...any) (Value, error) {
	cmd, err := EncodeCall(target, method, args...)
	if err != nil {
		return Value{}, fmt.Errorf("encoding %s: %w", method, err)
	}
	return c.roundTrip(ctx, method, cmd)
}

// CallEntryPoint invokes method on the gateway entry point.
func (c *Client) CallEntryPoint(ctx context.Context, method string, args ...any) (Value, error) {
	return c.Call(ctx, EntryPoint, method, args...)
}

// NewList creates a java.util.ArrayList holding items and returns its reference.
func (c *Client) NewList(ctx context.Context, items ...any) (Ref, error) {
	cmd, err := EncodeConstructor("java.util.ArrayList")
	if err != nil {
		return "", err
	}
	v, err := c.roundTrip(ctx, "java.util.ArrayList", cmd)
	if err != nil {
		return "", err
	}
	if v.Kind != KindRef && v.Kind != KindList {
		return "", fmt.Errorf("%w: constructor returned kind %d", ErrProtocol, v.Kind)
	}

	for _, item := range items {
		if _, err := c.Call(ctx, string(v.Ref), "add", item); err != nil {
			// Best effort: the list is useless half filled.
			_ = c.Release(context.WithoutCancel(ctx), v.Ref)
			return "", err
		}
	}
	return v.Ref, nil
}

// Release frees a JVM object created through this client.
func (c *Client) Release(ctx context.Context, ref Ref) error {
	_, err := c.roundTrip(ctx, "release", EncodeRelease(ref))
	return err
}

// roundTrip sends one command and reads one reply line.
func (c *Client) roundTrip(ctx context.Context, method string, cmd []byte) (Value, error) {
	if err := ctx.Err(); err != nil {
		return Value{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return Value{}, ErrNotConnected
	}

	conn := c.conn
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return Value{}, err
	}
	// Host calls such as sleep block for long; cancellation unblocks the read.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.Write(cmd); err != nil {
		return Value{}, fmt.Errorf("sending %s: %w", method, c.cause(ctx, err))
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		return Value{}, fmt.Errorf("reading reply to %s: %w", method, c.cause(ctx, err))
	}

	return DecodeReply(method, strings.TrimRight(line, "\r\n"))
}

// cause marks the client disconnected after a failed read or write, since
// the stream is out of step with the gateway, and prefers the context error
// when cancellation interrupted the I/O.
func (c *Client) cause(ctx context.Context, err error) error {
	c.connected = false
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
