package transport

import (
	"bytes"
	"context"
	"fmt"

	"ddn-storage/core/buffer"
)

// Connection is an in-memory loopback transport.
type Connection struct {
	endpoint  string
	connected bool
	payload   []byte
}

// NewConnection returns a disconnected loopback transport for endpoint.
func NewConnection(endpoint string) *Connection {
	return &Connection{endpoint: endpoint}
}

// Endpoint returns the endpoint the connection was created for.
func (c *Connection) Endpoint() string { return c.endpoint }

// Connect always succeeds.
func (c *Connection) Connect(ctx context.Context) error {
	c.connected = true
	return nil
}

// Read copies the last written payload into buf, bounded by its limit.
func (c *Connection) Read(ctx context.Context, buf *buffer.Buffer) error {
	if !c.connected {
		return fmt.Errorf("read from %s: %w", c.endpoint, ErrNotConnected)
	}
	_, err := buf.ReadFrom(bytes.NewReader(c.payload))
	return err
}

// Write keeps a copy of the readable region of buf and drains it.
func (c *Connection) Write(ctx context.Context, buf *buffer.Buffer) error {
	if !c.connected {
		return fmt.Errorf("write to %s: %w", c.endpoint, ErrNotConnected)
	}
	var out bytes.Buffer
	out.Grow(buf.Remaining())
	if _, err := buf.WriteTo(&out); err != nil {
		return err
	}
	c.payload = out.Bytes()
	return nil
}

// Close marks the connection closed. The last payload is kept.
func (c *Connection) Close() error {
	c.connected = false
	return nil
}

// IsConnected reports whether Connect ran since the last Close.
func (c *Connection) IsConnected() bool { return c.connected }
