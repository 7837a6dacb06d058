package transport

import (
	"context"
	"errors"

	"ddn-storage/core/buffer"
)

// ErrNotConnected is returned by Read and Write while the transport is closed.
var ErrNotConnected = errors.New("transport not connected")

// Transport is the connection capability consumed by the storage client.
type Transport interface {
	// Endpoint returns the connection target.
	Endpoint() string
	// Connect opens the connection. Calling it while connected is allowed.
	Connect(ctx context.Context) error
	// Read fills buf from its position up to its limit.
	Read(ctx context.Context, buf *buffer.Buffer) error
	// Write drains the readable region of buf.
	Write(ctx context.Context, buf *buffer.Buffer) error
	// Close disconnects. It is safe to call repeatedly.
	Close() error
	// IsConnected reports the connection state.
	IsConnected() bool
}

// Releaser is implemented by transports that hold remote state worth
// discarding when the owning client is cleaned up.
type Releaser interface {
	// Release drops whatever the transport created. Repeated calls are no-ops.
	Release(ctx context.Context) error
}
