package storage

import (
	"time"

	"ddn-storage/core/buffer"
	"ddn-storage/core/transport"

	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*Client)

// WithMaxRetries sets the connection attempt budget. Values <= 0 mean a single attempt.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryInterval sets the wait between connection attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryInterval = d
		}
	}
}

// WithBufferCapacity sets the capacity allocated by Initialize. Values outside
// (0, buffer.MaxCapacity] keep the default.
func WithBufferCapacity(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= buffer.MaxCapacity {
			c.bufferCapacity = n
		}
	}
}

// WithTransport replaces the default in-memory connection.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.conn = t
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver registers an observer for client operations.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

func defaults(endpoint string) *Client {
	return &Client{
		endpoint:       endpoint,
		maxRetries:     DefaultMaxRetries,
		retryInterval:  DefaultRetryInterval,
		bufferCapacity: buffer.DefaultCapacity,
		log:            zap.NewNop(),
	}
}
