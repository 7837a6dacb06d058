package storage

import (
	"context"
	"fmt"
	"time"

	"ddn-storage/core/buffer"
	"ddn-storage/core/transport"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Client owns one transport connection and one transfer buffer.
// It is not safe for concurrent use.
type Client struct {
	endpoint       string
	maxRetries     int
	retryInterval  time.Duration
	bufferCapacity int

	initialized bool
	buf         *buffer.Buffer
	conn        transport.Transport
	// lastAttempts counts the attempts made by the most recent Connect
	lastAttempts int

	log       *zap.Logger
	observers []Observer
}

// Status is a point-in-time snapshot of the client state.
type Status struct {
	Endpoint    string `json:"endpoint"`
	Initialized bool   `json:"initialized"`
	Connected   bool   `json:"connected"`
	// BufferSize is nil when no buffer is held.
	BufferSize *int `json:"buffer_size"`
	MaxRetries int  `json:"max_retries"`
}

// NewClient creates a client for endpoint. Without WithTransport the client
// uses an in-memory Connection bound to the same endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := defaults(endpoint)
	for _, opt := range opts {
		opt(c)
	}
	if c.conn == nil {
		c.conn = transport.NewConnection(endpoint)
	}
	c.log = c.log.With(zap.String("endpoint", endpoint))
	c.log.Info("Storage client created", zap.Int("max_retries", c.maxRetries))
	return c
}

// Initialize connects the transport and allocates a fresh transfer buffer.
// Calling it again discards the current buffer and reconnects. On failure the
// client is left uninitialized with no buffer.
func (c *Client) Initialize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, Event{Op: OpInitialize, Bytes: c.capacity(), Err: err, Duration: time.Since(start)})
	}()

	c.log.Info("Initializing storage client")
	c.initialized = false
	c.buf = nil

	if err := c.conn.Connect(ctx); err != nil {
		c.log.Error("Failed to initialize storage client", zap.Error(err))
		return &InitializationError{Endpoint: c.endpoint, Err: err}
	}

	buf, err := buffer.New(c.bufferCapacity)
	if err != nil {
		_ = c.conn.Close()
		return &InitializationError{Endpoint: c.endpoint, Err: err}
	}

	c.buf = buf
	c.initialized = true
	c.log.Info("Storage client initialized", zap.Int("buffer_size", buf.Capacity()))
	return nil
}

// Connect opens the transport, retrying up to MaxRetries attempts with a fixed
// wait in between. It reports false when every attempt failed or ctx was
// cancelled while waiting.
func (c *Client) Connect(ctx context.Context) bool {
	attempt := 0
	defer func() { c.lastAttempts = attempt }()
	operation := func() (struct{}, error) {
		attempt++
		start := time.Now()
		err := c.conn.Connect(ctx)
		c.observe(ctx, Event{Op: OpConnect, Attempt: attempt, Err: err, Duration: time.Since(start)})
		if err != nil {
			c.log.Warn("Connection attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryInterval)),
		backoff.WithMaxTries(uint(c.attempts())),
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		if ctx.Err() != nil {
			c.log.Warn("Connection retries cancelled", zap.Int("attempts", attempt), zap.Error(ctx.Err()))
		} else {
			c.log.Error("Connection retries exhausted", zap.Int("attempts", attempt))
		}
		return false
	}

	c.log.Info("Connected to storage endpoint", zap.Int("attempts", attempt))
	return true
}

// Read fills the buffer with up to size bytes from the transport and returns it
// flipped for reading. The buffer is only valid until the next Read, Write or
// Allocate.
func (c *Client) Read(ctx context.Context, size int) (_ *buffer.Buffer, err error) {
	start := time.Now()
	n := 0
	defer func() {
		c.observe(ctx, Event{Op: OpRead, Bytes: n, Err: err, Duration: time.Since(start)})
	}()

	if err := c.requireBuffer(OpRead); err != nil {
		return nil, err
	}

	c.buf.Clear()
	if err := c.buf.SetLimit(size); err != nil {
		return nil, fmt.Errorf("read %d bytes: %w", size, err)
	}
	if err := c.conn.Read(ctx, c.buf); err != nil {
		return nil, fmt.Errorf("read %d bytes: %w", size, err)
	}
	c.buf.Flip()
	n = c.buf.Remaining()
	return c.buf, nil
}

// Write stages data in the buffer and sends it through the transport.
func (c *Client) Write(ctx context.Context, data []byte) (err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, Event{Op: OpWrite, Bytes: len(data), Err: err, Duration: time.Since(start)})
	}()

	if err := c.requireBuffer(OpWrite); err != nil {
		return err
	}

	c.buf.Clear()
	if err := c.buf.Put(data); err != nil {
		return fmt.Errorf("write %d bytes: %w", len(data), err)
	}
	c.buf.Flip()
	if err := c.conn.Write(ctx, c.buf); err != nil {
		return fmt.Errorf("write %d bytes: %w", len(data), err)
	}
	return nil
}

// Allocate replaces the buffer with a new one of size bytes and writes it out
// through the transport. It requires an initialized client.
func (c *Client) Allocate(ctx context.Context, size int) (err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, Event{Op: OpAllocate, Bytes: size, Err: err, Duration: time.Since(start)})
	}()

	if err := c.requireBuffer(OpAllocate); err != nil {
		return err
	}

	c.log.Info("Allocating buffer", zap.Int("size", size))
	buf, err := buffer.New(size)
	if err != nil {
		return fmt.Errorf("allocate %d bytes: %w", size, err)
	}
	c.buf = buf

	if err := c.conn.Write(ctx, c.buf); err != nil {
		return fmt.Errorf("allocate %d bytes: %w", size, err)
	}
	c.log.Info("Buffer allocated", zap.Int("size", size))
	return nil
}

// Cleanup releases the buffer and closes the transport. Transports holding
// remote state are released first. It never fails and may be called any
// number of times, including before Initialize.
func (c *Client) Cleanup() {
	start := time.Now()
	c.log.Info("Cleaning up storage client")

	c.buf = nil
	if r, ok := c.conn.(transport.Releaser); ok {
		if err := r.Release(context.Background()); err != nil {
			c.log.Warn("Transport release failed during cleanup", zap.Error(err))
		}
	}
	if err := c.conn.Close(); err != nil {
		c.log.Debug("Transport close failed during cleanup", zap.Error(err))
	}
	c.initialized = false

	c.observe(context.Background(), Event{Op: OpCleanup, Duration: time.Since(start)})
}

// Disconnect closes the transport. The buffer and initialized state are kept.
func (c *Client) Disconnect() {
	start := time.Now()
	err := c.conn.Close()
	if err != nil {
		c.log.Debug("Transport close failed", zap.Error(err))
	} else {
		c.log.Info("Disconnected from storage endpoint")
	}
	c.observe(context.Background(), Event{Op: OpDisconnect, Err: err, Duration: time.Since(start)})
}

// IsInitialized reports whether Initialize succeeded and Cleanup has not run since.
func (c *Client) IsInitialized() bool { return c.initialized }

// IsConnected reports the transport connection state.
func (c *Client) IsConnected() bool { return c.conn.IsConnected() }

// BufferSize returns the capacity of the current buffer. ok is false when the
// client holds no buffer.
func (c *Client) BufferSize() (size int, ok bool) {
	if c.buf == nil {
		return 0, false
	}
	return c.buf.Capacity(), true
}

// Endpoint returns the endpoint the client was created for.
func (c *Client) Endpoint() string { return c.endpoint }

// MaxRetries returns the configured attempt budget as given, which may be
// non-positive. Connect still makes at least one attempt.
func (c *Client) MaxRetries() int { return c.maxRetries }

// ConnectAttempts returns how many attempts the most recent Connect made, or
// zero before the first Connect.
func (c *Client) ConnectAttempts() int { return c.lastAttempts }

// Status returns a snapshot of the client state.
func (c *Client) Status() Status {
	s := Status{
		Endpoint:    c.endpoint,
		Initialized: c.initialized,
		Connected:   c.conn.IsConnected(),
		MaxRetries:  c.maxRetries,
	}
	if size, ok := c.BufferSize(); ok {
		s.BufferSize = &size
	}
	return s
}

func (c *Client) requireBuffer(op string) error {
	if !c.initialized || c.buf == nil {
		return fmt.Errorf("%s: %w", op, ErrNotInitialized)
	}
	return nil
}

// attempts is the connection attempt budget; non-positive budgets still try once.
func (c *Client) attempts() int {
	if c.maxRetries < 1 {
		return 1
	}
	return c.maxRetries
}

func (c *Client) capacity() int {
	if c.buf == nil {
		return 0
	}
	return c.buf.Capacity()
}

func (c *Client) observe(ctx context.Context, e Event) {
	e.Endpoint = c.endpoint
	for _, o := range c.observers {
		o.Observe(ctx, e)
	}
}
