package buffer

import (
	"errors"
	"fmt"
	"io"
)

// DefaultCapacity is the capacity of a freshly initialized client buffer (1 MiB).
const DefaultCapacity = 1024 * 1024

// MaxCapacity is the largest buffer New will allocate (64 MiB).
const MaxCapacity = 64 * 1024 * 1024

// ErrBufferOverflow is returned when a size or payload exceeds the buffer capacity.
var ErrBufferOverflow = errors.New("buffer overflow")

// Buffer is a fixed-capacity byte region with position/limit cursors.
// It is not safe for concurrent use.
type Buffer struct {
	data     []byte
	position int
	limit    int
}

// New allocates a buffer of the given capacity, cleared and ready to fill.
// Capacities outside [0, MaxCapacity] fail with ErrBufferOverflow.
func New(capacity int) (*Buffer, error) {
	if capacity < 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("invalid capacity %d: %w", capacity, ErrBufferOverflow)
	}
	return &Buffer{data: make([]byte, capacity), limit: capacity}, nil
}

// Capacity returns the fixed size of the buffer.
func (b *Buffer) Capacity() int { return len(b.data) }

// Position returns the index of the next byte to be read or written.
func (b *Buffer) Position() int { return b.position }

// Limit returns the index of the first byte that must not be read or written.
func (b *Buffer) Limit() int { return b.limit }

// Remaining returns the number of bytes between position and limit.
func (b *Buffer) Remaining() int { return b.limit - b.position }

// Clear resets the cursors for a new fill. Contents are left as is.
func (b *Buffer) Clear() {
	b.position = 0
	b.limit = len(b.data)
}

// Flip makes the bytes written so far readable from the start.
func (b *Buffer) Flip() {
	b.limit = b.position
	b.position = 0
}

// SetLimit moves the limit. The position is clamped to the new limit.
func (b *Buffer) SetLimit(n int) error {
	if n < 0 || n > len(b.data) {
		return fmt.Errorf("limit %d exceeds capacity %d: %w", n, len(b.data), ErrBufferOverflow)
	}
	b.limit = n
	if b.position > n {
		b.position = n
	}
	return nil
}

// Put copies p at the current position and advances it.
// The buffer is unchanged when p does not fit.
func (b *Buffer) Put(p []byte) error {
	if len(p) > b.Remaining() {
		return fmt.Errorf("put of %d bytes with %d remaining: %w", len(p), b.Remaining(), ErrBufferOverflow)
	}
	b.position += copy(b.data[b.position:b.limit], p)
	return nil
}

// Get drains up to len(p) readable bytes into p and returns the count.
func (b *Buffer) Get(p []byte) int {
	n := copy(p, b.data[b.position:b.limit])
	b.position += n
	return n
}

// Read drains readable bytes into p, returning io.EOF once nothing remains.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.Remaining() == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	return b.Get(p), nil
}

// Bytes returns a view of [position, limit). The view is only valid until the
// next call that mutates the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[b.position:b.limit:b.limit]
}

// Copy returns an owned copy of [position, limit).
func (b *Buffer) Copy() []byte {
	out := make([]byte, b.Remaining())
	copy(out, b.data[b.position:b.limit])
	return out
}

// ReadFrom fills [position, limit) from r until the buffer is full or r is
// exhausted. Reaching EOF is not an error.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for b.position < b.limit {
		n, err := r.Read(b.data[b.position:b.limit])
		b.position += n
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

// WriteTo drains [position, limit) into w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data[b.position:b.limit])
	b.position += n
	if err == nil && b.position < b.limit {
		err = io.ErrShortWrite
	}
	return int64(n), err
}
