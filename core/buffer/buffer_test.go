package buffer_test

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"ddn-storage/core/buffer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("DefaultCapacity", func(t *testing.T) {
		buf, err := buffer.New(buffer.DefaultCapacity)
		require.NoError(t, err)
		assert.Equal(t, 1024*1024, buf.Capacity())
		assert.Equal(t, 0, buf.Position())
		assert.Equal(t, buf.Capacity(), buf.Limit())
	})

	t.Run("ZeroCapacity", func(t *testing.T) {
		buf, err := buffer.New(0)
		require.NoError(t, err)
		assert.Equal(t, 0, buf.Capacity())
		assert.Equal(t, 0, buf.Remaining())
	})

	t.Run("MaxCapacity", func(t *testing.T) {
		buf, err := buffer.New(buffer.MaxCapacity)
		require.NoError(t, err)
		assert.Equal(t, buffer.MaxCapacity, buf.Capacity())
	})

	t.Run("AboveMaxCapacity", func(t *testing.T) {
		for _, n := range []int{buffer.MaxCapacity + 1, math.MaxInt} {
			buf, err := buffer.New(n)
			assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
			assert.Nil(t, buf)
		}
	})

	t.Run("NegativeCapacity", func(t *testing.T) {
		buf, err := buffer.New(-1)
		assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
		assert.Nil(t, buf)
	})
}

func TestPutFlipGet(t *testing.T) {
	buf, err := buffer.New(16)
	require.NoError(t, err)

	buf.Clear()
	require.NoError(t, buf.Put([]byte("hello")))
	assert.Equal(t, 5, buf.Position())

	buf.Flip()
	assert.Equal(t, 0, buf.Position())
	assert.Equal(t, 5, buf.Limit())
	assert.Equal(t, []byte("hello"), buf.Bytes())

	out := make([]byte, 3)
	assert.Equal(t, 3, buf.Get(out))
	assert.Equal(t, []byte("hel"), out)
	assert.Equal(t, []byte("lo"), buf.Bytes())
}

func TestPutOverflow(t *testing.T) {
	buf, err := buffer.New(4)
	require.NoError(t, err)

	err = buf.Put([]byte("too long"))
	assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
	assert.Equal(t, 0, buf.Position(), "failed put must not move the cursor")
}

func TestSetLimit(t *testing.T) {
	buf, err := buffer.New(8)
	require.NoError(t, err)

	require.NoError(t, buf.Put([]byte("abcdef")))
	require.NoError(t, buf.SetLimit(4))
	assert.Equal(t, 4, buf.Position())
	assert.Equal(t, 4, buf.Limit())

	assert.ErrorIs(t, buf.SetLimit(9), buffer.ErrBufferOverflow)
	assert.ErrorIs(t, buf.SetLimit(-1), buffer.ErrBufferOverflow)
	assert.Equal(t, 4, buf.Limit())
}

func TestCopyIsOwned(t *testing.T) {
	buf, err := buffer.New(8)
	require.NoError(t, err)
	require.NoError(t, buf.Put([]byte("abc")))
	buf.Flip()

	owned := buf.Copy()
	view := buf.Bytes()

	buf.Clear()
	require.NoError(t, buf.Put([]byte("xyz")))

	assert.Equal(t, []byte("abc"), owned)
	assert.Equal(t, []byte("xyz"), view, "borrowed view aliases the buffer")
}

func TestReadFrom(t *testing.T) {
	t.Run("StopsAtLimit", func(t *testing.T) {
		buf, err := buffer.New(8)
		require.NoError(t, err)
		require.NoError(t, buf.SetLimit(3))

		n, err := buf.ReadFrom(strings.NewReader("abcdef"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		buf.Flip()
		assert.Equal(t, []byte("abc"), buf.Bytes())
	})

	t.Run("ShortSource", func(t *testing.T) {
		buf, err := buffer.New(8)
		require.NoError(t, err)

		n, err := buf.ReadFrom(strings.NewReader("ab"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		buf.Flip()
		assert.Equal(t, []byte("ab"), buf.Bytes())
	})
}

func TestWriteTo(t *testing.T) {
	buf, err := buffer.New(8)
	require.NoError(t, err)
	require.NoError(t, buf.Put([]byte("payload")))
	buf.Flip()

	var out bytes.Buffer
	n, err := buf.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", out.String())
	assert.Equal(t, 0, buf.Remaining())
}

func TestReadDrains(t *testing.T) {
	buf, err := buffer.New(8)
	require.NoError(t, err)
	require.NoError(t, buf.Put([]byte("abc")))
	buf.Flip()

	var out bytes.Buffer
	n, err := out.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "abc", out.String())

	_, err = buf.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
}
