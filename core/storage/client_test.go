package storage_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"ddn-storage/core/buffer"
	"ddn-storage/core/storage"
	"ddn-storage/core/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTransport wraps a loopback connection and fails Connect on demand.
type fakeTransport struct {
	*transport.Connection
	connectErr error
	// failFor is the number of Connect calls that fail before succeeding; -1 fails forever.
	failFor   int
	attempts  int
	onConnect func(attempt int)
}

func newFakeTransport(failFor int) *fakeTransport {
	return &fakeTransport{
		Connection: transport.NewConnection("fake://test"),
		connectErr: errors.New("connection refused"),
		failFor:    failFor,
	}
}

func (f *fakeTransport) Connect(ctx context.Context) error {
	f.attempts++
	if f.onConnect != nil {
		f.onConnect(f.attempts)
	}
	if f.failFor < 0 || f.attempts <= f.failFor {
		return f.connectErr
	}
	return f.Connection.Connect(ctx)
}

// releasingTransport records Release calls made during cleanup.
type releasingTransport struct {
	*transport.Connection
	releaseErr error
	released   int
}

func (r *releasingTransport) Release(ctx context.Context) error {
	r.released++
	return r.releaseErr
}

func newClient(opts ...storage.Option) *storage.Client {
	base := []storage.Option{
		storage.WithLogger(zap.NewNop()),
		storage.WithRetryInterval(time.Millisecond),
	}
	return storage.NewClient("mem://test", append(base, opts...)...)
}

func TestNewClient_Defaults(t *testing.T) {
	client := storage.NewClient("mem://defaults")

	assert.Equal(t, "mem://defaults", client.Endpoint())
	assert.Equal(t, storage.DefaultMaxRetries, client.MaxRetries())
	assert.False(t, client.IsInitialized())
	assert.False(t, client.IsConnected())

	size, ok := client.BufferSize()
	assert.False(t, ok)
	assert.Zero(t, size)
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("AllocatesDefaultBuffer", func(t *testing.T) {
		client := newClient()
		require.NoError(t, client.Initialize(ctx))

		assert.True(t, client.IsInitialized())
		assert.True(t, client.IsConnected())
		size, ok := client.BufferSize()
		assert.True(t, ok)
		assert.Equal(t, buffer.DefaultCapacity, size)
	})

	t.Run("CustomCapacity", func(t *testing.T) {
		client := newClient(storage.WithBufferCapacity(64))
		require.NoError(t, client.Initialize(ctx))

		size, ok := client.BufferSize()
		assert.True(t, ok)
		assert.Equal(t, 64, size)
	})

	t.Run("TransportFailure", func(t *testing.T) {
		fake := newFakeTransport(-1)
		client := newClient(storage.WithTransport(fake))

		err := client.Initialize(ctx)
		require.Error(t, err)

		var initErr *storage.InitializationError
		require.ErrorAs(t, err, &initErr)
		assert.Equal(t, "mem://test", initErr.Endpoint)
		assert.ErrorIs(t, err, fake.connectErr)

		assert.False(t, client.IsInitialized())
		_, ok := client.BufferSize()
		assert.False(t, ok)
	})

	t.Run("ReinitializeReplacesBuffer", func(t *testing.T) {
		client := newClient(storage.WithBufferCapacity(16))
		require.NoError(t, client.Initialize(ctx))
		first, err := client.Read(ctx, 0)
		require.NoError(t, err)

		require.NoError(t, client.Initialize(ctx))
		second, err := client.Read(ctx, 0)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.True(t, client.IsInitialized())
	})

	t.Run("FailedReinitializeReleasesBuffer", func(t *testing.T) {
		fake := newFakeTransport(0)
		client := newClient(storage.WithTransport(fake))
		require.NoError(t, client.Initialize(ctx))

		fake.failFor = -1
		require.Error(t, client.Initialize(ctx))

		assert.False(t, client.IsInitialized())
		_, ok := client.BufferSize()
		assert.False(t, ok)
	})
}

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("SucceedsFirstAttemptWithoutWaiting", func(t *testing.T) {
		fake := newFakeTransport(0)
		client := newClient(storage.WithTransport(fake), storage.WithRetryInterval(time.Hour))

		assert.True(t, client.Connect(ctx))
		assert.Equal(t, 1, fake.attempts)
		assert.True(t, client.IsConnected())
	})

	t.Run("ExhaustsBudget", func(t *testing.T) {
		fake := newFakeTransport(-1)
		client := newClient(storage.WithTransport(fake), storage.WithMaxRetries(4))

		assert.False(t, client.Connect(ctx))
		assert.Equal(t, 4, fake.attempts)
		assert.Equal(t, 4, client.ConnectAttempts())
		assert.False(t, client.IsConnected())
	})

	t.Run("RecoversBeforeBudget", func(t *testing.T) {
		fake := newFakeTransport(2)
		client := newClient(storage.WithTransport(fake), storage.WithMaxRetries(3))

		assert.Zero(t, client.ConnectAttempts())
		assert.True(t, client.Connect(ctx))
		assert.Equal(t, 3, fake.attempts)
		assert.Equal(t, 3, client.ConnectAttempts())
	})

	t.Run("NonPositiveBudgetTriesOnce", func(t *testing.T) {
		for _, n := range []int{0, -5} {
			fake := newFakeTransport(-1)
			client := newClient(storage.WithTransport(fake), storage.WithMaxRetries(n))

			assert.False(t, client.Connect(ctx))
			assert.Equal(t, 1, fake.attempts, "max retries %d", n)
			assert.Equal(t, 1, client.ConnectAttempts(), "max retries %d", n)
		}
	})

	t.Run("DoesNotTouchInitialized", func(t *testing.T) {
		client := newClient()
		assert.True(t, client.Connect(ctx))
		assert.False(t, client.IsInitialized())
	})

	t.Run("CancelDuringBackoff", func(t *testing.T) {
		fake := newFakeTransport(-1)
		client := newClient(
			storage.WithTransport(fake),
			storage.WithMaxRetries(5),
			storage.WithRetryInterval(10*time.Second),
		)

		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		assert.False(t, client.Connect(cctx))
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, 1, fake.attempts)
		assert.Equal(t, 1, client.ConnectAttempts())
	})

	t.Run("CancelDuringAttempt", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		fake := newFakeTransport(-1)
		fake.onConnect = func(int) { cancel() }
		client := newClient(
			storage.WithTransport(fake),
			storage.WithMaxRetries(5),
			storage.WithRetryInterval(time.Hour),
		)

		assert.False(t, client.Connect(cctx))
		assert.Equal(t, 1, fake.attempts)
	})
}

func TestRead(t *testing.T) {
	ctx := context.Background()

	t.Run("NotInitialized", func(t *testing.T) {
		client := newClient()
		buf, err := client.Read(ctx, 10)
		assert.ErrorIs(t, err, storage.ErrNotInitialized)
		assert.Nil(t, buf)
	})

	t.Run("SizeExceedsCapacity", func(t *testing.T) {
		client := newClient(storage.WithBufferCapacity(8))
		require.NoError(t, client.Initialize(ctx))

		_, err := client.Read(ctx, 9)
		assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
	})

	t.Run("NotConnected", func(t *testing.T) {
		client := newClient()
		require.NoError(t, client.Initialize(ctx))
		client.Disconnect()

		_, err := client.Read(ctx, 4)
		assert.ErrorIs(t, err, transport.ErrNotConnected)
		assert.True(t, client.IsInitialized())
	})
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newClient(storage.WithBufferCapacity(1024))
	require.NoError(t, client.Initialize(ctx))

	data := []byte("the quick brown fox")
	require.NoError(t, client.Write(ctx, data))

	buf, err := client.Read(ctx, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
	assert.Equal(t, 0, buf.Position())
	assert.Equal(t, len(data), buf.Limit())

	// the same buffer backs every read
	kept := buf.Copy()
	require.NoError(t, client.Write(ctx, []byte("other")))
	assert.Equal(t, data, kept)
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("NotInitialized", func(t *testing.T) {
		client := newClient()
		assert.ErrorIs(t, client.Write(ctx, []byte("x")), storage.ErrNotInitialized)
	})

	t.Run("Overflow", func(t *testing.T) {
		client := newClient(storage.WithBufferCapacity(4))
		require.NoError(t, client.Initialize(ctx))

		err := client.Write(ctx, bytes.Repeat([]byte("a"), 5))
		assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
		assert.True(t, client.IsInitialized())
	})

	t.Run("NotConnected", func(t *testing.T) {
		client := newClient()
		require.NoError(t, client.Initialize(ctx))
		client.Disconnect()

		assert.ErrorIs(t, client.Write(ctx, []byte("x")), transport.ErrNotConnected)
	})
}

func TestAllocate(t *testing.T) {
	ctx := context.Background()

	t.Run("NotInitialized", func(t *testing.T) {
		client := newClient()
		assert.ErrorIs(t, client.Allocate(ctx, 128), storage.ErrNotInitialized)
	})

	t.Run("AfterCleanup", func(t *testing.T) {
		client := newClient()
		require.NoError(t, client.Initialize(ctx))
		client.Cleanup()
		assert.ErrorIs(t, client.Allocate(ctx, 128), storage.ErrNotInitialized)
	})

	t.Run("ReplacesBuffer", func(t *testing.T) {
		client := newClient()
		require.NoError(t, client.Initialize(ctx))

		require.NoError(t, client.Allocate(ctx, 128))
		size, ok := client.BufferSize()
		assert.True(t, ok)
		assert.Equal(t, 128, size)

		buf, err := client.Read(ctx, 128)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 128), buf.Bytes(), "allocated buffer is written out zeroed")
	})

	t.Run("SizeAboveMaxCapacity", func(t *testing.T) {
		client := newClient(storage.WithBufferCapacity(16))
		require.NoError(t, client.Initialize(ctx))

		for _, n := range []int{buffer.MaxCapacity + 1, math.MaxInt} {
			var err error
			assert.NotPanics(t, func() { err = client.Allocate(ctx, n) })
			assert.ErrorIs(t, err, buffer.ErrBufferOverflow)
		}

		size, ok := client.BufferSize()
		assert.True(t, ok)
		assert.Equal(t, 16, size, "rejected allocation keeps the current buffer")
		assert.True(t, client.IsInitialized())
	})

	t.Run("NegativeSize", func(t *testing.T) {
		client := newClient()
		require.NoError(t, client.Initialize(ctx))
		assert.ErrorIs(t, client.Allocate(ctx, -1), buffer.ErrBufferOverflow)
	})
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("Twice", func(t *testing.T) {
		client := newClient()
		require.NoError(t, client.Initialize(ctx))

		assert.NotPanics(t, func() {
			client.Cleanup()
			client.Cleanup()
		})
		assert.False(t, client.IsInitialized())
		assert.False(t, client.IsConnected())
		_, ok := client.BufferSize()
		assert.False(t, ok)
	})

	t.Run("BeforeInitialize", func(t *testing.T) {
		client := newClient()
		assert.NotPanics(t, client.Cleanup)
		assert.False(t, client.IsInitialized())
	})

	t.Run("ReleasesTransport", func(t *testing.T) {
		rt := &releasingTransport{Connection: transport.NewConnection("rel://test")}
		client := newClient(storage.WithTransport(rt))
		require.NoError(t, client.Initialize(ctx))

		client.Cleanup()
		assert.Equal(t, 1, rt.released)
		assert.False(t, client.IsConnected())
	})

	t.Run("ReleaseFailureIsSwallowed", func(t *testing.T) {
		rt := &releasingTransport{
			Connection: transport.NewConnection("rel://test"),
			releaseErr: errors.New("remove failed"),
		}
		client := newClient(storage.WithTransport(rt))
		require.NoError(t, client.Initialize(ctx))

		assert.NotPanics(t, client.Cleanup)
		assert.Equal(t, 1, rt.released)
		assert.False(t, client.IsInitialized())
		assert.False(t, client.IsConnected())
	})
}

func TestDisconnectKeepsBuffer(t *testing.T) {
	ctx := context.Background()
	client := newClient(storage.WithBufferCapacity(32))
	require.NoError(t, client.Initialize(ctx))

	client.Disconnect()
	assert.False(t, client.IsConnected())
	assert.True(t, client.IsInitialized())
	size, ok := client.BufferSize()
	assert.True(t, ok)
	assert.Equal(t, 32, size)

	require.True(t, client.Connect(ctx))
	assert.NoError(t, client.Write(ctx, []byte("again")))
}

func TestStatus(t *testing.T) {
	client := newClient(storage.WithBufferCapacity(8), storage.WithMaxRetries(5))

	s := client.Status()
	assert.Equal(t, "mem://test", s.Endpoint)
	assert.Nil(t, s.BufferSize)
	assert.Equal(t, 5, s.MaxRetries)

	require.NoError(t, client.Initialize(context.Background()))
	s = client.Status()
	assert.True(t, s.Initialized)
	assert.True(t, s.Connected)
	require.NotNil(t, s.BufferSize)
	assert.Equal(t, 8, *s.BufferSize)
}

func TestObserver(t *testing.T) {
	ctx := context.Background()
	var events []storage.Event
	rec := storage.ObserverFunc(func(_ context.Context, e storage.Event) {
		events = append(events, e)
	})

	fake := newFakeTransport(1)
	client := newClient(storage.WithTransport(fake), storage.WithObserver(rec))

	assert.True(t, client.Connect(ctx))
	require.NoError(t, client.Initialize(ctx))
	require.NoError(t, client.Write(ctx, []byte("abc")))
	assert.ErrorIs(t, client.Write(ctx, make([]byte, buffer.DefaultCapacity+1)), buffer.ErrBufferOverflow)
	client.Cleanup()

	ops := make([]string, len(events))
	for i, e := range events {
		ops[i] = e.Op
		assert.Equal(t, "mem://test", e.Endpoint)
	}
	assert.Equal(t, []string{
		storage.OpConnect, storage.OpConnect,
		storage.OpInitialize,
		storage.OpWrite, storage.OpWrite,
		storage.OpCleanup,
	}, ops)

	assert.Error(t, events[0].Err)
	assert.Equal(t, 1, events[0].Attempt)
	assert.NoError(t, events[1].Err)
	assert.Equal(t, 2, events[1].Attempt)
	assert.Equal(t, 3, events[3].Bytes)
	assert.ErrorIs(t, events[4].Err, buffer.ErrBufferOverflow)
}
