package transport

import (
	"context"
	"fmt"

	"ddn-storage/core/buffer"
	"ddn-storage/core/objectstore"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// KeyPrefix prefixes generated object keys.
const KeyPrefix = "transfers/"

// ObjectTransport stages the transfer buffer as one object in a bucket.
type ObjectTransport struct {
	store     objectstore.ObjectStore
	bucket    string
	region    string
	key       string
	connected bool
	// generated keys belong to this transport and are removed on Release
	generated bool
	written   bool
}

// NewObjectTransport returns a disconnected transport writing to bucket/key.
// An empty key gets a unique one under KeyPrefix.
func NewObjectTransport(store objectstore.ObjectStore, cfg objectstore.Config, key string) *ObjectTransport {
	generated := false
	if key == "" {
		key = KeyPrefix + uuid.NewString()
		generated = true
	}
	return &ObjectTransport{
		store:     store,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		key:       key,
		generated: generated,
	}
}

// Endpoint returns the object location as bucket/key.
func (t *ObjectTransport) Endpoint() string { return t.bucket + "/" + t.key }

// Key returns the object key the transport reads and writes.
func (t *ObjectTransport) Key() string { return t.key }

// Connect checks the bucket and creates it when missing.
func (t *ObjectTransport) Connect(ctx context.Context) error {
	exists, err := t.store.BucketExists(ctx, t.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", t.bucket, err)
	}
	if !exists {
		if err := t.store.MakeBucket(ctx, t.bucket, minio.MakeBucketOptions{Region: t.region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", t.bucket, err)
		}
	}
	t.connected = true
	return nil
}

// Read fills buf with the object contents. A missing object reads as empty.
func (t *ObjectTransport) Read(ctx context.Context, buf *buffer.Buffer) error {
	if !t.connected {
		return fmt.Errorf("read %s: %w", t.Endpoint(), ErrNotConnected)
	}
	if _, err := t.store.StatObject(ctx, t.bucket, t.key, minio.StatObjectOptions{}); err != nil {
		if objectstore.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("stat object %s: %w", t.Endpoint(), err)
	}
	obj, err := t.store.GetObject(ctx, t.bucket, t.key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get object %s: %w", t.Endpoint(), err)
	}
	defer obj.Close()

	if _, err := buf.ReadFrom(obj); err != nil && !objectstore.IsNotFound(err) {
		return fmt.Errorf("read object %s: %w", t.Endpoint(), err)
	}
	return nil
}

// Write uploads the readable region of buf, replacing the object.
func (t *ObjectTransport) Write(ctx context.Context, buf *buffer.Buffer) error {
	if !t.connected {
		return fmt.Errorf("write %s: %w", t.Endpoint(), ErrNotConnected)
	}
	size := int64(buf.Remaining())
	_, err := t.store.PutObject(ctx, t.bucket, t.key, buf, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", t.Endpoint(), err)
	}
	t.written = true
	return nil
}

// Release removes the object when its key was generated and something was
// written to it. Objects under caller supplied keys are left in place.
func (t *ObjectTransport) Release(ctx context.Context) error {
	if !t.generated || !t.written {
		return nil
	}
	err := t.store.RemoveObject(ctx, t.bucket, t.key, minio.RemoveObjectOptions{})
	if err != nil && !objectstore.IsNotFound(err) {
		return fmt.Errorf("remove object %s: %w", t.Endpoint(), err)
	}
	t.written = false
	return nil
}

// Close marks the transport disconnected. The object is kept.
func (t *ObjectTransport) Close() error {
	t.connected = false
	return nil
}

// IsConnected reports whether Connect succeeded since the last Close.
func (t *ObjectTransport) IsConnected() bool { return t.connected }
