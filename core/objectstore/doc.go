// Package objectstore wraps the MinIO Go client behind a small interface.
//
// It is the backend of the object transport: a storage client staged on an
// S3 bucket writes its transfer buffer as one object and reads it back from
// the same key. Both AWS S3 and self-hosted MinIO are supported.
//
// # ObjectStore Interface
//
// The interface only carries what the transport uses, which keeps the testify
// mock in core/objectstore/mocks small.
//
// # Usage
//
//	store, err := objectstore.New(cfg)
//	exists, err := store.BucketExists(ctx, cfg.Bucket)
package objectstore
