// Package transport defines the connection capability the storage client
// drives: connect, read into a buffer, write from a buffer, close.
//
// A Transport only tracks whether it is connected. Retry policy belongs to the
// caller; a transport reports one failure per call and nothing more.
//
// # Implementations
//
//   - Connection: in-memory loopback. Connect always succeeds and a Read
//     returns the payload of the last Write. Used as the default transport and
//     as the reference implementation in tests.
//   - ObjectTransport: stages the buffer as a single object in an S3 bucket
//     via core/objectstore. Connect verifies (or creates) the bucket and can
//     fail, which is what the client's retry loop is for.
//
// Read and Write on a disconnected transport fail with ErrNotConnected.
// Close is idempotent.
package transport
