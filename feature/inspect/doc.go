// Package inspect exposes one storage client over HTTP for operators.
//
// The client has a single owner and no internal locking, so the Service owns
// it and serializes every request with a mutex. Read results are copied out
// of the client buffer before the lock is released.
//
// # HTTP Endpoints
//
//   - GET /client : status snapshot (buffer_size is null when no buffer is held).
//   - POST /client/initialize : allocate the buffer and connect.
//   - POST /client/connect : connect with retries; 503 when retries are exhausted.
//   - POST /client/disconnect : close the transport, keep the buffer.
//   - POST /client/cleanup : release the buffer and close the transport.
//   - POST /client/write : write the raw request body.
//   - GET /client/read?size=N : read N bytes, returned as application/octet-stream.
//   - POST /client/allocate?size=N : replace the buffer with one of N bytes.
//
// # Error Mapping
//
//   - not initialized: 409
//   - buffer overflow: 413
//   - transport not connected: 503
//   - initialization failure: 502
//   - bad parameters: 400
package inspect
