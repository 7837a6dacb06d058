// Package storage implements the storage-access client: one transport
// connection, one reusable transfer buffer, and bounded connection retries.
//
// # Lifecycle
//
// A Client moves through three states:
//
//   - Created: NewClient returned. No buffer; the transport is disconnected.
//   - Initialized: Initialize connected the transport and allocated the
//     transfer buffer. Read, Write and Allocate are allowed.
//   - Connected: tracked by the transport itself and orthogonal to
//     Initialized. Disconnect closes the transport but keeps the buffer;
//     Connect reopens it with retries.
//
// Cleanup returns the client to Created from any state and never fails.
//
// # Buffer Ownership
//
// The client owns exactly one buffer. Read returns that buffer; the returned
// value is only valid until the next Read, Write or Allocate. Call Copy on it
// to keep the data.
//
// # Retries
//
// Connect makes at most MaxRetries attempts with a fixed wait between them
// (2s unless configured). Cancelling the context during the wait stops the
// loop and Connect reports false. Exhausting the budget is a normal outcome
// and also reports false.
//
// # Concurrency
//
// A Client has a single owner and does no locking. Callers that share one
// across goroutines must serialize access themselves (see feature/inspect).
//
// # Usage
//
//	client := storage.NewClient("mem://local", storage.WithLogger(logg))
//	if err := client.Initialize(ctx); err != nil {
//	    return err
//	}
//	defer client.Cleanup()
//	if err := client.Write(ctx, data); err != nil {
//	    return err
//	}
//	buf, err := client.Read(ctx, len(data))
package storage
