// Package buffer provides the fixed-capacity transfer buffer used to stage
// bytes between the storage client and its transport.
//
// A Buffer tracks three cursors: position, limit and capacity, with
// 0 <= position <= limit <= capacity at all times. Capacity is fixed when the
// buffer is allocated; growing means allocating a new Buffer.
//
// # Access Discipline
//
// Every fill or drain sequence starts with Clear and ends with Flip:
//
//	buf.Clear()
//	_ = buf.Put(data) // fill
//	buf.Flip()        // readable region is now [0, len(data))
//	out := buf.Bytes()
//
// Skipping Clear between a drain and the next fill leaves stale cursor state.
//
// # Ownership
//
// Bytes returns a borrowed view into the buffer that is only valid until the
// next mutating call. Use Copy when the data must outlive it.
package buffer
