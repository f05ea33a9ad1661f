// Package pinbuf provides an in-memory, seekable byte cursor that becomes
// non-relocatable once committed behind a pinned handle. It is a building
// block for tests: asynchronous I/O code can be exercised against a target
// whose address is guaranteed stable across every suspension point, which is
// the hardest case such code has to get right.
//
// A cursor.Cursor on its own is an ordinary movable value. Wrap moves it
// into a PinCursor, which stays movable until it is committed with Box (or
// adopted from an external in-place facility via Adopt). From then on the
// only access path is the *Pinned handle: it cannot be copied (go vet's
// copylocks check rejects that), it exposes no way to recover an owned
// wrapper value, and the wrapper allocation is pinned against the runtime
// for the life of the handle.
//
// Asynchronous operations follow the iox non-blocking convention: an
// operation that suspends returns iox.ErrWouldBlock and is polled again to
// completion. The Await helpers do the polling for callers that just want
// the result.
package pinbuf

import "github.com/rawbytedev/pinbuf/pkg/cursor"

// pinMarker makes PinCursor non-relocatable by composition once committed.
// It carries no state and is never read or written.
type pinMarker struct{}

// PinCursor wraps a cursor.Cursor together with the non-relocation marker.
// The wrapper itself remains a movable value until committed to a *Pinned
// handle; immovability is a property of the wrapper once pinned, not of the
// cursor type.
type PinCursor struct {
	c cursor.Cursor
	_ pinMarker
}

// Wrap takes ownership of c and returns the wrapper. The caller must not
// use c afterwards. The returned value is still movable; the contract
// starts when it is committed with Box or Adopt.
func Wrap(c cursor.Cursor) PinCursor {
	return PinCursor{c: c}
}

// Unwrap consumes the wrapper and yields back the inner cursor, ending the
// contract before it starts. It takes the wrapper by value, so it is only
// reachable while the caller still owns one — that is, before the wrapper
// has been committed to a *Pinned handle.
func (pc PinCursor) Unwrap() cursor.Cursor {
	return pc.c
}

// Position returns the inner cursor's current offset. Read-only, so no
// pinned handle is required.
func (pc *PinCursor) Position() uint64 {
	return pc.c.Position()
}
