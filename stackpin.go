package pinbuf

import "github.com/rawbytedev/pinbuf/pkg/cursor"

// Integration surface for external in-place pinning facilities. A facility
// that constructs values directly in a stable slot builds the wrapper with
// FromCursor, stores it, then hands the slot and the side-channel to Adopt
// once the slot address is final.

// PinData is the opaque side-channel a facility carries between in-place
// construction and the post-pin fix-up. It is reserved for wrapper types
// that need fixing up after their address becomes final; PinCursor needs
// none, so it is empty.
type PinData struct{}

// FromCursor builds the wrapper for in-place construction and returns the
// facility side-channel.
func FromCursor(c cursor.Cursor) (PinCursor, PinData) {
	return Wrap(c), PinData{}
}

// OnPin runs the post-pin fix-up. A no-op for PinCursor.
func (pc *PinCursor) OnPin(PinData) {}
