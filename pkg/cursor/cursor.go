package cursor

import (
	"errors"
	"io"
	"math"

	"code.hybscloud.com/iox"

	"github.com/rawbytedev/pinbuf/internal/common"
)

var (
	ErrNegativePosition = errors.New("cursor: negative position")
	ErrPositionOverflow = errors.New("cursor: position overflow")
	ErrInvalidWhence    = errors.New("cursor: invalid whence")
)

// Cursor is an in-memory byte sequence paired with a read/write position.
// Position accessors are synchronous; Read, Write, Seek and the vectored
// variants are pollable: an operation that suspends returns
// (0, iox.ErrWouldBlock) and must be polled again until it completes.
//
// By default every operation completes on its first poll. WithYields makes
// each operation suspend a fixed number of times first, which is the knob
// test code uses to force suspension points at known places.
//
// At most one operation may be in flight at a time; a Cursor is not safe
// for concurrent use.
type Cursor struct {
	buf  []byte
	pos  uint64
	gate common.Gate
}

type Option func(*Cursor)

// WithYields makes every operation suspend n times before completing.
func WithYields(n int) Option {
	return func(c *Cursor) { c.gate.Arm(n) }
}

// New returns a Cursor over buf. The position starts at 0. The returned
// value is an ordinary movable Go value; address stability is the business
// of whoever commits it (see the pinbuf package).
func New(buf []byte, opts ...Option) Cursor {
	c := Cursor{buf: buf}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Position returns the current offset.
func (c *Cursor) Position() uint64 { return c.pos }

// SetPosition sets the offset for the next Read or Write. No I/O, no
// suspension, cannot fail. Any uint64 is a valid position; one at or past
// the end simply makes the next Read report no progress.
func (c *Cursor) SetPosition(pos uint64) { c.pos = pos }

// Bytes returns the underlying byte sequence.
func (c *Cursor) Bytes() []byte { return c.buf }

// Len returns the length of the underlying byte sequence.
func (c *Cursor) Len() int { return len(c.buf) }

// Read copies bytes starting at the current position into p and advances
// the position. Reading at or past the end returns (0, io.EOF). A short
// read is a valid result, not an error.
func (c *Cursor) Read(p []byte) (int, error) {
	if c.gate.Block() {
		return 0, iox.ErrWouldBlock
	}
	if len(p) == 0 {
		return 0, nil
	}
	if c.pos >= uint64(len(c.buf)) {
		return 0, io.EOF
	}
	n := copy(p, c.buf[c.pos:])
	c.pos += uint64(n)
	return n, nil
}

// Write copies p into the sequence at the current position and advances it,
// growing the sequence as needed. Writing past the current end zero-fills
// the gap first.
func (c *Cursor) Write(p []byte) (int, error) {
	if c.gate.Block() {
		return 0, iox.ErrWouldBlock
	}
	return c.write(p), nil
}

func (c *Cursor) write(p []byte) int {
	if c.pos > uint64(len(c.buf)) {
		c.buf = append(c.buf, make([]byte, c.pos-uint64(len(c.buf)))...)
	}
	n := copy(c.buf[c.pos:], p)
	if n < len(p) {
		c.buf = append(c.buf, p[n:]...)
		n = len(p)
	}
	c.pos += uint64(n)
	return n
}

// Seek sets the position per the io.Seeker whence values and returns the
// resulting absolute offset. A target before the start of the sequence
// fails with ErrNegativePosition, one that cannot be represented fails
// with ErrPositionOverflow; either way the position is left unchanged.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	if c.gate.Block() {
		return 0, iox.ErrWouldBlock
	}
	var base uint64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = c.pos
	case io.SeekEnd:
		base = uint64(len(c.buf))
	default:
		return 0, ErrInvalidWhence
	}
	var abs uint64
	if offset < 0 {
		mag := uint64(-(offset + 1)) + 1
		if mag > base {
			return 0, ErrNegativePosition
		}
		abs = base - mag
	} else {
		abs = base + uint64(offset)
		if abs < base {
			return 0, ErrPositionOverflow
		}
	}
	// the reported offset is an int64, so the target must fit one
	if abs > math.MaxInt64 {
		return 0, ErrPositionOverflow
	}
	c.pos = abs
	return int64(abs), nil
}

// ReadVectored fills bufs in order from the current position and returns
// the cumulative byte count. All segments transfer within one completed
// poll; there is no per-segment suspension.
func (c *Cursor) ReadVectored(bufs [][]byte) (int, error) {
	if c.gate.Block() {
		return 0, iox.ErrWouldBlock
	}
	var n int
	for _, b := range bufs {
		if c.pos >= uint64(len(c.buf)) {
			break
		}
		m := copy(b, c.buf[c.pos:])
		c.pos += uint64(m)
		n += m
	}
	if n == 0 {
		for _, b := range bufs {
			if len(b) > 0 {
				return 0, io.EOF
			}
		}
	}
	return n, nil
}

// WriteVectored writes bufs in order at the current position and returns
// the cumulative byte count. All segments transfer within one completed
// poll.
func (c *Cursor) WriteVectored(bufs [][]byte) (int, error) {
	if c.gate.Block() {
		return 0, iox.ErrWouldBlock
	}
	var n int
	for _, b := range bufs {
		n += c.write(b)
	}
	return n, nil
}
