package pinbuf

import (
	"context"
	"errors"
	"runtime"

	"code.hybscloud.com/iox"

	"github.com/rawbytedev/pinbuf/pkg/cursor"
)

// noCopy makes go vet's copylocks check reject any copy of a containing
// value. It is the static half of the non-relocation contract.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Pinned is the stable-address handle to a committed PinCursor. It cannot
// be copied, exposes no way to recover an owned wrapper value, and keeps
// the wrapper allocation pinned so the runtime may not move it. Every
// address derived from the wrapper stays valid until Unpin.
//
// Like the cursor underneath, Pinned assumes at most one in-flight
// operation at a time and is not safe for concurrent use.
type Pinned struct {
	noCopy noCopy

	pc     *PinCursor
	pinner runtime.Pinner
	pinned bool
}

var (
	_ iox.Reader = (*Pinned)(nil)
	_ iox.Writer = (*Pinned)(nil)
	_ iox.Seeker = (*Pinned)(nil)
)

// Box commits pc to the heap and returns the pinned handle. This is the
// move that ends the wrapper's movable phase; from here on the handle is
// the only access path.
func Box(pc PinCursor) *Pinned {
	p := &Pinned{pc: &pc}
	p.pinner.Pin(p.pc)
	p.pinned = true
	return p
}

// Adopt wraps a PinCursor that an external in-place facility has already
// placed at a stable address. The facility keeps responsibility for the
// slot's lifetime and for its address staying fixed; data is the
// side-channel it got from FromCursor.
func Adopt(slot *PinCursor, data PinData) *Pinned {
	slot.OnPin(data)
	return &Pinned{pc: slot}
}

// Unpin releases the runtime pin, ending the address-stability contract.
// The handle must not be used afterwards.
func (p *Pinned) Unpin() {
	if p.pinned {
		p.pinner.Unpin()
		p.pinned = false
	}
}

// project derives the stable address of the inner cursor from the stable
// address of the wrapper. Valid for as long as the handle is live: the
// wrapper never moves, so neither does its field.
func (p *Pinned) project() *cursor.Cursor {
	return &p.pc.c
}

// Position returns the inner cursor's current offset.
func (p *Pinned) Position() uint64 { return p.pc.Position() }

// SetPosition sets the offset for the next Read or Write. Synchronous: no
// suspension, cannot fail.
func (p *Pinned) SetPosition(pos uint64) { p.project().SetPosition(pos) }

// Read forwards to the inner cursor. A suspended operation returns
// iox.ErrWouldBlock; poll again to complete it. Results and errors come
// back verbatim, Pinned adds no failure modes of its own.
func (p *Pinned) Read(b []byte) (int, error) { return p.project().Read(b) }

// Write forwards to the inner cursor.
func (p *Pinned) Write(b []byte) (int, error) { return p.project().Write(b) }

// Seek forwards to the inner cursor and returns the new absolute offset.
func (p *Pinned) Seek(offset int64, whence int) (int64, error) {
	return p.project().Seek(offset, whence)
}

// ReadVectored forwards a multi-segment read to the inner cursor.
func (p *Pinned) ReadVectored(bufs [][]byte) (int, error) {
	return p.project().ReadVectored(bufs)
}

// WriteVectored forwards a multi-segment write to the inner cursor.
func (p *Pinned) WriteVectored(bufs [][]byte) (int, error) {
	return p.project().WriteVectored(bufs)
}

// await polls op until it stops reporting iox.ErrWouldBlock, yielding the
// scheduler between polls and aborting once ctx is done. Partial progress
// the cursor made before an abort is kept; there is no rollback.
func await[T int | int64](ctx context.Context, op func() (T, error)) (T, error) {
	for {
		n, err := op()
		if !errors.Is(err, iox.ErrWouldBlock) {
			return n, err
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		default:
			runtime.Gosched()
		}
	}
}

// AwaitRead polls Read to completion.
func (p *Pinned) AwaitRead(ctx context.Context, b []byte) (int, error) {
	return await(ctx, func() (int, error) { return p.Read(b) })
}

// AwaitWrite polls Write to completion.
func (p *Pinned) AwaitWrite(ctx context.Context, b []byte) (int, error) {
	return await(ctx, func() (int, error) { return p.Write(b) })
}

// AwaitSeek polls Seek to completion.
func (p *Pinned) AwaitSeek(ctx context.Context, offset int64, whence int) (int64, error) {
	return await(ctx, func() (int64, error) { return p.Seek(offset, whence) })
}

// AwaitReadVectored polls ReadVectored to completion.
func (p *Pinned) AwaitReadVectored(ctx context.Context, bufs [][]byte) (int, error) {
	return await(ctx, func() (int, error) { return p.ReadVectored(bufs) })
}

// AwaitWriteVectored polls WriteVectored to completion.
func (p *Pinned) AwaitWriteVectored(ctx context.Context, bufs [][]byte) (int, error) {
	return await(ctx, func() (int, error) { return p.WriteVectored(bufs) })
}
