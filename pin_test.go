package pinbuf

import (
	"context"
	"io"
	"math"
	"testing"

	"code.hybscloud.com/iox"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/pinbuf/pkg/cursor"
)

func TestPinnedDocSequence(t *testing.T) {
	ctx := context.Background()
	p := Box(Wrap(cursor.New(nil, cursor.WithYields(1))))
	defer p.Unpin()

	n, err := p.AwaitWrite(ctx, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, uint64(3), p.Position())

	off, err := p.AwaitSeek(ctx, 1, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(1), off)
	require.Equal(t, uint64(1), p.Position())

	buf := make([]byte, 1)
	n, err = p.AwaitRead(ctx, buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(2), buf[0])

	p.SetPosition(0)
	n, err = p.AwaitRead(ctx, buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(1), buf[0])
}

func TestSeekStartThenPosition(t *testing.T) {
	data := []byte("qwertyuiop")
	p := Box(Wrap(cursor.New(data)))
	defer p.Unpin()

	for pos := int64(0); pos <= int64(len(data)); pos++ {
		off, err := p.Seek(pos, io.SeekStart)
		require.NoError(t, err)
		require.Equal(t, pos, off)
		require.Equal(t, uint64(pos), p.Position())
	}
}

func TestSeekNegativeForwardedVerbatim(t *testing.T) {
	p := Box(Wrap(cursor.New([]byte("abc"))))
	defer p.Unpin()

	p.SetPosition(2)
	_, err := p.Seek(-5, io.SeekCurrent)
	require.ErrorIs(t, err, cursor.ErrNegativePosition)
	require.Equal(t, uint64(2), p.Position())
}

func TestSetPositionIsSynchronous(t *testing.T) {
	// with suspension injected, async ops block, but the position
	// accessors never do
	p := Box(Wrap(cursor.New([]byte("abc"), cursor.WithYields(5))))
	defer p.Unpin()

	p.SetPosition(2)
	require.Equal(t, uint64(2), p.Position())
}

func TestSetPositionHugeThroughHandle(t *testing.T) {
	ctx := context.Background()
	p := Box(Wrap(cursor.New([]byte{1, 2, 3}, cursor.WithYields(1))))
	defer p.Unpin()

	p.SetPosition(math.MaxUint64)
	require.Equal(t, uint64(math.MaxUint64), p.Position())

	n, err := p.AwaitRead(ctx, make([]byte, 1))
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 0, n)
}

func TestAddressStableAcrossSuspension(t *testing.T) {
	p := Box(Wrap(cursor.New(nil, cursor.WithYields(1))))
	defer p.Unpin()

	before := p.project()
	_, err := p.Write([]byte{1})
	require.ErrorIs(t, err, iox.ErrWouldBlock)

	// suspended mid-operation: the target must not have moved
	require.Same(t, before, p.project())

	n, err := p.Write([]byte{1})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Same(t, before, p.project())
}

func TestVectoredThroughHandle(t *testing.T) {
	ctx := context.Background()
	segs := [][]byte{[]byte("ab"), []byte("cde"), []byte("f")}

	vec := Box(Wrap(cursor.New(nil, cursor.WithYields(1))))
	defer vec.Unpin()
	nv, err := vec.AwaitWriteVectored(ctx, segs)
	require.NoError(t, err)
	require.Equal(t, 6, nv)
	require.Equal(t, uint64(6), vec.Position())

	seq := Box(Wrap(cursor.New(nil, cursor.WithYields(1))))
	defer seq.Unpin()
	var ns int
	for _, s := range segs {
		n, err := seq.AwaitWrite(ctx, s)
		require.NoError(t, err)
		ns += n
	}
	require.Equal(t, ns, nv)

	vec.SetPosition(0)
	dst := [][]byte{make([]byte, 4), make([]byte, 2)}
	nr, err := vec.AwaitReadVectored(ctx, dst)
	require.NoError(t, err)
	require.Equal(t, 6, nr)
	require.Equal(t, []byte("abcd"), dst[0])
	require.Equal(t, []byte("ef"), dst[1])
}

func TestAwaitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Box(Wrap(cursor.New(nil, cursor.WithYields(1000))))
	defer p.Unpin()

	_, err := p.AwaitWrite(ctx, []byte{1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestUnpinIdempotent(t *testing.T) {
	p := Box(Wrap(cursor.New(nil)))
	p.Unpin()
	p.Unpin()
}

func FuzzPinnedRoundTrip(f *testing.F) {
	f.Add([]byte("seed"), uint8(0))
	f.Add([]byte{1, 2, 3}, uint8(1))
	f.Fuzz(func(t *testing.T, data []byte, yields uint8) {
		ctx := context.Background()
		p := Box(Wrap(cursor.New(nil, cursor.WithYields(int(yields%4)))))
		defer p.Unpin()

		n, err := p.AwaitWrite(ctx, data)
		require.NoError(t, err)
		require.Equal(t, len(data), n)
		require.Equal(t, uint64(len(data)), p.Position())

		p.SetPosition(0)
		got := make([]byte, len(data))
		if len(data) > 0 {
			n, err = p.AwaitRead(ctx, got)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
		}
		require.Equal(t, data, got)
	})
}
