package fifo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionArithmetic(t *testing.T) {
	pos := computePosition(6, 8, 4)
	require.Equal(t, 6, pos.Index1)
	require.Equal(t, 2, pos.Size1)
	require.Equal(t, 2, pos.Size2)
	require.True(t, pos.Wraps())

	pos2 := computePosition(2, 8, 4)
	require.Equal(t, 2, pos2.Index1)
	require.Equal(t, 4, pos2.Size1)
	require.Equal(t, 0, pos2.Size2)
	require.False(t, pos2.Wraps())
}

func TestSingleReserveCancelLeavesSizeUnchanged(t *testing.T) {
	f := NewSingle(4)
	lock := f.PrepareForWrite(3)
	require.True(t, lock.Valid())
	require.Equal(t, 0, f.Size())
	lock.Cancel()
	require.Equal(t, 0, f.Size())
}

func TestSingleWriteReadRoundTrip(t *testing.T) {
	f := NewSingle(4)
	w := f.PrepareForWrite(3)
	require.True(t, w.Valid())
	f.CommitWrite(w)
	require.Equal(t, 3, f.Size())

	r := f.PrepareForRead(3)
	require.True(t, r.Valid())
	f.CommitRead(r)
	require.Equal(t, 0, f.Size())
}

func TestSingleOverflowRejected(t *testing.T) {
	f := NewSingle(4)
	f.CommitWrite(f.PrepareForWrite(4))
	require.False(t, f.PrepareForWrite(1).Valid())
	require.False(t, f.PrepareForRead(5).Valid())
}

func TestSPSCWrapAroundSplitsPosition(t *testing.T) {
	f := NewSPSC(8)
	f.CommitWrite(f.PrepareForWrite(6))
	f.CommitRead(f.PrepareForRead(6))
	w := f.PrepareForWrite(4)
	require.True(t, w.Valid())
	require.True(t, w.Position.Wraps())
	require.Equal(t, 2, w.Position.Size1)
	require.Equal(t, 2, w.Position.Size2)
}

func TestMPSCSerializesProducers(t *testing.T) {
	f := NewMPSC(16)
	l1 := f.PrepareForWrite(4)
	require.True(t, l1.Valid())
	done := make(chan struct{})
	go func() {
		l2 := f.PrepareForWrite(4)
		require.True(t, l2.Valid())
		f.CommitWrite(l2)
		close(done)
	}()
	// l1 still holds the mutex; committing releases it for the goroutine.
	f.CommitWrite(l1)
	<-done
	require.Equal(t, 8, f.Size())
}

func TestResizeImpliesReset(t *testing.T) {
	f := NewSPSC(4)
	f.CommitWrite(f.PrepareForWrite(4))
	f.Resize(8)
	require.Equal(t, 0, f.Size())
	require.True(t, f.PrepareForWrite(8).Valid())
}
