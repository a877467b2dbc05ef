package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewSubviewAndBoundsChecking(t *testing.T) {
	v := NewView([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	sub, err := v.Subview(2, 4)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4, 5}, sub.Bytes())

	_, err = v.Subview(6, 4)
	require.Error(t, err)

	u16, err := v.ReadBE16(0)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0001), u16)

	_, err = v.ReadBE64(0)
	require.NoError(t, err)
	_, err = v.ReadBE64(1)
	require.Error(t, err)
}

func TestByteBufferAppendRoundTrip(t *testing.T) {
	b := NewByteBuffer(0)
	b.AppendBE32(0xdeadbeef)
	b.AppendUint8(0x42)
	v := b.View()
	val, err := v.ReadBE32(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), val)
	last, err := v.ReadUint8(4)
	require.NoError(t, err)
	require.Equal(t, uint8(0x42), last)
}

func TestRingBufferWrap(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 8; i++ {
		r.PushBack(i)
	}
	require.Equal(t, 4, r.Size())
	got := []int{}
	r.Each(func(_ int, v int) { got = append(got, v) })
	require.Equal(t, []int{4, 5, 6, 7}, got)
}

func TestRingBufferPopFrontEmpty(t *testing.T) {
	r := NewRing[int](2)
	_, ok := r.PopFront()
	require.False(t, ok)
	r.PushBack(1)
	v, ok := r.PopFront()
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.True(t, r.Empty())
}
