package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwapRoundTrip(t *testing.T) {
	require.Equal(t, uint16(0x1234), Swap16(Swap16(0x1234)))
	require.Equal(t, uint32(0x12345678), Swap32(Swap32(0x12345678)))
	require.Equal(t, uint64(0x0123456789abcdef), Swap64(Swap64(0x0123456789abcdef)))
}

func TestBEStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewBEWriter(&buf)
	require.NoError(t, w.WriteUint16(0xcafe))
	require.NoError(t, w.WriteUint32(0xdeadbeef))
	require.NoError(t, w.WriteUint64(0x0102030405060708))

	r := NewBEReader(&buf)
	v16, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xcafe), v16)

	v32, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), v32)

	v64, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), v64)
}

func TestLERoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewLEWriter(&buf)
	require.NoError(t, w.WriteUint32(0x11223344))
	r := NewLEReader(&buf)
	v, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x11223344), v)
}

func TestNativeIsNoopMemcpy(t *testing.T) {
	var buf bytes.Buffer
	w := NewNEWriter(&buf)
	require.NoError(t, w.WriteUint32(0x11223344))
	raw := buf.Bytes()
	if NativeOrder == nativeOrder() && NativeOrder.String() == "LittleEndian" {
		require.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, raw)
	}
}

func TestUint24SignExtension(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 8388607, -8388608, 12345, -12345} {
		u := NewUint24(v)
		require.Equal(t, v, u.Int32(), "round trip of %d", v)
	}
}

func TestUint48RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 0xffffffffffff, 0x0102030405} {
		u := NewUint48(v)
		require.Equal(t, v, u.Uint64())
	}
}

func TestUint48Truncates(t *testing.T) {
	u := NewUint48(0xffffffffffffff)
	require.Equal(t, uint64(0xffffffffffff), u.Uint64())
}
