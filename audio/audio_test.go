package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/fifo"
)

func TestFormatValidity(t *testing.T) {
	f := Format{Encoding: EncodingS16, SampleRate: 48000, NumChannels: 2}
	require.True(t, f.IsValid())
	require.Equal(t, uint32(4), f.BytesPerFrame())
	require.Equal(t, "pcm_s16/48000/2/interleaved/le", f.String())

	empty := Format{}
	require.False(t, empty.IsValid())
}

func TestConvertSampleIdentity(t *testing.T) {
	src := []byte{0x01, 0x02}
	dst := make([]byte, 2)
	require.NoError(t, ConvertSample(dst, EncodingS16, binary.LittleEndian, src, EncodingS16, binary.LittleEndian))
	require.Equal(t, src, dst)
}

func TestConvertSampleIdentityByteSwap(t *testing.T) {
	src := []byte{0x01, 0x02}
	dst := make([]byte, 2)
	require.NoError(t, ConvertSample(dst, EncodingS16, binary.BigEndian, src, EncodingS16, binary.LittleEndian))
	require.Equal(t, []byte{0x02, 0x01}, dst)
}

func TestConvertSampleU8ToS8(t *testing.T) {
	dst := make([]byte, 1)
	require.NoError(t, ConvertSample(dst, EncodingS8, binary.LittleEndian, []byte{0x80}, EncodingU8, binary.LittleEndian))
	require.Equal(t, byte(0x00), dst[0])
}

func TestConvertSampleS16ToF32RoundTrip(t *testing.T) {
	src := make([]byte, 2)
	binary.LittleEndian.PutUint16(src, uint16(int16(16384)))
	dst := make([]byte, 4)
	require.NoError(t, ConvertSample(dst, EncodingF32, binary.LittleEndian, src, EncodingS16, binary.LittleEndian))

	back := make([]byte, 2)
	require.NoError(t, ConvertSample(back, EncodingS16, binary.LittleEndian, dst, EncodingF32, binary.LittleEndian))
	require.InDelta(t, 16384, int16(binary.LittleEndian.Uint16(back)), 2)
}

func TestConvertSampleUnsupportedPairFails(t *testing.T) {
	dst := make([]byte, 8)
	err := ConvertSample(dst, EncodingF64, binary.LittleEndian, []byte{0x00, 0x00, 0x00, 0x01}, EncodingS32, binary.LittleEndian)
	require.Error(t, err)
	var notImpl ErrConversionNotImplemented
	require.ErrorAs(t, err, &notImpl)
}

func TestInterleaveDeInterleaveRoundTrip(t *testing.T) {
	left := []byte{1, 2, 3, 4}
	right := []byte{5, 6, 7, 8}
	planar := [][]byte{left, right}

	interleaved := make([]byte, 8)
	Interleave(interleaved, planar, 2, 2, 2)
	require.Equal(t, []byte{1, 2, 5, 6, 3, 4, 7, 8}, interleaved)

	back := [][]byte{make([]byte, 4), make([]byte, 4)}
	DeInterleave(back, interleaved, 2, 2, 2)
	require.Equal(t, left, back[0])
	require.Equal(t, right, back[1])
}

func TestBufferResizeZeroes(t *testing.T) {
	b := NewBuffer(2, 2, 4)
	copy(b.Channel(0), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	b.Resize(2)
	require.Equal(t, []byte{0, 0, 0, 0}, b.Channel(0))
	require.Equal(t, 2, b.CapacityFrames())
}

func TestCircularBufferWriteReadWraps(t *testing.T) {
	f := fifo.NewSPSC(8)
	format := Format{Encoding: EncodingS16, SampleRate: 48000, NumChannels: 1}
	ring := NewCircularBuffer(f, format, 8)

	mkBuf := func(frames ...int16) *Buffer {
		b := NewBuffer(1, 2, len(frames))
		for i, v := range frames {
			binary.LittleEndian.PutUint16(b.Channel(0)[i*2:], uint16(v))
		}
		return b
	}

	require.NoError(t, ring.Write(mkBuf(1, 2, 3, 4, 5, 6), 6))
	out := NewBuffer(1, 2, 6)
	require.NoError(t, ring.Read(out, 6))
	require.NoError(t, ring.Write(mkBuf(7, 8, 9, 10), 4))

	final := NewBuffer(1, 2, 4)
	require.NoError(t, ring.Read(final, 4))
	for i, want := range []int16{7, 8, 9, 10} {
		got := int16(binary.LittleEndian.Uint16(final.Channel(0)[i*2:]))
		require.Equal(t, want, got)
	}
}

func TestCircularBufferOverflowRejected(t *testing.T) {
	f := fifo.NewSPSC(4)
	format := Format{Encoding: EncodingS16, SampleRate: 48000, NumChannels: 1}
	ring := NewCircularBuffer(f, format, 4)
	big := NewBuffer(1, 2, 5)
	require.Error(t, ring.Write(big, 5))
}
