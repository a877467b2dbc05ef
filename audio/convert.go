/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrConversionNotImplemented is returned by ConvertSample for any
// (src, dst) encoding pair not covered by the conversion table.
type ErrConversionNotImplemented struct {
	From, To Encoding
}

func (e ErrConversionNotImplemented) Error() string {
	return fmt.Sprintf("audio: sample conversion %s -> %s is not implemented", e.From, e.To)
}

func readS24(b []byte, bo binary.ByteOrder) int32 {
	var be [3]byte
	if bo == binary.BigEndian {
		be = [3]byte{b[0], b[1], b[2]}
	} else {
		be = [3]byte{b[2], b[1], b[0]}
	}
	v := int32(be[0])<<16 | int32(be[1])<<8 | int32(be[2])
	if be[0]&0x80 != 0 {
		v |= ^int32(0xffffff)
	}
	return v
}

func writeS24(b []byte, v int32, bo binary.ByteOrder) {
	be := [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
	if bo == binary.BigEndian {
		copy(b, be[:])
	} else {
		b[0], b[1], b[2] = be[2], be[1], be[0]
	}
}

// reverseInPlace reverses the byte order of an already-copied sample of
// fixed width, used for identity format conversions that only swap
// endianness.
func reverseInPlace(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// ConvertSample reads one sample of srcFmt/srcBO from src and writes one
// sample of dstFmt/dstBO into dst. dst and src must each be exactly
// srcFmt.BytesPerSample()/dstFmt.BytesPerSample() long.
//
// Identity pairs (same format, same byte order) are a memcpy; identity
// format with differing byte order is a byte swap. Format changes are
// looked up in a fixed conversion table; pairs outside that table return
// ErrConversionNotImplemented rather than silently producing garbage.
func ConvertSample(dst []byte, dstFmt Encoding, dstBO binary.ByteOrder, src []byte, srcFmt Encoding, srcBO binary.ByteOrder) error {
	if len(src) != int(srcFmt.BytesPerSample()) {
		return fmt.Errorf("audio: source sample buffer has wrong length %d for %s", len(src), srcFmt)
	}
	if len(dst) != int(dstFmt.BytesPerSample()) {
		return fmt.Errorf("audio: destination sample buffer has wrong length %d for %s", len(dst), dstFmt)
	}

	if srcFmt == dstFmt {
		copy(dst, src)
		if srcBO != dstBO {
			reverseInPlace(dst)
		}
		return nil
	}

	switch {
	case srcFmt == EncodingU8 && dstFmt == EncodingS8:
		dst[0] = src[0] - 0x80
		return nil

	case srcFmt == EncodingS8 && dstFmt == EncodingS16:
		v := int16(int8(src[0])) << 8
		dstBO.PutUint16(dst, uint16(v))
		return nil

	case srcFmt == EncodingS16 && dstFmt == EncodingS24:
		v := int32(int16(srcBO.Uint16(src))) << 8
		writeS24(dst, v, dstBO)
		return nil

	case srcFmt == EncodingS16 && dstFmt == EncodingS32:
		v := int32(int16(srcBO.Uint16(src))) << 16
		dstBO.PutUint32(dst, uint32(v))
		return nil

	case srcFmt == EncodingS16 && dstFmt == EncodingF32:
		v := float32(int16(srcBO.Uint16(src))) * (1.0 / 32768.0)
		dstBO.PutUint32(dst, math.Float32bits(v))
		return nil

	case srcFmt == EncodingS16 && dstFmt == EncodingF64:
		v := float64(int16(srcBO.Uint16(src))) * (1.0 / 32768.0)
		dstBO.PutUint64(dst, math.Float64bits(v))
		return nil

	case srcFmt == EncodingS24 && dstFmt == EncodingF32:
		v := float32(readS24(src, srcBO)) * (1.0 / 8388608.0)
		dstBO.PutUint32(dst, math.Float32bits(v))
		return nil

	case srcFmt == EncodingS24 && dstFmt == EncodingF64:
		v := float64(readS24(src, srcBO)) * (1.0 / 8388608.0)
		dstBO.PutUint64(dst, math.Float64bits(v))
		return nil

	case srcFmt == EncodingF32 && dstFmt == EncodingS16:
		f := math.Float32frombits(srcBO.Uint32(src))
		dstBO.PutUint16(dst, uint16(int16(f*32767)))
		return nil

	case srcFmt == EncodingF32 && dstFmt == EncodingS24:
		f := math.Float32frombits(srcBO.Uint32(src))
		writeS24(dst, int32(f*8388607), dstBO)
		return nil

	case srcFmt == EncodingF64 && dstFmt == EncodingS16:
		f := math.Float64frombits(srcBO.Uint64(src))
		dstBO.PutUint16(dst, uint16(int16(f*32767)))
		return nil

	case srcFmt == EncodingF64 && dstFmt == EncodingS24:
		f := math.Float64frombits(srcBO.Uint64(src))
		writeS24(dst, int32(f*8388607), dstBO)
		return nil

	default:
		return ErrConversionNotImplemented{From: srcFmt, To: dstFmt}
	}
}

// Convert copies numFrames frames of numChannels channels each from src to
// dst, converting every sample via ConvertSample. Samples are visited
// frame-major for every ordering pair; each side locates a sample from its
// (channel, frame) index, in src[ch]/dst[ch] when planar and at
// frame*numChannels+ch in src[0]/dst[0] when interleaved.
func Convert(
	dst [][]byte, dstFmt Encoding, dstBO binary.ByteOrder, dstOrdering Ordering,
	src [][]byte, srcFmt Encoding, srcBO binary.ByteOrder, srcOrdering Ordering,
	numChannels, numFrames int,
) error {
	srcStride := int(srcFmt.BytesPerSample())
	dstStride := int(dstFmt.BytesPerSample())

	srcSlot := func(ch, frame int) []byte {
		if srcOrdering == Planar {
			return src[ch][frame*srcStride : frame*srcStride+srcStride]
		}
		off := (frame*numChannels + ch) * srcStride
		return src[0][off : off+srcStride]
	}
	dstSlot := func(ch, frame int) []byte {
		if dstOrdering == Planar {
			return dst[ch][frame*dstStride : frame*dstStride+dstStride]
		}
		off := (frame*numChannels + ch) * dstStride
		return dst[0][off : off+dstStride]
	}

	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < numChannels; ch++ {
			if err := ConvertSample(dstSlot(ch, frame), dstFmt, dstBO, srcSlot(ch, frame), srcFmt, srcBO); err != nil {
				return err
			}
		}
	}
	return nil
}

// Interleave packs numChannels planar channel buffers of bytesPerSample*
// numFrames bytes each into a single interleaved buffer.
func Interleave(dst []byte, src [][]byte, numChannels, bytesPerSample, numFrames int) {
	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < numChannels; ch++ {
			srcOff := frame * bytesPerSample
			dstOff := (frame*numChannels + ch) * bytesPerSample
			copy(dst[dstOff:dstOff+bytesPerSample], src[ch][srcOff:srcOff+bytesPerSample])
		}
	}
}

// DeInterleave unpacks a single interleaved buffer into numChannels planar
// channel buffers.
func DeInterleave(dst [][]byte, src []byte, numChannels, bytesPerSample, numFrames int) {
	for frame := 0; frame < numFrames; frame++ {
		for ch := 0; ch < numChannels; ch++ {
			srcOff := (frame*numChannels + ch) * bytesPerSample
			dstOff := frame * bytesPerSample
			copy(dst[ch][dstOff:dstOff+bytesPerSample], src[srcOff:srcOff+bytesPerSample])
		}
	}
}
