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

// Package audio describes PCM sample formats and provides planar/interleaved
// buffers, a sample format conversion matrix and a FIFO-backed circular
// buffer for the realtime audio datapath.
package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/soundondigital/ravennakit/wire"
)

// Encoding identifies a PCM sample representation.
type Encoding uint8

const (
	EncodingUndefined Encoding = iota
	EncodingS8
	EncodingU8
	EncodingS16
	EncodingS24
	EncodingS24In32
	EncodingS32
	EncodingS64
	EncodingF32
	EncodingF64
)

// BytesPerSample returns the on-the-wire size of one sample, or 0 for
// EncodingUndefined.
func (e Encoding) BytesPerSample() uint8 {
	switch e {
	case EncodingS8, EncodingU8:
		return 1
	case EncodingS16:
		return 2
	case EncodingS24:
		return 3
	case EncodingS24In32, EncodingS32, EncodingF32:
		return 4
	case EncodingS64, EncodingF64:
		return 8
	default:
		return 0
	}
}

// GroundValue returns the sample value representing digital silence.
func (e Encoding) GroundValue() uint8 {
	if e == EncodingU8 {
		return 0x80
	}
	return 0
}

// String renders the canonical lower-case encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingS8:
		return "pcm_s8"
	case EncodingU8:
		return "pcm_u8"
	case EncodingS16:
		return "pcm_s16"
	case EncodingS24:
		return "pcm_s24"
	case EncodingS24In32:
		return "pcm_s24in32"
	case EncodingS32:
		return "pcm_s32"
	case EncodingS64:
		return "pcm_s64"
	case EncodingF32:
		return "pcm_f32"
	case EncodingF64:
		return "pcm_f64"
	default:
		return "undefined"
	}
}

// ByteOrder selects little-endian, big-endian or host-native sample layout.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
	NativeEndian
)

// Binary returns the encoding/binary.ByteOrder equivalent to o.
func (o ByteOrder) Binary() binary.ByteOrder {
	switch o {
	case BigEndian:
		return binary.BigEndian
	case NativeEndian:
		return wire.NativeOrder
	default:
		return binary.LittleEndian
	}
}

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "be"
	}
	return "le"
}

// Ordering selects how channels are laid out in memory.
type Ordering uint8

const (
	Interleaved Ordering = iota
	Planar
)

func (o Ordering) String() string {
	if o == Planar {
		return "noninterleaved"
	}
	return "interleaved"
}

// Format fully describes a PCM sample stream.
type Format struct {
	ByteOrder   ByteOrder
	Encoding    Encoding
	Ordering    Ordering
	SampleRate  uint32
	NumChannels uint32
}

// BytesPerSample returns Encoding.BytesPerSample.
func (f Format) BytesPerSample() uint8 { return f.Encoding.BytesPerSample() }

// BytesPerFrame returns the size of one frame (one sample per channel).
func (f Format) BytesPerFrame() uint32 {
	return uint32(f.Encoding.BytesPerSample()) * f.NumChannels
}

// IsValid reports whether the format has a concrete encoding, sample rate
// and channel count.
func (f Format) IsValid() bool {
	return f.Encoding != EncodingUndefined && f.SampleRate != 0 && f.NumChannels != 0
}

// IsNativeByteOrder reports whether f's samples are laid out in the host's
// native byte order.
func (f Format) IsNativeByteOrder() bool {
	return f.ByteOrder.Binary() == wire.NativeOrder
}

// WithByteOrder returns a copy of f with ByteOrder replaced.
func (f Format) WithByteOrder(order ByteOrder) Format {
	f.ByteOrder = order
	return f
}

// String renders "<encoding>/<rate>/<channels>/<ordering>/<byteorder>".
func (f Format) String() string {
	return fmt.Sprintf("%s/%d/%d/%s/%s", f.Encoding, f.SampleRate, f.NumChannels, f.Ordering, f.ByteOrder)
}
