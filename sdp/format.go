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

package sdp

import (
	"fmt"

	"github.com/soundondigital/ravennakit/audio"
)

// Format is one "a=rtpmap:" entry bound to a payload type named on the
// enclosing "m=" line: payload-type encoding-name/clock-rate[/channels].
type Format struct {
	PayloadType  int8
	EncodingName string
	ClockRate    uint32
	NumChannels  uint32
}

// BytesPerSample returns the PCM sample width implied by EncodingName, or
// false if the encoding isn't one of the linear PCM names RAVENNA uses.
func (f Format) BytesPerSample() (int, bool) {
	switch f.EncodingName {
	case "L16":
		return 2, true
	case "L24":
		return 3, true
	case "L32":
		return 4, true
	default:
		return 0, false
	}
}

// BytesPerFrame returns BytesPerSample times NumChannels, or false if the
// encoding is unknown or NumChannels is zero.
func (f Format) BytesPerFrame() (int, bool) {
	bps, ok := f.BytesPerSample()
	if !ok || f.NumChannels == 0 {
		return 0, false
	}
	return bps * int(f.NumChannels), true
}

// String renders the rtpmap value "<payload-type> <encoding>/<rate>/<channels>"
// without the "a=rtpmap:" prefix, which the caller owns.
func (f Format) String() string {
	return fmt.Sprintf("%d %s/%d/%d", f.PayloadType, f.EncodingName, f.ClockRate, f.NumChannels)
}

func parseFormat(line string) (Format, error) {
	p := newLineParser(line)

	var f Format

	payloadType, ok := p.readInt()
	if !ok {
		return Format{}, fmt.Errorf("sdp: rtpmap: invalid payload type")
	}
	f.PayloadType = int8(payloadType)
	if !p.skipByte(' ') {
		return Format{}, fmt.Errorf("sdp: rtpmap: expecting space after payload type")
	}

	encodingName, ok := p.split('/')
	if !ok {
		return Format{}, fmt.Errorf("sdp: rtpmap: failed to parse encoding name")
	}
	f.EncodingName = encodingName

	clockRate, ok := p.readInt()
	if !ok {
		return Format{}, fmt.Errorf("sdp: rtpmap: invalid clock rate")
	}
	f.ClockRate = uint32(clockRate)

	if p.skipByte('/') {
		numChannels, ok := p.readInt()
		if !ok {
			return Format{}, fmt.Errorf("sdp: rtpmap: failed to parse number of channels")
		}
		f.NumChannels = uint32(numChannels)
	} else {
		f.NumChannels = 1
	}

	return f, nil
}

// ToAudioFormat converts f to an audio.Format, assuming network byte order
// (big-endian) and interleaved samples per RFC 3551/AES67. ok is false if
// EncodingName isn't a linear PCM encoding this codec understands.
func (f Format) ToAudioFormat() (out audio.Format, ok bool) {
	var enc audio.Encoding
	switch f.EncodingName {
	case "L16":
		enc = audio.EncodingS16
	case "L24":
		enc = audio.EncodingS24
	case "L32":
		enc = audio.EncodingS32
	default:
		return audio.Format{}, false
	}
	return audio.Format{
		ByteOrder:   audio.BigEndian,
		Encoding:    enc,
		Ordering:    audio.Interleaved,
		SampleRate:  f.ClockRate,
		NumChannels: f.NumChannels,
	}, true
}

// FromAudioFormat builds the rtpmap fields (everything but PayloadType,
// which is assigned by the caller) from an audio.Format. ok is false if the
// encoding has no RTP/AES67 linear PCM equivalent.
func FromAudioFormat(payloadType int8, f audio.Format) (out Format, ok bool) {
	var name string
	switch f.Encoding {
	case audio.EncodingS16:
		name = "L16"
	case audio.EncodingS24:
		name = "L24"
	case audio.EncodingS32:
		name = "L32"
	default:
		return Format{}, false
	}
	return Format{
		PayloadType:  payloadType,
		EncodingName: name,
		ClockRate:    f.SampleRate,
		NumChannels:  f.NumChannels,
	}, true
}
