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

import "fmt"

// Buffer holds one contiguous byte slice per channel, sized to capacityFrames
// frames of bytesPerSample each. Growing or shrinking it (Resize) always
// zero-fills, matching the teacher's own resize-to-zero channel buffers.
type Buffer struct {
	channels       [][]byte
	bytesPerSample int
	capacityFrames int
}

// NewBuffer allocates a zeroed Buffer for the given channel count, sample
// width and frame capacity.
func NewBuffer(numChannels, bytesPerSample, capacityFrames int) *Buffer {
	b := &Buffer{bytesPerSample: bytesPerSample}
	b.channels = make([][]byte, numChannels)
	for i := range b.channels {
		b.channels[i] = make([]byte, capacityFrames*bytesPerSample)
	}
	b.capacityFrames = capacityFrames
	return b
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.channels) }

// CapacityFrames returns the number of frames each channel holds.
func (b *Buffer) CapacityFrames() int { return b.capacityFrames }

// Channel returns the raw byte slice backing channel index ch.
func (b *Buffer) Channel(ch int) []byte { return b.channels[ch] }

// Resize changes the per-channel frame capacity, zeroing all contents. The
// channel pointer table is rebuilt after the new storage is allocated so a
// realtime reader never observes a channel slice shorter than advertised.
func (b *Buffer) Resize(capacityFrames int) {
	next := make([][]byte, len(b.channels))
	for i := range next {
		next[i] = make([]byte, capacityFrames*b.bytesPerSample)
	}
	b.channels = next
	b.capacityFrames = capacityFrames
}

// CopyFrom copies numFrames frames starting at frame srcOffset of src into
// this buffer starting at frame dstOffset. Channel counts and sample widths
// must match.
func (b *Buffer) CopyFrom(src *Buffer, srcOffset, dstOffset, numFrames int) error {
	if len(src.channels) != len(b.channels) {
		return fmt.Errorf("audio: channel count mismatch %d != %d", len(src.channels), len(b.channels))
	}
	if src.bytesPerSample != b.bytesPerSample {
		return fmt.Errorf("audio: sample width mismatch %d != %d", src.bytesPerSample, b.bytesPerSample)
	}
	n := numFrames * b.bytesPerSample
	so := srcOffset * b.bytesPerSample
	do := dstOffset * b.bytesPerSample
	for ch := range b.channels {
		copy(b.channels[ch][do:do+n], src.channels[ch][so:so+n])
	}
	return nil
}

// CopyTo copies numFrames frames starting at frame srcOffset of this buffer
// into dst starting at frame dstOffset.
func (b *Buffer) CopyTo(dst *Buffer, srcOffset, dstOffset, numFrames int) error {
	return dst.CopyFrom(b, srcOffset, dstOffset, numFrames)
}
