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

	"github.com/soundondigital/ravennakit/fifo"
)

// positionFIFO is the subset of the fifo package's reserve/commit API that
// CircularBuffer needs. Any of fifo.Single/SPSC/MPSC/SPMC/MPMC satisfies it.
type positionFIFO interface {
	Size() int
	PrepareForWrite(n int) fifo.Lock
	PrepareForRead(n int) fifo.Lock
	CommitWrite(fifo.Lock)
	CommitRead(fifo.Lock)
	Resize(capacity int)
	Reset()
}

// CircularBuffer is a frame-addressed ring of audio, backed by a FIFO that
// hands out one or two contiguous frame spans per read or write and a planar
// Buffer that physically stores the frames.
type CircularBuffer struct {
	fifo     positionFIFO
	storage  *Buffer
	format   Format
	capacity int
}

// NewCircularBuffer builds a CircularBuffer over capacityFrames frames of
// format, using fifo to sequence reservations (typically fifo.NewSPSC).
func NewCircularBuffer(f positionFIFO, format Format, capacityFrames int) *CircularBuffer {
	return &CircularBuffer{
		fifo:     f,
		storage:  NewBuffer(int(format.NumChannels), int(format.Encoding.BytesPerSample()), capacityFrames),
		format:   format,
		capacity: capacityFrames,
	}
}

// Size returns the number of frames currently buffered.
func (c *CircularBuffer) Size() int { return c.fifo.Size() }

// Write copies numFrames frames from src (a Buffer with the same channel
// count and sample width as c) into the ring, reserving space via the FIFO
// and writing up to two contiguous spans.
func (c *CircularBuffer) Write(src *Buffer, numFrames int) error {
	if src.NumChannels() != c.storage.NumChannels() {
		return fmt.Errorf("audio: channel count mismatch %d != %d", src.NumChannels(), c.storage.NumChannels())
	}
	lock := c.fifo.PrepareForWrite(numFrames)
	if !lock.Valid() {
		return fmt.Errorf("audio: circular buffer has no space for %d frames", numFrames)
	}
	pos := lock.Position
	if err := c.storage.CopyFrom(src, 0, pos.Index1, pos.Size1); err != nil {
		lock.Cancel()
		return err
	}
	if pos.Wraps() {
		if err := c.storage.CopyFrom(src, pos.Size1, 0, pos.Size2); err != nil {
			lock.Cancel()
			return err
		}
	}
	c.fifo.CommitWrite(lock)
	return nil
}

// Read copies numFrames frames from the ring into dst, reserving the
// region via the FIFO and reading up to two contiguous spans.
func (c *CircularBuffer) Read(dst *Buffer, numFrames int) error {
	if dst.NumChannels() != c.storage.NumChannels() {
		return fmt.Errorf("audio: channel count mismatch %d != %d", dst.NumChannels(), c.storage.NumChannels())
	}
	lock := c.fifo.PrepareForRead(numFrames)
	if !lock.Valid() {
		return fmt.Errorf("audio: circular buffer does not have %d buffered frames", numFrames)
	}
	pos := lock.Position
	if err := c.storage.CopyTo(dst, pos.Index1, 0, pos.Size1); err != nil {
		lock.Cancel()
		return err
	}
	if pos.Wraps() {
		if err := c.storage.CopyTo(dst, 0, pos.Size1, pos.Size2); err != nil {
			lock.Cancel()
			return err
		}
	}
	c.fifo.CommitRead(lock)
	return nil
}

// WriteConverting behaves like Write but converts every sample from srcFmt
// to c's format via ConvertSample, for producers whose native format
// differs from the ring's storage format.
func (c *CircularBuffer) WriteConverting(src *Buffer, srcFmt Encoding, srcBO binary.ByteOrder, numFrames int) error {
	converted := NewBuffer(src.NumChannels(), int(c.format.Encoding.BytesPerSample()), numFrames)
	dstBO := c.format.ByteOrder.Binary()
	srcStride := int(srcFmt.BytesPerSample())
	dstStride := int(c.format.Encoding.BytesPerSample())
	for ch := 0; ch < src.NumChannels(); ch++ {
		for frame := 0; frame < numFrames; frame++ {
			so := frame * srcStride
			do := frame * dstStride
			if err := ConvertSample(
				converted.Channel(ch)[do:do+dstStride], c.format.Encoding, dstBO,
				src.Channel(ch)[so:so+srcStride], srcFmt, srcBO,
			); err != nil {
				return err
			}
		}
	}
	return c.Write(converted, numFrames)
}

// Resize changes the ring's frame capacity, clearing both the FIFO and the
// backing storage.
func (c *CircularBuffer) Resize(capacityFrames int) {
	c.fifo.Reset()
	c.fifo.Resize(capacityFrames)
	c.storage.Resize(capacityFrames)
	c.capacity = capacityFrames
}
