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

// Package buffer provides non-owning byte views, growable byte buffers and a
// fixed-capacity ring buffer shared by the audio and RTP datapaths.
package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/soundondigital/ravennakit/wire"
)

// View is a non-owning, bounds-checked window over a byte slice.
type View struct {
	data []byte
}

// NewView wraps b without copying it.
func NewView(b []byte) View {
	return View{data: b}
}

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.data) }

// Bytes returns the underlying slice. Callers must not retain it past the
// lifetime of the buffer it was sliced from.
func (v View) Bytes() []byte { return v.data }

// Subview returns a bounds-checked sub-window starting at offset, extending
// size bytes (or to the end of the view when size is omitted via -1).
func (v View) Subview(offset int, size int) (View, error) {
	if offset < 0 || offset > len(v.data) {
		return View{}, fmt.Errorf("buffer: offset %d out of range [0,%d]", offset, len(v.data))
	}
	if size < 0 {
		size = len(v.data) - offset
	}
	if size < 0 || offset+size > len(v.data) {
		return View{}, fmt.Errorf("buffer: subview [%d:%d] out of range for len %d", offset, offset+size, len(v.data))
	}
	return View{data: v.data[offset : offset+size]}, nil
}

func (v View) checkBounds(offset, width int) error {
	if offset < 0 || offset+width > len(v.data) {
		return fmt.Errorf("buffer: read of %d bytes at offset %d out of range for len %d", width, offset, len(v.data))
	}
	return nil
}

// ReadUint8 reads a single byte at offset.
func (v View) ReadUint8(offset int) (uint8, error) {
	if err := v.checkBounds(offset, 1); err != nil {
		return 0, err
	}
	return v.data[offset], nil
}

// ReadBE16 reads a big-endian uint16 at offset.
func (v View) ReadBE16(offset int) (uint16, error) {
	if err := v.checkBounds(offset, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(v.data[offset:]), nil
}

// ReadLE16 reads a little-endian uint16 at offset.
func (v View) ReadLE16(offset int) (uint16, error) {
	if err := v.checkBounds(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(v.data[offset:]), nil
}

// ReadNE16 reads a native-endian uint16 at offset.
func (v View) ReadNE16(offset int) (uint16, error) {
	if err := v.checkBounds(offset, 2); err != nil {
		return 0, err
	}
	return wire.NativeOrder.Uint16(v.data[offset:]), nil
}

// ReadBE32 reads a big-endian uint32 at offset.
func (v View) ReadBE32(offset int) (uint32, error) {
	if err := v.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v.data[offset:]), nil
}

// ReadLE32 reads a little-endian uint32 at offset.
func (v View) ReadLE32(offset int) (uint32, error) {
	if err := v.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v.data[offset:]), nil
}

// ReadNE32 reads a native-endian uint32 at offset.
func (v View) ReadNE32(offset int) (uint32, error) {
	if err := v.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	return wire.NativeOrder.Uint32(v.data[offset:]), nil
}

// ReadBE64 reads a big-endian uint64 at offset.
func (v View) ReadBE64(offset int) (uint64, error) {
	if err := v.checkBounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v.data[offset:]), nil
}

// ReadLE64 reads a little-endian uint64 at offset.
func (v View) ReadLE64(offset int) (uint64, error) {
	if err := v.checkBounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(v.data[offset:]), nil
}
