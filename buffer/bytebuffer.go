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

package buffer

import (
	"encoding/binary"

	"github.com/soundondigital/ravennakit/wire"
)

// ByteBuffer is a growable byte buffer with typed big/little/native-endian
// append helpers, used to build wire-format payloads without intermediate
// allocations per field.
type ByteBuffer struct {
	data []byte
}

// NewByteBuffer creates an empty buffer with the given initial capacity hint.
func NewByteBuffer(capacityHint int) *ByteBuffer {
	return &ByteBuffer{data: make([]byte, 0, capacityHint)}
}

// Bytes returns the accumulated bytes.
func (b *ByteBuffer) Bytes() []byte { return b.data }

// Len returns the number of bytes written so far.
func (b *ByteBuffer) Len() int { return len(b.data) }

// View wraps the buffer's current contents in a read-only View.
func (b *ByteBuffer) View() View { return NewView(b.data) }

// AppendBytes appends raw bytes.
func (b *ByteBuffer) AppendBytes(p []byte) {
	b.data = append(b.data, p...)
}

// AppendUint8 appends a single byte.
func (b *ByteBuffer) AppendUint8(v uint8) {
	b.data = append(b.data, v)
}

// AppendBE16 appends a big-endian uint16.
func (b *ByteBuffer) AppendBE16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendLE16 appends a little-endian uint16.
func (b *ByteBuffer) AppendLE16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendNE16 appends a native-endian uint16.
func (b *ByteBuffer) AppendNE16(v uint16) {
	var tmp [2]byte
	wire.NativeOrder.PutUint16(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendBE32 appends a big-endian uint32.
func (b *ByteBuffer) AppendBE32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendLE32 appends a little-endian uint32.
func (b *ByteBuffer) AppendLE32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendNE32 appends a native-endian uint32.
func (b *ByteBuffer) AppendNE32(v uint32) {
	var tmp [4]byte
	wire.NativeOrder.PutUint32(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendBE64 appends a big-endian uint64.
func (b *ByteBuffer) AppendBE64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendLE64 appends a little-endian uint64.
func (b *ByteBuffer) AppendLE64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// AppendNE64 appends a native-endian uint64.
func (b *ByteBuffer) AppendNE64(v uint64) {
	var tmp [8]byte
	wire.NativeOrder.PutUint64(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// Reset clears the buffer, keeping its backing array.
func (b *ByteBuffer) Reset() {
	b.data = b.data[:0]
}
