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

package rtp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildPacket(marker bool, pt uint8, seq uint16, ts, ssrc uint32, payload []byte) []byte {
	b0 := byte(2 << 6)
	b1 := pt & 0x7f
	if marker {
		b1 |= 0x80
	}
	pkt := []byte{
		b0, b1,
		byte(seq >> 8), byte(seq),
		byte(ts >> 24), byte(ts >> 16), byte(ts >> 8), byte(ts),
		byte(ssrc >> 24), byte(ssrc >> 16), byte(ssrc >> 8), byte(ssrc),
	}
	return append(pkt, payload...)
}

func TestParseHeaderFixedFields(t *testing.T) {
	pkt := buildPacket(true, 98, 1000, 48000, 0xdeadbeef, []byte{1, 2, 3, 4})
	h, err := ParseHeader(pkt)
	require.NoError(t, err)
	require.Equal(t, uint8(2), h.Version)
	require.True(t, h.Marker)
	require.Equal(t, uint8(98), h.PayloadType)
	require.Equal(t, uint16(1000), h.SequenceNumber)
	require.Equal(t, uint32(48000), h.Timestamp)
	require.Equal(t, uint32(0xdeadbeef), h.SSRC)
}

func TestParseHeaderRejectsShortPacket(t *testing.T) {
	_, err := ParseHeader([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParseHeaderRejectsWrongVersion(t *testing.T) {
	pkt := buildPacket(false, 98, 0, 0, 0, nil)
	pkt[0] = 0x00 // version 0
	_, err := ParseHeader(pkt)
	require.Error(t, err)
}

func TestPacketViewPayloadSkipsFixedHeader(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	pkt := buildPacket(false, 98, 1, 1, 1, payload)

	var buf PacketBuffer
	n := copy(buf[:], pkt)
	view := PacketView{buf: &buf, size: n}

	p, err := view.Payload()
	require.NoError(t, err)
	require.Equal(t, payload, p)
}
