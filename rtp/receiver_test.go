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
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/rtp/netio"
)

func TestReceiverDispatchesToMatchingReaderOnly(t *testing.T) {
	session := Session{Addr: net.ParseIP("239.1.1.1"), RTPPort: 5004, RTCPPort: 5005}
	reader := NewReader([]Session{session}, nil, 4)

	recv := NewReceiver()
	recv.AddReader(reader)

	recv.Dispatch(netio.RecvEvent{
		Data:    []byte("matched"),
		SrcAddr: &net.UDPAddr{IP: net.ParseIP("192.168.1.1")},
		DstAddr: &net.UDPAddr{IP: net.ParseIP("239.1.1.1"), Port: 5004},
	})
	recv.Dispatch(netio.RecvEvent{
		Data:    []byte("unmatched"),
		SrcAddr: &net.UDPAddr{IP: net.ParseIP("192.168.1.1")},
		DstAddr: &net.UDPAddr{IP: net.ParseIP("239.1.1.2"), Port: 5004},
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got []byte
	done := make(chan struct{})
	go func() {
		_ = reader.Run(ctx, func(v PacketView) {
			got = append([]byte(nil), v.Bytes()...)
			close(done)
		})
	}()

	select {
	case <-done:
		require.Equal(t, "matched", string(got))
	case <-ctx.Done():
		t.Fatal("timed out waiting for dispatched packet")
	}
}

func TestReceiverDropsPacketsFromUnfilteredSource(t *testing.T) {
	session := Session{Addr: net.ParseIP("239.1.1.1"), RTPPort: 5004}
	reader := NewReader([]Session{session}, []net.IP{net.ParseIP("192.168.1.1")}, 4)

	recv := NewReceiver()
	recv.AddReader(reader)

	recv.Dispatch(netio.RecvEvent{
		Data:    []byte("not-allowed"),
		SrcAddr: &net.UDPAddr{IP: net.ParseIP("10.0.0.1")},
		DstAddr: &net.UDPAddr{IP: net.ParseIP("239.1.1.1"), Port: 5004},
	})

	require.Equal(t, 0, reader.queue.Size())
}

func TestReaderSilentlyDropsWhenQueueFull(t *testing.T) {
	session := Session{Addr: net.ParseIP("239.1.1.1"), RTPPort: 5004}
	reader := NewReader([]Session{session}, nil, 1)

	reader.offer([]byte("first"))
	reader.offer([]byte("second"))

	require.Equal(t, uint64(1), reader.Dropped())
	require.Equal(t, 1, reader.queue.Size())
}

func TestRemoveReaderStopsDispatch(t *testing.T) {
	session := Session{Addr: net.ParseIP("239.1.1.1"), RTPPort: 5004}
	reader := NewReader([]Session{session}, nil, 4)

	recv := NewReceiver()
	recv.AddReader(reader)
	recv.RemoveReader(reader)

	recv.Dispatch(netio.RecvEvent{
		Data:    []byte("dropped"),
		SrcAddr: &net.UDPAddr{IP: net.ParseIP("192.168.1.1")},
		DstAddr: &net.UDPAddr{IP: net.ParseIP("239.1.1.1"), Port: 5004},
	})

	require.Equal(t, 0, reader.queue.Size())
}
