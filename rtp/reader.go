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

	"github.com/soundondigital/ravennakit/fifo"
)

// Session identifies one RTP/RTCP endpoint pair a Reader is bound to:
// multicast (or unicast) address, RTP port and its paired RTCP port.
type Session struct {
	Addr     net.IP
	RTPPort  uint16
	RTCPPort uint16
}

// Reader owns one exclusive producer/consumer packet queue: the receiver's
// dispatch goroutine is the sole producer, and a single consumer goroutine
// drains it via Run. Backing storage for in-flight packets is a fixed-size
// array of PacketBuffer slots; fifo.SPSC only ever hands out index ranges
// into it, never copies the payload itself.
type Reader struct {
	sessions     []Session
	sourceFilter []net.IP

	ring   []PacketBuffer
	sizes  []int
	queue  *fifo.SPSC
	notify chan struct{}

	dropped uint64
}

// NewReader builds a Reader bound to sessions, accepting packets only from
// the addresses in sourceFilter (an empty filter allows any source),
// buffering up to capacity in-flight packets.
func NewReader(sessions []Session, sourceFilter []net.IP, capacity int) *Reader {
	return &Reader{
		sessions:     sessions,
		sourceFilter: sourceFilter,
		ring:         make([]PacketBuffer, capacity),
		sizes:        make([]int, capacity),
		queue:        fifo.NewSPSC(capacity),
		notify:       make(chan struct{}, 1),
	}
}

// Dropped returns the number of packets silently dropped because the
// reader's queue was full. Ordering is preserved by refusing the new
// packet rather than evicting the oldest.
func (r *Reader) Dropped() uint64 { return r.dropped }

func (r *Reader) sourceAllowed(src net.IP) bool {
	if len(r.sourceFilter) == 0 {
		return true
	}
	for _, allowed := range r.sourceFilter {
		if allowed.Equal(src) {
			return true
		}
	}
	return false
}

// offer is called from the receiver's single dispatch goroutine. It copies
// data into the next free slot and commits it, or silently drops the packet
// if the queue is full.
func (r *Reader) offer(data []byte) {
	lock := r.queue.PrepareForWrite(1)
	if !lock.Valid() {
		r.dropped++
		return
	}
	slot := lock.Position.Index1
	n := copy(r.ring[slot][:], data)
	r.sizes[slot] = n
	r.queue.CommitWrite(lock)

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Run drains the reader's queue on the calling goroutine, invoking handler
// with a PacketView for every packet until ctx is canceled. Exactly one
// goroutine may call Run for a given Reader.
func (r *Reader) Run(ctx context.Context, handler func(PacketView)) error {
	for {
		lock := r.queue.PrepareForRead(1)
		if !lock.Valid() {
			select {
			case <-r.notify:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		slot := lock.Position.Index1
		handler(PacketView{buf: &r.ring[slot], size: r.sizes[slot]})
		r.queue.CommitRead(lock)
	}
}
