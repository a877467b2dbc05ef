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
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/soundondigital/ravennakit/rtp/netio"
)

// endpointKey identifies a reader by the destination address and port a
// datagram arrived on -- the only way to disambiguate multiple multicast
// groups joined on the same socket.
type endpointKey struct {
	addr string
	port uint16
}

// Receiver dispatches datagrams delivered by a netio.Socket to the Reader
// registered for their destination endpoint. It holds no sockets itself;
// callers wire Receiver.Dispatch as the netio.Handler for one or more
// sockets.
type Receiver struct {
	mu      sync.RWMutex
	readers map[endpointKey]*Reader
}

// NewReceiver builds an empty Receiver.
func NewReceiver() *Receiver {
	return &Receiver{readers: make(map[endpointKey]*Reader)}
}

// AddReader registers reader under the RTP endpoint of every session it
// was built with.
func (r *Receiver) AddReader(reader *Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range reader.sessions {
		r.readers[endpointKey{addr: s.Addr.String(), port: s.RTPPort}] = reader
	}
}

// RemoveReader unregisters reader from every endpoint it was registered
// under.
func (r *Receiver) RemoveReader(reader *Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range reader.sessions {
		key := endpointKey{addr: s.Addr.String(), port: s.RTPPort}
		if r.readers[key] == reader {
			delete(r.readers, key)
		}
	}
}

// Dispatch is a netio.Handler: it looks up the reader for event's
// destination endpoint, checks the reader's source filter and, if both
// pass, offers the datagram to the reader's queue. Unrecognized endpoints
// and filtered sources are dropped silently -- this socket may be a member
// of several multicast groups this receiver has no reader for.
func (r *Receiver) Dispatch(event netio.RecvEvent) {
	key := endpointKey{addr: event.DstAddr.IP.String(), port: uint16(event.DstAddr.Port)}

	r.mu.RLock()
	reader, ok := r.readers[key]
	r.mu.RUnlock()
	if !ok {
		return
	}

	if !reader.sourceAllowed(event.SrcAddr.IP) {
		log.WithField("src", event.SrcAddr).Debug("rtp: dropping packet from unfiltered source")
		return
	}

	reader.offer(event.Data)
}
