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

package fifo

import (
	"sync"
	"sync/atomic"
)

// SPMC supports a single realtime-safe producer thread and many consumer
// threads, serialized by a mutex held for the duration of each read
// reservation.
type SPMC struct {
	mu              sync.Mutex
	readTS, writeTS int
	capacity        int
	size            atomic.Int64
}

// NewSPMC allocates an SPMC FIFO with the given capacity.
func NewSPMC(capacity int) *SPMC {
	return &SPMC{capacity: capacity}
}

// Size returns the number of elements currently held.
func (f *SPMC) Size() int { return int(f.size.Load()) }

// PrepareForWrite reserves space for n elements. Realtime-safe: call only
// from the single producer thread.
func (f *SPMC) PrepareForWrite(n int) Lock {
	if int(f.size.Load())+n > f.capacity {
		return Lock{}
	}
	return Lock{
		Position: computePosition(f.writeTS, f.capacity, n),
		n:        n,
		commit: func(n int) {
			f.writeTS += n
			f.size.Add(int64(n))
		},
		valid: true,
	}
}

// PrepareForRead reserves n elements for reading. Not realtime-safe: blocks
// on a mutex that stays held until the returned Lock is committed or
// cancelled, serializing concurrent consumers.
func (f *SPMC) PrepareForRead(n int) Lock {
	f.mu.Lock()
	if int(f.size.Load()) < n {
		f.mu.Unlock()
		return Lock{}
	}
	pos := computePosition(f.readTS, f.capacity, n)
	return Lock{
		Position: pos,
		n:        n,
		commit: func(n int) {
			f.readTS += n
			f.size.Add(-int64(n))
		},
		release: f.mu.Unlock,
		valid:   true,
	}
}

// CommitWrite publishes a reserved write.
func (f *SPMC) CommitWrite(lock Lock) {
	if lock.valid {
		lock.commit(lock.n)
	}
}

// CommitRead publishes a reserved read and releases the consumer mutex.
func (f *SPMC) CommitRead(lock Lock) {
	if !lock.valid {
		return
	}
	lock.commit(lock.n)
	if lock.release != nil {
		lock.release()
	}
}

// Resize changes capacity, implying Reset.
func (f *SPMC) Resize(capacity int) {
	f.Reset()
	f.mu.Lock()
	f.capacity = capacity
	f.mu.Unlock()
}

// Reset discards the current contents.
func (f *SPMC) Reset() {
	f.mu.Lock()
	f.readTS = 0
	f.writeTS = 0
	f.mu.Unlock()
	f.size.Store(0)
}
