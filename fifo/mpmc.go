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

import "sync"

// MPMC supports many producer and many consumer threads. Neither side is
// realtime-safe: a single mutex guards both the size counter and the
// timestamps, and stays held between prepare and commit/cancel.
type MPMC struct {
	mu              sync.Mutex
	readTS, writeTS int
	capacity        int
	size            int
}

// NewMPMC allocates an MPMC FIFO with the given capacity.
func NewMPMC(capacity int) *MPMC {
	return &MPMC{capacity: capacity}
}

// Size returns the number of elements currently held.
func (f *MPMC) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

// PrepareForWrite reserves space for n elements.
func (f *MPMC) PrepareForWrite(n int) Lock {
	f.mu.Lock()
	if f.size+n > f.capacity {
		f.mu.Unlock()
		return Lock{}
	}
	pos := computePosition(f.writeTS, f.capacity, n)
	return Lock{
		Position: pos,
		n:        n,
		commit: func(n int) {
			f.writeTS += n
			f.size += n
		},
		release: f.mu.Unlock,
		valid:   true,
	}
}

// PrepareForRead reserves n elements for reading.
func (f *MPMC) PrepareForRead(n int) Lock {
	f.mu.Lock()
	if f.size < n {
		f.mu.Unlock()
		return Lock{}
	}
	pos := computePosition(f.readTS, f.capacity, n)
	return Lock{
		Position: pos,
		n:        n,
		commit: func(n int) {
			f.readTS += n
			f.size -= n
		},
		release: f.mu.Unlock,
		valid:   true,
	}
}

// CommitWrite publishes a reserved write and releases the mutex.
func (f *MPMC) CommitWrite(lock Lock) { f.commit(lock) }

// CommitRead publishes a reserved read and releases the mutex.
func (f *MPMC) CommitRead(lock Lock) { f.commit(lock) }

func (f *MPMC) commit(lock Lock) {
	if !lock.valid {
		return
	}
	lock.commit(lock.n)
	if lock.release != nil {
		lock.release()
	}
}

// Resize changes capacity, implying Reset.
func (f *MPMC) Resize(capacity int) {
	f.mu.Lock()
	f.readTS, f.writeTS, f.size = 0, 0, 0
	f.capacity = capacity
	f.mu.Unlock()
}

// Reset discards the current contents.
func (f *MPMC) Reset() {
	f.mu.Lock()
	f.readTS, f.writeTS, f.size = 0, 0, 0
	f.mu.Unlock()
}
