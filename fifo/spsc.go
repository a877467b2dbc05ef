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

import "sync/atomic"

// SPSC is safe for exactly one producer thread and exactly one consumer
// thread operating concurrently; size is tracked in an atomic counter so
// both sides observe a consistent view without a mutex.
type SPSC struct {
	readTS, writeTS int
	capacity        int
	size            atomic.Int64
}

// NewSPSC allocates an SPSC FIFO with the given capacity.
func NewSPSC(capacity int) *SPSC {
	return &SPSC{capacity: capacity}
}

// Size returns the number of elements currently held.
func (f *SPSC) Size() int { return int(f.size.Load()) }

// PrepareForWrite reserves space for n elements. Call only from the producer
// thread.
func (f *SPSC) PrepareForWrite(n int) Lock {
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

// PrepareForRead reserves n elements for reading. Call only from the
// consumer thread.
func (f *SPSC) PrepareForRead(n int) Lock {
	if int(f.size.Load()) < n {
		return Lock{}
	}
	return Lock{
		Position: computePosition(f.readTS, f.capacity, n),
		n:        n,
		commit: func(n int) {
			f.readTS += n
			f.size.Add(-int64(n))
		},
		valid: true,
	}
}

// CommitWrite publishes a reserved write.
func (f *SPSC) CommitWrite(lock Lock) {
	if lock.valid {
		lock.commit(lock.n)
	}
}

// CommitRead publishes a reserved read.
func (f *SPSC) CommitRead(lock Lock) {
	if lock.valid {
		lock.commit(lock.n)
	}
}

// Resize changes capacity, implying Reset. Never call while producers or
// consumers might be active.
func (f *SPSC) Resize(capacity int) {
	f.Reset()
	f.capacity = capacity
}

// Reset discards the current contents.
func (f *SPSC) Reset() {
	f.readTS = 0
	f.writeTS = 0
	f.size.Store(0)
}
