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

// Single is a FIFO used from a single thread; prepare/commit never suspend
// and never touch an atomic.
type Single struct {
	readTS, writeTS int
	capacity        int
}

// NewSingle allocates a Single FIFO with the given capacity.
func NewSingle(capacity int) *Single {
	return &Single{capacity: capacity}
}

// Size returns the number of elements currently held.
func (f *Single) Size() int { return f.writeTS - f.readTS }

// PrepareForWrite reserves space for n elements, or returns an invalid Lock
// if the FIFO doesn't have room.
func (f *Single) PrepareForWrite(n int) Lock {
	if f.Size()+n > f.capacity {
		return Lock{}
	}
	return Lock{
		Position: computePosition(f.writeTS, f.capacity, n),
		n:        n,
		commit:   func(n int) { f.writeTS += n },
		valid:    true,
	}
}

// PrepareForRead reserves n elements for reading, or returns an invalid Lock
// if fewer than n elements are available.
func (f *Single) PrepareForRead(n int) Lock {
	if f.Size() < n {
		return Lock{}
	}
	return Lock{
		Position: computePosition(f.readTS, f.capacity, n),
		n:        n,
		commit:   func(n int) { f.readTS += n },
		valid:    true,
	}
}

// CommitWrite advances the write position by the amount reserved in lock.
func (f *Single) CommitWrite(lock Lock) {
	if lock.valid {
		lock.commit(lock.n)
	}
}

// CommitRead advances the read position by the amount reserved in lock.
func (f *Single) CommitRead(lock Lock) {
	if lock.valid {
		lock.commit(lock.n)
	}
}

// Resize changes capacity, implying Reset.
func (f *Single) Resize(capacity int) {
	f.Reset()
	f.capacity = capacity
}

// Reset discards the current contents.
func (f *Single) Reset() {
	f.readTS = 0
	f.writeTS = 0
}
