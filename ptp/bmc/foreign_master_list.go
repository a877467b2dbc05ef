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

package bmc

import (
	"time"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// MinForeignMasterCapacity is the IEEE 1588-2019 §9.3.2.4.4 minimum size
// FOREIGN_MASTER_THRESHOLD requires a port to support.
const MinForeignMasterCapacity = 5

// ForeignMasterRecord tracks one foreign master candidate: the most recent
// Announce received from it, a window counter that is 0 after its first
// Announce and grows by one with each later one, and when the most recent
// one arrived (for pruning).
type ForeignMasterRecord struct {
	SenderIdentity   protocol.ClockIdentity
	MessagesInWindow int
	LastSequenceID   uint16
	HasSequence      bool
	MostRecent       *protocol.Announce
	LastSeen         time.Time
}

// ForeignMasterList is the per-port table of foreign-master candidates the
// BMCA selects erbest from. A sender is tracked from its first Announce,
// whether or not it has qualified yet.
type ForeignMasterList struct {
	capacity int
	records  []*ForeignMasterRecord
}

// NewForeignMasterList builds a list with at least MinForeignMasterCapacity
// slots.
func NewForeignMasterList(capacity int) *ForeignMasterList {
	if capacity < MinForeignMasterCapacity {
		capacity = MinForeignMasterCapacity
	}
	return &ForeignMasterList{capacity: capacity}
}

// Len returns the number of foreign masters currently tracked.
func (l *ForeignMasterList) Len() int { return len(l.records) }

// Records returns the tracked foreign masters in insertion order.
func (l *ForeignMasterList) Records() []*ForeignMasterRecord { return l.records }

func (l *ForeignMasterList) find(sender protocol.ClockIdentity) *ForeignMasterRecord {
	for _, r := range l.records {
		if r.SenderIdentity == sender {
			return r
		}
	}
	return nil
}

// Update records receipt of an Announce at time now. A sender not yet
// tracked is added with MessagesInWindow starting at 0 (per spec, a newly
// seen sender must be observed again before it can qualify); a known
// sender's window counter increments and its most recent Announce is
// replaced. If the list is at capacity and the sender is new, the oldest
// (by LastSeen) record is evicted to make room.
func (l *ForeignMasterList) Update(a *protocol.Announce, now time.Time) *ForeignMasterRecord {
	sender := a.SourcePortIdentity.ClockIdentity
	if rec := l.find(sender); rec != nil {
		rec.MessagesInWindow++
		rec.LastSequenceID = a.SequenceID
		rec.HasSequence = true
		rec.MostRecent = a
		rec.LastSeen = now
		return rec
	}

	if len(l.records) >= l.capacity {
		l.evictOldest()
	}

	rec := &ForeignMasterRecord{
		SenderIdentity:   sender,
		MessagesInWindow: 0,
		MostRecent:       a,
		LastSeen:         now,
	}
	l.records = append(l.records, rec)
	return rec
}

func (l *ForeignMasterList) evictOldest() {
	if len(l.records) == 0 {
		return
	}
	oldest := 0
	for i, r := range l.records {
		if r.LastSeen.Before(l.records[oldest].LastSeen) {
			oldest = i
		}
	}
	l.records = append(l.records[:oldest], l.records[oldest+1:]...)
}

// Prune removes every record whose last Announce is older than
// foreignMasterTimeWindow (conventionally
// foreign_master_time_window x announce_interval), relative to now.
func (l *ForeignMasterList) Prune(now time.Time, foreignMasterTimeWindow time.Duration) {
	kept := l.records[:0]
	for _, r := range l.records {
		if now.Sub(r.LastSeen) <= foreignMasterTimeWindow {
			kept = append(kept, r)
		}
	}
	l.records = kept
}

// Erbest returns the foreign-master record whose most recent Announce
// compares Better (or BetterByTopology) against every other record,
// qualified or not, as seen on the port identified by receiver. Returns nil if the
// list is empty.
func (l *ForeignMasterList) Erbest(receiver protocol.PortIdentity) *ForeignMasterRecord {
	var best *ForeignMasterRecord
	var bestSet ComparisonDataSet
	for _, r := range l.records {
		set := NewComparisonDataSetFromAnnounce(r.MostRecent, receiver)
		if best == nil {
			best, bestSet = r, set
			continue
		}
		if outcome := set.Compare(bestSet); outcome == Better || outcome == BetterByTopology {
			best, bestSet = r, set
		}
	}
	return best
}
