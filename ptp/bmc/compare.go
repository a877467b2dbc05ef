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

// Package bmc implements the IEEE 1588-2019 §9.3 Best Master Clock
// Algorithm: dataset comparison, Announce qualification and the
// foreign-master list.
package bmc

import (
	"github.com/soundondigital/ravennakit/ptp/datasets"
	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// Outcome is the result of comparing two datasets, per IEEE 1588-2019
// §9.3.4 figures 28 and 29. The declaration order is the comparison order:
// Worse < WorseByTopology < Error1 < Error2 < BetterByTopology < Better.
type Outcome uint8

const (
	Worse Outcome = iota
	WorseByTopology
	Error1
	Error2
	BetterByTopology
	Better
)

func (o Outcome) String() string {
	switch o {
	case Worse:
		return "worse"
	case WorseByTopology:
		return "worse_by_topology"
	case Error1:
		return "error1"
	case Error2:
		return "error2"
	case BetterByTopology:
		return "better_by_topology"
	case Better:
		return "better"
	default:
		return "unknown"
	}
}

// ComparisonDataSet is the reduced view of an Announce (or of this
// instance's own DefaultDS) needed to run the BMCA dataset comparison.
type ComparisonDataSet struct {
	GrandmasterPriority1    uint8
	GrandmasterIdentity     protocol.ClockIdentity
	GrandmasterClockQuality protocol.ClockQuality
	GrandmasterPriority2    uint8
	StepsRemoved            uint16
	IdentityOfSenders       protocol.ClockIdentity
	IdentityOfReceiver      protocol.PortIdentity
}

// NewComparisonDataSetFromAnnounce reduces an Announce message, as received
// on the port identified by receiver, to a ComparisonDataSet.
func NewComparisonDataSetFromAnnounce(a *protocol.Announce, receiver protocol.PortIdentity) ComparisonDataSet {
	return ComparisonDataSet{
		GrandmasterPriority1:    a.GrandmasterPriority1,
		GrandmasterIdentity:     a.GrandmasterIdentity,
		GrandmasterClockQuality: a.GrandmasterClockQuality,
		GrandmasterPriority2:    a.GrandmasterPriority2,
		StepsRemoved:            a.StepsRemoved,
		IdentityOfSenders:       a.SourcePortIdentity.ClockIdentity,
		IdentityOfReceiver:      receiver,
	}
}

// NewComparisonDataSetFromDefaultDS reduces this instance's own DefaultDS
// (as the E dataset, steps_removed == 0) to a ComparisonDataSet.
func NewComparisonDataSetFromDefaultDS(d datasets.DefaultDS) ComparisonDataSet {
	return ComparisonDataSet{
		GrandmasterPriority1:    d.Priority1,
		GrandmasterIdentity:     d.ClockIdentity,
		GrandmasterClockQuality: d.ClockQuality,
		GrandmasterPriority2:    d.Priority2,
		StepsRemoved:            0,
		IdentityOfSenders:       d.ClockIdentity,
		IdentityOfReceiver:      protocol.PortIdentity{ClockIdentity: d.ClockIdentity, PortNumber: 0},
	}
}

// Compare implements IEEE 1588-2019 §9.3.4: if both sets name the same
// grandmaster, the comparison falls through to the topology tie-break
// (steps_removed, then sender/receiver identity, then receiver port
// number); otherwise it orders strictly on the dataset tuple
// (priority1, clock_class, clock_accuracy, offset_scaled_log_variance,
// priority2, grandmaster_identity).
func (c ComparisonDataSet) Compare(other ComparisonDataSet) Outcome {
	if c.GrandmasterIdentity == other.GrandmasterIdentity {
		return c.compareTopology(other)
	}
	return c.compareDataset(other)
}

func (c ComparisonDataSet) compareTopology(other ComparisonDataSet) Outcome {
	if c.StepsRemoved > other.StepsRemoved+1 {
		return Worse
	}
	if c.StepsRemoved+1 < other.StepsRemoved {
		return Better
	}

	if c.StepsRemoved > other.StepsRemoved {
		switch {
		case c.IdentityOfReceiver.ClockIdentity < c.IdentityOfSenders:
			return Worse
		case c.IdentityOfReceiver.ClockIdentity > c.IdentityOfSenders:
			return WorseByTopology
		default:
			return Error1
		}
	}

	if c.StepsRemoved < other.StepsRemoved {
		switch {
		case other.IdentityOfReceiver.ClockIdentity < other.IdentityOfSenders:
			return Better
		case other.IdentityOfReceiver.ClockIdentity > other.IdentityOfSenders:
			return BetterByTopology
		default:
			return Error1
		}
	}

	if c.IdentityOfSenders > other.IdentityOfSenders {
		return WorseByTopology
	}
	if c.IdentityOfSenders < other.IdentityOfSenders {
		return BetterByTopology
	}

	if c.IdentityOfReceiver.PortNumber > other.IdentityOfReceiver.PortNumber {
		return WorseByTopology
	}
	if c.IdentityOfReceiver.PortNumber < other.IdentityOfReceiver.PortNumber {
		return BetterByTopology
	}

	return Error2
}

func (c ComparisonDataSet) compareDataset(other ComparisonDataSet) Outcome {
	if c.GrandmasterPriority1 != other.GrandmasterPriority1 {
		return lowerIsBetter(c.GrandmasterPriority1, other.GrandmasterPriority1)
	}
	if c.GrandmasterClockQuality.ClockClass != other.GrandmasterClockQuality.ClockClass {
		return lowerIsBetter(c.GrandmasterClockQuality.ClockClass, other.GrandmasterClockQuality.ClockClass)
	}
	if c.GrandmasterClockQuality.ClockAccuracy != other.GrandmasterClockQuality.ClockAccuracy {
		return lowerIsBetter(c.GrandmasterClockQuality.ClockAccuracy, other.GrandmasterClockQuality.ClockAccuracy)
	}
	if c.GrandmasterClockQuality.OffsetScaledLogVariance != other.GrandmasterClockQuality.OffsetScaledLogVariance {
		return lowerIsBetter(c.GrandmasterClockQuality.OffsetScaledLogVariance, other.GrandmasterClockQuality.OffsetScaledLogVariance)
	}
	if c.GrandmasterPriority2 != other.GrandmasterPriority2 {
		return lowerIsBetter(c.GrandmasterPriority2, other.GrandmasterPriority2)
	}
	// IEEE 1588-2019 §7.5.2.4: clockIdentity values order numerically, and
	// here (unlike priority/class/accuracy) a higher value wins.
	if c.GrandmasterIdentity != other.GrandmasterIdentity {
		if c.GrandmasterIdentity > other.GrandmasterIdentity {
			return Better
		}
		return Worse
	}
	return Error1
}

type ordered interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func lowerIsBetter[T ordered](a, b T) Outcome {
	if a < b {
		return Better
	}
	return Worse
}

// CompareAnnounce is a convenience wrapper comparing two Announce messages
// as received on the same receiving port.
func CompareAnnounce(a, b *protocol.Announce, receiver protocol.PortIdentity) Outcome {
	setA := NewComparisonDataSetFromAnnounce(a, receiver)
	setB := NewComparisonDataSetFromAnnounce(b, receiver)
	return setA.Compare(setB)
}
