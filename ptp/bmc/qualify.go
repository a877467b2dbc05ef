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
	"errors"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// Qualification failure reasons, per IEEE 1588-2019 §9.3.2.5.
var (
	ErrSameInstance     = errors.New("bmc: announce originated from this instance")
	ErrStaleSequence    = errors.New("bmc: announce sequence id is not newer than the last seen one")
	ErrInsufficientData = errors.New("bmc: fewer than two announces seen in the current window")
	ErrTooManyHops      = errors.New("bmc: announce steps_removed is at or beyond the 255 hop limit")
)

// maxStepsRemoved is the IEEE 1588-2019 §9.3.2.5(d) rejection threshold.
const maxStepsRemoved = 255

// Qualify decides whether an Announce from sender, arriving as the
// messagesInWindow'th message seen from that foreign master in the current
// announce-receipt window (1 for the first, 2 for the second, ...), with
// lastSequenceID being the most recently accepted sequence id from that
// sender (and hadPrevious false if none has been accepted yet), should be
// accepted into the foreign-master list.
func Qualify(a *protocol.Announce, ownIdentity protocol.ClockIdentity, messagesInWindow int, lastSequenceID uint16, hadPrevious bool) error {
	if a.SourcePortIdentity.ClockIdentity == ownIdentity {
		return ErrSameInstance
	}
	if hadPrevious && !sequenceNewer(a.SequenceID, lastSequenceID) {
		return ErrStaleSequence
	}
	if messagesInWindow < 2 {
		return ErrInsufficientData
	}
	if a.StepsRemoved >= maxStepsRemoved {
		return ErrTooManyHops
	}
	return nil
}

// sequenceNewer reports whether next is strictly newer than last, per
// RFC 1982 serial number arithmetic (the sequence id wraps at 16 bits).
func sequenceNewer(next, last uint16) bool {
	return int16(next-last) > 0
}
