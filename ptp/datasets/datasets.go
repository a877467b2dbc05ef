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

// Package datasets holds the IEEE 1588-2019 clock and port datasets
// (default, current, parent, time-properties, port) and the §9.3.5 port
// state decision functions.
package datasets

import (
	"time"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// DefaultDS is the per-instance dataset (§8.2.1): identity, topology and the
// clock quality this instance advertises when it is the grandmaster.
type DefaultDS struct {
	ClockIdentity protocol.ClockIdentity
	NumberPorts   uint16
	ClockQuality  protocol.ClockQuality
	Priority1     uint8
	Priority2     uint8
	DomainNumber  uint8
	SlaveOnly     bool
}

// CurrentDS is the per-instance dataset (§8.2.2) describing the state of
// synchronization with the current best master.
type CurrentDS struct {
	StepsRemoved     uint16
	OffsetFromMaster time.Duration
	MeanPathDelay    time.Duration
}

// ParentDS is the per-instance dataset (§8.2.3) describing the current
// parent (the port's source of time) and, transitively, the grandmaster.
type ParentDS struct {
	ParentPortIdentity                    protocol.PortIdentity
	ParentStats                           bool
	ObservedParentOffsetScaledLogVariance uint16
	ObservedParentClockPhaseChangeRate    uint32
	GrandmasterIdentity                   protocol.ClockIdentity
	GrandmasterClockQuality               protocol.ClockQuality
	GrandmasterPriority1                  uint8
	GrandmasterPriority2                  uint8
}

// TimePropertiesDS is the per-instance dataset (§8.2.4) describing the
// timescale the grandmaster distributes.
type TimePropertiesDS struct {
	CurrentUTCOffset      int16
	CurrentUTCOffsetValid bool
	Leap59                bool
	Leap61                bool
	TimeTraceable         bool
	FrequencyTraceable    bool
	PTPTimescale          bool
	TimeSource            protocol.TimeSource
}

// DelayMechanism selects how a port measures path delay.
type DelayMechanism uint8

const (
	DelayMechanismE2E DelayMechanism = iota
	DelayMechanismP2P
)

// PortDS is the per-port dataset (§8.2.5).
type PortDS struct {
	PortIdentity            protocol.PortIdentity
	PortState               protocol.PortState
	LogMinDelayReqInterval  int8
	PeerMeanPathDelay       time.Duration
	LogAnnounceInterval     int8
	AnnounceReceiptTimeout  uint8
	LogSyncInterval         int8
	DelayMechanism          DelayMechanism
	LogMinPdelayReqInterval int8
	VersionNumber           uint8
}

// NewDefaultDS builds a DefaultDS for a single-port, non-slave-only
// instance with the given identity and clock quality; callers override
// Priority1/Priority2/SlaveOnly/NumberPorts as needed.
func NewDefaultDS(identity protocol.ClockIdentity, quality protocol.ClockQuality) DefaultDS {
	return DefaultDS{
		ClockIdentity: identity,
		NumberPorts:   1,
		ClockQuality:  quality,
		Priority1:     128,
		Priority2:     128,
	}
}
