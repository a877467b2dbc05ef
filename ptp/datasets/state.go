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

package datasets

import "github.com/soundondigital/ravennakit/ptp/protocol"

// Decision identifies which IEEE 1588-2019 §9.3.5 state decision rule
// produced a recommended port state.
type Decision uint8

const (
	DecisionNone Decision = iota
	DecisionM1            // this instance is the only clock in the domain
	DecisionM2            // this instance's dataset is the best in the domain
	DecisionM3            // this port is not the one through which the best master was heard
	DecisionP1            // as M3, for a passive port whose own dataset beats the foreign master
	DecisionP2            // as M3, for a passive port whose own dataset does not beat the foreign master
	DecisionS1            // this port is the one through which the best master was heard
)

// RecommendedState implements the table in IEEE 1588-2019 §9.3.5: given
// whether this instance's own DefaultDS is the best dataset in the domain
// (isGrandmaster), whether this port is the one that received the winning
// Announce (isParentPort), whether any foreign master has been qualified at
// all (haveForeignMaster) and whether the instance is configured slave-only,
// it returns the state the port should transition to and which rule fired.
func RecommendedState(isGrandmaster, isParentPort, haveForeignMaster, slaveOnly bool, numberPorts uint16) (protocol.PortState, Decision) {
	if !haveForeignMaster && isGrandmaster && !slaveOnly {
		if numberPorts == 1 {
			return protocol.PortStateMaster, DecisionM1
		}
		return protocol.PortStateMaster, DecisionM2
	}
	if isParentPort {
		return protocol.PortStateSlave, DecisionS1
	}
	if !isGrandmaster {
		return protocol.PortStatePassive, DecisionM3
	}
	if !slaveOnly {
		return protocol.PortStatePassive, DecisionP1
	}
	return protocol.PortStatePassive, DecisionP2
}

// PortStateMachine drives a single port's PortState through the transitions
// named in the spec: LISTENING -> UNCALIBRATED -> SLAVE as sync lock is
// established, and back to LISTENING on announce-receipt timeout.
type PortStateMachine struct {
	state protocol.PortState
}

// NewPortStateMachine starts a port in INITIALIZING, the state every port
// dataset begins in before its transport is brought up.
func NewPortStateMachine() *PortStateMachine {
	return &PortStateMachine{state: protocol.PortStateInitializing}
}

// State returns the current port state.
func (m *PortStateMachine) State() protocol.PortState { return m.state }

// Initialized moves INITIALIZING -> LISTENING once the port's transport is
// ready to send and receive PTP messages.
func (m *PortStateMachine) Initialized() {
	if m.state == protocol.PortStateInitializing {
		m.state = protocol.PortStateListening
	}
}

// RecommendedStateChanged applies a freshly computed RecommendedState,
// collapsing DecisionS1's SLAVE target through the LISTENING ->
// UNCALIBRATED -> SLAVE progression: a port that was not already
// synchronizing starts at UNCALIBRATED, and only SyncLocked promotes it the
// rest of the way to SLAVE.
func (m *PortStateMachine) RecommendedStateChanged(recommended protocol.PortState) {
	if recommended != protocol.PortStateSlave {
		m.state = recommended
		return
	}
	switch m.state {
	case protocol.PortStateUncalibrated, protocol.PortStateSlave:
		// already on the slave path; leave SyncLocked to finish the job
	default:
		m.state = protocol.PortStateUncalibrated
	}
}

// SyncLocked promotes UNCALIBRATED -> SLAVE once the delay sequence servo
// reports it has achieved lock.
func (m *PortStateMachine) SyncLocked() {
	if m.state == protocol.PortStateUncalibrated {
		m.state = protocol.PortStateSlave
	}
}

// AnnounceTimedOut reverts the port to LISTENING after
// announce_receipt_timeout * announce_interval has elapsed with no
// Announce from the current parent.
func (m *PortStateMachine) AnnounceTimedOut() {
	switch m.state {
	case protocol.PortStateUncalibrated, protocol.PortStateSlave, protocol.PortStatePassive:
		m.state = protocol.PortStateListening
	}
}

// Faulted moves the port to FAULTY from any state.
func (m *PortStateMachine) Faulted() { m.state = protocol.PortStateFaulty }

// Disable moves the port to DISABLED from any state.
func (m *PortStateMachine) Disable() { m.state = protocol.PortStateDisabled }
