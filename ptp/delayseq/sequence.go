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

// Package delayseq tracks one in-flight Sync/Follow_Up/Delay_Req/Delay_Resp
// exchange and turns its four timestamps into a mean path delay and an
// offset from master, per IEEE 1588-2019 §11.3.
package delayseq

import (
	"errors"
	"math/rand"
	"time"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// State is the lifecycle a single delay request/response sequence walks
// through, keyed on the Sync message that started it.
type State int

const (
	// StateSyncReceived is the initial state, entered when the Sync arrives.
	StateSyncReceived State = iota
	// StateAwaitingFollowUp is entered for a two-step Sync; Follow_Up carries t1.
	StateAwaitingFollowUp
	// StateDelayReqSendScheduled means t1 is known and a Delay_Req send time
	// has been drawn; the port is waiting for that deadline to arrive.
	StateDelayReqSendScheduled
	// StateAwaitingDelayResp is entered once the Delay_Req has actually been
	// sent and t3 captured.
	StateAwaitingDelayResp
	// StateDelayRespReceived is the terminal state: all four timestamps are
	// known and the mean path delay / offset from master can be computed.
	StateDelayRespReceived
)

func (s State) String() string {
	switch s {
	case StateSyncReceived:
		return "sync_received"
	case StateAwaitingFollowUp:
		return "awaiting_follow_up"
	case StateDelayReqSendScheduled:
		return "delay_req_send_scheduled"
	case StateAwaitingDelayResp:
		return "awaiting_delay_resp"
	case StateDelayRespReceived:
		return "delay_resp_received"
	default:
		return "unknown"
	}
}

// ErrWrongState is returned when a sequence method is called out of order,
// e.g. supplying a Follow_Up to a sequence that never asked for one.
var ErrWrongState = errors.New("delayseq: sequence is not in the required state")

// Sequence tracks the four timestamps of one delay request/response
// exchange, identified by the sequence id and source port of the Sync that
// opened it.
type Sequence struct {
	state State

	twoStep       bool
	sequenceID    uint16
	sourcePort    protocol.PortIdentity
	requestingPID protocol.PortIdentity

	t1, t2, t3, t4 time.Time

	syncCorrection      time.Duration
	followUpCorrection  time.Duration
	delayRespCorrection time.Duration

	sendDelayReqAt time.Time
}

// NewFromSync opens a sequence from a received Sync message. syncReceiveTime
// is t2, measured locally on arrival. logMinDelayReqInterval is the port's
// current logMinDelayReqInterval, used to draw a randomized Delay_Req send
// time when the Sync is one-step (no Follow_Up to wait for).
func NewFromSync(sync *protocol.SyncDelayReq, syncReceiveTime time.Time, logMinDelayReqInterval int8) *Sequence {
	s := &Sequence{
		sequenceID:     sync.SequenceID,
		sourcePort:     sync.SourcePortIdentity,
		twoStep:        sync.FlagField&protocol.FlagTwoStep != 0,
		t1:             sync.OriginTimestamp.Time(),
		t2:             syncReceiveTime,
		syncCorrection: sync.CorrectionField.Duration(),
	}
	if s.twoStep {
		s.state = StateAwaitingFollowUp
		return s
	}
	s.scheduleDelayReqSend(logMinDelayReqInterval)
	return s
}

// Matches reports whether a message's source port identity and sequence id
// belong to the Sync that opened this sequence.
func (s *Sequence) Matches(sourcePortIdentity protocol.PortIdentity, sequenceID uint16) bool {
	return s.sourcePort == sourcePortIdentity && s.sequenceID == sequenceID
}

// State returns the sequence's current lifecycle state.
func (s *Sequence) State() State { return s.state }

// OnFollowUp supplies the precise origin timestamp and correction field of
// a Follow_Up matching a two-step Sync, overwriting the provisional t1, and
// schedules the Delay_Req send.
func (s *Sequence) OnFollowUp(followUp *protocol.FollowUp, logMinDelayReqInterval int8) error {
	if s.state != StateAwaitingFollowUp {
		return ErrWrongState
	}
	s.t1 = followUp.PreciseOriginTimestamp.Time()
	s.followUpCorrection = followUp.CorrectionField.Duration()
	s.scheduleDelayReqSend(logMinDelayReqInterval)
	return nil
}

func (s *Sequence) scheduleDelayReqSend(logMinDelayReqInterval int8) {
	maxIntervalSeconds := pow2(logMinDelayReqInterval + 1)
	s.sendDelayReqAt = time.Now().Add(randomDuration(maxIntervalSeconds))
	s.state = StateDelayReqSendScheduled
}

func pow2(exp int8) float64 {
	if exp >= 0 {
		return float64(uint64(1) << uint(exp))
	}
	v := 1.0
	for i := int8(0); i > exp; i-- {
		v /= 2
	}
	return v
}

func randomDuration(maxSeconds float64) time.Duration {
	return time.Duration(rand.Float64() * maxSeconds * float64(time.Second))
}

// DelayReqSendTime returns the scheduled time to emit the Delay_Req and
// whether the sequence is currently waiting to do so.
func (s *Sequence) DelayReqSendTime() (time.Time, bool) {
	if s.state != StateDelayReqSendScheduled {
		return time.Time{}, false
	}
	return s.sendDelayReqAt, true
}

// MarkDelayReqSent records t3, the local send time of the Delay_Req, and
// the requesting port identity used to match the eventual Delay_Resp.
func (s *Sequence) MarkDelayReqSent(sentAt time.Time, requestingPort protocol.PortIdentity) error {
	if s.state != StateDelayReqSendScheduled {
		return ErrWrongState
	}
	s.t3 = sentAt
	s.requestingPID = requestingPort
	s.state = StateAwaitingDelayResp
	return nil
}

// OnDelayResp supplies t4 and the correction field of a matching
// Delay_Resp, completing the sequence. The caller is responsible for
// matching delayResp.RequestingPortIdentity against MarkDelayReqSent's
// requestingPort before calling this.
func (s *Sequence) OnDelayResp(delayResp *protocol.DelayResp) error {
	if s.state != StateAwaitingDelayResp {
		return ErrWrongState
	}
	s.t4 = delayResp.ReceiveTimestamp.Time()
	s.delayRespCorrection = delayResp.CorrectionField.Duration()
	s.state = StateDelayRespReceived
	return nil
}

// RequestingPortIdentity returns the port identity recorded by
// MarkDelayReqSent, used to match an incoming Delay_Resp's
// RequestingPortIdentity field.
func (s *Sequence) RequestingPortIdentity() protocol.PortIdentity { return s.requestingPID }

// MeanPathDelay computes ((t2-t3)+(t4-t1)-C)/2, where C sums the Sync
// correction field, the Follow_Up correction field when the exchange was
// two-step, and the Delay_Resp correction field.
func (s *Sequence) MeanPathDelay() (time.Duration, error) {
	if s.state != StateDelayRespReceived {
		return 0, ErrWrongState
	}
	c := s.syncCorrection + s.delayRespCorrection
	if s.twoStep {
		c += s.followUpCorrection
	}
	return ((s.t2.Sub(s.t3)) + (s.t4.Sub(s.t1)) - c) / 2, nil
}

// OffsetFromMaster computes (t2-t1) - mean_path_delay - sync_correction.
func (s *Sequence) OffsetFromMaster() (offset, meanPathDelay time.Duration, err error) {
	meanPathDelay, err = s.MeanPathDelay()
	if err != nil {
		return 0, 0, err
	}
	offset = s.t2.Sub(s.t1) - meanPathDelay - s.syncCorrection
	return offset, meanPathDelay, nil
}
