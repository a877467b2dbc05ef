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

// Package port implements one PTP port: its data set, its foreign-master
// list, its table of in-flight delay sequences, and the receive dispatch
// that feeds all three from the wire.
package port

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soundondigital/ravennakit/ptp/bmc"
	"github.com/soundondigital/ravennakit/ptp/datasets"
	"github.com/soundondigital/ravennakit/ptp/delayseq"
	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// MulticastGroup is the PTP primary multicast destination per
// IEEE 1588-2019 Annex E.
const MulticastGroup = "224.0.1.129"

// ErrOwnOrigin is returned (and otherwise ignored) when a port receives a
// packet it sent itself, which happens when the port's multicast group
// membership loops back its own transmissions.
var ErrOwnOrigin = errors.New("port: dropping message originated by this instance")

// Sender abstracts the two PTP UDP sockets (event, port 319, and general,
// port 320) a port owns; the concrete implementation binds real sockets,
// tests supply a recording fake.
type Sender interface {
	SendEvent(p protocol.Packet) error
	SendGeneral(p protocol.Packet) error
}

// seqKey identifies one delay request/response exchange, per spec: keyed
// on the source port identity of the Sync that opened it and its
// sequence id.
type seqKey struct {
	master     protocol.PortIdentity
	sequenceID uint16
}

// Port owns one PTP port's data set, foreign-master candidates and
// in-flight delay sequences.
type Port struct {
	mu sync.Mutex

	ds       datasets.PortDS
	state    *datasets.PortStateMachine
	instance protocol.ClockIdentity

	foreignMasters *bmc.ForeignMasterList
	sequences      map[seqKey]*delayseq.Sequence

	eventSequence uint16
	sender        Sender
}

// New builds a port owned by instance (the PTP Instance's clock identity,
// used to reject self-originated messages) with the given initial port
// data set and a sender for outgoing packets.
func New(instance protocol.ClockIdentity, ds datasets.PortDS, sender Sender) *Port {
	return &Port{
		ds:             ds,
		state:          datasets.NewPortStateMachine(),
		instance:       instance,
		foreignMasters: bmc.NewForeignMasterList(bmc.MinForeignMasterCapacity),
		sequences:      make(map[seqKey]*delayseq.Sequence),
		sender:         sender,
	}
}

// PortDS returns a copy of the port's current data set.
func (p *Port) PortDS() datasets.PortDS {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ds
}

// ForeignMasters returns the port's foreign-master candidate list.
func (p *Port) ForeignMasters() *bmc.ForeignMasterList { return p.foreignMasters }

// State returns the port's current state.
func (p *Port) State() protocol.PortState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.State()
}

// Initialized moves the port from INITIALIZING to LISTENING.
func (p *Port) Initialized() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Initialized()
	p.ds.PortState = p.state.State()
}

// ApplyRecommendedState feeds a freshly computed §9.3.5 recommendation into
// the port's state machine and mirrors the result into its data set.
func (p *Port) ApplyRecommendedState(recommended protocol.PortState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.RecommendedStateChanged(recommended)
	p.ds.PortState = p.state.State()
}

// SyncLocked reports that this port's delay-sequence servo has achieved
// lock, promoting UNCALIBRATED to SLAVE.
func (p *Port) SyncLocked() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.SyncLocked()
	p.ds.PortState = p.state.State()
}

// AnnounceTimedOut reverts the port to LISTENING.
func (p *Port) AnnounceTimedOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.AnnounceTimedOut()
	p.ds.PortState = p.state.State()
}

// Dispatch decodes a raw datagram and routes it to the matching handler,
// per spec §4.10: parse header, reject own-origin, branch on message type.
// Announce flows into the foreign-master list; Sync/Follow_Up/Delay_Resp
// flow into the matching delay sequence; Delay_Req is ignored in every port
// state; other decodable types (Pdelay, Signaling, Management) are logged
// and dropped. A type DecodePacket does not support returns its
// ErrInvalidData error.
func (p *Port) Dispatch(raw []byte, recvTime time.Time) error {
	pkt, err := protocol.DecodePacket(raw)
	if err != nil {
		return err
	}

	switch msg := pkt.(type) {
	case *protocol.Announce:
		if msg.SourcePortIdentity.ClockIdentity == p.instance {
			return ErrOwnOrigin
		}
		return p.handleAnnounce(msg, recvTime)
	case *protocol.SyncDelayReq:
		if msg.MessageType() == protocol.MessageDelayReq {
			return p.handleDelayReq(msg)
		}
		if msg.SourcePortIdentity.ClockIdentity == p.instance {
			return ErrOwnOrigin
		}
		return p.handleSync(msg, recvTime)
	case *protocol.FollowUp:
		if msg.SourcePortIdentity.ClockIdentity == p.instance {
			return ErrOwnOrigin
		}
		return p.handleFollowUp(msg)
	case *protocol.DelayResp:
		if msg.SourcePortIdentity.ClockIdentity == p.instance {
			return ErrOwnOrigin
		}
		return p.handleDelayResp(msg)
	default:
		log.Debugf("port: dropping unsupported message type %s", pkt.MessageType())
		return nil
	}
}

func (p *Port) handleAnnounce(a *protocol.Announce, recvTime time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sender := a.SourcePortIdentity.ClockIdentity
	existing := p.foreignMasters.Records()
	var lastSeq uint16
	hadPrevious := false
	messagesInWindow := 1
	for _, r := range existing {
		if r.SenderIdentity == sender {
			lastSeq = r.LastSequenceID
			hadPrevious = r.HasSequence
			// The record's counter reads 0 after the sender's first
			// Announce, so this Announce is number MessagesInWindow+2.
			messagesInWindow = r.MessagesInWindow + 2
			break
		}
	}

	if err := bmc.Qualify(a, p.instance, messagesInWindow, lastSeq, hadPrevious); err != nil {
		log.Debugf("port: announce from %s not yet qualified: %v", sender, err)
		p.foreignMasters.Update(a, recvTime)
		return nil
	}

	p.foreignMasters.Update(a, recvTime)
	return nil
}

func (p *Port) handleSync(sync *protocol.SyncDelayReq, recvTime time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := seqKey{master: sync.SourcePortIdentity, sequenceID: sync.SequenceID}
	seq := delayseq.NewFromSync(sync, recvTime, p.ds.LogMinDelayReqInterval)
	p.sequences[key] = seq
	return nil
}

func (p *Port) handleFollowUp(followUp *protocol.FollowUp) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := seqKey{master: followUp.SourcePortIdentity, sequenceID: followUp.SequenceID}
	seq, ok := p.sequences[key]
	if !ok {
		return fmt.Errorf("port: follow_up for unknown sequence %v", key)
	}
	return seq.OnFollowUp(followUp, p.ds.LogMinDelayReqInterval)
}

func (p *Port) handleDelayReq(*protocol.SyncDelayReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ds.PortState == protocol.PortStateSlave {
		// A slave-only port never answers Delay_Req; nothing to do.
		return nil
	}
	return nil
}

func (p *Port) handleDelayResp(resp *protocol.DelayResp) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := seqKey{master: resp.SourcePortIdentity, sequenceID: resp.SequenceID}
	seq, ok := p.sequences[key]
	if !ok {
		return fmt.Errorf("port: delay_resp for unknown sequence %v", key)
	}
	if seq.RequestingPortIdentity() != resp.RequestingPortIdentity {
		return fmt.Errorf("port: delay_resp requesting port identity mismatch")
	}
	if err := seq.OnDelayResp(resp); err != nil {
		return err
	}
	delete(p.sequences, key)
	return nil
}

// PendingDelayReq identifies one sequence whose scheduled Delay_Req send
// time has arrived.
type PendingDelayReq struct {
	Master     protocol.PortIdentity
	SequenceID uint16
}

// PendingDelayReqs returns the sequences currently waiting for their
// scheduled Delay_Req send time to arrive, so a reactor loop can drive
// SendDelayReq for each once ready.
func (p *Port) PendingDelayReqs(now time.Time) []PendingDelayReq {
	p.mu.Lock()
	defer p.mu.Unlock()
	var due []PendingDelayReq
	for k, seq := range p.sequences {
		if sendAt, ok := seq.DelayReqSendTime(); ok && !now.Before(sendAt) {
			due = append(due, PendingDelayReq{Master: k.master, SequenceID: k.sequenceID})
		}
	}
	return due
}

// SendDelayReq emits a Delay_Req for the sequence opened by master/
// sequenceID, marking it awaiting a response.
func (p *Port) SendDelayReq(master protocol.PortIdentity, sequenceID uint16, requestingPort protocol.PortIdentity) error {
	p.mu.Lock()
	seq, ok := p.sequences[seqKey{master: master, sequenceID: sequenceID}]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("port: no sequence for master=%v seq=%d", master, sequenceID)
	}

	req := &protocol.SyncDelayReq{}
	req.SdoIDAndMsgType = protocol.NewSdoIDAndMsgType(protocol.MessageDelayReq, 0)
	req.Version = protocol.Version
	req.SourcePortIdentity = requestingPort
	req.LogMessageInterval = protocol.MgmtLogMessageInterval

	p.mu.Lock()
	req.SequenceID = p.eventSequence
	p.eventSequence++
	p.mu.Unlock()

	sentAt := time.Now()
	if err := p.sender.SendEvent(req); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return seq.MarkDelayReqSent(sentAt, requestingPort)
}

// PruneSequences prunes foreign-master records older than
// foreignMasterTimeWindow. It does not remove delay sequences: timeout is
// not used, and a sequence leaves the table only when its Delay_Resp has
// been handled.
func (p *Port) PruneSequences(now time.Time, timeout, foreignMasterTimeWindow time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.foreignMasters.Prune(now, foreignMasterTimeWindow)
}
