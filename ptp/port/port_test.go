package port

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/ptp/datasets"
	"github.com/soundondigital/ravennakit/ptp/protocol"
)

type fakeSender struct {
	eventSent   []protocol.Packet
	generalSent []protocol.Packet
}

func (f *fakeSender) SendEvent(p protocol.Packet) error {
	f.eventSent = append(f.eventSent, p)
	return nil
}

func (f *fakeSender) SendGeneral(p protocol.Packet) error {
	f.generalSent = append(f.generalSent, p)
	return nil
}

func newTestPort() (*Port, *fakeSender) {
	sender := &fakeSender{}
	ds := datasets.PortDS{PortIdentity: protocol.PortIdentity{ClockIdentity: 0x1111, PortNumber: 1}}
	p := New(0x1111, ds, sender)
	return p, sender
}

func encode(t *testing.T, pkt protocol.Packet) []byte {
	t.Helper()
	b, err := protocol.Bytes(pkt)
	require.NoError(t, err)
	return b
}

func announcePacket(seq uint16, sender protocol.ClockIdentity, gmPriority1 uint8) *protocol.Announce {
	a := &protocol.Announce{}
	a.SdoIDAndMsgType = protocol.NewSdoIDAndMsgType(protocol.MessageAnnounce, 0)
	a.Version = protocol.Version
	a.MessageLength = uint16(34 + 30)
	a.SourcePortIdentity = protocol.PortIdentity{ClockIdentity: sender, PortNumber: 1}
	a.SequenceID = seq
	a.GrandmasterIdentity = sender
	a.GrandmasterPriority1 = gmPriority1
	a.GrandmasterPriority2 = 128
	a.StepsRemoved = 0
	return a
}

func TestDispatchDropsOwnOrigin(t *testing.T) {
	p, _ := newTestPort()
	a := announcePacket(1, 0x1111, 100)
	err := p.Dispatch(encode(t, a), time.Now())
	require.ErrorIs(t, err, ErrOwnOrigin)
}

func TestDispatchAnnounceRequiresTwoMessagesToQualify(t *testing.T) {
	p, _ := newTestPort()
	a := announcePacket(1, 0x2222, 100)
	require.NoError(t, p.Dispatch(encode(t, a), time.Now()))
	require.Equal(t, 1, p.ForeignMasters().Len())
	require.Equal(t, 0, p.ForeignMasters().Records()[0].MessagesInWindow)
}

func TestDispatchSyncOpensSequence(t *testing.T) {
	p, _ := newTestPort()
	sync := &protocol.SyncDelayReq{}
	sync.SdoIDAndMsgType = protocol.NewSdoIDAndMsgType(protocol.MessageSync, 0)
	sync.Version = protocol.Version
	sync.MessageLength = uint16(34 + 10)
	sync.SourcePortIdentity = protocol.PortIdentity{ClockIdentity: 0x2222, PortNumber: 1}
	sync.SequenceID = 5
	sync.OriginTimestamp = protocol.NewTimestamp(time.Now())

	require.NoError(t, p.Dispatch(encode(t, sync), time.Now()))
	require.Len(t, p.sequences, 1)
}

func TestDispatchFollowUpForUnknownSequenceErrors(t *testing.T) {
	p, _ := newTestPort()
	fu := &protocol.FollowUp{}
	fu.SdoIDAndMsgType = protocol.NewSdoIDAndMsgType(protocol.MessageFollowUp, 0)
	fu.Version = protocol.Version
	fu.MessageLength = uint16(34 + 10)
	fu.SourcePortIdentity = protocol.PortIdentity{ClockIdentity: 0x2222, PortNumber: 1}
	fu.SequenceID = 99

	err := p.Dispatch(encode(t, fu), time.Now())
	require.Error(t, err)
}
