package delayseq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

func sync(seq uint16, twoStep bool, origin time.Time) *protocol.SyncDelayReq {
	s := &protocol.SyncDelayReq{}
	s.SequenceID = seq
	s.SourcePortIdentity = protocol.PortIdentity{ClockIdentity: 0xaa, PortNumber: 1}
	if twoStep {
		s.FlagField |= protocol.FlagTwoStep
	}
	s.OriginTimestamp = protocol.NewTimestamp(origin)
	return s
}

func TestOneStepSyncSchedulesDelayReqImmediately(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewFromSync(sync(1, false, base), base.Add(10*time.Millisecond), 0)
	require.Equal(t, StateDelayReqSendScheduled, s.State())
	_, ok := s.DelayReqSendTime()
	require.True(t, ok)
}

func TestTwoStepSyncWaitsForFollowUp(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewFromSync(sync(1, true, base), base.Add(10*time.Millisecond), 0)
	require.Equal(t, StateAwaitingFollowUp, s.State())

	fu := &protocol.FollowUp{}
	fu.PreciseOriginTimestamp = protocol.NewTimestamp(base.Add(2 * time.Millisecond))
	err := s.OnFollowUp(fu, 0)
	require.NoError(t, err)
	require.Equal(t, StateDelayReqSendScheduled, s.State())
}

func TestFollowUpRejectedWhenNotAwaiting(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewFromSync(sync(1, false, base), base, 0)
	err := s.OnFollowUp(&protocol.FollowUp{}, 0)
	require.ErrorIs(t, err, ErrWrongState)
}

func TestFullSequenceComputesOffsetAndDelay(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := base
	t2 := base.Add(50 * time.Millisecond)
	t3 := base.Add(60 * time.Millisecond)
	t4 := base.Add(10 * time.Millisecond)

	s := NewFromSync(sync(1, false, t1), t2, 0)
	require.NoError(t, s.MarkDelayReqSent(t3, protocol.PortIdentity{ClockIdentity: 0xbb, PortNumber: 1}))

	dr := &protocol.DelayResp{}
	dr.ReceiveTimestamp = protocol.NewTimestamp(t4)
	require.NoError(t, s.OnDelayResp(dr))

	offset, meanDelay, err := s.OffsetFromMaster()
	require.NoError(t, err)

	wantMeanDelay := ((t2.Sub(t3)) + (t4.Sub(t1))) / 2
	require.Equal(t, wantMeanDelay, meanDelay)

	wantOffset := t2.Sub(t1) - meanDelay
	require.Equal(t, wantOffset, offset)
}

func TestDelayRespRejectedBeforeDelayReqSent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewFromSync(sync(1, true, base), base, 0)
	err := s.OnDelayResp(&protocol.DelayResp{})
	require.ErrorIs(t, err, ErrWrongState)
}

func TestMatches(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewFromSync(sync(7, false, base), base, 0)
	require.True(t, s.Matches(protocol.PortIdentity{ClockIdentity: 0xaa, PortNumber: 1}, 7))
	require.False(t, s.Matches(protocol.PortIdentity{ClockIdentity: 0xaa, PortNumber: 1}, 8))
}
