package bmc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

func announce(gmIdentity protocol.ClockIdentity, priority1 uint8, stepsRemoved uint16, senderIdentity protocol.ClockIdentity, seq uint16) *protocol.Announce {
	a := &protocol.Announce{}
	a.Header.SourcePortIdentity.ClockIdentity = senderIdentity
	a.Header.SequenceID = seq
	a.GrandmasterIdentity = gmIdentity
	a.GrandmasterPriority1 = priority1
	a.GrandmasterPriority2 = 128
	a.StepsRemoved = stepsRemoved
	return a
}

var receiver = protocol.PortIdentity{ClockIdentity: 0x1111, PortNumber: 1}

func TestCompareDifferentGrandmastersByPriority1(t *testing.T) {
	a := NewComparisonDataSetFromAnnounce(announce(1, 100, 0, 2, 1), receiver)
	b := NewComparisonDataSetFromAnnounce(announce(2, 200, 0, 3, 1), receiver)
	require.Equal(t, Better, a.Compare(b))
	require.Equal(t, Worse, b.Compare(a))
}

func TestCompareSameGrandmasterStepsRemovedFarApart(t *testing.T) {
	a := NewComparisonDataSetFromAnnounce(announce(1, 100, 5, 2, 1), receiver)
	b := NewComparisonDataSetFromAnnounce(announce(1, 100, 1, 3, 1), receiver)
	require.Equal(t, Worse, a.Compare(b))
	require.Equal(t, Better, b.Compare(a))
}

func TestCompareSameGrandmasterDuplicateIsError2(t *testing.T) {
	a := NewComparisonDataSetFromAnnounce(announce(1, 100, 2, 5, 1), receiver)
	b := NewComparisonDataSetFromAnnounce(announce(1, 100, 2, 5, 1), receiver)
	require.Equal(t, Error2, a.Compare(b))
}

func TestOutcomeOrdering(t *testing.T) {
	require.Less(t, int(Worse), int(WorseByTopology))
	require.Less(t, int(WorseByTopology), int(Error1))
	require.Less(t, int(Error1), int(Error2))
	require.Less(t, int(Error2), int(BetterByTopology))
	require.Less(t, int(BetterByTopology), int(Better))
}

func TestQualifyRejectsOwnIdentity(t *testing.T) {
	a := announce(1, 100, 0, 0x1234, 1)
	err := Qualify(a, 0x1234, 2, 0, false)
	require.ErrorIs(t, err, ErrSameInstance)
}

func TestQualifyRejectsStaleSequence(t *testing.T) {
	a := announce(1, 100, 0, 2, 5)
	err := Qualify(a, 9, 2, 5, true)
	require.ErrorIs(t, err, ErrStaleSequence)
}

func TestQualifyRejectsFirstMessage(t *testing.T) {
	a := announce(1, 100, 0, 2, 1)
	err := Qualify(a, 9, 1, 0, false)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestQualifyRejectsTooManyHops(t *testing.T) {
	a := announce(1, 100, 255, 2, 1)
	err := Qualify(a, 9, 2, 0, false)
	require.ErrorIs(t, err, ErrTooManyHops)
}

func TestQualifyAccepts(t *testing.T) {
	a := announce(1, 100, 3, 2, 6)
	err := Qualify(a, 9, 2, 5, true)
	require.NoError(t, err)
}

func TestForeignMasterListNewSenderStartsAtZeroWindow(t *testing.T) {
	l := NewForeignMasterList(5)
	now := time.Unix(1000, 0)
	rec := l.Update(announce(1, 100, 0, 2, 1), now)
	require.Equal(t, 0, rec.MessagesInWindow)

	rec2 := l.Update(announce(1, 100, 0, 2, 2), now.Add(time.Second))
	require.Equal(t, 1, rec2.MessagesInWindow)
	require.Same(t, rec, rec2)
}

func TestForeignMasterListMinCapacity(t *testing.T) {
	l := NewForeignMasterList(1)
	require.Equal(t, MinForeignMasterCapacity, l.capacity)
}

func TestForeignMasterListPrune(t *testing.T) {
	l := NewForeignMasterList(5)
	now := time.Unix(1000, 0)
	l.Update(announce(1, 100, 0, 2, 1), now)
	require.Equal(t, 1, l.Len())
	l.Prune(now.Add(10*time.Second), 2*time.Second)
	require.Equal(t, 0, l.Len())
}

func TestForeignMasterListErbestPicksBetter(t *testing.T) {
	l := NewForeignMasterList(5)
	now := time.Unix(1000, 0)
	l.Update(announce(1, 200, 0, 2, 1), now)
	l.Update(announce(2, 50, 0, 3, 1), now)
	best := l.Erbest(receiver)
	require.NotNil(t, best)
	require.Equal(t, protocol.ClockIdentity(3), best.SenderIdentity)
}
