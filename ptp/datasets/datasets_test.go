package datasets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/ptp/protocol"
)

func TestRecommendedStateGrandmaster(t *testing.T) {
	state, decision := RecommendedState(true, false, false, false, 1)
	require.Equal(t, protocol.PortStateMaster, state)
	require.Equal(t, DecisionM1, decision)

	state, decision = RecommendedState(true, false, false, false, 2)
	require.Equal(t, protocol.PortStateMaster, state)
	require.Equal(t, DecisionM2, decision)
}

func TestRecommendedStateSlave(t *testing.T) {
	state, decision := RecommendedState(false, true, true, false, 2)
	require.Equal(t, protocol.PortStateSlave, state)
	require.Equal(t, DecisionS1, decision)
}

func TestRecommendedStatePassive(t *testing.T) {
	state, decision := RecommendedState(false, false, true, false, 2)
	require.Equal(t, protocol.PortStatePassive, state)
	require.Equal(t, DecisionM3, decision)
}

func TestPortStateMachineSlavePath(t *testing.T) {
	m := NewPortStateMachine()
	require.Equal(t, protocol.PortStateInitializing, m.State())

	m.Initialized()
	require.Equal(t, protocol.PortStateListening, m.State())

	m.RecommendedStateChanged(protocol.PortStateSlave)
	require.Equal(t, protocol.PortStateUncalibrated, m.State())

	m.SyncLocked()
	require.Equal(t, protocol.PortStateSlave, m.State())

	m.AnnounceTimedOut()
	require.Equal(t, protocol.PortStateListening, m.State())
}

func TestPortStateMachineSyncLockedIgnoredBeforeUncalibrated(t *testing.T) {
	m := NewPortStateMachine()
	m.Initialized()
	m.SyncLocked()
	require.Equal(t, protocol.PortStateListening, m.State())
}
