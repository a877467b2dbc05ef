package instance

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soundondigital/ravennakit/ptp/datasets"
	"github.com/soundondigital/ravennakit/ptp/port"
	"github.com/soundondigital/ravennakit/ptp/protocol"
)

type nopSender struct{}

func (nopSender) SendEvent(protocol.Packet) error   { return nil }
func (nopSender) SendGeneral(protocol.Packet) error { return nil }

func TestAddPortSealsClockIdentity(t *testing.T) {
	inst := New(protocol.ClockQuality{}, 128, 128, false)
	mac := net.HardwareAddr{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}

	p1, err := inst.AddPort(mac, datasets.PortDS{PortIdentity: protocol.PortIdentity{PortNumber: 1}}, nopSender{})
	require.NoError(t, err)
	require.NotZero(t, inst.ClockIdentity())
	require.Equal(t, inst.ClockIdentity(), p1.PortDS().PortIdentity.ClockIdentity)

	otherMac := net.HardwareAddr{0x02, 0xaa, 0xbb, 0xcc, 0xdd, 0xee}
	p2, err := inst.AddPort(otherMac, datasets.PortDS{PortIdentity: protocol.PortIdentity{PortNumber: 2}}, nopSender{})
	require.NoError(t, err)
	require.Equal(t, p1.PortDS().PortIdentity.ClockIdentity, p2.PortDS().PortIdentity.ClockIdentity)
	require.Equal(t, uint16(2), inst.DefaultDS().NumberPorts)
}

func TestRunBMCAWithNoPortsErrors(t *testing.T) {
	inst := New(protocol.ClockQuality{}, 128, 128, false)
	err := inst.RunBMCA()
	require.ErrorIs(t, err, ErrNoPorts)
}

func TestRunBMCASoloPortBecomesMaster(t *testing.T) {
	inst := New(protocol.ClockQuality{}, 128, 128, false)
	mac := net.HardwareAddr{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	_, err := inst.AddPort(mac, datasets.PortDS{PortIdentity: protocol.PortIdentity{PortNumber: 1}}, nopSender{})
	require.NoError(t, err)

	require.NoError(t, inst.RunBMCA())
	require.Equal(t, protocol.PortStateMaster, inst.Ports()[0].State())
}

func TestRunBMCAWithBetterForeignMasterBecomesPassiveOrSlave(t *testing.T) {
	inst := New(protocol.ClockQuality{ClockClass: 255}, 255, 128, false)
	mac := net.HardwareAddr{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	p, err := inst.AddPort(mac, datasets.PortDS{PortIdentity: protocol.PortIdentity{PortNumber: 1}}, nopSender{})
	require.NoError(t, err)

	a := &protocol.Announce{}
	a.SourcePortIdentity = protocol.PortIdentity{ClockIdentity: 0xbeef, PortNumber: 1}
	a.SequenceID = 1
	a.GrandmasterIdentity = 0xbeef
	a.GrandmasterPriority1 = 1
	a.GrandmasterPriority2 = 1
	a.GrandmasterClockQuality = protocol.ClockQuality{ClockClass: 6}
	p.ForeignMasters().Update(a, time.Now())
	a2 := *a
	a2.SequenceID = 2
	p.ForeignMasters().Update(&a2, time.Now())

	require.NoError(t, inst.RunBMCA())
	require.Equal(t, protocol.PortStateUncalibrated, inst.Ports()[0].State())
}
