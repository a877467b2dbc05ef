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

// ravenna-ptpclient runs a single PTP ordinary clock port over a RAVENNA
// primary multicast domain and logs port state transitions as BMCA
// re-evaluates them; it does not compute or log the offset from master. It
// exists to exercise ptp/instance and ptp/port end to end
// against a real network interface, not to replace ptp4u or sptp.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soundondigital/ravennakit/ptp/datasets"
	"github.com/soundondigital/ravennakit/ptp/instance"
	"github.com/soundondigital/ravennakit/ptp/port"
	"github.com/soundondigital/ravennakit/ptp/protocol"
	"github.com/soundondigital/ravennakit/rtp/netio"
)

var (
	flagIface     string
	flagDSCP      int
	flagPriority1 uint8
	flagPriority2 uint8
	flagSlaveOnly bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "ravenna-ptpclient",
	Short: "Runs a PTP ordinary clock port on a RAVENNA multicast domain",
	RunE:  runClient,
}

func init() {
	rootCmd.Flags().StringVar(&flagIface, "iface", "", "network interface to bind the PTP port to (required)")
	rootCmd.Flags().IntVar(&flagDSCP, "dscp", 46, "DSCP value applied to outgoing PTP event and general packets")
	rootCmd.Flags().Uint8Var(&flagPriority1, "priority1", 128, "priority1 advertised in Announce messages")
	rootCmd.Flags().Uint8Var(&flagPriority2, "priority2", 128, "priority2 advertised in Announce messages")
	rootCmd.Flags().BoolVar(&flagSlaveOnly, "slave-only", true, "run as a slave-only port, never a master")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	_ = rootCmd.MarkFlagRequired("iface")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		log.SetLevel(log.DebugLevel)
	}

	iface, err := net.InterfaceByName(flagIface)
	if err != nil {
		return fmt.Errorf("ravenna-ptpclient: %w", err)
	}

	eventSock, err := netio.Bind(&net.UDPAddr{Port: protocol.PortEvent})
	if err != nil {
		return fmt.Errorf("ravenna-ptpclient: binding event socket: %w", err)
	}
	defer eventSock.Close()

	generalSock, err := netio.Bind(&net.UDPAddr{Port: protocol.PortGeneral})
	if err != nil {
		return fmt.Errorf("ravenna-ptpclient: binding general socket: %w", err)
	}
	defer generalSock.Close()

	group := net.ParseIP(port.MulticastGroup)
	eventMembership, err := eventSock.Join(group, iface)
	if err != nil {
		return fmt.Errorf("ravenna-ptpclient: joining %s on %s: %w", port.MulticastGroup, flagIface, err)
	}
	defer eventMembership.Close()

	generalMembership, err := generalSock.Join(group, iface)
	if err != nil {
		return fmt.Errorf("ravenna-ptpclient: joining %s on %s: %w", port.MulticastGroup, flagIface, err)
	}
	defer generalMembership.Close()

	if err := eventSock.SetDSCP(flagDSCP); err != nil {
		log.Warnf("ravenna-ptpclient: setting DSCP on event socket: %v", err)
	}
	if err := generalSock.SetDSCP(flagDSCP); err != nil {
		log.Warnf("ravenna-ptpclient: setting DSCP on general socket: %v", err)
	}

	dst := &net.UDPAddr{IP: group, Port: protocol.PortEvent}
	dstGeneral := &net.UDPAddr{IP: group, Port: protocol.PortGeneral}

	inst := instance.New(protocol.ClockQuality{
		ClockClass:    248,
		ClockAccuracy: protocol.ClockAccuracyUnknown,
	}, flagPriority1, flagPriority2, flagSlaveOnly)

	sender := &udpSender{event: eventSock, general: generalSock, eventDst: dst, generalDst: dstGeneral}

	ds := datasets.PortDS{
		PortIdentity:            protocol.PortIdentity{PortNumber: 1},
		LogMinDelayReqInterval:  0,
		LogAnnounceInterval:     1,
		AnnounceReceiptTimeout:  3,
		LogSyncInterval:         0,
		DelayMechanism:          datasets.DelayMechanismE2E,
		LogMinPdelayReqInterval: 0,
		VersionNumber:           protocol.Version,
	}

	p, err := inst.AddPort(iface.HardwareAddr, ds, sender)
	if err != nil {
		return fmt.Errorf("ravenna-ptpclient: adding port: %w", err)
	}

	log.Infof("ravenna-ptpclient: clock identity %s on %s", inst.ClockIdentity(), flagIface)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dispatch := func(ev netio.RecvEvent) {
		if err := p.Dispatch(ev.Data, ev.RecvTime); err != nil && err != port.ErrOwnOrigin {
			log.Debugf("ravenna-ptpclient: dispatch: %v", err)
		}
	}

	errCh := make(chan error, 2)
	const ptpDatagramSize = 512
	go func() { errCh <- eventSock.Start(ctx, dispatch, ptpDatagramSize) }()
	go func() { errCh <- generalSock.Start(ctx, dispatch, ptpDatagramSize) }()

	go runLoop(ctx, inst, p)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("ravenna-ptpclient: socket loop: %w", err)
		}
		return nil
	}
}

// udpSender implements port.Sender over the two bound PTP sockets.
type udpSender struct {
	event      *netio.Socket
	general    *netio.Socket
	eventDst   *net.UDPAddr
	generalDst *net.UDPAddr
}

func (s *udpSender) SendEvent(p protocol.Packet) error {
	b, err := protocol.Bytes(p)
	if err != nil {
		return err
	}
	_, err = s.event.Send(b, s.eventDst)
	return err
}

func (s *udpSender) SendGeneral(p protocol.Packet) error {
	b, err := protocol.Bytes(p)
	if err != nil {
		return err
	}
	_, err = s.general.Send(b, s.generalDst)
	return err
}

// runLoop periodically re-evaluates BMCA, drains due delay requests and
// prunes stale foreign masters, logging state transitions. Incomplete delay
// sequences are not pruned (PruneSequences leaves them in place).
func runLoop(ctx context.Context, inst *instance.Instance, p *port.Port) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	bmcaTicker := time.NewTicker(time.Second)
	defer bmcaTicker.Stop()

	lastState := p.PortDS().PortState
	for {
		select {
		case <-ctx.Done():
			return
		case <-bmcaTicker.C:
			if err := inst.RunBMCA(); err != nil {
				log.Debugf("ravenna-ptpclient: BMCA: %v", err)
				continue
			}
			if state := p.PortDS().PortState; state != lastState {
				log.Infof("ravenna-ptpclient: port state %s -> %s", lastState, state)
				lastState = state
			}
		case now := <-ticker.C:
			requestingPort := p.PortDS().PortIdentity
			for _, pending := range p.PendingDelayReqs(now) {
				if err := p.SendDelayReq(pending.Master, pending.SequenceID, requestingPort); err != nil {
					log.Debugf("ravenna-ptpclient: delay req to %v: %v", pending.Master, err)
				}
			}
			p.PruneSequences(now, 3*time.Second, 4*time.Second)
		}
	}
}
