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

// Package instance implements the PTP Instance: the clock identity shared
// by all of a node's ports, the default/current/parent/time-properties
// data sets, and the BMCA evaluation that assigns each port a state.
package instance

import (
	"errors"
	"net"
	"sync"

	"github.com/soundondigital/ravennakit/ptp/bmc"
	"github.com/soundondigital/ravennakit/ptp/datasets"
	"github.com/soundondigital/ravennakit/ptp/port"
	"github.com/soundondigital/ravennakit/ptp/protocol"
)

// ErrNoPorts is returned by RunBMCA when the instance has no ports to
// evaluate.
var ErrNoPorts = errors.New("instance: no ports added")

// Instance is a PTP ordinary or boundary clock instance: the clock
// identity and top-level data sets are shared across every port it owns.
type Instance struct {
	mu sync.Mutex

	clockIdentity protocol.ClockIdentity
	sealed        bool

	defaultDS        datasets.DefaultDS
	currentDS        datasets.CurrentDS
	parentDS         datasets.ParentDS
	timePropertiesDS datasets.TimePropertiesDS

	ports []*port.Port
}

// New creates an instance with the given clock quality and priority
// values; the clock identity itself is sealed from the first port's MAC
// address in AddPort.
func New(quality protocol.ClockQuality, priority1, priority2 uint8, slaveOnly bool) *Instance {
	return &Instance{
		defaultDS: datasets.DefaultDS{
			ClockQuality: quality,
			Priority1:    priority1,
			Priority2:    priority2,
			SlaveOnly:    slaveOnly,
		},
	}
}

// ClockIdentity returns the instance's clock identity; it is the zero
// value until the first port has been added.
func (i *Instance) ClockIdentity() protocol.ClockIdentity {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.clockIdentity
}

// DefaultDS returns a copy of the instance's default data set.
func (i *Instance) DefaultDS() datasets.DefaultDS {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.defaultDS
}

// AddPort adds a port bound to the interface identified by mac. The first
// call seals the instance's clock identity from that MAC address;
// subsequent ports share it. ds.PortIdentity.PortNumber must already be
// set by the caller (1-based, per §7.5.2.3); its ClockIdentity is
// overwritten with the instance's.
func (i *Instance) AddPort(mac net.HardwareAddr, ds datasets.PortDS, sender port.Sender) (*port.Port, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.sealed {
		clockID, err := protocol.NewClockIdentity(mac)
		if err != nil {
			return nil, err
		}
		i.clockIdentity = clockID
		i.defaultDS.ClockIdentity = clockID
		i.sealed = true
	}

	ds.PortIdentity.ClockIdentity = i.clockIdentity
	p := port.New(i.clockIdentity, ds, sender)
	i.ports = append(i.ports, p)
	i.defaultDS.NumberPorts = uint16(len(i.ports))
	return p, nil
}

// Ports returns the instance's ports in the order they were added.
func (i *Instance) Ports() []*port.Port {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]*port.Port(nil), i.ports...)
}

// RunBMCA re-evaluates every port's recommended state per
// IEEE 1588-2019 §9.3.3: it computes each port's Erbest, the instance-wide
// Ebest across all ports, and applies the resulting §9.3.5 decision to
// each port's state machine.
func (i *Instance) RunBMCA() error {
	i.mu.Lock()
	ports := append([]*port.Port(nil), i.ports...)
	defaultDS := i.defaultDS
	i.mu.Unlock()

	if len(ports) == 0 {
		return ErrNoPorts
	}

	type candidate struct {
		port *bmc.ForeignMasterRecord
		set  bmc.ComparisonDataSet
	}
	candidates := make([]*candidate, len(ports))
	for idx, p := range ports {
		rec := p.ForeignMasters().Erbest(p.PortDS().PortIdentity)
		if rec == nil {
			continue
		}
		candidates[idx] = &candidate{
			port: rec,
			set:  bmc.NewComparisonDataSetFromAnnounce(rec.MostRecent, p.PortDS().PortIdentity),
		}
	}

	var ebestIdx = -1
	for idx, c := range candidates {
		if c == nil {
			continue
		}
		if ebestIdx == -1 {
			ebestIdx = idx
			continue
		}
		if c.set.Compare(candidates[ebestIdx].set) == bmc.Better || c.set.Compare(candidates[ebestIdx].set) == bmc.BetterByTopology {
			ebestIdx = idx
		}
	}

	ownDataset := bmc.NewComparisonDataSetFromDefaultDS(defaultDS)
	isGrandmaster := true
	if ebestIdx != -1 {
		outcome := ownDataset.Compare(candidates[ebestIdx].set)
		isGrandmaster = outcome == bmc.Better || outcome == bmc.BetterByTopology
	}

	for idx, p := range ports {
		haveForeignMaster := candidates[idx] != nil
		isParentPort := ebestIdx == idx
		recommended, _ := datasets.RecommendedState(isGrandmaster, isParentPort, haveForeignMaster, defaultDS.SlaveOnly, defaultDS.NumberPorts)
		p.ApplyRecommendedState(recommended)
	}
	return nil
}
