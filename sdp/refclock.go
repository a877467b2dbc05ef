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

package sdp

import (
	"fmt"
	"strings"
)

// ClockSource is the source named by a "a=ts-refclk:" attribute
// (RFC 7273 §4.1).
type ClockSource uint8

const (
	ClockSourceUndefined ClockSource = iota
	ClockSourceAtomicClock
	ClockSourceGPS
	ClockSourceTerrestrialRadio
	ClockSourcePTP
	ClockSourceNTP
	ClockSourceNTPServer
	ClockSourceNTPPool
)

func (c ClockSource) String() string {
	switch c {
	case ClockSourceAtomicClock:
		return "atomic"
	case ClockSourceGPS:
		return "gps"
	case ClockSourceTerrestrialRadio:
		return "terrestrial-radio"
	case ClockSourcePTP:
		return "ptp"
	case ClockSourceNTP:
		return "ntp"
	case ClockSourceNTPServer:
		return "ntp-server"
	case ClockSourceNTPPool:
		return "ntp-pool"
	default:
		return ""
	}
}

// PTPVersion identifies the PTP profile a ts-refclk reference clock runs.
type PTPVersion uint8

const (
	PTPVersionUndefined PTPVersion = iota
	PTPVersionIEEE15882002
	PTPVersionIEEE15882008
	PTPVersionIEEE8021AS2011
	PTPVersionTraceable
)

func (v PTPVersion) String() string {
	switch v {
	case PTPVersionIEEE15882002:
		return "IEEE1588-2002"
	case PTPVersionIEEE15882008:
		return "IEEE1588-2008"
	case PTPVersionIEEE8021AS2011:
		return "IEEE802.1AS-2011"
	case PTPVersionTraceable:
		return "traceable"
	default:
		return ""
	}
}

func parsePTPVersion(s string) (PTPVersion, error) {
	switch s {
	case "IEEE1588-2002":
		return PTPVersionIEEE15882002, nil
	case "IEEE1588-2008":
		return PTPVersionIEEE15882008, nil
	case "IEEE802.1AS-2011":
		return PTPVersionIEEE8021AS2011, nil
	case "traceable":
		return PTPVersionTraceable, nil
	default:
		return PTPVersionUndefined, fmt.Errorf("sdp: invalid ptp version %q", s)
	}
}

// ReferenceClock is an "a=ts-refclk:" attribute value (everything after
// the "ts-refclk:" key). For source ptp it additionally carries the PTP
// version, grandmaster identity and domain; other sources use it bare.
type ReferenceClock struct {
	Source     ClockSource
	PTPVersion PTPVersion
	GMID       string
	Domain     *int32
}

func (r ReferenceClock) String() string {
	if r.Source != ClockSourcePTP {
		return r.Source.String()
	}
	s := fmt.Sprintf("ptp=%s:%s", r.PTPVersion, r.GMID)
	if r.Domain != nil {
		s += fmt.Sprintf(":%d", *r.Domain)
	}
	return s
}

func parseReferenceClock(value string) (ReferenceClock, error) {
	source, rest, _ := strings.Cut(value, "=")
	switch source {
	case "ptp":
		fields := strings.Split(rest, ":")
		if len(fields) < 2 {
			return ReferenceClock{}, fmt.Errorf("sdp: ts-refclk: expecting ptp version and gmid")
		}
		ver, err := parsePTPVersion(fields[0])
		if err != nil {
			return ReferenceClock{}, fmt.Errorf("sdp: ts-refclk: %w", err)
		}
		rc := ReferenceClock{Source: ClockSourcePTP, PTPVersion: ver, GMID: fields[1]}
		if len(fields) >= 3 {
			domain, ok := newLineParser(fields[2]).readInt()
			if !ok {
				return ReferenceClock{}, fmt.Errorf("sdp: ts-refclk: invalid domain %q", fields[2])
			}
			d := int32(domain)
			rc.Domain = &d
		}
		return rc, nil
	case "atomic":
		return ReferenceClock{Source: ClockSourceAtomicClock}, nil
	case "gps":
		return ReferenceClock{Source: ClockSourceGPS}, nil
	case "terrestrial-radio":
		return ReferenceClock{Source: ClockSourceTerrestrialRadio}, nil
	case "ntp":
		return ReferenceClock{Source: ClockSourceNTP}, nil
	case "ntp-server":
		return ReferenceClock{Source: ClockSourceNTPServer}, nil
	case "ntp-pool":
		return ReferenceClock{Source: ClockSourceNTPPool}, nil
	default:
		return ReferenceClock{}, fmt.Errorf("sdp: ts-refclk: unrecognized source %q", value)
	}
}

// MediaClockSource is the "a=mediaclk:" attribute (RFC 7273 §5.1). direct
// is the only mode RAVENNA streams use: the RTP timestamp at time zero is
// Offset, optionally scaled by Rate when it differs from the format's own
// clock rate.
type MediaClockSource struct {
	Offset int64
	Rate   *Fraction[int64]
}

func (m MediaClockSource) String() string {
	s := fmt.Sprintf("direct=%d", m.Offset)
	if m.Rate != nil {
		s += fmt.Sprintf(" rate=%s", *m.Rate)
	}
	return s
}

func parseMediaClockSource(value string) (MediaClockSource, error) {
	p := newLineParser(value)
	if !p.skipPrefix("direct=") {
		return MediaClockSource{}, fmt.Errorf("sdp: mediaclk: only the 'direct' mode is supported")
	}
	offset, ok := p.readInt()
	if !ok {
		return MediaClockSource{}, fmt.Errorf("sdp: mediaclk: failed to parse offset")
	}
	m := MediaClockSource{Offset: offset}
	if p.skipByte(' ') {
		if !p.skipPrefix("rate=") {
			return MediaClockSource{}, fmt.Errorf("sdp: mediaclk: expecting 'rate=' after offset")
		}
		num, ok := p.readInt()
		if !ok {
			return MediaClockSource{}, fmt.Errorf("sdp: mediaclk: failed to parse rate numerator")
		}
		if !p.skipByte('/') {
			return MediaClockSource{}, fmt.Errorf("sdp: mediaclk: expecting '/' in rate")
		}
		denom, ok := p.readInt()
		if !ok {
			return MediaClockSource{}, fmt.Errorf("sdp: mediaclk: failed to parse rate denominator")
		}
		rate := Fraction[int64]{Numerator: num, Denominator: denom}
		m.Rate = &rate
	}
	return m, nil
}

// SyncSource is the RAVENNA "a=clock-domain:" synchronization source.
type SyncSource uint8

const (
	SyncSourceUndefined SyncSource = iota
	SyncSourcePTPv2
)

func (s SyncSource) String() string {
	if s == SyncSourcePTPv2 {
		return "PTPv2"
	}
	return ""
}

// RavennaClockDomain is the "a=clock-domain:" attribute value.
type RavennaClockDomain struct {
	Source SyncSource
	Domain int32
}

func (c RavennaClockDomain) String() string {
	return fmt.Sprintf("%s %d", c.Source, c.Domain)
}

func parseRavennaClockDomain(value string) (RavennaClockDomain, error) {
	p := newLineParser(value)
	source, ok := p.split(' ')
	if !ok {
		return RavennaClockDomain{}, fmt.Errorf("sdp: clock-domain: failed to parse source")
	}
	if source != "PTPv2" {
		return RavennaClockDomain{}, fmt.Errorf("sdp: clock-domain: unrecognized source %q", source)
	}
	domain, ok := p.readInt()
	if !ok {
		return RavennaClockDomain{}, fmt.Errorf("sdp: clock-domain: failed to parse domain")
	}
	return RavennaClockDomain{Source: SyncSourcePTPv2, Domain: int32(domain)}, nil
}

// SourceFilter is the RFC 4570 "a=source-filter:" attribute value.
type SourceFilter struct {
	Mode        FilterMode
	NetworkType NetwType
	AddressType AddrType
	DestAddress string
	SourceList  []string
}

func (f SourceFilter) String() string {
	addrType := f.AddressType.String()
	if f.AddressType == AddrTypeBoth {
		addrType = tokenWildcard
	}
	return fmt.Sprintf("%s %s %s %s %s", f.Mode, f.NetworkType, addrType, f.DestAddress, strings.Join(f.SourceList, " "))
}

func parseSourceFilter(value string) (SourceFilter, error) {
	// value starts right after "source-filter:", which RFC 4570 always
	// follows with a separating space; strings.Fields tolerates it either
	// way.
	fields := strings.Fields(value)
	if len(fields) < 5 {
		return SourceFilter{}, fmt.Errorf("sdp: source-filter: expecting mode nettype addrtype dest-addr src-list")
	}
	mode, err := parseFilterMode(fields[0])
	if err != nil {
		return SourceFilter{}, fmt.Errorf("sdp: source-filter: %w", err)
	}
	netType, err := parseNetwType(fields[1])
	if err != nil {
		return SourceFilter{}, fmt.Errorf("sdp: source-filter: %w", err)
	}
	var addrType AddrType
	if fields[2] == tokenWildcard {
		addrType = AddrTypeBoth
	} else {
		addrType, err = parseAddrType(fields[2])
		if err != nil {
			return SourceFilter{}, fmt.Errorf("sdp: source-filter: %w", err)
		}
	}
	return SourceFilter{
		Mode:        mode,
		NetworkType: netType,
		AddressType: addrType,
		DestAddress: fields[3],
		SourceList:  fields[4:],
	}, nil
}
