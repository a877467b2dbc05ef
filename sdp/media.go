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
	"strconv"
	"strings"
)

// MediaDescription is one "m=" section and every attribute bound to it,
// per RFC 8866 §5.14 plus the RAVENNA session extensions (RFC 7273 and
// the AES67/RAVENNA clock-domain, sync-time and clock-deviation
// attributes).
type MediaDescription struct {
	MediaType      string
	Port           uint16
	NumberOfPorts  uint16
	Protocol       string
	Formats        []Format
	ConnectionInfo []ConnectionInfoField

	Ptime    *float64
	MaxPtime *float64

	Direction   *MediaDirection
	RefClock    *ReferenceClock
	MediaClock  *MediaClockSource

	SessionInformation string

	ClockDomain     *RavennaClockDomain
	SyncTime        *uint32
	ClockDeviation  *Fraction[uint32]
	SourceFilters   []SourceFilter
	Framecount      *int32

	// Attributes holds every "a=" line this type does not model directly,
	// in the order they were set or parsed.
	Attributes AttributeList
}

func (m MediaDescription) mediaLine() string {
	names := make([]string, len(m.Formats))
	for i, f := range m.Formats {
		names[i] = strconv.Itoa(int(f.PayloadType))
	}
	port := fmt.Sprintf("%d", m.Port)
	if m.NumberOfPorts > 1 {
		port = fmt.Sprintf("%d/%d", m.Port, m.NumberOfPorts)
	}
	return fmt.Sprintf("m=%s %s %s %s", m.MediaType, port, m.Protocol, strings.Join(names, " "))
}

// String renders the full media section, starting with "m=" and ending
// without a trailing CRLF after the last emitted attribute.
func (m MediaDescription) String() string {
	var b strings.Builder
	b.WriteString(m.mediaLine())
	b.WriteString("\r\n")

	for _, c := range m.ConnectionInfo {
		b.WriteString(c.String())
		b.WriteString("\r\n")
	}
	if m.SessionInformation != "" {
		fmt.Fprintf(&b, "i=%s\r\n", m.SessionInformation)
	}
	for _, f := range m.Formats {
		fmt.Fprintf(&b, "a=rtpmap:%s\r\n", f)
	}
	if m.Ptime != nil {
		fmt.Fprintf(&b, "a=ptime:%s\r\n", formatFloat(*m.Ptime))
	}
	if m.MaxPtime != nil {
		fmt.Fprintf(&b, "a=maxptime:%s\r\n", formatFloat(*m.MaxPtime))
	}
	if m.Direction != nil {
		fmt.Fprintf(&b, "a=%s\r\n", m.Direction)
	}
	if m.RefClock != nil {
		fmt.Fprintf(&b, "a=ts-refclk:%s\r\n", m.RefClock)
	}
	if m.MediaClock != nil {
		fmt.Fprintf(&b, "a=mediaclk:%s\r\n", m.MediaClock)
	}
	if m.ClockDomain != nil {
		fmt.Fprintf(&b, "a=clock-domain:%s\r\n", m.ClockDomain)
	}
	if m.SyncTime != nil {
		fmt.Fprintf(&b, "a=sync-time:%d\r\n", *m.SyncTime)
	}
	if m.ClockDeviation != nil {
		fmt.Fprintf(&b, "a=clock-deviation:%s\r\n", m.ClockDeviation)
	}
	for _, f := range m.SourceFilters {
		fmt.Fprintf(&b, "a=source-filter: %s\r\n", f)
	}
	if m.Framecount != nil {
		fmt.Fprintf(&b, "a=framecount:%d\r\n", *m.Framecount)
	}
	for _, a := range m.Attributes {
		fmt.Fprintf(&b, "a=%s:%s\r\n", a.Name, a.Value)
	}

	return strings.TrimSuffix(b.String(), "\r\n")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseMediaLine(line string) (MediaDescription, error) {
	p := newLineParser(line)
	if !p.skipPrefix("m=") {
		return MediaDescription{}, fmt.Errorf("sdp: media: expecting 'm='")
	}

	var m MediaDescription

	mediaType, ok := p.split(' ')
	if !ok {
		return MediaDescription{}, fmt.Errorf("sdp: media: failed to parse media type")
	}
	m.MediaType = mediaType

	portField, ok := p.split(' ')
	if !ok {
		return MediaDescription{}, fmt.Errorf("sdp: media: failed to parse port")
	}
	portStr, numStr, hasSlash := strings.Cut(portField, "/")
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return MediaDescription{}, fmt.Errorf("sdp: media: invalid port %q", portField)
	}
	m.Port = uint16(port)
	m.NumberOfPorts = 1
	if hasSlash {
		n, err := strconv.ParseUint(numStr, 10, 16)
		if err != nil {
			return MediaDescription{}, fmt.Errorf("sdp: media: invalid number of ports %q", portField)
		}
		m.NumberOfPorts = uint16(n)
	}

	protocol, ok := p.split(' ')
	if !ok {
		return MediaDescription{}, fmt.Errorf("sdp: media: failed to parse protocol")
	}
	m.Protocol = protocol

	formatIDs := strings.Fields(p.rest())
	if len(formatIDs) == 0 {
		return MediaDescription{}, fmt.Errorf("sdp: media: expecting at least one format")
	}
	for _, id := range formatIDs {
		pt, err := strconv.ParseInt(id, 10, 8)
		if err != nil {
			return MediaDescription{}, fmt.Errorf("sdp: media: invalid payload type %q", id)
		}
		m.Formats = append(m.Formats, Format{PayloadType: int8(pt)})
	}

	return m, nil
}

// applyAttribute dispatches one "a=<key>[:<value>]" line onto the media
// description, filling in known fields or preserving the line verbatim
// when the key is unrecognized.
func (m *MediaDescription) applyAttribute(key, value string) error {
	switch key {
	case "rtpmap":
		f, err := parseFormat(value)
		if err != nil {
			return err
		}
		for i, existing := range m.Formats {
			if existing.PayloadType == f.PayloadType {
				m.Formats[i] = f
				return nil
			}
		}
		m.Formats = append(m.Formats, f)
		return nil
	case "ptime":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("sdp: media: invalid ptime %q", value)
		}
		m.Ptime = &v
		return nil
	case "maxptime":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("sdp: media: invalid maxptime %q", value)
		}
		m.MaxPtime = &v
		return nil
	case "sendrecv", "sendonly", "recvonly", "inactive":
		d, err := parseMediaDirection(key)
		if err != nil {
			return err
		}
		m.Direction = &d
		return nil
	case "ts-refclk":
		rc, err := parseReferenceClock(value)
		if err != nil {
			return err
		}
		m.RefClock = &rc
		return nil
	case "mediaclk":
		mc, err := parseMediaClockSource(value)
		if err != nil {
			return err
		}
		m.MediaClock = &mc
		return nil
	case "clock-domain":
		cd, err := parseRavennaClockDomain(value)
		if err != nil {
			return err
		}
		m.ClockDomain = &cd
		return nil
	case "sync-time":
		v, ok := newLineParser(value).readInt()
		if !ok {
			return fmt.Errorf("sdp: media: failed to parse sync-time value")
		}
		u := uint32(v)
		m.SyncTime = &u
		return nil
	case "clock-deviation":
		p := newLineParser(value)
		num, ok := p.readInt()
		if !ok {
			return fmt.Errorf("sdp: media: failed to parse clock-deviation value")
		}
		if !p.skipByte('/') {
			return fmt.Errorf("sdp: media: expecting '/' after clock-deviation numerator value")
		}
		denom, ok := p.readInt()
		if !ok {
			return fmt.Errorf("sdp: media: failed to parse clock-deviation denominator value")
		}
		f := Fraction[uint32]{Numerator: uint32(num), Denominator: uint32(denom)}
		m.ClockDeviation = &f
		return nil
	case "source-filter":
		sf, err := parseSourceFilter(value)
		if err != nil {
			return err
		}
		m.SourceFilters = append(m.SourceFilters, sf)
		return nil
	case "framecount":
		v, ok := newLineParser(value).readInt()
		if !ok {
			return fmt.Errorf("sdp: media: failed to parse framecount value")
		}
		n := int32(v)
		m.Framecount = &n
		return nil
	default:
		m.Attributes.set(key, value)
		return nil
	}
}
