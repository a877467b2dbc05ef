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

// SessionDescription is a full RFC 8866 session description plus the
// RAVENNA/AES67 session-level extensions: one or more PTP-synchronized RTP
// media sections each advertising a source filter and a reference clock.
type SessionDescription struct {
	Version        int
	Origin         OriginField
	SessionName    string
	SessionInfo    string
	ConnectionInfo *ConnectionInfoField
	TimeActive     TimeActiveField

	Direction  *MediaDirection
	RefClock   *ReferenceClock
	MediaClock *MediaClockSource

	ClockDomain   *RavennaClockDomain
	SourceFilters []SourceFilter

	// Attributes holds every session-level "a=" line this type does not
	// model directly, in the order they were set or parsed.
	Attributes AttributeList

	MediaDescriptions []MediaDescription
}

// String renders the canonical, byte-stable SDP text for s: fields in the
// strict RFC 8866 order, CRLF line endings, every line terminated
// including the last.
func (s SessionDescription) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "v=%d\r\n", s.Version)
	b.WriteString(s.Origin.String())
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "s=%s\r\n", s.SessionName)
	if s.SessionInfo != "" {
		fmt.Fprintf(&b, "i=%s\r\n", s.SessionInfo)
	}
	if s.ConnectionInfo != nil {
		b.WriteString(s.ConnectionInfo.String())
		b.WriteString("\r\n")
	}
	b.WriteString(s.TimeActive.String())
	b.WriteString("\r\n")

	if s.ClockDomain != nil {
		fmt.Fprintf(&b, "a=clock-domain:%s\r\n", s.ClockDomain)
	}
	if s.Direction != nil {
		fmt.Fprintf(&b, "a=%s\r\n", s.Direction)
	}
	if s.RefClock != nil {
		fmt.Fprintf(&b, "a=ts-refclk:%s\r\n", s.RefClock)
	}
	if s.MediaClock != nil {
		fmt.Fprintf(&b, "a=mediaclk:%s\r\n", s.MediaClock)
	}
	for _, f := range s.SourceFilters {
		fmt.Fprintf(&b, "a=source-filter: %s\r\n", f)
	}
	for _, a := range s.Attributes {
		fmt.Fprintf(&b, "a=%s:%s\r\n", a.Name, a.Value)
	}

	for _, md := range s.MediaDescriptions {
		b.WriteString(md.String())
		b.WriteString("\r\n")
	}

	return strings.TrimSuffix(b.String(), "\r\n")
}

// Parse decodes text (CRLF or bare LF line endings) into a
// SessionDescription, enforcing the strict top-level field ordering of
// RFC 8866 §5: v, o, s, optional i, optional c, t, then session attributes
// and zero or more media sections.
func Parse(text string) (SessionDescription, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return SessionDescription{}, fmt.Errorf("sdp: empty session description")
	}

	var s SessionDescription
	idx := 0

	if idx >= len(lines) || !strings.HasPrefix(lines[idx], "v=") {
		return SessionDescription{}, fmt.Errorf("sdp: expecting 'v=' line")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(lines[idx], "v="))
	if err != nil {
		return SessionDescription{}, fmt.Errorf("sdp: invalid version: %w", err)
	}
	s.Version = version
	idx++

	if idx >= len(lines) || !strings.HasPrefix(lines[idx], "o=") {
		return SessionDescription{}, fmt.Errorf("sdp: expecting 'o=' line")
	}
	origin, err := parseOrigin(lines[idx])
	if err != nil {
		return SessionDescription{}, err
	}
	s.Origin = origin
	idx++

	if idx >= len(lines) || !strings.HasPrefix(lines[idx], "s=") {
		return SessionDescription{}, fmt.Errorf("sdp: expecting 's=' line")
	}
	s.SessionName = strings.TrimPrefix(lines[idx], "s=")
	idx++

	if idx < len(lines) && strings.HasPrefix(lines[idx], "i=") {
		s.SessionInfo = strings.TrimPrefix(lines[idx], "i=")
		idx++
	}

	if idx < len(lines) && strings.HasPrefix(lines[idx], "c=") {
		c, err := parseConnectionInfo(lines[idx])
		if err != nil {
			return SessionDescription{}, err
		}
		s.ConnectionInfo = &c
		idx++
	}

	if idx >= len(lines) || !strings.HasPrefix(lines[idx], "t=") {
		return SessionDescription{}, fmt.Errorf("sdp: expecting 't=' line")
	}
	t, err := parseTimeActive(lines[idx])
	if err != nil {
		return SessionDescription{}, err
	}
	s.TimeActive = t
	idx++

	for idx < len(lines) && strings.HasPrefix(lines[idx], "a=") {
		key, value := splitAttribute(lines[idx])
		if err := s.applyAttribute(key, value); err != nil {
			return SessionDescription{}, err
		}
		idx++
	}

	for idx < len(lines) {
		if !strings.HasPrefix(lines[idx], "m=") {
			return SessionDescription{}, fmt.Errorf("sdp: expecting 'm=' line, got %q", lines[idx])
		}
		md, consumed, err := parseMediaSection(lines[idx:])
		if err != nil {
			return SessionDescription{}, err
		}
		s.MediaDescriptions = append(s.MediaDescriptions, md)
		idx += consumed
	}

	return s, nil
}

func (s *SessionDescription) applyAttribute(key, value string) error {
	switch key {
	case "sendrecv", "sendonly", "recvonly", "inactive":
		d, err := parseMediaDirection(key)
		if err != nil {
			return err
		}
		s.Direction = &d
		return nil
	case "ts-refclk":
		rc, err := parseReferenceClock(value)
		if err != nil {
			return err
		}
		s.RefClock = &rc
		return nil
	case "mediaclk":
		mc, err := parseMediaClockSource(value)
		if err != nil {
			return err
		}
		s.MediaClock = &mc
		return nil
	case "clock-domain":
		cd, err := parseRavennaClockDomain(value)
		if err != nil {
			return err
		}
		s.ClockDomain = &cd
		return nil
	case "source-filter":
		sf, err := parseSourceFilter(value)
		if err != nil {
			return err
		}
		s.SourceFilters = append(s.SourceFilters, sf)
		return nil
	default:
		s.Attributes.set(key, value)
		return nil
	}
}

// parseMediaSection parses the "m=" line at lines[0] plus every "c=", "i="
// and "a=" line that follows it up to (not including) the next "m=" line
// or the end of input. It returns the number of lines consumed.
func parseMediaSection(lines []string) (MediaDescription, int, error) {
	md, err := parseMediaLine(lines[0])
	if err != nil {
		return MediaDescription{}, 0, err
	}

	consumed := 1
	for consumed < len(lines) {
		line := lines[consumed]
		if strings.HasPrefix(line, "m=") {
			break
		}
		switch {
		case strings.HasPrefix(line, "i="):
			md.SessionInformation = strings.TrimPrefix(line, "i=")
		case strings.HasPrefix(line, "c="):
			c, err := parseConnectionInfo(line)
			if err != nil {
				return MediaDescription{}, 0, err
			}
			md.ConnectionInfo = append(md.ConnectionInfo, c)
		case strings.HasPrefix(line, "a="):
			key, value := splitAttribute(line)
			if err := md.applyAttribute(key, value); err != nil {
				return MediaDescription{}, 0, err
			}
		default:
			return MediaDescription{}, 0, fmt.Errorf("sdp: unexpected line in media section: %q", line)
		}
		consumed++
	}

	return md, consumed, nil
}

// splitAttribute splits an "a=<name>[:<value>]" line into its name and
// value, trimming the leading space source-filter lines conventionally
// carry after the colon.
func splitAttribute(line string) (name, value string) {
	body := strings.TrimPrefix(line, "a=")
	name, value, found := strings.Cut(body, ":")
	if !found {
		return name, ""
	}
	return name, strings.TrimPrefix(value, " ")
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(normalized, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
