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

// Package sdp implements RFC 8866 Session Description Protocol parsing and
// canonical emission, extended with the RAVENNA/AES67 session and media
// level attributes used to advertise PTP-synchronized RTP audio streams.
package sdp

import "fmt"

// Wire tokens used throughout the codec; kept as named constants rather
// than inlined so every field parser agrees on spelling.
const (
	tokenInternet = "IN"
	tokenIPv4     = "IP4"
	tokenIPv6     = "IP6"
	tokenWildcard = "*"
)

// NetwType is the SDP "nettype" token (RFC 8866 §5.2).
type NetwType uint8

const (
	NetwTypeUndefined NetwType = iota
	NetwTypeInternet
)

func (t NetwType) String() string {
	if t == NetwTypeInternet {
		return tokenInternet
	}
	return ""
}

func parseNetwType(s string) (NetwType, error) {
	if s == tokenInternet {
		return NetwTypeInternet, nil
	}
	return NetwTypeUndefined, fmt.Errorf("sdp: invalid network type %q", s)
}

// AddrType is the SDP "addrtype" token (RFC 8866 §5.2).
type AddrType uint8

const (
	AddrTypeUndefined AddrType = iota
	AddrTypeIPv4
	AddrTypeIPv6
	AddrTypeBoth
)

func (t AddrType) String() string {
	switch t {
	case AddrTypeIPv4:
		return tokenIPv4
	case AddrTypeIPv6:
		return tokenIPv6
	case AddrTypeBoth:
		return tokenIPv4 + "/" + tokenIPv6
	default:
		return ""
	}
}

func parseAddrType(s string) (AddrType, error) {
	switch s {
	case tokenIPv4:
		return AddrTypeIPv4, nil
	case tokenIPv6:
		return AddrTypeIPv6, nil
	default:
		return AddrTypeUndefined, fmt.Errorf("sdp: invalid address type %q", s)
	}
}

// MediaDirection is the session- or media-level direction attribute
// (RFC 8866 §6.7).
type MediaDirection uint8

const (
	DirectionSendRecv MediaDirection = iota
	DirectionSendOnly
	DirectionRecvOnly
	DirectionInactive
)

func (d MediaDirection) String() string {
	switch d {
	case DirectionSendOnly:
		return "sendonly"
	case DirectionRecvOnly:
		return "recvonly"
	case DirectionInactive:
		return "inactive"
	default:
		return "sendrecv"
	}
}

func parseMediaDirection(s string) (MediaDirection, error) {
	switch s {
	case "sendrecv":
		return DirectionSendRecv, nil
	case "sendonly":
		return DirectionSendOnly, nil
	case "recvonly":
		return DirectionRecvOnly, nil
	case "inactive":
		return DirectionInactive, nil
	default:
		return DirectionSendRecv, fmt.Errorf("sdp: invalid media direction %q", s)
	}
}

// FilterMode is the RFC 4570 source-filter mode.
type FilterMode uint8

const (
	FilterModeUndefined FilterMode = iota
	FilterModeInclude
	FilterModeExclude
)

func (m FilterMode) String() string {
	switch m {
	case FilterModeInclude:
		return "incl"
	case FilterModeExclude:
		return "excl"
	default:
		return ""
	}
}

func parseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "incl":
		return FilterModeInclude, nil
	case "excl":
		return FilterModeExclude, nil
	default:
		return FilterModeUndefined, fmt.Errorf("sdp: invalid source-filter mode %q", s)
	}
}

// Fraction is a simple numerator/denominator pair, used by the RAVENNA
// clock-deviation and mediaclk rate attributes.
type Fraction[T ~int | ~int32 | ~int64 | ~uint32] struct {
	Numerator   T
	Denominator T
}

func (f Fraction[T]) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// Attribute is one "a=" line not otherwise modeled by a dedicated field.
// Unknown attributes are kept in an ordered slice, not a map, so a
// session or media section that round-trips through Parse/String
// reproduces their original order even when none of them are recognized.
type Attribute struct {
	Name  string
	Value string
}

// AttributeList is the ordered collection of unrecognized "a=" lines
// shared by SessionDescription and MediaDescription.
type AttributeList []Attribute

func (l AttributeList) get(name string) (string, bool) {
	for _, a := range l {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (l *AttributeList) set(name, value string) {
	for i, a := range *l {
		if a.Name == name {
			(*l)[i].Value = value
			return
		}
	}
	*l = append(*l, Attribute{Name: name, Value: value})
}
