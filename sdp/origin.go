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

import "fmt"

// OriginField is the SDP "o=" line (RFC 8866 §5.2): the originator and
// session identifier.
type OriginField struct {
	Username       string
	SessionID      string
	SessionVersion int64
	NetworkType    NetwType
	AddressType    AddrType
	UnicastAddress string
}

// String renders the "o=" line without its trailing CRLF.
func (o OriginField) String() string {
	return fmt.Sprintf("o=%s %s %d %s %s %s",
		o.Username, o.SessionID, o.SessionVersion, o.NetworkType, o.AddressType, o.UnicastAddress)
}

func parseOrigin(line string) (OriginField, error) {
	p := newLineParser(line)
	if !p.skipPrefix("o=") {
		return OriginField{}, fmt.Errorf("sdp: origin: expecting 'o='")
	}

	var o OriginField

	username, ok := p.split(' ')
	if !ok {
		return OriginField{}, fmt.Errorf("sdp: origin: failed to parse username")
	}
	o.Username = username

	sessionID, ok := p.split(' ')
	if !ok {
		return OriginField{}, fmt.Errorf("sdp: origin: failed to parse session id")
	}
	o.SessionID = sessionID

	version, ok := p.readInt()
	if !ok {
		return OriginField{}, fmt.Errorf("sdp: origin: failed to parse session version")
	}
	o.SessionVersion = version
	p.skipByte(' ')

	netType, ok := p.split(' ')
	if !ok {
		return OriginField{}, fmt.Errorf("sdp: origin: failed to parse network type")
	}
	nt, err := parseNetwType(netType)
	if err != nil {
		return OriginField{}, fmt.Errorf("sdp: origin: %w", err)
	}
	o.NetworkType = nt

	addrType, ok := p.split(' ')
	if !ok {
		return OriginField{}, fmt.Errorf("sdp: origin: failed to parse address type")
	}
	at, err := parseAddrType(addrType)
	if err != nil {
		return OriginField{}, fmt.Errorf("sdp: origin: %w", err)
	}
	o.AddressType = at

	addr, ok := p.readUntilEnd()
	if !ok {
		return OriginField{}, fmt.Errorf("sdp: origin: failed to parse unicast address")
	}
	o.UnicastAddress = addr

	return o, nil
}
