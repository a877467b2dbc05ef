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

// ConnectionInfoField is the SDP "c=" line (RFC 8866 §5.7): nettype
// addrtype address[/ttl[/count]]. A TTL is mandatory on a multicast IPv4
// address and forbidden on IPv6, which instead carries only an address
// count.
type ConnectionInfoField struct {
	NetworkType      NetwType
	AddressType      AddrType
	Address          string
	TTL              *int32
	NumberOfAddresses *int32
}

func (c ConnectionInfoField) String() string {
	s := fmt.Sprintf("c=%s %s %s", c.NetworkType, c.AddressType, c.Address)
	if c.TTL != nil {
		s += fmt.Sprintf("/%d", *c.TTL)
	}
	if c.NumberOfAddresses != nil {
		s += fmt.Sprintf("/%d", *c.NumberOfAddresses)
	}
	return s
}

func parseConnectionInfo(line string) (ConnectionInfoField, error) {
	p := newLineParser(line)
	if !p.skipPrefix("c=") {
		return ConnectionInfoField{}, fmt.Errorf("sdp: connection: expecting 'c='")
	}

	var c ConnectionInfoField

	netType, ok := p.split(' ')
	if !ok {
		return ConnectionInfoField{}, fmt.Errorf("sdp: connection: failed to parse network type")
	}
	nt, err := parseNetwType(netType)
	if err != nil {
		return ConnectionInfoField{}, fmt.Errorf("sdp: connection: %w", err)
	}
	c.NetworkType = nt

	addrType, ok := p.split(' ')
	if !ok {
		return ConnectionInfoField{}, fmt.Errorf("sdp: connection: failed to parse address type")
	}
	at, err := parseAddrType(addrType)
	if err != nil {
		return ConnectionInfoField{}, fmt.Errorf("sdp: connection: %w", err)
	}
	c.AddressType = at

	if addr, ok := p.split('/'); ok {
		c.Address = addr
	}

	if p.exhausted() {
		return c, nil
	}

	switch c.AddressType {
	case AddrTypeIPv4:
		ttl, ok := p.readInt()
		if !ok {
			return ConnectionInfoField{}, fmt.Errorf("sdp: connection: failed to parse ttl for ipv4 address")
		}
		v := int32(ttl)
		c.TTL = &v
		if p.skipByte('/') {
			count, ok := p.readInt()
			if !ok {
				return ConnectionInfoField{}, fmt.Errorf("sdp: connection: failed to parse number of addresses")
			}
			n := int32(count)
			c.NumberOfAddresses = &n
		}
	case AddrTypeIPv6:
		count, ok := p.readInt()
		if !ok {
			return ConnectionInfoField{}, fmt.Errorf("sdp: connection: failed to parse number of addresses for ipv6 address")
		}
		n := int32(count)
		c.NumberOfAddresses = &n
	default:
		return ConnectionInfoField{}, fmt.Errorf("sdp: connection: unexpected trailing data for address type %v", c.AddressType)
	}

	if !p.exhausted() {
		return ConnectionInfoField{}, fmt.Errorf("sdp: connection: unexpected characters at end of line")
	}

	return c, nil
}
