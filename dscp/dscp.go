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

// Package dscp sets the outgoing DiffServ code point on a UDP socket, so
// RAVENNA/AES67 RTP and PTP event traffic can be marked for priority
// queuing on the network.
package dscp

import (
	"net"

	"golang.org/x/sys/unix"
)

// Enable sets the six-bit DSCP value on the socket identified by fd,
// shifted left by two into the six most significant bits of the eight-bit
// TOS/Traffic Class octet, leaving the two ECN bits it shares that octet
// with at zero. localAddr picks the IPv4 (IP_TOS) or
// IPv6 (IPV6_TCLASS) socket option.
func Enable(fd int, localAddr net.IP, dscp int) error {
	if localAddr.To4() == nil {
		return unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_TCLASS, dscp<<2)
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_TOS, dscp<<2)
}
