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

// Package netio provides the UDP transport substrate shared by the RTP and
// RTCP receivers: a socket that reports the true destination address of
// each received datagram (needed to tell multiple multicast groups bound to
// the same socket apart), refcounted multicast group membership and a DSCP
// setter.
package netio

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"

	"github.com/soundondigital/ravennakit/dscp"
)

// RecvEvent describes one datagram delivered to a Handler. DstAddr is the
// packet's actual destination address, which on a socket joined to several
// multicast groups is the only way to tell which group the datagram arrived
// on.
type RecvEvent struct {
	Data     []byte
	SrcAddr  *net.UDPAddr
	DstAddr  *net.UDPAddr
	RecvTime time.Time
}

// Handler processes one received datagram. The Data slice is only valid for
// the duration of the call; implementations that need to retain it must
// copy it.
type Handler func(RecvEvent)

// Socket wraps a bound net.UDPConn with destination-address-aware receive,
// refcounted multicast membership and DSCP marking.
type Socket struct {
	conn   *net.UDPConn
	pconn4 *ipv4.PacketConn
	pconn6 *ipv6.PacketConn
	is4    bool

	mu          sync.Mutex
	memberships map[membershipKey]int
}

// Bind opens a UDP socket on addr with SO_REUSEADDR set, matching the
// teacher's fleet-wide convention of binding listener sockets so a restart
// doesn't race the kernel's TIME_WAIT hold on the old one.
func Bind(addr *net.UDPAddr) (*Socket, error) {
	network := "udp6"
	is4 := addr.IP == nil || addr.IP.To4() != nil
	if is4 {
		network = "udp4"
	}

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), network, addr.String())
	if err != nil {
		return nil, fmt.Errorf("netio: bind %s: %w", addr, err)
	}
	udpConn := pc.(*net.UDPConn)

	s := &Socket{conn: udpConn, is4: is4, memberships: make(map[membershipKey]int)}
	if is4 {
		s.pconn4 = ipv4.NewPacketConn(udpConn)
		if err := s.pconn4.SetControlMessage(ipv4.FlagDst|ipv4.FlagInterface, true); err != nil {
			return nil, fmt.Errorf("netio: enable control messages: %w", err)
		}
	} else {
		s.pconn6 = ipv6.NewPacketConn(udpConn)
		if err := s.pconn6.SetControlMessage(ipv6.FlagDst|ipv6.FlagInterface, true); err != nil {
			return nil, fmt.Errorf("netio: enable control messages: %w", err)
		}
	}
	return s, nil
}

// LocalAddr returns the socket's bound address.
func (s *Socket) LocalAddr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Close closes the underlying socket. Active memberships are not released:
// a later Membership.Close still drops its reference, and the one that would
// leave the group returns the error from the closed socket.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// Send writes data to dst. The caller must keep data smaller than the path
// MTU; the socket performs no fragmentation handling.
func (s *Socket) Send(data []byte, dst *net.UDPAddr) (int, error) {
	return s.conn.WriteToUDP(data, dst)
}

// Start runs the receive loop on the calling goroutine, invoking handler for
// every datagram until ctx is canceled or the socket is closed. bufSize
// bounds the largest datagram the socket will accept; the teacher-observed
// convention for RTP-sized payloads is 65536.
func (s *Socket) Start(ctx context.Context, handler Handler, bufSize int) error {
	buf := make([]byte, bufSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event, err := s.readOne(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		handler(event)
	}
}

func (s *Socket) readOne(buf []byte) (RecvEvent, error) {
	now := time.Now()
	if s.is4 {
		n, cm, src, err := s.pconn4.ReadFrom(buf)
		if err != nil {
			return RecvEvent{}, err
		}
		dst := &net.UDPAddr{IP: cm.Dst, Port: s.LocalAddr().Port}
		return RecvEvent{Data: buf[:n], SrcAddr: src.(*net.UDPAddr), DstAddr: dst, RecvTime: now}, nil
	}
	n, cm, src, err := s.pconn6.ReadFrom(buf)
	if err != nil {
		return RecvEvent{}, err
	}
	dst := &net.UDPAddr{IP: cm.Dst, Port: s.LocalAddr().Port}
	return RecvEvent{Data: buf[:n], SrcAddr: src.(*net.UDPAddr), DstAddr: dst, RecvTime: now}, nil
}

// SetDSCP marks every subsequent outbound packet on the socket with the
// given six-bit DSCP codepoint.
func (s *Socket) SetDSCP(value int) error {
	raw, err := s.conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("netio: syscall conn: %w", err)
	}
	var setErr error
	err = raw.Control(func(fd uintptr) {
		setErr = dscp.Enable(int(fd), s.LocalAddr().IP, value)
	})
	if err != nil {
		return err
	}
	return setErr
}

// SetMulticastLoopback enables or disables loopback delivery of packets this
// socket sends to a multicast group it has joined.
func (s *Socket) SetMulticastLoopback(enable bool) error {
	if s.is4 {
		return s.pconn4.SetMulticastLoopback(enable)
	}
	return s.pconn6.SetMulticastLoopback(enable)
}

// SetOutboundInterface pins the interface used for outbound multicast
// packets sent on this socket.
func (s *Socket) SetOutboundInterface(iface *net.Interface) error {
	if s.is4 {
		return s.pconn4.SetMulticastInterface(iface)
	}
	return s.pconn6.SetMulticastInterface(iface)
}

type membershipKey struct {
	group string
	iface string
}

// Membership is a held multicast group subscription. Closing it decrements
// the socket's refcount for the group and leaves it once the count reaches
// zero.
type Membership struct {
	socket *Socket
	key    membershipKey
	once   sync.Once
}

// Join joins group on iface (nil selects the system default interface). A
// group can be joined any number of times; the Nth join returns its own
// Membership, and the group is only actually left once every Membership
// returned for that (group, iface) pair has been closed.
func (s *Socket) Join(group net.IP, iface *net.Interface) (*Membership, error) {
	key := membershipKey{group: group.String(), iface: ifaceName(iface)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memberships[key] == 0 {
		if err := s.joinGroup(group, iface); err != nil {
			return nil, err
		}
	}
	s.memberships[key]++
	return &Membership{socket: s, key: key}, nil
}

func (s *Socket) joinGroup(group net.IP, iface *net.Interface) error {
	addr := &net.UDPAddr{IP: group}
	if s.is4 {
		return s.pconn4.JoinGroup(iface, addr)
	}
	return s.pconn6.JoinGroup(iface, addr)
}

func (s *Socket) leaveGroup(group net.IP, iface *net.Interface) error {
	addr := &net.UDPAddr{IP: group}
	if s.is4 {
		return s.pconn4.LeaveGroup(iface, addr)
	}
	return s.pconn6.LeaveGroup(iface, addr)
}

// Close decrements the membership's refcount, leaving the multicast group
// when it reaches zero. Safe to call more than once; only the first call
// has an effect.
func (m *Membership) Close() error {
	var err error
	m.once.Do(func() {
		s := m.socket
		s.mu.Lock()
		defer s.mu.Unlock()

		s.memberships[m.key]--
		if s.memberships[m.key] > 0 {
			return
		}
		delete(s.memberships, m.key)

		group := net.ParseIP(m.key.group)
		iface, ifErr := net.InterfaceByName(m.key.iface)
		if m.key.iface == "" {
			iface = nil
		} else if ifErr != nil {
			err = ifErr
			return
		}
		err = s.leaveGroup(group, iface)
	})
	return err
}

func ifaceName(iface *net.Interface) string {
	if iface == nil {
		return ""
	}
	return iface.Name
}
