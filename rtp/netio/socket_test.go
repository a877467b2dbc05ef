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

package netio

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBindAndSendRecvLoopback(t *testing.T) {
	rx, err := Bind(&net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer rx.Close()

	tx, err := Bind(&net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer tx.Close()

	received := make(chan RecvEvent, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = rx.Start(ctx, func(e RecvEvent) {
			select {
			case received <- e:
			default:
			}
		}, 1500)
	}()

	_, err = tx.Send([]byte("hello"), rx.LocalAddr())
	require.NoError(t, err)

	select {
	case e := <-received:
		require.Equal(t, "hello", string(e.Data))
		require.Equal(t, rx.LocalAddr().Port, e.DstAddr.Port)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for datagram")
	}
}

func TestJoinRefcountsGroupMembership(t *testing.T) {
	sock, err := Bind(&net.UDPAddr{IP: net.ParseIP("0.0.0.0"), Port: 0})
	require.NoError(t, err)
	defer sock.Close()

	group := net.ParseIP("239.1.1.1")
	m1, err := sock.Join(group, nil)
	require.NoError(t, err)
	m2, err := sock.Join(group, nil)
	require.NoError(t, err)

	key := membershipKey{group: group.String(), iface: ""}
	require.Equal(t, 2, sock.memberships[key])

	require.NoError(t, m1.Close())
	require.Equal(t, 1, sock.memberships[key])

	require.NoError(t, m2.Close())
	_, stillPresent := sock.memberships[key]
	require.False(t, stillPresent)

	// Closing an already-closed membership is a no-op.
	require.NoError(t, m2.Close())
}

func TestSetDSCPOnBoundSocket(t *testing.T) {
	sock, err := Bind(&net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer sock.Close()

	require.NoError(t, sock.SetDSCP(46))
}
