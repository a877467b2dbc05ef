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

// ravenna-rtpreceiver joins a RAVENNA/AES67 multicast audio stream and
// logs the RTP header of every packet it receives, so a single socket
// and queue can be exercised against a live network before wiring them
// into a full audio pipeline.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soundondigital/ravennakit/rtp"
	"github.com/soundondigital/ravennakit/rtp/netio"
)

var (
	flagIface     string
	flagGroup     string
	flagPort      uint16
	flagSources   []string
	flagQueueSize int
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "ravenna-rtpreceiver",
	Short: "Joins a RAVENNA/AES67 multicast stream and logs received RTP headers",
	RunE:  runReceiver,
}

func init() {
	rootCmd.Flags().StringVar(&flagIface, "iface", "", "network interface to join the multicast group on (required)")
	rootCmd.Flags().StringVar(&flagGroup, "group", "", "multicast group address to join (required)")
	rootCmd.Flags().Uint16Var(&flagPort, "port", 5004, "RTP destination port")
	rootCmd.Flags().StringSliceVar(&flagSources, "source", nil, "restrict to these source addresses (repeatable); empty accepts any source")
	rootCmd.Flags().IntVar(&flagQueueSize, "queue", 64, "number of packets buffered between the socket and the reader loop")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	_ = rootCmd.MarkFlagRequired("iface")
	_ = rootCmd.MarkFlagRequired("group")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runReceiver(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		log.SetLevel(log.DebugLevel)
	}

	iface, err := net.InterfaceByName(flagIface)
	if err != nil {
		return fmt.Errorf("ravenna-rtpreceiver: %w", err)
	}

	group := net.ParseIP(flagGroup)
	if group == nil {
		return fmt.Errorf("ravenna-rtpreceiver: invalid multicast group %q", flagGroup)
	}

	var sourceFilter []net.IP
	for _, s := range flagSources {
		ip := net.ParseIP(s)
		if ip == nil {
			return fmt.Errorf("ravenna-rtpreceiver: invalid source address %q", s)
		}
		sourceFilter = append(sourceFilter, ip)
	}

	sock, err := netio.Bind(&net.UDPAddr{Port: int(flagPort)})
	if err != nil {
		return fmt.Errorf("ravenna-rtpreceiver: binding socket: %w", err)
	}
	defer sock.Close()

	membership, err := sock.Join(group, iface)
	if err != nil {
		return fmt.Errorf("ravenna-rtpreceiver: joining %s on %s: %w", flagGroup, flagIface, err)
	}
	defer membership.Close()

	session := rtp.Session{Addr: group, RTPPort: flagPort}
	reader := rtp.NewReader([]rtp.Session{session}, sourceFilter, flagQueueSize)

	receiver := rtp.NewReceiver()
	receiver.AddReader(reader)
	defer receiver.RemoveReader(reader)

	log.Infof("ravenna-rtpreceiver: joined %s:%d on %s", flagGroup, flagPort, flagIface)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- sock.Start(ctx, receiver.Dispatch, rtp.MaxPacketSize) }()

	go func() {
		_ = reader.Run(ctx, func(view rtp.PacketView) {
			hdr, err := view.ParseHeader()
			if err != nil {
				log.Debugf("ravenna-rtpreceiver: malformed packet: %v", err)
				return
			}
			log.Infof("ravenna-rtpreceiver: seq=%d ts=%d ssrc=%#x pt=%d marker=%v dropped=%d",
				hdr.SequenceNumber, hdr.Timestamp, hdr.SSRC, hdr.PayloadType, hdr.Marker, reader.Dropped())
		})
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("ravenna-rtpreceiver: socket loop: %w", err)
		}
		return nil
	}
}
