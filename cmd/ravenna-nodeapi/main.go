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

// ravenna-nodeapi serves the NMOS IS-04 Node API self endpoint for a
// RAVENNA/AES67 node, so the resource model and chi wire contract can be
// exercised against a real HTTP client before a full Node/Device/Sender
// registration surface is built on top of it.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soundondigital/ravennakit/nmos"
)

var (
	flagListen      string
	flagLabel       string
	flagDescription string
	flagHref        string
)

var rootCmd = &cobra.Command{
	Use:   "ravenna-nodeapi",
	Short: "Serves the NMOS IS-04 Node API self endpoint",
	RunE:  runNodeAPI,
}

func init() {
	rootCmd.Flags().StringVar(&flagListen, "listen", ":8080", "address to serve the Node API on")
	rootCmd.Flags().StringVar(&flagLabel, "label", "ravennakit-node", "label advertised in the self resource")
	rootCmd.Flags().StringVar(&flagDescription, "description", "RavennaKit NMOS node", "description advertised in the self resource")
	rootCmd.Flags().StringVar(&flagHref, "href", "", "href advertised in the self resource (defaults to http://<listen>/)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runNodeAPI(cmd *cobra.Command, args []string) error {
	nodeID := uuid.New()
	self := nmos.NewSelf(nodeID, flagLabel, flagDescription)

	href := flagHref
	if href == "" {
		href = "http://" + flagListen + "/"
	}
	self.Href = href
	self.API.Versions = []string{nmos.V1_2.String(), nmos.V1_3.String()}
	self.API.Endpoints = []nmos.Endpoint{{Host: hostOf(flagListen), Port: portOf(flagListen), Protocol: "http"}}

	router := chi.NewRouter()
	nmos.RegisterNodeAPI(router, []nmos.APIVersion{nmos.V1_2, nmos.V1_3}, func() nmos.Self {
		return self
	})

	server := &http.Server{Addr: flagListen, Handler: router}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	log.Infof("ravenna-nodeapi: node %s serving self on %s", nodeID, flagListen)

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("ravenna-nodeapi: %w", err)
		}
		return nil
	}
}

func hostOf(listen string) string {
	host, _, err := net.SplitHostPort(listen)
	if err != nil || host == "" {
		return "0.0.0.0"
	}
	return host
}

func portOf(listen string) uint16 {
	_, port, err := net.SplitHostPort(listen)
	if err != nil {
		return 0
	}
	var p uint16
	_, _ = fmt.Sscanf(port, "%d", &p)
	return p
}
