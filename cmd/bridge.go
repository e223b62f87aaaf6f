// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hearthworks/hearth/pkg/gateway"
)

// bridgeInterval paces snapshot publication to subscribers.
const bridgeInterval = time.Second

// stateBridge streams CBOR-encoded controller snapshots to WebSocket
// subscribers. Read-only: the gateway's canonical state is never
// writable from here (state changes go through the Imp or the panel).
type stateBridge struct {
	snapshot func() gateway.Snapshot
	log      *zap.SugaredLogger

	upgrader websocket.Upgrader
}

// ListenAndServe serves /state until the context is cancelled.
func (b *stateBridge) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", b.handleState)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	b.log.Infow("state bridge listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (b *stateBridge) handleState(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warnw("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	b.log.Debugw("state subscriber connected", "remote", conn.RemoteAddr())

	// Read pump: discard inbound messages, notice the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(bridgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			data, err := cbor.Marshal(b.snapshot())
			if err != nil {
				b.log.Errorw("snapshot encode failed", "err", err)
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}
