// Package main runs the clipboard agent: it watches the OS clipboard,
// uploads changes encrypted, and pulls newer entries from the server.
package main

import (
	"cmp"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/clipsentry/clipsentry/internal/client/agent"
	"github.com/clipsentry/clipsentry/internal/client/api"
	"github.com/clipsentry/clipsentry/internal/client/crypto"
	"github.com/clipsentry/clipsentry/internal/config"
	"github.com/clipsentry/clipsentry/internal/logger"
)

var (
	version   string
	buildDate string
)

func main() {
	options, err := config.ParseAgent(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	key, err := loadKey(options.ContentKey)
	if err != nil {
		zapLogger.Fatal("cannot load content key", zap.Error(err))
	}
	if options.ContentKey == "" {
		zapLogger.Warn("no content key configured; generated a fresh one, remote entries from other devices will not decrypt")
	}

	client := api.New(options.ServerURL, options.AuthToken,
		options.UserID, options.OrgID, options.DeviceID)

	coordinator := agent.NewCoordinator(client, agent.SystemClipboard{}, key, zapLogger, nil,
		options.PollInterval, options.PullInterval, options.EntryTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger.Info("agent started",
		zap.String("server", options.ServerURL),
		zap.String("device", options.DeviceID))
	coordinator.Run(ctx)
	zapLogger.Info("agent stopped")
}

// loadKey decodes a hex-encoded 256-bit key, or generates one when none is
// configured.
func loadKey(hexKey string) (*crypto.Key, error) {
	if hexKey == "" {
		return crypto.GenerateKey()
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("content key is not valid hex: %w", err)
	}
	return crypto.KeyFromBytes(raw)
}
