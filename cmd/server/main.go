// Package main initializes and starts the clipboard sync server, setting up
// configuration, logging, the database, repositories, services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"time"

	nethttp "net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clipsentry/clipsentry/internal/audit"
	"github.com/clipsentry/clipsentry/internal/config"
	"github.com/clipsentry/clipsentry/internal/db"
	"github.com/clipsentry/clipsentry/internal/logger"
	"github.com/clipsentry/clipsentry/internal/repository"
	"github.com/clipsentry/clipsentry/internal/server/handler/http"
	"github.com/clipsentry/clipsentry/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// The audit chain signer refuses an empty secret; fail before touching
	// the database so a misconfigured server never signs anything.
	signer, err := audit.NewSigner([]byte(options.AuditSecret))
	if err != nil {
		zapLogger.Fatal("cannot init audit signer", zap.Error(err))
	}

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	db.StartExpiredEntryCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	entryRepo := repository.NewPostgresEntryRepository(postgresDB)
	auditRepo := repository.NewPostgresAuditRepository(postgresDB)
	ruleRepo := repository.NewPostgresRuleRepository(postgresDB)

	chain := audit.NewChain(signer, auditRepo)
	entryService := service.NewEntryService(entryRepo, chain)
	validationService := service.NewValidationService(ruleRepo, chain, zapLogger)
	auditService := service.NewAuditService(auditRepo, signer)

	validate := validator.New()
	clipboardHandler := &http.ClipboardHandler{EntryService: entryService, Validate: validate}
	pasteHandler := &http.PasteHandler{ValidationService: validationService, Validate: validate}
	auditHandler := &http.AuditHandler{AuditService: auditService}

	router := http.NewRouter(clipboardHandler, pasteHandler, auditHandler, zapLogger, options.AuthToken)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
