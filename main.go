// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/danielhkuo/plant-care/auth"
	"github.com/danielhkuo/plant-care/cliparse"
	"github.com/danielhkuo/plant-care/datastore"
	"github.com/danielhkuo/plant-care/db"
	"github.com/danielhkuo/plant-care/handlers"
	"github.com/danielhkuo/plant-care/router"
	"github.com/danielhkuo/plant-care/skill"
	"github.com/danielhkuo/plant-care/store"
	"github.com/danielhkuo/plant-care/telemetry"
)

const userAgent = "plant-care/1.0"

// setupTracing is replaced in tests
var setupTracing = telemetry.Setup

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("plant-care exited", "error", err)
		os.Exit(1)
	}
}

// run serves until interrupted. Every deferred cleanup, tracing shutdown
// included, has run by the time it returns.
func run(args []string) error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	shutdownTracing, err := setupTracing(context.Background(), cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer shutdownTracing(context.Background())

	// Connect to the attributes database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.DatabaseType, err)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// DataStore sync: token fetch is bounded, the push is not unless configured
	tokens := auth.NewTokenClient(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL, cfg.TokenTimeout,
		auth.NewHTTPClient(userAgent, 0))
	pusher := datastore.NewClient(cfg.DataStoreURL, auth.NewHTTPClient(userAgent, cfg.DataStoreTimeout))
	syncer := datastore.NewSyncer(tokens, pusher, cfg.Namespace, cfg.ObjectKey)

	dispatcher := handlers.NewDispatcher(skill.Deps{
		Attributes: store.NewSQLStore(dbConn, cfg.DatabaseType),
		Sync:       syncer,
		Now:        func() time.Time { return time.Now().In(cfg.Location) },
	}, skill.WithUserAgent(userAgent))

	// Create router
	mux := router.NewRouter(dbConn, dispatcher)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ctrlc)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port, "time_zone", cfg.Location.String(), "handlers", dispatcher.Names())
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	slog.Info("Server closed")
	return nil
}
