package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/server"
)

func handleServeCommand(ctx context.Context, _ []string) {
	database, err := openDB(ctx)
	if err != nil {
		PrintError("Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	client, closeCatalog := newCatalog(ctx)
	defer closeCatalog()
	if !client.Configured() {
		logging.Warn("IGDB credentials missing; sheets will use local data only")
	}

	srv := server.New(server.Options{
		DB:          database,
		Catalog:     client,
		SheetTTL:    cfg.GetSheetTTL(),
		CORSOrigins: cfg.GetCORSOrigins(),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.GetPort()
	PrintInfo("gameshelf API\n")
	PrintInfo("   http://localhost%s\n\n", addr)
	logging.Info("http server listening", "addr", addr, "driver", database.Driver())

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		PrintError("Error: server failed: %v\n", err)
		os.Exit(1)
	}
}
