package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/studydeck/studydeck/internal/config"
	"github.com/studydeck/studydeck/internal/service"
	"github.com/studydeck/studydeck/internal/storage"
	"github.com/studydeck/studydeck/internal/sync"
	"github.com/studydeck/studydeck/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("studydeck", pflag.ExitOnError)
	configPath := flags.String("config", "studydeck.yaml", "Path to the config file")
	flags.String("addr", "", "Address to serve the API on")
	flags.String("db_path", "", "Path to the sqlite database file")
	flags.String("repos_dir", "", "Directory for git source checkouts")
	addSource := flags.String("add-source", "", "Register a note source (directory or git URL) and exit")
	syncOnly := flags.Bool("sync", false, "Sync all note sources and exit")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	svc := service.New(db, nil, nil, nil)
	syncer := sync.NewRunner(db, svc, cfg.ReposDir)

	if *addSource != "" {
		sourceType := sync.SourceType(*addSource)
		id, err := db.InsertSource(*addSource, sourceType)
		if err != nil {
			slog.Error("failed to add source", "path", *addSource, "error", err)
			os.Exit(1)
		}
		slog.Info("source added", "id", id, "type", sourceType, "path", *addSource)
		return
	}

	if *syncOnly {
		if err := syncer.Run(); err != nil {
			slog.Error("sync failed", "error", err)
			os.Exit(1)
		}
		return
	}

	server := web.NewServer(svc, db, syncer, nil)
	slog.Info("serving API", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
