package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/olyox/partner-cli/internal/client/api"
	"github.com/olyox/partner-cli/internal/client/cli"
	"github.com/olyox/partner-cli/internal/client/iocli"
	"github.com/olyox/partner-cli/internal/client/login"
	"github.com/olyox/partner-cli/internal/client/registration"
	"github.com/olyox/partner-cli/internal/client/securestore"
	"github.com/olyox/partner-cli/internal/client/session"
	"github.com/olyox/partner-cli/internal/client/storage/boltdb"
	"github.com/olyox/partner-cli/internal/crypto"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	defaultWebAPI = "https://www.webapi.olyox.com"
	defaultAppAPI = "https://appapi.olyox.com"
)

func main() {
	// .env is optional; real env vars win over file values
	_ = godotenv.Load()

	showVersion := flag.Bool("version", false, "Show version information")
	webAPI := flag.String("web-api", envOr("OLYOX_WEB_API", defaultWebAPI), "Web API base URL")
	appAPI := flag.String("app-api", envOr("OLYOX_APP_API", defaultAppAPI), "App API base URL")
	dbPath := flag.String("db", envOr("OLYOX_DB", "partner-client.db"), "Path to local database")
	keyPath := flag.String("key", envOr("OLYOX_KEY", "partner-device.key"), "Path to device key file")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	io := iocli.NewStdio()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(io)
		os.Exit(1)
	}

	command := args[0]
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	key, err := crypto.LoadOrCreateKeyFile(*keyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load device key: %v\n", err)
		os.Exit(1)
	}
	store, err := securestore.New(boltStorage, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init token store: %v\n", err)
		os.Exit(1)
	}

	apiClient := api.NewClient(*webAPI, *appAPI)
	deviceID := uuid.NewString()
	apiClient.SetDeviceID(deviceID)

	sess := session.NewManager(store, session.NewFetcher(apiClient, logger), logger)
	sess.SetNodeID(deviceID)

	reg := registration.NewService(apiClient, registration.NewValidator(nil), logger)
	log := login.NewService(apiClient, sess, logger)

	app := cli.New(io, apiClient, sess, reg, log, logger)
	if err := app.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printVersion() {
	fmt.Printf("Olyox Partner Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
