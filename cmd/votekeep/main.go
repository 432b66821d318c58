package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/votekeep/votekeep/internal/app"
	"github.com/votekeep/votekeep/internal/auth"
	"github.com/votekeep/votekeep/internal/logger"
	"github.com/votekeep/votekeep/pkg/identity"
)

var (
	version = "dev"
)

func main() {
	port := flag.Int("port", 8081, "HTTP server port")
	dbPath := flag.String("db", "votekeep.db", "SQLite database path")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	identityURL := flag.String("identity-url", "", "External identity provider URL (access codes resolved locally if not set)")
	sweepInterval := flag.Duration("sweep-interval", 30*time.Second, "Election status sweep interval (0 disables the sweep)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `VoteKeep - Election Management Server

Usage:
  votekeep [options]

Options:
  -port int            HTTP server port (default 8081)
  -db string           SQLite database path (default "votekeep.db")
  -adminpw str         Admin password (auto-generated if not set)
  -loglevel str        Log level: debug, info, warn, error (default "info")
  -identity-url str    External identity provider URL
  -sweep-interval dur  Status sweep interval (default 30s, 0 disables)
  -version             Show version and exit
  -help                Show this help message

Examples:
  votekeep                                  # Run on port 8081 with votekeep.db
  votekeep -port 8080                       # Run on port 8080
  votekeep -db /data/elections.db           # Use custom database path
  votekeep -adminpw secret123               # Use specific admin password
  votekeep -identity-url http://idp:9000    # Resolve voter tokens externally

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("votekeep %s\n", version)
		os.Exit(0)
	}

	// Setup admin authentication
	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	// Create logger with specified level
	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	opts := app.Options{
		DBPath:        *dbPath,
		SweepInterval: *sweepInterval,
	}
	if *identityURL != "" {
		opts.Identity = identity.NewHTTPClient(*identityURL)
	}

	a, err := app.New(appLog, opts, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Admin password", "password", password)

	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
