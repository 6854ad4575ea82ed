package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eringen/cleanblog"
	"github.com/eringen/cleanblog/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("cleanblog %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	log := cleanblog.SetupLogging(cfg.Logging())

	app := cleanblog.New(cfg.Site(), views.Funcs(),
		cleanblog.WithLogger(log),
		cleanblog.WithStaticDir(cfg.StaticDir),
	)
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Error("close app")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("version", version).Info("starting cleanblog")
	return app.Start(ctx)
}

func printUsage() {
	fmt.Println(`cleanblog - a small multi-author blog built with Go, Echo, and gorm

Usage:
  cleanblog [serve]    Start the web server (default)
  cleanblog version    Print version
  cleanblog help       Show this help

Configuration is read from the environment, an optional .env file and an
optional config.yml. See SECRET_KEY, DATABASE_URL, ADDR and SITE_*.`)
}
