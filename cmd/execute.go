// Package cmd wires configuration, providers, and the HTTP server into the
// runnable application.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/gastonglz/portfolio-engine/internal/config"
	"github.com/gastonglz/portfolio-engine/internal/log"
)

const usage = `portfolio-engine - conversational retrieval engine for Gaston's portfolio

Usage:
  portfolio-engine [command]

Commands:
  serve       Start the HTTP server (default)
  version     Print version information
  help        Show this help
`

// Execute parses the command line and dispatches. It returns the process exit
// code rather than calling os.Exit so main stays trivial and deferred cleanup
// runs.
func Execute() int {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	case "version":
		fmt.Println(versionString())
		return 0
	case "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		return 2
	}
}

func newLogger(cfg *config.Config) log.Logger {
	logCfg := log.Config{JSON: cfg.LogJSON}
	if cfg.Debug {
		logCfg.Level = slog.LevelDebug
		logCfg.AddSource = true
	}
	return log.New(logCfg)
}
