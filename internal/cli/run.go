// Package cli implements the sitecms command line: the serve command plus
// admin utilities for API keys and redirect rules.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/craftline/sitecms/internal/config"
	ilog "github.com/craftline/sitecms/internal/log"
	"github.com/craftline/sitecms/internal/server"
	"github.com/craftline/sitecms/internal/store/sqlite"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Run is the main CLI entry point. It parses args and dispatches to the
// appropriate subcommand, returning a process exit code.
func Run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch args[0] {
	case "serve":
		return runServe(ctx, args[1:])
	case "apikey":
		return runAPIKeyAdmin(ctx, args[1:])
	case "redirect":
		return runRedirectAdmin(ctx, args[1:])
	case "version", "--version", "-v":
		fmt.Println("sitecms", Version)
		return 0
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintln(os.Stderr, "unknown command:", args[0])
		printUsage()
		return 2
	}
}

func runServe(ctx context.Context, args []string) int {
	cfg, err := config.ParseServeFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve config error:", err)
		return 2
	}
	logger := ilog.New(cfg.LogLevel, cfg.LogFormat)

	site, err := config.LoadSite(cfg.SitePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "site profile error:", err)
		return 2
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db error:", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	pepper, err := store.ResolveServerPepper(ctx, cfg.APIKeyPepper)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve config error:", err)
		return 2
	}
	cfg.APIKeyPepper = pepper

	s := server.New(cfg, site, store, logger)
	if err := s.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "server error:", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println(`sitecms - marketing site server and CMS

Usage:
  sitecms serve [flags]
  sitecms apikey create [flags]
  sitecms apikey list [flags]
  sitecms apikey revoke --id <id> [flags]
  sitecms redirect add --from <path> --to <path|url> [flags]
  sitecms redirect list [flags]
  sitecms redirect rm --id <id> [flags]
  sitecms version`)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
