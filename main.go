package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/wallacegibbon/stopgate/internal/app"
	"github.com/wallacegibbon/stopgate/internal/config"
	"github.com/wallacegibbon/stopgate/internal/run"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(run.ExitBlock)
	}

	if cfg.ShowVersion {
		fmt.Printf("stopgate version %s\n", config.Version)
		os.Exit(0)
	}

	if cfg.ShowHelp {
		printHelp()
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run.GateHook(ctx, app.Options{Dir: cfg.Dir, DebugAPI: cfg.DebugAPI}, os.Stderr)
	cancel()
	os.Exit(code)
}

func printHelp() {
	fmt.Print(`stopgate - quality gate for an AI assistant's stop hook

Usage:
  stopgate             Check the project in the current directory

Checks, in order (every failure is reported, not just the first):
  1. No uncommitted changes
  2. build, test, lint, format and static analysis commands from .planconfig
  3. Verification agent review of the in-progress task against the diff

Exit codes:
  0  allow stop
  2  block stop; the report is written to stderr

Flags:
  -dir string         Project directory to check (default ".")
  -debug-api          Log raw API requests and responses
  -version            Show version information
  -help               Show help information

Environment:
  ANTHROPIC_API_KEY   Credential for the verification agent (skipped when unset)
  OPENAI_API_KEY      Credential when STOPGATE_PROVIDER=openai
  STOPGATE_PROVIDER   anthropic (default) or openai
  STOPGATE_BASE_URL   API endpoint override
  STOPGATE_MODEL      Model name (default claude-sonnet-4-20250514)
  STOPGATE_LOG_FILE   Write a JSON log here
`)
}
