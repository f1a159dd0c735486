// Package main provides the entry point for the cliengo CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/cliengo/internal/cli"
	"github.com/mrz1836/cliengo/internal/signal"
)

//nolint:gochecknoglobals // set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})

	select {
	case <-h.Interrupted():
		return signal.ExitCodeInterrupted
	default:
	}
	return cli.ExitCodeForError(err)
}
