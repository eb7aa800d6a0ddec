// Command sim generates cargo booking traffic against a cargo service.
//
// Usage:
//
//	sim [flags] <file>
//	sim validate-config <file>
//	sim validate-eel <file>
//	sim export-eel --run <id> --out <file>
//
// <file> is tried as an external event log (JSON) first and as a simulation config (YAML) second.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "\U0001F525", err)
		os.Exit(1)
	}
}
