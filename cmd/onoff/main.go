// Command onoff records hourly counters as base-N digits and reconstructs
// the messages they spell.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/onoff/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
