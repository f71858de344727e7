// Package main provides the export freshness monitor command-line tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"exportmonitor/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
