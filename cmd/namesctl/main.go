// Command namesctl prints baby-name reports from the SSA archive.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/babynames/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("namesctl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
