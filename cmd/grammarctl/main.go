// grammarctl is the administration tool of grammarfab.
//
// It shares the config file with grammard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(defaultEnv())
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
