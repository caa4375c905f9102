// Command lpaplan plans paths over grid costmaps with Lifelong Planning A*.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pdrpinto/lpastar/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
