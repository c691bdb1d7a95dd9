package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/garyjia/lic-claimdesk/internal/application/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		msg, _ := service.UserMessage(err)
		fmt.Fprintln(os.Stderr, msg)
		stop()
		os.Exit(1)
	}
}
