package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"foodorder/internal/app"
)

func main() {
	application, err := app.NewFromEnv()
	if err != nil {
		// Bad configuration is reported like any other failure; the exit
		// status stays 0.
		fmt.Println(err)
		return
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application.Run(ctx)
}
