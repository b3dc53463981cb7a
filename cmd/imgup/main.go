package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	uploadcmder "github.com/papercomputeco/imgup/cmd/imgup/upload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := uploadcmder.NewUploadCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
