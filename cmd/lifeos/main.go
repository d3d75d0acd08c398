package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lifeos-proxy/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores := NewStoreFactory(getEnvironment())
	root := cli.NewRootCommand(cli.NewRuntimeFactory(stores.CreateStore))

	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
