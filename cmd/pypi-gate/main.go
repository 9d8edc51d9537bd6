package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes: 0 gate passed, 1 gate failed, 2 usage or system error
const (
	exitOK    = 0
	exitFail  = 1
	exitError = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(execute(ctx, os.Args[1:]))
}

func execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var gateErr *gateFailedError
	if errors.As(err, &gateErr) {
		return exitFail
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitError
}
