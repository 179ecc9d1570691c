package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dwarflabs/git-me/cmd"
	"github.com/dwarflabs/git-me/internal/logs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		logs.Error("CLI error: %v", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
