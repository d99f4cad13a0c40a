package main

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/asoforge/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()

	root, err := cli.NewRootCmd(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
