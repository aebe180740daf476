package main

import (
	"context"
	"fmt"
	"os"

	"app-time-tracker/internal/cli"
)

func main() {
	root := cli.NewRootCommand(openAPI)

	if err := root.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
