package main

import (
	"fmt"
	"os"

	"tasks-api/internal/cli"
)

func main() {
	root := cli.NewRootCommand(cli.DefaultAPIFactory)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
