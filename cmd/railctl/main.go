package main

import (
	"fmt"
	"log"
	"os"

	"railctl/internal/cli"
)

func main() {
	log.SetFlags(0)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
