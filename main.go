package main

import (
	"fmt"
	"os"

	"pscan/api"
	"pscan/cli"
)

func main() {
	// "pscan serve" runs the REST API; anything else is a CLI scan.
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if err := api.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cli.Run()
}
