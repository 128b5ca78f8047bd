package main

import (
	"fmt"
	"os"

	"github.com/fortlab/flint/cmd/flint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
