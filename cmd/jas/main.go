package main

import (
	"fmt"
	"os"

	"github.com/sepcon/go-jas/cmd/jas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
