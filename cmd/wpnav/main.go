package main

import (
	"os"

	"github.com/mossgarden/wpnav/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
