package main

import (
	"os"

	"github.com/scolarite/affect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
