package main

import (
	"os"

	"github.com/YvodeRooij/casecoach/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
