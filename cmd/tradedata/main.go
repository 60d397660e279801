package main

import (
	"os"

	"github.com/rustyeddy/tradedata/cmd/tradedata/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
