package main

import (
	"os"

	"github.com/wonny/coinpulse/cmd/coinpulse/commands"
)

// main is the entry point for the CoinPulse CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
