package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coinpulse",
	Short: "CoinPulse - crypto momentum scanner and portfolio simulator",
	Long: `CoinPulse Unified CLI

Scores cryptocurrencies by fusing technical and fundamental analysis
into a 0-100 momentum score, then builds simulated portfolios from
the ranked output.

Usage:
  go run ./cmd/coinpulse [command]

Examples:
  go run ./cmd/coinpulse api
  go run ./cmd/coinpulse scan --limit 20
  go run ./cmd/coinpulse analyze bitcoin
  go run ./cmd/coinpulse portfolio --risk-profile high`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
