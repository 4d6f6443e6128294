package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/coinpulse/internal/contracts"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a one-shot market scan",
	Long: `Scans the market, scores each asset and prints the ranked result.

Example:
  go run ./cmd/coinpulse scan
  go run ./cmd/coinpulse scan --limit 20 --min-momentum 60
  go run ./cmd/coinpulse scan --sort volume --signals "STRONG BUY,BUY"`,
	RunE: runScan,
}

var (
	scanLimit       int
	scanMinMomentum int
	scanMinVolume   float64
	scanSortBy      string
	scanSignals     []string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanLimit, "limit", 50, "maximum assets to return")
	scanCmd.Flags().IntVar(&scanMinMomentum, "min-momentum", 0, "minimum momentum score (0-100)")
	scanCmd.Flags().Float64Var(&scanMinVolume, "min-volume", 0, "minimum 24h volume in USD")
	scanCmd.Flags().StringVar(&scanSortBy, "sort", "momentum", "sort key (momentum|price_change|volume|market_cap)")
	scanCmd.Flags().StringSliceVar(&scanSignals, "signals", nil, "allowed trade signals")
}

func runScan(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	filters := contracts.ScanFilters{
		MinVolume:        scanMinVolume,
		MinMomentumScore: scanMinMomentum,
		SortBy:           contracts.SortKey(scanSortBy),
		Limit:            scanLimit,
	}
	for _, s := range scanSignals {
		filters.Signals = append(filters.Signals, contracts.TradeSignal(s))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	results, err := rt.scanner.Scan(ctx, filters)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Market Scan")
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  %-4s %-10s %6s %6s %-12s %-7s %5s\n",
		"#", "SYMBOL", "SCORE", "GRADE", "SIGNAL", "RISK", "x")
	fmt.Println("───────────────────────────────────────────────────────────")

	for i, asset := range results {
		fmt.Printf("  %-4d %-10s %6d %6s %-12s %-7s %5.1f\n",
			i+1,
			asset.Symbol,
			asset.MomentumScore.OverallScore,
			asset.MomentumScore.Grade,
			asset.MomentumScore.Signal,
			asset.MomentumScore.RiskLevel,
			asset.MomentumScore.PotentialMultiplier,
		)
	}

	fmt.Println()
	fmt.Printf("✅ Scanned %d assets in %.2fs\n", len(results), time.Since(start).Seconds())
	return nil
}
