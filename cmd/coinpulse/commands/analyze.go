package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [asset-id]",
	Short: "Run the detailed analysis for one asset",
	Long: `Fetches OHLC history, community/developer metadata and chart data
for the asset and prints its full indicator and score breakdown.

Example:
  go run ./cmd/coinpulse analyze bitcoin
  go run ./cmd/coinpulse analyze solana`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	id := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	analysis, err := rt.scanner.DetailedAnalysis(ctx, id)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", id, err)
	}

	ms := analysis.MomentumScore
	fa := analysis.FundamentalAnalysis
	ta := analysis.TechnicalIndicators

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s (%s)\n", analysis.Name, analysis.Symbol)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Price      : $%.4f\n", analysis.CurrentPrice)
	fmt.Printf("  Market Cap : $%.0f (rank %d)\n", analysis.MarketCap, analysis.MarketCapRank)
	fmt.Printf("  24h/7d/30d : %.2f%% / %.2f%% / %.2f%%\n",
		analysis.PriceChange24h, analysis.PriceChange7d, analysis.PriceChange30d)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Momentum   : %d (%s, %s)\n", ms.OverallScore, ms.Grade, ms.Signal)
	fmt.Printf("  Technical  : %d   Fundamental: %d\n", ms.TechnicalScore, ms.FundamentalScore)
	fmt.Printf("  Risk       : %s   Confidence : %d   Potential: %.1fx\n",
		ms.RiskLevel, ms.Confidence, ms.PotentialMultiplier)
	fmt.Println("───────────────────────────────────────────────────────────")

	if ta.RSI != nil {
		fmt.Printf("  RSI(14)    : %.1f (%s)\n", *ta.RSI, ta.RSISignal)
	}
	if ta.MACD != nil {
		fmt.Printf("  MACD       : %.4f / signal %.4f / hist %.4f (%s)\n",
			ta.MACD.MACDLine, ta.MACD.SignalLine, ta.MACD.Histogram, ta.MACD.Signal)
	}
	if ta.BollingerBands != nil {
		fmt.Printf("  Bollinger  : %%B %.3f, bandwidth %.3f (%s)\n",
			ta.BollingerBands.PercentB, ta.BollingerBands.Bandwidth, ta.BollingerBands.Signal)
	}
	if ta.Stochastic != nil {
		fmt.Printf("  Stochastic : K %.1f / D %.1f (%s)\n",
			ta.Stochastic.K, ta.Stochastic.D, ta.Stochastic.Signal)
	}
	if ta.ATR != nil {
		fmt.Printf("  ATR(14)    : %.4f\n", *ta.ATR)
	}

	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  FA scores  : mcap %d, community %d, developer %d, sentiment %d, ATH %d\n",
		fa.MarketCapScore, fa.CommunityScore, fa.DeveloperScore, fa.SentimentScore, fa.ATHRecoveryPotential)
	fmt.Printf("  Supply     : circulating ratio %.3f, deflationary %t\n",
		fa.SupplyMetrics.CirculatingRatio, fa.SupplyMetrics.IsDeflationary)
	fmt.Println()

	return nil
}
