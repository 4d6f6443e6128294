package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/internal/portfolio"
)

// portfolioCmd represents the portfolio command
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Simulate a momentum portfolio",
	Long: `Builds a simulated portfolio of up to five assets from the current
scan and projects its value growth toward a target amount.

Example:
  go run ./cmd/coinpulse portfolio
  go run ./cmd/coinpulse portfolio --initial 500 --target 5000 --risk-profile high`,
	RunE: runPortfolio,
}

var (
	portfolioInitial float64
	portfolioTarget  float64
	portfolioProfile string
)

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().Float64Var(&portfolioInitial, "initial", 100, "initial investment in USD")
	portfolioCmd.Flags().Float64Var(&portfolioTarget, "target", 1000, "target amount in USD")
	portfolioCmd.Flags().StringVar(&portfolioProfile, "risk-profile", "medium", "risk profile (low|medium|high)")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	profile, err := contracts.ParseRiskProfile(portfolioProfile)
	if err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	sim := portfolio.NewSimulator(rt.scanner, rt.log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := sim.Simulate(ctx, portfolioInitial, portfolioTarget, profile)
	if err != nil {
		return fmt.Errorf("portfolio simulation failed: %w", err)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Portfolio Simulation (%s profile)\n", result.RiskProfile)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  %-10s %8s %10s %10s %8s\n", "SYMBOL", "ALLOC", "INVESTED", "PROJECTED", "RETURN")
	fmt.Println("───────────────────────────────────────────────────────────")

	for _, a := range result.Allocations {
		fmt.Printf("  %-10s %7.1f%% %10.2f %10.2f %7.2f%%\n",
			a.Symbol, a.AllocationPercent, a.InvestedAmount, a.ProjectedValue, a.ReturnPercent)
	}

	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Initial    : $%.2f\n", result.InitialInvestment)
	fmt.Printf("  Projected  : $%.2f (%.2f%%)\n", result.CurrentValue, result.TotalReturnPercent)
	fmt.Printf("  Target     : $%.2f in ~%d days\n", result.TargetAmount, result.ProjectedDays)
	fmt.Printf("  Risk score : %d\n", result.RiskScore)
	fmt.Println()

	return nil
}
