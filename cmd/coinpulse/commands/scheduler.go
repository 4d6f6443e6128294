package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/coinpulse/internal/scheduler"
	"github.com/wonny/coinpulse/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the cache-warming scheduler",
	Long: `Runs the background scheduler that keeps scan results, trending
coins and global market stats warm in the cache.

Jobs:
  scan_cache_warm  - every 2 minutes
  market_pulse     - every 5 minutes

Example:
  go run ./cmd/coinpulse scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CoinPulse Scheduler ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	sched := scheduler.New(rt.log)

	if err := sched.AddJob(jobs.NewScanWarmJob(rt.scanner, rt.log)); err != nil {
		return fmt.Errorf("add scan warm job: %w", err)
	}
	if err := sched.AddJob(jobs.NewMarketPulseJob(rt.gecko, rt.log)); err != nil {
		return fmt.Errorf("add market pulse job: %w", err)
	}

	sched.Start()

	// Warm the cache immediately instead of waiting for the first tick
	_ = sched.RunJob("scan_cache_warm")

	fmt.Println("\n✅ Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
