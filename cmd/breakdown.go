package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var (
	breakdownFilter filterFlags
	breakdownEnemy  bool
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <name#tag|puuid>",
	Short: "Per role and champion statistics over the lookback window",
	Long: `Lists one row per (role, champion played), most played first. With --enemy
the rows are per (role, lane opponent champion) instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

func init() {
	addFilterFlags(breakdownCmd, &breakdownFilter)
	breakdownCmd.Flags().BoolVar(&breakdownEnemy, "enemy", false, "group by lane opponent instead of own champion")
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	acc, err := resolvePlayer(db, args[0])
	if err != nil {
		return err
	}
	opts, err := breakdownFilter.options(time.Now())
	if err != nil {
		return err
	}
	ds, err := loadDataset(db, acc.PUUID, opts)
	if err != nil {
		return err
	}
	champions, enemies, err := aggregator.Breakdowns(ds, opts)
	if err != nil {
		return explainEngineError(acc, err)
	}

	fmt.Fprintf(os.Stdout, "\n=== %s ===\n\n", acc.RiotID())
	if breakdownEnemy {
		report.PrintBreakdown(os.Stdout, "ENEMY", enemies)
	} else {
		report.PrintBreakdown(os.Stdout, "CHAMPION", champions)
	}
	return nil
}
