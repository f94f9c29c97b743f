package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var compareFilter filterFlags

var compareCmd = &cobra.Command{
	Use:   "compare <player1> <player2>",
	Short: "Head-to-head statistics of two players",
	Long: `Computes the weekly statistics of both players and shows player1 against
player2 for every period both have games in. Deltas are player1 - player2.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	addFilterFlags(compareCmd, &compareFilter)
}

func runCompare(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	accA, a, err := playerStats(db, args[0], compareFilter)
	if err != nil {
		return err
	}
	accB, b, err := playerStats(db, args[1], compareFilter)
	if err != nil {
		return err
	}

	aggregator.CompareGroups(a, b)
	report.PrintHeadToHead(os.Stdout, accA.GameName, accB.GameName, a, b)
	return nil
}
