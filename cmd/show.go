package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix> <name#tag|puuid>",
	Short: "Show one stored match from a player's point of view",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}
	acc, err := resolvePlayer(db, args[1])
	if err != nil {
		return err
	}

	m, err := db.GetMatch(summary.MatchID)
	if err != nil {
		return fmt.Errorf("load match: %w", err)
	}
	tl, err := db.GetTimeline(summary.MatchID)
	if err != nil {
		return fmt.Errorf("load timeline: %w", err)
	}
	if tl == nil {
		return fmt.Errorf("match %s has no stored timeline", summary.MatchID)
	}

	s, err := aggregator.Extract(m, tl, acc.PUUID)
	if err != nil {
		return fmt.Errorf("match %s: %w", summary.MatchID, err)
	}
	printMatchHeader(*summary)
	report.PrintSample(os.Stdout, s)
	return nil
}
