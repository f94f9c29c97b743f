package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list [name#tag|puuid]",
	Short: "List stored matches, optionally for one player",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var puuid string
	if len(args) == 1 {
		acc, err := resolvePlayer(db, args[0])
		if err != nil {
			return err
		}
		puuid = acc.PUUID
	}

	matches, err := db.ListMatches(puuid)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'lolmetrics import <dir>' or 'lolmetrics fetch <name#tag>' to add some.")
		return nil
	}
	printMatchList(matches)
	return nil
}

func printMatchList(matches []model.MatchSummary) {
	fmt.Fprintf(os.Stdout, "%-18s  %-10s  %5s  %-16s  %8s  %s\n",
		"MATCH", "MODE", "QUEUE", "STARTED", "DURATION", "TIMELINE")
	fmt.Fprintf(os.Stdout, "%-18s  %-10s  %5s  %-16s  %8s  %s\n",
		"──────────────────", "──────────", "─────", "────────────────", "────────", "────────")
	for _, m := range matches {
		tl := "no"
		if m.HasTimeline {
			tl = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-18s  %-10s  %5d  %-16s  %8s  %s\n",
			m.MatchID, m.GameMode, m.QueueID, m.StartedAt.Format("2006-01-02 15:04"),
			model.NewDuration(m.Duration).String(), tl)
	}
}

func printMatchHeader(s model.MatchSummary) {
	fmt.Fprintf(os.Stdout, "\nMatch: %s  |  Mode: %s  |  Queue: %d  |  Started: %s  |  Duration: %s\n",
		s.MatchID, s.GameMode, s.QueueID, s.StartedAt.Format("2006-01-02 15:04"),
		model.NewDuration(s.Duration).String())
}
