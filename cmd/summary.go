package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all matches stored in the database:
match and timeline counts, date range, game mode breakdown and the most
frequently seen players.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	nMatches, nTimelines, nAccounts, err := db.Counts()
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if nMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'lolmetrics import <dir>' or 'lolmetrics fetch <name#tag>' to add some.")
		return nil
	}
	matches, err := db.ListMatches("")
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	// ListMatches is newest first.
	latest, earliest := matches[0].StartedAt, matches[len(matches)-1].StartedAt
	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored   : %d\n", nMatches)
	fmt.Fprintf(os.Stdout, "  With timeline    : %d\n", nTimelines)
	fmt.Fprintf(os.Stdout, "  Known accounts   : %d\n", nAccounts)
	fmt.Fprintf(os.Stdout, "  Date range       : %s → %s\n", earliest.Format("2006-01-02"), latest.Format("2006-01-02"))

	type modeCount struct {
		mode    string
		queue   int
		matches int
	}
	type modeKey struct {
		mode  string
		queue int
	}
	counts := make(map[modeKey]*modeCount)
	for _, m := range matches {
		key := modeKey{m.GameMode, m.QueueID}
		if counts[key] == nil {
			counts[key] = &modeCount{mode: m.GameMode, queue: m.QueueID}
		}
		counts[key].matches++
	}
	modes := make([]*modeCount, 0, len(counts))
	for _, c := range counts {
		modes = append(modes, c)
	}
	sort.Slice(modes, func(i, j int) bool {
		if modes[i].matches != modes[j].matches {
			return modes[i].matches > modes[j].matches
		}
		return modes[i].queue < modes[j].queue
	})

	fmt.Fprintf(os.Stdout, "\n--- Game Modes ---\n\n")
	mt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	mt.Header("MODE", "QUEUE", "MATCHES")
	for _, c := range modes {
		mt.Append(c.mode, fmt.Sprintf("%d", c.queue), fmt.Sprintf("%d", c.matches))
	}
	mt.Render()

	players, err := db.PlayerSummaries()
	if err != nil {
		return fmt.Errorf("player summaries: %w", err)
	}
	if len(players) > 10 {
		players = players[:10]
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Active Players ---\n\n")
	report.PrintPlayerSummaries(os.Stdout, players)
	return nil
}
