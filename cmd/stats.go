package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var (
	statsFilter  filterFlags
	statsHeatmap bool
	statsGroup   string
)

var statsCmd = &cobra.Command{
	Use:   "stats <name#tag|puuid>",
	Short: "Weekly statistics with week-over-week deltas",
	Long: `Computes one statistics block per elapsed week of the lookback window plus a
Total block. Week deltas are against the preceding week.

Examples:
  lolmetrics stats "Someone#EUW"
  lolmetrics stats "Someone#EUW" --role jungle --champion "Lee Sin"`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	addFilterFlags(statsCmd, &statsFilter)
	statsCmd.Flags().BoolVar(&statsHeatmap, "heatmap", false, "list heatmap records")
	statsCmd.Flags().StringVar(&statsGroup, "group", "total", "group id for the detail tables (week1..weekN, total)")
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVar(&f.role, "role", "", "only games in this role (top, jungle, mid, bot, support)")
	cmd.Flags().StringVar(&f.champion, "champion", "", "only games on this champion")
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	acc, groups, err := playerStats(db, args[0], statsFilter)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n=== %s ===\n\n", acc.RiotID())
	report.PrintGroups(os.Stdout, groups)

	var detail = groups[len(groups)-1]
	for _, g := range groups {
		if g.ID == statsGroup {
			detail = g
		}
	}

	fmt.Fprintf(os.Stdout, "\n--- Lane checkpoints: %s ---\n\n", detail.Title)
	report.PrintCheckpoints(os.Stdout, detail)
	fmt.Fprintf(os.Stdout, "\n--- Legendary items: %s ---\n\n", detail.Title)
	report.PrintLegendaryBuys(os.Stdout, detail)
	if statsHeatmap {
		fmt.Fprintf(os.Stdout, "\n--- Heatmap: %s ---\n\n", detail.Title)
		report.PrintHeatmap(os.Stdout, detail)
	}
	return nil
}
