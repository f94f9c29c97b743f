package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/riot"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var (
	// fetchWeeks overrides the configured lookback for the history walk.
	fetchWeeks int
	// fetchNoTimelines skips timeline downloads.
	fetchNoTimelines bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <name#tag> [<name#tag>...]",
	Short: "Download ranked matches and timelines from the Riot API",
	Long: `Resolves each Riot id, walks its ranked solo/duo history back to the start of
the lookback window and stores every match and timeline not already present.
Requires RIOT_API_KEY (or ~/.lolmetrics/riot_api_key). RIOT_REGION selects the
regional route (americas, europe, asia, sea).

Examples:
  lolmetrics fetch "Faker#KR1"
  lolmetrics fetch "Someone#EUW" "Duo#EUW" --weeks 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchWeeks, "weeks", 0, "lookback in weeks (default: LOLMETRICS_WEEKS or 4)")
	fetchCmd.Flags().BoolVar(&fetchNoTimelines, "no-timelines", false,
		"store match records only (stats needs a timeline for every match; fetch again without this flag first)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	key, err := cfg.RiotKey()
	if err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	window := aggregator.NewOptions(time.Now())
	window.Weeks = cfg.Weeks
	if fetchWeeks > 0 {
		window.Weeks = fetchWeeks
	}
	if fetchNoTimelines {
		log.Warn("--no-timelines: stats, compare and breakdown fail for these players until their timelines are fetched")
	}

	f := &fetcher{
		db:     db,
		client: riot.NewClient(key, cfg.Region),
		// Players fetched together often share games.
		visited:   bloom.NewWithEstimates(10000, 0.001),
		timelines: !fetchNoTimelines,
	}
	for _, arg := range args {
		if err := f.player(cmd.Context(), arg, window.Since()); err != nil {
			return err
		}
	}
	fmt.Printf("\nDone: %d matches, %d timelines stored\n", f.storedMatches, f.storedTimelines)
	return nil
}

type fetcher struct {
	db        *storage.DB
	client    *riot.Client
	visited   *bloom.BloomFilter
	timelines bool

	storedMatches   int
	storedTimelines int
}

func (f *fetcher) player(ctx context.Context, riotID string, since time.Time) error {
	name, tag, ok := strings.Cut(riotID, "#")
	if !ok || name == "" || tag == "" {
		return fmt.Errorf("%q: want a Riot id like name#tag", riotID)
	}
	acc, err := f.client.AccountByRiotID(ctx, name, tag)
	if err != nil {
		if riot.IsNotFound(err) {
			return fmt.Errorf("riot id %q does not exist", riotID)
		}
		return fmt.Errorf("lookup %q: %w", riotID, err)
	}
	if err := f.db.UpsertAccount(*acc); err != nil {
		return fmt.Errorf("store account: %w", err)
	}
	fmt.Printf("Player: %s  puuid=%s…\n", acc.RiotID(), acc.PUUID[:min(8, len(acc.PUUID))])

	ids, err := f.client.MatchIDsSince(ctx, acc.PUUID, since)
	if err != nil {
		return fmt.Errorf("match history: %w", err)
	}
	log.WithFields(log.Fields{"player": acc.RiotID(), "ids": len(ids)}).Info("match history")
	return f.matches(ctx, ids)
}

// matches stores every id not yet visited in this run. An id is marked
// visited only once it is fully stored, so a failed id is retried when
// another player's history contains it.
func (f *fetcher) matches(ctx context.Context, ids []string) error {
	for i, id := range ids {
		log.WithField("progress", fmt.Sprintf("%.0f%%", 100*float64(i+1)/float64(len(ids)))).Debug(id)
		// A false positive only defers the match to the next run.
		if f.visited.TestString(id) {
			continue
		}
		if err := f.match(ctx, id); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(os.Stderr, "  [skip] %s: %v\n", id, err)
			continue
		}
		f.visited.AddString(id)
	}
	return nil
}

// match stores the match and its timeline unless already present.
func (f *fetcher) match(ctx context.Context, id string) error {
	have, err := f.db.MatchExists(id)
	if err != nil {
		return err
	}
	if !have {
		m, err := f.client.Match(ctx, id)
		if err != nil {
			return err
		}
		if err := f.db.InsertMatch(m); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		f.storedMatches++
		fmt.Printf("  match     %s  %s  %s\n", id, m.Info.GameMode, m.Info.StartTime().Format("2006-01-02 15:04"))
	}

	if !f.timelines {
		return nil
	}
	have, err = f.db.TimelineExists(id)
	if err != nil || have {
		return err
	}
	tl, err := f.client.Timeline(ctx, id)
	if err != nil {
		return fmt.Errorf("timeline: %w", err)
	}
	if err := f.db.InsertTimeline(tl); err != nil {
		return fmt.Errorf("insert timeline: %w", err)
	}
	f.storedTimelines++
	return nil
}
