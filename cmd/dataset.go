package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/storage"
)

// filterFlags are shared by the commands that compute statistics.
type filterFlags struct {
	role     string
	champion string
}

// options builds engine options from the config and the filter flags.
func (f filterFlags) options(now time.Time) (aggregator.Options, error) {
	opts := aggregator.NewOptions(now)
	opts.Champion = f.champion
	if cfg != nil {
		opts.Weeks = cfg.Weeks
		opts.MinDuration = cfg.MinDuration
	}
	if f.role != "" {
		r, ok := model.ParseRole(f.role)
		if !ok {
			return opts, fmt.Errorf("unknown role %q: want top, jungle, mid, bot or support", f.role)
		}
		opts.Role = &r
	}
	return opts, nil
}

// resolvePlayer maps "name#tag" or a puuid to a stored account.
func resolvePlayer(db *storage.DB, query string) (*model.Account, error) {
	acc, err := db.ResolveAccount(query)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", query, err)
	}
	if acc == nil {
		return nil, fmt.Errorf("player %q not found: import or fetch their matches first", query)
	}
	return acc, nil
}

// loadDataset reads every stored match and timeline of the player inside the
// lookback window.
func loadDataset(db *storage.DB, puuid string, opts aggregator.Options) (aggregator.Dataset, error) {
	matches, err := db.PlayerMatches(puuid, opts.Since())
	if err != nil {
		return aggregator.Dataset{}, fmt.Errorf("load matches: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for id := range matches {
		ids = append(ids, id)
	}
	timelines, err := db.Timelines(ids)
	if err != nil {
		return aggregator.Dataset{}, fmt.Errorf("load timelines: %w", err)
	}
	return aggregator.Dataset{PUUID: puuid, Matches: matches, Timelines: timelines}, nil
}

// playerStats resolves the player and runs the weekly aggregation.
func playerStats(db *storage.DB, query string, f filterFlags) (*model.Account, []*model.GroupStats, error) {
	acc, err := resolvePlayer(db, query)
	if err != nil {
		return nil, nil, err
	}
	opts, err := f.options(time.Now())
	if err != nil {
		return nil, nil, err
	}
	ds, err := loadDataset(db, acc.PUUID, opts)
	if err != nil {
		return nil, nil, err
	}
	groups, err := aggregator.CalcStats(ds, opts)
	if err != nil {
		return nil, nil, explainEngineError(acc, err)
	}
	return acc, groups, nil
}

func explainEngineError(acc *model.Account, err error) error {
	if errors.Is(err, aggregator.ErrNoMatches) {
		return fmt.Errorf("%s: no qualifying games in the lookback window", acc.RiotID())
	}
	var me *aggregator.MatchError
	if errors.As(err, &me) {
		return fmt.Errorf("%s: %w (re-import or fetch the match to repair it)", acc.RiotID(), err)
	}
	return err
}
