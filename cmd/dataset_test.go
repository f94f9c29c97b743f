package cmd

import (
	"testing"
	"time"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/config"
	"github.com/pable/go-lol-metrics/internal/model"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestFilterOptionsDefaults(t *testing.T) {
	withConfig(t, nil)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	opts, err := filterFlags{}.options(now)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Weeks != aggregator.DefaultWeeks || opts.MinDuration != aggregator.DefaultMinDuration {
		t.Errorf("opts = %+v", opts)
	}
	if want := now.Add(-time.Duration(aggregator.DefaultWeeks) * 7 * 24 * time.Hour); !opts.Since().Equal(want) {
		t.Errorf("since = %v, want %v", opts.Since(), want)
	}
}

func TestFilterOptionsFromConfig(t *testing.T) {
	withConfig(t, &config.Config{Weeks: 2, MinDuration: 0})

	opts, err := filterFlags{role: "jungle", champion: "Lee Sin"}.options(time.Now())
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Weeks != 2 {
		t.Errorf("weeks = %d, want 2", opts.Weeks)
	}
	if opts.MinDuration != 0 {
		t.Errorf("min duration = %v, want 0", opts.MinDuration)
	}
	if opts.Role == nil || *opts.Role != model.RoleJungle || opts.Champion != "Lee Sin" {
		t.Errorf("filters = %v %q", opts.Role, opts.Champion)
	}

	if _, err := (filterFlags{role: "carry"}).options(time.Now()); err == nil {
		t.Error("expected unknown role error")
	}
}
