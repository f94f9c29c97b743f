package aggregator

import (
	"testing"
	"time"

	"github.com/pable/go-lol-metrics/internal/model"
)

func statsFor(t *testing.T, title string, ds *Dataset) *model.GroupStats {
	t.Helper()
	groups, err := CalcStats(*ds, NewOptions(now))
	if err != nil {
		t.Fatalf("CalcStats: %v", err)
	}
	g := groups[len(groups)-1]
	g.Title, g.ID = title, GroupID(title)
	return g
}

func TestCompareIsIdempotent(t *testing.T) {
	a := statsFor(t, "Total", weeklyDataset())
	ds := newDataset()
	addMatch(ds, "x", now.Add(-day), false)
	b := statsFor(t, "Total", ds)

	Compare(a, b)
	first := *a.WinRate.Delta
	firstKills := *a.Kills.Delta
	Compare(a, b)
	if *a.WinRate.Delta != first || *a.Kills.Delta != firstKills {
		t.Errorf("second compare changed deltas: %v/%v -> %v/%v", first, firstKills, *a.WinRate.Delta, *a.Kills.Delta)
	}
	if first != 60 {
		t.Errorf("win rate delta = %v, want 60", first)
	}
}

func TestCompareCheckpointsByMinute(t *testing.T) {
	a := &model.GroupStats{AtMinute: []model.MinuteStats{
		{Minute: 2, GoldDiff: model.NewNumber(50)},
		{Minute: 3, GoldDiff: model.NewNumber(120)},
	}}
	b := &model.GroupStats{AtMinute: []model.MinuteStats{
		{Minute: 3, GoldDiff: model.NewNumber(20)},
	}}
	Compare(a, b)
	if a.AtMinute[0].GoldDiff.Delta != nil {
		t.Error("minute 2 has no baseline and should keep no delta")
	}
	if d := a.AtMinute[1].GoldDiff.Delta; d == nil || *d != 100 {
		t.Errorf("minute 3 delta = %v, want 100", d)
	}
}

func TestCompareLegendaryBuysPositional(t *testing.T) {
	a := &model.GroupStats{LegendaryBuys: []model.DurationMetric{
		model.NewDuration(10 * time.Minute),
		model.NewDuration(17 * time.Minute),
		model.NewDuration(24 * time.Minute),
	}}
	b := &model.GroupStats{LegendaryBuys: []model.DurationMetric{
		model.NewDuration(11 * time.Minute),
		model.NewDuration(16 * time.Minute),
	}}
	Compare(a, b)
	if got := a.LegendaryBuys[0].DeltaString(); got != "-1m0s" {
		t.Errorf("first buy delta = %q, want -1m0s", got)
	}
	if a.LegendaryBuys[0].HasVisibleDiff() != model.Greater {
		t.Error("earlier first item should read as an improvement")
	}
	if a.LegendaryBuys[1].HasVisibleDiff() != model.Less {
		t.Error("later second item should read as a regression")
	}
	if a.LegendaryBuys[2].Delta != nil {
		t.Error("third buy has no counterpart")
	}
}

func TestCompareNestedBreakdowns(t *testing.T) {
	mk := func(role model.Role, champ string, kills float64) model.RoleBreakdown {
		return model.RoleBreakdown{Role: role, Champions: []model.ChampionStats{{
			Champion:   champ,
			Normalized: champ,
			Stats:      &model.GroupStats{Kills: model.NewNumber(kills)},
		}}}
	}
	a := &model.GroupStats{PerRoleChampion: []model.RoleBreakdown{
		mk(model.RoleMiddle, "ahri", 7),
		mk(model.RoleTop, "garen", 3),
	}}
	b := &model.GroupStats{PerRoleChampion: []model.RoleBreakdown{
		mk(model.RoleMiddle, "ahri", 5),
		mk(model.RoleMiddle, "garen", 1),
	}}
	Compare(a, b)
	if d := a.PerRoleChampion[0].Champions[0].Stats.Kills.Delta; d == nil || *d != 2 {
		t.Errorf("ahri kills delta = %v, want 2", d)
	}
	if a.PerRoleChampion[1].Champions[0].Stats.Kills.Delta != nil {
		t.Error("garen top has no baseline in the same role")
	}
}

func TestCompareGroupsMatchesByID(t *testing.T) {
	a := []*model.GroupStats{
		{ID: "week3", Kills: model.NewNumber(5)},
		{ID: "total", Kills: model.NewNumber(6)},
	}
	b := []*model.GroupStats{
		{ID: "total", Kills: model.NewNumber(4)},
	}
	CompareGroups(a, b)
	if a[0].Kills.Delta != nil {
		t.Error("week3 has no counterpart")
	}
	if d := a[1].Kills.Delta; d == nil || *d != 2 {
		t.Errorf("total kills delta = %v, want 2", d)
	}
}
