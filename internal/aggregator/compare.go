package aggregator

import "github.com/pable/go-lol-metrics/internal/model"

// Compare sets every delta in target against baseline: scalar metrics,
// legendary buy times by position, checkpoints by minute, and nested
// breakdown entries by role and normalized champion. Entries missing from
// baseline keep no delta.
func Compare(target, baseline *model.GroupStats) {
	if target == nil || baseline == nil {
		return
	}
	target.WinRate.CompareTo(baseline.WinRate)
	target.Kills.CompareTo(baseline.Kills)
	target.Deaths.CompareTo(baseline.Deaths)
	target.Assists.CompareTo(baseline.Assists)
	target.KDA.CompareTo(baseline.KDA)
	target.CSPerMinute.CompareTo(baseline.CSPerMinute)
	target.GoldShare.CompareTo(baseline.GoldShare)
	target.ChampionDamageShare.CompareTo(baseline.ChampionDamageShare)
	target.ObjectiveDamageShare.CompareTo(baseline.ObjectiveDamageShare)
	target.VisionShare.CompareTo(baseline.VisionShare)
	target.VisionScorePerMinute.CompareTo(baseline.VisionScorePerMinute)
	target.SoloKills.CompareTo(baseline.SoloKills)
	target.SoloDeaths.CompareTo(baseline.SoloDeaths)

	for i := range target.LegendaryBuys {
		if i >= len(baseline.LegendaryBuys) {
			break
		}
		target.LegendaryBuys[i].CompareTo(baseline.LegendaryBuys[i])
	}

	for i := range target.AtMinute {
		at := &target.AtMinute[i]
		for _, base := range baseline.AtMinute {
			if base.Minute != at.Minute {
				continue
			}
			at.CSPerMinute.CompareTo(base.CSPerMinute)
			at.GoldDiff.CompareTo(base.GoldDiff)
			at.CSDiff.CompareTo(base.CSDiff)
			at.LevelDiff.CompareTo(base.LevelDiff)
			break
		}
	}

	compareBreakdowns(target.PerRoleChampion, baseline.PerRoleChampion)
	compareBreakdowns(target.PerRoleEnemy, baseline.PerRoleEnemy)
}

func compareBreakdowns(target, baseline []model.RoleBreakdown) {
	for _, rb := range target {
		var base *model.RoleBreakdown
		for i := range baseline {
			if baseline[i].Role == rb.Role {
				base = &baseline[i]
				break
			}
		}
		if base == nil {
			continue
		}
		for _, c := range rb.Champions {
			for _, bc := range base.Champions {
				if bc.Normalized == c.Normalized {
					Compare(c.Stats, bc.Stats)
					break
				}
			}
		}
	}
}

// LinkPrevious compares each week group to the week before it and records the
// previous week's checkpoints. The Total group is left untouched.
func LinkPrevious(groups []*model.GroupStats) {
	var prev *model.GroupStats
	for _, g := range groups {
		if g.Title == TotalTitle {
			continue
		}
		if prev != nil {
			Compare(g, prev)
			g.PreviousAtMinute = append([]model.MinuteStats(nil), prev.AtMinute...)
		}
		prev = g
	}
}

// CompareGroups sets deltas on each group in target against the group with
// the same id in baseline (head-to-head between two players).
func CompareGroups(target, baseline []*model.GroupStats) {
	for _, g := range target {
		for _, b := range baseline {
			if b.ID == g.ID {
				Compare(g, b)
				break
			}
		}
	}
}
