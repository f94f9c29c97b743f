package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/pable/go-lol-metrics/internal/model"
)

// Aggregate folds per-match samples into one GroupStats. Counting fields
// (kills, deaths, assists, KDA, solo kills/deaths) use the mean; rate and
// share fields use the median.
func Aggregate(title string, samples []*model.RawSample) (*model.GroupStats, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("group %q: %w", title, ErrNoMatches)
	}

	var (
		wins, losses                          int
		kills, deaths, assists                []int
		soloKills, soloDeaths                 []int
		kda, csPerMin, visionPerMin           []float64
		goldShare, champDmgShare, objDmgShare []float64
		visionShare                           []float64
		atMinute                              = make(map[int][]model.StatsAtMinute)
		buys                                  [][]time.Duration
	)

	for _, s := range samples {
		if s.Win {
			wins++
		} else {
			losses++
		}
		kills = append(kills, s.Kills)
		deaths = append(deaths, s.Deaths)
		assists = append(assists, s.Assists)
		kda = append(kda, s.KDA)
		soloKills = append(soloKills, s.SoloKills)
		soloDeaths = append(soloDeaths, s.SoloDeaths)
		csPerMin = append(csPerMin, s.CSPerMinute)
		goldShare = append(goldShare, s.GoldShare)
		champDmgShare = append(champDmgShare, s.ChampionDamageShare)
		objDmgShare = append(objDmgShare, s.ObjectiveDamageShare)
		visionShare = append(visionShare, s.VisionShare)
		visionPerMin = append(visionPerMin, s.VisionScorePerMinute)

		for minute, at := range s.AtMinute {
			atMinute[minute] = append(atMinute[minute], at)
		}

		// Collect positionally: buys[n] holds every match's (n+1)th legendary.
		for i, t := range s.LegendaryBuys {
			if i == len(buys) {
				buys = append(buys, nil)
			}
			buys[i] = append(buys[i], t)
		}
	}

	heatmap, err := buildHeatmap(samples)
	if err != nil {
		return nil, err
	}

	g := &model.GroupStats{
		Title:                title,
		ID:                   GroupID(title),
		Wins:                 wins,
		Losses:               losses,
		WinRate:              model.NewNumber(100 * float64(wins) / float64(wins+losses)),
		Kills:                model.NewNumber(average(kills)),
		Deaths:               model.NewLowerIsBetter(average(deaths)),
		Assists:              model.NewNumber(average(assists)),
		KDA:                  model.NewNumber(average(kda)),
		CSPerMinute:          model.NewNumber(median(csPerMin)),
		GoldShare:            model.NewNumber(median(goldShare)),
		ChampionDamageShare:  model.NewNumber(median(champDmgShare)),
		ObjectiveDamageShare: model.NewNumber(median(objDmgShare)),
		VisionShare:          model.NewNumber(median(visionShare)),
		VisionScorePerMinute: model.NewNumber(median(visionPerMin)),
		SoloKills:            model.NewNumber(average(soloKills)),
		SoloDeaths:           model.NewLowerIsBetter(average(soloDeaths)),
		Heatmap:              heatmap,
	}

	for minute := firstCheckpoint; minute <= lastCheckpoint; minute++ {
		at, ok := atMinute[minute]
		if !ok {
			continue
		}
		g.AtMinute = append(g.AtMinute, medianAtMinute(minute, at))
	}

	for _, nth := range buys {
		g.LegendaryBuys = append(g.LegendaryBuys, model.NewDuration(medianDuration(nth)))
	}
	return g, nil
}

// GroupID derives the stable id from a title: lowercase, spaces removed.
func GroupID(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "")
}

func medianAtMinute(minute int, at []model.StatsAtMinute) model.MinuteStats {
	cs := make([]float64, len(at))
	gold := make([]float64, len(at))
	csDiff := make([]float64, len(at))
	level := make([]float64, len(at))
	for i, a := range at {
		cs[i] = a.CSPerMinute
		gold[i] = a.GoldDiff
		csDiff[i] = a.CSDiff
		level[i] = a.LevelDiff
	}
	return model.MinuteStats{
		Minute:      minute,
		CSPerMinute: model.NewNumber(median(cs)),
		GoldDiff:    model.NewNumber(median(gold)),
		CSDiff:      model.NewNumber(median(csDiff)),
		LevelDiff:   model.NewNumber(median(level)),
	}
}

type roleSide struct {
	role model.Role
	side model.Side
}

// buildHeatmap merges position histograms per (role, side). Games without an
// assigned role are left out. Records are ordered by how often the role was
// played, then Blue before Red.
func buildHeatmap(samples []*model.RawSample) ([]model.HeatmapRecord, error) {
	roleCounts := make(map[model.Role]int)
	counts := make(map[roleSide]int)
	positions := make(map[roleSide]map[int][]model.Point)
	for _, s := range samples {
		key := roleSide{s.Role, s.Side}
		roleCounts[s.Role]++
		counts[key]++
		hist, ok := positions[key]
		if !ok {
			hist = make(map[int][]model.Point)
			positions[key] = hist
		}
		for minute, pts := range s.Positions {
			hist[minute] = append(hist[minute], pts...)
		}
	}

	var records []model.HeatmapRecord
	for key, hist := range positions {
		if key.role == model.RoleNone {
			continue
		}
		b, err := json.Marshal(hist)
		if err != nil {
			return nil, fmt.Errorf("encode heatmap %s/%s: %w", key.role, key.side, err)
		}
		records = append(records, model.HeatmapRecord{
			Role:      key.role,
			Side:      key.side,
			Count:     counts[key],
			Histogram: string(b),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if ca, cb := roleCounts[a.Role], roleCounts[b.Role]; ca != cb {
			return ca > cb
		}
		if a.Role != b.Role {
			return a.Role.Index() < b.Role.Index()
		}
		return a.Side < b.Side
	})
	return records, nil
}
