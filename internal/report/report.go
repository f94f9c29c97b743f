package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-lol-metrics/internal/model"
)

var (
	cBetter = color.New(color.FgGreen)
	cWorse  = color.New(color.FgRed)
	cSame   = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// metricRow names one GroupStats scalar.
type metricRow struct {
	label string
	get   func(*model.GroupStats) model.NumberMetric
}

var groupRows = []metricRow{
	{"WIN%", func(g *model.GroupStats) model.NumberMetric { return g.WinRate }},
	{"K", func(g *model.GroupStats) model.NumberMetric { return g.Kills }},
	{"D", func(g *model.GroupStats) model.NumberMetric { return g.Deaths }},
	{"A", func(g *model.GroupStats) model.NumberMetric { return g.Assists }},
	{"KDA", func(g *model.GroupStats) model.NumberMetric { return g.KDA }},
	{"CS/MIN", func(g *model.GroupStats) model.NumberMetric { return g.CSPerMinute }},
	{"GOLD%", func(g *model.GroupStats) model.NumberMetric { return g.GoldShare }},
	{"DMG%", func(g *model.GroupStats) model.NumberMetric { return g.ChampionDamageShare }},
	{"OBJ_DMG%", func(g *model.GroupStats) model.NumberMetric { return g.ObjectiveDamageShare }},
	{"VISION%", func(g *model.GroupStats) model.NumberMetric { return g.VisionShare }},
	{"VISION/MIN", func(g *model.GroupStats) model.NumberMetric { return g.VisionScorePerMinute }},
	{"SOLO_K", func(g *model.GroupStats) model.NumberMetric { return g.SoloKills }},
	{"SOLO_D", func(g *model.GroupStats) model.NumberMetric { return g.SoloDeaths }},
}

// deltaColor picks the color for a visible change.
func deltaColor(o model.Ordering) *color.Color {
	switch o {
	case model.Greater:
		return cBetter
	case model.Less:
		return cWorse
	}
	return cSame
}

// numberCell renders "value (+delta)" with the delta colored by direction.
func numberCell(m model.NumberMetric) string {
	if m.Delta == nil {
		return m.String()
	}
	return m.String() + " " + deltaColor(m.HasVisibleDiff()).Sprintf("(%s)", m.DeltaString())
}

func durationCell(m model.DurationMetric) string {
	if m.Delta == nil {
		return m.String()
	}
	return m.String() + " " + deltaColor(m.HasVisibleDiff()).Sprintf("(%s)", m.DeltaString())
}

func sampleFlag(games int) string {
	switch {
	case games >= 20:
		return "OK"
	case games >= 8:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// PrintGroups prints one column per group and one row per metric.
func PrintGroups(w io.Writer, groups []*model.GroupStats) {
	table := newTable(w)
	header := []any{"METRIC"}
	for _, g := range groups {
		header = append(header, strings.ToUpper(g.Title))
	}
	table.Header(header...)

	games := []any{"GAMES"}
	record := []any{"W-L"}
	sample := []any{"SAMPLE"}
	for _, g := range groups {
		games = append(games, strconv.Itoa(g.Games()))
		record = append(record, fmt.Sprintf("%d-%d", g.Wins, g.Losses))
		sample = append(sample, sampleFlag(g.Games()))
	}
	table.Append(games...)
	table.Append(record...)
	table.Append(sample...)

	for _, r := range groupRows {
		row := []any{r.label}
		for _, g := range groups {
			row = append(row, numberCell(r.get(g)))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintCheckpoints prints the lane state per checkpoint minute. When the
// group carries the previous week's checkpoints they are shown alongside.
func PrintCheckpoints(w io.Writer, g *model.GroupStats) {
	prev := make(map[int]model.MinuteStats, len(g.PreviousAtMinute))
	for _, p := range g.PreviousAtMinute {
		prev[p.Minute] = p
	}
	withPrev := len(prev) > 0

	table := newTable(w)
	if withPrev {
		table.Header("MIN", "CS/MIN", "GOLD_DIFF", "CS_DIFF", "LVL_DIFF", "PREV_GOLD_DIFF", "PREV_CS_DIFF")
	} else {
		table.Header("MIN", "CS/MIN", "GOLD_DIFF", "CS_DIFF", "LVL_DIFF")
	}
	for _, m := range g.AtMinute {
		row := []any{
			strconv.Itoa(m.Minute),
			numberCell(m.CSPerMinute),
			numberCell(m.GoldDiff),
			numberCell(m.CSDiff),
			numberCell(m.LevelDiff),
		}
		if withPrev {
			p, ok := prev[m.Minute]
			if ok {
				row = append(row, p.GoldDiff.String(), p.CSDiff.String())
			} else {
				row = append(row, "—", "—")
			}
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintLegendaryBuys prints the median completion time of each legendary item slot.
func PrintLegendaryBuys(w io.Writer, g *model.GroupStats) {
	if len(g.LegendaryBuys) == 0 {
		fmt.Fprintln(w, "(no legendary items completed)")
		return
	}
	table := newTable(w)
	table.Header("ITEM", "MEDIAN_TIME")
	for i, b := range g.LegendaryBuys {
		table.Append(ordinal(i+1), durationCell(b))
	}
	table.Render()
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// PrintHeatmap lists the heatmap records of a group. The histogram itself is
// summarized by the number of minutes and positions it covers.
func PrintHeatmap(w io.Writer, g *model.GroupStats) {
	if len(g.Heatmap) == 0 {
		fmt.Fprintln(w, "(no heatmap data)")
		return
	}
	table := newTable(w)
	table.Header("ROLE", "SIDE", "GAMES", "MINUTES", "POSITIONS", "BYTES")
	for _, r := range g.Heatmap {
		minutes, points := histogramSize(r.Histogram)
		table.Append(r.Role.String(), r.Side.String(), strconv.Itoa(r.Count),
			strconv.Itoa(minutes), strconv.Itoa(points), strconv.Itoa(len(r.Histogram)))
	}
	table.Render()
}

// PrintBreakdown prints one row per (role, champion) bucket. label names the
// champion column ("CHAMPION" or "ENEMY").
func PrintBreakdown(w io.Writer, label string, rbs []model.RoleBreakdown) {
	if len(rbs) == 0 {
		fmt.Fprintln(w, "(no games)")
		return
	}
	table := newTable(w)
	table.Header("ROLE", label, "GAMES", "W-L", "WIN%", "KDA", "CS/MIN", "DMG%", "GOLD@15")
	for _, rb := range rbs {
		for _, c := range rb.Champions {
			s := c.Stats
			table.Append(
				rb.Role.String(),
				c.Champion,
				strconv.Itoa(s.Games()),
				fmt.Sprintf("%d-%d", s.Wins, s.Losses),
				numberCell(s.WinRate),
				numberCell(s.KDA),
				numberCell(s.CSPerMinute),
				numberCell(s.ChampionDamageShare),
				goldAt(s, 15),
			)
		}
	}
	table.Render()
}

func goldAt(g *model.GroupStats, minute int) string {
	for _, m := range g.AtMinute {
		if m.Minute == minute {
			return numberCell(m.GoldDiff)
		}
	}
	return "—"
}

// PrintHeadToHead prints player a against player b per shared group id. The
// deltas on a's metrics must already be set against b.
func PrintHeadToHead(w io.Writer, nameA, nameB string, a, b []*model.GroupStats) {
	byID := make(map[string]*model.GroupStats, len(b))
	for _, g := range b {
		byID[g.ID] = g
	}
	ids := make([]string, 0, len(a))
	seen := make(map[string]bool)
	for _, g := range a {
		if byID[g.ID] != nil && !seen[g.ID] {
			ids = append(ids, g.ID)
			seen[g.ID] = true
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "(no overlapping periods)")
		return
	}
	sort.SliceStable(ids, func(i, j int) bool {
		// Total last; weeks in id order.
		if (ids[i] == "total") != (ids[j] == "total") {
			return ids[j] == "total"
		}
		return ids[i] < ids[j]
	})

	aByID := make(map[string]*model.GroupStats, len(a))
	for _, g := range a {
		aByID[g.ID] = g
	}
	for _, id := range ids {
		ga, gb := aByID[id], byID[id]
		fmt.Fprintf(w, "\n%s  (%s: %d games, %s: %d games)\n", ga.Title, nameA, ga.Games(), nameB, gb.Games())
		table := newTable(w)
		table.Header("METRIC", strings.ToUpper(nameA), strings.ToUpper(nameB))
		for _, r := range groupRows {
			table.Append(r.label, numberCell(r.get(ga)), r.get(gb).String())
		}
		table.Render()
	}
}

// PrintSample prints one match's extracted values for the target player.
func PrintSample(w io.Writer, s *model.RawSample) {
	result := "LOSS"
	if s.Win {
		result = "WIN"
	}
	fmt.Fprintf(w, "\nMatch: %s  |  %s  |  %s %s  |  %s vs %s\n\n",
		s.MatchID, result, s.Side, s.Role, s.Champion, s.EnemyChampion)

	table := newTable(w)
	table.Header("K", "D", "A", "KDA", "CS/MIN", "GOLD%", "DMG%", "OBJ_DMG%", "VISION%", "VISION/MIN", "SOLO_K", "SOLO_D")
	table.Append(
		strconv.Itoa(s.Kills),
		strconv.Itoa(s.Deaths),
		strconv.Itoa(s.Assists),
		fmt.Sprintf("%.2f", s.KDA),
		fmt.Sprintf("%.1f", s.CSPerMinute),
		fmt.Sprintf("%.1f", s.GoldShare),
		fmt.Sprintf("%.1f", s.ChampionDamageShare),
		fmt.Sprintf("%.1f", s.ObjectiveDamageShare),
		fmt.Sprintf("%.1f", s.VisionShare),
		fmt.Sprintf("%.2f", s.VisionScorePerMinute),
		strconv.Itoa(s.SoloKills),
		strconv.Itoa(s.SoloDeaths),
	)
	table.Render()

	if len(s.AtMinute) > 0 {
		fmt.Fprintln(w)
		minutes := make([]int, 0, len(s.AtMinute))
		for m := range s.AtMinute {
			minutes = append(minutes, m)
		}
		sort.Ints(minutes)
		cp := newTable(w)
		cp.Header("MIN", "CS/MIN", "GOLD_DIFF", "CS_DIFF", "LVL_DIFF")
		for _, m := range minutes {
			st := s.AtMinute[m]
			cp.Append(strconv.Itoa(m),
				fmt.Sprintf("%.1f", st.CSPerMinute),
				fmt.Sprintf("%+.0f", st.GoldDiff),
				fmt.Sprintf("%+.0f", st.CSDiff),
				fmt.Sprintf("%+.0f", st.LevelDiff))
		}
		cp.Render()
	}

	if len(s.LegendaryBuys) > 0 {
		buys := make([]string, len(s.LegendaryBuys))
		for i, d := range s.LegendaryBuys {
			buys[i] = model.NewDuration(d).String()
		}
		fmt.Fprintf(w, "\nLegendary items: %s\n", strings.Join(buys, ", "))
	}
}

// PrintPlayerSummaries prints the per-player game counts of the store.
func PrintPlayerSummaries(w io.Writer, sums []model.PlayerSummary) {
	table := newTable(w)
	table.Header("PLAYER", "GAMES", "W-L", "WIN%", "LAST_PLAYED")
	for _, s := range sums {
		name := s.RiotID
		if name == "" || name == "#" {
			name = s.PUUID
		}
		winPct := 0.0
		if s.Games > 0 {
			winPct = 100 * float64(s.Wins) / float64(s.Games)
		}
		table.Append(
			name,
			strconv.Itoa(s.Games),
			fmt.Sprintf("%d-%d", s.Wins, s.Games-s.Wins),
			fmt.Sprintf("%.0f%%", winPct),
			s.LastPlayed.Format("2006-01-02"),
		)
	}
	table.Render()
}
