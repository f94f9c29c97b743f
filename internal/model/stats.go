package model

import "time"

// ---- Per-match extraction ----

// StatsAtMinute is the lane state against the positional opponent at a checkpoint.
type StatsAtMinute struct {
	CSPerMinute float64
	GoldDiff    float64
	CSDiff      float64
	LevelDiff   float64
}

// RawSample is one match's worth of extracted metrics for the target player.
type RawSample struct {
	MatchID       string
	Win           bool
	Role          Role
	Side          Side
	Champion      string
	EnemyChampion string

	Kills, Deaths, Assists int
	KDA                    float64
	CSPerMinute            float64
	GoldShare              float64
	ChampionDamageShare    float64
	ObjectiveDamageShare   float64
	VisionShare            float64
	VisionScorePerMinute   float64
	SoloKills, SoloDeaths  int

	AtMinute      map[int]StatsAtMinute // checkpoint minute -> lane state
	Positions     map[int][]Point       // game minute -> heatmap grid positions
	LegendaryBuys []time.Duration       // surviving legendary purchases in buy order
}

// ---- Aggregated metrics ----

// MinuteStats is the medianized lane state at one checkpoint minute.
type MinuteStats struct {
	Minute      int          `json:"minute"`
	CSPerMinute NumberMetric `json:"csPerMinute"`
	GoldDiff    NumberMetric `json:"goldDiff"`
	CSDiff      NumberMetric `json:"csDiff"`
	LevelDiff   NumberMetric `json:"levelDiff"`
}

// HeatmapRecord holds the position histogram for one (role, side) pair.
// Histogram is a JSON object of minute -> [{x, y}, ...].
type HeatmapRecord struct {
	Role      Role   `json:"role"`
	Side      Side   `json:"side"`
	Count     int    `json:"count"`
	Histogram string `json:"histogram"`
}

// ChampionStats is one champion bucket inside a role breakdown.
type ChampionStats struct {
	Champion   string      `json:"champion"`
	Normalized string      `json:"normalized"`
	Stats      *GroupStats `json:"stats"`
}

// RoleBreakdown lists champion buckets for one role, most played first.
type RoleBreakdown struct {
	Role      Role            `json:"role"`
	Champions []ChampionStats `json:"champions"`
}

// Games is the number of matches across all champion buckets.
func (r RoleBreakdown) Games() int {
	n := 0
	for _, c := range r.Champions {
		n += c.Stats.Games()
	}
	return n
}

// GroupStats is the aggregated statistics block for one bucket of matches.
type GroupStats struct {
	Title  string `json:"title"`
	ID     string `json:"id"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`

	WinRate              NumberMetric `json:"winRate"`
	Kills                NumberMetric `json:"kills"`
	Deaths               NumberMetric `json:"deaths"`
	Assists              NumberMetric `json:"assists"`
	KDA                  NumberMetric `json:"kda"`
	CSPerMinute          NumberMetric `json:"csPerMinute"`
	GoldShare            NumberMetric `json:"goldShare"`
	ChampionDamageShare  NumberMetric `json:"championDamageShare"`
	ObjectiveDamageShare NumberMetric `json:"objectiveDamageShare"`
	VisionShare          NumberMetric `json:"visionShare"`
	VisionScorePerMinute NumberMetric `json:"visionScorePerMinute"`
	SoloKills            NumberMetric `json:"soloKills"`
	SoloDeaths           NumberMetric `json:"soloDeaths"`

	AtMinute         []MinuteStats    `json:"atMinute"`
	PreviousAtMinute []MinuteStats    `json:"previousAtMinute,omitempty"`
	Heatmap          []HeatmapRecord  `json:"heatmap,omitempty"`
	LegendaryBuys    []DurationMetric `json:"legendaryBuys"`

	PerRoleChampion []RoleBreakdown `json:"perRoleChampion,omitempty"`
	PerRoleEnemy    []RoleBreakdown `json:"perRoleEnemy,omitempty"`
}

func (g *GroupStats) Games() int { return g.Wins + g.Losses }
