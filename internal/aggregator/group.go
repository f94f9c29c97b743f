package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/pable/go-lol-metrics/internal/gamedata"
	"github.com/pable/go-lol-metrics/internal/model"
)

const (
	// QualifyingGameMode is the summoner's rift 5v5 mode.
	QualifyingGameMode = "CLASSIC"

	DefaultWeeks       = 4
	DefaultMinDuration = 5 * time.Minute

	TotalTitle = "Total"
)

const week = 7 * 24 * time.Hour

// Dataset is the resident match history of one player.
type Dataset struct {
	PUUID     string
	Matches   map[string]*model.Match    // match id -> match
	Timelines map[string]*model.Timeline // match id -> timeline
}

// Options narrows the match set and fixes the reference time.
type Options struct {
	Now         time.Time
	Weeks       int           // lookback window, at least one
	MinDuration time.Duration // games must last longer; zero keeps every game
	Role        *model.Role   // only games in this role
	Champion    string        // only games on this champion (any spelling)
}

// NewOptions returns the standard window: DefaultWeeks back from now, games
// longer than DefaultMinDuration.
func NewOptions(now time.Time) Options {
	return Options{Now: now, Weeks: DefaultWeeks, MinDuration: DefaultMinDuration}
}

func (o Options) validate() (Options, error) {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Weeks < 1 {
		return o, fmt.Errorf("%d weeks: %w", o.Weeks, ErrInvalidWindow)
	}
	return o, nil
}

// Since is the start of the lookback window.
func (o Options) Since() time.Time {
	return o.Now.Add(-time.Duration(o.Weeks) * week)
}

// CalcStats returns one GroupStats per elapsed week in the lookback window,
// oldest first, followed by the "Total" group. Every week group carries
// deltas against the week before it.
func CalcStats(ds Dataset, opts Options) ([]*model.GroupStats, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}
	matches := qualifying(ds, opts)
	if len(matches) == 0 {
		return nil, ErrNoMatches
	}
	samples, err := extractAll(ds, matches)
	if err != nil {
		return nil, err
	}

	var groups []*model.GroupStats
	for _, chunk := range chunkByWeek(matches, opts) {
		g, err := buildGroup(chunk.title, chunk.matches, samples, opts)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	total, err := buildGroup(TotalTitle, matches, samples, opts)
	if err != nil {
		return nil, err
	}
	groups = append(groups, total)

	LinkPrevious(groups)
	return groups, nil
}

// Breakdowns returns the per-(role, champion) and per-(role, enemy champion)
// tables over the whole lookback window.
func Breakdowns(ds Dataset, opts Options) (champions, enemies []model.RoleBreakdown, err error) {
	if opts, err = opts.validate(); err != nil {
		return nil, nil, err
	}
	matches := qualifying(ds, opts)
	if len(matches) == 0 {
		return nil, nil, ErrNoMatches
	}
	samples, err := extractAll(ds, matches)
	if err != nil {
		return nil, nil, err
	}
	group := pick(matches, samples)
	if champions, err = breakdown(TotalTitle, group, opts.Role, byChampion); err != nil {
		return nil, nil, err
	}
	if enemies, err = breakdown(TotalTitle, group, opts.Role, byEnemy); err != nil {
		return nil, nil, err
	}
	return champions, enemies, nil
}

// qualifying filters to ranked-length 5v5 games inside the window, sorted by
// start time.
func qualifying(ds Dataset, opts Options) []*model.Match {
	from := opts.Since()
	champ := gamedata.NormalizeChampionName(opts.Champion)

	var out []*model.Match
	for _, m := range ds.Matches {
		if m.Info.GameMode != QualifyingGameMode ||
			m.Info.Duration() <= opts.MinDuration ||
			!m.Info.StartTime().After(from) {
			continue
		}
		p := m.Info.Participant(ds.PUUID)
		if p == nil {
			continue
		}
		if opts.Role != nil && p.TeamPosition != *opts.Role {
			continue
		}
		if champ != "" && gamedata.NormalizeChampionName(p.ChampionName) != champ {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Info.GameStartTimestamp, out[j].Info.GameStartTimestamp
		if a != b {
			return a < b
		}
		return out[i].Metadata.MatchID < out[j].Metadata.MatchID
	})
	return out
}

// extractAll runs the per-match extractor once per match. Any malformed match
// fails the whole call.
func extractAll(ds Dataset, matches []*model.Match) (map[string]*model.RawSample, error) {
	samples := make(map[string]*model.RawSample, len(matches))
	for _, m := range matches {
		id := m.Metadata.MatchID
		tl, ok := ds.Timelines[id]
		if !ok {
			return nil, &MatchError{MatchID: id, Err: ErrTimelineNotFound}
		}
		s, err := Extract(m, tl, ds.PUUID)
		if err != nil {
			return nil, &MatchError{MatchID: id, Err: err}
		}
		samples[id] = s
	}
	return samples, nil
}

type weekChunk struct {
	title   string
	matches []*model.Match
}

// chunkByWeek splits start-sorted matches by whole weeks elapsed since start.
func chunkByWeek(matches []*model.Match, opts Options) []weekChunk {
	var chunks []weekChunk
	last := -1
	for _, m := range matches {
		weeksAgo := int(opts.Now.Sub(m.Info.StartTime()) / week)
		if len(chunks) == 0 || weeksAgo != last {
			chunks = append(chunks, weekChunk{title: fmt.Sprintf("Week %d", opts.Weeks-weeksAgo)})
			last = weeksAgo
		}
		chunks[len(chunks)-1].matches = append(chunks[len(chunks)-1].matches, m)
	}
	return chunks
}

func pick(matches []*model.Match, samples map[string]*model.RawSample) []*model.RawSample {
	out := make([]*model.RawSample, 0, len(matches))
	for _, m := range matches {
		out = append(out, samples[m.Metadata.MatchID])
	}
	return out
}

func buildGroup(title string, matches []*model.Match, samples map[string]*model.RawSample, opts Options) (*model.GroupStats, error) {
	group := pick(matches, samples)
	g, err := Aggregate(title, group)
	if err != nil {
		return nil, err
	}
	// A champion filter would leave a single row per role.
	if opts.Champion == "" {
		if g.PerRoleChampion, err = breakdown(title, group, opts.Role, byChampion); err != nil {
			return nil, err
		}
	}
	if g.PerRoleEnemy, err = breakdown(title, group, opts.Role, byEnemy); err != nil {
		return nil, err
	}
	return g, nil
}

type breakdownKind int

const (
	byChampion breakdownKind = iota
	byEnemy
)

type champBucket struct {
	name    string
	samples []*model.RawSample
	wins    int
}

func (b *champBucket) winRate() float64 {
	return float64(b.wins) / float64(len(b.samples))
}

// breakdown buckets samples by role, then by the player's (or the opponent's)
// champion. Roles and champions are ordered by game count; enemy buckets with
// equal counts are ordered by win rate.
func breakdown(title string, samples []*model.RawSample, roleFilter *model.Role, kind breakdownKind) ([]model.RoleBreakdown, error) {
	byRole := make(map[model.Role]map[string]*champBucket)
	roleGames := make(map[model.Role]int)
	for _, s := range samples {
		name := s.Champion
		if kind == byEnemy {
			name = s.EnemyChampion
		}
		champs, ok := byRole[s.Role]
		if !ok {
			champs = make(map[string]*champBucket)
			byRole[s.Role] = champs
		}
		b, ok := champs[name]
		if !ok {
			b = &champBucket{name: name}
			champs[name] = b
		}
		b.samples = append(b.samples, s)
		if s.Win {
			b.wins++
		}
		roleGames[s.Role]++
	}

	roles := make([]model.Role, 0, len(byRole))
	for r := range byRole {
		if roleFilter != nil && r != *roleFilter {
			continue
		}
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool {
		if roleGames[roles[i]] != roleGames[roles[j]] {
			return roleGames[roles[i]] > roleGames[roles[j]]
		}
		return roles[i].Index() < roles[j].Index()
	})

	out := make([]model.RoleBreakdown, 0, len(roles))
	for _, r := range roles {
		buckets := make([]*champBucket, 0, len(byRole[r]))
		for _, b := range byRole[r] {
			buckets = append(buckets, b)
		}
		sort.Slice(buckets, func(i, j int) bool {
			a, b := buckets[i], buckets[j]
			if len(a.samples) != len(b.samples) {
				return len(a.samples) > len(b.samples)
			}
			if kind == byEnemy && a.winRate() != b.winRate() {
				return a.winRate() > b.winRate()
			}
			return a.name < b.name
		})

		rb := model.RoleBreakdown{Role: r}
		for _, b := range buckets {
			stats, err := Aggregate(title, b.samples)
			if err != nil {
				return nil, err
			}
			rb.Champions = append(rb.Champions, model.ChampionStats{
				Champion:   b.name,
				Normalized: gamedata.NormalizeChampionName(b.name),
				Stats:      stats,
			})
		}
		out = append(out, rb)
	}
	return out, nil
}
