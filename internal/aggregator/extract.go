package aggregator

import (
	"fmt"
	"time"

	"github.com/pable/go-lol-metrics/internal/model"
)

const (
	firstCheckpoint = 2
	lastCheckpoint  = 20

	// Heatmap grid: map units per tile and grid height for the Y flip.
	heatmapTile = 29
	heatmapGrid = 512
)

// Extract computes one RawSample of every tracked metric for puuid in match m.
func Extract(m *model.Match, tl *model.Timeline, puuid string) (*model.RawSample, error) {
	if tl == nil {
		return nil, ErrTimelineNotFound
	}
	player := m.Info.Participant(puuid)
	if player == nil {
		return nil, fmt.Errorf("player %s: %w", puuid, ErrParticipantNotFound)
	}
	opponent, err := positionalOpponent(m, player)
	if err != nil {
		return nil, err
	}
	team := teamOf(m, player)

	minutes := int(m.Info.Duration() / time.Minute)
	if minutes <= 0 {
		return nil, fmt.Errorf("duration %s: %w", m.Info.Duration(), ErrInvalidDuration)
	}
	side, ok := player.Side()
	if !ok {
		return nil, fmt.Errorf("player %s has team id %d: %w", puuid, player.TeamID, ErrParticipantNotFound)
	}

	s := &model.RawSample{
		MatchID:              m.Metadata.MatchID,
		Win:                  player.Win,
		Role:                 player.TeamPosition,
		Side:                 side,
		Champion:             player.ChampionName,
		EnemyChampion:        opponent.ChampionName,
		Kills:                player.Kills,
		Deaths:               player.Deaths,
		Assists:              player.Assists,
		KDA:                  float64(player.Kills+player.Assists) / float64(max(player.Deaths, 1)),
		CSPerMinute:          float64(player.TotalMinionsKilled) / float64(minutes),
		GoldShare:            teamShare(player, team, func(p *model.Participant) int { return p.GoldEarned }),
		ChampionDamageShare:  teamShare(player, team, func(p *model.Participant) int { return p.TotalDamageDealtToChampions }),
		ObjectiveDamageShare: teamShare(player, team, func(p *model.Participant) int { return p.DamageDealtToObjectives }),
		VisionShare:          teamShare(player, team, func(p *model.Participant) int { return p.VisionScore }),
		VisionScorePerMinute: float64(player.VisionScore) / float64(minutes),
		AtMinute:             make(map[int]model.StatsAtMinute),
		Positions:            make(map[int][]model.Point),
	}

	playerID, ok := tl.ParticipantID(puuid)
	if !ok {
		return nil, fmt.Errorf("timeline player %s: %w", puuid, ErrParticipantNotFound)
	}
	opponentID, ok := tl.ParticipantID(opponent.PUUID)
	if !ok {
		return nil, fmt.Errorf("timeline opponent %s: %w", opponent.PUUID, ErrParticipantNotFound)
	}
	var teammateIDs []int
	for _, p := range team {
		if p.PUUID == puuid {
			continue
		}
		id, ok := tl.ParticipantID(p.PUUID)
		if !ok {
			return nil, fmt.Errorf("timeline teammate %s: %w", p.PUUID, ErrParticipantNotFound)
		}
		teammateIDs = append(teammateIDs, id)
	}
	frames := tl.Info.Frames

	for minute := firstCheckpoint; minute <= lastCheckpoint; minute++ {
		if at, ok := statsAtMinute(frames, playerID, opponentID, minute); ok {
			s.AtMinute[minute] = at
		}
	}

	s.SoloKills = SoloKills(frames, playerID)
	if s.SoloDeaths, err = SoloDeaths(frames, playerID, teammateIDs); err != nil {
		return nil, err
	}

	for _, f := range frames {
		pf, ok := f.ParticipantFrames[playerID]
		if !ok {
			return nil, fmt.Errorf("heatmap at %dms: %w", f.Timestamp, ErrSnapshotMissing)
		}
		minute := int(f.Timestamp.Duration() / time.Minute)
		s.Positions[minute] = append(s.Positions[minute], gridPosition(pf.Position))
	}

	if s.LegendaryBuys, err = LegendaryBuys(frames, playerID); err != nil {
		return nil, err
	}
	return s, nil
}

// positionalOpponent finds the single participant on the other team with the
// same assigned position.
func positionalOpponent(m *model.Match, player *model.Participant) (*model.Participant, error) {
	var found *model.Participant
	for i := range m.Info.Participants {
		p := &m.Info.Participants[i]
		if p.TeamID == player.TeamID || p.TeamPosition != player.TeamPosition {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("role %s is ambiguous: %w", player.TeamPosition, ErrOpponentNotFound)
		}
		found = p
	}
	if found == nil {
		return nil, fmt.Errorf("role %s: %w", player.TeamPosition, ErrOpponentNotFound)
	}
	return found, nil
}

func teamOf(m *model.Match, player *model.Participant) []*model.Participant {
	var team []*model.Participant
	for i := range m.Info.Participants {
		if m.Info.Participants[i].TeamID == player.TeamID {
			team = append(team, &m.Info.Participants[i])
		}
	}
	return team
}

// teamShare is the player's percentage of the team total; 0 when the team total is 0.
func teamShare(player *model.Participant, team []*model.Participant, field func(*model.Participant) int) float64 {
	total := 0
	for _, p := range team {
		total += field(p)
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(field(player)) / float64(total)
}

// statsAtMinute samples the first frame at or after minute. ok is false when
// the game ended earlier or either snapshot is absent.
func statsAtMinute(frames []model.Frame, playerID, opponentID, minute int) (model.StatsAtMinute, bool) {
	at := model.Millis(time.Duration(minute) * time.Minute / time.Millisecond)
	for _, f := range frames {
		if f.Timestamp < at {
			continue
		}
		p, ok := f.ParticipantFrames[playerID]
		if !ok {
			return model.StatsAtMinute{}, false
		}
		o, ok := f.ParticipantFrames[opponentID]
		if !ok {
			return model.StatsAtMinute{}, false
		}
		return model.StatsAtMinute{
			CSPerMinute: float64(p.MinionsKilled+p.JungleMinionsKilled) / float64(minute),
			GoldDiff:    float64(p.TotalGold - o.TotalGold),
			CSDiff:      float64(p.MinionsKilled - o.MinionsKilled),
			LevelDiff:   LevelForXP(p.XP) - LevelForXP(o.XP),
		}, true
	}
	return model.StatsAtMinute{}, false
}

func gridPosition(p model.Point) model.Point {
	return model.Point{X: p.X / heatmapTile, Y: heatmapGrid - p.Y/heatmapTile}
}
