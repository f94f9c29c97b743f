package model

import (
	"bytes"
	"fmt"
	"math"
	"time"

	json "github.com/goccy/go-json"
)

// Millis is an in-game offset in milliseconds as reported by the timeline API.
type Millis int64

func (m Millis) Duration() time.Duration { return time.Duration(m) * time.Millisecond }

// Point is a map position in game units (0..~15000 on both axes).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the Euclidean distance between two map positions.
func (p Point) Distance(o Point) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

type Timeline struct {
	Metadata Metadata     `json:"metadata"`
	Info     TimelineInfo `json:"info"`
}

type TimelineInfo struct {
	FrameInterval int64                 `json:"frameInterval"`
	Frames        []Frame               `json:"frames"`
	Participants  []TimelineParticipant `json:"participants"`
}

// TimelineParticipant maps the in-timeline integer id to the match-level puuid.
type TimelineParticipant struct {
	ParticipantID int    `json:"participantId"`
	PUUID         string `json:"puuid"`
}

// ParticipantID returns the timeline id for puuid.
func (t *Timeline) ParticipantID(puuid string) (int, bool) {
	for _, p := range t.Info.Participants {
		if p.PUUID == puuid {
			return p.ParticipantID, true
		}
	}
	return 0, false
}

// ParticipantFrame is one participant's state at a frame boundary.
type ParticipantFrame struct {
	ParticipantID       int   `json:"participantId"`
	Position            Point `json:"position"`
	CurrentGold         int   `json:"currentGold"`
	TotalGold           int   `json:"totalGold"`
	MinionsKilled       int   `json:"minionsKilled"`
	JungleMinionsKilled int   `json:"jungleMinionsKilled"`
	Level               int   `json:"level"`
	XP                  int   `json:"xp"`
}

// Frame is one timestamped snapshot plus the events since the previous frame.
type Frame struct {
	Timestamp         Millis
	ParticipantFrames map[int]ParticipantFrame
	Events            []Event
}

type frameJSON struct {
	Timestamp         Millis                   `json:"timestamp"`
	ParticipantFrames map[int]ParticipantFrame `json:"participantFrames"`
	Events            []json.RawMessage        `json:"events"`
}

func (f *Frame) UnmarshalJSON(data []byte) error {
	var raw frameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Timestamp = raw.Timestamp
	f.ParticipantFrames = raw.ParticipantFrames
	f.Events = make([]Event, 0, len(raw.Events))
	for i, msg := range raw.Events {
		ev, err := DecodeEvent(msg)
		if err != nil {
			return fmt.Errorf("frame at %dms, event %d: %w", raw.Timestamp, i, err)
		}
		f.Events = append(f.Events, ev)
	}
	return nil
}

func (f Frame) MarshalJSON() ([]byte, error) {
	raw := frameJSON{
		Timestamp:         f.Timestamp,
		ParticipantFrames: f.ParticipantFrames,
		Events:            make([]json.RawMessage, 0, len(f.Events)),
	}
	for _, ev := range f.Events {
		b, err := EncodeEvent(ev)
		if err != nil {
			return nil, err
		}
		raw.Events = append(raw.Events, b)
	}
	return json.Marshal(raw)
}

// ---- Events ----

// Event is one entry of a frame's event log. The concrete type identifies the
// variant; OtherEvent holds every variant the engine does not inspect.
type Event interface {
	Type() string
	At() time.Duration
}

type ChampionKill struct {
	Timestamp               Millis `json:"timestamp"`
	KillerID                int    `json:"killerId"`
	VictimID                int    `json:"victimId"`
	AssistingParticipantIDs []int  `json:"assistingParticipantIds,omitempty"`
	Position                Point  `json:"position"`
	Bounty                  int    `json:"bounty"`
	ShutdownBounty          int    `json:"shutdownBounty"`
	KillStreakLength        int    `json:"killStreakLength"`
}

type ItemPurchased struct {
	Timestamp     Millis `json:"timestamp"`
	ParticipantID int    `json:"participantId"`
	ItemID        int    `json:"itemId"`
}

type ItemSold struct {
	Timestamp     Millis `json:"timestamp"`
	ParticipantID int    `json:"participantId"`
	ItemID        int    `json:"itemId"`
}

type ItemDestroyed struct {
	Timestamp     Millis `json:"timestamp"`
	ParticipantID int    `json:"participantId"`
	ItemID        int    `json:"itemId"`
}

// ItemUndo reverts the participant's last shop action. BeforeID is the item
// that was reverted, AfterID the one restored (0 when undoing a purchase).
type ItemUndo struct {
	Timestamp     Millis `json:"timestamp"`
	ParticipantID int    `json:"participantId"`
	BeforeID      int    `json:"beforeId"`
	AfterID       int    `json:"afterId"`
	GoldGain      int    `json:"goldGain"`
}

type WardPlaced struct {
	Timestamp Millis `json:"timestamp"`
	CreatorID int    `json:"creatorId"`
	WardType  string `json:"wardType"`
}

type WardKill struct {
	Timestamp Millis `json:"timestamp"`
	KillerID  int    `json:"killerId"`
	WardType  string `json:"wardType"`
}

type BuildingKill struct {
	Timestamp               Millis `json:"timestamp"`
	KillerID                int    `json:"killerId"`
	TeamID                  int    `json:"teamId"`
	BuildingType            string `json:"buildingType"`
	LaneType                string `json:"laneType"`
	TowerType               string `json:"towerType,omitempty"`
	Position                Point  `json:"position"`
	AssistingParticipantIDs []int  `json:"assistingParticipantIds,omitempty"`
	Bounty                  int    `json:"bounty"`
}

type EliteMonsterKill struct {
	Timestamp               Millis `json:"timestamp"`
	KillerID                int    `json:"killerId"`
	KillerTeamID            int    `json:"killerTeamId"`
	MonsterType             string `json:"monsterType"`
	MonsterSubType          string `json:"monsterSubType,omitempty"`
	Position                Point  `json:"position"`
	AssistingParticipantIDs []int  `json:"assistingParticipantIds,omitempty"`
	Bounty                  int    `json:"bounty"`
}

type TurretPlateDestroyed struct {
	Timestamp Millis `json:"timestamp"`
	KillerID  int    `json:"killerId"`
	TeamID    int    `json:"teamId"`
	LaneType  string `json:"laneType"`
	Position  Point  `json:"position"`
}

type LevelUp struct {
	Timestamp     Millis `json:"timestamp"`
	ParticipantID int    `json:"participantId"`
	Level         int    `json:"level"`
}

type SkillLevelUp struct {
	Timestamp     Millis `json:"timestamp"`
	ParticipantID int    `json:"participantId"`
	SkillSlot     int    `json:"skillSlot"`
	LevelUpType   string `json:"levelUpType"`
}

type GameEnd struct {
	Timestamp     Millis `json:"timestamp"`
	GameID        int64  `json:"gameId"`
	RealTimestamp int64  `json:"realTimestamp"`
	WinningTeam   int    `json:"winningTeam"`
}

// OtherEvent keeps the raw payload of variants without a dedicated type.
type OtherEvent struct {
	Kind      string
	Timestamp Millis
	Raw       json.RawMessage
}

func (e *ChampionKill) Type() string         { return "CHAMPION_KILL" }
func (e *ItemPurchased) Type() string        { return "ITEM_PURCHASED" }
func (e *ItemSold) Type() string             { return "ITEM_SOLD" }
func (e *ItemDestroyed) Type() string        { return "ITEM_DESTROYED" }
func (e *ItemUndo) Type() string             { return "ITEM_UNDO" }
func (e *WardPlaced) Type() string           { return "WARD_PLACED" }
func (e *WardKill) Type() string             { return "WARD_KILL" }
func (e *BuildingKill) Type() string         { return "BUILDING_KILL" }
func (e *EliteMonsterKill) Type() string     { return "ELITE_MONSTER_KILL" }
func (e *TurretPlateDestroyed) Type() string { return "TURRET_PLATE_DESTROYED" }
func (e *LevelUp) Type() string              { return "LEVEL_UP" }
func (e *SkillLevelUp) Type() string         { return "SKILL_LEVEL_UP" }
func (e *GameEnd) Type() string              { return "GAME_END" }
func (e *OtherEvent) Type() string           { return e.Kind }

func (e *ChampionKill) At() time.Duration         { return e.Timestamp.Duration() }
func (e *ItemPurchased) At() time.Duration        { return e.Timestamp.Duration() }
func (e *ItemSold) At() time.Duration             { return e.Timestamp.Duration() }
func (e *ItemDestroyed) At() time.Duration        { return e.Timestamp.Duration() }
func (e *ItemUndo) At() time.Duration             { return e.Timestamp.Duration() }
func (e *WardPlaced) At() time.Duration           { return e.Timestamp.Duration() }
func (e *WardKill) At() time.Duration             { return e.Timestamp.Duration() }
func (e *BuildingKill) At() time.Duration         { return e.Timestamp.Duration() }
func (e *EliteMonsterKill) At() time.Duration     { return e.Timestamp.Duration() }
func (e *TurretPlateDestroyed) At() time.Duration { return e.Timestamp.Duration() }
func (e *LevelUp) At() time.Duration              { return e.Timestamp.Duration() }
func (e *SkillLevelUp) At() time.Duration         { return e.Timestamp.Duration() }
func (e *GameEnd) At() time.Duration              { return e.Timestamp.Duration() }
func (e *OtherEvent) At() time.Duration           { return e.Timestamp.Duration() }

// DecodeEvent peeks at the "type" discriminator and decodes into the matching variant.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type      string `json:"type"`
		Timestamp Millis `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event header: %w", err)
	}
	var ev Event
	switch head.Type {
	case "CHAMPION_KILL":
		ev = &ChampionKill{}
	case "ITEM_PURCHASED":
		ev = &ItemPurchased{}
	case "ITEM_SOLD":
		ev = &ItemSold{}
	case "ITEM_DESTROYED":
		ev = &ItemDestroyed{}
	case "ITEM_UNDO":
		ev = &ItemUndo{}
	case "WARD_PLACED":
		ev = &WardPlaced{}
	case "WARD_KILL":
		ev = &WardKill{}
	case "BUILDING_KILL":
		ev = &BuildingKill{}
	case "ELITE_MONSTER_KILL":
		ev = &EliteMonsterKill{}
	case "TURRET_PLATE_DESTROYED":
		ev = &TurretPlateDestroyed{}
	case "LEVEL_UP":
		ev = &LevelUp{}
	case "SKILL_LEVEL_UP":
		ev = &SkillLevelUp{}
	case "GAME_END":
		ev = &GameEnd{}
	case "":
		return nil, fmt.Errorf("event without type")
	default:
		return &OtherEvent{Kind: head.Type, Timestamp: head.Timestamp, Raw: append(json.RawMessage(nil), data...)}, nil
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return ev, nil
}

// EncodeEvent is the inverse of DecodeEvent: the variant's fields plus its "type".
func EncodeEvent(ev Event) ([]byte, error) {
	if other, ok := ev.(*OtherEvent); ok {
		if len(other.Raw) > 0 {
			return other.Raw, nil
		}
		return json.Marshal(map[string]any{"type": other.Kind, "timestamp": other.Timestamp})
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"type":%q`, ev.Type())
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}
