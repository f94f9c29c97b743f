package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the lane position the matchmaker assigned to a participant.
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleSupport Role = "UTILITY"
	RoleNone    Role = ""
)

// Roles lists the assignable positions in draft order.
var Roles = []Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleSupport}

func (r Role) String() string {
	switch r {
	case RoleTop:
		return "Top"
	case RoleJungle:
		return "Jungle"
	case RoleMiddle:
		return "Middle"
	case RoleBottom:
		return "Bottom"
	case RoleSupport:
		return "Support"
	default:
		return "None"
	}
}

// Lower returns the lowercase display name ("support", "none", ...).
func (r Role) Lower() string { return strings.ToLower(r.String()) }

// Index orders roles top to support; RoleNone sorts last.
func (r Role) Index() int {
	for i, role := range Roles {
		if role == r {
			return i
		}
	}
	return len(Roles)
}

// ParseRole accepts the API spelling as well as the common short names.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return RoleTop, true
	case "jungle", "jg", "jgl":
		return RoleJungle, true
	case "middle", "mid":
		return RoleMiddle, true
	case "bottom", "bot", "adc":
		return RoleBottom, true
	case "support", "utility", "sup", "supp":
		return RoleSupport, true
	case "none":
		return RoleNone, true
	}
	return RoleNone, false
}

// Side is the map side a team starts on.
type Side int

const (
	SideBlue Side = iota
	SideRed
)

func (s Side) String() string {
	if s == SideRed {
		return "Red"
	}
	return "Blue"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "blue":
		*s = SideBlue
	case "red":
		*s = SideRed
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

// Team ids used by the match API.
const (
	TeamBlue = 100
	TeamRed  = 200
)

// ---- Match records ----

type Match struct {
	Metadata Metadata `json:"metadata"`
	Info     Info     `json:"info"`
}

type Metadata struct {
	DataVersion  string   `json:"dataVersion"`
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type Info struct {
	EndOfGameResult    string        `json:"endOfGameResult,omitempty"`
	GameCreation       int64         `json:"gameCreation"`
	GameDuration       int64         `json:"gameDuration"`               // seconds when GameEndTimestamp is set, else milliseconds
	GameEndTimestamp   int64         `json:"gameEndTimestamp,omitempty"` // epoch ms
	GameID             int64         `json:"gameId"`
	GameMode           string        `json:"gameMode"`
	GameName           string        `json:"gameName,omitempty"`
	GameStartTimestamp int64         `json:"gameStartTimestamp"` // epoch ms
	GameType           string        `json:"gameType,omitempty"`
	GameVersion        string        `json:"gameVersion,omitempty"`
	MapID              int           `json:"mapId"`
	Participants       []Participant `json:"participants"`
	PlatformID         string        `json:"platformId,omitempty"`
	QueueID            int           `json:"queueId"`
	Teams              []TeamResult  `json:"teams,omitempty"`
}

// Duration returns the game length. Older records report milliseconds and
// carry no end timestamp.
func (i *Info) Duration() time.Duration {
	if i.GameEndTimestamp != 0 {
		return time.Duration(i.GameDuration) * time.Second
	}
	return time.Duration(i.GameDuration) * time.Millisecond
}

func (i *Info) StartTime() time.Time {
	return time.UnixMilli(i.GameStartTimestamp).UTC()
}

// Participant returns the row for puuid, or nil.
func (i *Info) Participant(puuid string) *Participant {
	for k := range i.Participants {
		if i.Participants[k].PUUID == puuid {
			return &i.Participants[k]
		}
	}
	return nil
}

type TeamResult struct {
	TeamID int  `json:"teamId"`
	Win    bool `json:"win"`
}

type Participant struct {
	ParticipantID  int    `json:"participantId"`
	PUUID          string `json:"puuid"`
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`
	SummonerName   string `json:"summonerName,omitempty"`
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	ChampLevel     int    `json:"champLevel"`
	TeamID         int    `json:"teamId"`
	TeamPosition   Role   `json:"teamPosition"`
	Win            bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`
	GoldSpent            int `json:"goldSpent"`

	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	DamageDealtToObjectives     int `json:"damageDealtToObjectives"`
	TotalDamageTaken            int `json:"totalDamageTaken"`

	VisionScore         int `json:"visionScore"`
	WardsPlaced         int `json:"wardsPlaced"`
	WardsKilled         int `json:"wardsKilled"`
	DetectorWardsPlaced int `json:"detectorWardsPlaced"`
}

// RiotID renders "name#tag", falling back to the summoner name.
func (p *Participant) RiotID() string {
	if p.RiotIDGameName == "" {
		return p.SummonerName
	}
	return p.RiotIDGameName + "#" + p.RiotIDTagline
}

// Side derives the map side from the team id.
func (p *Participant) Side() (Side, bool) {
	switch p.TeamID {
	case TeamBlue:
		return SideBlue, true
	case TeamRed:
		return SideRed, true
	}
	return SideBlue, false
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID     string
	GameMode    string
	QueueID     int
	StartedAt   time.Time
	Duration    time.Duration
	HasTimeline bool
}

// PlayerSummary aggregates the stored games of one player.
type PlayerSummary struct {
	PUUID      string
	RiotID     string
	Games      int
	Wins       int
	LastPlayed time.Time
}

// Account maps a riot id to the stable puuid used inside match records.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

func (a Account) RiotID() string { return a.GameName + "#" + a.TagLine }
