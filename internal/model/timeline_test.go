package model

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

const frameFixture = `{
	"timestamp": 120042,
	"participantFrames": {
		"1": {"participantId": 1, "position": {"x": 1200, "y": 13500}, "totalGold": 950, "minionsKilled": 12, "jungleMinionsKilled": 0, "xp": 660, "level": 3},
		"6": {"participantId": 6, "position": {"x": 1900, "y": 12800}, "totalGold": 820, "minionsKilled": 9, "jungleMinionsKilled": 1, "xp": 540, "level": 2}
	},
	"events": [
		{"type": "ITEM_PURCHASED", "timestamp": 61000, "participantId": 1, "itemId": 1055},
		{"type": "ITEM_UNDO", "timestamp": 62000, "participantId": 1, "beforeId": 1055, "afterId": 0, "goldGain": 450},
		{"type": "CHAMPION_KILL", "timestamp": 95500, "killerId": 1, "victimId": 6, "position": {"x": 1500, "y": 13000}, "bounty": 300, "shutdownBounty": 0, "killStreakLength": 1},
		{"type": "WARD_PLACED", "timestamp": 97000, "creatorId": 6, "wardType": "YELLOW_TRINKET"},
		{"type": "DRAGON_SOUL_GIVEN", "timestamp": 99000, "teamId": 100, "name": "Ocean"}
	]
}`

func TestFrameDecodesEventVariants(t *testing.T) {
	var f Frame
	if err := json.Unmarshal([]byte(frameFixture), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Timestamp.Duration() != 120042*time.Millisecond {
		t.Errorf("timestamp = %v", f.Timestamp.Duration())
	}
	if len(f.ParticipantFrames) != 2 {
		t.Fatalf("participant frames = %d, want 2", len(f.ParticipantFrames))
	}
	if pf := f.ParticipantFrames[6]; pf.JungleMinionsKilled != 1 || pf.Position.Y != 12800 {
		t.Errorf("participant 6 frame = %+v", pf)
	}
	if len(f.Events) != 5 {
		t.Fatalf("events = %d, want 5", len(f.Events))
	}

	buy, ok := f.Events[0].(*ItemPurchased)
	if !ok || buy.ItemID != 1055 || buy.ParticipantID != 1 {
		t.Errorf("event 0 = %#v", f.Events[0])
	}
	undo, ok := f.Events[1].(*ItemUndo)
	if !ok || undo.BeforeID != 1055 || undo.AfterID != 0 {
		t.Errorf("event 1 = %#v", f.Events[1])
	}
	kill, ok := f.Events[2].(*ChampionKill)
	if !ok || kill.KillerID != 1 || kill.VictimID != 6 || len(kill.AssistingParticipantIDs) != 0 {
		t.Errorf("event 2 = %#v", f.Events[2])
	}
	if kill.At() != 95500*time.Millisecond {
		t.Errorf("kill at %v", kill.At())
	}
	if _, ok := f.Events[3].(*WardPlaced); !ok {
		t.Errorf("event 3 = %#v", f.Events[3])
	}
	other, ok := f.Events[4].(*OtherEvent)
	if !ok || other.Type() != "DRAGON_SOUL_GIVEN" || other.At() != 99*time.Second {
		t.Errorf("event 4 = %#v", f.Events[4])
	}
}

func TestFrameRoundTripKeepsEventTypes(t *testing.T) {
	var f Frame
	if err := json.Unmarshal([]byte(frameFixture), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again Frame
	if err := json.Unmarshal(b, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if len(again.Events) != len(f.Events) {
		t.Fatalf("events = %d, want %d", len(again.Events), len(f.Events))
	}
	for i := range f.Events {
		if again.Events[i].Type() != f.Events[i].Type() {
			t.Errorf("event %d type = %s, want %s", i, again.Events[i].Type(), f.Events[i].Type())
		}
	}
}

func TestDecodeEventRejectsMissingType(t *testing.T) {
	if _, err := DecodeEvent([]byte(`{"timestamp": 5}`)); err == nil {
		t.Error("expected error for event without type")
	}
}

func TestPointDistance(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3000, Y: 4000}
	if d := a.Distance(b); d != 5000 {
		t.Errorf("distance = %v, want 5000", d)
	}
	if d := b.Distance(b); d != 0 {
		t.Errorf("self distance = %v, want 0", d)
	}
}

func TestInfoDurationUnits(t *testing.T) {
	withEnd := Info{GameDuration: 1830, GameEndTimestamp: 1700000000000}
	if got := withEnd.Duration(); got != 1830*time.Second {
		t.Errorf("with end timestamp: %v, want 30m30s", got)
	}
	legacy := Info{GameDuration: 1830000}
	if got := legacy.Duration(); got != 1830*time.Second {
		t.Errorf("legacy milliseconds: %v, want 30m30s", got)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"top":     RoleTop,
		"MID":     RoleMiddle,
		"adc":     RoleBottom,
		"Support": RoleSupport,
		"utility": RoleSupport,
		"jungle":  RoleJungle,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		if !ok || got != want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseRole("carry"); ok {
		t.Error("ParseRole(carry) should fail")
	}
}
