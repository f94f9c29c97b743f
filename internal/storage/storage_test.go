package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/pable/go-lol-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var day1 = time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

func testMatch(id string, start time.Time, puuids ...string) *model.Match {
	m := &model.Match{
		Metadata: model.Metadata{MatchID: id},
		Info: model.Info{
			GameMode:           "CLASSIC",
			QueueID:            420,
			GameDuration:       1800,
			GameStartTimestamp: start.UnixMilli(),
			GameEndTimestamp:   start.Add(30 * time.Minute).UnixMilli(),
		},
	}
	for i, p := range puuids {
		team := model.TeamBlue
		if i%2 == 1 {
			team = model.TeamRed
		}
		m.Info.Participants = append(m.Info.Participants, model.Participant{
			ParticipantID:  i + 1,
			PUUID:          p,
			RiotIDGameName: "Player" + p,
			RiotIDTagline:  "EUW",
			ChampionName:   "Ahri",
			TeamID:         team,
			TeamPosition:   model.RoleMiddle,
			Win:            team == model.TeamBlue,
			Kills:          i,
		})
	}
	return m
}

func testTimeline(id string) *model.Timeline {
	return &model.Timeline{
		Metadata: model.Metadata{MatchID: id},
		Info: model.TimelineInfo{
			FrameInterval: 60000,
			Participants:  []model.TimelineParticipant{{ParticipantID: 1, PUUID: "a"}},
			Frames: []model.Frame{{
				Timestamp: 60000,
				ParticipantFrames: map[int]model.ParticipantFrame{
					1: {ParticipantID: 1, TotalGold: 800, Position: model.Point{X: 100, Y: 200}},
				},
				Events: []model.Event{
					&model.ItemPurchased{Timestamp: 61000, ParticipantID: 1, ItemID: 1055},
				},
			}},
		},
	}
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testMatch("EUW1_1", day1, "a", "b")); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists("EUW1_1")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestMatchPayloadRoundTrip(t *testing.T) {
	db := openMemDB(t)

	in := testMatch("EUW1_2", day1, "a", "b")
	if err := db.InsertMatch(in); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	out, err := db.GetMatch("EUW1_2")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if out == nil {
		t.Fatal("expected match, got nil")
	}
	if len(out.Info.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(out.Info.Participants))
	}
	if got := out.Info.Participants[1]; got.PUUID != "b" || got.TeamID != model.TeamRed || got.Kills != 1 {
		t.Errorf("participant 2 = %+v", got)
	}
	if out.Info.Duration() != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", out.Info.Duration())
	}

	missing, err := db.GetMatch("nope")
	if err != nil || missing != nil {
		t.Errorf("GetMatch(nope) = %v, %v; want nil, nil", missing, err)
	}
}

func TestTimelineRoundTrip(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertTimeline(testTimeline("EUW1_3")); err != nil {
		t.Fatalf("InsertTimeline: %v", err)
	}
	tl, err := db.GetTimeline("EUW1_3")
	if err != nil {
		t.Fatalf("GetTimeline: %v", err)
	}
	if tl == nil || len(tl.Info.Frames) != 1 {
		t.Fatalf("timeline = %+v", tl)
	}
	f := tl.Info.Frames[0]
	if f.ParticipantFrames[1].TotalGold != 800 {
		t.Errorf("total gold = %d, want 800", f.ParticipantFrames[1].TotalGold)
	}
	if len(f.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.Events))
	}
	buy, ok := f.Events[0].(*model.ItemPurchased)
	if !ok || buy.ItemID != 1055 {
		t.Errorf("event = %#v, want ItemPurchased 1055", f.Events[0])
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)

	for _, m := range []*model.Match{
		testMatch("EUW1_10", day1, "a", "b"),
		testMatch("EUW1_11", day1.Add(time.Hour), "a", "c"),
		testMatch("EUW1_12", day1.Add(2*time.Hour), "b", "c"),
	} {
		if err := db.InsertMatch(m); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}
	if err := db.InsertTimeline(testTimeline("EUW1_11")); err != nil {
		t.Fatalf("InsertTimeline: %v", err)
	}

	all, err := db.ListMatches("")
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(all))
	}
	if all[0].MatchID != "EUW1_12" {
		t.Errorf("first match = %s, want most recent EUW1_12", all[0].MatchID)
	}

	mine, err := db.ListMatches("a")
	if err != nil {
		t.Fatalf("ListMatches(a): %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 matches for a, got %d", len(mine))
	}
	if mine[0].MatchID != "EUW1_11" || !mine[0].HasTimeline || mine[1].HasTimeline {
		t.Errorf("matches for a = %+v", mine)
	}
	if !mine[1].StartedAt.Equal(day1) || mine[1].Duration != 30*time.Minute {
		t.Errorf("summary = %+v", mine[1])
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testMatch("EUW1_7301", day1, "a")); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	s, err := db.GetMatchByPrefix("EUW1_73")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if s == nil || s.MatchID != "EUW1_7301" {
		t.Fatalf("got %+v, want EUW1_7301", s)
	}

	// Underscore must match literally, not as a LIKE wildcard.
	s2, _ := db.GetMatchByPrefix("EUW1X")
	if s2 != nil {
		t.Errorf("expected no match for EUW1X, got %s", s2.MatchID)
	}
}

func TestPlayerMatchesSince(t *testing.T) {
	db := openMemDB(t)

	for i := 0; i < 3; i++ {
		m := testMatch(fmt.Sprintf("EUW1_%d", 20+i), day1.Add(time.Duration(i)*24*time.Hour), "a", "b")
		if err := db.InsertMatch(m); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	all, err := db.PlayerMatches("a", time.Time{})
	if err != nil {
		t.Fatalf("PlayerMatches: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 matches, got %d", len(all))
	}

	recent, err := db.PlayerMatches("a", day1.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("PlayerMatches: %v", err)
	}
	if len(recent) != 2 || recent["EUW1_20"] != nil {
		t.Errorf("recent = %d matches, want EUW1_21 and EUW1_22", len(recent))
	}

	none, _ := db.PlayerMatches("zzz", time.Time{})
	if len(none) != 0 {
		t.Errorf("unknown player has %d matches", len(none))
	}
}

func TestTimelinesSkipsMissing(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertTimeline(testTimeline("EUW1_30")); err != nil {
		t.Fatalf("InsertTimeline: %v", err)
	}
	got, err := db.Timelines([]string{"EUW1_30", "EUW1_31"})
	if err != nil {
		t.Fatalf("Timelines: %v", err)
	}
	if len(got) != 1 || got["EUW1_30"] == nil {
		t.Errorf("timelines = %v", got)
	}
}

func TestResolveAccount(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testMatch("EUW1_40", day1, "a", "b")); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	// Falls back to the participant index.
	acc, err := db.ResolveAccount("playerb#euw")
	if err != nil {
		t.Fatalf("ResolveAccount: %v", err)
	}
	if acc == nil || acc.PUUID != "b" || acc.GameName != "Playerb" || acc.TagLine != "EUW" {
		t.Fatalf("account = %+v", acc)
	}

	// A stored account wins over stale participant rows.
	if err := db.UpsertAccount(model.Account{PUUID: "a", GameName: "Renamed", TagLine: "1234"}); err != nil {
		t.Fatalf("UpsertAccount: %v", err)
	}
	if err := db.UpsertAccount(model.Account{PUUID: "a", GameName: "Renamed", TagLine: "5678"}); err != nil {
		t.Fatalf("UpsertAccount: %v", err)
	}
	acc, _ = db.ResolveAccount("RENAMED#5678")
	if acc == nil || acc.PUUID != "a" {
		t.Errorf("account = %+v, want puuid a", acc)
	}
	acc, _ = db.ResolveAccount("a")
	if acc == nil || acc.RiotID() != "Renamed#5678" {
		t.Errorf("account by puuid = %+v", acc)
	}

	missing, err := db.ResolveAccount("ghost#000")
	if err != nil || missing != nil {
		t.Errorf("ResolveAccount(ghost) = %v, %v; want nil, nil", missing, err)
	}
}

func TestPlayerSummariesAndCounts(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(testMatch("EUW1_50", day1, "a", "b"))
	db.InsertMatch(testMatch("EUW1_51", day1.Add(time.Hour), "a", "c"))
	db.InsertTimeline(testTimeline("EUW1_50"))

	sums, err := db.PlayerSummaries()
	if err != nil {
		t.Fatalf("PlayerSummaries: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("players = %d, want 3", len(sums))
	}
	if sums[0].PUUID != "a" || sums[0].Games != 2 || sums[0].Wins != 2 {
		t.Errorf("top player = %+v", sums[0])
	}
	if !sums[0].LastPlayed.Equal(day1.Add(time.Hour)) {
		t.Errorf("last played = %v", sums[0].LastPlayed)
	}

	matches, timelines, accounts, err := db.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if matches != 2 || timelines != 1 || accounts != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/1/0", matches, timelines, accounts)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)

	db.InsertMatch(testMatch("EUW1_60", day1, "a", "b"))

	cols, rows, err := db.QueryRaw("SELECT puuid, kills, payload FROM match_participants p JOIN matches m USING(match_id) ORDER BY puuid")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 3 || cols[0] != "puuid" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 2 || rows[1][0] != "b" || rows[1][1] != "1" {
		t.Errorf("rows = %v", rows)
	}
	if rows[0][2] == "" || rows[0][2][0] != '<' {
		t.Errorf("blob cell = %q, want byte summary", rows[0][2])
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	m := testMatch("EUW1_70", day1, "a", "b")
	if err := db.InsertMatch(m); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	m.Info.Participants[0].Kills = 9
	if err := db.InsertMatch(m); err != nil {
		t.Fatalf("second insert: %v", err)
	}
	got, _ := db.GetMatch("EUW1_70")
	if got.Info.Participants[0].Kills != 9 {
		t.Errorf("kills = %d, want replaced value 9", got.Info.Participants[0].Kills)
	}
	_, rows, _ := db.QueryRaw("SELECT COUNT(1) FROM match_participants")
	if rows[0][0] != "2" {
		t.Errorf("participant rows = %s, want 2", rows[0][0])
	}
}
