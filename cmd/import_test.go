package cmd

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-lol-metrics/internal/storage"
)

const matchJSON = `{
  "metadata": {"matchId": "EUW1_42", "participants": ["a", "b"]},
  "info": {
    "gameMode": "CLASSIC", "queueId": 420, "gameDuration": 1800,
    "gameStartTimestamp": 1790000000000, "gameEndTimestamp": 1790001800000,
    "participants": [
      {"participantId": 1, "puuid": "a", "riotIdGameName": "Alpha", "riotIdTagline": "EUW",
       "championName": "Ahri", "teamId": 100, "teamPosition": "MIDDLE", "win": true},
      {"participantId": 2, "puuid": "b", "riotIdGameName": "Beta", "riotIdTagline": "EUW",
       "championName": "Zed", "teamId": 200, "teamPosition": "MIDDLE", "win": false}
    ]
  }
}`

const timelineJSON = `{
  "metadata": {"matchId": "EUW1_42"},
  "info": {
    "frameInterval": 60000,
    "participants": [{"participantId": 1, "puuid": "a"}, {"participantId": 2, "puuid": "b"}],
    "frames": [{"timestamp": 0, "participantFrames": {}, "events": []}]
  }
}`

func TestDecodeRecord(t *testing.T) {
	m, tl, err := decodeRecord([]byte(matchJSON))
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if m == nil || tl != nil {
		t.Fatalf("match record decoded as m=%v tl=%v", m, tl)
	}
	if m.Metadata.MatchID != "EUW1_42" || len(m.Info.Participants) != 2 {
		t.Errorf("unexpected match: %+v", m.Metadata)
	}

	m, tl, err = decodeRecord([]byte(timelineJSON))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if m != nil || tl == nil {
		t.Fatalf("timeline record decoded as m=%v tl=%v", m, tl)
	}
	if len(tl.Info.Frames) != 1 {
		t.Errorf("frames = %d, want 1", len(tl.Info.Frames))
	}
}

func TestDecodeRecordRejects(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"metadata":`,
		"no match id":     `{"metadata": {}, "info": {"participants": [{}]}}`,
		"no participants": `{"metadata": {"matchId": "EUW1_1"}, "info": {}}`,
	}
	for name, in := range cases {
		if _, _, err := decodeRecord([]byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestIsRecordFile(t *testing.T) {
	cases := map[string]bool{
		"EUW1_1.json":          true,
		"EUW1_1.JSON":          true,
		"EUW1_1.json.gz":       true,
		"EUW1_1.json.zst":      true,
		"EUW1_1.json.bz2":      true,
		"EUW1_1.txt":           false,
		"EUW1_1.gz":            false,
		"dumps/notes.json.bak": false,
	}
	for path, want := range cases {
		if got := isRecordFile(path); got != want {
			t.Errorf("isRecordFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestDecompress(t *testing.T) {
	payload := []byte(matchJSON)

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write(payload)
	w.Close()

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	zst := enc.EncodeAll(payload, nil)
	enc.Close()

	cases := []struct {
		path string
		data []byte
	}{
		{"m.json", payload},
		{"m.json.gz", gz.Bytes()},
		{"m.json.zst", zst},
	}
	for _, tc := range cases {
		r, closeFn, err := decompress(bytes.NewReader(tc.data), tc.path)
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		got, err := io.ReadAll(r)
		closeFn()
		if err != nil {
			t.Fatalf("%s: read: %v", tc.path, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("%s: payload mismatch", tc.path)
		}
	}
}

func TestImportFileAndCollect(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	matchPath := filepath.Join(dir, "EUW1_42.json")
	timelinePath := filepath.Join(sub, "EUW1_42_timeline.json")
	os.WriteFile(matchPath, []byte(matchJSON), 0o644)
	os.WriteFile(timelinePath, []byte(timelineJSON), 0o644)
	os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644)

	files, err := collectRecordFiles(dir)
	if err != nil {
		t.Fatalf("collectRecordFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %v", len(files), files)
	}

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	kind, id, err := importFile(db, matchPath)
	if err != nil {
		t.Fatalf("import match: %v", err)
	}
	if kind != recordMatch || id != "EUW1_42" {
		t.Errorf("got %s %s, want match EUW1_42", kind, id)
	}
	kind, _, err = importFile(db, timelinePath)
	if err != nil {
		t.Fatalf("import timeline: %v", err)
	}
	if kind != recordTimeline {
		t.Errorf("got %s, want timeline", kind)
	}

	if ok, _ := db.MatchExists("EUW1_42"); !ok {
		t.Error("match not stored")
	}
	if ok, _ := db.TimelineExists("EUW1_42"); !ok {
		t.Error("timeline not stored")
	}
	acc, err := resolvePlayer(db, "alpha#euw")
	if err != nil {
		t.Fatalf("resolvePlayer: %v", err)
	}
	if acc.PUUID != "a" {
		t.Errorf("resolved puuid %q, want a", acc.PUUID)
	}
}
