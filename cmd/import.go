package cmd

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir> [...]",
	Short: "Import match and timeline JSON files",
	Long: `Loads match-v5 match and timeline records saved as JSON into the store.
Directories are walked recursively. Files may be plain .json or compressed
with .json.gz, .json.zst or .json.bz2. Records are told apart by content.

Examples:
  lolmetrics import ~/Downloads/EUW1_7301234567.json ~/Downloads/EUW1_7301234567_timeline.json
  lolmetrics import ./dumps`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var files []string
	for _, arg := range args {
		found, err := collectRecordFiles(arg)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .json files found in %s", strings.Join(args, ", "))
	}

	var matches, timelines, failed int
	for _, path := range files {
		kind, id, err := importFile(db, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [error] %s: %v\n", path, err)
			failed++
			continue
		}
		log.WithFields(log.Fields{"file": path, "kind": kind}).Debug("imported")
		switch kind {
		case recordMatch:
			matches++
			fmt.Printf("  match     %s\n", id)
		case recordTimeline:
			timelines++
			fmt.Printf("  timeline  %s\n", id)
		}
	}

	fmt.Printf("\nDone: %d matches, %d timelines imported", matches, timelines)
	if failed > 0 {
		fmt.Printf(", %d files failed", failed)
	}
	fmt.Println()
	return nil
}

// collectRecordFiles expands a path into the record files beneath it.
func collectRecordFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isRecordFile(path) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func isRecordFile(path string) bool {
	for _, ext := range []string{".json", ".json.gz", ".json.zst", ".json.bz2"} {
		if strings.HasSuffix(strings.ToLower(path), ext) {
			return true
		}
	}
	return false
}

func importFile(db *storage.DB, path string) (recordKind, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	src, closeSrc, err := decompress(f, path)
	if err != nil {
		return 0, "", err
	}
	defer closeSrc()

	data, err := io.ReadAll(src)
	if err != nil {
		return 0, "", fmt.Errorf("read: %w", err)
	}
	m, tl, err := decodeRecord(data)
	if err != nil {
		return 0, "", err
	}
	if m != nil {
		if err := db.InsertMatch(m); err != nil {
			return 0, "", fmt.Errorf("insert match: %w", err)
		}
		return recordMatch, m.Metadata.MatchID, nil
	}
	if err := db.InsertTimeline(tl); err != nil {
		return 0, "", fmt.Errorf("insert timeline: %w", err)
	}
	return recordTimeline, tl.Metadata.MatchID, nil
}

// decompress wraps r according to the file extension.
func decompress(r io.Reader, path string) (io.Reader, func(), error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case strings.HasSuffix(lower, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case strings.HasSuffix(lower, ".bz2"):
		return bzip2.NewReader(r), func() {}, nil
	}
	return r, func() {}, nil
}

type recordKind int

const (
	recordMatch recordKind = iota + 1
	recordTimeline
)

func (k recordKind) String() string {
	if k == recordTimeline {
		return "timeline"
	}
	return "match"
}

// decodeRecord decodes either a match or a timeline. Timelines are the
// records whose info carries frames.
func decodeRecord(data []byte) (*model.Match, *model.Timeline, error) {
	var probe struct {
		Metadata struct {
			MatchID string `json:"matchId"`
		} `json:"metadata"`
		Info struct {
			Frames       json.RawMessage `json:"frames"`
			Participants json.RawMessage `json:"participants"`
		} `json:"info"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	if probe.Metadata.MatchID == "" {
		return nil, nil, fmt.Errorf("not a match record: metadata.matchId missing")
	}

	if len(probe.Info.Frames) > 0 {
		var tl model.Timeline
		if err := json.Unmarshal(data, &tl); err != nil {
			return nil, nil, fmt.Errorf("decode timeline: %w", err)
		}
		return nil, &tl, nil
	}
	if len(probe.Info.Participants) == 0 {
		return nil, nil, fmt.Errorf("match %s: no participants", probe.Metadata.MatchID)
	}
	var m model.Match
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("decode match: %w", err)
	}
	return &m, nil, nil
}
