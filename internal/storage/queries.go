package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pable/go-lol-metrics/internal/model"
)

// MatchExists returns true if the match is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TimelineExists returns true if the match timeline is already stored.
func (db *DB) TimelineExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM timelines WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores the match payload and its participant index in a
// transaction. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(m *model.Match) error {
	if m.Metadata.MatchID == "" {
		return errors.New("insert match: empty match id")
	}
	payload, err := encodePayload(m)
	if err != nil {
		return err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(match_id, game_mode, queue_id, game_start, duration_ms, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Metadata.MatchID, m.Info.GameMode, m.Info.QueueID,
		m.Info.GameStartTimestamp, m.Info.Duration().Milliseconds(), payload,
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.Metadata.MatchID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_participants(
			match_id, puuid, riot_id, champion, team_position, team_id,
			win, kills, deaths, assists
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range m.Info.Participants {
		p := &m.Info.Participants[i]
		_, err = stmt.Exec(
			m.Metadata.MatchID, p.PUUID, p.RiotID(), p.ChampionName, string(p.TeamPosition), p.TeamID,
			boolInt(p.Win), p.Kills, p.Deaths, p.Assists,
		)
		if err != nil {
			return fmt.Errorf("insert participant %s: %w", p.PUUID, err)
		}
	}
	return tx.Commit()
}

// InsertTimeline stores a timeline payload keyed by its match id.
func (db *DB) InsertTimeline(tl *model.Timeline) error {
	if tl.Metadata.MatchID == "" {
		return errors.New("insert timeline: empty match id")
	}
	payload, err := encodePayload(tl)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`INSERT OR REPLACE INTO timelines(match_id, payload) VALUES (?, ?)`,
		tl.Metadata.MatchID, payload)
	return err
}

// GetMatch returns the stored match, or nil if not found.
func (db *DB) GetMatch(matchID string) (*model.Match, error) {
	var blob []byte
	err := db.conn.QueryRow("SELECT payload FROM matches WHERE match_id = ?", matchID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m model.Match
	if err := decodePayload(blob, &m); err != nil {
		return nil, fmt.Errorf("match %s: %w", matchID, err)
	}
	return &m, nil
}

// GetTimeline returns the stored timeline, or nil if not found.
func (db *DB) GetTimeline(matchID string) (*model.Timeline, error) {
	var blob []byte
	err := db.conn.QueryRow("SELECT payload FROM timelines WHERE match_id = ?", matchID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tl model.Timeline
	if err := decodePayload(blob, &tl); err != nil {
		return nil, fmt.Errorf("timeline %s: %w", matchID, err)
	}
	return &tl, nil
}

const summaryColumns = `m.match_id, m.game_mode, m.queue_id, m.game_start, m.duration_ms, t.match_id IS NOT NULL`

func scanSummary(row interface{ Scan(...any) error }) (model.MatchSummary, error) {
	var (
		s          model.MatchSummary
		startMs    int64
		durationMs int64
	)
	if err := row.Scan(&s.MatchID, &s.GameMode, &s.QueueID, &startMs, &durationMs, &s.HasTimeline); err != nil {
		return s, err
	}
	s.StartedAt = time.UnixMilli(startMs).UTC()
	s.Duration = time.Duration(durationMs) * time.Millisecond
	return s, nil
}

// ListMatches returns stored matches, most recent first. A non-empty puuid
// restricts the list to games that player took part in.
func (db *DB) ListMatches(puuid string) ([]model.MatchSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM matches m LEFT JOIN timelines t ON t.match_id = m.match_id`
	var args []any
	if puuid != "" {
		query += ` JOIN match_participants p ON p.match_id = m.match_id WHERE p.puuid = ?`
		args = append(args, puuid)
	}
	query += ` ORDER BY m.game_start DESC`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix returns the first match whose id starts with prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`SELECT `+summaryColumns+`
		FROM matches m LEFT JOIN timelines t ON t.match_id = m.match_id
		WHERE m.match_id LIKE ? ESCAPE '\' ORDER BY m.match_id LIMIT 1`, escapeLike(prefix)+"%")
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PlayerMatches loads every stored match the player took part in that
// started at or after since. A zero since loads everything.
func (db *DB) PlayerMatches(puuid string, since time.Time) (map[string]*model.Match, error) {
	var sinceMs int64
	if !since.IsZero() {
		sinceMs = since.UnixMilli()
	}
	rows, err := db.conn.Query(`
		SELECT m.match_id, m.payload
		FROM matches m JOIN match_participants p ON p.match_id = m.match_id
		WHERE p.puuid = ? AND m.game_start >= ?`, puuid, sinceMs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*model.Match)
	for rows.Next() {
		var (
			id   string
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		var m model.Match
		if err := decodePayload(blob, &m); err != nil {
			return nil, fmt.Errorf("match %s: %w", id, err)
		}
		out[id] = &m
	}
	return out, rows.Err()
}

// Timelines loads the stored timelines for the given match ids. Ids without
// a stored timeline are absent from the result.
func (db *DB) Timelines(matchIDs []string) (map[string]*model.Timeline, error) {
	out := make(map[string]*model.Timeline, len(matchIDs))
	// SQLite caps bound parameters; page through large id sets.
	const page = 500
	for start := 0; start < len(matchIDs); start += page {
		end := min(start+page, len(matchIDs))
		ids := matchIDs[start:end]
		args := make([]any, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		rows, err := db.conn.Query(
			`SELECT match_id, payload FROM timelines WHERE match_id IN (`+placeholders(len(ids))+`)`, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var (
				id   string
				blob []byte
			)
			if err := rows.Scan(&id, &blob); err != nil {
				rows.Close()
				return nil, err
			}
			var tl model.Timeline
			if err := decodePayload(blob, &tl); err != nil {
				rows.Close()
				return nil, fmt.Errorf("timeline %s: %w", id, err)
			}
			out[id] = &tl
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpsertAccount records the riot id currently attached to a puuid.
func (db *DB) UpsertAccount(a model.Account) error {
	_, err := db.conn.Exec(`
		INSERT INTO accounts(puuid, game_name, tag_line, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(puuid) DO UPDATE SET
			game_name = excluded.game_name,
			tag_line = excluded.tag_line,
			updated_at = excluded.updated_at`,
		a.PUUID, a.GameName, a.TagLine, time.Now().Unix(),
	)
	return err
}

// ResolveAccount looks up a player by riot id ("name#tag", case-insensitive)
// or raw puuid. Known accounts win; otherwise the participant index of
// imported matches is searched. Returns nil if nobody matches.
func (db *DB) ResolveAccount(query string) (*model.Account, error) {
	name, tag, hasTag := strings.Cut(query, "#")

	var a model.Account
	var err error
	if hasTag {
		err = db.conn.QueryRow(`
			SELECT puuid, game_name, tag_line FROM accounts
			WHERE game_name = ? COLLATE NOCASE AND tag_line = ? COLLATE NOCASE`,
			name, tag).Scan(&a.PUUID, &a.GameName, &a.TagLine)
	} else {
		err = db.conn.QueryRow(`SELECT puuid, game_name, tag_line FROM accounts WHERE puuid = ?`,
			query).Scan(&a.PUUID, &a.GameName, &a.TagLine)
	}
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var riotID string
	if hasTag {
		err = db.conn.QueryRow(`
			SELECT puuid, riot_id FROM match_participants
			WHERE riot_id = ? COLLATE NOCASE LIMIT 1`, query).Scan(&a.PUUID, &riotID)
	} else {
		err = db.conn.QueryRow(`
			SELECT puuid, riot_id FROM match_participants
			WHERE puuid = ? LIMIT 1`, query).Scan(&a.PUUID, &riotID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.GameName, a.TagLine, _ = strings.Cut(riotID, "#")
	return &a, nil
}

// PlayerSummaries returns per-player game counts, busiest players first.
func (db *DB) PlayerSummaries() ([]model.PlayerSummary, error) {
	rows, err := db.conn.Query(`
		SELECT p.puuid, MAX(p.riot_id), COUNT(1), SUM(p.win), MAX(m.game_start)
		FROM match_participants p JOIN matches m ON m.match_id = p.match_id
		GROUP BY p.puuid
		ORDER BY COUNT(1) DESC, MAX(p.riot_id)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSummary
	for rows.Next() {
		var (
			s      model.PlayerSummary
			lastMs int64
		)
		if err := rows.Scan(&s.PUUID, &s.RiotID, &s.Games, &s.Wins, &lastMs); err != nil {
			return nil, err
		}
		s.LastPlayed = time.UnixMilli(lastMs).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Counts returns the number of stored matches, timelines and accounts.
func (db *DB) Counts() (matches, timelines, accounts int, err error) {
	err = db.conn.QueryRow(`
		SELECT (SELECT COUNT(1) FROM matches),
		       (SELECT COUNT(1) FROM timelines),
		       (SELECT COUNT(1) FROM accounts)`).Scan(&matches, &timelines, &accounts)
	return
}

// QueryRaw runs an arbitrary read query and renders every cell as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(x))
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
