package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("lolmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("lolmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, args := shellSplit(line)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db, args)
		case "show":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: show <match-id-prefix> <name#tag|puuid>")
				continue
			}
			shellShow(db, args[0], args[1])
		case "stats":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: stats <name#tag|puuid>")
				continue
			}
			shellStats(db, args[0])
		case "breakdown":
			enemy := false
			var rest []string
			for _, a := range args {
				if a == "--enemy" {
					enemy = true
					continue
				}
				rest = append(rest, a)
			}
			if len(rest) != 1 {
				cError.Fprintln(os.Stderr, "usage: breakdown <name#tag|puuid> [--enemy]")
				continue
			}
			shellBreakdown(db, rest[0], enemy)
		case "players":
			shellPlayers(db)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

// shellSplit splits a line into a command and its arguments. Double quotes
// group words so Riot ids with spaces can be typed.
func shellSplit(line string) (string, []string) {
	var (
		tokens []string
		cur    strings.Builder
		quoted bool
		inTok  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inTok = true
		case r == ' ' && !quoted:
			if inTok {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if inTok {
		tokens = append(tokens, cur.String())
	}
	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0], tokens[1:]
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [player]", "list stored matches, optionally for one player"},
		{"show <match-id-prefix> <player>", "show one match from a player's point of view"},
		{"stats <player>", "weekly statistics with week-over-week deltas"},
		{"breakdown <player> [--enemy]", "per role and champion (or lane opponent) statistics"},
		{"players", "most frequently seen players"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	cMuted.Println("\n  players are \"name#tag\" or a puuid; quote names containing spaces")
	fmt.Println()
}

func shellList(db *storage.DB, args []string) {
	var puuid string
	if len(args) > 0 {
		acc, err := resolvePlayer(db, args[0])
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		puuid = acc.PUUID
	}
	matches, err := db.ListMatches(puuid)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	printMatchList(matches)
}

func shellShow(db *storage.DB, prefix, player string) {
	summary, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "no match found with id prefix %q\n", prefix)
		return
	}
	acc, err := resolvePlayer(db, player)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	m, err := db.GetMatch(summary.MatchID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	tl, err := db.GetTimeline(summary.MatchID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if tl == nil {
		cWarn.Fprintf(os.Stderr, "match %s has no stored timeline\n", summary.MatchID)
		return
	}
	s, err := aggregator.Extract(m, tl, acc.PUUID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	printMatchHeader(*summary)
	report.PrintSample(os.Stdout, s)
}

func shellStats(db *storage.DB, player string) {
	acc, groups, err := playerStats(db, player, filterFlags{})
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stdout)
	cHeader.Fprintf(os.Stdout, "=== %s ===\n\n", acc.RiotID())
	report.PrintGroups(os.Stdout, groups)

	total := groups[len(groups)-1]
	fmt.Fprintln(os.Stdout)
	cHeader.Fprintf(os.Stdout, "--- Lane checkpoints: %s ---\n\n", total.Title)
	report.PrintCheckpoints(os.Stdout, total)
}

func shellBreakdown(db *storage.DB, player string, enemy bool) {
	acc, err := resolvePlayer(db, player)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	opts, err := filterFlags{}.options(time.Now())
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	ds, err := loadDataset(db, acc.PUUID, opts)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	champions, enemies, err := aggregator.Breakdowns(ds, opts)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", explainEngineError(acc, err))
		return
	}
	fmt.Fprintln(os.Stdout)
	cHeader.Fprintf(os.Stdout, "=== %s ===\n\n", acc.RiotID())
	if enemy {
		report.PrintBreakdown(os.Stdout, "ENEMY", enemies)
	} else {
		report.PrintBreakdown(os.Stdout, "CHAMPION", champions)
	}
}

func shellPlayers(db *storage.DB) {
	players, err := db.PlayerSummaries()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(players) == 0 {
		cMuted.Println("No players stored yet.")
		return
	}
	report.PrintPlayerSummaries(os.Stdout, players)
}
