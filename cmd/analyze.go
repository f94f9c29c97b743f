package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/glamour"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/aggregator"
	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/storage"
)

const analyzeSystemPrompt = `You are a League of Legends performance analyst. You are given structured
statistics computed from a player's ranked games and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on what the player can actually improve.
- Avoid generic advice unless it directly explains a pattern in the data.
- Answer in Markdown.

Data layout:
- groups: one block per week of the lookback window, oldest first, then "Total".
  Every metric has a value; week blocks also carry a delta against the previous week.
  higherIsBetter=false marks metrics where a decrease is an improvement (deaths, soloDeaths).
- kills, deaths, assists, kda, soloKills and soloDeaths are means (averages) across games.
- csPerMinute, the share metrics and visionScorePerMinute are medians across games.
- winRate is a percentage of games won.
- goldShare / championDamageShare / objectiveDamageShare / visionShare: percent of
  the team total.
- atMinute: lane state against the same-role opponent at minutes 2..20, medians
  across the games that lasted that long. goldDiff, csDiff and levelDiff are player
  minus opponent.
- legendaryBuys: median completion time of the 1st, 2nd, ... legendary item, in
  nanoseconds.
- soloKills: kills the player scored with no assisting participants.
- soloDeaths: deaths with no teammate within 4000 map units of the death position,
  checked in the timeline frames just before and just after the death.
- champions / enemies: the Total block split by (role, own champion) and by
  (role, lane opponent champion).`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeRaw    bool

	analyzeFilter filterFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <name#tag|puuid> <question>",
	Short: "AI-powered grounded analysis of a player's statistics (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().BoolVar(&analyzeRaw, "raw", false, "stream the answer as plain text instead of rendering Markdown")
	addFilterFlags(analyzeCmd, &analyzeFilter)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	acc, groups, err := playerStats(db, args[0], analyzeFilter)
	if err != nil {
		return err
	}
	opts, err := analyzeFilter.options(time.Now())
	if err != nil {
		return err
	}
	ds, err := loadDataset(db, acc.PUUID, opts)
	if err != nil {
		return err
	}
	champions, enemies, err := aggregator.Breakdowns(ds, opts)
	if err != nil {
		return explainEngineError(acc, err)
	}

	contextJSON, err := buildPlayerContext(acc, analyzeFilter, groups, champions, enemies)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	apiKey := analyzeAPIKey
	if apiKey == "" && cfg != nil {
		apiKey = cfg.AnthropicAPIKey
	}
	return callAnthropic(cmd.Context(), apiKey, analyzeModel, contextJSON, question, analyzeRaw)
}

// buildPlayerContext serialises the player's statistics into compact JSON.
// Heatmaps and nested breakdowns are dropped; the model cannot use them.
func buildPlayerContext(acc *model.Account, f filterFlags, groups []*model.GroupStats, champions, enemies []model.RoleBreakdown) (string, error) {
	slim := func(g *model.GroupStats) *model.GroupStats {
		c := *g
		c.Heatmap = nil
		c.PerRoleChampion = nil
		c.PerRoleEnemy = nil
		c.PreviousAtMinute = nil
		return &c
	}
	slimBreakdown := func(rbs []model.RoleBreakdown) []model.RoleBreakdown {
		out := make([]model.RoleBreakdown, len(rbs))
		for i, rb := range rbs {
			out[i] = model.RoleBreakdown{Role: rb.Role, Champions: make([]model.ChampionStats, len(rb.Champions))}
			for j, c := range rb.Champions {
				c.Stats = slim(c.Stats)
				c.Stats.AtMinute = nil
				c.Stats.LegendaryBuys = nil
				out[i].Champions[j] = c
			}
		}
		return out
	}

	slimGroups := make([]*model.GroupStats, len(groups))
	for i, g := range groups {
		slimGroups[i] = slim(g)
	}

	doc := map[string]any{
		"subject": "player",
		"player":  acc.RiotID(),
		"filters": map[string]any{
			"role":     f.role,
			"champion": f.champion,
		},
		"groups":    slimGroups,
		"champions": slimBreakdown(champions),
		"enemies":   slimBreakdown(enemies),
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API. The answer is
// rendered as Markdown once complete unless raw is set.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string, raw bool) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	var answer strings.Builder
	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				text := delta.Delta.AsTextDelta().Text
				answer.WriteString(text)
				if raw {
					fmt.Fprint(os.Stdout, text)
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		// Provide a cleaner error message for common API errors.
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}

	if !raw {
		out, err := glamour.Render(answer.String(), "dark")
		if err != nil {
			out = answer.String()
		}
		fmt.Fprint(os.Stdout, out)
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")
	return nil
}
