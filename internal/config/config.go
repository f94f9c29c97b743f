// Package config collects runtime settings from the environment, an optional
// .env file and the ~/.lolmetrics directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/pable/go-lol-metrics/internal/aggregator"
)

const (
	DefaultRegion = "europe"

	// DirName is the per-user directory holding the database and key files.
	DirName = ".lolmetrics"
)

// Config holds settings shared by the commands.
type Config struct {
	RiotAPIKey      string
	Region          string
	AnthropicAPIKey string
	Weeks           int
	MinDuration     time.Duration
}

// envPaths are tried in order; the first .env found wins.
var envPaths = []string{".env", filepath.Join("..", ".env")}

// Load reads the first .env file found (if any) and then the environment.
// Values already set in the environment are not overridden by .env.
func Load() (*Config, error) {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			log.WithField("path", p).Debug("loaded .env")
			break
		}
	}

	cfg := &Config{
		RiotAPIKey:      os.Getenv("RIOT_API_KEY"),
		Region:          strings.ToLower(os.Getenv("RIOT_REGION")),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Weeks:           aggregator.DefaultWeeks,
		MinDuration:     aggregator.DefaultMinDuration,
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	switch cfg.Region {
	case "americas", "europe", "asia", "sea":
	default:
		return nil, fmt.Errorf("RIOT_REGION %q: want americas, europe, asia or sea", cfg.Region)
	}

	if v := os.Getenv("LOLMETRICS_WEEKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("LOLMETRICS_WEEKS %q: want a positive integer", v)
		}
		cfg.Weeks = n
	}
	if v := os.Getenv("LOLMETRICS_MIN_DURATION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("LOLMETRICS_MIN_DURATION %q: want minutes as a non-negative integer (0 keeps every game)", v)
		}
		cfg.MinDuration = time.Duration(n) * time.Minute
	}
	return cfg, nil
}

// RiotKey returns the Riot API key from RIOT_API_KEY or ~/.lolmetrics/riot_api_key.
func (c *Config) RiotKey() (string, error) {
	if c.RiotAPIKey != "" {
		return c.RiotAPIKey, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(home, DirName, "riot_api_key"))
	if err != nil {
		return "", fmt.Errorf("Riot API key not found: set RIOT_API_KEY or create ~/%s/riot_api_key", DirName)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("~/%s/riot_api_key is empty", DirName)
	}
	return key, nil
}

// DefaultDBPath returns ~/.lolmetrics/matches.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot determine home directory:", err)
		os.Exit(1)
	}
	return filepath.Join(home, DirName, "matches.db")
}
