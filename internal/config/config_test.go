package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// inDir runs the test from an empty directory so no stray .env is picked up.
func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"RIOT_API_KEY", "RIOT_REGION", "ANTHROPIC_API_KEY", "LOLMETRICS_WEEKS", "LOLMETRICS_MIN_DURATION"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	inDir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region != DefaultRegion || cfg.Weeks != 4 || cfg.MinDuration != 5*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	inDir(t, t.TempDir())
	t.Setenv("RIOT_REGION", "Americas")
	t.Setenv("LOLMETRICS_WEEKS", "8")
	t.Setenv("LOLMETRICS_MIN_DURATION", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region != "americas" || cfg.Weeks != 8 || cfg.MinDuration != 15*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadZeroMinDuration(t *testing.T) {
	clearEnv(t)
	inDir(t, t.TempDir())
	t.Setenv("LOLMETRICS_MIN_DURATION", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MinDuration != 0 {
		t.Errorf("MinDuration = %v, want 0", cfg.MinDuration)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"RIOT_REGION":             "moon",
		"LOLMETRICS_WEEKS":        "0",
		"LOLMETRICS_MIN_DURATION": "-1",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			inDir(t, t.TempDir())
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s: expected error", k, v)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("RIOT_API_KEY")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RIOT_API_KEY=RGAPI-from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	inDir(t, dir)
	t.Cleanup(func() { os.Unsetenv("RIOT_API_KEY") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RiotAPIKey != "RGAPI-from-file" {
		t.Errorf("RiotAPIKey = %q", cfg.RiotAPIKey)
	}
}

func TestRiotKeyFallsBackToFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := &Config{}

	if _, err := cfg.RiotKey(); err == nil {
		t.Error("expected error without env or key file")
	}

	if err := os.MkdirAll(filepath.Join(home, DirName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, DirName, "riot_api_key"), []byte("RGAPI-x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	key, err := cfg.RiotKey()
	if err != nil || key != "RGAPI-x" {
		t.Errorf("RiotKey = %q, %v", key, err)
	}

	cfg.RiotAPIKey = "RGAPI-env"
	if key, _ := cfg.RiotKey(); key != "RGAPI-env" {
		t.Errorf("env key should win, got %q", key)
	}
}
