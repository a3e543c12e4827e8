package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ShayCichocki/momrefine/internal/config"
)

func TestConfigValues_RoundTrip(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"search.max_depth", "30"},
		{"search.fill_holes", "true"},
		{"ball_search.depth", "4"},
		{"ball_search.min_score", "-75.5"},
		{"files.words", "/data/words.txt"},
		{"relators", "gmGM,ggnGGN"},
		{"log.level", "debug"},
		{"state.enabled", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := config.Default()
			if err := setConfigValue(cfg, tt.key, tt.value); err != nil {
				t.Fatalf("setConfigValue failed: %v", err)
			}
			got, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue failed: %v", err)
			}
			if got != tt.value {
				t.Errorf("expected %q, got %q", tt.value, got)
			}
		})
	}
}

func TestSetConfigValue_Errors(t *testing.T) {
	cfg := config.Default()
	if err := setConfigValue(cfg, "search.max_depth", "deep"); err == nil {
		t.Error("expected error for non-integer depth")
	}
	if err := setConfigValue(cfg, "search.improve_tree", "maybe"); err == nil {
		t.Error("expected error for non-boolean")
	}
	if err := setConfigValue(cfg, "nope", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetConfigValue_NotSet(t *testing.T) {
	cfg := config.Default()
	got, err := getConfigValue(cfg, "files.mom")
	if err != nil {
		t.Fatalf("getConfigValue failed: %v", err)
	}
	if got != "(not set)" {
		t.Errorf("expected (not set), got %q", got)
	}
}

func TestDisplayAllConfig(t *testing.T) {
	var buf bytes.Buffer
	displayAllConfig(&buf, config.Default())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(configKeys) {
		t.Errorf("expected %d lines, got %d", len(configKeys), len(lines))
	}
	if !strings.Contains(buf.String(), "search.max_depth: 18") {
		t.Errorf("expected default max depth in output:\n%s", buf.String())
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" gmGM, ,gg ")
	if len(got) != 2 || got[0] != "gmGM" || got[1] != "gg" {
		t.Errorf("expected [gmGM gg], got %v", got)
	}
}
