package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ShayCichocki/momrefine/internal/state"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
		{72 * time.Hour, "3d"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDisplayRun(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finish := start.Add(90 * time.Second)

	t.Run("finished", func(t *testing.T) {
		var buf bytes.Buffer
		displayRun(&buf, state.Run{
			ID:           "run-1",
			Box:          "0110",
			Status:       state.RunIncomplete,
			StartedAt:    start,
			FinishedAt:   &finish,
			NodesAdded:   1500,
			Eliminations: 12,
			HoleCount:    3,
		}, start.Add(10*time.Minute))

		out := buf.String()
		for _, want := range []string{"run-1: 0110 incomplete (10m ago)", "1,500 nodes added", "3 holes", "took 1m"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("running root", func(t *testing.T) {
		var buf bytes.Buffer
		displayRun(&buf, state.Run{ID: "run-2", Status: state.RunRunning, StartedAt: start}, start)

		out := buf.String()
		if !strings.Contains(out, "(root) running") {
			t.Errorf("expected root box in output:\n%s", out)
		}
		if strings.Contains(out, "nodes added") {
			t.Errorf("expected no counters for unfinished run:\n%s", out)
		}
	})
}
