package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	v := Get()
	if v == "" {
		t.Fatal("expected non-empty version")
	}
	if strings.TrimSpace(v) != v {
		t.Errorf("expected trimmed version, got %q", v)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "momrefine version "+Get()) {
		t.Errorf("unexpected version line %q", s)
	}
	if !strings.Contains(s, runtime.GOOS) {
		t.Errorf("expected platform in %q", s)
	}
}
