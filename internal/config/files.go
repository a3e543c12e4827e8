package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoWords is returned when no test word file is configured.
var ErrNoWords = errors.New("no test word file configured")

// FileSource describes where an input file path came from.
type FileSource string

const (
	FileSourceFlag   FileSource = "flag"
	FileSourceConfig FileSource = "config_file"
	FileSourceNone   FileSource = "none"
)

// Expand expands ${VAR} references and a leading ~ in every path.
func (f FilesConfig) Expand() FilesConfig {
	return FilesConfig{
		Words:         expandPath(f.Words),
		Powers:        expandPath(f.Powers),
		Mom:           expandPath(f.Mom),
		Parameterized: expandPath(f.Parameterized),
	}
}

// Override returns f with every non-empty path of o taking precedence.
func (f FilesConfig) Override(o FilesConfig) FilesConfig {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return FilesConfig{
		Words:         pick(f.Words, o.Words),
		Powers:        pick(f.Powers, o.Powers),
		Mom:           pick(f.Mom, o.Mom),
		Parameterized: pick(f.Parameterized, o.Parameterized),
	}
}

// Check verifies that the words file is set and that every configured
// path names a readable regular file.
func (f FilesConfig) Check() error {
	if f.Words == "" {
		return ErrNoWords
	}
	for _, p := range []struct{ key, path string }{
		{"files.words", f.Words},
		{"files.powers", f.Powers},
		{"files.mom", f.Mom},
		{"files.parameterized", f.Parameterized},
	} {
		if p.path == "" {
			continue
		}
		info, err := os.Stat(p.path)
		if err != nil {
			return fmt.Errorf("%s: %w", p.key, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s: %s is a directory", p.key, p.path)
		}
	}
	return nil
}

// Source reports whether path came from a flag, the config, or nowhere.
func Source(flagValue, configValue string) FileSource {
	switch {
	case flagValue != "":
		return FileSourceFlag
	case configValue != "":
		return FileSourceConfig
	default:
		return FileSourceNone
	}
}

// expandPath expands ${VAR} references and a leading ~/.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
