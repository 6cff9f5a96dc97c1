package sessiondir

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher reports whether a file name matches any configured pattern.
type Matcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewMatcher compiles base-name glob patterns. Blank patterns are ignored.
func NewMatcher(patterns ...string) (*Matcher, error) {
	m := &Matcher{}
	seen := make(map[string]struct{}, len(patterns))
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		if _, ok := seen[pattern]; ok {
			continue
		}
		seen[pattern] = struct{}{}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, pattern)
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether the base name of path matches a pattern.
func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}
	name := filepath.Base(path)
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the compiled patterns in input order.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.globs) == 0
}
