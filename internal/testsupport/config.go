package testsupport

import (
	"path/filepath"
	"testing"

	"rtmodify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a per-test temp directory with the
// state directory and journal path already resolved.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Journal.Path = filepath.Join(cfgVal.Paths.StateDir, "journal.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithKey overrides the rewritten field key.
func WithKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rewrite.Key = key
	}
}

// WithWorkers sets the worker count and fail-fast policy.
func WithWorkers(workers int, failFast bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Run.Workers = workers
		b.cfg.Run.FailFast = failFast
	}
}

// WithoutJournal disables the run journal.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
