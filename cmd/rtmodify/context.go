package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"rtmodify/internal/config"
	"rtmodify/internal/journal"
	"rtmodify/internal/logging"
	"rtmodify/internal/relocate"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// logger builds a logger writing to w. verbosity raises the configured level:
// one step selects info, two or more debug.
func (c *commandContext) logger(w io.Writer, verbosity int) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var override string
	switch {
	case verbosity >= 2:
		override = "debug"
	case verbosity == 1:
		override = "info"
	}
	opts := logging.OptionsFromConfig(cfg, override)
	opts.Output = w
	return logging.New(opts)
}

var errJournalDisabled = errors.New("journal is disabled (set [journal] enabled = true)")

// withJournal opens the configured journal for the duration of fn.
func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return errJournalDisabled
	}
	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// withOptionalJournal passes the configured journal to fn, or nil when the
// journal is disabled.
func (c *commandContext) withOptionalJournal(fn func(relocate.Journal) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return fn(nil)
	}
	return c.withJournal(func(store *journal.Store) error {
		return fn(store)
	})
}
