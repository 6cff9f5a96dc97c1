package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRewrite(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRewrite() error {
	if err := ValidateKey(c.Rewrite.Key); err != nil {
		return fmt.Errorf("rewrite.key: %w", err)
	}
	if len(c.Rewrite.RewritePatterns) == 0 {
		return errors.New("rewrite.rewrite_patterns must list at least one pattern")
	}
	if err := compilePatterns("rewrite.rewrite_patterns", c.Rewrite.RewritePatterns); err != nil {
		return err
	}
	return compilePatterns("rewrite.stage_patterns", c.Rewrite.StagePatterns)
}

func (c *Config) validateRun() error {
	if c.Run.Workers <= 0 {
		return errors.New("run.workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ValidateKey rejects field keys that cannot be located unambiguously: empty
// keys, keys containing the ':' delimiter, and keys ending in a digit, which
// would run into the length marker.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("must not be empty")
	}
	if strings.ContainsRune(key, ':') {
		return fmt.Errorf("%q must not contain ':'", key)
	}
	if last := key[len(key)-1]; last >= '0' && last <= '9' {
		return fmt.Errorf("%q must not end with a digit", key)
	}
	return nil
}

func compilePatterns(name string, patterns []string) error {
	for _, pattern := range patterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("%s: invalid pattern %q: %w", name, pattern, err)
		}
	}
	return nil
}
