package config

const (
	defaultConfigPath = "~/.config/rtmodify/config.toml"
	defaultStateDir   = "~/.local/share/rtmodify"
	defaultKey        = "directory"
	defaultWorkers    = 4
	defaultLogFormat  = "console"
	defaultLogLevel   = "warn"
	journalFileName   = "journal.db"
	stateDirEnv       = "RTMODIFY_STATE_DIR"
)

var (
	defaultStagePatterns   = []string{"*.rtorrent", "*.torrent", "*.libtorrent_resume"}
	defaultRewritePatterns = []string{"*.torrent.rtorrent"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		// Paths.StateDir stays empty so normalize can apply RTMODIFY_STATE_DIR.
		Rewrite: Rewrite{
			Key:             defaultKey,
			StagePatterns:   append([]string(nil), defaultStagePatterns...),
			RewritePatterns: append([]string(nil), defaultRewritePatterns...),
		},
		Run: Run{
			Workers:  defaultWorkers,
			FailFast: true,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
