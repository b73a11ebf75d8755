package domain

// Config represents the minimal url-miner configuration loaded from url-miner.yaml.
type Config struct {
	Masking  MaskingConfig
	Defaults DefaultsConfig
	Paths    PathsConfig
	Fetch    FetchConfig
}

type MaskingConfig struct {
	Enabled bool
}

type DefaultsConfig struct {
	// Feed is the feed used when fetch is invoked without -f. Empty means
	// the caller must name one.
	Feed     string
	DaysBack int
	PageSize int
	Language string
}

type PathsConfig struct {
	FeedsDir string
	RunsDir  string
}

type FetchConfig struct {
	// MaxConcurrent bounds how many feeds fetch --all runs at once.
	MaxConcurrent int
}

// DefaultConfig provides sane defaults if url-miner.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Defaults: DefaultsConfig{
			Feed:     "",
			DaysBack: DefaultDaysBack,
			PageSize: MaxPageSize,
			Language: "en",
		},
		Paths: PathsConfig{
			FeedsDir: "feeds",
			RunsDir:  "runs",
		},
		Fetch: FetchConfig{MaxConcurrent: 4},
	}
}
