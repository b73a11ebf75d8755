package config

// YAMLConfig mirrors url-miner.yaml. Pointer fields distinguish "absent"
// from zero values so defaults survive partial files.
type YAMLConfig struct {
	URLMiner struct {
		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Defaults struct {
			Feed     string `yaml:"feed"`
			DaysBack int    `yaml:"days_back"`
			PageSize int    `yaml:"page_size"`
			Language string `yaml:"language"`
		} `yaml:"defaults"`

		Paths struct {
			FeedsDir string `yaml:"feeds_dir"`
			RunsDir  string `yaml:"runs_dir"`
		} `yaml:"paths"`

		Fetch struct {
			MaxConcurrent int `yaml:"max_concurrent"`
		} `yaml:"fetch"`
	} `yaml:"url-miner"`
}
