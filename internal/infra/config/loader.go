// Package config loads the workspace configuration from url-miner.yaml.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ChristoGH/url-miner/internal/domain"
)

// FileName is the workspace configuration file and root marker.
const FileName = "url-miner.yaml"

// Load reads url-miner.yaml from the workspace root and applies its values
// on top of the defaults. On error the defaults are returned alongside it.
func Load(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y YAMLConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return Map(path, y)
}
