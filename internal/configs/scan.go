package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScanConfigFileName is the optional scanner configuration at the scan root.
const ScanConfigFileName = ".devforge-scan.yaml"

// ScanConfig tunes the leak scanner and the hook file walk.
type ScanConfig struct {
	MinEntropy     float64  `yaml:"min_entropy"`
	MinTokenLength int      `yaml:"min_token_length"`
	Workers        int      `yaml:"workers"`
	MaxFileBytes   int64    `yaml:"max_file_bytes"`
	Exclude        []string `yaml:"exclude"`
	Allow          []string `yaml:"allow"`
	DisableRules   []string `yaml:"disable_rules"`
}

// DefaultScanConfig returns the scanner thresholds used when no file overrides them.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		MinEntropy:     4.0,
		MinTokenLength: 20,
		MaxFileBytes:   1 << 20,
	}
}

// LoadScanConfig reads .devforge-scan.yaml under root, if present, over the defaults.
func LoadScanConfig(root string) (ScanConfig, error) {
	cfg := DefaultScanConfig()

	path := filepath.Join(root, ScanConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.MinEntropy <= 0 {
		return cfg, fmt.Errorf("%s: min_entropy must be positive", path)
	}
	if cfg.MinTokenLength <= 0 {
		return cfg, fmt.Errorf("%s: min_token_length must be positive", path)
	}
	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("%s: workers must not be negative", path)
	}

	return cfg, nil
}
