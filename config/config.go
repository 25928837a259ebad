// Package config loads the optional YAML configuration file controlling
// paths, the target site, and scraping behavior. Every field has a default,
// so running with no config file at all is supported.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors are the CSS selectors the page client uses against the
// submissions listing. They are the only markup knowledge in the system and
// live in config so a markup change does not require a code change.
type Selectors struct {
	Table    string `yaml:"table"`     // element whose presence means the listing loaded
	Row      string `yaml:"row"`       // one selector per submission row
	NextPage string `yaml:"next_page"` // the pager's "next" control
}

// Config is the full runtime configuration.
type Config struct {
	BaseURL        string    `yaml:"base_url"`
	SubmissionsURL string    `yaml:"submissions_url"`
	CookieFile     string    `yaml:"cookie_file"`
	StateFile      string    `yaml:"state_file"`
	HistoryDB      string    `yaml:"history_db"`
	LogDir         string    `yaml:"log_dir"`
	Languages      []string  `yaml:"languages"`
	DedupPolicy    string    `yaml:"dedup_policy"` // "keep-newest" or "first-seen"
	Selectors      Selectors `yaml:"selectors"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		BaseURL:        "https://leetcode.com",
		SubmissionsURL: "https://leetcode.com/submissions/",
		CookieFile:     "leetcode_cookies.xml",
		StateFile:      ".lastscraped",
		HistoryDB:      "runs.db",
		LogDir:         "runs",
		Languages:      []string{"cpp", "python3", "c", "java", "javascript", "typescript"},
		DedupPolicy:    "keep-newest",
		Selectors: Selectors{
			Table:    "table",
			Row:      "table tbody tr",
			NextPage: ".lc-pager .next",
		},
	}
}

// Load reads the config file at path and merges it over the defaults.
// A missing file is not an error; a file that exists but cannot be parsed
// is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
