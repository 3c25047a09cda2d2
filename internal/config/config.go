// Package config loads session settings: built-in defaults, then an optional
// TOML file, then NANOCODE_* environment overrides. CLI flags are applied on
// top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces overrides; split_words maps BashTimeout to
// NANOCODE_BASH_TIMEOUT. Unprefixed names are never consulted.
const envPrefix = "NANOCODE"

type Config struct {
	Provider string `toml:"provider" split_words:"true"`
	// Model overrides the provider's default model when set.
	Model    string `toml:"model" split_words:"true"`
	Thinking bool   `toml:"thinking" split_words:"true"`
	LogLevel string `toml:"log_level" split_words:"true"`

	BashTimeout time.Duration `toml:"bash_timeout" split_words:"true"`
	// HTTPTimeout bounds one provider call.
	HTTPTimeout time.Duration `toml:"http_timeout" split_words:"true"`
	// WebTimeout bounds one web_search or read_page fetch.
	WebTimeout    time.Duration `toml:"web_timeout" split_words:"true"`
	ParallelTools int           `toml:"parallel_tools" split_words:"true"`
	SearchURL     string        `toml:"search_url" split_words:"true"`

	Root      string `toml:"root" split_words:"true"`
	Confine   bool   `toml:"confine" split_words:"true"`
	SkillsDir string `toml:"skills_dir" split_words:"true"`

	ObserveJSON     bool   `toml:"observe" split_words:"true"`
	PersistPayloads bool   `toml:"persist_payloads" split_words:"true"`
	ArtifactsDir    string `toml:"artifacts_dir" split_words:"true"`

	// Endpoints overrides provider endpoints by provider name.
	Endpoints map[string]string `toml:"endpoints" ignored:"true"`
	// ExtraBody adds top-level request fields per provider (OpenAI-compatible only).
	ExtraBody map[string]map[string]any `toml:"extra_body" ignored:"true"`
}

func Default() Config {
	return Config{
		Provider:      "anthropic",
		Thinking:      true,
		LogLevel:      "warn",
		BashTimeout:   30 * time.Second,
		HTTPTimeout:   10 * time.Minute,
		WebTimeout:    20 * time.Second,
		ParallelTools: 4,
		SkillsDir:     "skills",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/nanocode/config.toml or the platform
// equivalent; "" when no config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nanocode", "config.toml")
}

// Load reads path (a missing file is fine only when path is the default one,
// i.e. explicit=false) and applies environment overrides. The result is not
// validated: callers apply flag overrides first, then call Validate.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				err = nil
			} else {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fully layered configuration.
func (c Config) Validate() error {
	if _, err := Lookup(c.Provider); err != nil {
		return err
	}
	if c.ParallelTools < 1 {
		return fmt.Errorf("parallel_tools must be at least 1, got %d", c.ParallelTools)
	}
	if c.BashTimeout <= 0 {
		return fmt.Errorf("bash_timeout must be positive, got %s", c.BashTimeout)
	}
	return nil
}

// ResolveProvider returns the selected provider with the endpoint override
// applied, plus the model to use.
func (c Config) ResolveProvider() (ProviderConfig, string, error) {
	pc, err := Lookup(c.Provider)
	if err != nil {
		return ProviderConfig{}, "", err
	}
	if ep := c.Endpoints[pc.Name]; ep != "" {
		pc.Endpoint = ep
	}
	model := c.Model
	if model == "" {
		model = pc.DefaultModel
	}
	return pc, model, nil
}
