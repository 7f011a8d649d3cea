// Package config provides configuration loading and management for stdforge.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/stdforge/stdforge/internal/classifier"
	"github.com/stdforge/stdforge/internal/cluster"
)

// Config is the root configuration. It is built exactly once at process
// start and passed by parameter into every component; nothing below the
// CLI reads ambient environment state.
type Config struct {
	Classifier classifier.Config `json:"classifier" mapstructure:"classifier"`
	Cluster    ClusterConfig     `json:"cluster"    mapstructure:"cluster"`
	Source     KeyConfig         `json:"source"     mapstructure:"source"`
	Target     KeyConfig         `json:"target"     mapstructure:"target"`
	ExportDir  string            `json:"export_dir" mapstructure:"export_dir"`
	OutputDir  string            `json:"output_dir" mapstructure:"output_dir"`
}

// ClusterConfig tunes the clustering controller.
type ClusterConfig struct {
	MaxAttempts     int      `json:"max_attempts,omitempty"     mapstructure:"max_attempts"`
	KeywordTriggers []string `json:"keyword_triggers,omitempty" mapstructure:"keyword_triggers"`
	KeywordGroup    string   `json:"keyword_group,omitempty"    mapstructure:"keyword_group"`
}

// Options converts the section into controller options.
func (c ClusterConfig) Options() cluster.Options {
	return cluster.Options{
		MaxAttempts:     c.MaxAttempts,
		KeywordTriggers: c.KeywordTriggers,
		KeywordGroup:    c.KeywordGroup,
	}
}

// KeyConfig holds an opaque key blob, either inline or named by an
// environment variable resolved at load time.
type KeyConfig struct {
	Key    string `json:"key,omitempty"     mapstructure:"key"`
	KeyEnv string `json:"key_env,omitempty" mapstructure:"key_env"`
}

// Load reads the configuration file, applies a .env file when present,
// validates the raw settings against the schema, and resolves all
// environment references. This is the only place the process environment
// is consulted.
func Load(path string) (Config, error) {
	// Missing .env files are fine; explicit env vars still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := ValidateSettings(v.AllSettings()); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.resolveEnv()

	if strings.TrimSpace(cfg.Classifier.Backend) == "" {
		return Config{}, fmt.Errorf("classifier.backend is required")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ExportDir == "" {
		c.ExportDir = "exports"
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.Cluster.KeywordGroup == "" && len(c.Cluster.KeywordTriggers) == 0 {
		c.Cluster.KeywordGroup = "Security"
		c.Cluster.KeywordTriggers = []string{"secur", "vulnerab", "injection", "sanitiz"}
	}
}

func (c *Config) resolveEnv() {
	if c.Classifier.APIKey == "" && c.Classifier.APIKeyEnv != "" {
		c.Classifier.APIKey = strings.TrimSpace(os.Getenv(c.Classifier.APIKeyEnv))
	}
	if c.Source.Key == "" && c.Source.KeyEnv != "" {
		c.Source.Key = strings.TrimSpace(os.Getenv(c.Source.KeyEnv))
	}
	if c.Target.Key == "" && c.Target.KeyEnv != "" {
		c.Target.Key = strings.TrimSpace(os.Getenv(c.Target.KeyEnv))
	}
}
