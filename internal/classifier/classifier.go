// Package classifier abstracts the LLM behind a single prompt-in/text-out
// capability, with the remote backend selected by configuration.
package classifier

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted in configuration.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Classifier executes one prompt against a remote model and returns its
// raw text response. Implementations make no determinism guarantee: the
// same prompt may yield differently shaped or incomplete answers, and
// callers must validate and repair what comes back.
type Classifier interface {
	ExecutePrompt(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Config selects and parameterizes a classifier backend.
type Config struct {
	Backend   string `json:"backend" mapstructure:"backend"`
	Model     string `json:"model" mapstructure:"model"`
	APIKey    string `json:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv string `json:"api_key_env,omitempty" mapstructure:"api_key_env"`
	BaseURL   string `json:"base_url,omitempty" mapstructure:"base_url"`
	TimeoutS  int    `json:"timeout,omitempty" mapstructure:"timeout"`
}

// New constructs the configured classifier. The two backends are peers;
// nothing outside this factory knows which one is in use.
func New(ctx context.Context, cfg Config) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendGemini:
		return newGemini(ctx, cfg)
	case BackendOpenAI:
		return newOpenAI(cfg)
	default:
		return nil, fmt.Errorf("classifier: unknown backend %q", cfg.Backend)
	}
}
