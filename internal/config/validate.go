package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// ValidateSettings checks the raw settings map against the embedded
// config schema before any struct decoding happens, so field-level
// mistakes surface with their config paths instead of as zero values.
func ValidateSettings(settings map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(settings),
	)
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", violation.Field(), violation.Description()))
	}
	sort.Strings(problems)

	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}
