// Package artifact persists the pipeline's intermediate documents: the
// standards mapping proposed by the classifier and the final validation
// document. Both are YAML so a human reviewer can inspect and edit them
// between pipeline stages.
package artifact

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stdforge/stdforge/internal/assemble"
	"github.com/stdforge/stdforge/internal/cluster"
)

// ValidationDocument is the final nested standard/rule structure for one
// collection, as handed to the reviewer and the import step.
type ValidationDocument struct {
	Collection string              `yaml:"collection"`
	Standards  []assemble.Standard `yaml:"standards"`
}

// WriteMapping persists a group mapping for review.
func WriteMapping(path string, m cluster.Mapping) error {
	return write(path, m, "mapping")
}

// ReadMapping loads a (possibly hand-edited) group mapping.
func ReadMapping(path string) (cluster.Mapping, error) {
	var m cluster.Mapping
	if err := read(path, &m, "mapping"); err != nil {
		return cluster.Mapping{}, err
	}
	return m, nil
}

// WriteValidation persists the assembled standards for one collection.
func WriteValidation(path string, doc ValidationDocument) error {
	return write(path, doc, "validation document")
}

// ReadValidation loads an assembled validation document.
func ReadValidation(path string) (ValidationDocument, error) {
	var doc ValidationDocument
	if err := read(path, &doc, "validation document"); err != nil {
		return ValidationDocument{}, err
	}
	return doc, nil
}

func write(path string, v any, kind string) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("artifact: marshal %s: %w", kind, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", kind, err)
	}
	return nil
}

func read(path string, v any, kind string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("artifact: read %s: %w", kind, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifact: parse %s %s: %w", kind, path, err)
	}
	return nil
}
