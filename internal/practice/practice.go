// Package practice defines the legacy coding-practice export model and its
// newline-delimited JSON decoding.
package practice

import (
	"strings"

	"github.com/stdforge/stdforge/internal/snippet"
)

// ToolingStatusSuccess is the only tooling status that makes a practice's
// detection program and unit tests eligible for migration.
const ToolingStatusSuccess = "SUCCESS"

// Practice is one legacy record describing a coding guideline. Its name is
// the unique join key across the whole pipeline; there is no surrogate id.
type Practice struct {
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	Categories          []string            `json:"categories,omitempty"`
	GroupID             string              `json:"groupId,omitempty"`
	SuggestionsDisabled bool                `json:"suggestionsDisabled,omitempty"`
	Examples            []Example           `json:"examples,omitempty"`
	UnitTests           []DetectionUnitTest `json:"detectionUnitTests,omitempty"`
	Tooling             *DetectionTooling   `json:"detectionTooling,omitempty"`
}

// Example references a window of a file snapshot demonstrating compliance
// (positive) or a violation (negative). Read-only, sourced entirely from
// the legacy export.
type Example struct {
	File        FileRef   `json:"file"`
	Range       LineRange `json:"range"`
	Positive    bool      `json:"positive"`
	Description string    `json:"description,omitempty"`
}

// LineRange is an inclusive begin/end line pair.
type LineRange struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// FileRef is one source file at export time: an unordered bag of numbered
// lines plus a language tag. Line numbers need not be contiguous or 1-based.
type FileRef struct {
	Path     string     `json:"path"`
	Language string     `json:"language"`
	Lines    []FileLine `json:"lines"`
}

// FileLine pairs a line number with its content.
type FileLine struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// Snapshot converts the exported line bag into a snippet.FileSnapshot.
func (f FileRef) Snapshot() snippet.FileSnapshot {
	lines := make(map[int]string, len(f.Lines))
	for _, l := range f.Lines {
		lines[l.Number] = l.Content
	}
	return snippet.FileSnapshot{
		Path:     f.Path,
		Language: f.Language,
		Lines:    lines,
	}
}

// DetectionUnitTest is a standalone code fragment exercising the detection
// program; it is independent of any file snapshot and has no language
// field of its own.
type DetectionUnitTest struct {
	Code        string `json:"code"`
	Compliant   bool   `json:"compliant"`
	Description string `json:"description,omitempty"`
}

// DetectionTooling is the legacy metadata describing an automated detector
// for a practice.
type DetectionTooling struct {
	Program            string `json:"program"`
	ProgramDescription string `json:"programDescription,omitempty"`
	TargetLanguage     string `json:"targetLanguage,omitempty"`
	Status             string `json:"status"`
	Language           string `json:"language,omitempty"`
}

// Canon is the single canonicalization applied everywhere a practice or
// group name is used as a key: trimmed and lowercased. Names are the
// natural key across system boundaries here, so every join must agree on
// this exact form.
func Canon(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
