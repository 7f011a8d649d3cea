// Package convert turns one legacy practice record into the rule shape of
// the target model: code examples, an inferred dominant language, and an
// optional detection program.
package convert

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stdforge/stdforge/internal/lang"
	"github.com/stdforge/stdforge/internal/practice"
	"github.com/stdforge/stdforge/internal/snippet"
)

// contextPadding is the fixed number of context lines added on each side
// of a file example's target range.
const contextPadding = 2

// DetectionModeSuggestion is the only migrated detection mode: eligibility
// already requires that suggestions are enabled for the practice.
const DetectionModeSuggestion = "suggestion"

// Rule is the converted form of one practice.
type Rule struct {
	Name      string            `json:"name" yaml:"name"`
	Positive  []CodeExample     `json:"positiveExamples" yaml:"positiveExamples"`
	Negative  []CodeExample     `json:"negativeExamples" yaml:"negativeExamples"`
	Detection *DetectionProgram `json:"detection,omitempty" yaml:"detection,omitempty"`
}

// CodeExample is one extracted snippet with its resolved language.
type CodeExample struct {
	Code     string  `json:"code" yaml:"code"`
	Language lang.ID `json:"language" yaml:"language"`
}

// DetectionProgram is the migrated automated detector for a rule.
type DetectionProgram struct {
	Code        string  `json:"code" yaml:"code"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Language    lang.ID `json:"language" yaml:"language"`
	Mode        string  `json:"mode" yaml:"mode"`
}

// DetectionEligible is the exact inclusion policy for a practice's
// detection program and unit tests: suggestions not disabled, tooling
// present, and tooling status SUCCESS. File-derived examples are included
// unconditionally regardless of this policy.
func DetectionEligible(p practice.Practice) bool {
	return !p.SuggestionsDisabled &&
		p.Tooling != nil &&
		p.Tooling.Status == practice.ToolingStatusSuccess
}

// Record converts one practice into a rule.
func Record(p practice.Practice) Rule {
	rule := Rule{Name: p.Name}

	for _, ex := range p.Examples {
		snap := ex.File.Snapshot()
		if snap.Empty() {
			log.Warn().
				Str("practice", p.Name).
				Str("file", ex.File.Path).
				Msg("skipping example with empty file snapshot")
			continue
		}
		code := snippet.Extract(snap, ex.Range.Begin, ex.Range.End, contextPadding)
		if code == "" {
			log.Warn().
				Str("practice", p.Name).
				Str("file", ex.File.Path).
				Int("begin", ex.Range.Begin).
				Int("end", ex.Range.End).
				Msg("skipping example whose range misses the file snapshot")
			continue
		}
		langID, err := lang.Resolve(snap.Language)
		if err != nil {
			langID = lang.Text
		}
		example := CodeExample{Code: code, Language: langID}
		if ex.Positive {
			rule.Positive = append(rule.Positive, example)
		} else {
			rule.Negative = append(rule.Negative, example)
		}
	}

	if !DetectionEligible(p) {
		return rule
	}

	dominant := DominantLanguage(p)
	if dominant == lang.Unknown && len(p.UnitTests) > 0 {
		log.Warn().
			Str("practice", p.Name).
			Msg("unit tests present but no language could be inferred")
	}

	for _, ut := range p.UnitTests {
		code := injectComment(ut.Code, ut.Description, lang.CommentStyleFor(dominant))
		exLang := dominant
		if exLang == lang.Unknown {
			exLang = lang.Text
		}
		example := CodeExample{Code: code, Language: exLang}
		if ut.Compliant {
			rule.Positive = append(rule.Positive, example)
		} else {
			rule.Negative = append(rule.Negative, example)
		}
	}

	rule.Detection = detectionProgram(p)
	return rule
}

// DominantLanguage infers the most frequent language tag among the
// practice's file examples. Ties break toward the first-encountered tag in
// example order; with zero file examples the result is lang.Unknown,
// deliberately distinct from the generic Text fallback.
func DominantLanguage(p practice.Practice) lang.ID {
	counts := map[string]int{}
	var order []string
	for _, ex := range p.Examples {
		tag := practice.Canon(ex.File.Language)
		if counts[tag] == 0 {
			order = append(order, tag)
		}
		counts[tag]++
	}
	if len(order) == 0 {
		return lang.Unknown
	}
	best := order[0]
	for _, tag := range order {
		if counts[tag] > counts[best] {
			best = tag
		}
	}
	id, err := lang.Resolve(best)
	if err != nil {
		return lang.Unknown
	}
	return id
}

func detectionProgram(p practice.Practice) *DetectionProgram {
	declared := strings.TrimSpace(p.Tooling.Language)
	if declared == "" {
		declared = strings.TrimSpace(p.Tooling.TargetLanguage)
	}

	tag := declared
	if allExamplesInSchemaFamily(p) {
		// A practice illustrated purely by schema descriptors gets the
		// family's canonical tag no matter what the tooling claims.
		tag = string(lang.SchemaFamilyTag)
	}

	langID, err := lang.Resolve(tag)
	if err != nil {
		langID = lang.Text
	}
	if langID == lang.Text {
		log.Warn().
			Str("practice", p.Name).
			Str("declared", declared).
			Msg("detection program language resolved to generic fallback")
	}

	return &DetectionProgram{
		Code:        p.Tooling.Program,
		Description: p.Tooling.ProgramDescription,
		Language:    langID,
		Mode:        DetectionModeSuggestion,
	}
}

func allExamplesInSchemaFamily(p practice.Practice) bool {
	if len(p.Examples) == 0 {
		return false
	}
	for _, ex := range p.Examples {
		if !lang.InSchemaFamily(ex.File.Language) {
			return false
		}
	}
	return true
}

// injectComment prepends the description to the code as source comments
// using the given style. Each description line is commented individually,
// even for block-comment styles, so the code's own line numbers keep their
// meaning. Empty or whitespace-only descriptions and nil styles leave the
// code unchanged.
func injectComment(code, description string, style *lang.CommentStyle) string {
	desc := strings.TrimSpace(description)
	if desc == "" || style == nil {
		return code
	}
	var b strings.Builder
	for _, line := range strings.Split(desc, "\n") {
		b.WriteString(style.Prefix)
		b.WriteByte(' ')
		b.WriteString(strings.TrimRight(line, " \t"))
		if style.Suffix != "" {
			b.WriteByte(' ')
			b.WriteString(style.Suffix)
		}
		b.WriteByte('\n')
	}
	b.WriteString(code)
	return b.String()
}
