// Package assemble merges a repaired group mapping with per-record
// conversion output into the final standard/rule structure.
package assemble

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stdforge/stdforge/internal/cluster"
	"github.com/stdforge/stdforge/internal/convert"
	"github.com/stdforge/stdforge/internal/practice"
)

// Standard is one migrated group of practices, ready for import.
// Created once at the end of the pipeline and never mutated afterward.
type Standard struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Rules       []convert.Rule `json:"rules" yaml:"rules"`
}

// ConvertFunc converts one practice into a rule; convert.Record in
// production, a stub in tests.
type ConvertFunc func(practice.Practice) convert.Rule

// Assemble builds the final standards for one collection. collectionNames
// maps legacy group ids onto source-collection labels; the single
// most-frequent label across the records becomes the provenance prefix of
// every emitted standard's name. Records absent from the mapping are a
// defect signal: they are logged and gathered into a synthetic
// uncategorized standard, never silently dropped. The result is fully
// deterministic for identical inputs.
func Assemble(records []practice.Practice, mapping cluster.Mapping, collectionNames map[string]string, convertFn ConvertFunc) []Standard {
	index := mapping.MemberIndex()
	byCanon := make(map[string]practice.Practice, len(records))
	for _, r := range records {
		key := practice.Canon(r.Name)
		if _, dup := byCanon[key]; dup {
			log.Warn().Str("practice", r.Name).Msg("duplicate practice name in export, keeping first")
			continue
		}
		byCanon[key] = r
	}

	var unmatched []practice.Practice
	for _, r := range records {
		if _, ok := index[practice.Canon(r.Name)]; !ok {
			log.Warn().Str("practice", r.Name).Msg("practice missing from group mapping")
			unmatched = append(unmatched, r)
		}
	}

	prefix := namePrefix(records, collectionNames)

	var standards []Standard
	for _, g := range mapping.Groups {
		var members []practice.Practice
		for _, name := range g.Members {
			r, ok := byCanon[practice.Canon(name)]
			if !ok {
				log.Debug().Str("member", name).Str("group", g.Name).Msg("mapping member has no record")
				continue
			}
			members = append(members, r)
		}
		if len(members) == 0 {
			log.Warn().Str("group", g.Name).Msg("skipping group with no matched records")
			continue
		}
		standards = append(standards, buildStandard(prefix, g.Name, members, convertFn))
	}

	if len(unmatched) > 0 {
		standards = append(standards, buildStandard(prefix, cluster.FallbackGroupName, unmatched, convertFn))
	}
	return standards
}

func buildStandard(prefix, name string, members []practice.Practice, convertFn ConvertFunc) Standard {
	rules := make([]convert.Rule, 0, len(members))
	for _, m := range members {
		rules = append(rules, convertFn(m))
	}
	return Standard{
		Name:        prefix + name,
		Description: synthesizeDescription(members),
		Rules:       rules,
	}
}

// synthesizeDescription concatenates, per member in group order, a heading
// with the 1-based ordinal and name, then the member's own description
// indented by three spaces, with blank lines between members.
func synthesizeDescription(members []practice.Practice) string {
	parts := make([]string, 0, len(members))
	for i, m := range members {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s", i+1, m.Name)
		if desc := strings.TrimSpace(m.Description); desc != "" {
			for _, line := range strings.Split(desc, "\n") {
				b.WriteString("\n   ")
				b.WriteString(line)
			}
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

// namePrefix picks the most frequent source-collection label among the
// records, ties broken by first-encountered order, and renders it as a
// provenance prefix. Records whose group id resolves to no label do not
// vote.
func namePrefix(records []practice.Practice, collectionNames map[string]string) string {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		label := strings.TrimSpace(collectionNames[r.GroupID])
		if label == "" {
			continue
		}
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}
	if len(order) == 0 {
		return ""
	}
	best := order[0]
	for _, label := range order {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best + " - "
}
