package cluster

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// itemMarker prefixes every item in the prompt. The target group count is
// derived by counting these markers in the rendered block rather than by
// re-parsing a document, so formatting changes cannot skew the count.
const itemMarker = "- name: "

const maxRepairDescriptionLen = 200

const responseFormat = "Respond with a single fenced ```json block of the form:\n" +
	"```json\n" +
	`{"groups": [{"name": "...", "description": "...", "members": ["...", "..."]}]}` + "\n" +
	"```"

func renderItems(items []Item) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(itemMarker)
		b.WriteString(it.Name)
		b.WriteByte('\n')
		if desc := strings.TrimSpace(it.Description); desc != "" {
			b.WriteString("  description: ")
			b.WriteString(strings.ReplaceAll(desc, "\n", " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// maxGroupCount derives the target group-count ceiling from the rendered
// item block: ceil(n/5) clamped to [2, 10]. Five is the balance point
// between granularity and the minimum-three-members constraint.
func maxGroupCount(itemBlock string) int {
	n := strings.Count(itemBlock, itemMarker)
	groups := (n + 4) / 5
	if groups < 2 {
		groups = 2
	}
	if groups > 10 {
		groups = 10
	}
	return groups
}

// buildPrompt renders the initial clustering prompt for the full item set.
func buildPrompt(items []Item, keywordTriggers []string, keywordGroup string) string {
	block := renderItems(items)
	maxGroups := maxGroupCount(block)

	var constraints []string
	if keywordGroup != "" && len(keywordTriggers) > 0 {
		constraints = append(constraints, fmt.Sprintf(
			"Any practice whose name or description contains any of the substrings %s MUST be placed in a group named %q, regardless of any other signal.",
			quotedList(keywordTriggers), keywordGroup))
	}
	constraints = append(constraints,
		fmt.Sprintf("Produce at most %d groups.", maxGroups),
		"Every group must contain at least 3 practices.",
		"Every practice appears in exactly one group.",
		"No practice may appear in more than one group.",
		"Use every practice name exactly as written below.",
	)

	var b strings.Builder
	b.WriteString("You are migrating a catalog of coding practices into thematic standards.\n")
	b.WriteString("Group the practices below into standards by topic.\n\n")
	b.WriteString("Hard constraints, in priority order:\n")
	for i, c := range constraints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteByte('\n')
	b.WriteString("Practices:\n")
	b.WriteString(block)
	b.WriteByte('\n')
	b.WriteString(responseFormat)
	return b.String()
}

// buildRepairPrompt renders the focused re-prompt for items missing from
// the current mapping. Only the existing groups are offered; creating new
// groups is forbidden.
func buildRepairPrompt(missing []Item, groups []Group) string {
	var b strings.Builder
	b.WriteString("You previously grouped a catalog of coding practices into the standards listed below.\n")
	b.WriteString("The following practices were left out. Assign each of them to exactly one of the EXISTING groups.\n")
	b.WriteString("Do NOT create new groups. Do NOT rename groups. Do NOT move practices already assigned.\n\n")
	b.WriteString("Existing groups:\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "- %s: %s\n", g.Name, strings.ReplaceAll(g.Description, "\n", " "))
	}
	b.WriteString("\nUnassigned practices:\n")
	for _, it := range missing {
		b.WriteString(itemMarker)
		b.WriteString(it.Name)
		b.WriteByte('\n')
		if desc := truncate(strings.TrimSpace(it.Description), maxRepairDescriptionLen); desc != "" {
			b.WriteString("  description: ")
			b.WriteString(strings.ReplaceAll(desc, "\n", " "))
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
	b.WriteString(responseFormat)
	return b.String()
}

// truncate shortens s to at most max characters, never splitting a rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func quotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
