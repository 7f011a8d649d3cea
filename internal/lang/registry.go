// Package lang maps language identifiers, display names, and file
// extensions onto a fixed set of language tags with known comment syntax.
package lang

import (
	"errors"
	"strings"
)

// ErrUnknownLanguage is returned only for an empty input; every non-empty
// input resolves to some language, falling back to Text.
var ErrUnknownLanguage = errors.New("lang: empty language identifier")

// ID identifies one known language.
type ID string

// Known language tags.
const (
	// Unknown is the sentinel for "no language could be inferred". It is
	// distinct from Text, which is the fallback for unrecognized input.
	Unknown ID = ""

	Text       ID = "text"
	Go         ID = "go"
	Java       ID = "java"
	Kotlin     ID = "kotlin"
	CSharp     ID = "csharp"
	C          ID = "c"
	CPP        ID = "cpp"
	JavaScript ID = "javascript"
	TypeScript ID = "typescript"
	Python     ID = "python"
	Ruby       ID = "ruby"
	PHP        ID = "php"
	Shell      ID = "shell"
	SQL        ID = "sql"
	HTML       ID = "html"
	XML        ID = "xml"
	CSS        ID = "css"
	JSON       ID = "json"
	YAML       ID = "yaml"
	Markdown   ID = "markdown"
	Swift      ID = "swift"
	Rust       ID = "rust"
)

// CommentStyle describes how to turn a text line into a source comment.
// A nil style means the language has no comment syntax at all.
type CommentStyle struct {
	Prefix string
	Suffix string
}

type language struct {
	id         ID
	name       string
	extensions []string
	comment    *CommentStyle
}

var lineComment = func(prefix string) *CommentStyle { return &CommentStyle{Prefix: prefix} }

var languages = []language{
	{Text, "Plain Text", []string{"txt", "text"}, nil},
	{Go, "Go", []string{"go"}, lineComment("//")},
	{Java, "Java", []string{"java"}, lineComment("//")},
	{Kotlin, "Kotlin", []string{"kt", "kts"}, lineComment("//")},
	{CSharp, "C#", []string{"cs"}, lineComment("//")},
	{C, "C", []string{"c", "h"}, lineComment("//")},
	{CPP, "C++", []string{"cpp", "cc", "cxx", "hpp"}, lineComment("//")},
	{JavaScript, "JavaScript", []string{"js", "mjs", "cjs", "jsx"}, lineComment("//")},
	{TypeScript, "TypeScript", []string{"ts", "tsx"}, lineComment("//")},
	{Python, "Python", []string{"py"}, lineComment("#")},
	{Ruby, "Ruby", []string{"rb"}, lineComment("#")},
	{PHP, "PHP", []string{"php"}, lineComment("//")},
	{Shell, "Shell", []string{"sh", "bash", "zsh"}, lineComment("#")},
	{SQL, "SQL", []string{"sql"}, lineComment("--")},
	{HTML, "HTML", []string{"html", "htm"}, &CommentStyle{Prefix: "<!--", Suffix: "-->"}},
	{XML, "XML", []string{"xml", "xsd", "xsl"}, &CommentStyle{Prefix: "<!--", Suffix: "-->"}},
	{CSS, "CSS", []string{"css"}, &CommentStyle{Prefix: "/*", Suffix: "*/"}},
	{JSON, "JSON", []string{"json"}, nil},
	{YAML, "YAML", []string{"yaml", "yml"}, lineComment("#")},
	{Markdown, "Markdown", []string{"md", "markdown"}, nil},
	{Swift, "Swift", []string{"swift"}, lineComment("//")},
	{Rust, "Rust", []string{"rs"}, lineComment("//")},
}

// aliases redirects legacy identifier names onto current tags. Checked
// before the regular three-stage search.
var aliases = map[string]ID{
	"golang":     Go,
	"c_sharp":    CSharp,
	"cplusplus":  CPP,
	"node":       JavaScript,
	"nodejs":     JavaScript,
	"ecmascript": JavaScript,
	"yml":        YAML,
	"plaintext":  Text,
	"plain":      Text,
	"bash":       Shell,
	"posix":      Shell,
}

// SchemaFamily is the set of file extensions treated as one "structured
// schema descriptor" family for the detection-language override, and the
// canonical tag the family collapses onto.
var (
	SchemaFamilyExtensions = []string{"json", "yaml", "yml"}
	SchemaFamilyTag        = JSON
)

// InSchemaFamily reports whether the given language tag or extension
// belongs to the schema-descriptor family. Matching is case-insensitive.
func InSchemaFamily(tag string) bool {
	t := strings.ToLower(strings.TrimSpace(tag))
	for _, ext := range SchemaFamilyExtensions {
		if t == ext {
			return true
		}
	}
	return false
}

// Resolve maps an identifier, display name, or file extension onto a
// language tag. The only erroring input is the empty string; anything
// unrecognized falls back to Text so a migration never halts on an
// exotic extension. Matching order: alias table, identifier, display
// name, extension; first match wins.
func Resolve(input string) (ID, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return Unknown, ErrUnknownLanguage
	}
	if id, ok := aliases[in]; ok {
		return id, nil
	}
	for _, l := range languages {
		if string(l.id) == in {
			return l.id, nil
		}
	}
	for _, l := range languages {
		if strings.ToLower(l.name) == in {
			return l.id, nil
		}
	}
	for _, l := range languages {
		for _, ext := range l.extensions {
			if ext == in {
				return l.id, nil
			}
		}
	}
	return Text, nil
}

// CommentStyleFor returns the comment syntax for a language, or nil when
// the language has none (data-only formats), in which case comment
// injection is a no-op.
func CommentStyleFor(id ID) *CommentStyle {
	for _, l := range languages {
		if l.id == id {
			return l.comment
		}
	}
	return nil
}

// DisplayName returns the human-readable name for a language tag.
func DisplayName(id ID) string {
	for _, l := range languages {
		if l.id == id {
			return l.name
		}
	}
	return string(id)
}
