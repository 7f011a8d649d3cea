// Package cluster drives the LLM-proposed grouping of practices into
// standards and repairs the proposal until it covers every input item
// exactly once.
package cluster

import (
	"github.com/stdforge/stdforge/internal/practice"
)

// Fallback bucket appended when repair attempts are exhausted. The same
// group name is reused downstream for records missing from a mapping.
const (
	FallbackGroupName        = "Uncategorized"
	FallbackGroupDescription = "Practices the classifier could not place into any proposed standard."
)

// Item is one practice as seen by the classifier.
type Item struct {
	Name        string
	Description string
}

// Group is one proposed standard: a name, a description, and the member
// practice names assigned to it.
type Group struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Members     []string `json:"members" yaml:"members"`
}

// Mapping is the full grouping proposed by the classifier and repaired by
// the controller. After Run returns, every input item name appears in
// exactly one group (case-insensitive).
type Mapping struct {
	Groups []Group `json:"groups" yaml:"groups"`
}

// MemberIndex returns a canonical-member-name to group-name index.
func (m Mapping) MemberIndex() map[string]string {
	idx := make(map[string]string)
	for _, g := range m.Groups {
		for _, member := range g.Members {
			idx[practice.Canon(member)] = g.Name
		}
	}
	return idx
}

// memberSet returns the canonical set of all member names in the mapping.
func (m Mapping) memberSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, g := range m.Groups {
		for _, member := range g.Members {
			set[practice.Canon(member)] = struct{}{}
		}
	}
	return set
}
