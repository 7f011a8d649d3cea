// Package snippet models exported file content as a bag of numbered lines
// and extracts bounded code excerpts from it.
package snippet

import (
	"sort"
	"strings"
)

// FileSnapshot is one source file at export time. Lines are keyed by their
// original line number; numbers are not guaranteed contiguous or 1-based.
type FileSnapshot struct {
	Path     string
	Language string
	Lines    map[int]string
}

// Empty reports whether the snapshot holds no lines.
func (s FileSnapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Bounds returns the minimum and maximum line numbers present.
// The snapshot must be non-empty.
func (s FileSnapshot) Bounds() (min, max int) {
	first := true
	for n := range s.Lines {
		if first {
			min, max = n, n
			first = false
			continue
		}
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	return min, max
}

// Extract returns the lines covering [beginLine, endLine] plus padding
// lines of symmetric context, clamped to the snapshot's bounds, joined by
// newlines in ascending line order. The result is always a contiguous
// range of whatever lines the snapshot holds in that window; a range that
// misses the snapshot entirely yields an empty string.
//
// The snapshot must be non-empty; that is a caller precondition, not a
// runtime fallback.
func Extract(s FileSnapshot, beginLine, endLine, padding int) string {
	min, max := s.Bounds()
	start := beginLine - padding
	if start < min {
		start = min
	}
	stop := endLine + padding
	if stop > max {
		stop = max
	}
	if start > stop {
		// The padded range misses the snapshot entirely.
		return ""
	}

	nums := make([]int, 0, stop-start+1)
	for n := range s.Lines {
		if n >= start && n <= stop {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)

	var b strings.Builder
	for i, n := range nums {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Lines[n])
	}
	return b.String()
}
