// Package hierarchy interprets dot-qualified goal identifiers as a tree.
//
// The tree is structural: "health" is an ancestor of "health.run_5k" whether
// or not "health" exists as a registered goal. All functions are pure
// operations on whatever id collection the caller supplies.
package hierarchy

import "strings"

// IsAncestor reports whether b equals a followed by "." and one or more
// additional segments. Segment boundaries are respected: "health" is not an
// ancestor of "healthy.thing", and no id is its own ancestor.
func IsAncestor(a, b string) bool {
	if a == "" || len(b) <= len(a) {
		return false
	}
	return strings.HasPrefix(b, a) && b[len(a)] == '.'
}

// Parent returns the id with its last segment removed. Roots have no parent.
func Parent(id string) (string, bool) {
	i := strings.LastIndexByte(id, '.')
	if i < 0 {
		return "", false
	}
	return id[:i], true
}

// Depth returns the number of path segments.
func Depth(id string) int {
	if id == "" {
		return 0
	}
	return strings.Count(id, ".") + 1
}

// Children filters known ids to the direct children of a: descendants with
// no intermediate registered id strictly between. With known = {"health",
// "health.run.fast"}, the sole child of "health" is "health.run.fast",
// because "health.run" is not registered.
func Children(a string, known []string) []string {
	var out []string
	for _, candidate := range known {
		if !IsAncestor(a, candidate) {
			continue
		}
		direct := true
		for _, between := range known {
			if IsAncestor(a, between) && IsAncestor(between, candidate) {
				direct = false
				break
			}
		}
		if direct {
			out = append(out, candidate)
		}
	}
	return out
}

// Rollup returns a itself plus every known id that a is an ancestor of.
// Used by capabilities that filter or aggregate tasks by goal subtree.
func Rollup(a string, known []string) []string {
	out := []string{a}
	for _, candidate := range known {
		if IsAncestor(a, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}
