package discovery

import (
	"path/filepath"
	"strings"
)

// Kind identifies how a pattern string is interpreted during matching.
type Kind int

const (
	// KindName matches a bare name against the final segment, any segment,
	// and as a substring of the full path.
	KindName Kind = iota
	// KindEnvironment is a KindName pattern from the known virtual-environment
	// name set, which additionally matches "name_"-prefixed and "_name"-suffixed
	// segments.
	KindEnvironment
	// KindSuffixGlob matches when the final segment ends with the pattern's
	// suffix (the part after the leading '*').
	KindSuffixGlob
	// KindSubstring matches when the pattern occurs anywhere in the path.
	KindSubstring
)

// envNames is the closed set of directory names the environment heuristic
// applies to. Order is irrelevant; membership is exact.
var envNames = map[string]bool{
	"venv":        true,
	".venv":       true,
	"env":         true,
	".env":        true,
	"virtualenv":  true,
	".virtualenv": true,
}

// Pattern is one exclusion rule, classified from its raw string form.
type Pattern struct {
	Raw  string
	Kind Kind
}

// Classify inspects a raw pattern string and assigns its kind. The kind
// makes intent explicit but never changes the match outcome: every kind
// retains the loose substring fallback the matching rules document.
func Classify(raw string) Pattern {
	switch {
	case strings.HasPrefix(raw, "*"):
		return Pattern{Raw: raw, Kind: KindSuffixGlob}
	case envNames[raw]:
		return Pattern{Raw: raw, Kind: KindEnvironment}
	case strings.ContainsRune(raw, filepath.Separator) || strings.ContainsRune(raw, '/'):
		return Pattern{Raw: raw, Kind: KindSubstring}
	default:
		return Pattern{Raw: raw, Kind: KindName}
	}
}

// ClassifyAll classifies a slice of raw pattern strings.
func ClassifyAll(raw []string) []Pattern {
	patterns := make([]Pattern, 0, len(raw))
	for _, r := range raw {
		patterns = append(patterns, Classify(r))
	}
	return patterns
}

// Matches reports whether the pattern excludes the given path. Matching is
// case-sensitive. See the package documentation for the full rule set.
func (p Pattern) Matches(path string) bool {
	name := filepath.Base(path)

	switch p.Kind {
	case KindSuffixGlob:
		if strings.HasSuffix(name, p.Raw[1:]) {
			return true
		}

	case KindEnvironment:
		for _, part := range splitSegments(path) {
			if part == p.Raw ||
				strings.HasPrefix(part, p.Raw+"_") ||
				strings.HasSuffix(part, "_"+p.Raw) {
				return true
			}
		}

	case KindName:
		if name == p.Raw {
			return true
		}
		for _, part := range splitSegments(path) {
			if part == p.Raw {
				return true
			}
		}
	}

	// Substring fallback applies to every kind. It is deliberately broad:
	// "env" matches a path containing "environment". Consumers depend on
	// the looser behavior, so do not tighten it here.
	return strings.Contains(path, p.Raw)
}

// ShouldExclude reports whether any pattern matches the path. An empty
// pattern list excludes nothing.
func ShouldExclude(path string, patterns []Pattern) bool {
	for _, p := range patterns {
		if p.Matches(path) {
			return true
		}
	}
	return false
}

// splitSegments breaks a path into its segments, dropping empties produced
// by a leading separator.
func splitSegments(path string) []string {
	raw := strings.FieldsFunc(path, func(r rune) bool {
		return r == filepath.Separator || r == '/'
	})
	return raw
}
