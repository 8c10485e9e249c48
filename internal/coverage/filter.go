package coverage

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches every unit.
const DefaultInclude = "**"

// Filter selects units by slash-separated path relative to the module
// directory. A unit is selected when it matches any include and no exclude.
type Filter struct {
	includes []string
	excludes []string
}

// NewFilter validates the patterns and builds a Filter. No includes means
// DefaultInclude.
func NewFilter(includes, excludes []string) (*Filter, error) {
	if len(includes) == 0 {
		includes = []string{DefaultInclude}
	}
	if err := ValidatePatterns(includes); err != nil {
		return nil, err
	}
	if err := ValidatePatterns(excludes); err != nil {
		return nil, err
	}
	return &Filter{includes: includes, excludes: excludes}, nil
}

// ValidatePatterns reports the first malformed glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}

// Match reports whether the unit at rel is selected.
func (f *Filter) Match(rel string) bool {
	return matchAny(f.includes, rel) && !matchAny(f.excludes, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		// A bare file-name pattern also matches by base name.
		if ok, _ := doublestar.Match(p, path.Base(rel)); ok && !strings.Contains(p, "/") {
			return true
		}
	}
	return false
}
