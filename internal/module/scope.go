package module

import (
	"fmt"
	"sort"
	"strings"
)

// Scope tags a dependency edge with when the dependency is needed.
type Scope int

// Known scopes.
const (
	ScopeCompile Scope = iota + 1
	ScopeProvided
	ScopeRuntime
	ScopeTest
	ScopeSystem
)

var scopeNames = map[Scope]string{
	ScopeCompile:  "compile",
	ScopeProvided: "provided",
	ScopeRuntime:  "runtime",
	ScopeTest:     "test",
	ScopeSystem:   "system",
}

// AllScopes returns every known scope in declaration order.
func AllScopes() []Scope {
	return []Scope{ScopeCompile, ScopeProvided, ScopeRuntime, ScopeTest, ScopeSystem}
}

// String returns the lower-case scope name.
func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// IsValid reports whether s is a known scope.
func (s Scope) IsValid() bool {
	_, ok := scopeNames[s]
	return ok
}

// ParseScope parses a scope name. Matching is case-insensitive and an empty
// string is compile, which is the default scope of a declared dependency.
func ParseScope(name string) (Scope, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ScopeCompile, nil
	}
	for s, sn := range scopeNames {
		if sn == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown scope %q (valid: %s)", name, strings.Join(ScopeNames(), ", "))
}

// ScopeNames returns the names of every known scope.
func ScopeNames() []string {
	names := make([]string, 0, len(scopeNames))
	for _, s := range AllScopes() {
		names = append(names, s.String())
	}
	return names
}

// ScopeSet is a set of scopes considered relevant for resolution.
type ScopeSet map[Scope]struct{}

// NewScopeSet builds a set from the given scopes.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

// ParseScopeSet parses configuration strings into a set. An empty list
// selects all known scopes.
func ParseScopeSet(names []string) (ScopeSet, error) {
	if len(names) == 0 {
		return NewScopeSet(AllScopes()...), nil
	}
	set := make(ScopeSet, len(names))
	for _, name := range names {
		s, err := ParseScope(name)
		if err != nil {
			return nil, err
		}
		set[s] = struct{}{}
	}
	return set, nil
}

// Contains reports whether s is a member of the set.
func (ss ScopeSet) Contains(s Scope) bool {
	_, ok := ss[s]
	return ok
}

// Names returns the sorted scope names of the set.
func (ss ScopeSet) Names() []string {
	scopes := make([]Scope, 0, len(ss))
	for s := range ss {
		scopes = append(scopes, s)
	}
	sort.Slice(scopes, func(i, j int) bool { return scopes[i] < scopes[j] })
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = s.String()
	}
	return names
}
