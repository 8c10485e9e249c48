package module

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry is an in-memory Graph indexed by module key.
type Registry struct {
	modules map[Key]Ref
	order   []Key
	deps    map[Key][]Dependency
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[Key]Ref),
		deps:    make(map[Key][]Dependency),
	}
}

// Add registers a module and its declared dependencies.
// Registering the same key twice is an error.
func (r *Registry) Add(ref Ref, deps ...Dependency) error {
	key := ref.Key()
	if _, exists := r.modules[key]; exists {
		return fmt.Errorf("duplicate module %s", key)
	}
	r.modules[key] = ref
	r.order = append(r.order, key)

	edges := make([]Dependency, len(deps))
	for i, d := range deps {
		d.From = key
		edges[i] = d
	}
	r.deps[key] = edges
	return nil
}

// Lookup implements Graph.
func (r *Registry) Lookup(c Coordinates) (Ref, bool) {
	ref, ok := r.modules[c.Key()]
	return ref, ok
}

// Dependencies implements Graph.
func (r *Registry) Dependencies(ref Ref) []Dependency {
	return r.deps[ref.Key()]
}

// Modules returns every registered module in registration order.
func (r *Registry) Modules() []Ref {
	refs := make([]Ref, len(r.order))
	for i, k := range r.order {
		refs[i] = r.modules[k]
	}
	return refs
}

// Find selects a module by artifactId or by full groupId:artifactId:version
// coordinates. An artifactId shared by several modules is ambiguous.
func (r *Registry) Find(selector string) (Ref, error) {
	if c, err := ParseCoordinates(selector); err == nil {
		if ref, ok := r.Lookup(c); ok {
			return ref, nil
		}
		return Ref{}, fmt.Errorf("module %s is not part of the build", selector)
	}

	var matches []Ref
	for _, k := range r.order {
		if r.modules[k].ArtifactID == selector {
			matches = append(matches, r.modules[k])
		}
	}
	switch len(matches) {
	case 0:
		return Ref{}, fmt.Errorf("module %q is not part of the build", selector)
	case 1:
		return matches[0], nil
	default:
		return Ref{}, fmt.Errorf("module %q is ambiguous: matches %s and %s", selector, matches[0].Key(), matches[1].Key())
	}
}

// FindContaining returns the module whose directory holds dir, choosing
// the deepest one when module directories nest. Symlinks are resolved on
// both sides before comparing.
func (r *Registry) FindContaining(dir string) (Ref, bool) {
	dir = realPath(dir)
	var best Ref
	bestLen := -1
	for _, k := range r.order {
		m := r.modules[k]
		modDir := realPath(m.Dir)
		if !isWithin(dir, modDir) || len(modDir) <= bestLen {
			continue
		}
		best, bestLen = m, len(modDir)
	}
	return best, bestLen >= 0
}

func realPath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}

// isWithin reports whether path is root or lies below it.
func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SameArtifact returns the modules that share group and artifact with c.
func (r *Registry) SameArtifact(c Coordinates) []Ref {
	var refs []Ref
	for _, k := range r.order {
		m := r.modules[k]
		if m.GroupID == c.GroupID && m.ArtifactID == c.ArtifactID {
			refs = append(refs, m)
		}
	}
	return refs
}
