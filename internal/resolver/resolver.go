// Package resolver computes the scope-filtered dependency closure of a module
// over the build's module graph.
package resolver

import (
	"golang.org/x/mod/semver"

	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
)

// artifactIndex is implemented by graphs that can list modules sharing a
// group and artifact. It is only used for diagnostics.
type artifactIndex interface {
	SameArtifact(c module.Coordinates) []module.Ref
}

// Resolver resolves dependency closures. It holds no per-call state and is
// safe to reuse across invocations.
type Resolver struct {
	graph module.Graph
}

// New creates a Resolver over the given graph.
func New(graph module.Graph) *Resolver {
	return &Resolver{graph: graph}
}

// Options selects which edges are followed.
type Options struct {
	// Scopes is the set of relevant scopes. Edges with other scopes are ignored
	// at every level of the traversal.
	Scopes module.ScopeSet

	// Transitive recurses into resolved modules' own edges.
	Transitive bool
}

// walk carries the visited set shared by every level of one resolution.
type walk struct {
	graph   module.Graph
	opts    Options
	visited map[module.Key]struct{}
	out     []module.Ref
}

// Resolve returns the deduplicated modules reachable from root, in discovery
// order. The root itself is never part of the result. Dependencies that are
// not part of the build are skipped. Resolve never fails; an empty result is valid.
func (r *Resolver) Resolve(root module.Ref, opts Options) []module.Ref {
	w := &walk{
		graph:   r.graph,
		opts:    opts,
		visited: map[module.Key]struct{}{root.Key(): {}},
	}
	w.visit(root)

	output.Debug("dependencies resolved",
		"module", root.Key(),
		"scopes", opts.Scopes.Names(),
		"transitive", opts.Transitive,
		"count", len(w.out),
	)
	return w.out
}

// Closure returns root followed by Resolve(root, opts).
func (r *Resolver) Closure(root module.Ref, opts Options) []module.Ref {
	deps := r.Resolve(root, opts)
	closure := make([]module.Ref, 0, len(deps)+1)
	closure = append(closure, root)
	return append(closure, deps...)
}

func (w *walk) visit(from module.Ref) {
	for _, dep := range w.graph.Dependencies(from) {
		if !w.opts.Scopes.Contains(dep.Scope) {
			continue
		}
		key := dep.To.Key()
		if _, seen := w.visited[key]; seen {
			continue
		}
		w.visited[key] = struct{}{}

		ref, ok := w.graph.Lookup(dep.To)
		if !ok {
			w.logMiss(from, dep)
			continue
		}

		w.out = append(w.out, ref)
		if w.opts.Transitive {
			w.visit(ref)
		}
	}
}

func (w *walk) logMiss(from module.Ref, dep module.Dependency) {
	if idx, ok := w.graph.(artifactIndex); ok {
		for _, candidate := range idx.SameArtifact(dep.To) {
			if sameRelease(candidate.Version, dep.To.Version) {
				output.Debug("dependency differs from build module only by qualifier; skipping",
					"from", from.Key(),
					"dependency", dep.To,
					"build_module", candidate.Key(),
				)
				return
			}
		}
	}
	output.Debug("dependency not part of the build; skipping",
		"from", from.Key(),
		"dependency", dep.To,
		"scope", dep.Scope,
	)
}

// sameRelease reports whether two versions differ only by a pre-release or
// build qualifier. Non-semver versions never match.
func sameRelease(a, b string) bool {
	va, vb := canonical(a), canonical(b)
	if !semver.IsValid(va) || !semver.IsValid(vb) || va == vb {
		return false
	}
	return stripQualifiers(va) == stripQualifiers(vb)
}

func canonical(v string) string {
	if v != "" && v[0] != 'v' {
		v = "v" + v
	}
	return v
}

func stripQualifiers(v string) string {
	c := semver.Canonical(v)
	if pre := semver.Prerelease(c); pre != "" {
		c = c[:len(c)-len(pre)]
	}
	return c
}
