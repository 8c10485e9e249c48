// Package module provides the read-only view of the build's modules and their
// declared dependency edges.
package module

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Coordinates identify a module by group, artifact and version.
type Coordinates struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
}

// Key returns the deduplication key for the coordinates.
func (c Coordinates) Key() Key {
	return Key(c.GroupID + ":" + c.ArtifactID + ":" + c.Version)
}

// String returns the coordinates in groupId:artifactId:version form.
func (c Coordinates) String() string {
	return string(c.Key())
}

// ManagementKey returns groupId:artifactId without the version.
func (c Coordinates) ManagementKey() string {
	return c.GroupID + ":" + c.ArtifactID
}

// Key is the identity used for "already visited" tracking: groupId:artifactId:version.
type Key string

// ParseCoordinates parses "groupId:artifactId:version".
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinates{}, fmt.Errorf("invalid coordinates %q: expected groupId:artifactId:version", s)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinates{}, fmt.Errorf("invalid coordinates %q: empty component", s)
		}
	}
	return Coordinates{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
}

// Ref identifies a build module and carries the locations of its units.
// Refs are owned by the Graph and never mutated after construction.
type Ref struct {
	Coordinates

	// Dir is the absolute module directory.
	Dir string

	// ImportPath is the Go import path prefix of the module. Execution data
	// entries under this prefix belong to the module.
	ImportPath string

	// SourceDirs are absolute directories searched for source units.
	// Defaults to Dir when empty.
	SourceDirs []string

	// BuildDir is the absolute directory holding build outputs
	// (execution data, reports).
	BuildDir string
}

// Key returns the module key.
func (r Ref) Key() Key {
	return r.Coordinates.Key()
}

// Sources returns the directories to scan for source units.
func (r Ref) Sources() []string {
	if len(r.SourceDirs) == 0 {
		return []string{r.Dir}
	}
	return r.SourceDirs
}

// DefaultBuildDir returns BuildDir, or <Dir>/build when unset.
func (r Ref) DefaultBuildDir() string {
	if r.BuildDir != "" {
		return r.BuildDir
	}
	return filepath.Join(r.Dir, "build")
}

// Dependency is a declared dependency edge from one module to a set of coordinates.
type Dependency struct {
	From  Key
	To    Coordinates
	Scope Scope
}

// Graph is the module graph consumed by the resolver.
type Graph interface {
	// Lookup finds a build module by exact coordinates. A miss means the
	// dependency is not part of the current build.
	Lookup(c Coordinates) (Ref, bool)

	// Dependencies returns the declared edges of a module in declaration order.
	Dependencies(r Ref) []Dependency
}
