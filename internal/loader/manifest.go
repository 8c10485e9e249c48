// Package loader reads the module graph manifest and builds the in-memory
// module registry from it.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	oerrors "github.com/crosscov/cli/internal/errors"
	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
)

// Manifest is the decoded module graph manifest.
type Manifest struct {
	Modules []ModuleSpec `json:"modules"`
}

// ModuleSpec declares one build module.
type ModuleSpec struct {
	module.Coordinates

	// Dir is the module directory, relative to the manifest directory.
	Dir string `json:"dir"`

	// ImportPath is the Go import path prefix of the module.
	ImportPath string `json:"importPath"`

	// Sources are source directories relative to Dir.
	Sources []string `json:"sources,omitempty"`

	// BuildDir is the build output directory relative to Dir.
	BuildDir string `json:"buildDir,omitempty"`

	Dependencies []DependencySpec `json:"dependencies,omitempty"`
}

// DependencySpec declares one dependency edge. An empty scope is compile.
type DependencySpec struct {
	module.Coordinates
	Scope string `json:"scope,omitempty"`
}

// Load reads the manifest at path and returns the registry it describes.
// Relative module directories are resolved against the manifest directory.
func Load(path string) (*module.Registry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError(
				"module graph manifest not found",
				abs,
				"Create crosscov.yaml or pass --graph",
			)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	output.Debug("loading module graph", "path", abs)
	return Parse(data, filepath.Dir(abs), abs)
}

// Parse decodes YAML or JSON manifest data. baseDir anchors relative
// directories; location is used in error messages.
func Parse(data []byte, baseDir, location string) (*module.Registry, error) {
	m, err := Decode(data, location)
	if err != nil {
		return nil, err
	}
	return m.Registry(baseDir, location)
}

// Decode converts manifest data to JSON, validates it against the schema,
// and decodes it.
func Decode(data []byte, location string) (*Manifest, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("manifest is not valid YAML or JSON: %v", err),
			location, "", "")
	}

	if err := validateJSON(jsonData); err != nil {
		return nil, oerrors.NewValidationError(
			err.Error(),
			location, "",
			"Each module needs groupId, artifactId, version, dir and importPath")
	}

	var m Manifest
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("decoding manifest: %v", err),
			location, "", "")
	}
	return &m, nil
}

// Registry builds the module registry described by the manifest.
func (m *Manifest) Registry(baseDir, location string) (*module.Registry, error) {
	reg := module.NewRegistry()
	for i, spec := range m.Modules {
		ref := spec.ref(baseDir)

		deps := make([]module.Dependency, 0, len(spec.Dependencies))
		for j, d := range spec.Dependencies {
			scope, err := module.ParseScope(d.Scope)
			if err != nil {
				return nil, oerrors.NewValidationError(err.Error(), location,
					fmt.Sprintf("modules[%d].dependencies[%d].scope", i, j), "")
			}
			deps = append(deps, module.Dependency{To: d.Coordinates, Scope: scope})
		}

		if err := reg.Add(ref, deps...); err != nil {
			return nil, oerrors.NewValidationError(err.Error(), location,
				fmt.Sprintf("modules[%d]", i), "Module coordinates must be unique")
		}
	}

	output.Debug("module graph loaded", "modules", len(m.Modules))
	return reg, nil
}

func (s ModuleSpec) ref(baseDir string) module.Ref {
	dir := resolve(baseDir, s.Dir)

	var sources []string
	for _, src := range s.Sources {
		sources = append(sources, resolve(dir, src))
	}

	var buildDir string
	if s.BuildDir != "" {
		buildDir = resolve(dir, s.BuildDir)
	}

	return module.Ref{
		Coordinates: s.Coordinates,
		Dir:         dir,
		ImportPath:  s.ImportPath,
		SourceDirs:  sources,
		BuildDir:    buildDir,
	}
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
