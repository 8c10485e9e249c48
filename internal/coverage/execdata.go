// Package coverage analyzes Go modules against recorded execution data and
// writes the result in the JaCoCo XML report grammar.
package coverage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"golang.org/x/tools/cover"
)

// ErrNoExecutionData is returned by LoadExecutionData when the profile file
// does not exist.
var ErrNoExecutionData = errors.New("execution data file not found")

// ExecutionData is a loaded cover profile indexed by file name.
type ExecutionData struct {
	Path     string
	Mode     string
	profiles map[string]*cover.Profile
}

// ExecutionDataExists reports whether path names a regular file.
func ExecutionDataExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadExecutionData parses the cover profile at path. Blocks repeated across
// profile sections are merged by golang.org/x/tools/cover.
func LoadExecutionData(path string) (*ExecutionData, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoExecutionData)
		}
		return nil, fmt.Errorf("reading execution data: %w", err)
	}

	profiles, err := cover.ParseProfiles(path)
	if err != nil {
		return nil, fmt.Errorf("parsing execution data %s: %w", path, err)
	}

	data := &ExecutionData{
		Path:     path,
		profiles: make(map[string]*cover.Profile, len(profiles)),
	}
	for _, p := range profiles {
		data.profiles[p.FileName] = p
		data.Mode = p.Mode
	}
	return data, nil
}

// Profile returns the profile recorded for an import-path file name such as
// example.com/mod/pkg/file.go.
func (e *ExecutionData) Profile(fileName string) (*cover.Profile, bool) {
	p, ok := e.profiles[fileName]
	return p, ok
}

// FilesUnder returns the sorted profile file names below an import path.
func (e *ExecutionData) FilesUnder(importPath string) []string {
	prefix := strings.TrimSuffix(importPath, "/") + "/"
	var names []string
	for name := range e.profiles {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of profiled files.
func (e *ExecutionData) Len() int {
	return len(e.profiles)
}
