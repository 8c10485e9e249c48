package coverage

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crosscov/cli/internal/module"
	"github.com/crosscov/cli/internal/output"
)

// Options configure the analysis of one module.
type Options struct {
	// Includes select units by path relative to the module directory.
	// Empty means every unit.
	Includes []string

	// Excludes drop units selected by Includes.
	Excludes []string

	// Encoding is the source file encoding. Empty means UTF-8.
	Encoding string
}

// unitFile is a non-test Go file selected for analysis.
type unitFile struct {
	abs string
	rel string
}

// Analyze builds the coverage bundle of a module. Every selected unit is
// reported; units without execution data count as never executed. The
// bundle is named after the module's artifactId. ctx is checked between files.
func Analyze(ctx context.Context, exec *ExecutionData, ref module.Ref, opts Options) (*Bundle, error) {
	filter, err := NewFilter(opts.Includes, opts.Excludes)
	if err != nil {
		return nil, err
	}
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	log := output.ModuleLogger(ref.ArtifactID)

	units, err := scanUnits(ctx, ref, filter)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	packages := make(map[string]*Package)
	matched := make(map[string]struct{})

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		profileName := path.Join(ref.ImportPath, u.rel)
		profile, profiled := exec.Profile(profileName)
		if profiled {
			matched[profileName] = struct{}{}
		}

		raw, err := os.ReadFile(u.abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", u.abs, err)
		}
		src, err := decodeSource(enc, raw)
		if err != nil {
			return nil, fmt.Errorf("decoding %s as %s: %w", u.abs, opts.Encoding, err)
		}

		parsed, err := parseUnit(fset, u.abs, src, profile)
		if err != nil {
			return nil, err
		}

		pkgName := path.Join(ref.ImportPath, path.Dir(u.rel))
		fileName := path.Base(u.rel)
		class, sf := analyzeUnit(pkgName, fileName, parsed)
		if class == nil {
			log.Debug("unit has no statements", "file", u.rel)
			continue
		}

		pkg, ok := packages[pkgName]
		if !ok {
			pkg = &Package{Name: pkgName}
			packages[pkgName] = pkg
		}
		pkg.Classes = append(pkg.Classes, class)
		pkg.SourceFiles = append(pkg.SourceFiles, sf)
		pkg.Counters = pkg.Counters.Add(class.Counters)
	}

	if ref.ImportPath != "" {
		for _, name := range exec.FilesUnder(ref.ImportPath) {
			if _, ok := matched[name]; !ok {
				log.Debug("execution data without selected unit", "file", name)
			}
		}
	}

	bundle := &Bundle{Name: ref.ArtifactID}
	names := make([]string, 0, len(packages))
	for name := range packages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pkg := packages[name]
		sort.Slice(pkg.Classes, func(i, j int) bool { return pkg.Classes[i].Name < pkg.Classes[j].Name })
		sort.Slice(pkg.SourceFiles, func(i, j int) bool { return pkg.SourceFiles[i].Name < pkg.SourceFiles[j].Name })
		bundle.Packages = append(bundle.Packages, pkg)
		bundle.Counters = bundle.Counters.Add(pkg.Counters)
	}

	log.Debug("module analyzed",
		"units", len(units),
		"packages", len(bundle.Packages),
		"statements", bundle.Counters.Instruction.Total(),
	)
	return bundle, nil
}

// analyzeUnit computes the class and source file coverage of a unit.
// It returns nil when the unit has no statements.
func analyzeUnit(pkgName, fileName string, u *sourceUnit) (*Class, *SourceFile) {
	lines := make(map[int]*Line)
	var inst Counter
	for _, b := range u.blocks {
		if b.stmts == 0 {
			continue
		}
		covered := b.count > 0
		if covered {
			inst.Covered += b.stmts
		} else {
			inst.Missed += b.stmts
		}
		for nr := b.startLine; nr <= b.endLine; nr++ {
			l, ok := lines[nr]
			if !ok {
				l = &Line{Nr: nr}
				lines[nr] = l
			}
			if covered {
				l.CI++
			} else {
				l.MI++
			}
		}
	}
	if inst.Total() == 0 {
		return nil, nil
	}

	sorted := make([]Line, 0, len(lines))
	for _, l := range lines {
		sorted = append(sorted, *l)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Nr < sorted[j].Nr })

	class := &Class{
		Name:           pkgName + "/" + strings.TrimSuffix(fileName, ".go"),
		SourceFileName: fileName,
	}
	anyCovered := false
	for _, fn := range u.funcs {
		m := analyzeFunc(fn, u.blocks, lines)
		class.Methods = append(class.Methods, m)
		class.Counters.Method = class.Counters.Method.Add(m.Counters.Method)
		if m.Counters.Method.Covered > 0 {
			anyCovered = true
		}
	}
	if len(u.funcs) == 0 {
		anyCovered = inst.Covered > 0
	}

	class.Counters.Instruction = inst
	class.Counters.Line = lineCounter(sorted)
	class.Counters.Class = Hit(anyCovered)

	return class, &SourceFile{Name: fileName, Lines: sorted, Counters: class.Counters}
}

// analyzeFunc attributes the blocks starting inside fn to it.
func analyzeFunc(fn funcDecl, blocks []block, lines map[int]*Line) *Method {
	m := &Method{Name: fn.name, Desc: fn.desc, Line: fn.startLine}
	covered := false
	for _, b := range blocks {
		if b.startLine < fn.startLine || b.startLine > fn.endLine {
			continue
		}
		if b.count > 0 {
			covered = true
			m.Counters.Instruction.Covered += b.stmts
		} else {
			m.Counters.Instruction.Missed += b.stmts
		}
	}

	var span []Line
	for nr := fn.startLine; nr <= fn.endLine; nr++ {
		if l, ok := lines[nr]; ok {
			span = append(span, *l)
		}
	}
	m.Counters.Line = lineCounter(span)
	m.Counters.Method = Hit(covered)
	return m
}

func lineCounter(lines []Line) Counter {
	var c Counter
	for _, l := range lines {
		if l.Covered() {
			c.Covered++
		} else {
			c.Missed++
		}
	}
	return c
}

// scanUnits lists the module's non-test Go files selected by filter, sorted
// by relative path. vendor, testdata, hidden directories and nested modules
// are skipped.
func scanUnits(ctx context.Context, ref module.Ref, filter *Filter) ([]unitFile, error) {
	log := output.ModuleLogger(ref.ArtifactID)
	seen := make(map[string]struct{})
	var units []unitFile

	for _, root := range ref.Sources() {
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			log.Debug("source directory does not exist", "dir", root)
			continue
		}

		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && skipDir(p, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(p, ".go") || strings.HasSuffix(p, "_test.go") {
				return nil
			}
			if _, dup := seen[p]; dup {
				return nil
			}
			seen[p] = struct{}{}

			rel, err := filepath.Rel(ref.Dir, p)
			if err != nil || strings.HasPrefix(rel, "..") {
				log.Warn("unit outside module directory; skipping", "file", p)
				return nil
			}
			rel = filepath.ToSlash(rel)
			if !filter.Match(rel) {
				log.Debug("unit filtered out", "file", rel)
				return nil
			}
			units = append(units, unitFile{abs: p, rel: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}

	sort.Slice(units, func(i, j int) bool { return units[i].rel < units[j].rel })
	return units, nil
}

func skipDir(p, name string) bool {
	if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	_, err := os.Stat(filepath.Join(p, "go.mod"))
	return err == nil
}
