package coverage

// Bundle is the coverage of one module.
type Bundle struct {
	Name     string
	Packages []*Package
	Counters Counters
}

// Package is the coverage of one Go package. Classes and SourceFiles are
// sorted by name.
type Package struct {
	// Name is the slash-separated import path.
	Name        string
	Classes     []*Class
	SourceFiles []*SourceFile
	Counters    Counters
}

// Class is the coverage of one source file's declarations.
type Class struct {
	// Name is the package import path joined with the file name without
	// its extension.
	Name           string
	SourceFileName string
	Methods        []*Method
	Counters       Counters
}

// Method is the coverage of one function or method.
type Method struct {
	// Name is the function name, or (T).Name / (*T).Name for methods.
	Name string
	// Desc is the function signature without the func keyword.
	Desc     string
	Line     int
	Counters Counters
}

// SourceFile is the line coverage of one file.
type SourceFile struct {
	Name     string
	Lines    []Line
	Counters Counters
}

// Line is the coverage of one source line. MI and CI count the missed and
// covered statement blocks touching the line.
type Line struct {
	Nr int
	MI int
	CI int
}

// Covered reports whether any block touching the line ran.
func (l Line) Covered() bool {
	return l.CI > 0
}

// Summary returns the bundle name and counters.
func (b *Bundle) Summary() BundleSummary {
	return BundleSummary{Name: b.Name, Counters: b.Counters}
}

// BundleSummary is the reportable outcome of analyzing one module.
type BundleSummary struct {
	Name     string
	Counters Counters
}
