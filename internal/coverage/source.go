package coverage

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/cover"
)

// block is a statement range on source lines. Profiled blocks come from the
// cover profile; unprofiled files get one block per statement.
type block struct {
	startLine int
	endLine   int
	stmts     int
	count     int
}

// funcDecl is a function or method recovered from source.
type funcDecl struct {
	name      string
	desc      string
	startLine int
	endLine   int
}

// sourceUnit is one parsed file.
type sourceUnit struct {
	funcs  []funcDecl
	blocks []block
}

// parseUnit parses decoded source. When profile is nil, statements are
// synthesized as never-executed blocks.
func parseUnit(fset *token.FileSet, filename string, src []byte, profile *cover.Profile) (*sourceUnit, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	unit := &sourceUnit{}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		unit.funcs = append(unit.funcs, funcDecl{
			name:      funcName(fn),
			desc:      funcDesc(fn.Type),
			startLine: fset.Position(fn.Pos()).Line,
			endLine:   fset.Position(fn.End()).Line,
		})
	}

	if profile != nil {
		for _, b := range profile.Blocks {
			unit.blocks = append(unit.blocks, block{
				startLine: b.StartLine,
				endLine:   b.EndLine,
				stmts:     b.NumStmt,
				count:     b.Count,
			})
		}
		return unit, nil
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			switch n.(type) {
			case nil, *ast.BlockStmt, *ast.CaseClause, *ast.CommClause, *ast.LabeledStmt, *ast.EmptyStmt:
				return true
			case ast.Stmt:
				line := fset.Position(n.Pos()).Line
				unit.blocks = append(unit.blocks, block{startLine: line, endLine: line, stmts: 1})
			}
			return true
		})
	}
	sort.SliceStable(unit.blocks, func(i, j int) bool {
		return unit.blocks[i].startLine < unit.blocks[j].startLine
	})
	return unit, nil
}

// funcName returns Name, (T).Name or (*T).Name.
func funcName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}
	return "(" + recvType(fn.Recv.List[0].Type) + ")." + fn.Name.Name
}

func recvType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return "*" + recvType(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return recvType(t.X)
	case *ast.IndexListExpr:
		return recvType(t.X)
	case *ast.ParenExpr:
		return recvType(t.X)
	default:
		return "?"
	}
}

// funcDesc renders the signature without the func keyword, e.g.
// "(name string) string".
func funcDesc(ft *ast.FuncType) string {
	desc := "(" + fieldList(ft.Params) + ")"
	if ft.Results == nil || len(ft.Results.List) == 0 {
		return desc
	}
	if len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) == 0 {
		return desc + " " + types.ExprString(ft.Results.List[0].Type)
	}
	return desc + " (" + fieldList(ft.Results) + ")"
}

func fieldList(fl *ast.FieldList) string {
	if fl == nil {
		return ""
	}
	parts := make([]string, 0, len(fl.List))
	for _, f := range fl.List {
		typ := types.ExprString(f.Type)
		if len(f.Names) == 0 {
			parts = append(parts, typ)
			continue
		}
		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}
		parts = append(parts, strings.Join(names, ", ")+" "+typ)
	}
	return strings.Join(parts, ", ")
}
