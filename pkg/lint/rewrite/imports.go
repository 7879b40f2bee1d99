package rewrite

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// AddImport returns the edits that bring edit.Name from edit.Module into
// scope. It returns no edit when the name is already imported.
func AddImport(doc *syntax.Document, edit lint.ImportEdit) ([]lint.TextEdit, error) {
	return importEdits(doc, []lint.ImportEdit{edit})
}

// RemoveImport returns the edits dropping edit.Name from its import. The sole
// specifier of a declaration takes the whole statement with it. A name that
// is not imported yields no edit.
func RemoveImport(doc *syntax.Document, edit lint.ImportEdit) ([]lint.TextEdit, error) {
	edit.Op = lint.ImportRemove
	return importEdits(doc, []lint.ImportEdit{edit})
}

// importEdits realizes a batch of import edits. Additions of several names
// to a module that is not yet imported share one new statement.
func importEdits(doc *syntax.Document, edits []lint.ImportEdit) ([]lint.TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}
	if doc.Root() == nil {
		return nil, ErrNoInsertionPoint
	}
	imports := binding.Imports(doc)

	var out []lint.TextEdit
	appended := map[*syntax.Node][]string{}
	var newModules []string
	newNames := map[string][]string{}

	for _, e := range edits {
		if e.Module == "" || e.Name == "" {
			return nil, fmt.Errorf("%w: import edit needs a module and a name", ErrNoInsertionPoint)
		}
		switch e.Op {
		case lint.ImportRemove:
			removal, err := removeSpecifier(doc, imports, e)
			if err != nil {
				return nil, err
			}
			out = append(out, removal...)
		default:
			if imports.Has(e.Module, e.Name) {
				continue
			}
			if decl := compatibleDecl(imports, e); decl != nil {
				if !slices.Contains(appended[decl], e.Name) {
					appended[decl] = append(appended[decl], e.Name)
				}
				continue
			}
			if !slices.Contains(newModules, e.Module) {
				newModules = append(newModules, e.Module)
			}
			if !slices.Contains(newNames[e.Module], e.Name) {
				newNames[e.Module] = append(newNames[e.Module], e.Name)
			}
		}
	}

	for _, decl := range imports.Decls {
		if names := appended[decl]; len(names) > 0 {
			edit, err := appendSpecifiers(doc, decl, names)
			if err != nil {
				return nil, err
			}
			out = append(out, edit)
		}
	}
	if len(newModules) > 0 {
		offset, prefix, suffix := insertionPoint(doc, imports)
		var b strings.Builder
		b.WriteString(prefix)
		q := quote(imports)
		for _, m := range newModules {
			fmt.Fprintf(&b, "import { %s } from %s%s%s;\n", strings.Join(newNames[m], ", "), q, m, q)
		}
		b.WriteString(suffix)
		pos := doc.PositionAt(offset)
		out = append(out, lint.TextEdit{Pos: pos, EndPos: pos, NewText: b.String()})
	}
	return out, nil
}

// compatibleDecl returns an import of e.Module a named specifier can be
// appended to. Type-only clauses qualify only when e allows it; a clause
// holding a namespace import never does.
func compatibleDecl(imports binding.ImportList, e lint.ImportEdit) *syntax.Node {
	for _, decl := range imports.Decls {
		if decl.Child(syntax.FieldSource).Value != e.Module {
			continue
		}
		if decl.Has(syntax.TypeOnly) && !e.AllowTypeOnly {
			continue
		}
		specs := decl.List(syntax.FieldSpecifiers)
		if len(specs) == 0 && !hasBraces(decl) {
			continue
		}
		if slices.ContainsFunc(specs, func(s *syntax.Node) bool { return s.Kind == syntax.ImportNamespaceSpecifier }) {
			continue
		}
		return decl
	}
	return nil
}

func hasBraces(decl *syntax.Node) bool {
	return slices.ContainsFunc(decl.Document().TokensIn(decl.Span), func(t token.Token) bool {
		return t.Type == token.LBRACE
	})
}

// appendSpecifiers adds names to an existing clause: after its last named
// specifier, into its empty braces, or as a new brace group after a default
// import.
func appendSpecifiers(doc *syntax.Document, decl *syntax.Node, names []string) (lint.TextEdit, error) {
	list := strings.Join(names, ", ")
	var last *syntax.Node
	for _, s := range decl.List(syntax.FieldSpecifiers) {
		if s.Kind == syntax.ImportSpecifier {
			last = s
		}
	}
	if last != nil {
		pos := last.Span.End
		return lint.TextEdit{Pos: pos, EndPos: pos, NewText: ", " + list}, nil
	}
	for _, t := range doc.TokensIn(decl.Span) {
		if t.Type == token.LBRACE {
			pos := t.End
			return lint.TextEdit{Pos: pos, EndPos: pos, NewText: " " + list + " "}, nil
		}
	}
	specs := decl.List(syntax.FieldSpecifiers)
	if len(specs) == 1 && specs[0].Kind == syntax.ImportDefaultSpecifier {
		pos := specs[0].Span.End
		return lint.TextEdit{Pos: pos, EndPos: pos, NewText: ", { " + list + " }"}, nil
	}
	return lint.TextEdit{}, fmt.Errorf("%w: cannot extend import at %d:%d", ErrNoInsertionPoint, decl.Span.Start.Line, decl.Span.Start.Column)
}

func removeSpecifier(doc *syntax.Document, imports binding.ImportList, e lint.ImportEdit) ([]lint.TextEdit, error) {
	imp, ok := imports.Find(e.Module, e.Name)
	if !ok || imp.Spec.Kind != syntax.ImportSpecifier {
		return nil, nil
	}
	specs := imp.Decl.List(syntax.FieldSpecifiers)
	if len(specs) == 1 {
		return RemoveStatement(doc, imp.Decl)
	}
	named := 0
	for _, s := range specs {
		if s.Kind == syntax.ImportSpecifier {
			named++
		}
	}
	if named > 1 {
		return RemoveElement(doc, imp.Spec)
	}
	// The last named specifier next to a default import: drop the braces.
	prev := specs[imp.Spec.Index()-1]
	var closing token.Token
	for _, t := range doc.TokensIn(imp.Decl.Span) {
		if t.Type == token.RBRACE {
			closing = t
			break
		}
	}
	if !closing.Pos.IsValid() {
		return nil, fmt.Errorf("%w: unbalanced import at %d:%d", ErrInvalidRange, imp.Decl.Span.Start.Line, imp.Decl.Span.Start.Column)
	}
	return []lint.TextEdit{deletion(doc, prev.Span.End.Offset, closing.End.Offset)}, nil
}

// insertionPoint places new import statements on the line after the last
// import. Without imports they go after the directive prologue, or before
// the first statement when there is none.
func insertionPoint(doc *syntax.Document, imports binding.ImportList) (offset int, prefix, suffix string) {
	if n := len(imports.Decls); n > 0 {
		end := imports.Decls[n-1].Span.End.Offset
		lineEnd := doc.LineEnd(end)
		if lineEnd >= len(doc.Text) {
			return len(doc.Text), "\n", ""
		}
		return lineBreakEnd(doc.Text, lineEnd), "", ""
	}
	body := doc.Root().List(syntax.FieldBody)
	directives := 0
	for directives < len(body) && isDirective(body[directives]) {
		directives++
	}
	if directives > 0 {
		lineEnd := doc.LineEnd(body[directives-1].Span.End.Offset)
		if lineEnd >= len(doc.Text) {
			return len(doc.Text), "\n\n", ""
		}
		if directives < len(body) {
			suffix = "\n"
		}
		return lineBreakEnd(doc.Text, lineEnd), "\n", suffix
	}
	if len(body) == 0 {
		return len(doc.Text), "", ""
	}
	return doc.LineStart(body[0].Span.Start.Offset), "", "\n"
}

// isDirective reports whether stmt is a prologue directive such as
// 'use strict'.
func isDirective(stmt *syntax.Node) bool {
	if stmt.Kind != syntax.ExpressionStatement {
		return false
	}
	expr := stmt.Child(syntax.FieldExpression)
	return expr != nil && expr.Kind == syntax.Literal && expr.Variant == "string"
}

// quote follows the quote style of the existing imports.
func quote(imports binding.ImportList) string {
	for _, decl := range imports.Decls {
		if raw := decl.Child(syntax.FieldSource).Raw; strings.HasPrefix(raw, `"`) {
			return `"`
		} else if raw != "" {
			return "'"
		}
	}
	return "'"
}
