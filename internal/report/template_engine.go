// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package report

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/template"
	"text/template/parse"
)

// MissingFieldError reports a template placeholder with no matching field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template references missing field %q", e.Field)
}

// TemplateEngine parses report templates with a shared function map.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// NewTemplateEngine creates a new template engine with the standard helpers.
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{funcMap: buildFuncMap()}
}

// buildFuncMap creates the template function map.
func buildFuncMap() template.FuncMap {
	return template.FuncMap{
		// String manipulation
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"trim":   strings.TrimSpace,
		"join":   strings.Join,
		"repeat": strings.Repeat,

		// Number formatting
		"formatNumber": formatWithCommas,

		// Underline a heading with '=' of the same width.
		"underline": func(s string) string {
			return strings.Repeat("=", len([]rune(s)))
		},
	}
}

// Template is a parsed report template together with the fields it references.
type Template struct {
	name   string
	tmpl   *template.Template
	fields []string
}

// Parse parses content as a report template.
func (te *TemplateEngine) Parse(name, content string) (*Template, error) {
	tmpl, err := template.New(name).
		Funcs(te.funcMap).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	w := &fieldWalker{tmpl: tmpl, seen: make(map[string]bool), visited: make(map[string]bool)}
	if tmpl.Tree != nil {
		w.visited[name] = true
		w.walk(tmpl.Tree.Root, true)
	}

	return &Template{name: name, tmpl: tmpl, fields: w.fields}, nil
}

// ParseFile reads and parses a template file.
func (te *TemplateEngine) ParseFile(path string) (*Template, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}
	return te.Parse(path, string(content))
}

// Name returns the template name (the file path for file templates).
func (t *Template) Name() string {
	return t.name
}

// Fields returns the field names the template references, in order of first use.
func (t *Template) Fields() []string {
	return slices.Clone(t.fields)
}

// Check returns a *MissingFieldError for the first referenced field that is
// not in fields.
func (t *Template) Check(fields map[string]any) error {
	for _, name := range t.fields {
		if _, ok := fields[name]; !ok {
			return &MissingFieldError{Field: name}
		}
	}
	return nil
}

// Unused returns the keys of fields the template never references, sorted.
func (t *Template) Unused(fields map[string]any) []string {
	var unused []string
	for key := range fields {
		if !slices.Contains(t.fields, key) {
			unused = append(unused, key)
		}
	}
	slices.Sort(unused)
	return unused
}

// Render checks the template against fields and executes it.
func (t *Template) Render(fields map[string]any) (string, error) {
	if err := t.Check(fields); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, fields); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", t.name, err)
	}
	return buf.String(), nil
}

// fieldWalker collects the top-level field names a template reads.
// Inside range and with blocks dot is rebound, so only $.field references
// count there.
type fieldWalker struct {
	tmpl    *template.Template
	fields  []string
	seen    map[string]bool
	visited map[string]bool
}

func (w *fieldWalker) add(name string) {
	if !w.seen[name] {
		w.seen[name] = true
		w.fields = append(w.fields, name)
	}
}

// walk visits node. rootDot is true while dot is still the field map.
func (w *fieldWalker) walk(node parse.Node, rootDot bool) {
	switch n := node.(type) {
	case nil:
		return
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			w.walk(child, rootDot)
		}
	case *parse.ActionNode:
		w.walk(n.Pipe, rootDot)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			w.walk(cmd, rootDot)
		}
	case *parse.CommandNode:
		// {{index . "key"}} reads a field without a field node, and
		// missingkey=error does not cover index.
		if key, ok := indexedField(n, rootDot); ok {
			w.add(key)
		}
		for _, arg := range n.Args {
			w.walk(arg, rootDot)
		}
	case *parse.ChainNode:
		w.walk(n.Node, rootDot)
	case *parse.FieldNode:
		if rootDot && len(n.Ident) > 0 {
			w.add(n.Ident[0])
		}
	case *parse.VariableNode:
		if len(n.Ident) > 1 && n.Ident[0] == "$" {
			w.add(n.Ident[1])
		}
	case *parse.IfNode:
		w.walkBranch(&n.BranchNode, rootDot, rootDot)
	case *parse.RangeNode:
		w.walkBranch(&n.BranchNode, rootDot, false)
	case *parse.WithNode:
		w.walkBranch(&n.BranchNode, rootDot, false)
	case *parse.TemplateNode:
		w.walk(n.Pipe, rootDot)
		if passesRoot(n.Pipe, rootDot) && !w.visited[n.Name] {
			w.visited[n.Name] = true
			if called := w.tmpl.Lookup(n.Name); called != nil && called.Tree != nil {
				w.walk(called.Tree.Root, true)
			}
		}
	}
}

// walkBranch walks the pipeline and else list with the outer dot and the
// body with bodyDot.
func (w *fieldWalker) walkBranch(b *parse.BranchNode, outerDot, bodyDot bool) {
	w.walk(b.Pipe, outerDot)
	w.walk(b.List, bodyDot)
	w.walk(b.ElseList, outerDot)
}

// passesRoot reports whether a {{template}} call passes the field map, either
// as dot while dot is still the map or as $.
func passesRoot(pipe *parse.PipeNode, rootDot bool) bool {
	if pipe == nil || len(pipe.Cmds) != 1 || len(pipe.Cmds[0].Args) != 1 {
		return false
	}
	return isRoot(pipe.Cmds[0].Args[0], rootDot)
}

// indexedField returns the key of an {{index <root> "key" ...}} command.
func indexedField(cmd *parse.CommandNode, rootDot bool) (string, bool) {
	if len(cmd.Args) < 3 {
		return "", false
	}
	if ident, ok := cmd.Args[0].(*parse.IdentifierNode); !ok || ident.Ident != "index" {
		return "", false
	}
	if !isRoot(cmd.Args[1], rootDot) {
		return "", false
	}
	key, ok := cmd.Args[2].(*parse.StringNode)
	if !ok {
		return "", false
	}
	return key.Text, true
}

func isRoot(node parse.Node, rootDot bool) bool {
	switch n := node.(type) {
	case *parse.DotNode:
		return rootDot
	case *parse.VariableNode:
		return len(n.Ident) == 1 && n.Ident[0] == "$"
	}
	return false
}

// formatWithCommas formats an integer with thousands separators.
func formatWithCommas(n int) string {
	if n < 0 {
		return "-" + formatWithCommas(-n)
	}
	s := fmt.Sprintf("%d", n)
	if n < 1000 {
		return s
	}

	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
