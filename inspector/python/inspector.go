// Package python extracts static import edges from Python sources using tree-sitter.
package python

import (
	"context"
	"fmt"
	"iter"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	grammar "github.com/smacker/go-tree-sitter/python"
	"github.com/viant/archgate/inspector/info"
)

const futureModule = "__future__"

// Inspector extracts import edges from Python modules of one namespace
type Inspector struct {
	namespace *info.Namespace
}

// NewInspector creates a Python inspector resolving imports within namespace
func NewInspector(namespace *info.Namespace) *Inspector {
	if namespace == nil {
		namespace = info.NewNamespace("")
	}
	return &Inspector{namespace: namespace}
}

// Imports parses src and returns a single-use sequence of import edges in source order.
// Unresolvable imports are yielded as *ImportError without stopping the sequence.
func (i *Inspector) Imports(ctx context.Context, module *info.Module, src []byte) (iter.Seq2[info.Import, error], error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammar.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", module.Path, err)
	}
	rootNode := tree.RootNode()
	if rootNode.HasError() {
		defer tree.Close()
		line, message := firstSyntaxError(rootNode, src)
		return nil, &ParseError{Path: module.Path, Line: line, Message: message}
	}
	if node := legacyStatement(rootNode); node != nil {
		defer tree.Close()
		return nil, &ParseError{Path: module.Path, Line: int(node.StartPoint().Row) + 1, Message: fmt.Sprintf("python 2 %s", strings.ReplaceAll(node.Type(), "_", " "))}
	}
	aWalker := &walker{
		namespace: i.namespace,
		module:    module,
		src:       src,
		tree:      tree,
	}
	return aWalker.edges, nil
}

// Definitions parses src and returns the module's top-level functions and classes in source order
func (i *Inspector) Definitions(ctx context.Context, module *info.Module, src []byte) ([]info.Definition, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammar.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", module.Path, err)
	}
	defer tree.Close()
	rootNode := tree.RootNode()
	if rootNode.HasError() {
		line, message := firstSyntaxError(rootNode, src)
		return nil, &ParseError{Path: module.Path, Line: line, Message: message}
	}
	var ret []info.Definition
	for j := 0; j < int(rootNode.NamedChildCount()); j++ {
		node := rootNode.NamedChild(j)
		line := int(node.StartPoint().Row) + 1
		if node.Type() == "decorated_definition" {
			if node = node.ChildByFieldName("definition"); node == nil {
				continue
			}
		}
		var kind info.DefinitionKind
		switch node.Type() {
		case "function_definition":
			kind = info.DefinitionFunction
		case "class_definition":
			kind = info.DefinitionClass
		default:
			continue
		}
		name := node.ChildByFieldName("name")
		if name == nil {
			continue
		}
		ret = append(ret, info.Definition{Name: name.Content(src), Kind: kind, Line: line})
	}
	return ret, nil
}

type walker struct {
	namespace *info.Namespace
	module    *info.Module
	src       []byte
	tree      *sitter.Tree
	consumed  bool
}

func (w *walker) edges(yield func(info.Import, error) bool) {
	if w.consumed {
		return
	}
	w.consumed = true
	defer w.tree.Close()

	stack := []*sitter.Node{w.tree.RootNode()}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch node.Type() {
		case "import_statement", "import_from_statement", "future_import_statement":
			for _, item := range w.statement(node) {
				if !yield(item.edge, item.err) {
					return
				}
			}
			continue
		}
		for j := int(node.NamedChildCount()) - 1; j >= 0; j-- {
			stack = append(stack, node.NamedChild(j))
		}
	}
}

type result struct {
	edge info.Import
	err  error
}

// statement converts one import statement into edges, one per distinct target
func (w *walker) statement(node *sitter.Node) []result {
	line := int(node.StartPoint().Row) + 1
	var ret []result
	seen := map[string]bool{}
	add := func(edge info.Import) {
		if seen[edge.Target] {
			return
		}
		seen[edge.Target] = true
		if !edge.External && edge.Target == w.module.ID {
			return
		}
		ret = append(ret, result{edge: edge})
	}

	switch node.Type() {
	case "future_import_statement":
		add(info.Import{Source: w.module.ID, Target: futureModule, Raw: futureModule, Line: line, Form: info.FormAbsolute, External: true})
	case "import_statement":
		for j := 0; j < int(node.NamedChildCount()); j++ {
			child := node.NamedChild(j)
			name := importedName(child, w.src)
			if name == "" {
				continue
			}
			add(w.absolute(name, line))
		}
	case "import_from_statement":
		moduleNode := node.ChildByFieldName("module_name")
		if moduleNode == nil {
			return nil
		}
		raw := moduleNode.Content(w.src)
		if moduleNode.Type() != "relative_import" {
			add(w.absolute(raw, line))
			return ret
		}
		level, name := relativeImport(moduleNode, w.src)
		target, err := w.namespace.Resolve(w.module.Package(), level, name)
		if err != nil {
			ret = append(ret, result{err: &ImportError{Path: w.module.Path, Line: line, Raw: raw, Err: err}})
			return ret
		}
		edge := w.absolute(target, line)
		edge.Raw = raw
		edge.Form = info.FormRelative
		add(edge)
	}
	return ret
}

func (w *walker) absolute(name string, line int) info.Import {
	target, inside := w.namespace.Canonical(name)
	if !inside {
		target = name
	}
	return info.Import{
		Source:   w.module.ID,
		Target:   target,
		Raw:      name,
		Line:     line,
		Form:     info.FormAbsolute,
		External: !inside,
	}
}

// importedName returns the dotted module name of an import_statement item
func importedName(node *sitter.Node, src []byte) string {
	switch node.Type() {
	case "dotted_name":
		return node.Content(src)
	case "aliased_import":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
	}
	return ""
}

// relativeImport returns the level (number of leading dots) and the optional module name
func relativeImport(node *sitter.Node, src []byte) (int, string) {
	level := 0
	name := ""
	for j := 0; j < int(node.NamedChildCount()); j++ {
		child := node.NamedChild(j)
		switch child.Type() {
		case "import_prefix":
			level = strings.Count(child.Content(src), ".")
		case "dotted_name":
			name = child.Content(src)
		}
	}
	if level == 0 {
		content := node.Content(src)
		level = len(content) - len(strings.TrimLeft(content, "."))
	}
	return level, name
}

func firstSyntaxError(node *sitter.Node, src []byte) (int, string) {
	stack := []*sitter.Node{node}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		line := int(current.StartPoint().Row) + 1
		if current.IsMissing() {
			return line, fmt.Sprintf("missing %s", current.Type())
		}
		if current.Type() == "ERROR" {
			return line, fmt.Sprintf("syntax error near %q", snippet(current.Content(src)))
		}
		for j := int(current.ChildCount()) - 1; j >= 0; j-- {
			child := current.Child(j)
			if child.HasError() || child.IsMissing() {
				stack = append(stack, child)
			}
		}
	}
	return int(node.StartPoint().Row) + 1, "syntax error"
}

// legacyStatement returns the first print or exec statement, both removed in python 3
func legacyStatement(node *sitter.Node) *sitter.Node {
	stack := []*sitter.Node{node}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch current.Type() {
		case "print_statement", "exec_statement":
			return current
		}
		for j := int(current.NamedChildCount()) - 1; j >= 0; j-- {
			stack = append(stack, current.NamedChild(j))
		}
	}
	return nil
}

func snippet(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx != -1 {
		text = text[:idx]
	}
	if len(text) > 40 {
		text = text[:40]
	}
	return strings.TrimSpace(text)
}
