package syntax

import (
	"context"
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// maxErrorDetails caps how many recovered syntax errors are recorded per
// tree. Badly broken files can contain thousands of error nodes.
const maxErrorDetails = 20

// treeSitterParser adapts one tree-sitter grammar to the Parser interface.
// A new tree-sitter parser is created per Parse call, so adapters are safe
// for sequential reuse but individual Parse calls are not thread-safe.
type treeSitterParser struct {
	lang     Language
	grammar  *tree_sitter.Language
	features func(t *Tree)
}

func newJavaScriptParser() *treeSitterParser {
	// The TypeScript grammar is a superset of JavaScript; one grammar
	// serves both with a shared feature extractor.
	return &treeSitterParser{
		lang:     LangJavaScript,
		grammar:  tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		features: extractJSFeatures,
	}
}

func newTypeScriptParser() *treeSitterParser {
	return &treeSitterParser{
		lang:     LangTypeScript,
		grammar:  tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		features: extractJSFeatures,
	}
}

func newTSXParser() *treeSitterParser {
	return &treeSitterParser{
		lang:     LangTSX,
		grammar:  tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		features: extractJSFeatures,
	}
}

func newPythonParser() *treeSitterParser {
	return &treeSitterParser{
		lang:     LangPython,
		grammar:  tree_sitter.NewLanguage(tree_sitter_python.Language()),
		features: extractPythonFeatures,
	}
}

func newGoParser() *treeSitterParser {
	return &treeSitterParser{
		lang:     LangGo,
		grammar:  tree_sitter.NewLanguage(tree_sitter_go.Language()),
		features: extractGoFeatures,
	}
}

func newRustParser() *treeSitterParser {
	return &treeSitterParser{
		lang:     LangRust,
		grammar:  tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		features: extractRustFeatures,
	}
}

func (p *treeSitterParser) Language() Language {
	return p.lang
}

// Parse converts source into a normalized Tree. Recovered syntax errors are
// recorded in ErrorDetails and the tree is still returned; callers decide
// how much of a broken file they can use.
func (p *treeSitterParser) Parse(_ context.Context, source []byte) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.grammar); err != nil {
		return nil, fmt.Errorf("set language %s: %w", p.lang, err)
	}

	tsTree := parser.Parse(source, nil)
	if tsTree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s source", p.lang)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	tree := &Tree{
		Language: p.lang,
		Root:     convertNode(root, source),
	}
	collectErrors(root, source, tree)

	tree.Features = &FeatureSet{}
	p.features(tree)

	return tree, nil
}

// convertNode recursively converts a tree-sitter node into the normalized
// model. Named fields reference the same child structs held in Children.
func convertNode(node *tree_sitter.Node, source []byte) *Node {
	out := &Node{
		Kind:      node.Kind(),
		Text:      node.Utf8Text(source),
		Span:      spanOf(node),
		HasError:  node.HasError(),
		IsMissing: node.IsMissing(),
	}

	count := node.ChildCount()
	if count == 0 {
		return out
	}

	out.Children = make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		converted := convertNode(child, source)
		out.Children = append(out.Children, converted)

		if field := node.FieldNameForChild(uint32(i)); field != "" {
			if out.NamedFields == nil {
				out.NamedFields = make(map[string][]*Node)
			}
			out.NamedFields[field] = append(out.NamedFields[field], converted)
		}
	}
	return out
}

// collectErrors walks the raw tree looking for error and missing nodes and
// records them on the normalized tree, up to maxErrorDetails.
func collectErrors(node *tree_sitter.Node, source []byte, tree *Tree) {
	if !node.HasError() {
		return
	}
	tree.HasErrors = true

	if node.IsError() || node.IsMissing() {
		if len(tree.ErrorDetails) < maxErrorDetails {
			msg := "syntax error"
			if node.IsMissing() {
				msg = "missing " + node.Kind()
			}
			tree.ErrorDetails = append(tree.ErrorDetails, ParseError{
				Message: msg,
				Line:    int(node.StartPosition().Row),
				Column:  int(node.StartPosition().Column),
			})
		}
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			collectErrors(child, source, tree)
		}
	}
}

func spanOf(node *tree_sitter.Node) Span {
	return Span{
		StartLine: int(node.StartPosition().Row),
		StartCol:  int(node.StartPosition().Column),
		EndLine:   int(node.EndPosition().Row),
		EndCol:    int(node.EndPosition().Column),
	}
}
