package syntax

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Language identifies a programming language for parsing.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangRust       Language = "rust"
)

// ErrUnsupportedLanguage is returned when no parser adapter is registered
// for a requested language. Selection is explicit: there is no mock
// fallback for unknown languages.
var ErrUnsupportedLanguage = errors.New("syntax: unsupported language")

// Parser turns raw source text into a normalized Tree. Implementations are
// per-language tree-sitter adapters. A Parse call that recovers from syntax
// errors still returns a Tree with HasErrors set; only total failures
// (nil tree-sitter result) return an error.
type Parser interface {
	Parse(ctx context.Context, source []byte) (*Tree, error)
	Language() Language
}

// extLanguages maps file extensions to languages.
var extLanguages = map[string]Language{
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".ts":  LangTypeScript,
	".tsx": LangTSX,
	".py":  LangPython,
	".go":  LangGo,
	".rs":  LangRust,
}

// LanguageForFile infers the language from a file path's extension.
func LanguageForFile(path string) (Language, bool) {
	lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Registry holds one parser adapter per supported language.
type Registry struct {
	parsers map[Language]Parser
}

// NewRegistry returns a Registry with all tree-sitter adapters registered.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[Language]Parser)}
	for _, p := range []Parser{
		newJavaScriptParser(),
		newTypeScriptParser(),
		newTSXParser(),
		newPythonParser(),
		newGoParser(),
		newRustParser(),
	} {
		r.parsers[p.Language()] = p
	}
	return r
}

// Get returns the parser for a language, or ErrUnsupportedLanguage.
func (r *Registry) Get(lang Language) (Parser, error) {
	p, ok := r.parsers[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	return p, nil
}

// ForFile returns the parser for a file path based on its extension.
func (r *Registry) ForFile(path string) (Parser, error) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for %s", ErrUnsupportedLanguage, filepath.Ext(path))
	}
	return r.Get(lang)
}

// Languages returns every registered language.
func (r *Registry) Languages() []Language {
	out := make([]Language, 0, len(r.parsers))
	for l := range r.parsers {
		out = append(out, l)
	}
	return out
}
