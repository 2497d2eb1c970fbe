package symbols

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/internal/syntax"
)

func parse(t *testing.T, lang syntax.Language, source string) *syntax.Tree {
	t.Helper()
	p, err := syntax.NewRegistry().Get(lang)
	require.NoError(t, err)
	tree, err := p.Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	return tree
}

func TestScopeNesting(t *testing.T) {
	tree := parse(t, syntax.LangPython, `
top = 1

class Outer(Base):
    def inner(self, x):
        return x
`)
	table, _ := NewExtractor(nil).Extract(tree)

	top := table.Get(GlobalScope, "top")
	require.NotNil(t, top)
	assert.Equal(t, KindVariable, top.Kind)
	assert.Equal(t, GlobalScope, top.Scope)

	outer := table.Get(GlobalScope, "Outer")
	require.NotNil(t, outer)
	assert.Equal(t, KindClass, outer.Kind)
	assert.Equal(t, []string{"Base"}, outer.Bases)

	inner := table.Get("Outer", "inner")
	require.NotNil(t, inner)
	assert.Equal(t, KindFunction, inner.Kind)
	assert.Equal(t, "Outer", inner.Scope)
	assert.Equal(t, []string{"self", "x"}, inner.Params)

	// Parameters live in the scope the body sees.
	x := table.Get("Outer.inner", "x")
	require.NotNil(t, x)
	assert.Equal(t, KindParameter, x.Kind)
}

func TestNestedFunctionScope(t *testing.T) {
	tree := parse(t, syntax.LangPython, `
def outer():
    def inner():
        pass
`)
	table, _ := NewExtractor(nil).Extract(tree)

	inner := table.Get("outer", "inner")
	require.NotNil(t, inner)
	assert.Equal(t, "outer", inner.Scope)
}

func TestImportSymbols(t *testing.T) {
	tree := parse(t, syntax.LangJavaScript, `
import React from 'react';
import { helper as h } from './utils';
`)
	table, _ := NewExtractor(nil).Extract(tree)

	react := table.Get(GlobalScope, "React")
	require.NotNil(t, react)
	assert.Equal(t, KindImport, react.Kind)
	assert.Equal(t, "react", react.Module)

	// Aliased imports are keyed by the local binding.
	h := table.Get(GlobalScope, "h")
	require.NotNil(t, h)
	assert.Equal(t, "./utils", h.Module)
	assert.Equal(t, "h", h.Alias)
	assert.Nil(t, table.Get(GlobalScope, "helper"))
}

func TestReferences(t *testing.T) {
	tree := parse(t, syntax.LangJavaScript, `
function run(input) {
  const result = process(input);
  return result.status;
}
`)
	table, refs := NewExtractor(nil).Extract(tree)

	require.Len(t, refs.Calls, 1)
	assert.Equal(t, "process", refs.Calls[0].Name)
	assert.Equal(t, "run", refs.Calls[0].Scope)

	var attrNames []string
	for _, a := range refs.Attributes {
		attrNames = append(attrNames, a.Name)
	}
	assert.Contains(t, attrNames, "status")

	// input is a known parameter, so its use is a reference but not an
	// implicit symbol.
	input := table.Get("run", "input")
	require.NotNil(t, input)
	assert.Equal(t, KindParameter, input.Kind)

	// process is never declared: it gets an implicit identifier entry.
	proc := table.Lookup("run", "process")
	require.NotNil(t, proc)
	assert.Equal(t, KindIdentifier, proc.Kind)
}

func TestArrowFunctionSymbol(t *testing.T) {
	tree := parse(t, syntax.LangJavaScript, `const add = (a, b) => a + b;`)
	table, _ := NewExtractor(nil).Extract(tree)

	add := table.Get(GlobalScope, "add")
	require.NotNil(t, add)
	assert.Equal(t, KindFunction, add.Kind)
	assert.Equal(t, []string{"a", "b"}, add.Params)

	a := table.Get("add", "a")
	require.NotNil(t, a)
	assert.Equal(t, KindParameter, a.Kind)
}

func TestRedeclarationRecorded(t *testing.T) {
	tree := parse(t, syntax.LangPython, `
def handler():
    pass

def handler():
    pass
`)
	table, _ := NewExtractor(nil).Extract(tree)

	require.Len(t, table.Redeclarations, 1)
	assert.Equal(t, "handler", table.Redeclarations[0].Name)
	assert.Equal(t, GlobalScope, table.Redeclarations[0].Scope)

	// Last write wins: one live symbol remains.
	var count int
	for _, s := range table.OfKind(KindFunction) {
		if s.Name == "handler" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestShadowingIsNotRedeclaration(t *testing.T) {
	tree := parse(t, syntax.LangPython, `
value = 1

def scope():
    value = 2
`)
	table, _ := NewExtractor(nil).Extract(tree)

	assert.Empty(t, table.Redeclarations)
	require.NotNil(t, table.Get(GlobalScope, "value"))
	require.NotNil(t, table.Get("scope", "value"))
}

func TestEmptyTreeTolerated(t *testing.T) {
	table, refs := NewExtractor(nil).Extract(nil)
	require.NotNil(t, table)
	require.NotNil(t, refs)
	assert.Zero(t, table.Len())
	assert.Zero(t, refs.Len())
}

func TestScopeChain(t *testing.T) {
	assert.Equal(t, []string{"global"}, scopeChain(""))
	assert.Equal(t, []string{"global"}, scopeChain("global"))
	assert.Equal(t, []string{"Outer", "global"}, scopeChain("Outer"))
	assert.Equal(t, []string{"Outer.inner", "Outer", "global"}, scopeChain("Outer.inner"))
}
