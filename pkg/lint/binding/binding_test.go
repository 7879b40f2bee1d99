package binding_test

import (
	"testing"

	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var store = binding.Target{Symbol: binding.Symbol{Module: "@ngrx/store", Name: "Store"}}

type found struct {
	Name string
	Kind binding.Kind
}

func resolve(t *testing.T, src string) []binding.Binding {
	t.Helper()
	doc, err := parser.Parse("test.ts", src)
	require.NoError(t, err)
	return binding.Resolve(doc, store)
}

func summary(bs []binding.Binding) []found {
	var out []found
	for _, b := range bs {
		out = append(out, found{b.Name, b.Kind})
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []found
	}{
		{
			name: "module not imported",
			src: `
import { Store } from './local-store';
class A { constructor(private store: Store) {} }`,
			want: nil,
		},
		{
			name: "parameter property and plain parameter",
			src: `
import { Store } from '@ngrx/store';
class A { constructor(private readonly store: Store, other: Store, n: number) {} }`,
			want: []found{{"store", binding.ParameterBinding}, {"other", binding.ParameterBinding}},
		},
		{
			name: "generic type arguments",
			src: `
import { Store } from '@ngrx/store';
class A { constructor(private store: Store<AppState>) {} }`,
			want: []found{{"store", binding.ParameterBinding}},
		},
		{
			name: "renamed import",
			src: `
import { Store as NgrxStore } from '@ngrx/store';
import { Store } from './other';
class A { constructor(private a: NgrxStore, private b: Store) {} }`,
			want: []found{{"a", binding.ParameterBinding}},
		},
		{
			name: "namespace import",
			src: `
import * as ngrx from '@ngrx/store';
import { inject } from '@angular/core';
class A {
  s1 = inject(ngrx.Store);
  constructor(private s2: ngrx.Store) {}
}`,
			want: []found{{"s1", binding.FieldBinding}, {"s2", binding.ParameterBinding}},
		},
		{
			name: "factory fields and locals",
			src: `
import { Store } from '@ngrx/store';
import { inject as acquire } from '@angular/core';
class A {
  readonly store = acquire(Store);
  private other = acquire(Other);
}
function setup() {
  const s = acquire(Store);
}`,
			want: []found{{"store", binding.FieldBinding}, {"s", binding.FieldBinding}},
		},
		{
			name: "foreign factory",
			src: `
import { Store } from '@ngrx/store';
import { inject } from './my-di';
class A { store = inject(Store); }`,
			want: nil,
		},
		{
			name: "ambient factory",
			src: `
import { Store } from '@ngrx/store';
class A { store = inject(Store); }`,
			want: []found{{"store", binding.FieldBinding}},
		},
		{
			name: "methods are not constructors",
			src: `
import { Store } from '@ngrx/store';
class A { run(store: Store) {} }`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summary(resolve(t, tt.src)))
		})
	}
}

func TestBindingSitesAndTypeRefs(t *testing.T) {
	bs := resolve(t, `
import { Store } from '@ngrx/store';
import { inject } from '@angular/core';
class A {
  store: Store<State> = inject(Store);
  constructor(private s: Store<State>, plain: Store) {}
}`)
	require.Len(t, bs, 3)

	assert.Equal(t, syntax.PropertyDefinition, bs[0].Site.Kind)
	assert.Equal(t, "Store<State>", bs[0].TypeRef.Text())
	assert.Equal(t, syntax.TSParameterProperty, bs[1].Site.Kind)
	assert.Equal(t, "Store<State>", bs[1].TypeRef.Text())
	assert.Equal(t, syntax.Identifier, bs[2].Site.Kind)
	assert.Equal(t, "Store", bs[2].TypeRef.Text())

	class := bs[0].Class()
	require.NotNil(t, class)
	for _, b := range bs {
		assert.Same(t, class, b.Class())
	}
}

func TestByClassAndPattern(t *testing.T) {
	bs := resolve(t, `
import { Store } from '@ngrx/store';
class A { constructor(private store: Store, private store2: Store) {} }
class B { constructor(private store: Store) {} }
const free = inject(Store);`)
	require.Len(t, bs, 4)

	groups := binding.ByClass(bs)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Class.Child(syntax.FieldID).Name)
	assert.Len(t, groups[0].Bindings, 2)
	assert.Len(t, groups[1].Bindings, 1)

	assert.Equal(t, []string{"store", "store2", "free"}, binding.Names(bs))
	p := binding.Pattern(bs)
	assert.True(t, p.MatchString("store2"))
	assert.False(t, p.MatchString("store3"))
	assert.Nil(t, binding.Pattern(nil))
}

func TestImports(t *testing.T) {
	doc := parser.MustParse("test.ts", `
import { Store, select as pick } from '@ngrx/store';
import type { Action } from '@ngrx/store';
import * as fx from '@ngrx/effects';
import './side-effect';
`)
	l := binding.Imports(doc)
	require.Len(t, l.Decls, 4)

	local, ok := l.LocalName("@ngrx/store", "select")
	assert.True(t, ok)
	assert.Equal(t, "pick", local)
	assert.True(t, l.Has("@ngrx/store", "Action"))
	assert.False(t, l.Has("@ngrx/store", "pick"))

	action, _ := l.Find("@ngrx/store", "Action")
	assert.True(t, action.TypeOnly)
	assert.Equal(t, []string{"fx"}, l.Namespaces("@ngrx/effects"))
	assert.True(t, l.Imported("./side-effect"))
	assert.False(t, l.Imported("rxjs"))
}
