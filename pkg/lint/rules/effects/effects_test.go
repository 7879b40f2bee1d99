package effects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/testutil"
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
)

const angular = "import { Injectable, inject } from '@angular/core';\n"

func effectsClass(body string) string {
	return "\n@Injectable()\nexport class BooksEffects {\n  actions$ = inject(Actions);\n\n" + body + "}\n"
}

func TestEF01_DecoratorAndCreator(t *testing.T) {
	src := angular +
		"import { Actions, Effect, createEffect, ofType } from '@ngrx/effects';\n" +
		effectsClass("  @Effect()\n  load$ = createEffect(() => this.actions$.pipe(ofType('LOAD')));\n")

	diags := testutil.RunRule(t, "EF01", src)
	require.Len(t, diags, 1)
	assert.Equal(t, "`load$` is registered by both @Effect and createEffect.", diags[0].Message)
	require.NotNil(t, diags[0].Fix)

	want := angular +
		"import { Actions, createEffect, ofType } from '@ngrx/effects';\n" +
		effectsClass("  load$ = createEffect(() => this.actions$.pipe(ofType('LOAD')));\n")
	assert.Equal(t, want, testutil.Apply(t, src, *diags[0].Fix))
}

func TestEF01_KeepsImportWhileDecoratorIsUsed(t *testing.T) {
	src := angular +
		"import { Actions, Effect, createEffect, ofType } from '@ngrx/effects';\n" +
		effectsClass("  @Effect() load$ = createEffect(() => this.actions$.pipe(ofType('LOAD')));\n" +
			"  @Effect() save$ = this.actions$.pipe(ofType('SAVE'));\n")

	diags := testutil.RunRule(t, "EF01", src)
	require.Len(t, diags, 1)
	out := testutil.Apply(t, src, *diags[0].Fix)
	assert.Contains(t, out, "import { Actions, Effect, createEffect, ofType } from '@ngrx/effects';")
	assert.Contains(t, out, "  load$ = createEffect(")
	assert.Contains(t, out, "  @Effect() save$ =")
}

func TestEF01_NoDecorator(t *testing.T) {
	src := angular +
		"import { Actions, createEffect, ofType } from '@ngrx/effects';\n" +
		effectsClass("  load$ = createEffect(() => this.actions$.pipe(ofType('LOAD')));\n")
	assert.Empty(t, testutil.RunRule(t, "EF01", src))
}

const effectsImports = angular +
	"import { Actions, createEffect, ofType } from '@ngrx/effects';\n" +
	"import { createAction } from '@ngrx/store';\n" +
	"import { map } from 'rxjs/operators';\n" +
	"const load = createAction('LOAD');\n" +
	"const loaded = createAction('LOADED');\n"

func TestEF02_CyclicEffects(t *testing.T) {
	tests := []struct {
		name      string
		effect    string
		wantDiags int
	}{
		{
			name:      "emits a union containing the filtered type",
			effect:    `this.actions$.pipe(ofType('LOAD'), map((): { type: 'LOAD' | 'SAVE' } => next()))`,
			wantDiags: 1,
		},
		{
			name:      "emits a wide string type",
			effect:    `this.actions$.pipe(ofType('LOAD'), map((): { type: string } => next()))`,
			wantDiags: 0,
		},
		{
			name:      "creator round trip",
			effect:    `this.actions$.pipe(ofType(load), map(() => load()))`,
			wantDiags: 1,
		},
		{
			name:      "different action",
			effect:    `this.actions$.pipe(ofType(load), map(() => loaded()))`,
			wantDiags: 0,
		},
		{
			name:      "non-dispatching effect",
			effect:    `this.actions$.pipe(ofType(load), map(() => load())), { dispatch: false }`,
			wantDiags: 0,
		},
		{
			name:      "untyped operator",
			effect:    `this.actions$.pipe(ofType(load), custom())`,
			wantDiags: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := effectsImports + effectsClass("  load$ = createEffect(() => "+tt.effect+");\n")
			diags := testutil.RunRule(t, "EF02", src)
			require.Len(t, diags, tt.wantDiags)
			for _, d := range diags {
				line := src[lineStart(src, d.Pos.Line):]
				assert.Contains(t, line[d.Pos.Column-1:], "ofType(")
			}
		})
	}
}

func TestEF02_Message(t *testing.T) {
	src := effectsImports + effectsClass("  load$ = createEffect(() => this.actions$.pipe(ofType(load, loaded), map(() => loaded())));\n")
	diags := testutil.RunRule(t, "EF02", src)
	require.Len(t, diags, 1)
	assert.Equal(t, "Effect emits \"LOADED\", which its ofType filter listens to; this loops forever.", diags[0].Message)
}

func TestEF02_ActionsNotImported(t *testing.T) {
	src := angular +
		"import { Actions } from './actions';\n" +
		"import { ofType, createEffect } from '@ngrx/effects';\n" +
		effectsClass("  load$ = createEffect(() => this.actions$.pipe(ofType('LOAD'), map((): { type: 'LOAD' } => next())));\n")
	assert.Empty(t, testutil.RunRule(t, "EF02", src))
}

const concatImports = angular +
	"import { Actions, createEffect, ofType } from '@ngrx/effects';\n" +
	"import { Store } from '@ngrx/store';\n" +
	"import { map, withLatestFrom } from 'rxjs/operators';\n"

func TestEF03_PreferConcatLatestFrom(t *testing.T) {
	body := "  store = inject(Store);\n" +
		"  load$ = createEffect(() =>\n" +
		"    this.actions$.pipe(ofType('LOAD'), withLatestFrom(this.store.select(selectFilter)), map((filter) => search(filter)))\n" +
		"  );\n"
	src := concatImports + effectsClass(body)

	diags := testutil.RunRule(t, "EF03", src)
	require.Len(t, diags, 1)
	require.Len(t, diags[0].Suggestions, 1)
	assert.Nil(t, diags[0].Fix)

	out := testutil.Apply(t, src, diags[0].Suggestions[0])
	assert.Contains(t, out, "import { map } from 'rxjs/operators';\nimport { concatLatestFrom } from '@ngrx/operators';\n")
	assert.Contains(t, out, "concatLatestFrom(() => this.store.select(selectFilter))")
	assert.NotContains(t, out, "withLatestFrom")
}

func TestEF03_StrictOption(t *testing.T) {
	body := "  load$ = createEffect(() => this.actions$.pipe(ofType('LOAD'), withLatestFrom(this.flags$, this.user$)));\n"
	src := concatImports + effectsClass(body)

	assert.Empty(t, testutil.RunRule(t, "EF03", src), "non-store streams need strict mode")

	diags := testutil.RunRuleWithOptions(t, "EF03", src, map[string]any{"strict": true})
	require.Len(t, diags, 1)
	out := testutil.Apply(t, src, diags[0].Suggestions[0])
	assert.Contains(t, out, "concatLatestFrom(() => [this.flags$, this.user$])")
}

func TestEF03_OutsideEffects(t *testing.T) {
	src := concatImports + "const x$ = a$.pipe(withLatestFrom(b$));\n"
	assert.Empty(t, testutil.RunRuleWithOptions(t, "EF03", src, map[string]any{"strict": true}))
}

func TestEF03_SuggestionIsNotAppliedInBatch(t *testing.T) {
	body := "  store = inject(Store);\n" +
		"  load$ = createEffect(() => this.actions$.pipe(withLatestFrom(this.store.select(s))));\n"
	src := concatImports + effectsClass(body)
	diags := testutil.RunRule(t, "EF03", src)
	require.Len(t, diags, 1)

	res, err := rewrite.ApplyFixes(src, diags)
	require.NoError(t, err)
	assert.Equal(t, src, res.Text)
	assert.Empty(t, res.Applied)
}

func TestEF04_DispatchInEffects(t *testing.T) {
	src := angular +
		"import { Actions, createEffect, ofType } from '@ngrx/effects';\n" +
		"import { Store } from '@ngrx/store';\n" +
		"import { tap } from 'rxjs/operators';\n" +
		effectsClass("  store = inject(Store);\n"+
			"  load$ = createEffect(() => this.actions$.pipe(ofType(load), tap(() => this.store.dispatch(loaded()))), { dispatch: false });\n"+
			"  init() {\n    this.store.dispatch(start());\n  }\n")

	diags := testutil.RunRule(t, "EF04", src)
	require.Len(t, diags, 1)
	require.Len(t, diags[0].Suggestions, 1)
	assert.Equal(t, "Remove `dispatch` and keep `loaded()`.", diags[0].Suggestions[0].Description)

	out := testutil.Apply(t, src, diags[0].Suggestions[0])
	assert.Contains(t, out, "tap(() => loaded())")
	assert.Contains(t, out, "this.store.dispatch(start());")
}

func TestEF05_LifecycleInterface(t *testing.T) {
	tests := []struct {
		name    string
		imports string
		class   string
		want    string
	}{
		{
			name:    "adds clause and merges import",
			imports: "import { Actions } from '@ngrx/effects';\n",
			class:   "class E {\n  ngrxOnInitEffects() {\n    return init();\n  }\n}\n",
			want:    "import { Actions, OnInitEffects } from '@ngrx/effects';\n" +
				"class E implements OnInitEffects {\n  ngrxOnInitEffects() {\n    return init();\n  }\n}\n",
		},
		{
			name:    "extends existing clause",
			imports: "import { OnDestroy } from '@angular/core';\n",
			class:   "class E extends Base<T> implements OnDestroy {\n  ngrxOnRunEffects(r) {\n    return r;\n  }\n}\n",
			want:    "import { OnDestroy } from '@angular/core';\n" +
				"import { OnRunEffects } from '@ngrx/effects';\n" +
				"class E extends Base<T> implements OnDestroy, OnRunEffects {\n  ngrxOnRunEffects(r) {\n    return r;\n  }\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.imports + tt.class
			diags := testutil.RunRule(t, "EF05", src)
			require.Len(t, diags, 1)
			require.NotNil(t, diags[0].Fix)
			assert.Equal(t, tt.want, testutil.Apply(t, src, *diags[0].Fix))
		})
	}
}

func TestEF05_SeveralHooksShareOneClause(t *testing.T) {
	src := "import { Actions } from '@ngrx/effects';\n" +
		"class E {\n  ngrxOnInitEffects() {}\n  ngrxOnIdentifyEffects() {}\n}\n"
	diags := testutil.RunRule(t, "EF05", src)
	require.Len(t, diags, 2)

	res, err := rewrite.ApplyFixes(src, diags)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t,
		"import { Actions, OnInitEffects, OnIdentifyEffects } from '@ngrx/effects';\n"+
			"class E implements OnInitEffects, OnIdentifyEffects {\n  ngrxOnInitEffects() {}\n  ngrxOnIdentifyEffects() {}\n}\n",
		res.Text)
}

func TestEF05_AlreadyImplemented(t *testing.T) {
	src := "import { OnInitEffects as Init } from '@ngrx/effects';\n" +
		"class E implements Init {\n  ngrxOnInitEffects() {}\n}\n"
	assert.Empty(t, testutil.RunRule(t, "EF05", src))
}

func TestRulesAreRegistered(t *testing.T) {
	for _, id := range []string{"EF01", "EF02", "EF03", "EF04", "EF05"} {
		r, ok := lint.GetByID(id)
		require.True(t, ok, id)
		assert.Equal(t, "effects", r.Group())
	}
}

func lineStart(src string, line int) int {
	off := 0
	for l := 1; l < line; l++ {
		for src[off] != '\n' {
			off++
		}
		off++
	}
	return off
}
