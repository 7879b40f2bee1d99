package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/testutil"
	"github.com/leapstack-labs/storelint/pkg/lint"
	_ "github.com/leapstack-labs/storelint/pkg/lint/rules"
)

func TestAllGroupsRegistered(t *testing.T) {
	assert.Equal(t, []string{"effects", "reducer", "store"}, lint.Groups())
	assert.Len(t, lint.GetByGroup("store"), 7)
	assert.Len(t, lint.GetByGroup("effects"), 5)
	assert.Len(t, lint.GetByGroup("reducer"), 2)
}

// Same names as the library, imported from elsewhere.
const unrelatedImports = `import { Injectable, inject } from '@angular/core';
import { Store, select, createReducer, on } from './local-store';
import { Actions, createEffect, ofType } from './local-effects';
import { withLatestFrom, map } from 'rxjs/operators';

export const reducer = createReducer(0, on(inc, (state) => state + 1), on(inc, (state) => state));

@Injectable()
export class Effects {
  store = inject(Store);
  other = inject(Store);

  constructor(private actions$: Actions, private appStore: Store<State>) {}

  load$ = createEffect(() =>
    this.actions$.pipe(
      ofType(load),
      withLatestFrom(this.store.select('books')),
      map(() => load()),
    ),
  );

  run() {
    this.store.dispatch({ type: 'a' });
    this.store.dispatch(b());
    this.store.subscribe();
  }
}
`

func TestRulesIgnoreDocumentsWithoutLibraryImports(t *testing.T) {
	for _, rule := range lint.GetAll() {
		t.Run(rule.ID(), func(t *testing.T) {
			assert.Empty(t, testutil.RunRule(t, rule.ID(), unrelatedImports))
		})
	}
}

func TestStoreRulesIgnoreHowTheStoreIsObtained(t *testing.T) {
	const imports = "import { Component, inject } from '@angular/core';\nimport { Store, select } from '@ngrx/store';\n\n"
	const body = `
  load() {
    this.store.dispatch({ type: 'a' });
    this.store.dispatch(b());
    this.store.subscribe();
    this.books$ = this.store.select('books');
  }
}
`
	viaField := imports + "class A {\n  store = inject(Store);" + body
	viaParameter := imports + "class A {\n  constructor(private store: Store) {}" + body

	for _, rule := range lint.GetByGroup("store") {
		t.Run(rule.ID(), func(t *testing.T) {
			fromField := testutil.RunRule(t, rule.ID(), viaField)
			fromParameter := testutil.RunRule(t, rule.ID(), viaParameter)
			require.Len(t, fromParameter, len(fromField))
			for i := range fromField {
				assert.Equal(t, fromField[i].Message, fromParameter[i].Message)
				assert.Equal(t, fromField[i].Pos, fromParameter[i].Pos)
				assert.Equal(t, fromField[i].EndPos, fromParameter[i].EndPos)
				assert.Len(t, fromParameter[i].Suggestions, len(fromField[i].Suggestions))
			}
		})
	}

	// The body above triggers ST04 through ST07.
	for _, id := range []string{"ST04", "ST05", "ST06", "ST07"} {
		assert.NotEmpty(t, testutil.RunRule(t, id, viaField), id)
	}
}
