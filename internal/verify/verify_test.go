package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Valid(t *testing.T) {
	src := `import { Injectable } from '@angular/core';
import { OnInitEffects } from '@ngrx/effects';

@Injectable()
export class AppEffects implements OnInitEffects {
  ngrxOnInitEffects() {
    return { type: 'init' };
  }
}
`
	assert.NoError(t, Check("app.effects.ts", src))
}

func TestCheck_Invalid(t *testing.T) {
	err := Check("broken.ts", "export class A {\n  run() {\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSyntax))

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "broken.ts", verr.Filename)
	require.NotEmpty(t, verr.Messages)
	assert.Contains(t, err.Error(), "broken.ts: invalid syntax after fix")
}

func TestMessageString(t *testing.T) {
	assert.Equal(t, "3:5: Expected \";\"", Message{Line: 3, Column: 5, Text: `Expected ";"`}.String())
	assert.Equal(t, "oops", Message{Text: "oops"}.String())
}
