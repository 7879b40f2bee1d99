// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/storelint/internal/cli/output"
)

// CounterComponent injects the global store twice (ST01) and dispatches
// twice in one block (ST04).
const CounterComponent = `import { Component, inject } from '@angular/core';
import { Store } from '@ngrx/store';

@Component({ selector: 'app-counter', template: '' })
export class CounterComponent {
  private store = inject(Store);
  private other = inject(Store);

  reset() {
    this.store.dispatch(reset());
    this.store.dispatch(load());
  }
}
`

// CleanEffects triggers no rule.
const CleanEffects = `import { Injectable, inject } from '@angular/core';
import { Actions, createEffect, ofType } from '@ngrx/effects';
import { map } from 'rxjs/operators';

@Injectable()
export class CleanEffects {
  private actions$ = inject(Actions);

  load$ = createEffect(() => this.actions$.pipe(ofType(load), map(() => loaded())));
}
`

// LifecycleEffects implements a lifecycle hook without its interface (EF05).
const LifecycleEffects = `import { Injectable } from '@angular/core';
import { Action } from '@ngrx/store';

@Injectable()
export class LifecycleEffects {
  ngrxOnInitEffects(): Action {
    return { type: 'init' };
  }
}
`

// WriteFiles writes files (relative path to content) below dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// SetupTestProject creates a temporary project with store code and returns
// its root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteFiles(t, dir, map[string]string{
		"src/app/counter.component.ts":      CounterComponent,
		"src/app/clean.effects.ts":          CleanEffects,
		"src/app/lifecycle.effects.ts":      LifecycleEffects,
		"node_modules/lib/index.ts":         CounterComponent,
		"src/app/counter.component.spec.js": "not typescript",
	})
	return dir
}

// ReadFile returns a file's content or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode without a TTY,
// so the output carries no escape codes.
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, false)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
