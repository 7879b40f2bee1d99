package review

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/testutil"
	"github.com/leapstack-labs/storelint/pkg/lint"
	_ "github.com/leapstack-labs/storelint/pkg/lint/rules"
)

const twoDispatches = `import { inject } from '@angular/core';
import { Store } from '@ngrx/store';

class A {
  store = inject(Store);

  save() {
    this.store.dispatch(x());
    this.store.dispatch(y());
  }
}
`

func sequentialDispatchItems(t *testing.T) []Item {
	t.Helper()
	diags := testutil.RunRule(t, "ST04", twoDispatches)
	require.Len(t, diags, 2)
	items := make([]Item, len(diags))
	for i, d := range diags {
		items[i] = Item{Path: "a.ts", Source: twoDispatches, Diagnostic: d}
	}
	return items
}

func press(m *Model, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	skip  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func TestModel_AcceptAndSkip(t *testing.T) {
	m := NewModel(sequentialDispatchItems(t))

	assert.Contains(t, m.View(), "[1/2]")
	assert.Contains(t, m.View(), "Remove this dispatch.")

	assert.Nil(t, press(m, enter))
	cmd := press(m, skip)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	decisions := m.Decisions()
	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].Accepted())
	assert.False(t, decisions[1].Accepted())
	assert.Contains(t, m.View(), "accepted 1")

	res, err := Apply(twoDispatches, decisions)
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, 1, strings.Count(res.Text, ".dispatch("))
	assert.Contains(t, res.Text, "this.store.dispatch(y());")
}

func TestModel_QuitSkipsRemaining(t *testing.T) {
	m := NewModel(sequentialDispatchItems(t))

	press(m, quit)

	decisions := m.Decisions()
	require.Len(t, decisions, 2)
	for _, d := range decisions {
		assert.False(t, d.Accepted())
	}
	res, err := Apply(twoDispatches, decisions)
	require.NoError(t, err)
	assert.Equal(t, twoDispatches, res.Text)
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m := NewModel(sequentialDispatchItems(t))

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
}

func TestPreview(t *testing.T) {
	items := sequentialDispatchItems(t)
	out := Preview(twoDispatches, items[0].Diagnostic.Suggestions[0])

	assert.Contains(t, out, "-     this.store.dispatch(x());")
	assert.NotContains(t, out, "+     this.store.dispatch(x());")
	assert.Empty(t, Preview(twoDispatches, lint.Fix{}))
}
