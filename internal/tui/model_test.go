package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routineshell/internal/controller"
	"routineshell/internal/render"
	"routineshell/internal/selection"
	"routineshell/internal/storage"
	"routineshell/internal/testutils"
	"routineshell/pkg/routinetypes"
)

func newTestModel(t *testing.T) (Model, *testutils.FakeExchanger, *selection.Store) {
	t.Helper()
	screen := NewScreen()
	fake := &testutils.FakeExchanger{Reply: "Apply sunscreen last."}
	store := selection.New(storage.NewMemorySlot())
	ctrl, err := controller.New(testutils.SampleCatalog(), store, fake, screen,
		controller.WithIDGenerator(testutils.DeterministicIDs()))
	require.NoError(t, err)

	formatter := render.NewFormatter(render.PlainTheme(), nil, 80)
	return New(context.Background(), ctrl, screen, formatter), fake, store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func deliverReplies(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	delivered := false
	for _, msg := range collect(cmd) {
		if reply, ok := msg.(replyMsg); ok {
			m, _ = press(t, m, reply)
			delivered = true
		}
	}
	require.True(t, delivered, "no exchange was started")
	return m
}

func TestStartupShowsEmptyState(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, render.NoCategoryPlaceholder)
	assert.Contains(t, view, render.NoSelectionText)
	assert.Contains(t, view, "Categories:")
}

func TestBrowseAndSelect(t *testing.T) {
	m, _, store := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "cleanser", m.ctrl.State().Category)
	assert.Len(t, m.screen.grid.Cards, 2)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, []routinetypes.ProductID{"2"}, store.IDs())
	assert.Contains(t, m.View(), "[x] #2 Oil Balm")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "sunscreen", m.ctrl.State().Category)
	assert.Equal(t, 0, m.cursor)
}

func TestDetailsRemoveAndClear(t *testing.T) {
	m, _, store := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []routinetypes.ProductID{"1"}, store.IDs())

	m, _ = press(t, m, runes("d"))
	assert.Contains(t, m.View(), "Low pH daily foam.")

	m, _ = press(t, m, runes("x"))
	assert.Equal(t, 0, store.Len())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 2, store.Len())
	passes := m.screen.passes

	m, _ = press(t, m, runes("c"))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, passes+1, m.screen.passes)
	for _, card := range m.screen.grid.Cards {
		assert.False(t, card.Selected)
	}
	assert.True(t, m.screen.chips.Empty)
}

func TestGenerateRunsAsCommand(t *testing.T) {
	m, fake, _ := newTestModel(t)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := press(t, m, runes("g"))
	require.NotNil(t, cmd)
	assert.True(t, m.ctrl.Busy())
	assert.Contains(t, m.View(), "Waiting for the assistant")
	require.Len(t, m.screen.transcript, 1)
	assert.Equal(t, render.EntryPlaceholder, m.screen.transcript[0].Kind)

	m = deliverReplies(t, m, cmd)

	assert.False(t, m.ctrl.Busy())
	require.Len(t, m.screen.transcript, 1)
	assert.Equal(t, fake.Reply, m.screen.transcript[0].Content)
	assert.Contains(t, m.View(), "Assistant: "+fake.Reply)
}

func TestGenerateWithoutSelectionWarns(t *testing.T) {
	m, fake, _ := newTestModel(t)

	m, cmd := press(t, m, runes("g"))

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), controller.EmptySelectionWarning)
	assert.Empty(t, fake.Calls())
}

func TestChatFocusAndSend(t *testing.T) {
	m, fake, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusChat, m.focus)

	m, _ = press(t, m, runes("h"), runes("i"))
	assert.Equal(t, "hi", m.input.Value())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.input.Value())
	m = deliverReplies(t, m, cmd)

	require.Len(t, m.screen.transcript, 2)
	assert.Equal(t, "hi", m.screen.transcript[0].Content)
	assert.Equal(t, fake.Reply, m.screen.transcript[1].Content)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusBrowse, m.focus)
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = press(t, m, runes("q"))
	assert.Equal(t, "q", m.input.Value(), "q types into the chat input")
	_ = cmd

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.transcript.Width)
	assert.GreaterOrEqual(t, m.transcript.Height, 3)
}
