package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routineshell/internal/controller"
	"routineshell/internal/output"
	"routineshell/internal/render"
	"routineshell/internal/selection"
	"routineshell/internal/storage"
	"routineshell/internal/testutils"
	"routineshell/pkg/routinetypes"
)

type harness struct {
	session *Session
	view    *ConsoleView
	buffer  *output.CaptureBuffer
	fake    *testutils.FakeExchanger
	store   *selection.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	buffer := output.NewCaptureBuffer()
	printer := output.NewPrinter(output.WithWriter(buffer), output.TestMode())
	formatter := render.NewFormatter(render.PlainTheme(), nil, 100)
	view := NewConsoleView(printer, formatter)
	fake := &testutils.FakeExchanger{Reply: "Morning: cleanser, then sunscreen."}
	store := selection.New(storage.NewMemorySlot())

	ctrl, err := controller.New(testutils.SampleCatalog(), store, fake, view,
		controller.WithIDGenerator(testutils.DeterministicIDs()))
	require.NoError(t, err)

	return &harness{
		session: NewSession(context.Background(), ctrl, view, printer, formatter),
		view:    view,
		buffer:  buffer,
		fake:    fake,
		store:   store,
	}
}

func TestStartPrintsEmptyStateAndCategories(t *testing.T) {
	h := newHarness(t)

	h.session.Start()

	out := h.buffer.String()
	assert.Contains(t, out, render.NoCategoryPlaceholder)
	assert.Contains(t, out, render.NoSelectionText)
	assert.Contains(t, out, "Categories: cleanser  serum  sunscreen")
}

func TestCategoryAndToggle(t *testing.T) {
	h := newHarness(t)

	h.session.Category([]string{"cleanser"})
	assert.Contains(t, h.buffer.String(), "[ ] #1 Gentle Foam Cleanser")

	h.buffer.Reset()
	h.session.Toggle([]string{"#1,2"})

	assert.Equal(t, []routinetypes.ProductID{"1", "2"}, h.store.IDs())
	assert.Contains(t, h.buffer.String(), "[x] #2 Oil Balm")
	assert.Contains(t, h.buffer.String(), "Selected (2):")
}

func TestCategoryTrimsArguments(t *testing.T) {
	h := newHarness(t)

	h.session.Category([]string{" cleanser "})

	grid := h.view.Grid()
	assert.Equal(t, "cleanser", grid.Category)
	assert.Len(t, grid.Cards, 2)
}

func TestToggleRequiresArguments(t *testing.T) {
	h := newHarness(t)
	h.session.Toggle(nil)
	assert.Equal(t, "⚠ Usage: toggle <id> [id...]\n", h.buffer.String())
}

func TestDetailsExpandsCard(t *testing.T) {
	h := newHarness(t)
	h.session.Category([]string{"serum"})
	h.buffer.Reset()

	h.session.Details([]string{"3"})
	assert.Contains(t, h.buffer.String(), "10% niacinamide.")

	h.buffer.Reset()
	h.session.Details([]string{"3"})
	assert.NotContains(t, h.buffer.String(), "10% niacinamide.")
}

func TestRemoveAndClear(t *testing.T) {
	h := newHarness(t)
	h.session.Toggle([]string{"1", "3", "4"})

	h.session.Remove([]string{"3"})
	assert.Equal(t, []routinetypes.ProductID{"1", "4"}, h.store.IDs())

	h.session.Clear(nil)
	assert.Equal(t, 0, h.store.Len())
	assert.Contains(t, h.buffer.String(), render.NoSelectionText)
}

func TestGenerateReplacesPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.session.Toggle([]string{"1", "4"})

	h.session.Generate(nil)

	transcript := h.view.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, h.fake.Reply, transcript[0].Content)
	assert.Equal(t, render.EntryMessage, transcript[0].Kind)

	out := h.buffer.String()
	assert.Contains(t, out, controller.GeneratingText)
	assert.Contains(t, out, "Assistant: "+h.fake.Reply)
	assert.Len(t, h.fake.LastCall(t).Products, 2)
}

func TestGenerateWithoutSelectionWarns(t *testing.T) {
	h := newHarness(t)
	h.session.Generate(nil)
	assert.Contains(t, h.buffer.String(), "⚠ "+controller.EmptySelectionWarning)
	assert.Empty(t, h.fake.Calls())
}

func TestChat(t *testing.T) {
	h := newHarness(t)

	h.session.Chat([]string{"is", "niacinamide", "ok?"})

	out := h.buffer.String()
	assert.Contains(t, out, "You: is niacinamide ok?")
	assert.Contains(t, out, "Assistant: "+h.fake.Reply)
	assert.Len(t, h.view.Transcript(), 2)

	h.buffer.Reset()
	h.session.Chat([]string{"  "})
	assert.Empty(t, h.buffer.String())
}

func TestCompletionSources(t *testing.T) {
	h := newHarness(t)
	h.session.Toggle([]string{"2"})

	assert.Equal(t, []string{"cleanser", "serum", "sunscreen"}, h.session.CategoryNames())
	assert.Equal(t, []string{"1", "2", "3", "4"}, h.session.ProductIDs())
	assert.Equal(t, []string{"2"}, h.session.SelectedIDs())

	complete := prefixCompleter(h.session.CategoryNames)
	assert.Equal(t, []string{"serum", "sunscreen"}, complete([]string{"s"}))
	assert.Len(t, complete(nil), 3)
}

func TestCommandsAreUnique(t *testing.T) {
	h := newHarness(t)

	seen := make(map[string]bool)
	for _, cmd := range Commands(h.session) {
		for _, name := range append([]string{cmd.Name}, cmd.Aliases...) {
			assert.False(t, seen[name], "duplicate command name %q", name)
			seen[name] = true
		}
		assert.NotNil(t, cmd.Func, cmd.Name)
		assert.NotEmpty(t, cmd.Help, cmd.Name)
	}
	assert.True(t, seen["generate"])
	assert.True(t, seen["clear"])
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t,
		[]routinetypes.ProductID{"1", "3", "4"},
		splitIDs([]string{"#1,3", " 4 ", ","}))
}
