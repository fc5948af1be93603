// Package tui is the full-screen Bubble Tea frontend. Key presses become
// controller events; exchanges run as tea.Cmds and their completion comes
// back as a message that is dispatched on the update loop.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"routineshell/internal/controller"
	"routineshell/internal/render"
)

type focus int

const (
	focusBrowse focus = iota
	focusChat
)

// replyMsg carries a finished exchange back to the update loop.
type replyMsg struct {
	ev controller.Event
}

// Model is the Bubble Tea model.
type Model struct {
	ctx       context.Context
	ctrl      *controller.Controller
	screen    *Screen
	formatter *render.Formatter

	keys       keyMap
	help       help.Model
	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	focus  focus
	cursor int
	width  int
	height int
}

// New creates the model and dispatches the startup event. ctrl must have
// been created with screen as its View.
func New(ctx context.Context, ctrl *controller.Controller, screen *Screen, formatter *render.Formatter) Model {
	in := textinput.New()
	in.Placeholder = "Ask about your products"
	in.Prompt = "You> "
	in.CharLimit = 0
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = formatter.Theme().Info

	m := Model{
		ctx:        ctx,
		ctrl:       ctrl,
		screen:     screen,
		formatter:  formatter,
		keys:       newKeyMap(),
		help:       help.New(),
		input:      in,
		transcript: viewport.New(80, 10),
		spinner:    s,
		width:      80,
		height:     24,
	}
	ctrl.Dispatch(ctx, controller.Init())
	m.sync()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		m.help.Width = msg.Width
		m.formatter.SetWidth(max(msg.Width-2, 20))
		m.sync()
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case replyMsg:
		m.ctrl.Dispatch(m.ctx, msg.ev)
		m.sync()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusChat {
			return m.updateChat(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchFocus):
		m.focus = focusBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		text := m.input.Value()
		m.input.Reset()
		eff := m.ctrl.Dispatch(m.ctx, controller.ChatSubmitted(text))
		m.sync()
		return m, m.run(eff)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var eff *controller.Effect

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchFocus):
		m.focus = focusChat
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.PrevCategory):
		m.shiftCategory(-1)
	case key.Matches(msg, m.keys.NextCategory):
		m.shiftCategory(1)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.screen.grid.Cards)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if card, ok := m.current(); ok {
			m.ctrl.Dispatch(m.ctx, controller.CardClicked(card.ID))
		}
	case key.Matches(msg, m.keys.Details):
		if card, ok := m.current(); ok {
			m.ctrl.Dispatch(m.ctx, controller.DetailsToggled(card.ID))
		}
	case key.Matches(msg, m.keys.Remove):
		if card, ok := m.current(); ok {
			m.ctrl.Dispatch(m.ctx, controller.ChipRemoved(card.ID))
		}
	case key.Matches(msg, m.keys.ClearAll):
		m.ctrl.Dispatch(m.ctx, controller.ClearAll())
	case key.Matches(msg, m.keys.Generate):
		eff = m.ctrl.Dispatch(m.ctx, controller.GenerateRoutine())
	case msg.String() == "pgup" || msg.String() == "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	default:
		return m, nil
	}

	m.sync()
	return m, m.run(eff)
}

// run turns a pending exchange into a command that executes it off the
// update loop.
func (m Model) run(eff *controller.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return replyMsg{ev: ctrl.Execute(ctx, eff)}
	})
}

func (m *Model) shiftCategory(delta int) {
	categories := m.ctrl.State().Catalog.Categories()
	if len(categories) == 0 {
		return
	}
	idx := -1
	for i, c := range categories {
		if c == m.ctrl.State().Category {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta < 0:
		idx = len(categories) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + len(categories)) % len(categories)
	}
	m.cursor = 0
	m.ctrl.Dispatch(m.ctx, controller.CategoryChanged(categories[idx]))
}

func (m Model) current() (render.Card, bool) {
	cards := m.screen.grid.Cards
	if m.cursor < 0 || m.cursor >= len(cards) {
		return render.Card{}, false
	}
	return cards[m.cursor], true
}

// sync refreshes the transcript viewport and its height after state changes.
func (m *Model) sync() {
	if m.cursor >= len(m.screen.grid.Cards) {
		m.cursor = max(len(m.screen.grid.Cards)-1, 0)
	}

	entries := make([]string, 0, len(m.screen.transcript))
	for _, e := range m.screen.transcript {
		entries = append(entries, m.formatter.Entry(e))
	}
	m.transcript.Width = m.width
	m.transcript.Height = max(m.height-lipgloss.Height(m.header())-4, 3)
	m.transcript.SetContent(strings.Join(entries, "\n\n"))
	m.transcript.GotoBottom()
}

func (m Model) header() string {
	st := m.ctrl.State()
	theme := m.formatter.Theme()

	var b strings.Builder
	b.WriteString(m.formatter.Categories(st.Catalog.Categories(), st.Category))
	b.WriteString("\n\n")

	g := m.screen.grid
	if g.Empty {
		b.WriteString(m.formatter.Grid(g, nil))
	} else {
		b.WriteString(m.formatter.GridTitle(g))
		for i, card := range g.Cards {
			marker := "  "
			if i == m.cursor && m.focus == focusBrowse {
				marker = theme.Title.Render("›") + " "
			}
			b.WriteString("\n" + marker + m.formatter.Card(card, m.screen.isExpanded(card.ID)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.formatter.Chips(m.screen.chips))
	return b.String()
}

// View implements tea.Model.
func (m Model) View() string {
	theme := m.formatter.Theme()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.transcript.View())
	b.WriteString("\n")

	if m.screen.warning != "" {
		b.WriteString(theme.Warning.Render("⚠ " + m.screen.warning))
	}
	b.WriteString("\n")

	if m.ctrl.Busy() {
		b.WriteString(m.spinner.View() + " " + theme.Placeholder.Render("Waiting for the assistant…"))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")

	if m.focus == focusChat {
		b.WriteString(m.help.View(chatHelp{keys: m.keys}))
	} else {
		b.WriteString(m.help.View(browseHelp{keys: m.keys}))
	}
	return b.String()
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(m.ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
