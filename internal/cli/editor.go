package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/41rumble/crew-planner/internal/cli/formatter"
	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/drag"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type editorKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	GrabStart key.Binding
	GrabEnd   key.Binding
	Left      key.Binding
	Right     key.Binding
	Release   key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

func newEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "department")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		GrabStart: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "grab start")),
		GrabEnd:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "grab end")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "move")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Release:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "release")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// dragKeys is the help line shown while a handle is held.
type dragKeys struct{ editorKeyMap }

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.GrabStart, k.GrabEnd, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Left, k.Release, k.Cancel}}
}

func (k dragKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Release, k.Cancel}
}

// savedMsg reports the result of persisting a committed gesture.
type savedMsg struct {
	err error
}

// editorModel edits department timeframes by dragging their start and end
// handles across the crew grid. The timeline is edited in memory and saved
// after every committed gesture.
type editorModel struct {
	app      *App
	timeline *domain.Timeline

	// order lists department indexes top to bottom as the grid shows them.
	order    []int
	selected int

	gesture drag.State
	cursor  int

	keys   editorKeyMap
	help   help.Model
	status string
	err    error

	saving        bool
	quitAfterSave bool
	// saveErr is the last failed save, reported when the editor exits.
	saveErr error
}

func newEditorModel(app *App, t *domain.Timeline) editorModel {
	m := editorModel{
		app:      app,
		timeline: t,
		keys:     newEditorKeyMap(),
		help:     help.New(),
		cursor:   -1,
	}
	for _, ref := range formatter.DisplayOrder(t) {
		if ref.Kind == domain.ItemDepartment {
			m.order = append(m.order, ref.Index)
		}
	}
	return m
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

// department returns the selected department index, or -1 when there are none.
func (m editorModel) department() int {
	if len(m.order) == 0 {
		return -1
	}
	return m.order[m.selected]
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case savedMsg:
		m.saving = false
		m.err, m.saveErr = msg.err, msg.err
		if msg.err == nil {
			m.status = "Saved"
		}
		if m.quitAfterSave {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if m.saving {
				m.quitAfterSave = true
				return m, nil
			}
			return m, tea.Quit
		}
		if m.gesture.Dragging {
			return m.updateDragging(msg)
		}
		return m.updateIdle(msg)
	}
	return m, nil
}

func (m editorModel) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.order)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.GrabStart):
		m.grab(domain.BoundaryStart)
	case key.Matches(msg, m.keys.GrabEnd):
		m.grab(domain.BoundaryEnd)
	}
	return m, nil
}

// grab starts a gesture on the selected department. Grabs are ignored while
// the previous gesture is still saving so saves land in gesture order.
func (m *editorModel) grab(b domain.Boundary) {
	dept := m.department()
	if dept < 0 || m.saving {
		return
	}
	s, err := drag.PointerDown(m.gesture, m.timeline, dept, b)
	if err != nil {
		m.err = err
		return
	}
	m.gesture = s
	m.cursor = s.Value
	m.err = nil
	m.status = ""
}

func (m editorModel) updateDragging(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Left):
		m.move(m.cursor - 1)
	case key.Matches(msg, m.keys.Right):
		m.move(m.cursor + 1)
	case key.Matches(msg, m.keys.GrabStart, m.keys.GrabEnd):
		_, m.err = drag.PointerDown(m.gesture, m.timeline, m.gesture.Department, m.gesture.Boundary)
	case key.Matches(msg, m.keys.Cancel):
		m.gesture = drag.Cancel(m.gesture)
		m.cursor = -1
		m.status = "Drag cancelled"
	case key.Matches(msg, m.keys.Release):
		dept := m.department()
		next, outcome := drag.PointerUp(m.gesture, m.timeline, m.cursor)
		m.gesture = next
		m.cursor = -1
		if outcome != drag.OutcomeCommitted {
			m.status = "Drag " + outcome.String()
			return m, nil
		}
		d := m.timeline.Departments[dept]
		m.status = fmt.Sprintf("%s now runs %s", d.Name, formatter.MonthSpan(m.timeline, d.StartMonth, d.EndMonth))
		m.saving = true
		return m, m.saveCmd()
	}
	return m, nil
}

// move slides the pointer to month. The handle stays put on months it
// cannot take, so the cursor follows the handle.
func (m *editorModel) move(month int) {
	if month < 0 || month >= m.timeline.MonthCount() {
		return
	}
	m.gesture = drag.PointerMove(m.gesture, m.timeline, month)
	m.cursor = m.gesture.Value
}

func (m editorModel) saveCmd() tea.Cmd {
	snapshot := m.timeline.Clone()
	edits := m.app.Edits
	return func() tea.Msg {
		return savedMsg{err: edits.Save(context.Background(), snapshot)}
	}
}

func (m editorModel) View() string {
	var b strings.Builder
	t := m.timeline

	b.WriteString(formatter.Header(t.Name))
	if t.MonthCount() > 0 {
		b.WriteString("  " + formatter.Dim(formatter.MonthSpan(t, 0, t.MonthCount()-1)))
	}
	b.WriteString("\n\n")

	opts := formatter.GridOptions{Selected: m.department(), Cursor: -1, PreviewGlyph: m.previewGlyph()}
	if m.gesture.Dragging {
		opts.Cursor = m.cursor
		opts.Preview = m.gesture.Preview
	}
	b.WriteString(formatter.FormatCrewGrid(t, opts))
	b.WriteString("\n")

	switch {
	case len(m.order) == 0:
		b.WriteString(formatter.Dim("No departments. Add one with `crewplan dept add`.") + "\n")
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.gesture.Dragging:
		d := t.Departments[m.gesture.Department]
		b.WriteString(fmt.Sprintf("Dragging %s of %s → %s\n",
			m.gesture.Boundary, formatter.Bold(d.Name), t.Months[m.gesture.Value]))
	case m.saving:
		b.WriteString(formatter.Dim("Saving...") + "\n")
	case m.status != "":
		b.WriteString(m.status + "\n")
	default:
		b.WriteString("\n")
	}

	if m.gesture.Dragging {
		b.WriteString(m.help.View(dragKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m editorModel) previewGlyph() string {
	if m.app.PreviewGlyph == "" {
		return "~"
	}
	return m.app.PreviewGlyph
}
