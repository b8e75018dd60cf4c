// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver stands in for tea.Program: each message goes straight through
// Update and every returned Cmd is run and fed back until nothing is left.
// Cmds that do not return within the driver's timeout are dropped.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds a single Send will follow.
const MaxDrainDepth = 100

// DefaultCmdTimeout is how long a Cmd may run before it is dropped.
const DefaultCmdTimeout = 50 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.Quit has been seen. The runtime normally
	// swallows tea.QuitMsg, so models rarely record it themselves.
	Quitting bool

	cmdTimeout time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithCmdTimeout changes how long each Cmd may run. Models whose Cmds hit
// the database need more than the default.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.cmdTimeout = timeout
	}
}

// New wraps model. Call DrainInit to run the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs Init and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send delivers msg and drains the resulting Cmds. It is a no-op once the
// model has quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd, 0)
}

// PressKey sends a single rune key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Press sends a non-rune key such as tea.KeyEnter, n times.
func (d *Driver) Press(k tea.KeyType, n int) {
	d.T.Helper()
	for range n {
		d.Send(tea.KeyMsg{Type: k})
	}
}

func (d *Driver) PressEnter() { d.T.Helper(); d.Press(tea.KeyEnter, 1) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.Press(tea.KeyEsc, 1) }
func (d *Driver) PressUp()    { d.T.Helper(); d.Press(tea.KeyUp, 1) }
func (d *Driver) PressDown()  { d.T.Helper(); d.Press(tea.KeyDown, 1) }
func (d *Driver) PressLeft()  { d.T.Helper(); d.Press(tea.KeyLeft, 1) }
func (d *Driver) PressRight() { d.T.Helper(); d.Press(tea.KeyRight, 1) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: stopped draining after %d chained commands", MaxDrainDepth)
		return
	}

	msg := d.run(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
	default:
		var next tea.Cmd
		d.Model, next = d.Model.Update(msg)
		d.drain(next, depth+1)
	}
}

// run executes cmd, giving up after the driver's timeout.
func (d *Driver) run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.cmdTimeout):
		d.T.Logf("teatest: dropped a command that ran longer than %s", d.cmdTimeout)
		return nil
	}
}
