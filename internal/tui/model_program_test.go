package tui

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// loadWatcher wraps Model and signals once the first board snapshot lands.
type loadWatcher struct {
	Model
	loaded chan struct{}
	once   *sync.Once
}

// Update forwards to the board model.
func (w loadWatcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := w.Model.Update(msg)
	w.Model = next.(Model)
	if _, ok := msg.(loadedMsg); ok {
		w.once.Do(func() { close(w.loaded) })
	}
	return w, cmd
}

// runningProgram is a board model running inside a real tea.Program with piped output.
type runningProgram struct {
	t      *testing.T
	p      *tea.Program
	out    bytes.Buffer
	result chan programResult
}

type programResult struct {
	model tea.Model
	err   error
}

// startProgram runs m at width x height and waits for the first snapshot.
func startProgram(t *testing.T, m Model, width, height int) *runningProgram {
	t.Helper()
	w := loadWatcher{Model: m, loaded: make(chan struct{}), once: &sync.Once{}}
	rp := &runningProgram{t: t, result: make(chan programResult, 1)}
	rp.p = tea.NewProgram(w, tea.WithInput(nil), tea.WithOutput(&rp.out), tea.WithoutSignals())
	go func() {
		final, err := rp.p.Run()
		rp.result <- programResult{model: final, err: err}
	}()
	t.Cleanup(func() { rp.p.Kill() })

	rp.p.Send(tea.WindowSizeMsg{Width: width, Height: height})
	select {
	case <-w.loaded:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for board load")
	}
	return rp
}

// finish waits for the program to exit and returns the final board model.
func (rp *runningProgram) finish() Model {
	rp.t.Helper()
	select {
	case res := <-rp.result:
		if res.err != nil {
			rp.t.Fatalf("Run() error = %v", res.err)
		}
		w, ok := res.model.(loadWatcher)
		if !ok {
			rp.t.Fatalf("unexpected final model %T", res.model)
		}
		return w.Model
	case <-time.After(2 * time.Second):
		rp.t.Fatal("timed out waiting for program exit")
	}
	return Model{}
}

// TestProgramRendersAndQuits verifies the board renders and the quit key ends the program.
func TestProgramRendersAndQuits(t *testing.T) {
	m := NewModel(newFakeService(
		[]string{"Backlog", "In Progress", "Done"},
		newItem("i1", "Backlog", "write spec"),
	))
	rp := startProgram(t, m, 120, 35)
	rp.p.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	final := rp.finish()

	view := ansi.Strip(fmt.Sprint(final.View().Content))
	if !strings.Contains(view, "write spec") || !strings.Contains(view, "Backlog (1)") {
		t.Fatalf("expected rendered board, got %q", view)
	}
	if rp.out.Len() == 0 {
		t.Fatal("expected the renderer to write output")
	}
}

// TestProgramMouseDrag verifies a press, motion and release moves an item end to end.
func TestProgramMouseDrag(t *testing.T) {
	svc := newFakeService(
		[]string{"Backlog", "In Progress", "Done"},
		newItem("i1", "Backlog", "write spec"),
	)
	rp := startProgram(t, NewModel(svc), 120, 35)

	// 120 columns split three ways gives 35-cell columns on a 40-cell stride.
	rp.p.Send(tea.MouseClickMsg{X: 2, Y: 4, Button: tea.MouseLeft})
	rp.p.Send(tea.MouseMotionMsg{X: 42, Y: 10, Button: tea.MouseLeft})
	rp.p.Send(tea.MouseReleaseMsg{X: 42, Y: 10, Button: tea.MouseLeft})
	rp.p.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	rp.finish()

	if got := svc.itemColumn("i1"); got != "In Progress" {
		t.Fatalf("expected i1 in In Progress, got %q", got)
	}
	if len(svc.beginCalls) != 1 || len(svc.commitCalls) != 1 {
		t.Fatalf("expected one begin and one commit, got %#v %#v", svc.beginCalls, svc.commitCalls)
	}
}

// TestProgramHelpOverlay verifies the help overlay renders inside a running program.
func TestProgramHelpOverlay(t *testing.T) {
	rp := startProgram(t, NewModel(newFakeService([]string{"Backlog"})), 120, 35)
	rp.p.Send(tea.KeyPressMsg{Code: '?', Text: "?"})
	rp.p.Quit()
	final := rp.finish()

	view := ansi.Strip(fmt.Sprint(final.View().Content))
	if !strings.Contains(view, "Moving items") {
		t.Fatalf("expected help overlay, got %q", view)
	}
	if strings.Contains(view, "error:") {
		t.Fatalf("unexpected error output %q", view)
	}
}
