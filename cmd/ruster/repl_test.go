package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruster-lang/ruster/ruster"
)

func newTestModel() replModel {
	return newREPLModel(ruster.MustNewEngine(ruster.Config{}))
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newTestModel()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateHelpCommandTogglesPanel(t *testing.T) {
	m := newTestModel()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)
	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting || !rm.showHelp {
		t.Fatalf("help toggle should be enabled without quitting")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateRecordsHistory(t *testing.T) {
	m := newTestModel()
	m.textInput.SetValue("1 + 2")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)
	if len(rm.history) != 1 || rm.history[0].output != "3" || rm.history[0].isErr {
		t.Fatalf("unexpected history %+v", rm.history)
	}

	model, _ = rm.Update(tea.KeyMsg{Type: tea.KeyUp})
	rm = model.(replModel)
	if rm.textInput.Value() != "1 + 2" {
		t.Fatalf("expected previous entry, got %q", rm.textInput.Value())
	}

	model, _ = rm.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	rm = model.(replModel)
	if len(rm.history) != 0 {
		t.Fatalf("ctrl+l should clear history")
	}
}

func TestEvaluateKeepsBindingsAndItems(t *testing.T) {
	m := newTestModel()

	steps := []struct {
		input string
		want  string
	}{
		{"let mut x = 5;", "()"},
		{"x * 2", "10"},
		{"x += 1;", "()"},
		{"x", "6"},
		{"fn sq(n: i64) -> i64 { n * n }", "defined fn sq"},
		{"sq(x)", "36"},
		{"ruster::writeln(\"side\");", "side"},
		{"x", "6"},
	}
	for _, step := range steps {
		got, isErr := m.evaluate(step.input)
		if isErr {
			t.Fatalf("%s: unexpected error %s", step.input, got)
		}
		if got != step.want {
			t.Fatalf("%s: expected %q, got %q", step.input, step.want, got)
		}
	}
	if len(m.session.bindings) != 2 || len(m.session.items) != 1 {
		t.Fatalf("unexpected session %+v", m.session)
	}
}

func TestEvaluateSkipsReplayedOutput(t *testing.T) {
	m := newTestModel()
	if out, isErr := m.evaluate("let a = [1, 2];"); isErr {
		t.Fatalf("unexpected error %s", out)
	}
	got, isErr := m.evaluate("ruster::writeln(a);")
	if isErr || got != "[1, 2]" {
		t.Fatalf("unexpected result %q (error %v)", got, isErr)
	}
}

func TestEvaluateReportsErrors(t *testing.T) {
	m := newTestModel()

	out, isErr := m.evaluate("let z = 1; z = 2;")
	if !isErr || !strings.Contains(out, "BindingError") {
		t.Fatalf("expected binding error, got %q", out)
	}
	if len(m.session.bindings) != 0 {
		t.Fatalf("failed entries must not be kept")
	}

	out, isErr = m.evaluate("let q = 1; q")
	if !isErr || !strings.Contains(out, "end the entry with") {
		t.Fatalf("expected mixed entry error, got %q", out)
	}

	out, isErr = m.evaluate("fn broken() -> i64 { true }")
	if !isErr || !strings.Contains(out, "TypeError") {
		t.Fatalf("expected item type error, got %q", out)
	}
	if len(m.session.items) != 0 {
		t.Fatalf("failed items must not be kept")
	}
}

func TestResetCommandClearsSession(t *testing.T) {
	m := newTestModel()
	m.evaluate("let x = 1;")
	m.evaluate("fn f() {}")

	m, _ = m.handleCommand(":reset")
	if len(m.session.items) != 0 || len(m.session.bindings) != 0 {
		t.Fatalf("reset should clear the session")
	}
	if _, isErr := m.evaluate("x"); !isErr {
		t.Fatalf("x should be unknown after reset")
	}
}

func TestAutocompleteUsesSessionNames(t *testing.T) {
	m := newTestModel()
	m.evaluate("let counter = 1;")

	m.textInput.SetValue("coun")
	m = m.handleAutocomplete()
	if m.textInput.Value() != "counter" {
		t.Fatalf("expected completion to counter, got %q", m.textInput.Value())
	}

	m.textInput.SetValue("ruster::writeln_")
	m = m.handleAutocomplete()
	if m.textInput.Value() != "ruster::writeln_i64" {
		t.Fatalf("expected builtin completion, got %q", m.textInput.Value())
	}
}
