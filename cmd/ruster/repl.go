package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruster-lang/ruster/ruster"
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	engine      *ruster.Engine
	session     session
	history     []historyEntry
	recall      []string
	recallIdx   int
	width       int
	height      int
	showHelp    bool
	showItems   bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Submit   key.Binding
	Quit     key.Binding
	Clear    key.Binding
	Complete key.Binding
	Help     key.Binding
}

var keys = keyMap{
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous entry")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next entry")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "autocomplete")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
}

func newREPLModel(engine *ruster.Engine) replModel {
	ti := textinput.New()
	ti.Placeholder = "fn, use, let, a statement or an expression"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60
	ti.PromptStyle = styles.prompt
	ti.Prompt = "ruster> "

	return replModel{
		textInput: ti,
		engine:    engine,
		recallIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleKey applies the REPL's own bindings. Unhandled keys go to the
// text input.
func (m replModel) handleKey(msg tea.KeyMsg) (replModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, keys.Clear):
		m.history = nil
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, keys.Prev):
		m.recallStep(-1)
	case key.Matches(msg, keys.Next):
		m.recallStep(1)
	case key.Matches(msg, keys.Complete):
		m = m.handleAutocomplete()
	case key.Matches(msg, keys.Submit):
		return m.submit()
	default:
		return m, nil, false
	}
	return m, nil, true
}

// recallStep moves through previous entries. Stepping past the newest
// entry empties the input.
func (m *replModel) recallStep(delta int) {
	if len(m.recall) == 0 || (delta > 0 && m.recallIdx == -1) {
		return
	}
	switch {
	case m.recallIdx == -1:
		m.recallIdx = len(m.recall) - 1
	case m.recallIdx+delta >= len(m.recall):
		m.recallIdx = -1
		m.textInput.SetValue("")
		return
	default:
		m.recallIdx = max(m.recallIdx+delta, 0)
	}
	m.textInput.SetValue(m.recall[m.recallIdx])
	m.textInput.CursorEnd()
}

func (m replModel) submit() (replModel, tea.Cmd, bool) {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil, true
	}
	m.textInput.SetValue("")
	m.recallIdx = -1

	if strings.HasPrefix(input, ":") {
		next, cmd := m.handleCommand(input)
		return next, cmd, true
	}

	output, isErr := m.evaluate(input)
	m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
	m.recall = append(m.recall, input)
	return m, nil, true
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
	case ":items", ":i":
		m.showItems = !m.showItems
	case ":reset", ":r":
		m.session = session{}
		m.history = append(m.history, historyEntry{input: input, output: "Session reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

var replKeywords = []string{"fn", "let", "mut", "if", "else", "while", "for", "in", "return", "use", "true", "false", "Some", "None"}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return m
	}
	lastWord := words[len(words)-1]

	seen := make(map[string]bool)
	var completions []string
	for _, group := range [][]string{ruster.Builtins(), replKeywords, m.session.names()} {
		for _, name := range group {
			if strings.HasPrefix(name, lastWord) && name != lastWord && !seen[name] {
				seen[name] = true
				completions = append(completions, name)
			}
		}
	}
	sort.Strings(completions)

	switch len(completions) {
	case 0:
	case 1:
		m.textInput.SetValue(strings.TrimSuffix(input, lastWord) + completions[0])
		m.textInput.CursorEnd()
	default:
		m.history = append(m.history, historyEntry{output: "Completions: " + strings.Join(completions, ", ")})
	}
	return m
}

func runREPL(engine *ruster.Engine) error {
	p := tea.NewProgram(newREPLModel(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
