package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ruster-lang/ruster/ruster"
)

const replFunction = "__repl__"

// session is the program text accumulated by the REPL. Every entry is
// compiled together with the session items and replayed bindings, so the
// prefix of the output produced by the bindings is known and skipped.
type session struct {
	items     []string
	bindings  []string
	prefixLen int
}

func (s session) source(body string) string {
	var b strings.Builder
	for _, item := range s.items {
		b.WriteString(item)
		b.WriteString("\n")
	}
	b.WriteString("fn " + replFunction + "() {\n")
	for _, binding := range s.bindings {
		b.WriteString(binding)
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n}\n")
	return b.String()
}

// names lists the functions and bindings the session defines.
func (s session) names() []string {
	var names []string
	if program, err := ruster.Parse(strings.Join(s.items, "\n")); err == nil {
		for _, item := range program.Items {
			if fn, ok := item.(*ruster.FunctionDecl); ok {
				names = append(names, fn.Name)
			}
		}
	}
	if body, err := parseEntry(strings.Join(s.bindings, "\n")); err == nil {
		for _, stmt := range body.Statements {
			if let, ok := stmt.(*ruster.LetStmt); ok {
				names = append(names, let.Name)
			}
		}
	}
	return names
}

// parseEntry parses input as the body of a function.
func parseEntry(input string) (*ruster.Block, error) {
	program, err := ruster.Parse("fn " + replFunction + "() {\n" + input + "\n}")
	if err != nil {
		return nil, err
	}
	return program.Items[0].(*ruster.FunctionDecl).Body, nil
}

// evaluate runs one entry. Items extend the session; entries made only of
// let and assignment statements are replayed by later entries; a lone
// expression has its value printed.
func (m *replModel) evaluate(input string) (string, bool) {
	if program, err := ruster.Parse(input); err == nil && len(program.Items) > 0 {
		return m.defineItems(input, program)
	}

	body, err := parseEntry(input)
	if err != nil {
		return err.Error(), true
	}
	text := input
	switch {
	case body.Tail != nil && len(body.Statements) > 0:
		return "end the entry with `;` or enter the expression on its own", true
	case body.Tail != nil:
		text = "ruster::writeln(" + input + ");"
	}

	out, err := m.run(m.session.source(text))
	if err != nil {
		return err.Error(), true
	}
	shown := out[min(m.session.prefixLen, len(out)):]
	if body.Tail == nil && persistent(body) {
		m.session.bindings = append(m.session.bindings, input)
		m.session.prefixLen = len(out)
	}
	shown = strings.TrimSuffix(shown, "\n")
	if shown == "" {
		shown = "()"
	}
	return shown, false
}

func (m *replModel) defineItems(input string, program *ruster.Program) (string, bool) {
	candidate := m.session
	candidate.items = append(append([]string(nil), m.session.items...), input)
	if _, err := m.engine.Compile(candidate.source("")); err != nil {
		return err.Error(), true
	}
	m.session = candidate

	var defined []string
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ruster.FunctionDecl:
			defined = append(defined, "fn "+it.Name)
		case *ruster.UseDecl:
			defined = append(defined, "use "+strings.Join(it.Path, "::"))
		}
	}
	return "defined " + strings.Join(defined, ", "), false
}

func (m *replModel) run(source string) (string, error) {
	script, err := m.engine.Compile(source)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if _, err := script.Call(context.Background(), replFunction, nil, ruster.CallOptions{Output: &out}); err != nil {
		if out.Len() > m.session.prefixLen {
			return "", fmt.Errorf("%s\n%w", strings.TrimSuffix(out.String()[m.session.prefixLen:], "\n"), err)
		}
		return "", err
	}
	return out.String(), nil
}

// persistent reports whether every statement of body only binds or
// assigns, so replaying it has no effect beyond restoring state.
func persistent(body *ruster.Block) bool {
	if len(body.Statements) == 0 {
		return false
	}
	for _, stmt := range body.Statements {
		switch stmt.(type) {
		case *ruster.LetStmt, *ruster.AssignStmt:
		default:
			return false
		}
	}
	return true
}

