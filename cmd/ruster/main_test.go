package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runWithInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runCLI(append([]string{"ruster"}, args...), strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunCLIHelp(t *testing.T) {
	_, stderr, err := runWithInput(t, "", "help")
	if err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
	if !strings.Contains(stderr, "Commands:") {
		t.Fatalf("expected usage text, got %q", stderr)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	_, _, err := runWithInput(t, "", "unknown")
	if err == nil || !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("expected invalid command error, got %v", err)
	}

	_, _, err = runWithInput(t, "")
	if err == nil || !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("expected invalid command error, got %v", err)
	}
}

func TestRunCommandWritesProgramOutput(t *testing.T) {
	stdout, _, err := runWithInput(t, `fn main() {
    for i in 0..3 {
        ruster::writeln_i64(i * i);
    }
}`, "run")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stdout != "0\n1\n4\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunCommandSelectsFunction(t *testing.T) {
	stdout, _, err := runWithInput(t, `fn main() { ruster::writeln("main"); }
fn other() { ruster::writeln("other"); }`, "run", "-function", "other")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stdout != "other\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunCommandReportsFailures(t *testing.T) {
	_, _, err := runWithInput(t, "fn main() { let x = 1; x = 2; }", "run")
	if err == nil || !strings.Contains(err.Error(), "compile failed") || !strings.Contains(err.Error(), "BindingError") {
		t.Fatalf("expected compile failure, got %v", err)
	}

	stdout, _, err := runWithInput(t, "fn main() { ruster::writeln(\"a\"); let z = 1 / 0; }", "run")
	if err == nil || !strings.Contains(err.Error(), "execution failed") {
		t.Fatalf("expected execution failure, got %v", err)
	}
	if stdout != "a\n" {
		t.Fatalf("output before the failure should be kept, got %q", stdout)
	}
}

func TestRunCommandUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ruster.toml")
	if err := os.WriteFile(path, []byte("[engine]\nstep-quota = 100\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runWithInput(t, "fn main() { while true { } }", "run", "-config", path)
	if err == nil || !strings.Contains(err.Error(), "step quota exceeded") {
		t.Fatalf("expected step quota failure, got %v", err)
	}

	_, _, err = runWithInput(t, "fn main() {}", "run", "-config", filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestCheckCommandPrintsWarnings(t *testing.T) {
	stdout, stderr, err := runWithInput(t, "fn main() { let x = 1; let x = 2; }", "check")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(stdout, "ok: 1 function(s)") {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "shadows an earlier binding") {
		t.Fatalf("expected shadowing warning, got %q", stderr)
	}
}

func TestTokensCommand(t *testing.T) {
	stdout, _, err := runWithInput(t, "fn main", "tokens")
	if err != nil {
		t.Fatalf("tokens failed: %v", err)
	}
	if stdout != "Loc=<1:1>\tKW_FN 'fn'\nLoc=<1:4>\tIDENTIFIER 'main'\n" {
		t.Fatalf("unexpected token dump %q", stdout)
	}
}

func TestASTCommand(t *testing.T) {
	stdout, _, err := runWithInput(t, "fn main() { ruster::writeln(1); }", "ast")
	if err != nil {
		t.Fatalf("ast failed: %v", err)
	}
	for _, fragment := range []string{"kind: fn", "name: main", "kind: call"} {
		if !strings.Contains(stdout, fragment) {
			t.Fatalf("expected %q in dump:\n%s", fragment, stdout)
		}
	}

	_, _, err = runWithInput(t, "fn main( {", "ast")
	if err == nil || !strings.Contains(err.Error(), "ParseError") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSuiteCommand(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "ruster", "testdata", "fixtures.yaml"))
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	stdout, _, err := runWithInput(t, string(data), "suite")
	if err != nil {
		t.Fatalf("suite failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "PASS factorial") || !strings.Contains(stdout, ", 0 failed") {
		t.Fatalf("unexpected suite report:\n%s", stdout)
	}
}

func TestSuiteCommandReportsFailures(t *testing.T) {
	manifest := `fixtures:
  - name: good
    source: "fn main() { ruster::writeln_i64(1); }"
    output: "1\n"
  - name: bad
    source: "fn main() { ruster::writeln_i64(2); }"
    output: "3\n"
`
	stdout, _, err := runWithInput(t, manifest, "suite")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 fixture(s) failed") {
		t.Fatalf("expected suite failure, got %v", err)
	}
	if !strings.Contains(stdout, "PASS good") || !strings.Contains(stdout, "FAIL bad") {
		t.Fatalf("unexpected suite report:\n%s", stdout)
	}
}

func TestVerboseFlagLogsToStderr(t *testing.T) {
	_, stderr, err := runWithInput(t, "fn main() {}", "run", "-v")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(stderr, "call finished") {
		t.Fatalf("expected debug log on stderr, got %q", stderr)
	}
}
