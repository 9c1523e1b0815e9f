package ruster

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestFixtureSuite(t *testing.T) {
	data, err := os.ReadFile("testdata/fixtures.yaml")
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	suite, err := LoadSuite(data)
	if err != nil {
		t.Fatalf("load suite: %v", err)
	}
	if len(suite.Fixtures) == 0 {
		t.Fatalf("suite has no fixtures")
	}

	engine := MustNewEngine(Config{Parallelism: 4})
	results := engine.RunSuite(context.Background(), suite)
	if len(results) != len(suite.Fixtures) {
		t.Fatalf("expected %d results, got %d", len(suite.Fixtures), len(results))
	}
	for i, r := range results {
		if r.Name != suite.Fixtures[i].Name {
			t.Fatalf("result %d is %s, expected %s", i, r.Name, suite.Fixtures[i].Name)
		}
		if !r.Passed {
			t.Errorf("fixture %s failed: output %q kind %q err %v", r.Name, r.Output, r.ErrorKind, r.Err)
		}
	}
}

func TestRunSuiteReportsMismatches(t *testing.T) {
	suite := &Suite{Fixtures: []Fixture{
		{Name: "wrong output", Source: "fn main() { ruster::writeln_i64(1); }", Output: "2\n"},
		{Name: "unexpected error", Source: "fn main() { let x = 1; x = 2; }"},
		{Name: "wrong kind", Source: "fn main() { let x = 1 / 0; }", Error: "TypeError"},
		{Name: "expected error missing", Source: "fn main() {}", Error: "RuntimeError"},
	}}
	results := MustNewEngine(Config{}).RunSuite(context.Background(), suite)
	for _, r := range results {
		if r.Passed {
			t.Fatalf("fixture %s should fail", r.Name)
		}
	}
	if results[0].Output != "1\n" {
		t.Fatalf("expected captured output, got %q", results[0].Output)
	}
	if results[1].ErrorKind != ErrorBinding {
		t.Fatalf("expected BindingError, got %q", results[1].ErrorKind)
	}
	if results[2].ErrorKind != ErrorRuntime {
		t.Fatalf("expected RuntimeError, got %q", results[2].ErrorKind)
	}
}

func TestRunSuiteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite := &Suite{Fixtures: []Fixture{
		{Name: "spin", Source: "fn main() { while true { } }"},
		{Name: "spin again", Source: "fn main() { while true { } }"},
	}}
	results := MustNewEngine(Config{Parallelism: 1}).RunSuite(ctx, suite)
	for _, r := range results {
		if r.Passed || r.Err == nil {
			t.Fatalf("fixture %s should not pass under a cancelled context", r.Name)
		}
	}
}

func TestLoadSuiteRejectsBadManifests(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"unknown key", "fixtures:\n  - name: a\n    source: x\n    expect: y\n", "field expect not found"},
		{"missing name", "fixtures:\n  - source: x\n", "fixture 1 has no name"},
		{"bad kind", "fixtures:\n  - name: a\n    source: x\n    error: PanicError\n", "unknown error kind"},
		{"not yaml", "fixtures: [", "ruster: load suite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSuite([]byte(tt.data))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("expected error containing %q, got %v", tt.msg, err)
			}
		})
	}
}
