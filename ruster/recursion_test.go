package ruster

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const countdownSource = `fn down(n: i64) -> i64 {
    if n == 0 {
        return 0;
    }
    down(n - 1) + 1
}

fn main() {
    ruster::writeln_i64(down(2));
}`

func TestRecursionLimitExceeded(t *testing.T) {
	engine := MustNewEngine(Config{RecursionLimit: 3})
	var out bytes.Buffer
	err := engine.Run(context.Background(), countdownSource, &out)
	requireErrorKind(t, err, ErrorRuntime, "limit 3")
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("expected ErrStackOverflow, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRecursionWithinLimit(t *testing.T) {
	// main, down(2), down(1) and down(0) make four frames.
	engine := MustNewEngine(Config{RecursionLimit: 4})
	var out bytes.Buffer
	if err := engine.Run(context.Background(), countdownSource, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "2\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRecursionDefaultLimit(t *testing.T) {
	engine := MustNewEngine(Config{})
	if got := engine.Config().RecursionLimit; got != 1024 {
		t.Fatalf("expected default recursion limit 1024, got %d", got)
	}

	script := compileScript(t, `fn depth(n: i64) -> i64 {
    if n == 0 { 0 } else { depth(n - 1) + 1 }
}`)
	if got := callFunc(t, script, "depth", NewInt(1000)); got.Int() != 1000 {
		t.Fatalf("expected 1000, got %s", got)
	}

	_, err := script.Call(context.Background(), "depth", []Value{NewInt(5000)}, CallOptions{})
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("expected stack overflow, got %v", err)
	}
}

func TestRecursionFrameIsReleasedAfterReturn(t *testing.T) {
	// Sequential calls never accumulate frames.
	engine := MustNewEngine(Config{RecursionLimit: 2})
	var out bytes.Buffer
	err := engine.Run(context.Background(), `fn one() -> i64 { 1 }

fn main() {
    let mut total = 0;
    for i in 0..50 {
        total += one();
    }
    ruster::writeln_i64(total);
}`, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "50\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRecursionLimitCeiling(t *testing.T) {
	if _, err := NewEngine(Config{RecursionLimit: MaxRecursionLimit + 1}); err == nil {
		t.Fatalf("expected recursion limit above %d to be rejected", MaxRecursionLimit)
	}

	cfg, err := ParseConfig([]byte("[engine]\nrecursion-limit = 50000000\n"))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if _, err := NewEngine(cfg); err == nil || !strings.Contains(err.Error(), "exceeds the maximum") {
		t.Fatalf("expected oversized config to be rejected, got %v", err)
	}

	// The deepest allowed chain must end in a runtime error, not a host
	// stack overflow.
	engine := MustNewEngine(Config{RecursionLimit: MaxRecursionLimit})
	var out bytes.Buffer
	err = engine.Run(context.Background(), `fn forever(n: i64) -> i64 {
    forever(n + 1)
}

fn main() {
    ruster::writeln_i64(forever(0));
}`, &out)
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("expected stack overflow, got %v", err)
	}
}
