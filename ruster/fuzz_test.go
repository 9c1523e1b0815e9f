package ruster

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func FuzzCompile(f *testing.F) {
	seeds := []string{
		"fn main() {}",
		"fn main() { ruster::writeln_i64(1 + 2 * 3); }",
		"fn f(mut n: i64) -> i64 { while n > 0 { n -= 1; } n }",
		"fn main() { let a = [1, 2, 3]; ruster::writeln(a[1..]); }",
		"fn main() { let x = 1 let }",
		"use std::mem; fn main() { let mut a = 1; let mut b = 2; mem::swap(&mut a, &mut b); }",
		"fn main() { \"unterminated }",
		"fn main() { /* comment */ }",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	engine := MustNewEngine(Config{StepQuota: 10_000, MemoryQuotaBytes: 1 << 20, RecursionLimit: 64})
	f.Fuzz(func(t *testing.T, source string) {
		script, err := engine.Compile(source)
		if err != nil {
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("compile returned %T: %v", err, err)
			}
			return
		}
		if _, ok := script.Function("main"); !ok {
			return
		}
		var out bytes.Buffer
		_, err = script.Call(context.Background(), "main", nil, CallOptions{Output: &out})
		if err != nil {
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("call returned %T: %v", err, err)
			}
		}
	})
}
