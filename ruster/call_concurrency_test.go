package ruster

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestScriptCallConcurrent(t *testing.T) {
	script := compileScript(t, `fn count(n: i64) {
    let mut i = 0;
    while i < n {
        ruster::writeln_i64(i);
        i += 1;
    }
}`)

	const workers = 16
	outputs := make([]bytes.Buffer, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			_, errs[w] = script.Call(context.Background(), "count", []Value{NewInt(int64(w))}, CallOptions{Output: &outputs[w]})
		}(w)
	}
	wg.Wait()

	for w := range workers {
		if errs[w] != nil {
			t.Fatalf("worker %d: %v", w, errs[w])
		}
		var want bytes.Buffer
		for i := range w {
			fmt.Fprintf(&want, "%d\n", i)
		}
		if outputs[w].String() != want.String() {
			t.Fatalf("worker %d: expected %q, got %q", w, want.String(), outputs[w].String())
		}
	}
}

func TestEngineRunConcurrent(t *testing.T) {
	engine := MustNewEngine(Config{StepQuota: 10_000})
	sources := []string{
		"fn main() { ruster::writeln_i64(1 + 1); }",
		"fn main() { let x = 1; x = 2; }",
		"fn main() { while true { } }",
	}

	var wg sync.WaitGroup
	kinds := make([]ErrorKind, 30)
	for i := range kinds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out bytes.Buffer
			kinds[i] = KindOf(engine.Run(context.Background(), sources[i%len(sources)], &out))
		}(i)
	}
	wg.Wait()

	want := []ErrorKind{"", ErrorBinding, ErrorRuntime}
	for i, kind := range kinds {
		if kind != want[i%len(want)] {
			t.Fatalf("run %d: expected %q, got %q", i, want[i%len(want)], kind)
		}
	}
}
