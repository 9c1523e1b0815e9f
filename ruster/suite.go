package ruster

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Suite is a list of self-checking programs. Each fixture's main function
// is run and its output and error kind compared with the expectation.
type Suite struct {
	Fixtures []Fixture `yaml:"fixtures"`
}

// Fixture expects Output when Error is empty, otherwise a failure of the
// named kind (LexError, ParseError, BindingError, TypeError, RuntimeError).
type Fixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

type FixtureResult struct {
	Name      string
	Passed    bool
	Output    string
	ErrorKind ErrorKind
	Err       error
}

// LoadSuite decodes a YAML suite manifest. Unknown keys are rejected.
func LoadSuite(data []byte) (*Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	suite := &Suite{}
	if err := dec.Decode(suite); err != nil {
		return nil, fmt.Errorf("ruster: load suite: %w", err)
	}
	for i, f := range suite.Fixtures {
		if f.Name == "" {
			return nil, fmt.Errorf("ruster: load suite: fixture %d has no name", i+1)
		}
		if f.Error != "" && !isErrorKind(f.Error) {
			return nil, fmt.Errorf("ruster: load suite: fixture %q expects unknown error kind %q", f.Name, f.Error)
		}
	}
	return suite, nil
}

func isErrorKind(s string) bool {
	switch ErrorKind(s) {
	case ErrorLex, ErrorParse, ErrorBinding, ErrorType, ErrorRuntime:
		return true
	}
	return false
}

// RunSuite runs every fixture with its own execution and output buffer, at
// most Config.Parallelism at a time. Results keep the fixture order.
func (e *Engine) RunSuite(ctx context.Context, suite *Suite) []FixtureResult {
	results := make([]FixtureResult, len(suite.Fixtures))
	sem := make(chan struct{}, e.config.Parallelism)
	var wg sync.WaitGroup

	for i, fixture := range suite.Fixtures {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = FixtureResult{Name: fixture.Name, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[i] = e.runFixture(ctx, fixture)
		}()
	}
	wg.Wait()

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	e.log.Info("suite finished", "fixtures", len(results), "passed", passed, "failed", len(results)-passed)
	return results
}

func (e *Engine) runFixture(ctx context.Context, fixture Fixture) FixtureResult {
	var out bytes.Buffer
	err := e.Run(ctx, fixture.Source, &out)

	result := FixtureResult{Name: fixture.Name, Output: out.String(), Err: err}
	if err != nil {
		result.ErrorKind = KindOf(err)
	}
	if fixture.Error != "" {
		result.Passed = result.ErrorKind == ErrorKind(fixture.Error) && result.Output == fixture.Output
	} else {
		result.Passed = err == nil && result.Output == fixture.Output
	}
	e.log.Debug("fixture finished", "name", fixture.Name, "passed", result.Passed)
	return result
}
