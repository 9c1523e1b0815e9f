package ruster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
)

// Config controls execution bounds and compile strictness.
type Config struct {
	StepQuota        int
	MemoryQuotaBytes int
	RecursionLimit   int
	Parallelism      int
	WarningsAsErrors bool
	Logger           *slog.Logger
}

// Engine compiles and runs programs with deterministic limits. An Engine
// holds no per-run state and may be shared between goroutines.
type Engine struct {
	config Config
	log    *slog.Logger
}

// MaxRecursionLimit bounds Config.RecursionLimit so that the deepest
// allowed call chain still fits on a goroutine stack.
const MaxRecursionLimit = 10_000

// NewEngine constructs an Engine, filling zero config fields with defaults.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota < 0 || cfg.MemoryQuotaBytes < 0 || cfg.RecursionLimit < 0 || cfg.Parallelism < 0 {
		return nil, fmt.Errorf("ruster: config limits must not be negative")
	}
	if cfg.RecursionLimit > MaxRecursionLimit {
		return nil, fmt.Errorf("ruster: recursion limit %d exceeds the maximum of %d", cfg.RecursionLimit, MaxRecursionLimit)
	}
	if cfg.StepQuota == 0 {
		cfg.StepQuota = 10_000_000
	}
	if cfg.MemoryQuotaBytes == 0 {
		cfg.MemoryQuotaBytes = 64 << 20
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = 1024
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{config: cfg, log: logger}, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Config returns the effective configuration after defaults.
func (e *Engine) Config() Config {
	return e.config
}

// ConfigSummary provides a human-readable description of the engine limits.
func (e *Engine) ConfigSummary() string {
	return fmt.Sprintf("steps=%d memory=%dB recursion=%d parallelism=%d", e.config.StepQuota, e.config.MemoryQuotaBytes, e.config.RecursionLimit, e.config.Parallelism)
}

// Run compiles source and calls its main function, writing program output
// to out.
func (e *Engine) Run(ctx context.Context, source string, out io.Writer) error {
	script, err := e.Compile(source)
	if err != nil {
		return err
	}
	_, err = script.Call(ctx, "main", nil, CallOptions{Output: out})
	return err
}
