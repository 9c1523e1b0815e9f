package ruster

import (
	"fmt"

	"github.com/pelletier/go-toml"
)

// tomlConfigFile is the on-disk shape of an engine configuration:
//
//	[engine]
//	step-quota = 1000000
//	memory-quota-bytes = 8388608
//	recursion-limit = 1024
//	parallelism = 4
//	warnings-as-errors = false
type tomlConfigFile struct {
	Engine *tomlEngine `toml:"engine"`
}

type tomlEngine struct {
	StepQuota        int  `toml:"step-quota"`
	MemoryQuotaBytes int  `toml:"memory-quota-bytes"`
	RecursionLimit   int  `toml:"recursion-limit"`
	Parallelism      int  `toml:"parallelism"`
	WarningsAsErrors bool `toml:"warnings-as-errors"`
}

// ParseConfig decodes a TOML engine configuration. Omitted keys keep their
// zero value and are defaulted by NewEngine.
func ParseConfig(data []byte) (Config, error) {
	file := &tomlConfigFile{}
	if err := toml.Unmarshal(data, file); err != nil {
		return Config{}, fmt.Errorf("ruster: parse config: %w", err)
	}
	if file.Engine == nil {
		return Config{}, nil
	}

	e := file.Engine
	for name, v := range map[string]int{
		"step-quota":         e.StepQuota,
		"memory-quota-bytes": e.MemoryQuotaBytes,
		"recursion-limit":    e.RecursionLimit,
		"parallelism":        e.Parallelism,
	} {
		if v < 0 {
			return Config{}, fmt.Errorf("ruster: config %s must not be negative (got %d)", name, v)
		}
	}

	return Config{
		StepQuota:        e.StepQuota,
		MemoryQuotaBytes: e.MemoryQuotaBytes,
		RecursionLimit:   e.RecursionLimit,
		Parallelism:      e.Parallelism,
		WarningsAsErrors: e.WarningsAsErrors,
	}, nil
}
