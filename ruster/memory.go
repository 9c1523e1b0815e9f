package ruster

import (
	"unsafe"
)

const (
	estimatedValueBytes        = 24
	estimatedStringHeaderBytes = 16
	estimatedSliceBaseBytes    = 24
	estimatedOptionBytes       = 8
	estimatedBindingBytes      = 48
	estimatedCallFrameBytes    = 32

	maxSliceLen = 1 << 28
)

type memoryEstimator struct {
	seenSlices  map[*[]Value]struct{}
	seenStrings map[stringIdentity]struct{}
}

type stringIdentity struct {
	ptr uintptr
	len int
}

func newMemoryEstimator() *memoryEstimator {
	return &memoryEstimator{
		seenSlices:  make(map[*[]Value]struct{}),
		seenStrings: make(map[stringIdentity]struct{}),
	}
}

func (exec *Execution) checkMemory(pos Position) error {
	if exec.memoryQuota <= 0 {
		return nil
	}
	used := exec.estimateMemoryUsage()
	if used > exec.memoryQuota {
		return exec.runtimeErrorAt(pos, ErrMemoryQuotaExceeded, "memory quota exceeded (%d bytes)", exec.memoryQuota)
	}
	return nil
}

// reserve fails before allocating n more values would exceed the quota.
func (exec *Execution) reserve(pos Position, n int) error {
	if exec.memoryQuota <= 0 || n == 0 {
		return nil
	}
	if n > maxSliceLen || exec.estimateMemoryUsage()+estimatedSliceBaseBytes+n*estimatedValueBytes > exec.memoryQuota {
		return exec.runtimeErrorAt(pos, ErrMemoryQuotaExceeded, "memory quota exceeded (%d bytes)", exec.memoryQuota)
	}
	return nil
}

// estimateMemoryUsage approximates the bytes held by live bindings. Shared
// slice backings and strings are counted once.
func (exec *Execution) estimateMemoryUsage() int {
	est := newMemoryEstimator()
	total := len(exec.callStack) * estimatedCallFrameBytes
	for _, b := range exec.arena.slots {
		total += estimatedBindingBytes + len(b.name)
		total += est.value(b.value)
	}
	return total
}

func (est *memoryEstimator) value(val Value) int {
	size := estimatedValueBytes

	switch val.Kind() {
	case KindString:
		size += estimatedStringHeaderBytes
		size += est.stringPayloadSize(val.Str())
	case KindSlice:
		size += est.slice(val.Slice())
	case KindOption:
		if inner, ok := val.Option(); ok {
			size += estimatedOptionBytes + est.value(inner)
		}
	case KindFunction:
		// compile-time artifacts
	}

	return size
}

func (est *memoryEstimator) stringPayloadSize(str string) int {
	if len(str) == 0 {
		return 0
	}

	key := stringIdentity{
		ptr: uintptr(unsafe.Pointer(unsafe.StringData(str))),
		len: len(str),
	}
	if _, seen := est.seenStrings[key]; seen {
		return 0
	}
	est.seenStrings[key] = struct{}{}
	return len(str)
}

// slice counts the whole backing array the first time any view of it is
// seen.
func (est *memoryEstimator) slice(s Slice) int {
	if s.backing == nil {
		return estimatedSliceBaseBytes
	}
	if _, seen := est.seenSlices[s.backing]; seen {
		return estimatedSliceBaseBytes
	}
	est.seenSlices[s.backing] = struct{}{}

	backing := *s.backing
	size := estimatedSliceBaseBytes + cap(backing)*estimatedValueBytes
	for _, val := range backing {
		if val.Kind() == KindSlice || val.Kind() == KindString || val.Kind() == KindOption {
			size += est.value(val) - estimatedValueBytes
		}
	}
	return size
}
