// Package bench provides synthetic CPU workloads that stand in for GPU
// kernels when exercising the energy pipeline. The workloads report wall
// time and a nominal operation count; they are calibration stand-ins, not
// real kernels, so their throughput numbers are only meaningful relative
// to each other.
package bench

import (
	"fmt"
	"time"
)

// Result reports one workload execution.
type Result struct {
	Workload   string
	Operations int64
	Elapsed    time.Duration
}

// Workload is a runnable benchmark kernel.
type Workload interface {
	Name() string
	Run() Result
}

// MatMulWorkload multiplies two dense NxN float64 matrices Repeats times.
// The nominal operation count is 2*N^3 per repeat (one multiply and one
// add per inner-loop step).
type MatMulWorkload struct {
	N       int
	Repeats int
}

// matMulSink keeps the multiply loops observable so the compiler cannot
// discard them.
var matMulSink float64

func (w MatMulWorkload) size() int {
	if w.N <= 0 {
		return 64
	}
	return w.N
}

func (w MatMulWorkload) repeats() int {
	if w.Repeats <= 0 {
		return 1
	}
	return w.Repeats
}

func (w MatMulWorkload) Name() string {
	n := w.size()
	return fmt.Sprintf("matmul_%dx%d", n, n)
}

func (w MatMulWorkload) Run() Result {
	n := w.size()
	reps := w.repeats()

	a := make([]float64, n*n)
	b := make([]float64, n*n)
	c := make([]float64, n*n)
	for i := range a {
		a[i] = float64(i%7) + 0.5
		b[i] = float64(i%5) + 0.25
	}

	start := time.Now()
	for r := 0; r < reps; r++ {
		for i := range c {
			c[i] = 0
		}
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				aik := a[i*n+k]
				for j := 0; j < n; j++ {
					c[i*n+j] += aik * b[k*n+j]
				}
			}
		}
		matMulSink += c[0]
	}
	elapsed := time.Since(start)

	return Result{
		Workload:   w.Name(),
		Operations: int64(reps) * 2 * int64(n) * int64(n) * int64(n),
		Elapsed:    elapsed,
	}
}

// MemoryCopyWorkload copies a Bytes-sized buffer Repeats times. Bytes moved
// count as operations, so OpsPerSecond reads as bytes per second.
type MemoryCopyWorkload struct {
	Bytes   int
	Repeats int
}

func (w MemoryCopyWorkload) bytes() int {
	if w.Bytes <= 0 {
		return 16 << 20
	}
	return w.Bytes
}

func (w MemoryCopyWorkload) repeats() int {
	if w.Repeats <= 0 {
		return 1
	}
	return w.Repeats
}

func (w MemoryCopyWorkload) Name() string {
	return fmt.Sprintf("memory_copy_%s", formatBytes(w.bytes()))
}

func (w MemoryCopyWorkload) Run() Result {
	size := w.bytes()
	reps := w.repeats()

	src := make([]byte, size)
	dst := make([]byte, size)
	for i := range src {
		src[i] = byte(i)
	}

	start := time.Now()
	for r := 0; r < reps; r++ {
		copy(dst, src)
	}
	elapsed := time.Since(start)

	return Result{
		Workload:   w.Name(),
		Operations: int64(reps) * int64(size),
		Elapsed:    elapsed,
	}
}

// RunAll executes the workloads in order and collects their results.
func RunAll(workloads []Workload) []Result {
	results := make([]Result, 0, len(workloads))
	for _, w := range workloads {
		results = append(results, w.Run())
	}
	return results
}

// DefaultWorkloads is the built-in suite the CLI bench command runs.
func DefaultWorkloads() []Workload {
	return []Workload{
		MatMulWorkload{N: 128, Repeats: 4},
		MatMulWorkload{N: 256, Repeats: 1},
		MemoryCopyWorkload{Bytes: 16 << 20, Repeats: 8},
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dmib", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dkib", n>>10)
	default:
		return fmt.Sprintf("%db", n)
	}
}
