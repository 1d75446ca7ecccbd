// Package bench times the blur variants against one another and checks that
// the tuned parallel variant reproduces the sequential reference exactly.
package bench

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/pkg/errors"

	"studyguide.parallel/blur5/pkg/blur"
	"studyguide.parallel/blur5/pkg/common"
	"studyguide.parallel/blur5/pkg/stats"
	"studyguide.parallel/blur5/pkg/workerpool"
)

// Variant fills dst with the blur of src.
type Variant func(dst, src []byte, g common.Geometry)

// Harness runs the warm-up, timing, and comparison protocol. It owns no
// goroutines itself: timed calls run one after another.
type Harness struct {
	Optimized  Variant
	Sequential Variant
	Naive      Variant

	// Out receives the operator-visible timing and verdict lines.
	Out io.Writer

	radius  int
	workers int
}

// NewHarness wires the three blur variants of kernel. pool must stay open for
// the lifetime of the harness.
func NewHarness(kernel blur.Kernel, pool *workerpool.Pool, out io.Writer) *Harness {
	return &Harness{
		Optimized: func(dst, src []byte, g common.Geometry) {
			kernel.Parallel(pool, dst, src, g)
		},
		Sequential: kernel.Sequential,
		Naive:      kernel.Naive,
		Out:        out,
		radius:     kernel.Radius(),
		workers:    pool.NumWorkers(),
	}
}

// Report is the outcome of one Run.
type Report struct {
	Geometry   common.Geometry
	Optimized  time.Duration
	Sequential time.Duration
	Naive      time.Duration

	// Mismatch is the first sample where the optimized output differs from
	// the sequential output, or -1.
	Mismatch int
	// NaiveMismatch is the same comparison for the baseline parallel output.
	NaiveMismatch int
}

// Correct reports whether the optimized output matched the reference.
func (r *Report) Correct() bool {
	return r.Mismatch < 0
}

// NaiveMatches reports whether the baseline parallel output matched the reference.
func (r *Report) NaiveMatches() bool {
	return r.NaiveMismatch < 0
}

// Performance converts r into a stats record.
func (h *Harness) Performance(r *Report) stats.PerformanceData {
	return stats.PerformanceData{
		Width:          r.Geometry.Width,
		Height:         r.Geometry.Height,
		Channels:       r.Geometry.Channels,
		Radius:         h.radius,
		Workers:        h.workers,
		Timestamp:      time.Now(),
		OptimizedTime:  r.Optimized.Seconds(),
		SequentialTime: r.Sequential.Seconds(),
		NaiveTime:      r.Naive.Seconds(),
		Correct:        r.Correct(),
		NaiveMatches:   r.NaiveMatches(),
	}
}

func timed(v Variant, dst, src []byte, g common.Geometry) time.Duration {
	start := time.Now()
	v(dst, src, g)
	return time.Since(start)
}

// Run benchmarks img and then replaces img.Pix contents with the sequential
// reference output.
func (h *Harness) Run(img *common.Image) (*Report, error) {
	if err := img.Check(img.Pix); err != nil {
		return nil, errors.Wrap(err, "cannot benchmark image")
	}
	g := img.Geometry
	optimized := make([]byte, g.Len())
	reference := make([]byte, g.Len())
	baseline := make([]byte, g.Len())

	// Warm-up: pays for first-call costs such as faulting in the buffers.
	h.Optimized(baseline, img.Pix, g)

	r := &Report{Geometry: g}
	r.Optimized = timed(h.Optimized, optimized, img.Pix, g)
	fmt.Fprintf(h.Out, "Time taken for blur5: %.4f seconds\n", r.Optimized.Seconds())

	fmt.Fprintf(h.Out, "Running serial and baseline parallel for comparison...\n")
	r.Sequential = timed(h.Sequential, reference, img.Pix, g)
	fmt.Fprintf(h.Out, "Time taken for serial blur5: %.4f seconds\n", r.Sequential.Seconds())

	// Drop the warm-up result so samples the baseline skips cannot match.
	clear(baseline)
	r.Naive = timed(h.Naive, baseline, img.Pix, g)
	fmt.Fprintf(h.Out, "Time taken for baseline parallel blur5: %.4f seconds\n", r.Naive.Seconds())

	fmt.Fprintf(h.Out, "Checking results for comparison...\n")
	r.Mismatch = Compare(optimized, reference)
	r.NaiveMismatch = Compare(baseline, reference)

	if r.Correct() {
		fmt.Fprintf(h.Out, "Code results are correct.\n")
	} else {
		fmt.Fprintf(h.Out, "Code results are incorrect.\n")
		log.Printf("blur5: first mismatch at sample %d (%s)", r.Mismatch, describe(g, r.Mismatch))
	}
	if !r.NaiveMatches() {
		log.Printf("blur5: baseline parallel output differs at sample %d (%s)", r.NaiveMismatch, describe(g, r.NaiveMismatch))
	}

	copy(img.Pix, reference)
	return r, nil
}

// Compare returns the index of the first differing sample of a and b, or -1
// if they are identical. Buffers of different length differ at the end of the
// shorter one.
func Compare(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

func describe(g common.Geometry, i int) string {
	px := i / g.Channels
	return fmt.Sprintf("row %d col %d channel %d", px/g.Width, px%g.Width, i%g.Channels)
}
