package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// PerformanceData holds the timings and verdicts of one benchmarked image.
type PerformanceData struct {
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Channels   int       `json:"channels"`
	Radius     int       `json:"radius"`
	Workers    int       `json:"workers"`
	Timestamp  time.Time `json:"timestamp"`

	OptimizedTime  float64 `json:"optimized_seconds"`
	SequentialTime float64 `json:"sequential_seconds"`
	NaiveTime      float64 `json:"naive_seconds"`

	Correct      bool `json:"correct"`
	NaiveMatches bool `json:"naive_matches"`
}

// Speedup is sequential time over optimized time.
func (p PerformanceData) Speedup() float64 {
	return ratio(p.SequentialTime, p.OptimizedTime)
}

// NaiveSpeedup is sequential time over naive time.
func (p PerformanceData) NaiveSpeedup() float64 {
	return ratio(p.SequentialTime, p.NaiveTime)
}

func ratio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

// Moments is a mean and standard deviation.
type Moments struct {
	Mean   float64
	StdDev float64
}

func (m Moments) String() string {
	return fmt.Sprintf("%.4f ± %.4f", m.Mean, m.StdDev)
}

// Summary aggregates a batch of PerformanceData.
type Summary struct {
	Images       int
	Optimized    Moments
	Sequential   Moments
	Naive        Moments
	Speedup      Moments
	NaiveSpeedup Moments
	Failures     int
}

// Summarize computes per-variant timing moments across results.
func Summarize(results []PerformanceData) Summary {
	s := Summary{Images: len(results)}
	if len(results) == 0 {
		return s
	}

	column := func(f func(PerformanceData) float64) Moments {
		xs := make([]float64, len(results))
		for i, r := range results {
			xs[i] = f(r)
		}
		if len(xs) == 1 {
			return Moments{Mean: xs[0]}
		}
		mean, std := stat.MeanStdDev(xs, nil)
		return Moments{Mean: mean, StdDev: std}
	}

	s.Optimized = column(func(p PerformanceData) float64 { return p.OptimizedTime })
	s.Sequential = column(func(p PerformanceData) float64 { return p.SequentialTime })
	s.Naive = column(func(p PerformanceData) float64 { return p.NaiveTime })
	s.Speedup = column(PerformanceData.Speedup)
	s.NaiveSpeedup = column(PerformanceData.NaiveSpeedup)
	for _, r := range results {
		if !r.Correct {
			s.Failures++
		}
	}
	return s
}

// WritePerformanceResultsWithPrefix writes a combined results file into dir
// and returns its path.
func WritePerformanceResultsWithPrefix(dir string, results []PerformanceData, prefix string) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create logs directory")
	}

	// Use timestamp from first result
	timestamp := results[0].Timestamp.Format("2006-01-02_15-04-05")
	resultsFile := filepath.Join(dir, fmt.Sprintf("%s%s.txt", prefix, timestamp))

	file, err := os.Create(resultsFile)
	if err != nil {
		return "", errors.Wrap(err, "failed to create results file")
	}
	defer file.Close()

	fmt.Fprintf(file, "=== Combined blur5 Benchmark Results ===\n")
	fmt.Fprintf(file, "Timestamp: %s\n\n", results[0].Timestamp.Format("2006-01-02 15:04:05"))

	for i, result := range results {
		fmt.Fprintf(file, "=== Image %d: %s ===\n", i+1, result.InputPath)
		fmt.Fprintf(file, "Geometry: %dx%dx%d\n", result.Width, result.Height, result.Channels)
		fmt.Fprintf(file, "Kernel radius: %d\n", result.Radius)
		fmt.Fprintf(file, "Workers: %d\n", result.Workers)
		fmt.Fprintf(file, "Optimized parallel: %.4fs\n", result.OptimizedTime)
		fmt.Fprintf(file, "Sequential: %.4fs\n", result.SequentialTime)
		fmt.Fprintf(file, "Baseline parallel: %.4fs\n", result.NaiveTime)
		fmt.Fprintf(file, "Speedup: %.2fx (baseline %.2fx)\n", result.Speedup(), result.NaiveSpeedup())
		fmt.Fprintf(file, "Correct: %t (baseline matches: %t)\n", result.Correct, result.NaiveMatches)
		if result.OutputPath != "" {
			fmt.Fprintf(file, "Output: %s\n", result.OutputPath)
		}
		fmt.Fprintf(file, "\n")
	}

	s := Summarize(results)
	fmt.Fprintf(file, "=== Summary ===\n")
	fmt.Fprintf(file, "Images processed: %d\n", s.Images)
	fmt.Fprintf(file, "Optimized parallel: %vs\n", s.Optimized)
	fmt.Fprintf(file, "Sequential: %vs\n", s.Sequential)
	fmt.Fprintf(file, "Baseline parallel: %vs\n", s.Naive)
	fmt.Fprintf(file, "Speedup: %v\n", s.Speedup)
	fmt.Fprintf(file, "Incorrect results: %d\n", s.Failures)

	if err := file.Sync(); err != nil {
		return "", errors.Wrap(err, "failed to flush results file")
	}
	return resultsFile, nil
}
