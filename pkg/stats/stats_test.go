package stats

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []PerformanceData {
	ts := time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)
	return []PerformanceData{
		{InputPath: "a.png", Width: 4, Height: 4, Channels: 3, Radius: 2, Workers: 4, Timestamp: ts,
			OptimizedTime: 1, SequentialTime: 4, NaiveTime: 2, Correct: true, NaiveMatches: true},
		{InputPath: "b.png", Width: 8, Height: 8, Channels: 1, Radius: 2, Workers: 4, Timestamp: ts,
			OptimizedTime: 3, SequentialTime: 6, NaiveTime: 3, Correct: false, NaiveMatches: true},
	}
}

func TestSpeedup(t *testing.T) {
	p := PerformanceData{OptimizedTime: 0.5, SequentialTime: 2, NaiveTime: 1}
	assert.InDelta(t, 4.0, p.Speedup(), 1e-12)
	assert.InDelta(t, 2.0, p.NaiveSpeedup(), 1e-12)
	assert.Zero(t, PerformanceData{SequentialTime: 1}.Speedup())
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())
	assert.Equal(t, 2, s.Images)
	assert.Equal(t, 1, s.Failures)
	assert.InDelta(t, 2.0, s.Optimized.Mean, 1e-12)
	assert.InDelta(t, 5.0, s.Sequential.Mean, 1e-12)
	assert.InDelta(t, 3.0, s.Speedup.Mean, 1e-12)
	// sample standard deviation of {1, 3}
	assert.InDelta(t, 1.41421356, s.Optimized.StdDev, 1e-6)

	single := Summarize(sampleResults()[:1])
	assert.Equal(t, Moments{Mean: 4}, single.Speedup)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestWritePerformanceResults(t *testing.T) {
	dir := t.TempDir()
	path, err := WritePerformanceResultsWithPrefix(dir, sampleResults(), "blur5_")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "blur5_2026-10-19_12-30-00.txt"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "=== Image 1: a.png ===")
	assert.Contains(t, text, "Geometry: 8x8x1")
	assert.Contains(t, text, "Sequential: 4.0000s")
	assert.Contains(t, text, "Incorrect results: 1")

	path, err = WritePerformanceResultsWithPrefix(dir, nil, "blur5_")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestHost(t *testing.T) {
	h := Host()
	assert.Equal(t, runtime.GOOS, h.GOOS)
	assert.Equal(t, runtime.GOMAXPROCS(0), h.GOMAXPROCS)
	assert.Contains(t, h.String(), "gomaxprocs=")
}
