package workerpool

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()
	assert.Equal(t, 4, pool.NumWorkers())
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()
	assert.Equal(t, runtime.GOMAXPROCS(0), pool.NumWorkers())
}

func TestPartition(t *testing.T) {
	ranges := Partition(10, 4)
	assert.Equal(t, []Range{{0, 3}, {3, 6}, {6, 8}, {8, 10}}, ranges)

	assert.Equal(t, []Range{{0, 1}, {1, 2}, {2, 3}}, Partition(3, 8), "never more ranges than items")
	assert.Equal(t, []Range{{0, 5}}, Partition(5, 0))
	assert.Nil(t, Partition(0, 4))
}

func TestPartitionCoversEveryIndexOnce(t *testing.T) {
	for n := 1; n < 50; n++ {
		for parts := 1; parts < 12; parts++ {
			seen := make([]int, n)
			for _, r := range Partition(n, parts) {
				require.LessOrEqual(t, r.Start, r.End)
				for i := r.Start; i < r.End; i++ {
					seen[i]++
				}
			}
			for i, c := range seen {
				require.Equal(t, 1, c, "n=%d parts=%d index %d", n, parts, i)
			}
		}
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		assert.Equal(t, i*2, results[i])
	}
}

func TestParallelForReuse(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	var total atomic.Int64
	for range 20 {
		pool.ParallelFor(7, func(start, end int) {
			total.Add(int64(end - start))
		})
	}
	assert.Equal(t, int64(140), total.Load())
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	called := false
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})
	assert.False(t, called, "ParallelFor with n=0 should not call fn")
}

func TestParallelForAfterClose(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	var calls int
	pool.ParallelFor(10, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}
