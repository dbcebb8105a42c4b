package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRows_CoversEveryRowOnce checks that ranges are disjoint and complete.
func TestRows_CoversEveryRowOnce(t *testing.T) {
	n := 1000
	hits := make([]int32, n)

	Rows(n, 1<<10, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, Config{Workers: 8, MinWork: 1})

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "row %d", i)
	}
}

// TestRows_SmallWorkRunsInline expects a single call for cheap loops.
func TestRows_SmallWorkRunsInline(t *testing.T) {
	var calls int32
	Rows(10, 1, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	}, DefaultConfig())

	assert.Equal(t, int32(1), calls)
}

// TestRows_SingleWorker runs inline regardless of work.
func TestRows_SingleWorker(t *testing.T) {
	var calls int32
	Rows(100, 1<<20, func(_, _ int) {
		atomic.AddInt32(&calls, 1)
	}, Config{Workers: 1})

	assert.Equal(t, int32(1), calls)
}

// TestRows_Empty never calls fn.
func TestRows_Empty(t *testing.T) {
	Rows(0, 1, func(_, _ int) {
		t.Fatal("fn called for empty range")
	}, DefaultConfig())
}
