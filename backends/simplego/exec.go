// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"sync"

	"github.com/gomlx/tensorexec/types/shapes"
)

// minParallelizeChunk is the size of work chunks handed to the worker pool. Kernels
// at or below this size run inline.
const minParallelizeChunk = 4096

// parallelChunks splits the range [0, n) into chunks and runs fn on each, using the
// backend worker pool when it is enabled and the work is large enough. fn must be
// safe to call concurrently for disjoint ranges. It returns after all chunks
// completed.
func (b *Backend) parallelChunks(n int, fn func(start, end int)) {
	if !b.workers.IsEnabled() || n <= minParallelizeChunk {
		fn(0, n)
		return
	}
	var wg sync.WaitGroup
	for start := 0; start < n; start += minParallelizeChunk {
		end := min(start+minParallelizeChunk, n)
		wg.Add(1)
		b.workers.WaitToStart(func() {
			fn(start, end)
			wg.Done()
		})
	}
	wg.Wait()
}

// rowMajorStrides returns the distance in flat elements between consecutive entries
// of each axis, for a row-major layout of the given dimensions.
func rowMajorStrides(dimensions []int) []int {
	strides := make([]int, len(dimensions))
	stride := 1
	for axis := len(dimensions) - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= dimensions[axis]
	}
	return strides
}

// splitAroundAxis views a shape as the 3-dimensional (outer, dim, inner): the product
// of the dimensions before axis, the axis dimension itself, and the product of the
// dimensions after it. Kernels that work per-axis (ArgMinMax, TopK, Gather) iterate
// these three instead of the full rank.
func splitAroundAxis(shape shapes.Shape, axis int) (outer, dim, inner int) {
	outer, inner = 1, 1
	for _, d := range shape.Dimensions[:axis] {
		outer *= d
	}
	dim = shape.Dimensions[axis]
	for _, d := range shape.Dimensions[axis+1:] {
		inner *= d
	}
	return
}
