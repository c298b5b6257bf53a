// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapeinference

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Aliases
var (
	I32 = dtypes.Int32
	F32 = dtypes.Float32

	MS = shapes.Make
)

// must1 panics if there is an error.
func must1[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func TestAdjustAxis(t *testing.T) {
	require.Equal(t, 2, must1(AdjustAxis(2, 3)))
	require.Equal(t, 2, must1(AdjustAxis(-1, 3)))
	require.Equal(t, 0, must1(AdjustAxis(-3, 3)))
	_, err := AdjustAxis(3, 3)
	require.True(t, errors.Is(err, ErrShape))
	_, err = AdjustAxis(-4, 3)
	require.True(t, errors.Is(err, ErrShape))
}

func TestBroadcastOp(t *testing.T) {
	// Trailing alignment with a missing leading axis.
	require.True(t, MS(F32, 2, 3).Equal(must1(BroadcastOp(MS(F32, 2, 3), MS(F32, 3)))))

	// Stretching 1-dimensions on both sides.
	require.True(t, MS(F32, 2, 4, 3).Equal(must1(BroadcastOp(MS(F32, 2, 1, 3), MS(F32, 1, 4, 3)))))

	// Scalars broadcast against anything.
	require.True(t, MS(F32, 5, 2).Equal(must1(BroadcastOp(MS(F32), MS(F32, 5, 2)))))
	require.True(t, MS(F32).Equal(must1(BroadcastOp(MS(F32), MS(F32)))))

	// A 0 dimension broadcast against 1 stays 0, it is never rounded up.
	require.True(t, MS(F32, 2, 0).Equal(must1(BroadcastOp(MS(F32, 2, 0), MS(F32, 2, 1)))))
	require.True(t, MS(F32, 0, 7).Equal(must1(BroadcastOp(MS(F32, 1, 7), MS(F32, 0, 1)))))

	// 0 against anything other than 1 (or 0) is incompatible.
	_, err := BroadcastOp(MS(F32, 2, 0), MS(F32, 2, 3))
	require.True(t, errors.Is(err, ErrShape))
	_, err = BroadcastOp(MS(F32, 2, 3), MS(F32, 4, 3))
	require.True(t, errors.Is(err, ErrShape))

	// Symmetry on the dimensions.
	pairs := [][2]shapes.Shape{
		{MS(F32, 2, 3), MS(F32, 3)},
		{MS(F32, 2, 1, 3), MS(F32, 1, 4, 3)},
		{MS(F32, 1), MS(F32, 0)},
		{MS(F32, 7, 1, 5), MS(F32, 4, 5)},
	}
	for _, pair := range pairs {
		forward := must1(BroadcastOp(pair[0], pair[1]))
		backward := must1(BroadcastOp(pair[1], pair[0]))
		require.True(t, forward.EqualDimensions(backward), "BroadcastOp is not symmetric for %s and %s", pair[0], pair[1])
	}
}

func TestBinaryOp(t *testing.T) {
	require.True(t, MS(I32, 2, 3).Equal(must1(BinaryOp(MS(I32, 2, 3), MS(I32, 2, 3)))))
	require.True(t, MS(F32, 2, 3).Equal(must1(BinaryOp(MS(F32, 2, 3), MS(F32)))))

	// DTypes must match.
	_, err := BinaryOp(MS(F32, 2, 3), MS(I32, 2, 3))
	require.True(t, errors.Is(err, ErrShape))
}

func TestComparisonOp(t *testing.T) {
	// Comparison results are integer-encoded.
	output := must1(ComparisonOp(MS(F32, 2, 3), MS(F32, 3)))
	require.True(t, MS(I32, 2, 3).Equal(output))

	_, err := ComparisonOp(MS(F32, 2), MS(I32, 2))
	require.True(t, errors.Is(err, ErrShape))
}

func TestWhereOp(t *testing.T) {
	// Three-way broadcast: cond, onTrue and onFalse all participate.
	output := must1(WhereOp(MS(I32, 2, 1), MS(F32, 1, 3), MS(F32)))
	require.True(t, MS(F32, 2, 3).Equal(output))

	// Branches must agree on DType.
	_, err := WhereOp(MS(I32, 2), MS(F32, 2), MS(I32, 2))
	require.True(t, errors.Is(err, ErrShape))

	// Branches incompatible with each other.
	_, err = WhereOp(MS(I32, 2), MS(F32, 2), MS(F32, 3))
	require.True(t, errors.Is(err, ErrShape))
}

func TestConcatenateOp(t *testing.T) {
	// Sum over the concatenation axis; a 0-dimension input contributes nothing.
	output := must1(ConcatenateOp([]shapes.Shape{MS(F32, 1, 4), MS(F32, 2, 4), MS(F32, 0, 4)}, 0))
	require.True(t, MS(F32, 3, 4).Equal(output))

	// Negative axis.
	output = must1(ConcatenateOp([]shapes.Shape{MS(I32, 2, 3), MS(I32, 2, 5)}, -1))
	require.True(t, MS(I32, 2, 8).Equal(output))

	// Single input is returned as is.
	output = must1(ConcatenateOp([]shapes.Shape{MS(F32, 2, 3)}, 1))
	require.True(t, MS(F32, 2, 3).Equal(output))

	var err error
	_, err = ConcatenateOp(nil, 0)
	require.True(t, errors.Is(err, ErrShape))
	_, err = ConcatenateOp([]shapes.Shape{MS(F32, 2), MS(I32, 2)}, 0)
	require.True(t, errors.Is(err, ErrShape))
	_, err = ConcatenateOp([]shapes.Shape{MS(F32, 2), MS(F32, 2, 2)}, 0)
	require.True(t, errors.Is(err, ErrShape))
	_, err = ConcatenateOp([]shapes.Shape{MS(F32, 2, 3), MS(F32, 2, 4)}, 0)
	require.True(t, errors.Is(err, ErrShape))
	_, err = ConcatenateOp([]shapes.Shape{MS(F32, 2), MS(F32, 2)}, 1)
	require.True(t, errors.Is(err, ErrShape))
}

func TestReduceOp(t *testing.T) {
	// Reduced axes are removed...
	output, resolvedAxes, err := ReduceOp(MS(F32, 2, 0, 3), []int{1}, false)
	require.NoError(t, err)
	require.True(t, MS(F32, 2, 3).Equal(output))
	require.Equal(t, []int{1}, resolvedAxes)

	// ... or kept as 1 with keepDims, and negative axes resolve.
	output, resolvedAxes, err = ReduceOp(MS(F32, 2, 0, 3), []int{-1}, true)
	require.NoError(t, err)
	require.True(t, MS(F32, 2, 0, 1).Equal(output))
	require.Equal(t, []int{2}, resolvedAxes)

	// Rank rules: reducing removes exactly len(axes) axes, keepDims preserves rank.
	operand := MS(F32, 4, 3, 2)
	output, _, err = ReduceOp(operand, []int{0, 2}, false)
	require.NoError(t, err)
	require.Equal(t, operand.Rank()-2, output.Rank())
	output, _, err = ReduceOp(operand, []int{0, 2}, true)
	require.NoError(t, err)
	require.Equal(t, operand.Rank(), output.Rank())

	// Empty axes reduce over all axes, and the resolved axes come back sorted.
	output, resolvedAxes, err = ReduceOp(operand, nil, false)
	require.NoError(t, err)
	require.True(t, MS(F32).Equal(output))
	require.Equal(t, []int{0, 1, 2}, resolvedAxes)
	output, resolvedAxes, err = ReduceOp(operand, []int{2, 0}, true)
	require.NoError(t, err)
	require.True(t, MS(F32, 1, 3, 1).Equal(output))
	require.Equal(t, []int{0, 2}, resolvedAxes)

	_, _, err = ReduceOp(operand, []int{3}, false)
	require.True(t, errors.Is(err, ErrShape))
	_, _, err = ReduceOp(operand, []int{1, -2}, false)
	require.True(t, errors.Is(err, ErrShape), "repeated axis after resolution should be rejected")
}

func TestArgMinMaxOp(t *testing.T) {
	require.True(t, MS(I32, 2).Equal(must1(ArgMinMaxOp(MS(F32, 2, 3), 1, false))))
	require.True(t, MS(I32, 2, 1).Equal(must1(ArgMinMaxOp(MS(F32, 2, 3), -1, true))))
	_, err := ArgMinMaxOp(MS(F32), 0, false)
	require.True(t, errors.Is(err, ErrShape))
}

func TestTransposeOp(t *testing.T) {
	// Default transposition reverses all axes.
	require.True(t, MS(F32, 4, 3, 2).Equal(must1(TransposeOp(MS(F32, 2, 3, 4), nil))))

	// Explicit permutation.
	require.True(t, MS(F32, 3, 4, 2).Equal(must1(TransposeOp(MS(F32, 2, 3, 4), []int{1, 2, 0}))))

	var err error
	_, err = TransposeOp(MS(F32, 2, 3), []int{0})
	require.True(t, errors.Is(err, ErrShape))
	_, err = TransposeOp(MS(F32, 2, 3), []int{0, 2})
	require.True(t, errors.Is(err, ErrShape))
	_, err = TransposeOp(MS(F32, 2, 3), []int{1, 1})
	require.True(t, errors.Is(err, ErrShape))
}

func TestTileOp(t *testing.T) {
	require.True(t, MS(F32, 4, 3).Equal(must1(TileOp(MS(F32, 2, 3), []int{2, 1}))))
	// A repeat of 0 produces a 0 dimension, not an error.
	require.True(t, MS(F32, 0, 6).Equal(must1(TileOp(MS(F32, 2, 3), []int{0, 2}))))

	var err error
	_, err = TileOp(MS(F32, 2, 3), []int{2})
	require.True(t, errors.Is(err, ErrShape))
	_, err = TileOp(MS(F32, 2, 3), []int{2, -1})
	require.True(t, errors.Is(err, ErrShape))
}

func TestReshapeOp(t *testing.T) {
	require.True(t, MS(F32, 3, 2).Equal(must1(ReshapeOp(MS(F32, 2, 3), []int{3, 2}))))
	require.True(t, MS(F32, 6).Equal(must1(ReshapeOp(MS(F32, 2, 3), []int{6}))))
	// Zero-sized tensors can be reshaped to any zero-sized arrangement.
	require.True(t, MS(F32, 0).Equal(must1(ReshapeOp(MS(F32, 2, 0, 3), []int{0}))))

	var err error
	_, err = ReshapeOp(MS(F32, 2, 3), []int{4, 2})
	require.True(t, errors.Is(err, ErrShape))
	_, err = ReshapeOp(MS(F32, 2, 3), []int{-1, 6})
	require.True(t, errors.Is(err, ErrShape))
}

func TestExpandOp(t *testing.T) {
	require.True(t, MS(F32, 2, 3).Equal(must1(ExpandOp(MS(F32, 3), []int{2, 3}))))
	require.True(t, MS(F32, 2, 4).Equal(must1(ExpandOp(MS(F32, 2, 1), []int{2, 4}))))

	_, err := ExpandOp(MS(F32, 2, 3), []int{2, 4})
	require.True(t, errors.Is(err, ErrShape))
}

func TestSliceOp(t *testing.T) {
	// Basic strided slice: elements 2, 4 and 6.
	output, starts, steps, err := SliceOp(MS(F32, 10), []int{2}, []int{8}, nil, []int{2})
	require.NoError(t, err)
	require.True(t, MS(F32, 3).Equal(output))
	require.Equal(t, []int{2}, starts)
	require.Equal(t, []int{2}, steps)

	// Negative starts and ends resolve against the dimension.
	output, starts, _, err = SliceOp(MS(F32, 10), []int{-3}, []int{10}, nil, nil)
	require.NoError(t, err)
	require.True(t, MS(F32, 3).Equal(output))
	require.Equal(t, []int{7}, starts)

	// Out-of-range ends are clamped, not rejected.
	output, _, _, err = SliceOp(MS(F32, 10), []int{0}, []int{100}, nil, nil)
	require.NoError(t, err)
	require.True(t, MS(F32, 10).Equal(output))

	// An empty selection is a valid zero-sized result.
	output, _, _, err = SliceOp(MS(F32, 10), []int{8}, []int{2}, nil, nil)
	require.NoError(t, err)
	require.True(t, MS(F32, 0).Equal(output))

	// Unlisted axes pass through whole; resolved values cover every axis.
	output, starts, steps, err = SliceOp(MS(I32, 4, 6), []int{1}, []int{5}, []int{1}, []int{2})
	require.NoError(t, err)
	require.True(t, MS(I32, 4, 2).Equal(output))
	require.Equal(t, []int{0, 1}, starts)
	require.Equal(t, []int{1, 2}, steps)

	// Steps must be positive.
	_, _, _, err = SliceOp(MS(F32, 10), []int{0}, []int{10}, nil, []int{0})
	require.True(t, errors.Is(err, ErrShape))
	_, _, _, err = SliceOp(MS(F32, 10), []int{0}, []int{10}, nil, []int{-1})
	require.True(t, errors.Is(err, ErrShape))

	// Argument lengths must agree.
	_, _, _, err = SliceOp(MS(F32, 10), []int{0, 1}, []int{10}, nil, nil)
	require.True(t, errors.Is(err, ErrShape))
}

func TestSplitOp(t *testing.T) {
	require.True(t, MS(F32, 1, 4).Equal(must1(SplitOp(MS(F32, 3, 4), 0, 0, 1))))
	require.True(t, MS(F32, 3, 2).Equal(must1(SplitOp(MS(F32, 3, 4), -1, 2, 4))))
}

func TestConcatSplitRoundTrip(t *testing.T) {
	// Splitting a concatenation at the accumulated offsets recovers the inputs.
	inputs := []shapes.Shape{MS(F32, 1, 4), MS(F32, 2, 4), MS(F32, 0, 4)}
	axis := 0
	output := must1(ConcatenateOp(inputs, axis))
	offset := 0
	for ii, input := range inputs {
		part := must1(SplitOp(output, axis, offset, offset+input.Dimensions[axis]))
		require.True(t, input.Equal(part), "part #%d of the round-trip diverged: %s vs %s", ii, input, part)
		offset += input.Dimensions[axis]
	}
	require.Equal(t, output.Dimensions[axis], offset)
}

func TestGatherOp(t *testing.T) {
	// The axis dimension is replaced by the whole indices shape.
	require.True(t, MS(F32, 2, 3, 4).Equal(must1(GatherOp(MS(F32, 5, 4), MS(I32, 2, 3), 0))))
	require.True(t, MS(F32, 5, 2, 3).Equal(must1(GatherOp(MS(F32, 5, 4), MS(I32, 2, 3), 1))))
	// Scalar indices drop the axis.
	require.True(t, MS(F32, 4).Equal(must1(GatherOp(MS(F32, 5, 4), MS(I32), 0))))

	var err error
	_, err = GatherOp(MS(F32), MS(I32, 2), 0)
	require.True(t, errors.Is(err, ErrShape))
	_, err = GatherOp(MS(F32, 5), MS(F32, 2), 0)
	require.True(t, errors.Is(err, ErrShape))
}

func TestGatherElementsOp(t *testing.T) {
	require.True(t, MS(F32, 3, 2).Equal(must1(GatherElementsOp(MS(F32, 3, 4), MS(I32, 3, 2), 1))))

	var err error
	_, err = GatherElementsOp(MS(F32, 3, 4), MS(I32, 3), 1)
	require.True(t, errors.Is(err, ErrShape))
	_, err = GatherElementsOp(MS(F32, 3, 4), MS(F32, 3, 2), 1)
	require.True(t, errors.Is(err, ErrShape))
	// Indices may not outgrow the operand outside the gather axis.
	_, err = GatherElementsOp(MS(F32, 3, 4), MS(I32, 5, 2), 1)
	require.True(t, errors.Is(err, ErrShape))
}

func TestTopKOp(t *testing.T) {
	require.True(t, MS(F32, 2, 3).Equal(must1(TopKOp(MS(F32, 2, 5), -1, 3))))
	// k == 0 yields a zero-sized shape.
	require.True(t, MS(F32, 2, 0).Equal(must1(TopKOp(MS(F32, 2, 5), 1, 0))))

	var err error
	_, err = TopKOp(MS(F32, 2, 5), 1, 6)
	require.True(t, errors.Is(err, ErrShape))
	_, err = TopKOp(MS(F32), 0, 1)
	require.True(t, errors.Is(err, ErrShape))
}
