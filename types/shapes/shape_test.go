// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	require.Equal(t, 2, s.Rank())
	require.Equal(t, []int{2, 3}, s.Dimensions)
	require.Equal(t, 6, s.Size())
	require.Equal(t, uintptr(24), s.Memory())
	require.Equal(t, "(Float32)[2 3]", s.String())

	// Zero-sized dimensions are valid shapes.
	degenerate := Make(dtypes.Int32, 2, 0, 3)
	require.True(t, degenerate.Ok())
	require.True(t, degenerate.IsZeroSized())
	require.Equal(t, 0, degenerate.Size())
	require.Equal(t, 3, degenerate.Rank())

	// Negative dimensions are a coding error.
	require.Panics(t, func() { Make(dtypes.Float32, 2, -1) })
}

func TestScalar(t *testing.T) {
	s := Scalar[float32]()
	require.True(t, s.IsScalar())
	require.False(t, s.IsZeroSized())
	require.Equal(t, 1, s.Size())
	require.Equal(t, dtypes.Float32, s.DType)
}

func TestDim(t *testing.T) {
	s := Make(dtypes.Float32, 4, 5, 6)
	require.Equal(t, 4, s.Dim(0))
	require.Equal(t, 6, s.Dim(-1))
	require.Equal(t, 5, s.Dim(-2))
	require.Panics(t, func() { s.Dim(3) })
	require.Panics(t, func() { s.Dim(-4) })
}

func TestEqual(t *testing.T) {
	require.True(t, Make(dtypes.Float32, 2, 3).Equal(Make(dtypes.Float32, 2, 3)))
	require.False(t, Make(dtypes.Float32, 2, 3).Equal(Make(dtypes.Int32, 2, 3)))
	require.False(t, Make(dtypes.Float32, 2, 3).Equal(Make(dtypes.Float32, 3, 2)))
	require.True(t, Make(dtypes.Float32, 2, 3).EqualDimensions(Make(dtypes.Int32, 2, 3)))
	require.False(t, Invalid().Ok())
}

func TestClone(t *testing.T) {
	s := Make(dtypes.Int32, 7, 1)
	s2 := s.Clone()
	require.True(t, s.Equal(s2))
	s2.Dimensions[0] = 3
	require.Equal(t, 7, s.Dimensions[0])
}

func TestCheckDType(t *testing.T) {
	require.NoError(t, CheckDType(dtypes.Float32))
	require.NoError(t, CheckDType(dtypes.Int32))

	// Declared but without kernels.
	err := CheckDType(dtypes.Int16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDType))
	err = CheckDType(dtypes.Uint8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedDType))

	// Outside the declared set.
	for _, dtype := range []dtypes.DType{dtypes.Float64, dtypes.Int64, dtypes.Bool, dtypes.InvalidDType} {
		err = CheckDType(dtype)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDType), "dtype %s should be invalid", dtype)
	}

	for _, dtype := range SupportedDTypes {
		assert.True(t, IsSupportedDType(dtype))
	}
	assert.False(t, IsSupportedDType(dtypes.Int16))
}
