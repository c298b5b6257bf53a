// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package xslices provides generic slice helpers used throughout the engine, where
// the standard slices package has no counterpart.
package xslices

import "golang.org/x/exp/constraints"

// FillSlice fills the slice with the given value.
func FillSlice[T any](slice []T, value T) {
	// Apparently, the fastest way is by using copy.
	if len(slice) == 0 {
		return
	}
	slice[0] = value
	filled := 1
	for ; filled < len(slice); filled *= 2 {
		copy(slice[filled:], slice[:filled])
	}
}

// SliceWithValue creates a slice of the given size filled with the given value.
func SliceWithValue[T any](size int, value T) []T {
	s := make([]T, size)
	FillSlice(s, value)
	return s
}

// Iota returns a slice of the given length with incremental values starting at start.
func Iota[T interface {
	constraints.Integer | constraints.Float
}](start T, len int) (slice []T) {
	slice = make([]T, len)
	for ii := range slice {
		slice[ii] = start + T(ii)
	}
	return
}

// Reverse returns a new slice with the elements in reverse order.
func Reverse[T any](slice []T) []T {
	reversed := make([]T, len(slice))
	for ii, value := range slice {
		reversed[len(slice)-1-ii] = value
	}
	return reversed
}
