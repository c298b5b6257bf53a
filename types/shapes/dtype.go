// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	. "github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// The engine operates on a closed set of dtypes: adding an entry means adding kernel
// support to every backend, so inclusion is deliberate and checked with a switch, not
// a lookup table.
//
// Int16 and Uint8 are declared -- recognized by the API and reserved for quantized
// data -- but no backend provides kernels for them yet.

var (
	// ErrUnsupportedDType is the base error for operations requested on a dtype that is
	// declared but has no kernel support (Int16, Uint8).
	//
	// It doesn't carry context, wrap it with errors.Wrapf when returning it.
	ErrUnsupportedDType = errors.New("dtype is declared but not supported for execution")

	// ErrInvalidDType is the base error for dtype values outside the declared set.
	ErrInvalidDType = errors.New("dtype is not recognized by the execution engine")
)

// SupportedDTypes lists the dtypes every backend is expected to provide kernels for.
var SupportedDTypes = []DType{Float32, Int32}

// IsSupportedDType returns whether dtype has kernel support.
func IsSupportedDType(dtype DType) bool {
	switch dtype {
	case Float32, Int32:
		return true
	default:
		return false
	}
}

// CheckDType validates dtype against the closed set: it returns nil for supported
// dtypes, ErrUnsupportedDType for Int16 and Uint8, and ErrInvalidDType for any other
// value.
func CheckDType(dtype DType) error {
	switch dtype {
	case Float32, Int32:
		return nil
	case Int16, Uint8:
		return errors.Wrapf(ErrUnsupportedDType, "dtype %s", dtype)
	default:
		return errors.Wrapf(ErrInvalidDType, "dtype %s", dtype)
	}
}
