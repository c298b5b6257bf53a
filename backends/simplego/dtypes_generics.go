// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/backends"
	"github.com/pkg/errors"
)

// SupportedTypesConstraints lists the Go types this backend instantiates its generic
// kernels for. It matches the supported dtypes, Float32 and Int32.
type SupportedTypesConstraints interface {
	float32 | int32
}

// errUnsupportedDType is the error a kernel returns when dispatched with a dtype it
// has no instantiation for.
func errUnsupportedDType(opName string, dtype dtypes.DType) error {
	return errors.Wrapf(backends.ErrNotImplemented, "%s: dtype %s is not supported by backend %q", opName, dtype, BackendName)
}
