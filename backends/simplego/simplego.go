// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package simplego implements a simple, portable backend written in pure Go.
//
// It is not the fastest backend, but it runs anywhere Go runs, with no external
// dependencies. It supports the Float32 and Int32 dtypes; kernels called with any
// other dtype return an error wrapping backends.ErrNotImplemented.
//
// To use it, import it as a side effect and let the engine pick it up from the
// registry:
//
//	import _ "github.com/gomlx/tensorexec/backends/simplego"
//
// The backend parallelizes large kernels over a worker pool. The configuration
// string, if given, sets the maximum parallelism: "go:0" disables parallelism
// (everything runs inline), "go:4" caps it at 4 workers, and an empty
// configuration defaults to the number of CPU cores.
package simplego

import (
	"strconv"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/tensorexec/backends"
	"github.com/gomlx/tensorexec/internal/workerspool"
)

// BackendName to be used in TENSOREXEC_BACKEND to specify this backend.
const BackendName = "go"

// Registers the backend during initialization.
func init() {
	backends.Register(BackendName, New)
}

// Backend implements backends.Backend using pure Go kernels.
type Backend struct {
	workers *workerspool.Pool
}

// Compile-time check.
var _ backends.Backend = &Backend{}

// New constructs a SimpleGo backend.
//
// config, if not empty, must be an integer setting the maximum parallelism, see
// the package documentation. It panics on a malformed configuration.
func New(config string) backends.Backend {
	backend := &Backend{
		workers: workerspool.New(),
	}
	if config != "" {
		maxParallelism, err := strconv.Atoi(config)
		if err != nil {
			exceptions.Panicf("backend %q: invalid configuration %q, expected an integer maximum parallelism: %v",
				BackendName, config, err)
		}
		backend.workers.SetMaxParallelism(maxParallelism)
	}
	return backend
}

// Name returns the short name of the backend.
func (b *Backend) Name() string {
	return BackendName
}

// Description of the backend.
func (b *Backend) Description() string {
	return "SimpleGo: a simple, portable, but slow Go backend"
}

// Finalize releases the resources held by the backend. There is nothing to release
// for SimpleGo, so it is a no-op.
func (b *Backend) Finalize() {}
