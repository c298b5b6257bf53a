// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package backends defines the interface an execution backend needs to implement to
// be used by the engine (package exec), and the registry where backends announce
// themselves.
//
// A backend provides the numeric kernels: each kernel receives fully-allocated input
// tensors, a pre-allocated and pre-shaped output tensor, and the operation
// parameters. Shape inference already happened by the time a kernel runs, and
// zero-sized outputs are resolved by the engine without calling the backend at all,
// so kernels may assume every tensor they see has at least one element.
//
// A backend that doesn't implement every kernel can embed
// backends/notimplemented.Backend and return backends.ErrNotImplemented for the
// missing ones; computations that don't require those operations still work.
package backends

import (
	"os"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Backend is the API an execution backend must implement.
//
// Backends are single-device and synchronous: a kernel call returns only after the
// output tensor is fully written. The engine serializes calls, so kernels don't need
// to be safe for concurrent invocation, though they are free to parallelize
// internally.
type Backend interface {
	// Name returns the short name of the backend. E.g.: "go" for the portable Go backend.
	Name() string

	// Description is a longer description of the Backend that can be used to pretty-print.
	Description() string

	// StandardKernels are the numeric entry points, one per operation.
	StandardKernels

	// Finalize releases all the associated resources immediately, and makes the backend invalid.
	Finalize()
}

// ErrNotImplemented is the base error returned by backends for kernels they don't
// provide.
//
// It doesn't contain a stack, attach one with errors.Wrapf(ErrNotImplemented, "...")
// when returning it.
var ErrNotImplemented = errors.New("kernel not implemented by this backend")

// Constructor takes a config string (optionally empty) and returns a Backend.
type Constructor func(config string) Backend

var (
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register backend with the given name, and a default constructor that takes as input a configuration string that is
// passed along to the backend constructor.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// DefaultConfig is the backend configuration to use if none is given.
//
// See NewWithConfig for the format of the configuration string.
var DefaultConfig string

// TENSOREXEC_BACKEND is the environment variable with the default backend configuration to use.
//
// The format of config is "<backend_name>:<backend_configuration>".
// The "<backend_name>" is the name of a registered backend (e.g.: "go") and
// "<backend_configuration>" is backend specific.
const TENSOREXEC_BACKEND = "TENSOREXEC_BACKEND"

// New returns a new default Backend.
//
// The default is:
//
// 1. The environment TENSOREXEC_BACKEND is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered backend is used with an empty configuration.
//
// It panics if no backend was registered.
func New() Backend {
	config, found := os.LookupEnv(TENSOREXEC_BACKEND)
	if found {
		return NewWithConfig(config)
	}
	if DefaultConfig != "" {
		return NewWithConfig(DefaultConfig)
	}
	return NewWithConfig("")
}

// NewWithConfig returns a new Backend from a configuration string.
//
// The format of config is "<backend_name>:<backend_configuration>".
// The "<backend_name>" is the name of a registered backend (e.g.: "go") and
// "<backend_configuration>" is backend specific.
//
// It panics if no backend was registered or the named one is unknown.
func NewWithConfig(config string) Backend {
	if len(registeredConstructors) == 0 {
		exceptions.Panicf(`no registered backends -- maybe import the default portable one with import _ "github.com/gomlx/tensorexec/backends/simplego"?`)
	}
	backendName := firstRegistered
	backendConfig := ""
	if idx := strings.Index(config, ":"); idx != -1 {
		backendName = config[:idx]
		backendConfig = config[idx+1:]
	} else if config != "" {
		backendName = config
	}
	constructor, found := registeredConstructors[backendName]
	if !found {
		exceptions.Panicf("can't find backend %q for configuration %q given", backendName, config)
	}
	return constructor(backendConfig)
}
