// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package exec provides eager tensor execution on top of a pluggable backend: each
// operation validates its operands, infers the output shape, allocates the output
// and immediately runs the matching backend kernel.
//
// The central type is the Context. Every tensor an operation creates is owned by the
// context that created it, held in its pool until the caller either takes it over
// with Take or the context releases it with Flush:
//
//	ctx := exec.NewWithConfig("go")
//	defer ctx.Finalize()
//
//	x, _ := exec.FromFlatData(ctx, []float32{1, 2, 3, 4}, 2, 2)
//	y, _ := ctx.MulScalar(x, 10)
//	sums, _ := ctx.ReduceSum(y, []int{1}, false)
//
//	ctx.Take(sums)  // sums now outlives the context pool.
//	ctx.Flush()     // x and y are released; sums is not.
//
// Operations never mutate their operands, inputs don't have to come from the pool,
// and a failed operation leaves the pool exactly as it was. Outputs with zero-sized
// shapes are resolved by the engine alone: the backend is never called for them.
//
// A Context is not safe for concurrent use.
package exec

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/tensorexec/backends"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrNilTensor is returned by operations called with a nil tensor operand.
var ErrNilTensor = errors.New("nil tensor given as operand")

// Context executes operations eagerly on a fixed backend and pools the tensors they
// allocate.
//
// The zero value is not usable: create contexts with New, NewWithConfig or
// NewWithBackend.
type Context struct {
	backend   backends.Backend
	id        string
	pool      map[*tensors.Tensor]struct{}
	finalized bool
}

// New returns a Context on the default backend, selected as in backends.New. It
// panics if no backend is registered.
func New() *Context {
	return NewWithBackend(backends.New())
}

// NewWithConfig returns a Context on the backend selected by the configuration
// string, in the format accepted by backends.NewWithConfig
// ("<backend_name>:<backend_configuration>"). It panics if the backend is unknown.
func NewWithConfig(config string) *Context {
	return NewWithBackend(backends.NewWithConfig(config))
}

// NewWithBackend returns a Context on the given backend. The context assumes
// ownership: Context.Finalize finalizes the backend as well.
func NewWithBackend(backend backends.Backend) *Context {
	if backend == nil {
		exceptions.Panicf("exec.NewWithBackend: nil backend given")
	}
	return &Context{
		backend: backend,
		id:      uuid.NewString(),
		pool:    make(map[*tensors.Tensor]struct{}),
	}
}

// Backend this context executes on.
func (c *Context) Backend() backends.Backend { return c.backend }

// NumPooled returns the number of tensors currently owned by the context pool.
func (c *Context) NumPooled() int { return len(c.pool) }

// IsFinalized returns whether Finalize was called: a finalized context rejects all
// operations.
func (c *Context) IsFinalized() bool { return c.finalized }

// String implements fmt.Stringer.
func (c *Context) String() string {
	return fmt.Sprintf("exec.Context(backend=%q, pooled=%d)", c.backend.Name(), len(c.pool))
}

func (c *Context) checkValid() error {
	if c.finalized {
		return errors.Errorf("exec.Context(%s) is finalized and cannot be used", c.id)
	}
	return nil
}

// checkOperands validates the context and every operand: non-nil, not finalized and
// of a supported dtype.
func (c *Context) checkOperands(operands ...*tensors.Tensor) error {
	if err := c.checkValid(); err != nil {
		return err
	}
	for _, t := range operands {
		if t == nil {
			return errors.WithStack(ErrNilTensor)
		}
		if err := t.CheckValid(); err != nil {
			return err
		}
		if err := shapes.CheckDType(t.DType()); err != nil {
			return err
		}
	}
	return nil
}

// newOutput allocates an uninitialized tensor for the given shape and registers it
// in the pool. Only called after shape inference succeeded.
func (c *Context) newOutput(shape shapes.Shape) *tensors.Tensor {
	t := tensors.Uninitialized(shape)
	c.pool[t] = struct{}{}
	return t
}

// newZerosOutput is newOutput with zero-initialized storage, for results the engine
// defines without running a kernel.
func (c *Context) newZerosOutput(shape shapes.Shape) *tensors.Tensor {
	t := tensors.FromShape(shape)
	c.pool[t] = struct{}{}
	return t
}

// discardOutputs rolls back newOutput registrations after a kernel failure, so a
// failed operation leaves the pool exactly as it was.
func (c *Context) discardOutputs(outputs ...*tensors.Tensor) {
	for _, t := range outputs {
		delete(c.pool, t)
		t.Finalize()
	}
}

// Take transfers ownership of t from the context pool to the caller: the context
// will no longer release it on Flush or Finalize.
//
// It returns false, with no error, if t is not currently pooled here -- already taken,
// already flushed, or created outside this context. A warning is logged in that
// case, since it usually hints at a double Take.
func (c *Context) Take(t *tensors.Tensor) (bool, error) {
	if err := c.checkValid(); err != nil {
		return false, err
	}
	if t == nil {
		return false, errors.WithStack(ErrNilTensor)
	}
	if _, found := c.pool[t]; !found {
		klog.Warningf("exec.Context(%s).Take: tensor (shape=%s) is not pooled here -- already taken, flushed, or created outside this context",
			c.id, t.Shape())
		return false, nil
	}
	delete(c.pool, t)
	return true, nil
}

// Flush finalizes every tensor still owned by the pool, returning their storage for
// reuse. Tensors previously taken with Take are unaffected. Flushing an empty pool
// is a no-op, so Flush is idempotent.
func (c *Context) Flush() {
	count := len(c.pool)
	if count == 0 {
		return
	}
	var bytes uintptr
	for t := range c.pool {
		bytes += t.Memory()
		t.Finalize()
	}
	clear(c.pool)
	if klog.V(1).Enabled() {
		klog.Infof("exec.Context(%s): flushed %d tensors (%s)", c.id, count, humanize.Bytes(uint64(bytes)))
	}
}

// Finalize flushes the pool and finalizes the backend. The context cannot be used
// afterwards. Finalize is idempotent.
func (c *Context) Finalize() {
	if c.finalized {
		return
	}
	c.Flush()
	c.backend.Finalize()
	c.finalized = true
}

// resolveAxis converts a negative axis to its non-negative form, counting from the
// end. The axis must already have been validated by shape inference.
func resolveAxis(axis, rank int) int {
	if axis < 0 {
		axis += rank
	}
	return axis
}
