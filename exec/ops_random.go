// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/pkg/errors"
)

// randomOp allocates a pooled Float32 tensor of the given dimensions and fills it
// with the kernel. The same seed always produces the same values.
func (c *Context) randomOp(opName string, dimensions []int,
	kernel func(output *tensors.Tensor) error) (*tensors.Tensor, error) {
	if err := c.checkValid(); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := makeShape(dtypes.Float32, dimensions...)
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := kernel(output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// RandomUniform returns a Float32 tensor of the given dimensions filled with
// independent values uniformly distributed in [low, high). The same seed always
// produces the same tensor.
func (c *Context) RandomUniform(low, high float64, seed int64, dimensions ...int) (*tensors.Tensor, error) {
	return c.randomOp("RandomUniform", dimensions, func(output *tensors.Tensor) error {
		return c.backend.RandomUniform(output, low, high, seed)
	})
}

// RandomNormal returns a Float32 tensor of the given dimensions filled with
// independent normally distributed values with the given mean and standard
// deviation. The same seed always produces the same tensor.
func (c *Context) RandomNormal(mean, stddev float64, seed int64, dimensions ...int) (*tensors.Tensor, error) {
	return c.randomOp("RandomNormal", dimensions, func(output *tensors.Tensor) error {
		return c.backend.RandomNormal(output, mean, stddev, seed)
	})
}
