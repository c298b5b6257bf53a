// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package exec

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/shapeinference"
	"github.com/gomlx/tensorexec/types/shapes"
	"github.com/gomlx/tensorexec/types/tensors"
	"github.com/pkg/errors"
)

// binaryOp runs the shared flow of every element-wise two-operand operation:
// validate the operands, infer the output shape with infer, allocate the pooled
// output and run the kernel. Zero-sized outputs skip the kernel, and a kernel
// failure unregisters the output again, leaving the pool untouched.
func (c *Context) binaryOp(opName string, lhs, rhs *tensors.Tensor,
	infer func(lhs, rhs shapes.Shape) (shapes.Shape, error),
	kernel func(lhs, rhs, output *tensors.Tensor) error) (*tensors.Tensor, error) {
	if err := c.checkOperands(lhs, rhs); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := infer(lhs.Shape(), rhs.Shape())
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := kernel(lhs, rhs, output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}

// checkBooleans verifies every operand carries integer-encoded booleans (Int32).
func checkBooleans(opName string, operands ...*tensors.Tensor) error {
	for _, t := range operands {
		if t.DType() != dtypes.Int32 {
			return errors.Wrapf(shapes.ErrUnsupportedDType,
				"%s requires integer-encoded booleans (Int32), got %s", opName, t.Shape())
		}
	}
	return nil
}

// Add returns the element-wise sum lhs+rhs, with broadcasting.
func (c *Context) Add(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("Add", lhs, rhs, shapeinference.BinaryOp, c.backend.Add)
}

// Sub returns the element-wise difference lhs-rhs, with broadcasting.
func (c *Context) Sub(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("Sub", lhs, rhs, shapeinference.BinaryOp, c.backend.Sub)
}

// Mul returns the element-wise product lhs*rhs, with broadcasting.
func (c *Context) Mul(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("Mul", lhs, rhs, shapeinference.BinaryOp, c.backend.Mul)
}

// Div returns the element-wise quotient lhs/rhs, with broadcasting. Integer
// division truncates toward zero, and integer division by zero panics, as it does
// in Go.
func (c *Context) Div(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("Div", lhs, rhs, shapeinference.BinaryOp, c.backend.Div)
}

// Min returns the element-wise minimum of lhs and rhs, with broadcasting.
func (c *Context) Min(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("Min", lhs, rhs, shapeinference.BinaryOp, c.backend.Min)
}

// Max returns the element-wise maximum of lhs and rhs, with broadcasting.
func (c *Context) Max(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("Max", lhs, rhs, shapeinference.BinaryOp, c.backend.Max)
}

// Equal returns the element-wise comparison lhs == rhs as Int32, 1 for true and 0
// for false, with broadcasting.
func (c *Context) Equal(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("Equal", lhs, rhs, shapeinference.ComparisonOp, c.backend.Equal)
}

// NotEqual returns the element-wise comparison lhs != rhs as Int32.
func (c *Context) NotEqual(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("NotEqual", lhs, rhs, shapeinference.ComparisonOp, c.backend.NotEqual)
}

// GreaterThan returns the element-wise comparison lhs > rhs as Int32.
func (c *Context) GreaterThan(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("GreaterThan", lhs, rhs, shapeinference.ComparisonOp, c.backend.GreaterThan)
}

// GreaterOrEqual returns the element-wise comparison lhs >= rhs as Int32.
func (c *Context) GreaterOrEqual(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("GreaterOrEqual", lhs, rhs, shapeinference.ComparisonOp, c.backend.GreaterOrEqual)
}

// LessThan returns the element-wise comparison lhs < rhs as Int32.
func (c *Context) LessThan(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("LessThan", lhs, rhs, shapeinference.ComparisonOp, c.backend.LessThan)
}

// LessOrEqual returns the element-wise comparison lhs <= rhs as Int32.
func (c *Context) LessOrEqual(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.binaryOp("LessOrEqual", lhs, rhs, shapeinference.ComparisonOp, c.backend.LessOrEqual)
}

// logicalOp is binaryOp restricted to integer-encoded boolean operands.
func (c *Context) logicalOp(opName string, lhs, rhs *tensors.Tensor,
	kernel func(lhs, rhs, output *tensors.Tensor) error) (*tensors.Tensor, error) {
	if err := c.checkOperands(lhs, rhs); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if err := checkBooleans(opName, lhs, rhs); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return c.binaryOp(opName, lhs, rhs, shapeinference.BinaryOp, kernel)
}

// LogicalAnd returns the element-wise conjunction of two integer-encoded boolean
// tensors: the output is 1 where both operands are non-zero, else 0.
func (c *Context) LogicalAnd(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.logicalOp("LogicalAnd", lhs, rhs, c.backend.LogicalAnd)
}

// LogicalOr returns the element-wise disjunction of two integer-encoded boolean
// tensors.
func (c *Context) LogicalOr(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.logicalOp("LogicalOr", lhs, rhs, c.backend.LogicalOr)
}

// LogicalXor returns the element-wise exclusive-or of two integer-encoded boolean
// tensors.
func (c *Context) LogicalXor(lhs, rhs *tensors.Tensor) (*tensors.Tensor, error) {
	return c.logicalOp("LogicalXor", lhs, rhs, c.backend.LogicalXor)
}

// Where selects element-wise between onTrue and onFalse: where cond is non-zero the
// output takes onTrue, elsewhere onFalse. All three operands broadcast together;
// cond must be an integer-encoded boolean (Int32) tensor and the branches must share
// a dtype, which the output follows.
func (c *Context) Where(cond, onTrue, onFalse *tensors.Tensor) (*tensors.Tensor, error) {
	const opName = "Where"
	if err := c.checkOperands(cond, onTrue, onFalse); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	if err := checkBooleans("Where condition", cond); err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	shape, err := shapeinference.WhereOp(cond.Shape(), onTrue.Shape(), onFalse.Shape())
	if err != nil {
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	output := c.newOutput(shape)
	if shape.IsZeroSized() {
		return output, nil
	}
	if err := c.backend.Where(cond, onTrue, onFalse, output); err != nil {
		c.discardOutputs(output)
		return nil, errors.WithMessagef(err, "in Context.%s()", opName)
	}
	return output, nil
}
