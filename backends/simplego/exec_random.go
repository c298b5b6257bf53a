// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"math"
	"math/rand/v2"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/tensorexec/types/tensors"
)

// pcgStreamConstant is the fixed second seed word of the PCG state, the user seed
// being the first. Chosen once so the same user seed always selects the same stream.
const pcgStreamConstant = 0x9E3779B97F4A7C15

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgStreamConstant))
}

// RandomNormal implements backends.StandardKernels. Only Float32 outputs are
// supported. Generation is sequential so a given seed always yields the same
// tensor.
func (b *Backend) RandomNormal(output *tensors.Tensor, mean, scale float64, seed int64) error {
	if output.DType() != dtypes.Float32 {
		return errUnsupportedDType("RandomNormal", output.DType())
	}
	rng := newRNG(seed)
	outFlat := tensors.MutableFlatData[float32](output)
	for ii := range outFlat {
		outFlat[ii] = float32(rng.NormFloat64()*scale + mean)
	}
	return nil
}

// RandomUniform implements backends.StandardKernels: values in [low, high). Only
// Float32 outputs are supported. Generation is sequential so a given seed always
// yields the same tensor.
func (b *Backend) RandomUniform(output *tensors.Tensor, low, high float64, seed int64) error {
	if output.DType() != dtypes.Float32 {
		return errUnsupportedDType("RandomUniform", output.DType())
	}
	rng := newRNG(seed)
	outFlat := tensors.MutableFlatData[float32](output)
	h := float32(high)
	for ii := range outFlat {
		v := float32(low + rng.Float64()*(high-low))
		if high > low && v >= h {
			// float32 rounding can reach high itself; keep the interval half-open.
			v = math.Nextafter32(h, float32(low))
		}
		outFlat[ii] = v
	}
	return nil
}
