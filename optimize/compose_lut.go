/*
DESCRIPTION
  compose_lut.go implements the Lut1D.Lut1D and Lut3D.Lut3D adjacent-
  combining rules of spec §4.E step 5, by resampling the full a-then-b
  pixel transform onto a new grid rather than manipulating sample arrays
  directly (both kernels already implement the correct interpolation and
  hue-adjust behavior through their public Apply methods).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package optimize

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ausocean/colorcore/internal/half"
	"github.com/ausocean/colorcore/opdata"
)

const composeBigSize = 65536

// combineLut1D composes a then b into one Lut1D. Hue-adjusted LUTs are
// never combined naively (spec §4.A: "ops with hue-adjust cannot be
// composed naively with surrounding ops") — callers are expected to have
// excluded that case before calling.
func combineLut1D(a, b *opdata.Lut1D, strategy ComposeStrategy) *opdata.Lut1D {
	if a.Hue != opdata.HueAdjustNone || b.Hue != opdata.HueAdjustNone {
		return a // caller should not have attempted this; be a no-op combine
	}

	gridSize := len(a.Samples)
	halfDomain := a.HalfDomain
	if strategy == ComposeResampleBig {
		gridSize = composeBigSize
		halfDomain = false
	}

	channels := 1
	if a.Channels == 3 || b.Channels == 3 {
		channels = 3
	}

	grid := lut1DGrid(gridSize, halfDomain)
	samples := make([][]float32, gridSize)
	for i, x := range grid {
		p := [4]float32{x, x, x, 1}
		a.Apply(&p)
		b.Apply(&p)
		if channels == 1 {
			samples[i] = []float32{p[0]}
		} else {
			samples[i] = []float32{p[0], p[1], p[2]}
		}
	}

	out := opdata.NewLut1D(a.Direction(), channels, samples, a.Interp, opdata.HueAdjustNone, halfDomain)
	out.Bits = a.Bits
	out.Meta = opdata.Combine(a.Metadata(), b.Metadata())
	return out
}

// lut1DGrid returns the n abscissa values a standard- or half-domain
// Lut1D of length n occupies, using gonum/floats.Span for the uniform
// standard-domain case (spec §4.E step 6's "linspace grid generation").
func lut1DGrid(n int, halfDomain bool) []float32 {
	if halfDomain {
		out := make([]float32, n)
		for i := range out {
			out[i] = half.Bits(i).ToFloat32()
		}
		return out
	}
	xs := make([]float64, n)
	floats.Span(xs, 0, 1)
	out := make([]float32, n)
	for i, x := range xs {
		out[i] = float32(x)
	}
	return out
}

// combineLut3D composes a then b, resampling the whole a-then-b
// transform onto a cube whose edge length is the larger of the two
// source edges (spec §4.E step 5).
func combineLut3D(a, b *opdata.Lut3D) *opdata.Lut3D {
	edge := a.Edge
	if b.Edge > edge {
		edge = b.Edge
	}

	coords := make([]float64, edge)
	floats.Span(coords, 0, 1)

	samples := make([]float32, edge*edge*edge*3)
	idx := 0
	for bIdx := 0; bIdx < edge; bIdx++ {
		for gIdx := 0; gIdx < edge; gIdx++ {
			for rIdx := 0; rIdx < edge; rIdx++ {
				p := [4]float32{float32(coords[rIdx]), float32(coords[gIdx]), float32(coords[bIdx]), 1}
				a.Apply(&p)
				b.Apply(&p)
				samples[idx*3], samples[idx*3+1], samples[idx*3+2] = p[0], p[1], p[2]
				idx++
			}
		}
	}

	out := opdata.NewLut3D(a.Direction(), edge, samples, a.Interp)
	out.Bits = a.Bits
	out.Meta = opdata.Combine(a.Metadata(), b.Metadata())
	return out
}
