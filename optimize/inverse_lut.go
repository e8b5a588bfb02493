/*
DESCRIPTION
  inverse_lut.go implements spec §4.E step 6: when an inverse Lut1D or
  Lut3D must be evaluated on CPU, build a fast forward LUT that
  approximates it, rather than solving the inverse kernel analytically
  at apply time.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package optimize

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/opvec"
)

// approximateInverseLuts walks v and replaces each Inverse-direction
// Lut1D/Lut3D with a Forward-direction approximation of its inverse,
// leaving everything else untouched.
func approximateInverseLuts(v opvec.Vector) opvec.Vector {
	out := make(opvec.Vector, len(v))
	for i, op := range v {
		switch d := op.Data.(type) {
		case *opdata.Lut1D:
			if op.Dir == opdata.Inverse {
				fast := invertLut1D(d)
				out[i] = opvec.Op{Data: fast, Dir: fast.Direction()}
				continue
			}
		case *opdata.Lut3D:
			if op.Dir == opdata.Inverse {
				fast := invertLut3D(d)
				out[i] = opvec.Op{Data: fast, Dir: fast.Direction()}
				continue
			}
		}
		out[i] = op
	}
	return out
}

// invertLut1D inverts each monotonic run of d's per-channel samples and
// flattens reversals (non-monotonic spans collapse to their first
// value, so the resulting inverse stays single-valued). The domain is
// widened to half-float if any source sample falls outside [0,1] or the
// file-output-bitdepth hint is f16 or wider (spec §4.E step 6).
func invertLut1D(d *opdata.Lut1D) *opdata.Lut1D {
	props := d.ComponentProperties()
	useHalf := d.Bits == opdata.BitDepth16f || d.Bits == opdata.BitDepth32f
	for _, p := range props {
		if p.MinIn < 0 || p.MaxIn > 1 || p.HasNegative {
			useHalf = true
		}
	}

	gridSize := len(d.Samples)
	if useHalf {
		gridSize = 1 << 16
	}
	grid := lut1DGrid(gridSize, useHalf)
	outSamples := make([][]float32, gridSize)
	for c := 0; c < d.Channels; c++ {
		xs, ys := monotonicRun(d, c)
		for i := 0; i < gridSize; i++ {
			x := invertMonotonic(xs, ys, float64(grid[i]))
			if outSamples[i] == nil {
				outSamples[i] = make([]float32, d.Channels)
			}
			outSamples[i][c] = float32(x)
		}
	}

	out := opdata.NewLut1D(opdata.Forward, d.Channels, outSamples, d.Interp, d.Hue, useHalf)
	out.Bits = d.Bits
	out.Meta = d.Metadata().Clone()
	return out
}

// monotonicRun scans channel c's samples and returns only the strictly
// non-decreasing prefix run (reversals dropped), as (output, input)
// pairs ready for a reverse lookup.
func monotonicRun(d *opdata.Lut1D, c int) (xs, ys []float64) {
	n := len(d.Samples)
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	var prev float64
	first := true
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		y := float64(d.Samples[i][c])
		if !first && y < prev {
			continue // flatten this reversal: keep the running monotonic run only
		}
		xs = append(xs, x)
		ys = append(ys, y)
		prev = y
		first = false
	}
	return xs, ys
}

// invertMonotonic finds x such that f(x) ~= target given f sampled at
// (xs[i], ys[i]) with ys non-decreasing, via binary search plus linear
// interpolation within the bracketing segment.
func invertMonotonic(xs, ys []float64, target float64) float64 {
	n := len(ys)
	if n == 0 {
		return 0
	}
	if target <= ys[0] {
		return xs[0]
	}
	if target >= ys[n-1] {
		return xs[n-1]
	}
	i := sort.Search(n, func(i int) bool { return ys[i] >= target })
	if i == 0 {
		return xs[0]
	}
	y0, y1 := ys[i-1], ys[i]
	x0, x1 := xs[i-1], xs[i]
	if y1 == y0 {
		return x0
	}
	t := (target - y0) / (y1 - y0)
	return x0 + t*(x1-x0)
}

// invertLut3D renders an identity cube of edge length >= d's edge
// through d's inverse transform and fits a new forward Lut3D from the
// result (spec §4.E step 6).
func invertLut3D(d *opdata.Lut3D) *opdata.Lut3D {
	edge := d.Edge
	if edge < 2 {
		edge = 2
	}
	coords := make([]float64, edge)
	floats.Span(coords, 0, 1)

	samples := make([]float32, edge*edge*edge*3)
	idx := 0
	for bIdx := 0; bIdx < edge; bIdx++ {
		for gIdx := 0; gIdx < edge; gIdx++ {
			for rIdx := 0; rIdx < edge; rIdx++ {
				p := [4]float32{float32(coords[rIdx]), float32(coords[gIdx]), float32(coords[bIdx]), 1}
				d.Apply(&p) // d is still Inverse-direction; its own Apply evaluates the inverse kernel directly on the identity grid
				samples[idx*3], samples[idx*3+1], samples[idx*3+2] = p[0], p[1], p[2]
				idx++
			}
		}
	}

	out := opdata.NewLut3D(opdata.Forward, edge, samples, d.Interp)
	out.Bits = d.Bits
	out.Meta = d.Metadata().Clone()
	return out
}
