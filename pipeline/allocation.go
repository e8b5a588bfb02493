/*
DESCRIPTION
  allocation.go implements AllocationTransform (spec §4.D): fitting a
  coding range into [0,1], either linearly (uniform) or through a log2
  encoding with an optional linear intercept (lg2).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"math"

	"github.com/ausocean/colorcore/colorerr"
	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/opvec"
)

func buildAllocationTransform(r AllocationTransform) (opvec.Vector, error) {
	if len(r.Vars) < 2 {
		return nil, colorerr.New("pipeline: allocation transform needs at least [min, max], got %d values", len(r.Vars))
	}
	switch r.Kind {
	case AllocationUniform:
		return buildUniformAllocation(r.Vars[0], r.Vars[1]), nil
	case AllocationLg2:
		intercept := 0.0
		if len(r.Vars) > 2 {
			intercept = r.Vars[2]
		}
		return buildLg2Allocation(r.Vars[0], r.Vars[1], intercept)
	default:
		return nil, colorerr.New("pipeline: unknown allocation kind %d", r.Kind)
	}
}

func buildUniformAllocation(min, max float64) opvec.Vector {
	span := max - min
	if span == 0 {
		span = 1
	}
	scale := 1.0 / span
	offset := -min * scale

	m := opdata.NewMatrix(opdata.Forward,
		[16]float64{
			scale, 0, 0, 0,
			0, scale, 0, 0,
			0, 0, scale, 0,
			0, 0, 0, 1,
		},
		[4]float64{offset, offset, offset, 0})
	if m.IsIdentity() {
		return opvec.Vector{opvec.New(opdata.NewNoOp(opdata.Forward, "AllocationTransform"))}
	}
	return opvec.Vector{opvec.New(m)}
}

// buildLg2Allocation fits [min,max] into [0,1] through log2(x+intercept):
// a Log op converts the linear input to its log2 encoding, then a Matrix
// rescales the resulting [log2(min+intercept), log2(max+intercept)] span
// into [0,1], mirroring the source's lg2 allocation formula.
func buildLg2Allocation(min, max, intercept float64) (opvec.Vector, error) {
	if min+intercept <= 0 || max+intercept <= 0 {
		return nil, colorerr.New("pipeline: lg2 allocation requires min/max + intercept > 0, got min=%v max=%v intercept=%v", min, max, intercept)
	}
	logMin := math.Log2(min + intercept)
	logMax := math.Log2(max + intercept)

	params := opdata.LogParams{Base: 2, LinSlope: 1, LinOffset: intercept, LogSlope: 1, LogOffset: 0}
	log := opdata.NewLog(opdata.Forward, opdata.LogStyleLinToLog, [3]opdata.LogParams{params, params, params})

	span := logMax - logMin
	if span == 0 {
		span = 1
	}
	scale := 1.0 / span
	offset := -logMin * scale
	m := opdata.NewMatrix(opdata.Forward,
		[16]float64{
			scale, 0, 0, 0,
			0, scale, 0, 0,
			0, 0, scale, 0,
			0, 0, 0, 1,
		},
		[4]float64{offset, offset, offset, 0})

	v := opvec.Vector{opvec.New(log)}
	if !m.IsIdentity() {
		v = append(v, opvec.New(m))
	}
	return v, nil
}
