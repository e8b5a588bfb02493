/*
DESCRIPTION
  optimize implements the finalize/optimize pipeline that turns a raw,
  builder-assembled op vector into the sequence a Processor applies:
  validation, per-op simplification, NoOp removal, direction folding,
  adjacent-op combining, inverse-LUT fast-forward approximation, and
  bit-depth adaptation (spec §4.E). Each pass is idempotent; Run applies
  them in order once.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package optimize

import (
	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/opvec"
)

// Flags is a bitset selecting which optimization passes Run performs.
type Flags uint32

const None Flags = 0

const (
	IdentityGaps Flags = 1 << iota
	PairIdentity
	ComposeMatrix
	ComposeLut
	LutInvFast
)

// All enables every pass.
const All = IdentityGaps | PairIdentity | ComposeMatrix | ComposeLut | LutInvFast

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// ComposeStrategy selects how Lut1D.Lut1D composition resamples the
// result (spec §4.E step 5).
type ComposeStrategy int

const (
	ComposeResampleNo  ComposeStrategy = iota // preserve the first LUT's grid length
	ComposeResampleBig                        // resample to 65536 entries
)

// Run applies the seven-step finalize sequence to v and returns the
// optimized result. v itself is not mutated.
func Run(v opvec.Vector, flags Flags, strategy ComposeStrategy) (opvec.Vector, error) {
	out := v.Clone()

	if err := validate(out); err != nil {
		return nil, err
	}
	simplify(out)
	if flags.has(IdentityGaps) {
		out = removeNoOps(out)
	}
	if flags.has(PairIdentity) {
		out = foldDirections(out)
	}
	if flags.has(ComposeMatrix) || flags.has(ComposeLut) {
		out = combineAdjacent(out, flags, strategy)
	}
	if flags.has(LutInvFast) {
		out = approximateInverseLuts(out)
	}
	// Bit-depth adaptation (step 7): the interior pipeline is always f32;
	// FileOutputBitDepth on each op stays a metadata hint only, consumed
	// by writers, not by Apply. No transformation of op data is needed
	// here.
	return out, nil
}

// validate runs step 1: reject impossible op parameters.
func validate(v opvec.Vector) error {
	return v.Validate()
}

// simplify runs step 2: per-op redundant-metadata simplification.
func simplify(v opvec.Vector) {
	for _, op := range v {
		if s, ok := op.Data.(interface{ Simplify() }); ok {
			s.Simplify()
		}
	}
}

// removeNoOps runs step 3: drop ops whose IsNoOp() is true, except
// across a hue-adjust boundary (removing a NoOp placeholder that a
// hue-adjusted Lut1D relies on as a crosstalk marker would let a
// neighboring pass treat the two sides as independently reorderable).
func removeNoOps(v opvec.Vector) opvec.Vector {
	out := make(opvec.Vector, 0, len(v))
	for i, op := range v {
		if !op.IsNoOp() {
			out = append(out, op)
			continue
		}
		if crossesHueBoundary(v, i) {
			out = append(out, op)
		}
	}
	return out
}

func crossesHueBoundary(v opvec.Vector, i int) bool {
	var before, after bool
	if i > 0 {
		before = v[i-1].HasChannelCrosstalk()
	}
	if i < len(v)-1 {
		after = v[i+1].HasChannelCrosstalk()
	}
	return before && after
}

// foldDirections runs step 4: replace Op(inverse) with its analytic
// inverse OpData wherever WithDirection produces an exact one. Matrix,
// Range, Gamma and CDL all implement an exact WithDirection; ops without
// one (Lut1D, Lut3D, Log, FixedFunction-with-no-inverse-table) are left
// as-is and evaluated in their own inverse direction at apply time.
func foldDirections(v opvec.Vector) opvec.Vector {
	out := make(opvec.Vector, len(v))
	for i, op := range v {
		if op.Dir != opdata.Inverse {
			out[i] = op
			continue
		}
		switch op.Data.(type) {
		case *opdata.Matrix, *opdata.Range, *opdata.Gamma, *opdata.CDL:
			// WithDirection(Forward) on an Inverse-tagged op computes the
			// analytic inverse and tags it Forward, so Apply's ordinary
			// (non-direction-branching) kernel already performs what the
			// Inverse tag used to mean.
			folded := op.Data.WithDirection(opdata.Forward)
			out[i] = opvec.Op{Data: folded, Dir: folded.Direction()}
		default:
			out[i] = op
		}
	}
	return out
}

// combineAdjacent runs step 5: fold neighboring ops of the same kind
// into one wherever an exact or approximate combine rule exists.
func combineAdjacent(v opvec.Vector, flags Flags, strategy ComposeStrategy) opvec.Vector {
	out := make(opvec.Vector, 0, len(v))
	for _, op := range v {
		if len(out) == 0 {
			out = append(out, op)
			continue
		}
		prev := out[len(out)-1]
		combined, ok := tryCombine(prev, op, flags, strategy)
		if ok {
			out[len(out)-1] = combined
			continue
		}
		out = append(out, op)
	}
	return out
}

func tryCombine(a, b opvec.Op, flags Flags, strategy ComposeStrategy) (opvec.Op, bool) {
	switch ad := a.Data.(type) {
	case *opdata.Matrix:
		if flags.has(ComposeMatrix) {
			if bd, ok := b.Data.(*opdata.Matrix); ok && a.Dir == opdata.Forward && b.Dir == opdata.Forward {
				m := opdata.MultiplyMatrix(ad, bd)
				return opvec.Op{Data: m, Dir: m.Direction()}, true
			}
		}
	case *opdata.Gamma:
		if bd, ok := b.Data.(*opdata.Gamma); ok {
			if combined, ok := combineGamma(ad, bd); ok {
				return opvec.Op{Data: combined, Dir: combined.Direction()}, true
			}
		}
	case *opdata.Range:
		if bd, ok := b.Data.(*opdata.Range); ok {
			combined := opdata.CombineRange(ad, bd)
			return opvec.Op{Data: combined, Dir: combined.Direction()}, true
		}
	case *opdata.Lut1D:
		if flags.has(ComposeLut) {
			if bd, ok := b.Data.(*opdata.Lut1D); ok && ad.Hue == opdata.HueAdjustNone && bd.Hue == opdata.HueAdjustNone {
				combined := combineLut1D(ad, bd, strategy)
				return opvec.Op{Data: combined, Dir: combined.Direction()}, true
			}
		}
	case *opdata.Lut3D:
		if flags.has(ComposeLut) {
			if bd, ok := b.Data.(*opdata.Lut3D); ok {
				combined := combineLut3D(ad, bd)
				return opvec.Op{Data: combined, Dir: combined.Direction()}, true
			}
		}
	}
	return opvec.Op{}, false
}

// combineGamma folds Gamma·Gamma of the same style: basic styles
// multiply gamma (power composition), moncurve styles do not combine
// because their break-point is not composable in closed form (spec §4.E
// step 5).
func combineGamma(a, b *opdata.Gamma) (*opdata.Gamma, bool) {
	if a.Style != b.Style || a.ActsOnAlpha != b.ActsOnAlpha {
		return nil, false
	}
	if a.Style.IsMoncurve() {
		return nil, false
	}
	n := 3
	if a.ActsOnAlpha {
		n = 4
	}
	out := *a
	for i := 0; i < n; i++ {
		out.Params[i].Gamma = a.Params[i].Gamma * b.Params[i].Gamma
	}
	out.Meta = opdata.Combine(a.Meta, b.Meta)
	return &out, true
}
