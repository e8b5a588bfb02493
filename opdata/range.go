/*
DESCRIPTION
  range.go implements the Range OpData variant: a clamp/affine from a
  min-in/max-in domain to a min-out/max-out range, with any bound
  optionally absent (half-open).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package opdata

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math"
)

// Bound is an optional f64 bound; Set is false for an absent (half-open)
// bound.
type Bound struct {
	Value float64
	Set   bool
}

func SetBound(v float64) Bound { return Bound{Value: v, Set: true} }

var NoBound = Bound{}

// Range is a clamp/affine op: out = scale*clamp(in, MinIn, MaxIn) + offset.
// Scale and offset are derived from the four bounds; a "scale only"
// range has all four bounds absent, distinguishing it from "clamp and
// scale" (spec §3).
type Range struct {
	dir              Direction
	MinIn, MaxIn     Bound
	MinOut, MaxOut   Bound
	Bits             BitDepth
	Meta             *FormatMetadata
}

func NewRange(dir Direction, minIn, maxIn, minOut, maxOut Bound) *Range {
	return &Range{dir: dir, MinIn: minIn, MaxIn: maxIn, MinOut: minOut, MaxOut: maxOut, Meta: emptyMetadata("Range")}
}

func (r *Range) Direction() Direction { return r.dir }

func (r *Range) WithDirection(d Direction) OpData {
	if d == r.dir {
		return r.Clone()
	}
	// Analytic inverse: swap domain and range (spec §4.E step 4).
	c := &Range{dir: d, MinIn: r.MinOut, MaxIn: r.MaxOut, MinOut: r.MinIn, MaxOut: r.MaxIn, Bits: r.Bits, Meta: r.Meta.Clone()}
	return c
}

func (r *Range) Clone() OpData {
	c := *r
	c.Meta = r.Meta.Clone()
	return &c
}

func (r *Range) Validate() error {
	if r.MinIn.Set && r.MaxIn.Set && r.MinIn.Value > r.MaxIn.Value {
		return fmt.Errorf("range: MinIn > MaxIn")
	}
	if r.MinOut.Set && r.MaxOut.Set && r.MinOut.Value > r.MaxOut.Value {
		return fmt.Errorf("range: MinOut > MaxOut")
	}
	return nil
}

// scaleOffset derives the affine transform implied by the bounds. If
// either pair of bounds is incomplete, scale=1, offset=0 (clamp-only, or
// no-op if no bounds are set at all).
func (r *Range) scaleOffset() (scale, offset float64) {
	if !(r.MinIn.Set && r.MaxIn.Set && r.MinOut.Set && r.MaxOut.Set) {
		return 1, 0
	}
	inSpan := r.MaxIn.Value - r.MinIn.Value
	if inSpan == 0 {
		return 1, 0
	}
	scale = (r.MaxOut.Value - r.MinOut.Value) / inSpan
	offset = r.MinOut.Value - scale*r.MinIn.Value
	return scale, offset
}

func (r *Range) IsIdentity() bool {
	scale, offset := r.scaleOffset()
	if math.Abs(scale-1) > identityTolerance || math.Abs(offset) > identityTolerance {
		return false
	}
	return !r.MinIn.Set && !r.MaxIn.Set
}

func (r *Range) IsNoOp() bool                { return r.IsIdentity() }
func (r *Range) HasChannelCrosstalk() bool   { return false }
func (r *Range) Metadata() *FormatMetadata   { return r.Meta }
func (r *Range) FileOutputBitDepth() BitDepth { return r.Bits }
func (r *Range) Kind() string                { return "Range" }

func (r *Range) CacheID() string {
	h := sha1.New()
	h.Write([]byte("Range"))
	for _, b := range []Bound{r.MinIn, r.MaxIn, r.MinOut, r.MaxOut} {
		binary.Write(h, binary.LittleEndian, b.Set)
		binary.Write(h, binary.LittleEndian, b.Value)
	}
	binary.Write(h, binary.LittleEndian, int32(r.dir))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Apply clamps and scales a single pixel's RGB channels (alpha unchanged).
func (r *Range) Apply(p *[4]float32) {
	scale, offset := r.scaleOffset()
	for i := 0; i < 3; i++ {
		v := float64(p[i])
		if r.MinIn.Set && v < r.MinIn.Value {
			v = r.MinIn.Value
		}
		if r.MaxIn.Set && v > r.MaxIn.Value {
			v = r.MaxIn.Value
		}
		p[i] = float32(scale*v + offset)
	}
}

// CombineRange implements Range · Range -> Range (spec §4.E step 5): the
// combined clamp is the intersection of domains (expressed in a's input
// space) and the combined affine is the composition of both scale/offsets.
func CombineRange(a, b *Range) *Range {
	aScale, aOffset := a.scaleOffset()
	bScale, bOffset := b.scaleOffset()
	out := &Range{dir: a.dir, MinIn: a.MinIn, MaxIn: a.MaxIn, Bits: a.Bits, Meta: Combine(a.Meta, b.Meta)}
	// a's output range, expressed as b's input domain, intersected with
	// b's own input domain.
	if a.MinOut.Set {
		out.MinIn = tighterLowerAsInput(a, b)
	}
	combinedScale := aScale * bScale
	combinedOffset := bScale*aOffset + bOffset
	if out.MinOut.Set || out.MaxOut.Set || (a.MinOut.Set || a.MaxOut.Set || b.MinOut.Set || b.MaxOut.Set) {
		out.MinOut = SetBound(combinedScale*minInVal(a) + combinedOffset)
		out.MaxOut = SetBound(combinedScale*maxInVal(a) + combinedOffset)
	}
	return out
}

func minInVal(a *Range) float64 {
	if a.MinIn.Set {
		return a.MinIn.Value
	}
	return 0
}
func maxInVal(a *Range) float64 {
	if a.MaxIn.Set {
		return a.MaxIn.Value
	}
	return 1
}

func tighterLowerAsInput(a, b *Range) Bound {
	// Best-effort: project b's MinIn back through a's inverse affine and
	// keep the tighter (larger) of the two lower bounds, in a's input
	// space.
	aScale, aOffset := a.scaleOffset()
	if aScale == 0 {
		return a.MinIn
	}
	if !b.MinIn.Set {
		return a.MinIn
	}
	projected := (b.MinIn.Value - aOffset) / aScale
	if a.MinIn.Set && a.MinIn.Value > projected {
		return a.MinIn
	}
	return SetBound(projected)
}
