/*
DESCRIPTION
  lut3d.go implements the Lut3D OpData variant: an LxLxLx3 f32 cube,
  red-fastest storage, with trilinear or tetrahedral interpolation.

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

// Lut3D is an LxLxLx3 cube of samples in red-fastest order: index(r,g,b)
// = (b*L*L + g*L + r)*3.
type Lut3D struct {
	dir     Direction
	Edge    int
	Samples []float32 // len Edge^3 * 3, red-fastest
	Interp  Interpolation
	Bits    BitDepth
	Meta    *FormatMetadata
}

func NewLut3D(dir Direction, edge int, samples []float32, interp Interpolation) *Lut3D {
	return &Lut3D{dir: dir, Edge: edge, Samples: samples, Interp: interp, Meta: emptyMetadata("Lut3D")}
}

func (l *Lut3D) Direction() Direction { return l.dir }

func (l *Lut3D) WithDirection(d Direction) OpData {
	c := l.Clone().(*Lut3D)
	c.dir = d
	return c
}

func (l *Lut3D) Clone() OpData {
	c := *l
	c.Meta = l.Meta.Clone()
	c.Samples = append([]float32(nil), l.Samples...)
	return &c
}

func (l *Lut3D) Validate() error {
	if l.Edge < 2 || l.Edge > 129 {
		return fmt.Errorf("lut3d: edge length %d out of range [2,129]", l.Edge)
	}
	want := l.Edge * l.Edge * l.Edge * 3
	if len(l.Samples) != want {
		return fmt.Errorf("lut3d: expected %d samples, got %d", want, len(l.Samples))
	}
	return nil
}

func (l *Lut3D) idx(r, g, b int) int { return (b*l.Edge*l.Edge+g*l.Edge+r)*3 }

const lut3DIdentityTolerance = 1e-5

func (l *Lut3D) IsIdentity() bool {
	L := l.Edge
	for b := 0; b < L; b++ {
		for g := 0; g < L; g++ {
			for r := 0; r < L; r++ {
				i := l.idx(r, g, b)
				want := [3]float32{
					float32(r) / float32(L-1),
					float32(g) / float32(L-1),
					float32(b) / float32(L-1),
				}
				for c := 0; c < 3; c++ {
					if math.Abs(float64(l.Samples[i+c]-want[c])) > lut3DIdentityTolerance {
						return false
					}
				}
			}
		}
	}
	return true
}

func (l *Lut3D) IsNoOp() bool                 { return l.IsIdentity() }
func (l *Lut3D) HasChannelCrosstalk() bool    { return true } // 3D LUTs mix channels by construction
func (l *Lut3D) Metadata() *FormatMetadata    { return l.Meta }
func (l *Lut3D) FileOutputBitDepth() BitDepth { return l.Bits }
func (l *Lut3D) Kind() string                 { return "Lut3D" }

func (l *Lut3D) CacheID() string {
	h := sha1.New()
	h.Write([]byte("Lut3D"))
	binary.Write(h, binary.LittleEndian, int32(l.dir))
	binary.Write(h, binary.LittleEndian, int32(l.Edge))
	binary.Write(h, binary.LittleEndian, int32(l.Interp))
	for _, v := range l.Samples {
		binary.Write(h, binary.LittleEndian, v)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Apply interpolates the cube at the (already [0,1]-clamped-by-an-
// upstream-Range) input RGB; alpha is unchanged. Inputs are clamped to
// [0,1] here regardless, per spec §4.A ("the upstream Range op is
// responsible for any domain mapping").
func (l *Lut3D) Apply(p *[4]float32) {
	r := clamp01(p[0])
	g := clamp01(p[1])
	b := clamp01(p[2])

	concrete := ConcreteLut3D(l.Interp)
	var out [3]float32
	if concrete == InterpTetrahedral {
		out = l.tetrahedral(r, g, b)
	} else {
		out = l.trilinear(r, g, b)
	}
	p[0], p[1], p[2] = out[0], out[1], out[2]
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (l *Lut3D) gridPos(v float32) (lo int, frac float32) {
	L := l.Edge
	pos := float64(v) * float64(L-1)
	lo = int(math.Floor(pos))
	if lo >= L-1 {
		lo = L - 2
	}
	if lo < 0 {
		lo = 0
	}
	frac = float32(pos - float64(lo))
	return
}

func (l *Lut3D) sample(r, g, b int) [3]float32 {
	i := l.idx(r, g, b)
	return [3]float32{l.Samples[i], l.Samples[i+1], l.Samples[i+2]}
}

func (l *Lut3D) trilinear(r, g, b float32) [3]float32 {
	r0, rf := l.gridPos(r)
	g0, gf := l.gridPos(g)
	b0, bf := l.gridPos(b)
	r1, g1, b1 := r0+1, g0+1, b0+1

	lerp := func(a, b [3]float32, t float32) [3]float32 {
		return [3]float32{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t, a[2] + (b[2]-a[2])*t}
	}

	c000 := l.sample(r0, g0, b0)
	c100 := l.sample(r1, g0, b0)
	c010 := l.sample(r0, g1, b0)
	c110 := l.sample(r1, g1, b0)
	c001 := l.sample(r0, g0, b1)
	c101 := l.sample(r1, g0, b1)
	c011 := l.sample(r0, g1, b1)
	c111 := l.sample(r1, g1, b1)

	c00 := lerp(c000, c100, rf)
	c10 := lerp(c010, c110, rf)
	c01 := lerp(c001, c101, rf)
	c11 := lerp(c011, c111, rf)

	c0 := lerp(c00, c10, gf)
	c1 := lerp(c01, c11, gf)

	return lerp(c0, c1, bf)
}

// tetrahedral interpolation splits the unit cube into 6 tetrahedra based
// on the ordering of the fractional coordinates (standard Kasson et al.
// algorithm).
func (l *Lut3D) tetrahedral(r, g, b float32) [3]float32 {
	r0, rf := l.gridPos(r)
	g0, gf := l.gridPos(g)
	b0, bf := l.gridPos(b)
	r1, g1, b1 := r0+1, g0+1, b0+1

	c000 := l.sample(r0, g0, b0)
	c111 := l.sample(r1, g1, b1)

	var c1, c2, c3 [3]float32
	var w1, w2, w3 float32

	switch {
	case rf >= gf && gf >= bf:
		c1, c2, c3 = l.sample(r1, g0, b0), l.sample(r1, g1, b0), c111
		w1, w2, w3 = rf-gf, gf-bf, bf
	case rf >= bf && bf >= gf:
		c1, c2, c3 = l.sample(r1, g0, b0), c111, l.sample(r1, g0, b1)
		w1, w2, w3 = rf-bf, bf-gf, gf
	case bf >= rf && rf >= gf:
		c1, c2, c3 = l.sample(r0, g0, b1), c111, l.sample(r1, g0, b1)
		w1, w2, w3 = bf-rf, rf-gf, gf
	case gf >= rf && rf >= bf:
		c1, c2, c3 = l.sample(r0, g1, b0), l.sample(r1, g1, b0), c111
		w1, w2, w3 = gf-rf, rf-bf, bf
	case gf >= bf && bf >= rf:
		c1, c2, c3 = l.sample(r0, g1, b0), c111, l.sample(r0, g1, b1)
		w1, w2, w3 = gf-bf, bf-rf, rf
	default: // bf >= gf && gf >= rf
		c1, c2, c3 = l.sample(r0, g0, b1), l.sample(r0, g1, b1), c111
		w1, w2, w3 = bf-gf, gf-rf, rf
	}

	w0 := 1 - w1 - w2 - w3
	var out [3]float32
	for i := 0; i < 3; i++ {
		out[i] = w0*c000[i] + w1*c1[i] + w2*c2[i] + w3*c3[i]
	}
	return out
}
