/*
DESCRIPTION
  lut1d.go implements the Lut1D OpData variant: an N x C sample array with
  standard or half-float domain indexing, optional DW3 hue-adjust, and the
  derived component-properties structure used by inverse-LUT approximation.

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

	"github.com/ausocean/colorcore/internal/half"
)

// HueAdjust selects the post-LUT hue-preservation correction.
type HueAdjust int

const (
	HueAdjustNone HueAdjust = iota
	HueAdjustDW3
)

// ComponentProperties records, per channel, the facts the inverse-LUT
// approximation algorithm needs: whether the forward samples are
// monotonic, and over what domain the inverse is well defined. Half-domain
// LUTs track positive and negative effective domains separately because
// the two halves of the half-float range are not contiguous in index
// space.
type ComponentProperties struct {
	Monotonic    bool
	MinIn, MaxIn float64
	// Half-domain only:
	NegMinIn, NegMaxIn float64
	HasNegative        bool
}

// Lut1D is an N x C array of samples, C in {1,3}.
type Lut1D struct {
	dir          Direction
	Channels     int // 1 or 3
	Samples      [][]float32 // len N, each of len Channels
	Interp       Interpolation
	Hue          HueAdjust
	HalfDomain   bool
	OutputRawHalves bool
	Bits         BitDepth
	Meta         *FormatMetadata

	// componentProps is computed lazily for Inverse-direction LUTs by
	// ComponentProperties(); cached once computed.
	componentProps []ComponentProperties
}

// NewLut1D constructs a Lut1D from per-channel sample rows (len == N,
// each of length 1 or 3).
func NewLut1D(dir Direction, channels int, samples [][]float32, interp Interpolation, hue HueAdjust, halfDomain bool) *Lut1D {
	return &Lut1D{dir: dir, Channels: channels, Samples: samples, Interp: interp, Hue: hue, HalfDomain: halfDomain, Meta: emptyMetadata("Lut1D")}
}

func (l *Lut1D) Direction() Direction { return l.dir }

func (l *Lut1D) WithDirection(d Direction) OpData {
	c := l.Clone().(*Lut1D)
	c.dir = d
	return c
}

func (l *Lut1D) Clone() OpData {
	c := *l
	c.Meta = l.Meta.Clone()
	c.Samples = make([][]float32, len(l.Samples))
	for i, row := range l.Samples {
		c.Samples[i] = append([]float32(nil), row...)
	}
	c.componentProps = nil
	return &c
}

func (l *Lut1D) Validate() error {
	n := len(l.Samples)
	if n < 2 {
		return fmt.Errorf("lut1d: length must be >= 2, got %d", n)
	}
	if n > 1<<23 {
		return fmt.Errorf("lut1d: length %d exceeds maximum 2^23", n)
	}
	if l.Channels != 1 && l.Channels != 3 {
		return fmt.Errorf("lut1d: channels must be 1 or 3, got %d", l.Channels)
	}
	for i, row := range l.Samples {
		if len(row) != l.Channels {
			return fmt.Errorf("lut1d: sample %d has %d values, want %d", i, len(row), l.Channels)
		}
	}
	return nil
}

// collapseIfUniform converts a 3-channel LUT whose channels are all equal
// to 1-channel storage (spec §4.E step 2 per-op simplify).
func (l *Lut1D) collapseIfUniform() {
	if l.Channels != 3 {
		return
	}
	for _, row := range l.Samples {
		if row[0] != row[1] || row[1] != row[2] {
			return
		}
	}
	for i, row := range l.Samples {
		l.Samples[i] = []float32{row[0]}
	}
	l.Channels = 1
}

// Simplify applies per-op redundant-metadata simplification (spec §4.E
// step 2).
func (l *Lut1D) Simplify() { l.collapseIfUniform() }

const lut1DIdentityTolerance = 1e-5

func (l *Lut1D) IsIdentity() bool {
	n := len(l.Samples)
	if n < 2 {
		return false
	}
	for i, row := range l.Samples {
		var want float32
		if l.HalfDomain {
			want = half.Bits(i).ToFloat32()
		} else {
			want = float32(i) / float32(n-1)
		}
		for _, v := range row {
			if math.Abs(float64(v-want)) > lut1DIdentityTolerance {
				return false
			}
		}
	}
	return true
}

func (l *Lut1D) IsNoOp() bool                  { return l.Hue == HueAdjustNone && l.IsIdentity() }
func (l *Lut1D) HasChannelCrosstalk() bool     { return l.Hue != HueAdjustNone }
func (l *Lut1D) Metadata() *FormatMetadata     { return l.Meta }
func (l *Lut1D) FileOutputBitDepth() BitDepth  { return l.Bits }
func (l *Lut1D) Kind() string                  { return "Lut1D" }

func (l *Lut1D) CacheID() string {
	h := sha1.New()
	h.Write([]byte("Lut1D"))
	binary.Write(h, binary.LittleEndian, int32(l.dir))
	binary.Write(h, binary.LittleEndian, int32(l.Channels))
	binary.Write(h, binary.LittleEndian, int32(l.Hue))
	binary.Write(h, binary.LittleEndian, l.HalfDomain)
	for _, row := range l.Samples {
		for _, v := range row {
			binary.Write(h, binary.LittleEndian, v)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ComponentProperties computes (and caches) the per-channel monotonicity
// and effective-domain facts used by inverse-LUT approximation (spec §3,
// §4.E step 6). Only meaningful for Inverse-direction LUTs.
func (l *Lut1D) ComponentProperties() []ComponentProperties {
	if l.componentProps != nil {
		return l.componentProps
	}
	n := len(l.Samples)
	props := make([]ComponentProperties, l.Channels)
	for c := 0; c < l.Channels; c++ {
		p := ComponentProperties{Monotonic: true}
		var prev float32
		for i := 0; i < n; i++ {
			v := l.Samples[i][c]
			if i > 0 && v < prev {
				p.Monotonic = false
			}
			prev = v
		}
		if l.HalfDomain {
			// Track positive [0, 0x7bff] and negative [0x8000, 0xffff]
			// half ranges separately.
			p.MinIn, p.MaxIn = math.Inf(1), math.Inf(-1)
			p.NegMinIn, p.NegMaxIn = math.Inf(1), math.Inf(-1)
			for i := 0; i < n; i++ {
				v := float64(l.Samples[i][c])
				if i < 0x8000 {
					if v < p.MinIn {
						p.MinIn = v
					}
					if v > p.MaxIn {
						p.MaxIn = v
					}
				} else if i < 0xfc00 { // exclude half-NaN/Inf region
					p.HasNegative = true
					if v < p.NegMinIn {
						p.NegMinIn = v
					}
					if v > p.NegMaxIn {
						p.NegMaxIn = v
					}
				}
			}
		} else {
			p.MinIn = float64(l.Samples[0][c])
			p.MaxIn = float64(l.Samples[n-1][c])
		}
		props[c] = p
	}
	l.componentProps = props
	return props
}

// Apply evaluates the LUT on a single RGBA pixel in place; alpha is
// unchanged. Hue-adjust DW3, if set, is applied after the per-channel
// lookup.
func (l *Lut1D) Apply(p *[4]float32) {
	var before [3]float32
	copy(before[:], p[:3])

	for c := 0; c < 3; c++ {
		ch := c
		if l.Channels == 1 {
			ch = 0
		}
		p[c] = l.lookup(ch, p[c])
	}

	if l.Hue == HueAdjustDW3 {
		l.applyHueAdjust(before, p)
	}
}

func (l *Lut1D) lookup(channel int, x float32) float32 {
	n := len(l.Samples)
	if l.HalfDomain {
		if math.IsNaN(float64(x)) {
			return l.Samples[half.NaNBits.Index()][channel]
		}
		idx := half.FromFloat32(x).Index()
		if idx >= n {
			idx = n - 1
		}
		return l.Samples[idx][channel]
	}

	if math.IsNaN(float64(x)) {
		// Standard domain has no natural NaN slot; map to the first
		// sample, a well-defined finite slot (spec §4.F: "a kernel may
		// not throw"; NaN maps to a well-defined slot).
		return l.Samples[0][channel]
	}

	pos := float64(x) * float64(n-1)
	if pos < 0 {
		// Linear extrapolation from the first segment.
		slope := float64(l.Samples[1][channel] - l.Samples[0][channel])
		return l.Samples[0][channel] + float32(pos*slope)
	}
	if pos > float64(n-1) {
		slope := float64(l.Samples[n-1][channel] - l.Samples[n-2][channel])
		return l.Samples[n-1][channel] + float32((pos-float64(n-1))*slope)
	}
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		lo = n - 2
	}
	frac := pos - float64(lo)
	a := l.Samples[lo][channel]
	b := l.Samples[lo+1][channel]
	return a + float32(frac)*(b-a)
}

// applyHueAdjust reconstructs luma from the input pixel and rescales the
// post-LUT channel deltas so the hue angle of (R-L, G-L, B-L) matches the
// input's (spec §4.A).
func (l *Lut1D) applyHueAdjust(in [3]float32, out *[4]float32) {
	const wr, wg, wb = 0.2126, 0.7152, 0.0722
	lumaIn := wr*in[0] + wg*in[1] + wb*in[2]
	lumaOut := wr*out[0] + wg*out[1] + wb*out[2]

	inDelta := [3]float32{in[0] - lumaIn, in[1] - lumaIn, in[2] - lumaIn}
	outDelta := [3]float32{out[0] - lumaOut, out[1] - lumaOut, out[2] - lumaOut}

	inMag := magnitude(inDelta)
	outMag := magnitude(outDelta)
	if inMag == 0 || outMag == 0 {
		return
	}
	scale := inMag / outMag
	for i := 0; i < 3; i++ {
		out[i] = lumaOut + outDelta[i]*scale
	}
}

func magnitude(d [3]float32) float32 {
	return float32(math.Sqrt(float64(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])))
}
