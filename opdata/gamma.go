/*
DESCRIPTION
  gamma.go implements the Gamma OpData variant: basic and moncurve power
  functions in forward/reverse/mirror/passthru styles.

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

type GammaStyle int

const (
	GammaBasicFwd GammaStyle = iota
	GammaBasicRev
	GammaBasicMirrorFwd
	GammaBasicMirrorRev
	GammaBasicPassthruFwd
	GammaBasicPassthruRev
	GammaMoncurveFwd
	GammaMoncurveRev
	GammaMoncurveMirrorFwd
	GammaMoncurveMirrorRev
)

// IsReverse reports whether the style is one of the *Rev variants.
func (s GammaStyle) IsReverse() bool {
	switch s {
	case GammaBasicRev, GammaBasicMirrorRev, GammaBasicPassthruRev, GammaMoncurveRev, GammaMoncurveMirrorRev:
		return true
	}
	return false
}

// Opposite returns the style's forward/reverse counterpart within the
// same family (basic<->basic, moncurve<->moncurve), used by direction
// folding (spec §4.E step 4: "Gamma-style flip").
func (s GammaStyle) Opposite() GammaStyle {
	switch s {
	case GammaBasicFwd:
		return GammaBasicRev
	case GammaBasicRev:
		return GammaBasicFwd
	case GammaBasicMirrorFwd:
		return GammaBasicMirrorRev
	case GammaBasicMirrorRev:
		return GammaBasicMirrorFwd
	case GammaBasicPassthruFwd:
		return GammaBasicPassthruRev
	case GammaBasicPassthruRev:
		return GammaBasicPassthruFwd
	case GammaMoncurveFwd:
		return GammaMoncurveRev
	case GammaMoncurveRev:
		return GammaMoncurveFwd
	case GammaMoncurveMirrorFwd:
		return GammaMoncurveMirrorRev
	case GammaMoncurveMirrorRev:
		return GammaMoncurveMirrorFwd
	}
	return s
}

func (s GammaStyle) isMoncurve() bool {
	switch s {
	case GammaMoncurveFwd, GammaMoncurveRev, GammaMoncurveMirrorFwd, GammaMoncurveMirrorRev:
		return true
	}
	return false
}

// IsMoncurve reports whether the style is one of the moncurve variants;
// exported for the optimizer's adjacent-combining pass (spec §4.E step
// 5: "moncurve does not combine").
func (s GammaStyle) IsMoncurve() bool { return s.isMoncurve() }

func (s GammaStyle) isPassthru() bool {
	return s == GammaBasicPassthruFwd || s == GammaBasicPassthruRev
}

// GammaParams holds, per channel, gamma (and for moncurve, offset too).
// A 4th entry may be populated to also act on alpha.
type GammaParams struct {
	Gamma  float64
	Offset float64 // moncurve only
}

type Gamma struct {
	dir         Direction
	Style       GammaStyle
	Params      [4]GammaParams // R,G,B,A; ActsOnAlpha selects whether index 3 is used
	ActsOnAlpha bool
	Bits        BitDepth
	Meta        *FormatMetadata
}

func NewGamma(dir Direction, style GammaStyle, rgb [3]GammaParams) *Gamma {
	g := &Gamma{dir: dir, Style: style, Meta: emptyMetadata("Gamma")}
	copy(g.Params[:3], rgb[:])
	return g
}

func (g *Gamma) Direction() Direction { return g.dir }

func (g *Gamma) WithDirection(d Direction) OpData {
	c := g.Clone().(*Gamma)
	c.dir = d
	if d != g.dir {
		c.Style = g.Style.Opposite()
	}
	return c
}

func (g *Gamma) Clone() OpData {
	c := *g
	c.Meta = g.Meta.Clone()
	return &c
}

func (g *Gamma) Validate() error {
	if g.Style.isPassthru() {
		return nil
	}
	n := 3
	if g.ActsOnAlpha {
		n = 4
	}
	for i := 0; i < n; i++ {
		if g.Params[i].Gamma < 1 {
			return fmt.Errorf("gamma: channel %d gamma %v must be >= 1", i, g.Params[i].Gamma)
		}
	}
	return nil
}

func (g *Gamma) IsIdentity() bool {
	n := 3
	if g.ActsOnAlpha {
		n = 4
	}
	for i := 0; i < n; i++ {
		if math.Abs(g.Params[i].Gamma-1) > identityTolerance {
			return false
		}
		if g.Style.isMoncurve() && math.Abs(g.Params[i].Offset) > identityTolerance {
			return false
		}
	}
	return true
}

func (g *Gamma) IsNoOp() bool                  { return g.IsIdentity() }
func (g *Gamma) HasChannelCrosstalk() bool     { return false }
func (g *Gamma) Metadata() *FormatMetadata     { return g.Meta }
func (g *Gamma) FileOutputBitDepth() BitDepth  { return g.Bits }
func (g *Gamma) Kind() string                  { return "Gamma" }

func (g *Gamma) CacheID() string {
	h := sha1.New()
	h.Write([]byte("Gamma"))
	binary.Write(h, binary.LittleEndian, int32(g.dir))
	binary.Write(h, binary.LittleEndian, int32(g.Style))
	binary.Write(h, binary.LittleEndian, g.ActsOnAlpha)
	for _, p := range g.Params {
		binary.Write(h, binary.LittleEndian, p.Gamma)
		binary.Write(h, binary.LittleEndian, p.Offset)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Apply evaluates the gamma curve per channel.
func (g *Gamma) Apply(p *[4]float32) {
	n := 3
	if g.ActsOnAlpha {
		n = 4
	}
	for c := 0; c < n; c++ {
		p[c] = float32(g.evalChannel(g.Params[c], float64(p[c])))
	}
}

func (g *Gamma) evalChannel(pr GammaParams, x float64) float64 {
	switch g.Style {
	case GammaBasicFwd:
		return math.Pow(math.Max(0, x), pr.Gamma)
	case GammaBasicRev:
		return math.Pow(math.Max(0, x), 1/pr.Gamma)
	case GammaBasicMirrorFwd:
		return signedPow(x, pr.Gamma)
	case GammaBasicMirrorRev:
		return signedPow(x, 1/pr.Gamma)
	case GammaBasicPassthruFwd:
		if x >= 0 {
			return math.Pow(x, pr.Gamma)
		}
		return x
	case GammaBasicPassthruRev:
		if x >= 0 {
			return math.Pow(x, 1/pr.Gamma)
		}
		return x
	case GammaMoncurveFwd:
		return moncurveFwd(x, pr.Gamma, pr.Offset)
	case GammaMoncurveRev:
		return moncurveRev(x, pr.Gamma, pr.Offset)
	case GammaMoncurveMirrorFwd:
		return signedMoncurve(x, pr.Gamma, pr.Offset, false)
	case GammaMoncurveMirrorRev:
		return signedMoncurve(x, pr.Gamma, pr.Offset, true)
	}
	return x
}

func signedPow(x float64, g float64) float64 {
	if x < 0 {
		return -math.Pow(-x, g)
	}
	return math.Pow(x, g)
}

// moncurveFwd implements a piecewise function that is linear near zero
// and a power above a break-point, chosen so both the curve and its
// derivative are continuous, and moncurveFwd(1, g, off) == 1 (spec §4.A).
func moncurveFwd(x, gamma, offset float64) float64 {
	if gamma <= 1 {
		if x < 0 {
			return 0
		}
		return x
	}
	// Break point xb and linear slope s are chosen so the power segment
	// (x+offset)/(1+offset))^gamma and the linear segment s*x meet with
	// equal value and derivative at xb.
	xb := offset / (gamma - 1)
	s := gamma * math.Pow(xb+offset, gamma-1) / math.Pow(1+offset, gamma)
	if x < xb {
		if x < 0 {
			return s * x
		}
		return s * x
	}
	return math.Pow((x+offset)/(1+offset), gamma)
}

func moncurveRev(y, gamma, offset float64) float64 {
	if gamma <= 1 {
		return y
	}
	xb := offset / (gamma - 1)
	s := gamma * math.Pow(xb+offset, gamma-1) / math.Pow(1+offset, gamma)
	yb := s * xb
	if y < yb {
		if s == 0 {
			return 0
		}
		return y / s
	}
	return (1+offset)*math.Pow(y, 1/gamma) - offset
}

func signedMoncurve(x, gamma, offset float64, reverse bool) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}
	var v float64
	if reverse {
		v = moncurveRev(x, gamma, offset)
	} else {
		v = moncurveFwd(x, gamma, offset)
	}
	return sign * v
}
