/*
DESCRIPTION
  opdata.go defines the OpData sum type: the immutable payload carried by
  every primitive color operator, plus the shared FormatMetadata tree and
  direction tag described in spec §3.

AUTHORS
  (adapted from the revid/config flat-struct convention)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package opdata defines the primitive color operator payload types
// (Matrix, Range, Lut1D, Lut3D, Log, Gamma, CDL, FixedFunction,
// ExposureContrast, the Grading family, NoOp and Reference) that make up
// the op graph's data model. Every variant is immutable once constructed;
// composition and optimization produce new values rather than mutating
// existing ones.
package opdata

import "fmt"

// Direction is carried by every OpData variant.
type Direction int

const (
	Forward Direction = iota
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Inverse
	}
	return Forward
}

// BitDepth is a file-output-bitdepth hint, consumed only by writers; the
// CPU pipeline itself is always f32 internally (spec §4.E step 7).
type BitDepth int

const (
	BitDepthUnknown BitDepth = iota
	BitDepth8
	BitDepth10
	BitDepth12
	BitDepth14
	BitDepth16
	BitDepth16f
	BitDepth32f
)

// FormatMetadata is a tree of (name, value, attributes, children), used
// to preserve description/id information across file round-trips and op
// composition (spec §3).
type FormatMetadata struct {
	Name       string
	Value      string
	Attributes map[string]string
	Children   []*FormatMetadata
}

// Clone returns a deep copy of m (nil-safe).
func (m *FormatMetadata) Clone() *FormatMetadata {
	if m == nil {
		return nil
	}
	c := &FormatMetadata{Name: m.Name, Value: m.Value}
	if m.Attributes != nil {
		c.Attributes = make(map[string]string, len(m.Attributes))
		for k, v := range m.Attributes {
			c.Attributes[k] = v
		}
	}
	for _, ch := range m.Children {
		c.Children = append(c.Children, ch.Clone())
	}
	return c
}

// Combine implements the composition join rule from spec §3: descriptions
// concatenate and attributes that differ join as "a + b".
func Combine(a, b *FormatMetadata) *FormatMetadata {
	if a == nil {
		return b.Clone()
	}
	if b == nil {
		return a.Clone()
	}
	out := &FormatMetadata{Name: a.Name}
	out.Value = joinDiffering(a.Value, b.Value)
	out.Attributes = make(map[string]string)
	for k, v := range a.Attributes {
		out.Attributes[k] = v
	}
	for k, v := range b.Attributes {
		if existing, ok := out.Attributes[k]; ok && existing != v {
			out.Attributes[k] = joinDiffering(existing, v)
		} else {
			out.Attributes[k] = v
		}
	}
	out.Children = append(append([]*FormatMetadata{}, cloneAll(a.Children)...), cloneAll(b.Children)...)
	return out
}

func cloneAll(in []*FormatMetadata) []*FormatMetadata {
	out := make([]*FormatMetadata, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

func joinDiffering(a, b string) string {
	switch {
	case a == "" :
		return b
	case b == "":
		return a
	case a == b:
		return a
	default:
		return fmt.Sprintf("%s + %s", a, b)
	}
}

// OpData is the sum type every primitive operator payload implements.
// Variants are distinguished by dynamic type (a Go-idiomatic replacement
// for the base-class-plus-dynamic-cast hierarchy described in spec §9).
type OpData interface {
	// Direction returns the op's direction tag.
	Direction() Direction

	// WithDirection returns a copy of the op with its direction tag set
	// to d, without altering parameters (direction folding, spec §4.E
	// step 4, replaces this with an analytic inverse instead of just
	// flipping the tag wherever an exact analytic inverse exists).
	WithDirection(d Direction) OpData

	// Clone returns a deep, independent copy.
	Clone() OpData

	// Validate rejects impossible parameters (spec §4.E step 1).
	Validate() error

	// IsIdentity reports whether this op, applied, is a no-op on pixel
	// values (spec §3 per-variant identity invariants).
	IsIdentity() bool

	// IsNoOp reports whether this op can be elided entirely during
	// optimization; for ordinary ops this is the same as IsIdentity, but
	// NoOp and Reference always report true/false respectively regardless
	// of parameters.
	IsNoOp() bool

	// HasChannelCrosstalk reports whether this op couples output channels
	// in a way that defeats naive recomposition with neighbors (true for
	// Lut1D with hue-adjust, CDL (its saturation term), Lut3D and
	// FixedFunction).
	HasChannelCrosstalk() bool

	// Metadata returns the op's FormatMetadata tree (never nil).
	Metadata() *FormatMetadata

	// FileOutputBitDepth is the writer hint carried alongside the op.
	FileOutputBitDepth() BitDepth

	// CacheID returns a stable, content-addressed string used to key
	// finalize/optimize caches; two ops with the same CacheID are
	// required to behave identically when applied.
	CacheID() string

	// Kind is a short stable name for the op variant, used in error
	// messages and metadata join ("Matrix", "Lut1D", ...).
	Kind() string

	// Apply evaluates the op's kernel in place on an interleaved RGBA
	// float32 pixel (spec §4.A/§4.F numeric contracts).
	Apply(p *[4]float32)
}

// emptyMetadata returns a non-nil empty FormatMetadata for ops built
// without an explicit one.
func emptyMetadata(name string) *FormatMetadata {
	return &FormatMetadata{Name: name, Attributes: map[string]string{}}
}
