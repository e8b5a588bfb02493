/*
DESCRIPTION
  noop.go implements the NoOp and Reference OpData variants: a metadata-
  only placeholder (used as a section marker around file-loaded segments)
  and a deferred file-load sentinel resolved by the pipeline builder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package opdata

import "fmt"

// NoOp carries only metadata; the optimizer removes it unless doing so
// would cross a hue-adjust boundary (spec §4.E step 3).
type NoOp struct {
	dir  Direction
	Meta *FormatMetadata
}

func NewNoOp(dir Direction, label string) *NoOp {
	return &NoOp{dir: dir, Meta: &FormatMetadata{Name: "NoOp", Value: label, Attributes: map[string]string{}}}
}

func (n *NoOp) Direction() Direction { return n.dir }
func (n *NoOp) WithDirection(d Direction) OpData {
	c := *n
	c.dir = d
	c.Meta = n.Meta.Clone()
	return &c
}
func (n *NoOp) Clone() OpData {
	c := *n
	c.Meta = n.Meta.Clone()
	return &c
}
func (n *NoOp) Validate() error               { return nil }
func (n *NoOp) IsIdentity() bool              { return true }
func (n *NoOp) IsNoOp() bool                  { return true }
func (n *NoOp) HasChannelCrosstalk() bool     { return false }
func (n *NoOp) Metadata() *FormatMetadata     { return n.Meta }
func (n *NoOp) FileOutputBitDepth() BitDepth  { return BitDepthUnknown }
func (n *NoOp) Kind() string                  { return "NoOp" }
func (n *NoOp) CacheID() string               { return "NoOp:" + n.Meta.Value }
func (n *NoOp) Apply(p *[4]float32)           {}

// Reference is a deferred file-load sentinel resolved by the pipeline
// builder; it is never present in a finalized pipeline (spec §3).
type Reference struct {
	dir  Direction
	Path string
	CCCID string
	Meta *FormatMetadata
}

func NewReference(dir Direction, path, cccid string) *Reference {
	return &Reference{dir: dir, Path: path, CCCID: cccid, Meta: emptyMetadata("Reference")}
}

func (r *Reference) Direction() Direction { return r.dir }
func (r *Reference) WithDirection(d Direction) OpData {
	c := *r
	c.dir = d
	c.Meta = r.Meta.Clone()
	return &c
}
func (r *Reference) Clone() OpData {
	c := *r
	c.Meta = r.Meta.Clone()
	return &c
}
func (r *Reference) Validate() error {
	return fmt.Errorf("reference: unresolved file reference %q must be resolved before finalize", r.Path)
}
func (r *Reference) IsIdentity() bool             { return false }
func (r *Reference) IsNoOp() bool                 { return false }
func (r *Reference) HasChannelCrosstalk() bool    { return false }
func (r *Reference) Metadata() *FormatMetadata    { return r.Meta }
func (r *Reference) FileOutputBitDepth() BitDepth { return BitDepthUnknown }
func (r *Reference) Kind() string                 { return "Reference" }
func (r *Reference) CacheID() string              { return "Reference:" + r.Path + ":" + r.CCCID }

// Apply is unreachable: Validate always errors, so a Reference can never
// survive into a finalized pipeline that reaches evaluation.
func (r *Reference) Apply(p *[4]float32) {}
