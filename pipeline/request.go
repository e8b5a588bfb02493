/*
DESCRIPTION
  request.go defines the Request variants the pipeline builder accepts
  (spec §4.D): ColorSpaceTransform, DisplayViewTransform, FileTransform,
  GroupTransform, AllocationTransform.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline translates declarative transform requests into an
// opvec.Vector, consulting a config.Config for color spaces, displays,
// looks, view transforms and named transforms (spec §4.D).
package pipeline

import "github.com/ausocean/colorcore/opdata"

// Request is implemented by every transform request variant Build
// accepts.
type Request interface {
	isRequest()
}

// ColorSpaceTransform converts between two color spaces, routing through
// their shared reference space (or via the config's default view
// transform if their reference spaces differ).
type ColorSpaceTransform struct {
	Src, Dst string

	// DataBypass, if true, emits nothing when either endpoint is a data
	// color space (spec §4.D).
	DataBypass bool
}

func (ColorSpaceTransform) isRequest() {}

// DisplayViewTransform resolves a named view of a display, optionally
// applying looks, and builds the chain from Src to that view (or its
// inverse when Dir is opdata.Inverse).
type DisplayViewTransform struct {
	Src, Display, View string

	// LooksBypass skips applying the view's looks entirely.
	LooksBypass bool
	// DataBypass, if true, emits nothing when Src is a data color space.
	DataBypass bool

	Dir opdata.Direction
}

func (DisplayViewTransform) isRequest() {}

// FileTransform loads an external file (via the fileformat registry,
// after context-variable expansion and search-path resolution) and
// emits a selected sub-transform's ops.
type FileTransform struct {
	Path string
	// CCCID selects a sub-transform from a multi-entry file; empty for
	// single-transform files.
	CCCID string
	Dir   opdata.Direction
	Interp opdata.Interpolation
}

func (FileTransform) isRequest() {}

// GroupTransform recursively builds each child in order, or in reverse
// with each child inverted when Dir is opdata.Inverse.
type GroupTransform struct {
	Children []Request
	Dir      opdata.Direction
}

func (GroupTransform) isRequest() {}

// AllocationKind selects the normalization strategy an AllocationTransform
// applies (spec §4.D).
type AllocationKind int

const (
	AllocationUniform AllocationKind = iota
	AllocationLg2
)

// AllocationTransform fits a coding range into [0,1]: Vars holds
// {min, max} for AllocationUniform, or {min, max, intercept?} for
// AllocationLg2.
type AllocationTransform struct {
	Kind AllocationKind
	Vars []float64
}

func (AllocationTransform) isRequest() {}
