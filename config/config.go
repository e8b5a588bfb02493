/*
DESCRIPTION
  config.go defines the Config/ColorSpace/ViewTransform/Look/Display
  interfaces the pipeline builder consumes (spec §6), plus Static: a
  concrete in-memory implementation assembled with a fluent Builder, so
  the module is usable standalone without the external YAML front end
  (spec §1 "YAML config parsing... is deliberately out of scope"; Static
  is the in-memory tree that parser would produce).

AUTHORS
  (adapted from the revid/config flat-struct convention)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config defines the Config interface the pipeline builder reads
// from (spec §6) and Static, an in-memory implementation built with a
// fluent Builder.
package config

import (
	"fmt"

	"github.com/ausocean/colorcore/ctxvar"
	"github.com/ausocean/colorcore/opdata"
)

// ReferenceSpace distinguishes the two reference-space families a color
// space or view transform may be built against (spec §3).
type ReferenceSpace int

const (
	SceneReferred ReferenceSpace = iota
	DisplayReferred
)

func (r ReferenceSpace) String() string {
	if r == DisplayReferred {
		return "display-referred"
	}
	return "scene-referred"
}

// ColorSpace is the subset of a config's color-space record the builder
// needs (spec §6).
type ColorSpace interface {
	Name() string
	// ToReference/FromReference return the op data that converts this
	// color space to/from its reference space, or nil if that direction
	// is not defined (the builder inverts the other direction instead).
	ToReference() opdata.OpData
	FromReference() opdata.OpData
	IsData() bool
	ReferenceSpace() ReferenceSpace
	Encoding() string
}

// ViewTransform bridges the scene-referred and display-referred
// reference spaces (spec §3 Glossary).
type ViewTransform interface {
	Name() string
	ToReference() opdata.OpData
	FromReference() opdata.OpData
	ReferenceSpace() ReferenceSpace
}

// Look is a creative-intent transform applied in a nominated process
// space (spec §3 Glossary).
type Look interface {
	Name() string
	ProcessSpace() string
	Forward() opdata.OpData
	// Inverse returns the explicit inverse op data, or nil if the
	// builder should derive it by direction-flipping Forward.
	Inverse() opdata.OpData
}

// View is one entry of a Display's named views: either a plain legacy
// color space, or a (view transform, display color space) pair, with
// optional looks and a viewing rule (spec §4.D step 1).
type View struct {
	// ColorSpaceName is set for a "legacy view": the view resolves
	// directly to a color space.
	ColorSpaceName string

	// ViewTransformName and DisplayColorSpaceName are set for a
	// VT-based view.
	ViewTransformName     string
	DisplayColorSpaceName string

	// Looks is the raw looks string, e.g. "+look1,-look2", applied in
	// order (spec §4.D step 2/3).
	Looks string

	// Rule names a viewing_rule filter (unused by Build itself; kept
	// for round-tripping).
	Rule string

	Description string

	// NamedTransformName, if set, causes Build to substitute that named
	// transform's forward/inverse directly, bypassing reference-space
	// plumbing (spec §4.D step 4).
	NamedTransformName string
}

// IsVTBased reports whether v resolves through a view transform rather
// than a plain color space.
func (v View) IsVTBased() bool { return v.ViewTransformName != "" }

// Display groups named Views.
type Display interface {
	Name() string
	View(name string) (View, bool)
}

// NamedTransform is a standalone forward/inverse op pair addressable by
// name, substituted directly for a view (spec §4.D step 4).
type NamedTransform interface {
	Name() string
	Forward() opdata.OpData
	Inverse() opdata.OpData
}

// Config is the read-only interface the pipeline builder consumes
// (spec §6).
type Config interface {
	ColorSpace(nameOrAlias string) (ColorSpace, error)
	ViewTransform(name string) (ViewTransform, error)
	Look(name string) (Look, error)
	Display(name string) (Display, error)
	NamedTransform(name string) (NamedTransform, error)
	DefaultViewTransform() (ViewTransform, error)
	Context() ctxvar.Context
	SearchPath() []string
}

// --- Static: a concrete in-memory Config ---

type staticColorSpace struct {
	name                     string
	toRef, fromRef           opdata.OpData
	isData                   bool
	refSpace                 ReferenceSpace
	encoding                 string
}

func (c *staticColorSpace) Name() string                   { return c.name }
func (c *staticColorSpace) ToReference() opdata.OpData      { return c.toRef }
func (c *staticColorSpace) FromReference() opdata.OpData    { return c.fromRef }
func (c *staticColorSpace) IsData() bool                    { return c.isData }
func (c *staticColorSpace) ReferenceSpace() ReferenceSpace   { return c.refSpace }
func (c *staticColorSpace) Encoding() string                 { return c.encoding }

type staticViewTransform struct {
	name           string
	toRef, fromRef opdata.OpData
	refSpace       ReferenceSpace
}

func (v *staticViewTransform) Name() string                { return v.name }
func (v *staticViewTransform) ToReference() opdata.OpData   { return v.toRef }
func (v *staticViewTransform) FromReference() opdata.OpData { return v.fromRef }
func (v *staticViewTransform) ReferenceSpace() ReferenceSpace { return v.refSpace }

type staticLook struct {
	name         string
	processSpace string
	fwd, inv     opdata.OpData
}

func (l *staticLook) Name() string             { return l.name }
func (l *staticLook) ProcessSpace() string     { return l.processSpace }
func (l *staticLook) Forward() opdata.OpData   { return l.fwd }
func (l *staticLook) Inverse() opdata.OpData   { return l.inv }

type staticDisplay struct {
	name  string
	views map[string]View
}

func (d *staticDisplay) Name() string { return d.name }
func (d *staticDisplay) View(name string) (View, bool) {
	v, ok := d.views[name]
	return v, ok
}

type staticNamedTransform struct {
	name     string
	fwd, inv opdata.OpData
}

func (n *staticNamedTransform) Name() string           { return n.name }
func (n *staticNamedTransform) Forward() opdata.OpData { return n.fwd }
func (n *staticNamedTransform) Inverse() opdata.OpData { return n.inv }

// Static is an in-memory Config.
type Static struct {
	colorSpaces     map[string]*staticColorSpace
	aliases         map[string]string
	viewTransforms  map[string]*staticViewTransform
	looks           map[string]*staticLook
	displays        map[string]*staticDisplay
	namedTransforms map[string]*staticNamedTransform
	defaultVT       string
	context         ctxvar.Context
	searchPath      []string
}

func (s *Static) ColorSpace(name string) (ColorSpace, error) {
	if cs, ok := s.colorSpaces[name]; ok {
		return cs, nil
	}
	if canon, ok := s.aliases[name]; ok {
		if cs, ok := s.colorSpaces[canon]; ok {
			return cs, nil
		}
	}
	return nil, fmt.Errorf("config: unknown color space %q", name)
}

func (s *Static) ViewTransform(name string) (ViewTransform, error) {
	if vt, ok := s.viewTransforms[name]; ok {
		return vt, nil
	}
	return nil, fmt.Errorf("config: unknown view transform %q", name)
}

func (s *Static) Look(name string) (Look, error) {
	if l, ok := s.looks[name]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("config: unknown look %q", name)
}

func (s *Static) Display(name string) (Display, error) {
	if d, ok := s.displays[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("config: unknown display %q", name)
}

func (s *Static) NamedTransform(name string) (NamedTransform, error) {
	if n, ok := s.namedTransforms[name]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("config: unknown named transform %q", name)
}

func (s *Static) DefaultViewTransform() (ViewTransform, error) {
	if s.defaultVT == "" {
		return nil, fmt.Errorf("config: no default view transform set")
	}
	return s.ViewTransform(s.defaultVT)
}

func (s *Static) Context() ctxvar.Context { return s.context }
func (s *Static) SearchPath() []string    { return s.searchPath }

// Builder assembles a Static config fluently (grounded on
// revid/config.go's flat-struct-of-named-fields convention, generalized
// here to a build-then-freeze pattern since Config must be read-only
// once handed to the pipeline builder).
type Builder struct {
	s *Static
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{s: &Static{
		colorSpaces:     make(map[string]*staticColorSpace),
		aliases:         make(map[string]string),
		viewTransforms:  make(map[string]*staticViewTransform),
		looks:           make(map[string]*staticLook),
		displays:        make(map[string]*staticDisplay),
		namedTransforms: make(map[string]*staticNamedTransform),
		context:         make(ctxvar.Context),
		searchPath:      nil,
	}}
}

// AddColorSpace registers a color space, with optional aliases.
func (b *Builder) AddColorSpace(name string, toRef, fromRef opdata.OpData, isData bool, ref ReferenceSpace, encoding string, aliases ...string) *Builder {
	b.s.colorSpaces[name] = &staticColorSpace{name: name, toRef: toRef, fromRef: fromRef, isData: isData, refSpace: ref, encoding: encoding}
	for _, a := range aliases {
		b.s.aliases[a] = name
	}
	return b
}

// AddViewTransform registers a view transform.
func (b *Builder) AddViewTransform(name string, toRef, fromRef opdata.OpData, ref ReferenceSpace) *Builder {
	b.s.viewTransforms[name] = &staticViewTransform{name: name, toRef: toRef, fromRef: fromRef, refSpace: ref}
	return b
}

// AddLook registers a look.
func (b *Builder) AddLook(name, processSpace string, fwd, inv opdata.OpData) *Builder {
	b.s.looks[name] = &staticLook{name: name, processSpace: processSpace, fwd: fwd, inv: inv}
	return b
}

// AddDisplay registers a display with its named views.
func (b *Builder) AddDisplay(name string, views map[string]View) *Builder {
	b.s.displays[name] = &staticDisplay{name: name, views: views}
	return b
}

// AddNamedTransform registers a standalone named transform.
func (b *Builder) AddNamedTransform(name string, fwd, inv opdata.OpData) *Builder {
	b.s.namedTransforms[name] = &staticNamedTransform{name: name, fwd: fwd, inv: inv}
	return b
}

// SetDefaultViewTransform names the view transform Build uses to bridge
// scene/display reference spaces when a ColorSpaceTransform crosses them
// (spec §4.D).
func (b *Builder) SetDefaultViewTransform(name string) *Builder {
	b.s.defaultVT = name
	return b
}

// SetContext replaces the context dictionary used for $VAR expansion.
func (b *Builder) SetContext(ctx ctxvar.Context) *Builder {
	b.s.context = ctx
	return b
}

// SetSearchPath replaces the ordered list of directories file lookups
// search.
func (b *Builder) SetSearchPath(dirs []string) *Builder {
	b.s.searchPath = dirs
	return b
}

// Build freezes and returns the assembled Static config.
func (b *Builder) Build() *Static { return b.s }
