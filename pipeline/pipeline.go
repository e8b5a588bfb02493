/*
DESCRIPTION
  pipeline.go implements Build, the single entry point translating a
  Request into an opvec.Vector against a config.Config (spec §4.D):
  color-space/reference-space routing, display-view resolution (legacy,
  view-transform-based, or named-transform substitution) with look
  chains, file-transform loading via ctxvar + fileformat, group
  recursion, and allocation fitting.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"os"
	"strings"

	"github.com/ausocean/colorcore/colorerr"
	"github.com/ausocean/colorcore/config"
	"github.com/ausocean/colorcore/ctxvar"
	"github.com/ausocean/colorcore/fileformat"
	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/opvec"
)

// Build translates req into an Op vector against cfg. Every path and
// color-space name consulted during the build is first passed through
// context-variable expansion (spec §4.D); the collector used for that
// pass is internal to a single Build call (the cache-key fingerprint is
// the caller's responsibility once it has resolved a Request, via
// ctxvar.Collector.Fingerprint on its own Resolve/Expand calls).
func Build(cfg config.Config, req Request) (opvec.Vector, error) {
	coll := ctxvar.NewCollector()
	return buildRequest(cfg, req, coll)
}

func buildRequest(cfg config.Config, req Request, coll *ctxvar.Collector) (opvec.Vector, error) {
	switch r := req.(type) {
	case ColorSpaceTransform:
		return buildColorSpaceTransform(cfg, r, coll)
	case DisplayViewTransform:
		return buildDisplayViewTransform(cfg, r, coll)
	case FileTransform:
		return buildFileTransform(cfg, r, coll)
	case GroupTransform:
		return buildGroupTransform(cfg, r, coll)
	case AllocationTransform:
		return buildAllocationTransform(r)
	default:
		return nil, colorerr.New("pipeline: unsupported request type %T", req)
	}
}

// refPair is the shape both config.ColorSpace and config.ViewTransform
// share for reference-space conversion (spec §4.D).
type refPair interface {
	ToReference() opdata.OpData
	FromReference() opdata.OpData
}

func toRefOp(rp refPair, name string) (opdata.OpData, error) {
	if op := rp.ToReference(); op != nil {
		return op, nil
	}
	if op := rp.FromReference(); op != nil {
		return op.WithDirection(op.Direction().Opposite()), nil
	}
	return nil, colorerr.New("pipeline: %q defines neither to_reference nor from_reference", name)
}

func fromRefOp(rp refPair, name string) (opdata.OpData, error) {
	if op := rp.FromReference(); op != nil {
		return op, nil
	}
	if op := rp.ToReference(); op != nil {
		return op.WithDirection(op.Direction().Opposite()), nil
	}
	return nil, colorerr.New("pipeline: %q defines neither to_reference nor from_reference", name)
}

func oppositeSpace(r config.ReferenceSpace) config.ReferenceSpace {
	if r == config.SceneReferred {
		return config.DisplayReferred
	}
	return config.SceneReferred
}

// gpuAllocWrapper brackets v with the two GPU-Allocation NoOp section
// markers the builder puts around every color-space conversion (spec
// §4.D "Wrappers").
func gpuAllocWrapper(v opvec.Vector) opvec.Vector {
	out := make(opvec.Vector, 0, len(v)+2)
	out = append(out, opvec.New(opdata.NewNoOp(opdata.Forward, "GPUAllocationNoOp")))
	out = append(out, v...)
	out = append(out, opvec.New(opdata.NewNoOp(opdata.Forward, "GPUAllocationNoOp")))
	return out
}

// invertVector reverses v and inverts each op's direction, used wherever
// a built chain needs to run backwards (spec §4.D GroupTransform rule,
// reused for DisplayViewTransform/FileTransform Dir handling).
func invertVector(v opvec.Vector) opvec.Vector {
	out := make(opvec.Vector, len(v))
	for i, op := range v {
		j := len(v) - 1 - i
		flipped := op.Data.WithDirection(op.Dir.Opposite())
		out[j] = opvec.Op{Data: flipped, Dir: flipped.Direction()}
	}
	return out
}

func buildColorSpaceTransform(cfg config.Config, r ColorSpaceTransform, coll *ctxvar.Collector) (opvec.Vector, error) {
	srcName := ctxvar.Expand(r.Src, cfg.Context(), coll)
	dstName := ctxvar.Expand(r.Dst, cfg.Context(), coll)

	srcCS, err := cfg.ColorSpace(srcName)
	if err != nil {
		return nil, err
	}
	dstCS, err := cfg.ColorSpace(dstName)
	if err != nil {
		return nil, err
	}
	if r.DataBypass && (srcCS.IsData() || dstCS.IsData()) {
		return nil, nil
	}

	var v opvec.Vector
	toRef, err := toRefOp(srcCS, srcCS.Name())
	if err != nil {
		return nil, err
	}
	v.Push(opvec.New(toRef))

	if srcCS.ReferenceSpace() != dstCS.ReferenceSpace() {
		vt, err := cfg.DefaultViewTransform()
		if err != nil {
			return nil, colorerr.New("pipeline: %q and %q are in different reference spaces and no default view transform is set", srcName, dstName)
		}
		bridge, err := viewTransformBridge(vt, srcCS.ReferenceSpace())
		if err != nil {
			return nil, err
		}
		v.Push(opvec.New(bridge))
	}

	fromRef, err := fromRefOp(dstCS, dstCS.Name())
	if err != nil {
		return nil, err
	}
	v.Push(opvec.New(fromRef))

	return gpuAllocWrapper(v), nil
}

// viewTransformBridge returns the op that moves from from (one of the
// two reference spaces) across vt to the other, using whichever of
// ToReference/FromReference vt defines natively for that direction (spec
// §4.D step 3).
func viewTransformBridge(vt config.ViewTransform, from config.ReferenceSpace) (opdata.OpData, error) {
	if vt.ReferenceSpace() == from {
		return toRefOp(vt, vt.Name())
	}
	return fromRefOp(vt, vt.Name())
}

// parseLooks splits a "+look1,-look2" string into ordered (name, forward)
// pairs (spec §4.D step 2).
func parseLooks(looks string) []struct {
	Name    string
	Forward bool
} {
	looks = strings.TrimSpace(looks)
	if looks == "" {
		return nil
	}
	var out []struct {
		Name    string
		Forward bool
	}
	for _, tok := range strings.Split(looks, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		forward := true
		switch tok[0] {
		case '+':
			tok = tok[1:]
		case '-':
			forward = false
			tok = tok[1:]
		}
		out = append(out, struct {
			Name    string
			Forward bool
		}{Name: tok, Forward: forward})
	}
	return out
}

// buildLookChain builds the ops that apply looks in sequence, assuming
// the current position in the vector is refSpace's reference. Each look
// is applied in its own process space: reference -> process space ->
// look -> reference. A look that cfg.Look cannot find is skipped (spec
// §9 "the pipeline builder's look fallback consumes only the missing
// variant").
func buildLookChain(cfg config.Config, looksStr string, refSpace config.ReferenceSpace, coll *ctxvar.Collector) (opvec.Vector, error) {
	var v opvec.Vector
	for _, entry := range parseLooks(looksStr) {
		name := ctxvar.Expand(entry.Name, cfg.Context(), coll)
		look, err := cfg.Look(name)
		if err != nil {
			if colorerr.IsMissing(err) {
				continue
			}
			return nil, err
		}
		procCS, err := cfg.ColorSpace(look.ProcessSpace())
		if err != nil {
			return nil, err
		}
		if procCS.ReferenceSpace() != refSpace {
			return nil, colorerr.New("pipeline: look %q process space %q is not in the %v reference space", name, procCS.Name(), refSpace)
		}
		toProc, err := fromRefOp(procCS, procCS.Name())
		if err != nil {
			return nil, err
		}
		backToRef, err := toRefOp(procCS, procCS.Name())
		if err != nil {
			return nil, err
		}

		lookOp := look.Forward()
		if !entry.Forward {
			if inv := look.Inverse(); inv != nil {
				lookOp = inv
			} else if lookOp != nil {
				lookOp = lookOp.WithDirection(lookOp.Direction().Opposite())
			}
		}
		if lookOp == nil {
			return nil, colorerr.New("pipeline: look %q defines no usable op data", name)
		}

		v.Push(opvec.New(toProc))
		v.Push(opvec.New(lookOp))
		v.Push(opvec.New(backToRef))
	}
	return v, nil
}

func buildDisplayViewTransform(cfg config.Config, r DisplayViewTransform, coll *ctxvar.Collector) (opvec.Vector, error) {
	srcName := ctxvar.Expand(r.Src, cfg.Context(), coll)
	srcCS, err := cfg.ColorSpace(srcName)
	if err != nil {
		return nil, err
	}
	if r.DataBypass && srcCS.IsData() {
		return nil, nil
	}

	disp, err := cfg.Display(r.Display)
	if err != nil {
		return nil, err
	}
	view, ok := disp.View(r.View)
	if !ok {
		return nil, colorerr.Missing("pipeline: display %q has no view %q", r.Display, r.View)
	}

	var v opvec.Vector

	if view.NamedTransformName != "" {
		nt, err := cfg.NamedTransform(view.NamedTransformName)
		if err != nil {
			return nil, err
		}
		op := nt.Forward()
		if op == nil {
			return nil, colorerr.New("pipeline: named transform %q defines no forward op data", nt.Name())
		}
		v.Push(opvec.New(op))
		return finishDisplayViewTransform(v, r.Dir)
	}

	toRef, err := toRefOp(srcCS, srcCS.Name())
	if err != nil {
		return nil, err
	}
	v.Push(opvec.New(toRef))

	if !r.LooksBypass && view.Looks != "" {
		looks, err := buildLookChain(cfg, view.Looks, srcCS.ReferenceSpace(), coll)
		if err != nil {
			return nil, err
		}
		v.Concat(looks)
	}

	if !view.IsVTBased() {
		dstCS, err := cfg.ColorSpace(view.ColorSpaceName)
		if err != nil {
			return nil, err
		}
		fromRef, err := fromRefOp(dstCS, dstCS.Name())
		if err != nil {
			return nil, err
		}
		v.Push(opvec.New(fromRef))
		return finishDisplayViewTransform(v, r.Dir)
	}

	vt, err := cfg.ViewTransform(view.ViewTransformName)
	if err != nil {
		return nil, err
	}
	bridge, err := viewTransformBridge(vt, srcCS.ReferenceSpace())
	if err != nil {
		return nil, err
	}
	v.Push(opvec.New(bridge))

	dispCS, err := cfg.ColorSpace(view.DisplayColorSpaceName)
	if err != nil {
		return nil, err
	}
	fromRef, err := fromRefOp(dispCS, dispCS.Name())
	if err != nil {
		return nil, err
	}
	v.Push(opvec.New(fromRef))

	return finishDisplayViewTransform(v, r.Dir)
}

func finishDisplayViewTransform(v opvec.Vector, dir opdata.Direction) (opvec.Vector, error) {
	if dir == opdata.Inverse {
		v = invertVector(v)
	}
	return gpuAllocWrapper(v), nil
}

func buildFileTransform(cfg config.Config, r FileTransform, coll *ctxvar.Collector) (opvec.Vector, error) {
	resolved, err := ctxvar.Resolve(r.Path, cfg.Context(), cfg.SearchPath(), coll)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, colorerr.Missing("pipeline: %v", err).WithFile(resolved, 0)
	}
	defer f.Close()

	cf, err := fileformat.Read(f, resolved)
	if err != nil {
		return nil, err
	}
	ops, err := cf.Select(r.CCCID)
	if err != nil {
		return nil, err
	}

	v := make(opvec.Vector, len(ops))
	for i, op := range ops {
		v[i] = opvec.New(applyInterp(op, r.Interp))
	}
	if r.Dir == opdata.Inverse {
		v = invertVector(v)
	}
	return v, nil
}

// applyInterp overrides a LUT op's interpolation with interp, when
// interp is not the zero value (spec §4.D FileTransform interpolation
// parameter).
func applyInterp(op opdata.OpData, interp opdata.Interpolation) opdata.OpData {
	if interp == opdata.InterpDefault {
		return op
	}
	switch v := op.(type) {
	case *opdata.Lut1D:
		c := v.Clone().(*opdata.Lut1D)
		c.Interp = opdata.ConcreteLut1D(interp)
		return c
	case *opdata.Lut3D:
		c := v.Clone().(*opdata.Lut3D)
		c.Interp = opdata.ConcreteLut3D(interp)
		return c
	default:
		return op
	}
}

func buildGroupTransform(cfg config.Config, r GroupTransform, coll *ctxvar.Collector) (opvec.Vector, error) {
	var v opvec.Vector
	for _, child := range r.Children {
		cv, err := buildRequest(cfg, child, coll)
		if err != nil {
			return nil, err
		}
		v.Concat(cv)
	}
	if r.Dir == opdata.Inverse {
		v = invertVector(v)
	}
	return v, nil
}
