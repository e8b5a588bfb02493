/*
DESCRIPTION
  pipeline_test.go exercises Build against hand-assembled config.Static
  fixtures: plain color-space conversion, data bypass, reference-space
  bridging via a default view transform, a legacy display view with a
  look, file-transform loading, group inversion and allocation fitting.
*/
package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/colorcore/config"
	_ "github.com/ausocean/colorcore/fileformat/register"
	"github.com/ausocean/colorcore/opdata"
)

func scaleMatrix(s float64) *opdata.Matrix {
	return opdata.NewMatrix(opdata.Forward, [16]float64{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		0, 0, 0, 1,
	}, [4]float64{})
}

func apply(t *testing.T, ops []opdata.OpData, p [4]float32) [4]float32 {
	t.Helper()
	for _, op := range ops {
		op.Apply(&p)
	}
	return p
}

func TestBuildColorSpaceTransform(t *testing.T) {
	cfg := config.NewBuilder().
		AddColorSpace("lin", scaleMatrix(2), scaleMatrix(0.5), false, config.SceneReferred, "scene-linear").
		AddColorSpace("log", nil, scaleMatrix(0.25), false, config.SceneReferred, "log").
		Build()

	v, err := Build(cfg, ColorSpaceTransform{Src: "lin", Dst: "log"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var ops []opdata.OpData
	for _, op := range v {
		if op.Data.Kind() == "NoOp" {
			continue
		}
		ops = append(ops, op.Data)
	}
	// lin->reference (×2, since lin's toReference is scaleMatrix(2)) then
	// reference->log (×0.25, since log's fromReference is
	// scaleMatrix(0.25)) = input * 2 * 0.25 = *0.5.
	got := apply(t, ops, [4]float32{1, 1, 1, 1})
	want := float32(0.5)
	if math.Abs(float64(got[0]-want)) > 1e-6 {
		t.Errorf("got %v want %v", got[0], want)
	}
}

func TestBuildColorSpaceTransformDataBypass(t *testing.T) {
	cfg := config.NewBuilder().
		AddColorSpace("data", nil, nil, true, config.SceneReferred, "").
		AddColorSpace("lin", scaleMatrix(2), scaleMatrix(0.5), false, config.SceneReferred, "scene-linear").
		Build()

	v, err := Build(cfg, ColorSpaceTransform{Src: "data", Dst: "lin", DataBypass: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(v) != 0 {
		t.Fatalf("expected data bypass to emit nothing, got %d ops", len(v))
	}
}

func TestBuildColorSpaceTransformReferenceBridge(t *testing.T) {
	cfg := config.NewBuilder().
		AddColorSpace("scene_lin", scaleMatrix(1), scaleMatrix(1), false, config.SceneReferred, "scene-linear").
		AddColorSpace("display_lin", scaleMatrix(1), scaleMatrix(1), false, config.DisplayReferred, "display-linear").
		AddViewTransform("default_vt", scaleMatrix(10), scaleMatrix(0.1), config.SceneReferred).
		SetDefaultViewTransform("default_vt").
		Build()

	v, err := Build(cfg, ColorSpaceTransform{Src: "scene_lin", Dst: "display_lin"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var ops []opdata.OpData
	for _, op := range v {
		if op.Data.Kind() != "NoOp" {
			ops = append(ops, op.Data)
		}
	}
	got := apply(t, ops, [4]float32{1, 1, 1, 1})
	want := float32(10)
	if math.Abs(float64(got[0]-want)) > 1e-5 {
		t.Errorf("got %v want %v", got[0], want)
	}
}

func TestBuildColorSpaceTransformMissingBridgeFails(t *testing.T) {
	cfg := config.NewBuilder().
		AddColorSpace("scene_lin", scaleMatrix(1), scaleMatrix(1), false, config.SceneReferred, "").
		AddColorSpace("display_lin", scaleMatrix(1), scaleMatrix(1), false, config.DisplayReferred, "").
		Build()

	_, err := Build(cfg, ColorSpaceTransform{Src: "scene_lin", Dst: "display_lin"})
	if err == nil {
		t.Fatal("expected an error when no default view transform is set")
	}
}

func TestBuildDisplayViewTransformLegacyWithLook(t *testing.T) {
	cfg := config.NewBuilder().
		AddColorSpace("lin", scaleMatrix(1), scaleMatrix(1), false, config.SceneReferred, "").
		AddColorSpace("view", scaleMatrix(1), scaleMatrix(1), false, config.SceneReferred, "").
		AddLook("punchy", "lin", scaleMatrix(2), nil).
		AddDisplay("sRGB", map[string]config.View{
			"Standard": {ColorSpaceName: "view", Looks: "+punchy"},
		}).
		Build()

	v, err := Build(cfg, DisplayViewTransform{Src: "lin", Display: "sRGB", View: "Standard"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var ops []opdata.OpData
	for _, op := range v {
		if op.Data.Kind() != "NoOp" {
			ops = append(ops, op.Data)
		}
	}
	got := apply(t, ops, [4]float32{1, 1, 1, 1})
	want := float32(2)
	if math.Abs(float64(got[0]-want)) > 1e-5 {
		t.Errorf("got %v want %v", got[0], want)
	}
}

func TestBuildDisplayViewTransformInverseRoundTrip(t *testing.T) {
	cfg := config.NewBuilder().
		AddColorSpace("lin", scaleMatrix(1), scaleMatrix(1), false, config.SceneReferred, "").
		AddColorSpace("view", scaleMatrix(4), scaleMatrix(0.25), false, config.SceneReferred, "").
		AddDisplay("sRGB", map[string]config.View{
			"Standard": {ColorSpaceName: "view"},
		}).
		Build()

	fwd, err := Build(cfg, DisplayViewTransform{Src: "lin", Display: "sRGB", View: "Standard", Dir: opdata.Forward})
	if err != nil {
		t.Fatalf("Build forward: %v", err)
	}
	inv, err := Build(cfg, DisplayViewTransform{Src: "lin", Display: "sRGB", View: "Standard", Dir: opdata.Inverse})
	if err != nil {
		t.Fatalf("Build inverse: %v", err)
	}

	var ops []opdata.OpData
	for _, op := range fwd {
		ops = append(ops, op.Data)
	}
	for _, op := range inv {
		ops = append(ops, op.Data)
	}
	p := [4]float32{0.3, -0.1, 1.5, 1}
	got := apply(t, ops, p)
	for i := 0; i < 3; i++ {
		if math.Abs(float64(got[i]-p[i])) > 1e-5 {
			t.Errorf("round trip index %d: got %v want %v", i, got[i], p[i])
		}
	}
}

func TestBuildFileTransform(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.spimtx")
	const body = "2 0 0 0\n0 2 0 0\n0 0 2 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := config.NewBuilder().SetSearchPath([]string{dir}).Build()
	v, err := Build(cfg, FileTransform{Path: "test.spimtx"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(v) != 1 {
		t.Fatalf("expected 1 op, got %d", len(v))
	}
	var ops []opdata.OpData
	for _, op := range v {
		ops = append(ops, op.Data)
	}
	got := apply(t, ops, [4]float32{1, 1, 1, 1})
	if math.Abs(float64(got[0]-2)) > 1e-6 {
		t.Errorf("got %v want 2", got[0])
	}
}

func TestBuildGroupTransformInverse(t *testing.T) {
	cfg := config.NewBuilder().Build()
	group := GroupTransform{
		Children: []Request{
			AllocationTransform{Kind: AllocationUniform, Vars: []float64{0, 2}},
		},
		Dir: opdata.Inverse,
	}
	v, err := Build(cfg, group)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var ops []opdata.OpData
	for _, op := range v {
		ops = append(ops, op.Data)
	}
	// Forward allocation maps [0,2]->[0,1] (halves); inverted it should
	// double again.
	got := apply(t, ops, [4]float32{1, 1, 1, 1})
	if math.Abs(float64(got[0]-2)) > 1e-6 {
		t.Errorf("got %v want 2", got[0])
	}
}

func TestBuildAllocationUniformIdentity(t *testing.T) {
	cfg := config.NewBuilder().Build()
	v, err := Build(cfg, AllocationTransform{Kind: AllocationUniform, Vars: []float64{0, 1}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(v) != 1 || v[0].Data.Kind() != "NoOp" {
		t.Fatalf("expected identity allocation to collapse to a single NoOp, got %v", v)
	}
}
