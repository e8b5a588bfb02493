package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/colorcore/opdata"
)

const simpleDoc = `
search_path: ./luts, /usr/share/ocio/luts
default_view_transform: un-tone-map
context:
  SHOW: demo
view_transforms:
  - name: un-tone-map
    reference: display
    to_reference: identity
colorspaces:
  - name: lin_scene
    reference: scene
    encoding: scene-linear
    to_reference: identity
  - name: display_srgb
    reference: display
    is_data: false
    to_reference: matrix 2,0,0,0 0,2,0,0 0,0,2,0 0,0,0,1
  - name: raw
    is_data: true
    to_reference: identity
`

func TestParseSimple(t *testing.T) {
	cfg, err := ParseSimple(strings.NewReader(simpleDoc))
	if err != nil {
		t.Fatalf("ParseSimple: %v", err)
	}

	if got, want := cfg.SearchPath(), []string{"./luts", "/usr/share/ocio/luts"}; !cmp.Equal(got, want) {
		t.Errorf("SearchPath: got %v want %v", got, want)
	}
	if got := cfg.Context()["SHOW"]; got != "demo" {
		t.Errorf("Context[SHOW]: got %q want %q", got, "demo")
	}

	vt, err := cfg.DefaultViewTransform()
	if err != nil {
		t.Fatalf("DefaultViewTransform: %v", err)
	}
	if got, want := vt.Name(), "un-tone-map"; got != want {
		t.Errorf("DefaultViewTransform.Name: got %q want %q", got, want)
	}
	if vt.ReferenceSpace() != DisplayReferred {
		t.Errorf("un-tone-map.ReferenceSpace: got %v want display-referred", vt.ReferenceSpace())
	}

	lin, err := cfg.ColorSpace("lin_scene")
	if err != nil {
		t.Fatalf("ColorSpace(lin_scene): %v", err)
	}
	if got, want := lin.Encoding(), "scene-linear"; got != want {
		t.Errorf("lin_scene.Encoding: got %q want %q", got, want)
	}
	if lin.ReferenceSpace() != SceneReferred {
		t.Errorf("lin_scene.ReferenceSpace: got %v want scene-referred", lin.ReferenceSpace())
	}
	if !lin.ToReference().IsIdentity() {
		t.Errorf("lin_scene.ToReference should be identity")
	}

	display, err := cfg.ColorSpace("display_srgb")
	if err != nil {
		t.Fatalf("ColorSpace(display_srgb): %v", err)
	}
	if display.ReferenceSpace() != DisplayReferred {
		t.Errorf("display_srgb.ReferenceSpace: got %v want display-referred", display.ReferenceSpace())
	}
	gotM, ok := display.ToReference().(*opdata.Matrix)
	if !ok {
		t.Fatalf("display_srgb.ToReference: got %T, want *opdata.Matrix", display.ToReference())
	}
	wantM := opdata.NewMatrix(opdata.Forward, [16]float64{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}, [4]float64{})
	if !cmp.Equal(gotM.M, wantM.M) || !cmp.Equal(gotM.Offs, wantM.Offs) {
		t.Errorf("display_srgb.ToReference matrix: got M=%v Offs=%v want M=%v Offs=%v", gotM.M, gotM.Offs, wantM.M, wantM.Offs)
	}

	raw, err := cfg.ColorSpace("raw")
	if err != nil {
		t.Fatalf("ColorSpace(raw): %v", err)
	}
	if !raw.IsData() {
		t.Errorf("raw.IsData: got false want true")
	}
}

func TestParseSimpleMalformedLine(t *testing.T) {
	_, err := ParseSimple(strings.NewReader("not a key value line"))
	if err == nil {
		t.Fatal("expected an error for a line with no ':'")
	}
}

func TestParseSimpleMatrixWrongRowCount(t *testing.T) {
	doc := `
colorspaces:
  - name: bad
    to_reference: matrix 1,0,0,0 0,1,0,0
`
	_, err := ParseSimple(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected an error for a matrix with too few rows")
	}
}
