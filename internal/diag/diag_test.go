package diag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

// TestPlotLut1D renders a small identity-deviating LUT to a temp PNG.
// Skipped by default: it's a visual debugging aid, not a correctness
// check, and gonum/plot pulls in a font/rasterizer stack that's slow to
// exercise on every run.
func TestPlotLut1D(t *testing.T) {
	if os.Getenv("COLORCORE_DIAG_TESTS") == "" {
		t.Skip("set COLORCORE_DIAG_TESTS=1 to render diagnostic plots")
	}

	samples := [][]float32{{0, 0, 0}, {0.4, 0.5, 0.6}, {1, 1, 1}}
	lut := opdata.NewLut1D(opdata.Forward, 3, samples, opdata.InterpLinear, opdata.HueAdjustNone, false)

	out := filepath.Join(t.TempDir(), "lut.png")
	if err := PlotLut1D(lut, "test LUT", out); err != nil {
		t.Fatalf("PlotLut1D: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("expected a non-empty PNG at %s", out)
	}
}

func TestPlotLut1DRejectsHalfDomain(t *testing.T) {
	lut := opdata.NewLut1D(opdata.Forward, 1, make([][]float32, 65536), opdata.InterpLinear, opdata.HueAdjustNone, true)
	if err := PlotLut1D(lut, "", filepath.Join(t.TempDir(), "lut.png")); err == nil {
		t.Fatal("expected an error for a half-domain LUT")
	}
}
