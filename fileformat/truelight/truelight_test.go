/*
DESCRIPTION
  truelight_test.go exercises the Truelight .cub adapter against small
  shaper-only, cube-only and combined fixtures, grounded on the shapes
  used by the original implementation's own Truelight format tests.
*/
package truelight

import (
	"strings"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

func TestReadShaperOnly(t *testing.T) {
	const body = `# Truelight Cube
# InputLUT
0.0 0.0 0.0
0.5 0.5 0.5
1.0 1.0 1.0
# end
`
	cf, err := format{}.Read(strings.NewReader(body), "test.cub")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 1 {
		t.Fatalf("expected 1 op (shaper only), got %d", len(cf.Ops))
	}
	if _, ok := cf.Ops[0].(*opdata.Lut1D); !ok {
		t.Fatalf("expected *opdata.Lut1D, got %T", cf.Ops[0])
	}
}

func TestReadCubeOnly(t *testing.T) {
	const body = `# Truelight Cube
# Cube
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
1.0 1.0 0.0
0.0 0.0 1.0
1.0 0.0 1.0
0.0 1.0 1.0
1.0 1.0 1.0
# end
`
	cf, err := format{}.Read(strings.NewReader(body), "test.cub")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 1 {
		t.Fatalf("expected 1 op (cube only), got %d", len(cf.Ops))
	}
	lut3D, ok := cf.Ops[0].(*opdata.Lut3D)
	if !ok {
		t.Fatalf("expected *opdata.Lut3D, got %T", cf.Ops[0])
	}
	if lut3D.Edge != 2 {
		t.Errorf("got edge %d, want 2", lut3D.Edge)
	}
	// Red-fastest: the second row (index 1) varies only the red channel.
	if lut3D.Samples[3] != 1 || lut3D.Samples[4] != 0 || lut3D.Samples[5] != 0 {
		t.Errorf("expected red-fastest ordering, got %v", lut3D.Samples[3:6])
	}
}

func TestReadShaperAndCube(t *testing.T) {
	const body = `# Truelight Cube
# InputLUT
0.0 0.0 0.0
1.0 1.0 1.0
# Cube
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
1.0 1.0 0.0
0.0 0.0 1.0
1.0 0.0 1.0
0.0 1.0 1.0
1.0 1.0 1.0
# end
`
	cf, err := format{}.Read(strings.NewReader(body), "test.cub")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 2 {
		t.Fatalf("expected 2 ops (shaper then cube), got %d", len(cf.Ops))
	}
	if _, ok := cf.Ops[0].(*opdata.Lut1D); !ok {
		t.Errorf("expected first op *opdata.Lut1D, got %T", cf.Ops[0])
	}
	if _, ok := cf.Ops[1].(*opdata.Lut3D); !ok {
		t.Errorf("expected second op *opdata.Lut3D, got %T", cf.Ops[1])
	}
}

func TestReadStopsAtEndSentinel(t *testing.T) {
	const body = `# InputLUT
0.0 0.0 0.0
1.0 1.0 1.0
# end
garbage trailer text that is not LUT data
`
	if _, err := format{}.Read(strings.NewReader(body), "test.cub"); err != nil {
		t.Fatalf("Read: %v", err)
	}
}

func TestReadRejectsNonCubeRowCount(t *testing.T) {
	const body = `# Cube
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
# end
`
	if _, err := format{}.Read(strings.NewReader(body), "test.cub"); err == nil {
		t.Error("expected an error when the cube row count is not a perfect cube")
	}
}

func TestReadRejectsEmptyFile(t *testing.T) {
	if _, err := format{}.Read(strings.NewReader("# just a comment\n"), "test.cub"); err == nil {
		t.Error("expected an error when neither section is present")
	}
}
