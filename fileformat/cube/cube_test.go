/*
DESCRIPTION
  cube_test.go exercises the Iridas .cube adapter's Read against
  hand-written fixtures covering the 1D and 3D LUT shapes plus a few
  malformed-tag error paths.
*/
package cube

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

func TestRead1D(t *testing.T) {
	body := `TITLE "identity-ish"
LUT_1D_SIZE 3
0.0 0.0 0.0
0.5 0.5 0.5
1.0 1.0 1.0
`
	cf, err := (format{}).Read(strings.NewReader(body), "test.cube")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 2 {
		t.Fatalf("got %d ops, want 2 (Range then Lut1D)", len(cf.Ops))
	}
	if _, ok := cf.Ops[0].(*opdata.Range); !ok {
		t.Fatalf("expected *opdata.Range, got %T", cf.Ops[0])
	}
	lut, ok := cf.Ops[1].(*opdata.Lut1D)
	if !ok {
		t.Fatalf("expected *opdata.Lut1D, got %T", cf.Ops[1])
	}
	if len(lut.Samples) != 3 {
		t.Errorf("got %d samples, want 3", len(lut.Samples))
	}
	if lut.Samples[1][0] != 0.5 {
		t.Errorf("sample 1 channel 0: got %v want 0.5", lut.Samples[1][0])
	}
}

func TestRead3D(t *testing.T) {
	var b strings.Builder
	b.WriteString("LUT_3D_SIZE 2\n")
	for i := 0; i < 2*2*2; i++ {
		b.WriteString("0.1 0.2 0.3\n")
	}
	cf, err := (format{}).Read(strings.NewReader(b.String()), "test.cube")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 2 {
		t.Fatalf("got %d ops, want 2 (Range then Lut3D)", len(cf.Ops))
	}
	if _, ok := cf.Ops[1].(*opdata.Lut3D); !ok {
		t.Fatalf("expected *opdata.Lut3D, got %T", cf.Ops[1])
	}
}

// TestReadScenarioS1 exercises scenario S1 from spec §8: an identity
// LUT_3D_SIZE 2 cube applied to (0.5, 0.5, 0.5, 1) reproduces its input.
func TestReadScenarioS1(t *testing.T) {
	var b strings.Builder
	b.WriteString("LUT_3D_SIZE 2\n")
	// Red-fastest order for a 2-edge cube: R varies fastest, then G,
	// then B, each corner value equal to its own normalized coordinate.
	for bi := 0; bi < 2; bi++ {
		for g := 0; g < 2; g++ {
			for r := 0; r < 2; r++ {
				fmt.Fprintf(&b, "%d %d %d\n", r, g, bi)
			}
		}
	}
	cf, err := (format{}).Read(strings.NewReader(b.String()), "test.cube")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	lut, ok := cf.Ops[len(cf.Ops)-1].(*opdata.Lut3D)
	if !ok {
		t.Fatalf("expected last op to be *opdata.Lut3D, got %T", cf.Ops[len(cf.Ops)-1])
	}
	if !lut.IsIdentity() {
		t.Fatal("expected an identity 3D LUT")
	}

	p := [4]float32{0.5, 0.5, 0.5, 1}
	lut.Apply(&p)
	want := [4]float32{0.5, 0.5, 0.5, 1}
	if p != want {
		t.Errorf("got %v want %v", p, want)
	}
}

func TestReadDomainProducesRange(t *testing.T) {
	body := `LUT_1D_SIZE 2
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 2.0 2.0 2.0
0.0 0.0 0.0
1.0 1.0 1.0
`
	cf, err := (format{}).Read(strings.NewReader(body), "test.cube")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 2 {
		t.Fatalf("got %d ops, want 2 (range + lut1d), got %T", len(cf.Ops), cf.Ops)
	}
	if _, ok := cf.Ops[0].(*opdata.Range); !ok {
		t.Errorf("expected first op to be *opdata.Range, got %T", cf.Ops[0])
	}
}

func TestReadRejectsBothSizeTags(t *testing.T) {
	body := `LUT_1D_SIZE 2
LUT_3D_SIZE 2
`
	if _, err := (format{}).Read(strings.NewReader(body), "test.cube"); err == nil {
		t.Error("expected an error for mutually exclusive size tags")
	}
}

func TestReadRejectsMissingSizeTag(t *testing.T) {
	body := "0.0 0.0 0.0\n"
	if _, err := (format{}).Read(strings.NewReader(body), "test.cube"); err == nil {
		t.Error("expected an error when no size tag is present")
	}
}

func TestReadRejectsWrongSampleCount(t *testing.T) {
	body := `LUT_1D_SIZE 3
0.0 0.0 0.0
1.0 1.0 1.0
`
	if _, err := (format{}).Read(strings.NewReader(body), "test.cube"); err == nil {
		t.Error("expected an error for too few sample lines")
	}
}

// TestReadScenarioS5 exercises scenario S5 from spec §8: a LUT_3D_SIZE 2
// cube (expects 8 entries) with only 10 value lines raises an error
// naming the mismatch.
func TestReadScenarioS5(t *testing.T) {
	var b strings.Builder
	b.WriteString("LUT_3D_SIZE 2\n")
	for i := 0; i < 10; i++ {
		b.WriteString("0.1 0.2 0.3\n")
	}
	_, err := (format{}).Read(strings.NewReader(b.String()), "test.cube")
	if err == nil {
		t.Fatal("expected an error for a 3D LUT with the wrong entry count")
	}
	if !strings.Contains(err.Error(), "Incorrect number of 3D LUT entries") {
		t.Errorf("error %q does not mention the expected mismatch", err.Error())
	}
}

func TestReadRejectsMalformedTriple(t *testing.T) {
	body := `LUT_1D_SIZE 1
0.0 0.0
`
	if _, err := (format{}).Read(strings.NewReader(body), "test.cube"); err == nil {
		t.Error("expected an error for a malformed color triple")
	}
}
