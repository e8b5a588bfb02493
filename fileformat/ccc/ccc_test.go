/*
DESCRIPTION
  ccc_test.go exercises the CCC/CDL/CC XML adapters' Read against the
  three wrapper shapes (bare .cc, .ccc collection, .cdl decision list).
*/
package ccc

import (
	"strings"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

func TestReadBareCC(t *testing.T) {
	body := `<ColorCorrection id="">
  <SOPNode>
    <Slope>1.1 1.0 0.9</Slope>
    <Offset>0.01 0 -0.01</Offset>
    <Power>1.0 1.0 1.0</Power>
  </SOPNode>
  <SatNode>
    <Saturation>1.1</Saturation>
  </SatNode>
</ColorCorrection>`
	cf, err := (format{name: "ColorCorrection", ext: "cc"}).Read(strings.NewReader(body), "test.cc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ops, err := cf.Select("")
	if err != nil {
		t.Fatalf("Select(\"\"): %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	if _, ok := ops[0].(*opdata.CDL); !ok {
		t.Fatalf("expected *opdata.CDL, got %T", ops[0])
	}
}

func TestReadCCCCollection(t *testing.T) {
	body := `<ColorCorrectionCollection>
  <ColorCorrection id="shot01">
    <SOPNode><Slope>1 1 1</Slope></SOPNode>
  </ColorCorrection>
  <ColorCorrection id="shot02">
    <SOPNode><Slope>2 2 2</Slope></SOPNode>
  </ColorCorrection>
</ColorCorrectionCollection>`
	cf, err := (format{name: "ColorCorrectionCollection", ext: "ccc"}).Read(strings.NewReader(body), "test.ccc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ops, err := cf.Select("shot02")
	if err != nil {
		t.Fatalf("Select(shot02): %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	if _, err := cf.Select("missing"); err == nil {
		t.Error("expected an error selecting an unknown id")
	}
	if _, err := cf.Select(""); err == nil {
		t.Error("expected an error selecting empty cccid from a collection")
	}
}

func TestReadCDLDecisionList(t *testing.T) {
	body := `<ColorDecisionList>
  <ColorDecision>
    <ColorCorrection id="cd1">
      <SOPNode><Slope>1 1 1</Slope></SOPNode>
    </ColorCorrection>
  </ColorDecision>
</ColorDecisionList>`
	cf, err := (format{name: "ColorDecisionList", ext: "cdl"}).Read(strings.NewReader(body), "test.cdl")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ops, err := cf.Select("cd1")
	if err != nil {
		t.Fatalf("Select(cd1): %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
}

// TestReadCCCScenarioS6 exercises scenario S6 from spec §8: selecting
// cccid "cc0002" out of a collection yields its exact slope/offset/
// power/sat values, and an empty or missing cccid raises an error.
func TestReadCCCScenarioS6(t *testing.T) {
	body := `<ColorCorrectionCollection>
  <ColorCorrection id="cc0001">
    <SOPNode>
      <Description>shot 1 grade</Description>
      <Slope>1.0 1.0 1.0</Slope>
      <Offset>0.0 0.0 0.0</Offset>
      <Power>1.0 1.0 1.0</Power>
    </SOPNode>
    <SatNode>
      <Saturation>1.0</Saturation>
    </SatNode>
  </ColorCorrection>
  <ColorCorrection id="cc0002">
    <SOPNode>
      <Description>shot 2 grade</Description>
      <Slope>0.9 0.7 0.6</Slope>
      <Offset>0.1 0.1 0.1</Offset>
      <Power>0.9 0.9 0.9</Power>
    </SOPNode>
    <SatNode>
      <Saturation>0.7</Saturation>
    </SatNode>
  </ColorCorrection>
</ColorCorrectionCollection>`
	cf, err := (format{name: "ColorCorrectionCollection", ext: "ccc"}).Read(strings.NewReader(body), "cdl_test1.ccc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	ops, err := cf.Select("cc0002")
	if err != nil {
		t.Fatalf("Select(cc0002): %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	cdl, ok := ops[0].(*opdata.CDL)
	if !ok {
		t.Fatalf("expected *opdata.CDL, got %T", ops[0])
	}
	wantSlope := [3]float64{0.9, 0.7, 0.6}
	wantOffset := [3]float64{0.1, 0.1, 0.1}
	wantPower := [3]float64{0.9, 0.9, 0.9}
	if cdl.Slope != wantSlope {
		t.Errorf("slope: got %v want %v", cdl.Slope, wantSlope)
	}
	if cdl.Offset != wantOffset {
		t.Errorf("offset: got %v want %v", cdl.Offset, wantOffset)
	}
	if cdl.Power != wantPower {
		t.Errorf("power: got %v want %v", cdl.Power, wantPower)
	}
	if cdl.Sat != 0.7 {
		t.Errorf("sat: got %v want 0.7", cdl.Sat)
	}
	if cdl.Metadata() == nil {
		t.Fatal("expected FormatMetadata to be preserved")
	}

	if _, err := cf.Select(""); err == nil {
		t.Error("expected an error selecting empty cccid from a collection")
	}
	if _, err := cf.Select("cc9999"); err == nil {
		t.Error("expected an error selecting a missing cccid")
	}
}

func TestReadRejectsMalformedSlope(t *testing.T) {
	body := `<ColorCorrection id="">
  <SOPNode><Slope>1 1</Slope></SOPNode>
</ColorCorrection>`
	if _, err := (format{name: "ColorCorrection", ext: "cc"}).Read(strings.NewReader(body), "test.cc"); err == nil {
		t.Error("expected an error for a Slope with != 3 values")
	}
}

func TestReadRejectsEmptyDocument(t *testing.T) {
	body := `<ColorCorrectionCollection></ColorCorrectionCollection>`
	if _, err := (format{name: "ColorCorrectionCollection", ext: "ccc"}).Read(strings.NewReader(body), "test.ccc"); err == nil {
		t.Error("expected an error for a collection with no ColorCorrection elements")
	}
}
