/*
DESCRIPTION
  ctf_test.go exercises the CTF/CLF ProcessList adapter's Read against
  hand-written XML fixtures, one per supported element type.
*/
package ctf

import (
	"strings"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

var readTests = []struct {
	name    string
	body    string
	ext     string
	wantLen int
	wantErr bool
}{
	{
		name: "matrix 3x4",
		body: `<ProcessList compCLFversion="2.0">
  <Matrix>
    <Array dim="3 4 3"> 2 0 0 0  0 2 0 0  0 0 2 0 </Array>
  </Matrix>
</ProcessList>`,
		ext:     "ctf",
		wantLen: 1,
	},
	{
		name: "range with bounds",
		body: `<ProcessList compCLFversion="2.0">
  <Range>
    <minInValue>0</minInValue>
    <maxInValue>1</maxInValue>
    <minOutValue>0</minOutValue>
    <maxOutValue>2</maxOutValue>
  </Range>
</ProcessList>`,
		ext:     "ctf",
		wantLen: 1,
	},
	{
		name: "log2",
		body: `<ProcessList compCLFversion="2.0">
  <Log style="log2"/>
</ProcessList>`,
		ext:     "ctf",
		wantLen: 1,
	},
	{
		name: "gamma basicFwd single channel replicated",
		body: `<ProcessList compCLFversion="2.0">
  <Gamma style="basicFwd">
    <GammaParams gamma="2.2"/>
  </Gamma>
</ProcessList>`,
		ext:     "ctf",
		wantLen: 1,
	},
	{
		name: "asc cdl",
		body: `<ProcessList compCLFversion="2.0">
  <ASC_CDL style="v1.2_Fwd">
    <SOPNode>
      <Slope>1.1 1.0 0.9</Slope>
      <Offset>0.01 0 -0.01</Offset>
      <Power>1.0 1.0 1.0</Power>
    </SOPNode>
    <SatNode>
      <Saturation>1.1</Saturation>
    </SatNode>
  </ASC_CDL>
</ProcessList>`,
		ext:     "ctf",
		wantLen: 1,
	},
	{
		name: "clf version with smpte xmlns form",
		body: `<ProcessList CLFversion="http://www.smpte-ra.org/ns/2136-1/2024">
  <Range>
    <minInValue>0</minInValue>
    <maxInValue>1</maxInValue>
  </Range>
</ProcessList>`,
		ext:     "clf",
		wantLen: 1,
	},
	{
		name:    "malformed xml",
		body:    `<ProcessList>`,
		ext:     "ctf",
		wantErr: true,
	},
}

func TestRead(t *testing.T) {
	for _, test := range readTests {
		var f format
		if test.ext == "clf" {
			f = format{name: "clf", ext: "clf", mode: SMPTEXMLNS}
		} else {
			f = format{name: "ctf", ext: "ctf", mode: SMPTEShort}
		}
		cf, err := f.Read(strings.NewReader(test.body), "test."+test.ext)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got none", test.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: Read: %v", test.name, err)
		}
		if len(cf.Ops) != test.wantLen {
			t.Errorf("%s: got %d ops, want %d", test.name, len(cf.Ops), test.wantLen)
		}
	}
}

func TestMatrixValues(t *testing.T) {
	body := `<ProcessList compCLFversion="2.0">
  <Matrix>
    <Array dim="3 4 3"> 2 0 0 0  0 2 0 0  0 0 2 0 </Array>
  </Matrix>
</ProcessList>`
	f := format{name: "ctf", ext: "ctf", mode: SMPTEShort}
	cf, err := f.Read(strings.NewReader(body), "test.ctf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m, ok := cf.Ops[0].(*opdata.Matrix)
	if !ok {
		t.Fatalf("expected *opdata.Matrix, got %T", cf.Ops[0])
	}
	p := [4]float32{1, 1, 1, 1}
	m.Apply(&p)
	if p[0] != 2 || p[1] != 2 || p[2] != 2 {
		t.Errorf("got %v, want [2 2 2 1]", p)
	}
}

func TestGammaReplicatesSingleChannel(t *testing.T) {
	body := `<ProcessList compCLFversion="2.0">
  <Gamma style="basicFwd">
    <GammaParams gamma="2.0"/>
  </Gamma>
</ProcessList>`
	f := format{name: "ctf", ext: "ctf", mode: SMPTEShort}
	cf, err := f.Read(strings.NewReader(body), "test.ctf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	g, ok := cf.Ops[0].(*opdata.Gamma)
	if !ok {
		t.Fatalf("expected *opdata.Gamma, got %T", cf.Ops[0])
	}
	if g.Params[0].Gamma != g.Params[1].Gamma || g.Params[1].Gamma != g.Params[2].Gamma {
		t.Errorf("expected single GammaParams replicated across channels, got %+v", g.Params)
	}
}

func TestVersionRejectsUnknownForm(t *testing.T) {
	body := `<ProcessList compCLFversion="not-a-version">
  <Range><minInValue>0</minInValue></Range>
</ProcessList>`
	f := format{name: "ctf", ext: "ctf", mode: SMPTEShort}
	if _, err := f.Read(strings.NewReader(body), "test.ctf"); err == nil {
		t.Error("expected an error for a malformed version string")
	}
}
