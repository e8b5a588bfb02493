/*
DESCRIPTION
  pandora_test.go exercises the Pandora .mga/.m3d adapter's Read against
  a small hand-written 2x2x2 3D LUT.
*/
package pandora

import (
	"strings"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

func validDoc() string {
	var b strings.Builder
	b.WriteString("channel 3d\n")
	b.WriteString("in 8\n")
	b.WriteString("out 1024\n")
	b.WriteString("format lut\n")
	b.WriteString("values red green blue\n")
	for i := 0; i < 8; i++ {
		b.WriteString("0 100 200 300\n")
	}
	return b.String()
}

func TestRead(t *testing.T) {
	cf, err := (format{}).Read(strings.NewReader(validDoc()), "test.mga")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(cf.Ops))
	}
	lut, ok := cf.Ops[0].(*opdata.Lut3D)
	if !ok {
		t.Fatalf("expected *opdata.Lut3D, got %T", cf.Ops[0])
	}
	if lut.Bits != opdata.BitDepth10 {
		t.Errorf("Bits: got %v want BitDepth10 (out=1024)", lut.Bits)
	}
}

func TestEdgeLenFromNumPixels(t *testing.T) {
	if got := edgeLenFromNumPixels(8); got != 2 {
		t.Errorf("edgeLenFromNumPixels(8): got %d want 2", got)
	}
	if got := edgeLenFromNumPixels(27); got != 3 {
		t.Errorf("edgeLenFromNumPixels(27): got %d want 3", got)
	}
}

func TestReadRejectsNon3DChannel(t *testing.T) {
	body := "channel 1d\n"
	if _, err := (format{}).Read(strings.NewReader(body), "test.mga"); err == nil {
		t.Error("expected an error for a non-3d channel tag")
	}
}

func TestReadRejectsMissingOut(t *testing.T) {
	body := "channel 3d\nin 8\nformat lut\nvalues red green blue\n" + strings.Repeat("0 1 1 1\n", 8)
	if _, err := (format{}).Read(strings.NewReader(body), "test.mga"); err == nil {
		t.Error("expected an error when 'out' tag is missing")
	}
}

func TestReadRejectsWrongEntryCount(t *testing.T) {
	body := "channel 3d\nin 8\nout 256\nformat lut\nvalues red green blue\n0 1 1 1\n"
	if _, err := (format{}).Read(strings.NewReader(body), "test.mga"); err == nil {
		t.Error("expected an error for too few LUT entries")
	}
}

func TestNames(t *testing.T) {
	mga := format{name: "pandora_mga", ext: "mga"}
	if mga.Extension() != "mga" {
		t.Errorf("Extension: got %q want mga", mga.Extension())
	}
}
