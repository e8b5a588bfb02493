/*
DESCRIPTION
  vf_test.go exercises the Nuke .vf adapter's Read.
*/
package vf

import (
	"strings"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

func TestRead(t *testing.T) {
	var b strings.Builder
	b.WriteString("#Inventor V2.1 ascii\n")
	b.WriteString("grid_size 2 2 2\n")
	b.WriteString("data\n")
	for i := 0; i < 8; i++ {
		b.WriteString("0.1 0.2 0.3\n")
	}
	cf, err := (format{}).Read(strings.NewReader(b.String()), "test.vf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 1 {
		t.Fatalf("got %d ops, want 1 (no global_transform)", len(cf.Ops))
	}
	if _, ok := cf.Ops[0].(*opdata.Lut3D); !ok {
		t.Fatalf("expected *opdata.Lut3D, got %T", cf.Ops[0])
	}
}

func TestReadWithGlobalTransform(t *testing.T) {
	var b strings.Builder
	b.WriteString("#Inventor V2.1 ascii\n")
	b.WriteString("grid_size 2 2 2\n")
	b.WriteString("global_transform 2 0 0 0  0 2 0 0  0 0 2 0  0 0 0 1\n")
	b.WriteString("data\n")
	for i := 0; i < 8; i++ {
		b.WriteString("0.1 0.2 0.3\n")
	}
	cf, err := (format{}).Read(strings.NewReader(b.String()), "test.vf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 2 {
		t.Fatalf("got %d ops, want 2 (matrix + lut3d)", len(cf.Ops))
	}
	if _, ok := cf.Ops[0].(*opdata.Matrix); !ok {
		t.Errorf("expected first op *opdata.Matrix, got %T", cf.Ops[0])
	}
}

func TestReadRejectsMissingHeader(t *testing.T) {
	body := "grid_size 2 2 2\ndata\n"
	if _, err := (format{}).Read(strings.NewReader(body), "test.vf"); err == nil {
		t.Error("expected an error for a missing #Inventor header")
	}
}

func TestReadRejectsUnequalGridSize(t *testing.T) {
	body := "#Inventor V2.1 ascii\ngrid_size 2 3 2\ndata\n"
	if _, err := (format{}).Read(strings.NewReader(body), "test.vf"); err == nil {
		t.Error("expected an error for an unequal grid_size")
	}
}

func TestReadRejectsWrongEntryCount(t *testing.T) {
	body := "#Inventor V2.1 ascii\ngrid_size 2 2 2\ndata\n0.1 0.2 0.3\n"
	if _, err := (format{}).Read(strings.NewReader(body), "test.vf"); err == nil {
		t.Error("expected an error for too few 3D LUT entries")
	}
}
