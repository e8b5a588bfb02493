/*
DESCRIPTION
  matrix_test.go tests Matrix identity detection, invert and compose.
*/

package opdata

import (
	"math"
	"testing"
)

func TestMatrixIdentity(t *testing.T) {
	m := NewIdentityMatrix(Forward)
	if !m.IsIdentity() {
		t.Fatal("expected identity matrix to report IsIdentity")
	}
	m.Offs[0] = 1e-3
	if m.IsIdentity() {
		t.Fatal("expected offset to break identity")
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := NewMatrix(Forward, [16]float64{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, [4]float64{0.1, -0.2, 0, 0})

	inv, err := m.invert()
	if err != nil {
		t.Fatalf("invert: %v", err)
	}

	p := [4]float32{0.5, 0.25, 0.1, 1}
	orig := p
	m.Apply(&p)
	inv.Apply(&p)

	for i := range p {
		if math.Abs(float64(p[i]-orig[i])) > 1e-5 {
			t.Errorf("channel %d: got %v, want %v", i, p[i], orig[i])
		}
	}
}

func TestMultiplyMatrix(t *testing.T) {
	scale2 := NewMatrix(Forward, [16]float64{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1}, [4]float64{})
	addHalf := NewMatrix(Forward, [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}, [4]float64{0.5, 0.5, 0.5, 0})

	combined := MultiplyMatrix(scale2, addHalf)

	p := [4]float32{0.1, 0.2, 0.3, 1}
	want := p
	scale2.Apply(&want)
	addHalf.Apply(&want)

	got := p
	combined.Apply(&got)

	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Errorf("channel %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMatrixSingularInverseErrors(t *testing.T) {
	singular := NewMatrix(Inverse, [16]float64{}, [4]float64{})
	if err := singular.Validate(); err == nil {
		t.Fatal("expected validation error for singular inverse matrix")
	}
}
