/*
DESCRIPTION
  eval_test.go exercises Compile+Apply over both the single-goroutine
  and chunked-parallel paths, and checks NaN/out-of-range handling
  carries through a parallel Apply unchanged (spec §4.F).
*/
package eval

import (
	"math"
	"testing"

	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/opvec"
)

func scaleVector(s float64) opvec.Vector {
	m := opdata.NewMatrix(opdata.Forward, [16]float64{
		s, 0, 0, 0,
		0, s, 0, 0,
		0, 0, s, 0,
		0, 0, 0, 1,
	}, [4]float64{})
	var v opvec.Vector
	v.Push(opvec.New(m))
	return Compile(v)
}

func TestApplySmallBuffer(t *testing.T) {
	ops := scaleVector(2)
	buf := []float32{0.1, 0.2, 0.3, 1, 0.4, 0.5, 0.6, 1}
	if err := Apply(ops, buf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []float32{0.2, 0.4, 0.6, 1, 0.8, 1.0, 1.2, 1}
	for i := range want {
		if math.Abs(float64(buf[i]-want[i])) > 1e-5 {
			t.Errorf("index %d: got %v want %v", i, buf[i], want[i])
		}
	}
}

func TestApplyLargeBufferMatchesSerial(t *testing.T) {
	ops := scaleVector(1.5)
	pixels := minChunkPixels*3 + 17
	buf := make([]float32, pixels*4)
	for i := range buf {
		buf[i] = float32(i%97) / 97
	}
	serial := make([]float32, len(buf))
	copy(serial, buf)
	applyRange(ops, serial, 0, pixels)

	if err := Apply(ops, buf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range buf {
		if math.Abs(float64(buf[i]-serial[i])) > 1e-5 {
			t.Fatalf("index %d: parallel %v != serial %v", i, buf[i], serial[i])
		}
	}
}

func TestApplyRejectsMisalignedBuffer(t *testing.T) {
	ops := scaleVector(1)
	if err := Apply(ops, make([]float32, 5)); err == nil {
		t.Fatal("expected error for non-multiple-of-4 buffer length")
	}
}

func TestApplyPropagatesNaN(t *testing.T) {
	ops := scaleVector(2)
	buf := []float32{float32(math.NaN()), 0, 0, 1}
	if err := Apply(ops, buf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !math.IsNaN(float64(buf[0])) {
		t.Errorf("expected NaN to propagate through Matrix.apply, got %v", buf[0])
	}
}

func TestHasChannelCrosstalk(t *testing.T) {
	var v opvec.Vector
	v.Push(opvec.New(opdata.NewIdentityMatrix(opdata.Forward)))
	if HasChannelCrosstalk(Compile(v)) {
		t.Fatal("expected matrix-only vector to report no crosstalk")
	}

	cdl := opdata.NewCDL(opdata.Forward, opdata.CDLv12Fwd, [3]float64{1, 1, 1}, [3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 1.1)
	v.Push(opvec.New(cdl))
	if !HasChannelCrosstalk(Compile(v)) {
		t.Fatal("expected CDL with non-1.0 saturation to report crosstalk")
	}
}
