/*
DESCRIPTION
  processor_test.go exercises Processor construction/apply, cache
  at-most-once insertion, and dynamic-property rebinding.
*/
package processor

import (
	"math"
	"testing"

	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/opvec"
	"github.com/ausocean/colorcore/optimize"
)

func TestProcessorApply(t *testing.T) {
	m := opdata.NewMatrix(opdata.Forward, [16]float64{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}, [4]float64{})
	var v opvec.Vector
	v.Push(opvec.New(m))

	p, err := New(v, optimize.All, optimize.ComposeResampleNo, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	buf := []float32{0.1, 0.2, 0.3, 1}
	if err := p.Apply(buf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []float32{0.2, 0.4, 0.6, 1}
	for i := range want {
		if math.Abs(float64(buf[i]-want[i])) > 1e-5 {
			t.Errorf("index %d: got %v want %v", i, buf[i], want[i])
		}
	}
}

func TestProcessorCacheAtMostOnceInsert(t *testing.T) {
	c := NewCache()
	var v opvec.Vector
	v.Push(opvec.New(opdata.NewIdentityMatrix(opdata.Forward)))

	p1, _ := New(v, optimize.None, optimize.ComposeResampleNo, nil)
	p2, _ := New(v, optimize.None, optimize.ComposeResampleNo, nil)

	first := c.StoreIfAbsent("key", p1)
	second := c.StoreIfAbsent("key", p2)

	if first != p1 {
		t.Fatal("expected first store to win")
	}
	if second != p1 {
		t.Fatal("expected second store to return the existing entry, not its own")
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 cache entry, got %d", c.Len())
	}
}

func TestProcessorCacheEnableDisable(t *testing.T) {
	c := NewCache()
	var v opvec.Vector
	v.Push(opvec.New(opdata.NewIdentityMatrix(opdata.Forward)))
	p, _ := New(v, optimize.None, optimize.ComposeResampleNo, nil)
	c.StoreIfAbsent("key", p)

	c.SetEnabled(false)
	if _, ok := c.Get("key"); ok {
		t.Fatal("expected disabled cache to report a miss")
	}
	c.SetEnabled(true)
	if _, ok := c.Get("key"); !ok {
		t.Fatal("expected re-enabled cache to still hold the entry")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatal("expected Clear to empty the cache")
	}
}

func TestProcessorDynamicExposureContrast(t *testing.T) {
	props := NewPropertySet()
	key := props.NewKey()
	ec := opdata.NewExposureContrast(opdata.Forward, opdata.ECLinear, 0, 1, 1, 0)
	ec.Key = key

	var v opvec.Vector
	v.Push(opvec.New(ec))
	p, err := New(v, optimize.None, optimize.ComposeResampleNo, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.props = props

	props.SetExposureContrast(key, ECValue{Exposure: 1, Contrast: 1, Gamma: 1, Pivot: 0})
	buf := []float32{0.25, 0.25, 0.25, 1}
	if err := p.Apply(buf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if math.Abs(float64(buf[0]-0.5)) > 1e-5 {
		t.Errorf("exposure +1 stop: got %v want 0.5", buf[0])
	}

	props.SetExposureContrast(key, ECValue{Exposure: 2, Contrast: 1, Gamma: 1, Pivot: 0})
	buf2 := []float32{0.25, 0.25, 0.25, 1}
	if err := p.Apply(buf2); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if math.Abs(float64(buf2[0]-1.0)) > 1e-5 {
		t.Errorf("exposure +2 stops: got %v want 1.0", buf2[0])
	}
}

func TestProcessorIsNoOp(t *testing.T) {
	var v opvec.Vector
	v.Push(opvec.New(opdata.NewIdentityMatrix(opdata.Forward)))
	p, err := New(v, optimize.IdentityGaps, optimize.ComposeResampleNo, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !p.IsNoOp() {
		t.Fatal("expected identity-only processor to report IsNoOp")
	}
}
