/*
DESCRIPTION
  propertyset.go implements the dynamic-property table ExposureContrast
  and GradingRGBCurve ops reference by key (spec §9): atomic scalar
  storage for exposure/contrast/gamma/pivot, mutex-guarded storage for
  grading curves, and a typed setter per kind.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package processor

import (
	"sync"
	"sync/atomic"

	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/opvec"
)

// ECValue is the live (exposure, contrast, gamma, pivot) tuple an
// ExposureContrast op reads when its Key is set.
type ECValue struct {
	Exposure, Contrast, Gamma, Pivot float64
}

// PropertySet is a mutex-guarded table of dynamic property values keyed
// by opdata.PropertyKey, shared by every op across every Processor built
// from the same builder session (spec §9). Scalar EC values are stored
// behind atomic.Value to keep reads off the mutex on the apply-time hot
// path; curve values are stored behind the table's own mutex since a
// [3]GradingCurve is too large to make a useful atomic.Value payload.
type PropertySet struct {
	mu     sync.RWMutex
	next   uint64
	ec     map[opdata.PropertyKey]*atomic.Value // holds ECValue
	curves map[opdata.PropertyKey]*curveSlot
}

type curveSlot struct {
	mu     sync.RWMutex
	curves [3]opdata.GradingCurve
}

// NewPropertySet returns an empty table.
func NewPropertySet() *PropertySet {
	return &PropertySet{
		ec:     make(map[opdata.PropertyKey]*atomic.Value),
		curves: make(map[opdata.PropertyKey]*curveSlot),
	}
}

// NewKey allocates a fresh PropertyKey, never returning opdata.NoProperty.
func (s *PropertySet) NewKey() opdata.PropertyKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return opdata.PropertyKey(s.next)
}

// SetExposureContrast installs or updates the live value for key. The
// key must have been allocated by NewKey and referenced by an
// ExposureContrast op's Key field.
func (s *PropertySet) SetExposureContrast(key opdata.PropertyKey, v ECValue) {
	s.mu.Lock()
	slot, ok := s.ec[key]
	if !ok {
		slot = &atomic.Value{}
		s.ec[key] = slot
	}
	s.mu.Unlock()
	slot.Store(v)
}

func (s *PropertySet) getExposureContrast(key opdata.PropertyKey) (ECValue, bool) {
	s.mu.RLock()
	slot, ok := s.ec[key]
	s.mu.RUnlock()
	if !ok {
		return ECValue{}, false
	}
	v, ok := slot.Load().(ECValue)
	return v, ok
}

// SetGradingCurve installs or updates the live curve set for key.
func (s *PropertySet) SetGradingCurve(key opdata.PropertyKey, curves [3]opdata.GradingCurve) {
	s.mu.Lock()
	slot, ok := s.curves[key]
	if !ok {
		slot = &curveSlot{}
		s.curves[key] = slot
	}
	s.mu.Unlock()
	slot.mu.Lock()
	slot.curves = curves
	slot.mu.Unlock()
}

func (s *PropertySet) getGradingCurve(key opdata.PropertyKey) ([3]opdata.GradingCurve, bool) {
	s.mu.RLock()
	slot, ok := s.curves[key]
	s.mu.RUnlock()
	if !ok {
		return [3]opdata.GradingCurve{}, false
	}
	slot.mu.RLock()
	defer slot.mu.RUnlock()
	return slot.curves, true
}

func (s *PropertySet) hasAny() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ec) > 0 || len(s.curves) > 0
}

// bind returns op unchanged unless its OpData carries a dynamic
// PropertyKey with a live value in s, in which case it returns a new Op
// whose Kernel reads the current value on every call (spec §9: changing
// a property between two Apply calls on the same Processor changes
// behavior).
func (s *PropertySet) bind(op opvec.Op) opvec.Op {
	switch d := op.Data.(type) {
	case *opdata.ExposureContrast:
		if d.Key == opdata.NoProperty {
			return op
		}
		if v, ok := s.getExposureContrast(d.Key); ok {
			ec := d
			bound := op
			bound.Kernel = func(p *[4]float32) { ec.Eval(p, v.Exposure, v.Contrast, v.Gamma, v.Pivot) }
			return bound
		}
	case *opdata.GradingRGBCurve:
		if d.Key == opdata.NoProperty {
			return op
		}
		if curves, ok := s.getGradingCurve(d.Key); ok {
			g := d
			bound := op
			bound.Kernel = func(p *[4]float32) { g.EvalWithCurves(p, curves) }
			return bound
		}
	}
	return op
}
