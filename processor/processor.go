/*
DESCRIPTION
  processor implements the Processor type: an immutable, finalized op
  vector plus the content hash that keyed its cache slot (spec §3/§4.G),
  its dynamic-property table, and the process-wide Cache/FileCache with
  at-most-once insertion semantics (spec §5).

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

	"github.com/ausocean/colorcore/eval"
	"github.com/ausocean/colorcore/opvec"
	"github.com/ausocean/colorcore/optimize"
)

// Processor is an immutable, finalized op vector ready for evaluation.
// It is safe to share across goroutines (spec §5).
type Processor struct {
	ops      opvec.Vector
	cacheID  string
	props    *PropertySet
	GroupOps []GroupTransform
}

// GroupTransform is one entry of the ordered list Processor's
// CreateGroupTransform returns: the public transform that contributed a
// segment of ops, kept for round-tripping and writing (spec §4.G).
type GroupTransform struct {
	Name string
	Ops  opvec.Vector
}

// New finalizes v with optimize.Run and wraps the result in a
// Processor. v is not mutated.
func New(v opvec.Vector, flags optimize.Flags, strategy optimize.ComposeStrategy, groups []GroupTransform) (*Processor, error) {
	finalized, err := optimize.Run(v, flags, strategy)
	if err != nil {
		return nil, err
	}
	compiled := eval.Compile(finalized)
	return &Processor{
		ops:      compiled,
		cacheID:  compiled.ContentHash(),
		props:    NewPropertySet(),
		GroupOps: groups,
	}, nil
}

// Apply runs p's finalized ops over buf, an interleaved RGBA float32
// buffer.
func (p *Processor) Apply(buf []float32) error {
	return eval.Apply(p.resolveDynamic(), buf)
}

// resolveDynamic substitutes any dynamic-property-bearing op's current
// PropertySet value before apply, without mutating p.ops (spec §9:
// "changing the property between two Apply calls... changes behavior").
func (p *Processor) resolveDynamic() opvec.Vector {
	if !p.props.hasAny() {
		return p.ops
	}
	out := make(opvec.Vector, len(p.ops))
	for i, op := range p.ops {
		out[i] = p.props.bind(op)
	}
	return out
}

func (p *Processor) IsNoOp() bool              { return eval.IsNoOp(p.ops) }
func (p *Processor) HasChannelCrosstalk() bool { return eval.HasChannelCrosstalk(p.ops) }
func (p *Processor) CacheID() string           { return p.cacheID }
func (p *Processor) Properties() *PropertySet  { return p.props }

// CreateGroupTransform returns the ordered list of public transforms
// that produced this Processor (spec §4.G).
func (p *Processor) CreateGroupTransform() []GroupTransform { return p.GroupOps }

// GetOptimizedProcessor re-optimizes p's underlying ops under new flags
// and returns an equivalent Processor (spec §4.G).
func (p *Processor) GetOptimizedProcessor(flags optimize.Flags, strategy optimize.ComposeStrategy) (*Processor, error) {
	return New(p.ops, flags, strategy, p.GroupOps)
}

// Cache maps a request fingerprint to a Processor, process-wide, with
// at-most-once insertion: concurrent misses for the same key may both
// build, but only the first Store wins (spec §5).
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Processor
	enabled bool
}

// NewCache returns an empty, enabled Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Processor), enabled: true}
}

// SetEnabled toggles the cache without clearing it (spec §4.G's
// PROCESSOR_CACHE_ENABLED flag).
func (c *Cache) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Get returns the cached Processor for key, if present and the cache is
// enabled.
func (c *Cache) Get(key string) (*Processor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return nil, false
	}
	p, ok := c.entries[key]
	return p, ok
}

// StoreIfAbsent inserts p under key iff no entry is already present,
// and returns whichever Processor now occupies that slot (at-most-once
// insertion: the first successful Store wins for all concurrent
// callers).
func (c *Cache) StoreIfAbsent(key string, p *Processor) *Processor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = p
	return p
}

// Clear empties the cache (spec §4.G's clear_processor_cache).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Processor)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
