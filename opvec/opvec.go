/*
DESCRIPTION
  opvec implements the op vector: an ordered, mutable sequence of Op
  values carrying a direction tag. It supports the push/insert/erase/
  concat operations the pipeline builder and optimizer need, plus
  per-op and whole-vector content hashing used as cache keys.

  Vectors are not safe for concurrent mutation; callers synchronize
  edits externally (see processor package for the point at which a
  Vector is finalized into an immutable Processor).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package opvec

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/opdata"
)

// Kernel is the compiled per-pixel apply function for an Op. It is nil
// until the eval package compiles a finalized Vector.
type Kernel func(p *[4]float32)

// Op carries a reference to an OpData payload, the direction it runs
// in, and (once compiled) its CPU kernel.
type Op struct {
	Data   opdata.OpData
	Dir    opdata.Direction
	Kernel Kernel
}

// New wraps data in an Op using data's own direction.
func New(data opdata.OpData) Op {
	return Op{Data: data, Dir: data.Direction()}
}

func (o Op) IsIdentity() bool          { return o.Data.IsIdentity() }
func (o Op) IsNoOp() bool              { return o.Data.IsNoOp() }
func (o Op) HasChannelCrosstalk() bool { return o.Data.HasChannelCrosstalk() }

// IsInverseOf reports whether o undoes other: o's analytic reverse has
// the same content hash as other, and their directions oppose.
func (o Op) IsInverseOf(other Op) bool {
	if o.Dir == other.Dir {
		return false
	}
	flipped := o.Data.WithDirection(o.Dir.Opposite())
	return flipped.CacheID() == other.Data.CacheID()
}

// Apply runs the op's kernel if compiled, else falls back to the
// OpData's own Apply. Finalized, compiled vectors should always use
// the Kernel path; the fallback exists so an un-compiled Vector can
// still be exercised directly (tests, one-off tooling).
func (o Op) Apply(p *[4]float32) {
	if o.Kernel != nil {
		o.Kernel(p)
		return
	}
	o.Data.Apply(p)
}

// Clone deep-copies the Op's OpData. The Kernel pointer is dropped;
// clones must be re-compiled before use.
func (o Op) Clone() Op {
	return Op{Data: o.Data.Clone(), Dir: o.Dir}
}

// Vector is an ordered, zero-based, mutable sequence of ops.
type Vector []Op

// Push appends op to the end of v.
func (v *Vector) Push(op Op) {
	*v = append(*v, op)
}

// Insert splices ops into v starting at pos.
func (v *Vector) Insert(pos int, ops ...Op) error {
	if pos < 0 || pos > len(*v) {
		return fmt.Errorf("opvec: insert position %d out of range [0,%d]", pos, len(*v))
	}
	if len(ops) == 0 {
		return nil
	}
	tail := append([]Op(nil), (*v)[pos:]...)
	out := append((*v)[:pos:pos], ops...)
	*v = append(out, tail...)
	return nil
}

// Erase removes the half-open range [start, end) from v.
func (v *Vector) Erase(start, end int) error {
	n := len(*v)
	if start < 0 || end > n || start > end {
		return fmt.Errorf("opvec: erase range [%d,%d) out of bounds for length %d", start, end, n)
	}
	*v = append((*v)[:start:start], (*v)[end:]...)
	return nil
}

// Concat appends other's ops to v in place.
func (v *Vector) Concat(other Vector) {
	*v = append(*v, other...)
}

// Validate runs each op's OpData validation, tagging failures with
// their position.
func (v Vector) Validate() error {
	for i, op := range v {
		if err := op.Data.Validate(); err != nil {
			return errors.Wrapf(err, "opvec: op %d (%s)", i, op.Data.Kind())
		}
	}
	return nil
}

// IsNoOp reports whether every op in v is currently an identity. The
// spec's "true iff after optimization all ops are identities" holds
// when this is called on a Vector that has already been through
// optimize.Run; called on an un-optimized Vector it is a conservative
// check (adjacent non-identity ops that would cancel after combining
// are not detected here).
func (v Vector) IsNoOp() bool {
	for _, op := range v {
		if !op.IsIdentity() {
			return false
		}
	}
	return true
}

// Clone deep-copies v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for i, op := range v {
		out[i] = op.Clone()
	}
	return out
}

// ContentHash returns a hex SHA-1 digest over the ordered sequence of
// per-op cache IDs and directions, used as the processor/file cache
// key (spec §6's stated default hash, reused here for op-level content
// hashing per spec §4.B).
func (v Vector) ContentHash() string {
	h := sha1.New()
	for _, op := range v {
		var dirByte [1]byte
		if op.Dir == opdata.Inverse {
			dirByte[0] = 1
		}
		h.Write(dirByte[:])
		id := op.Data.CacheID()
		var lenBuf [8]byte
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(id)))
		h.Write(lenBuf[:])
		h.Write([]byte(id))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// String renders a short human-readable trace of v, one op kind per
// line, for diagnostics.
func (v Vector) String() string {
	s := ""
	for i, op := range v {
		s += fmt.Sprintf("%d: %s (%s)\n", i, op.Data.Kind(), op.Dir)
	}
	return s
}
