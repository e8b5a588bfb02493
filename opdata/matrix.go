/*
DESCRIPTION
  matrix.go implements the Matrix OpData variant: a 4x4 scale/mix matrix
  plus a 4-vector offset, q = M*p + o.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package opdata

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const identityTolerance = 1e-9

// Matrix is a 4x4 matrix of f64 plus a 4-vector offset: q = M*p + o.
type Matrix struct {
	dir  Direction
	M    [16]float64 // row-major, 4x4
	Offs [4]float64
	Bits BitDepth
	Meta *FormatMetadata
}

// NewIdentityMatrix returns the identity matrix op (no offset).
func NewIdentityMatrix(dir Direction) *Matrix {
	m := &Matrix{dir: dir, Meta: emptyMetadata("Matrix")}
	for i := 0; i < 4; i++ {
		m.M[i*4+i] = 1
	}
	return m
}

// NewMatrix builds a Matrix op from a row-major 4x4 and an offset.
func NewMatrix(dir Direction, m [16]float64, offs [4]float64) *Matrix {
	return &Matrix{dir: dir, M: m, Offs: offs, Meta: emptyMetadata("Matrix")}
}

func (m *Matrix) Direction() Direction { return m.dir }

func (m *Matrix) WithDirection(d Direction) OpData {
	if d == m.dir {
		return m.Clone()
	}
	inv, err := m.invert()
	if err != nil {
		// No exact analytic inverse (singular matrix); fall back to a
		// direction-flagged copy. Optimizer direction folding (spec §4.E
		// step 4) only applies this path when invert succeeds; evaluating
		// a singular inverse matrix is a build-time Validate() failure,
		// not a runtime one.
		c := m.Clone().(*Matrix)
		c.dir = d
		return c
	}
	return inv
}

// invert returns the analytic inverse of m (direction flipped), or an
// error if the matrix is singular.
func (m *Matrix) invert() (*Matrix, error) {
	a := mat.NewDense(4, 4, m.M[:])
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, errors.Wrap(err, "matrix: singular, cannot invert")
	}
	out := &Matrix{dir: m.dir.Opposite(), Bits: m.Bits, Meta: m.Meta.Clone()}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.M[r*4+c] = inv.At(r, c)
		}
	}
	// offset' = -M^-1 * offset
	off := mat.NewVecDense(4, m.Offs[:])
	var res mat.VecDense
	res.MulVec(&inv, off)
	for i := 0; i < 4; i++ {
		out.Offs[i] = -res.AtVec(i)
	}
	return out, nil
}

func (m *Matrix) Clone() OpData {
	c := *m
	c.Meta = m.Meta.Clone()
	return &c
}

func (m *Matrix) Validate() error {
	if m.dir == Inverse {
		if _, err := m.invert(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Matrix) IsIdentity() bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want := 0.0
			if r == c {
				want = 1.0
			}
			if math.Abs(m.M[r*4+c]-want) > identityTolerance {
				return false
			}
		}
	}
	for i := 0; i < 4; i++ {
		if math.Abs(m.Offs[i]) > identityTolerance {
			return false
		}
	}
	return true
}

func (m *Matrix) IsNoOp() bool               { return m.IsIdentity() }
func (m *Matrix) HasChannelCrosstalk() bool  { return false }
func (m *Matrix) Metadata() *FormatMetadata  { return m.Meta }
func (m *Matrix) FileOutputBitDepth() BitDepth { return m.Bits }
func (m *Matrix) Kind() string               { return "Matrix" }

func (m *Matrix) CacheID() string {
	h := sha1.New()
	h.Write([]byte("Matrix"))
	binary.Write(h, binary.LittleEndian, int32(m.dir))
	binary.Write(h, binary.LittleEndian, m.M)
	binary.Write(h, binary.LittleEndian, m.Offs)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// MultiplyMatrix composes two matrices: result.apply(p) == b.apply(a.apply(p)),
// i.e. a is applied first. (spec §4.E step 5: Matrix · Matrix -> Matrix.)
func MultiplyMatrix(a, b *Matrix) *Matrix {
	am := mat.NewDense(4, 4, a.M[:])
	bm := mat.NewDense(4, 4, b.M[:])
	var rm mat.Dense
	rm.Mul(bm, am)

	aoff := mat.NewVecDense(4, a.Offs[:])
	var boffTerm mat.VecDense
	boffTerm.MulVec(bm, aoff)

	out := &Matrix{dir: a.dir, Bits: a.Bits, Meta: Combine(a.Meta, b.Meta)}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.M[r*4+c] = rm.At(r, c)
		}
		out.Offs[r] = boffTerm.AtVec(r) + b.Offs[r]
	}
	return out
}

// Apply computes M*p + o for a single RGBA pixel, in place. Alpha (index
// 3) passes through the 4th row/offset exactly like the other channels;
// callers that want alpha preserved use an identity 4th row.
func (m *Matrix) Apply(p *[4]float32) {
	var in [4]float64
	for i := range in {
		in[i] = float64(p[i])
	}
	for r := 0; r < 4; r++ {
		sum := m.Offs[r]
		for c := 0; c < 4; c++ {
			sum += m.M[r*4+c] * in[c]
		}
		p[r] = float32(sum)
	}
}
