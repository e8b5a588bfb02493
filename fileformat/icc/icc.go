/*
DESCRIPTION
  icc.go implements a matrix/TRC ICC display-profile adapter (spec §4.C):
  the rXYZ/gXYZ/bXYZ colorant tags become a device-RGB-to-PCS-XYZ Matrix,
  and the rTRC/gTRC/bTRC tone-response curves become a 1D shaper LUT
  applied before it. Only the matrix/TRC profile class is supported (the
  common case for display profiles); LUT-based (AToB/BToA) and gray-TRC
  profiles are out of scope for this adapter.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package icc implements a matrix/TRC ICC profile adapter.
package icc

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/fileformat"
	"github.com/ausocean/colorcore/opdata"
)

func init() { fileformat.Register(format{}) }

type format struct{}

func (format) Name() string               { return "icc" }
func (format) Extension() string          { return "icc" }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

const (
	tagRedMatrixColumn   = "rXYZ"
	tagGreenMatrixColumn = "gXYZ"
	tagBlueMatrixColumn  = "bXYZ"
	tagRedTRC            = "rTRC"
	tagGreenTRC          = "gTRC"
	tagBlueTRC           = "bTRC"
)

type tagEntry struct {
	sig          string
	offset, size uint32
}

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "icc: %s", path)
	}
	if len(data) < 132 {
		return nil, fmt.Errorf("icc: %s: file too small to be an ICC profile", path)
	}

	tagCount := binary.BigEndian.Uint32(data[128:132])
	tags := make(map[string]tagEntry, tagCount)
	for i := uint32(0); i < tagCount; i++ {
		base := 132 + i*12
		if int(base+12) > len(data) {
			return nil, fmt.Errorf("icc: %s: truncated tag table", path)
		}
		sig := string(data[base : base+4])
		off := binary.BigEndian.Uint32(data[base+4 : base+8])
		sz := binary.BigEndian.Uint32(data[base+8 : base+12])
		tags[sig] = tagEntry{sig: sig, offset: off, size: sz}
	}

	rXYZ, err := readXYZTag(data, tags, tagRedMatrixColumn)
	if err != nil {
		return nil, errors.Wrapf(err, "icc: %s", path)
	}
	gXYZ, err := readXYZTag(data, tags, tagGreenMatrixColumn)
	if err != nil {
		return nil, errors.Wrapf(err, "icc: %s", path)
	}
	bXYZ, err := readXYZTag(data, tags, tagBlueMatrixColumn)
	if err != nil {
		return nil, errors.Wrapf(err, "icc: %s", path)
	}

	rTRC, err := readCurveTag(data, tags, tagRedTRC)
	if err != nil {
		return nil, errors.Wrapf(err, "icc: %s", path)
	}
	gTRC, err := readCurveTag(data, tags, tagGreenTRC)
	if err != nil {
		return nil, errors.Wrapf(err, "icc: %s", path)
	}
	bTRC, err := readCurveTag(data, tags, tagBlueTRC)
	if err != nil {
		return nil, errors.Wrapf(err, "icc: %s", path)
	}

	n := len(rTRC)
	if len(gTRC) != n || len(bTRC) != n {
		return nil, fmt.Errorf("icc: %s: mismatched TRC curve lengths", path)
	}

	var ops []opdata.OpData
	if n > 1 {
		samples := make([][]float32, n)
		for i := 0; i < n; i++ {
			samples[i] = []float32{rTRC[i], gTRC[i], bTRC[i]}
		}
		shaper := opdata.NewLut1D(opdata.Forward, 3, samples, opdata.InterpLinear, opdata.HueAdjustNone, false)
		if !shaper.IsIdentity() {
			ops = append(ops, shaper)
		}
	}

	mat := [16]float64{
		rXYZ[0], gXYZ[0], bXYZ[0], 0,
		rXYZ[1], gXYZ[1], bXYZ[1], 0,
		rXYZ[2], gXYZ[2], bXYZ[2], 0,
		0, 0, 0, 1,
	}
	matrix := opdata.NewMatrix(opdata.Forward, mat, [4]float64{})
	ops = append(ops, matrix)

	return &fileformat.CachedFile{Ops: ops}, nil
}

func readXYZTag(data []byte, tags map[string]tagEntry, sig string) ([3]float64, error) {
	e, ok := tags[sig]
	if !ok {
		return [3]float64{}, fmt.Errorf("missing required tag %q", sig)
	}
	body := sliceTag(data, e)
	if len(body) < 20 || string(body[0:4]) != "XYZ " {
		return [3]float64{}, fmt.Errorf("tag %q: malformed XYZType", sig)
	}
	x := s15Fixed16(body, 8)
	y := s15Fixed16(body, 12)
	z := s15Fixed16(body, 16)
	return [3]float64{x, y, z}, nil
}

// readCurveTag decodes a curveType tag into a normalized [0,1] LUT sample
// table. A zero-length curve is the identity (linear gamma 1.0); a
// single-entry curve is a pure gamma encoded as an 8.8 fixed-point value.
func readCurveTag(data []byte, tags map[string]tagEntry, sig string) ([]float32, error) {
	e, ok := tags[sig]
	if !ok {
		return nil, fmt.Errorf("missing required tag %q", sig)
	}
	body := sliceTag(data, e)
	if len(body) < 12 || string(body[0:4]) != "curv" {
		return nil, fmt.Errorf("tag %q: unsupported TRC type (only curveType is supported)", sig)
	}
	count := binary.BigEndian.Uint32(body[8:12])
	switch count {
	case 0:
		return []float32{0, 1}, nil
	case 1:
		gamma := float64(binary.BigEndian.Uint16(body[12:14])) / 256.0
		const steps = 256
		out := make([]float32, steps)
		for i := 0; i < steps; i++ {
			x := float64(i) / float64(steps-1)
			out[i] = float32(math.Pow(x, gamma))
		}
		return out, nil
	default:
		if len(body) < int(12+2*count) {
			return nil, fmt.Errorf("tag %q: truncated curve data", sig)
		}
		out := make([]float32, count)
		for i := uint32(0); i < count; i++ {
			v := binary.BigEndian.Uint16(body[12+2*i : 14+2*i])
			out[i] = float32(v) / 65535.0
		}
		return out, nil
	}
}

func sliceTag(data []byte, e tagEntry) []byte {
	start, end := int(e.offset), int(e.offset+e.size)
	if start < 0 || end > len(data) || start > end {
		return nil
	}
	return data[start:end]
}

func s15Fixed16(data []byte, off int) float64 {
	v := int32(binary.BigEndian.Uint32(data[off : off+4]))
	return float64(v) / 65536.0
}

