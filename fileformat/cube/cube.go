/*
DESCRIPTION
  cube.go implements the Iridas .cube adapter (spec §4.C): optional
  TITLE, mutually exclusive LUT_1D_SIZE/LUT_3D_SIZE, optional
  DOMAIN_MIN/DOMAIN_MAX (3 floats each, default 0/1), then 3-float
  sample lines. Builds a Range(domain_min -> 0, domain_max -> 1) then a
  Lut1D or Lut3D with an f32 output-bitdepth hint.

  Grammar and error-message wording grounded on
  original_source/src/OpenColorIO/fileformats/FileFormatIridasCube.cpp.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cube implements the Iridas .cube file-format adapter.
package cube

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/fileformat"
	"github.com/ausocean/colorcore/opdata"
)

type format struct{}

func (format) Name() string               { return "iridas_cube" }
func (format) Extension() string          { return "cube" }
func (format) Caps() fileformat.Capability { return fileformat.CapRead | fileformat.CapBake }

func init() { fileformat.Register(format{}) }

func errAt(path string, line int, content, msg string) error {
	return errors.Errorf("error parsing Iridas .cube file (%s). at line (%d): %q. %s", path, line, content, msg)
}

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0

	size1D, size3D := 0, 0
	domainMin := [3]float64{0, 0, 0}
	domainMax := [3]float64{1, 1, 1}
	var raw []float64

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "TITLE":
			// Ignored (spec §4.C).
		case "LUT_1D_SIZE":
			if len(fields) != 2 {
				return nil, errAt(path, lineNo, line, "Malformed LUT_1D_SIZE tag.")
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errAt(path, lineNo, line, "Malformed LUT_1D_SIZE value.")
			}
			if size3D != 0 {
				return nil, errAt(path, lineNo, line, "LUT_1D_SIZE and LUT_3D_SIZE are mutually exclusive.")
			}
			size1D = n
		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, errAt(path, lineNo, line, "Malformed LUT_3D_SIZE tag.")
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errAt(path, lineNo, line, "Malformed LUT_3D_SIZE value.")
			}
			if size1D != 0 {
				return nil, errAt(path, lineNo, line, "LUT_1D_SIZE and LUT_3D_SIZE are mutually exclusive.")
			}
			size3D = n
		case "DOMAIN_MIN":
			v, err := parseTriple(fields)
			if err != nil {
				return nil, errAt(path, lineNo, line, "Malformed DOMAIN_MIN tag.")
			}
			domainMin = v
		case "DOMAIN_MAX":
			v, err := parseTriple(fields)
			if err != nil {
				return nil, errAt(path, lineNo, line, "Malformed DOMAIN_MAX tag.")
			}
			domainMax = v
		default:
			if len(fields) != 3 {
				return nil, errAt(path, lineNo, line, "Malformed color triple.")
			}
			for _, f := range fields {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, errAt(path, lineNo, line, "Malformed value.")
				}
				raw = append(raw, v)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "cube: %s", path)
	}

	if size1D == 0 && size3D == 0 {
		return nil, errors.Errorf("cube: %s: no LUT_1D_SIZE or LUT_3D_SIZE tag found", path)
	}

	rangeOp := opdata.NewRange(opdata.Forward,
		opdata.SetBound(domainMin[0]), opdata.SetBound(domainMax[0]),
		opdata.SetBound(0), opdata.SetBound(1))

	var ops []opdata.OpData
	if !rangeOp.IsIdentity() {
		ops = append(ops, rangeOp)
	}

	switch {
	case size1D != 0:
		want := size1D * 3
		if len(raw) != want {
			return nil, errors.Errorf("cube: %s: incorrect number of 1D LUT entries: expected %d, found %d", path, size1D, len(raw)/3)
		}
		samples := make([][]float32, size1D)
		for i := 0; i < size1D; i++ {
			samples[i] = []float32{float32(raw[i*3]), float32(raw[i*3+1]), float32(raw[i*3+2])}
		}
		lut := opdata.NewLut1D(opdata.Forward, 3, samples, opdata.InterpLinear, opdata.HueAdjustNone, false)
		lut.Bits = opdata.BitDepth32f
		ops = append(ops, lut)
	case size3D != 0:
		want := size3D * size3D * size3D * 3
		if len(raw) != want {
			return nil, errors.Errorf("cube: %s: Incorrect number of 3D LUT entries: expected %d, found %d", path, size3D*size3D*size3D, len(raw)/3)
		}
		samples := make([]float32, len(raw))
		for i, v := range raw {
			samples[i] = float32(v)
		}
		lut := opdata.NewLut3D(opdata.Forward, size3D, samples, opdata.InterpLinear)
		lut.Bits = opdata.BitDepth32f
		ops = append(ops, lut)
	}

	return &fileformat.CachedFile{Ops: ops, FileOutputBitDepth: opdata.BitDepth32f}, nil
}

func parseTriple(fields []string) ([3]float64, error) {
	var out [3]float64
	if len(fields) != 4 {
		return out, errors.New("expected 3 values")
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
