/*
DESCRIPTION
  spi.go implements the three Sony Pictures Imageworks LUT formats (spec
  §4.C): .spi1d (`Version 1` / `From a b` / `Length N` / `Components C`
  then N rows of C floats), .spi3d (`SPILUT 1.0` / `3 3` / `L L L` then
  indexed quads `ri gi bi r g b`), and .spimtx (12 floats: a row-major
  3x4 matrix, implicitly extended to 4x4 with an identity 4th row/col).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package spi implements the SPI 1D/3D/Matrix file-format adapters.
package spi

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/fileformat"
	"github.com/ausocean/colorcore/opdata"
)

func init() {
	fileformat.Register(lut1DFormat{})
	fileformat.Register(lut3DFormat{})
	fileformat.Register(matrixFormat{})
}

func fields(line string) []string { return strings.Fields(strings.TrimSpace(line)) }

// --- spi1d ---

type lut1DFormat struct{}

func (lut1DFormat) Name() string               { return "spi1d" }
func (lut1DFormat) Extension() string          { return "spi1d" }
func (lut1DFormat) Caps() fileformat.Capability { return fileformat.CapRead }

func (lut1DFormat) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	var from [2]float64
	length := 0
	components := 0
	var raw []float64

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := fields(line)
		switch f[0] {
		case "Version":
			// Accepted, value not otherwise consulted.
		case "From":
			if len(f) != 3 {
				return nil, fmt.Errorf("spi1d: %s:%d: malformed From tag", path, lineNo)
			}
			a, err1 := strconv.ParseFloat(f[1], 64)
			b, err2 := strconv.ParseFloat(f[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("spi1d: %s:%d: malformed From tag", path, lineNo)
			}
			from = [2]float64{a, b}
		case "Length":
			if len(f) != 2 {
				return nil, fmt.Errorf("spi1d: %s:%d: malformed Length tag", path, lineNo)
			}
			n, err := strconv.Atoi(f[1])
			if err != nil {
				return nil, fmt.Errorf("spi1d: %s:%d: malformed Length tag", path, lineNo)
			}
			length = n
		case "Components":
			if len(f) != 2 {
				return nil, fmt.Errorf("spi1d: %s:%d: malformed Components tag", path, lineNo)
			}
			n, err := strconv.Atoi(f[1])
			if err != nil {
				return nil, fmt.Errorf("spi1d: %s:%d: malformed Components tag", path, lineNo)
			}
			components = n
		case "{":
			continue
		case "}":
			continue
		default:
			for _, tok := range f {
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, fmt.Errorf("spi1d: %s:%d: malformed sample %q", path, lineNo, line)
				}
				raw = append(raw, v)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "spi1d")
	}
	if components != 1 && components != 3 {
		return nil, fmt.Errorf("spi1d: %s: Components must be 1 or 3, got %d", path, components)
	}
	if length*components != len(raw) {
		return nil, fmt.Errorf("spi1d: %s: expected %d samples, found %d", path, length*components, len(raw))
	}

	var ops []opdata.OpData
	domainRange := opdata.NewRange(opdata.Forward,
		opdata.SetBound(from[0]), opdata.SetBound(from[1]),
		opdata.SetBound(0), opdata.SetBound(1))
	if from[0] != 0 || from[1] != 1 {
		ops = append(ops, domainRange)
	}

	samples := make([][]float32, length)
	for i := 0; i < length; i++ {
		row := make([]float32, components)
		for c := 0; c < components; c++ {
			row[c] = float32(raw[i*components+c])
		}
		samples[i] = row
	}
	lut := opdata.NewLut1D(opdata.Forward, components, samples, opdata.InterpLinear, opdata.HueAdjustNone, false)
	ops = append(ops, lut)

	return &fileformat.CachedFile{Ops: ops}, nil
}

// --- spi3d ---

type lut3DFormat struct{}

func (lut3DFormat) Name() string               { return "spi3d" }
func (lut3DFormat) Extension() string          { return "spi3d" }
func (lut3DFormat) Caps() fileformat.Capability { return fileformat.CapRead }

func (lut3DFormat) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	var edge int
	var samples []float32
	haveHeader := false
	haveDims := false

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := fields(line)
		switch {
		case !haveHeader:
			if f[0] != "SPILUT" {
				return nil, fmt.Errorf("spi3d: %s:%d: expected SPILUT header", path, lineNo)
			}
			haveHeader = true
		case !haveDims:
			if len(f) != 2 || f[0] != "3" || f[1] != "3" {
				return nil, fmt.Errorf("spi3d: %s:%d: only 3-in/3-out LUTs are supported", path, lineNo)
			}
			haveDims = true
		case edge == 0:
			if len(f) != 3 {
				return nil, fmt.Errorf("spi3d: %s:%d: malformed grid size line", path, lineNo)
			}
			n, err := strconv.Atoi(f[0])
			if err != nil || f[0] != f[1] || f[1] != f[2] {
				return nil, fmt.Errorf("spi3d: %s:%d: only equal grid size LUTs are supported", path, lineNo)
			}
			edge = n
			samples = make([]float32, edge*edge*edge*3)
		default:
			if len(f) != 6 {
				return nil, fmt.Errorf("spi3d: %s:%d: expected 'ri gi bi r g b'", path, lineNo)
			}
			idx := make([]int, 3)
			for i := 0; i < 3; i++ {
				n, err := strconv.Atoi(f[i])
				if err != nil {
					return nil, fmt.Errorf("spi3d: %s:%d: malformed index", path, lineNo)
				}
				idx[i] = n
			}
			dst := (idx[2]*edge*edge + idx[1]*edge + idx[0]) * 3
			for c := 0; c < 3; c++ {
				v, err := strconv.ParseFloat(f[3+c], 64)
				if err != nil {
					return nil, fmt.Errorf("spi3d: %s:%d: malformed value", path, lineNo)
				}
				samples[dst+c] = float32(v)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "spi3d")
	}
	if edge == 0 {
		return nil, fmt.Errorf("spi3d: %s: no LUT data found", path)
	}
	lut := opdata.NewLut3D(opdata.Forward, edge, samples, opdata.InterpLinear)
	return &fileformat.CachedFile{Ops: []opdata.OpData{lut}}, nil
}

// --- spimtx ---

type matrixFormat struct{}

func (matrixFormat) Name() string               { return "spimtx" }
func (matrixFormat) Extension() string          { return "spimtx" }
func (matrixFormat) Caps() fileformat.Capability { return fileformat.CapRead }

func (matrixFormat) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	var raw []float64
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		for _, tok := range fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("spimtx: %s: malformed value %q", path, tok)
			}
			raw = append(raw, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "spimtx")
	}
	if len(raw) != 12 {
		return nil, fmt.Errorf("spimtx: %s: expected 12 values (3x4 matrix), found %d", path, len(raw))
	}
	var m [16]float64
	var offs [4]float64
	for r := 0; r < 3; r++ {
		m[r*4+0] = raw[r*4+0]
		m[r*4+1] = raw[r*4+1]
		m[r*4+2] = raw[r*4+2]
		offs[r] = raw[r*4+3]
	}
	m[3*4+3] = 1
	mtx := opdata.NewMatrix(opdata.Forward, m, offs)
	return &fileformat.CachedFile{Ops: []opdata.OpData{mtx}}, nil
}
