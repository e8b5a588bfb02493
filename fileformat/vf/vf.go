/*
DESCRIPTION
  vf.go implements the Nuke .vf adapter (spec §4.C): header
  `#Inventor V2.1 ascii`, `grid_size X Y Z` (only equal sizes supported),
  an optional `global_transform` 4x4 pre-scaled by grid size, then `data`
  followed by X*Y*Z triples stored blue-fastest in the file; opdata.Lut3D
  wants red-fastest, so Read reorders. The global_transform, when
  present, is un-prescaled back to a plain Matrix op (Nuke stores it
  pre-multiplied by the grid size).

  Grounded on original_source/src/OpenColorIO/fileformats/FileFormatVF.cpp.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vf implements the Nuke .vf file-format adapter.
package vf

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

type format struct{}

func (format) Name() string               { return "nuke_vf" }
func (format) Extension() string          { return "vf" }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

func init() { fileformat.Register(format{}) }

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0

	if !sc.Scan() {
		return nil, fmt.Errorf("vf: %s: empty file", path)
	}
	lineNo++
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(sc.Text())), "#inventor") {
		return nil, fmt.Errorf("vf: %s:%d: expecting '#Inventor V2.1 ascii'", path, lineNo)
	}

	var size [3]int
	var globalTransform []float64
	inData := false
	var raw []float64

	for sc.Scan() {
		lineNo++
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if !inData {
			switch fields[0] {
			case "grid_size":
				if len(fields) != 4 {
					return nil, fmt.Errorf("vf: %s:%d: malformed grid_size tag", path, lineNo)
				}
				for i := 0; i < 3; i++ {
					n, err := strconv.Atoi(fields[i+1])
					if err != nil {
						return nil, fmt.Errorf("vf: %s:%d: malformed grid_size tag", path, lineNo)
					}
					size[i] = n
				}
				if size[0] != size[1] || size[0] != size[2] {
					return nil, fmt.Errorf("vf: %s:%d: only equal grid size LUTs are supported, found %dx%dx%d", path, lineNo, size[0], size[1], size[2])
				}
			case "global_transform":
				if len(fields) != 17 {
					return nil, fmt.Errorf("vf: %s:%d: malformed global_transform tag, 16 floats expected", path, lineNo)
				}
				globalTransform = make([]float64, 16)
				for i := 0; i < 16; i++ {
					v, err := strconv.ParseFloat(fields[i+1], 64)
					if err != nil {
						return nil, fmt.Errorf("vf: %s:%d: malformed global_transform tag", path, lineNo)
					}
					globalTransform[i] = v
				}
			case "data":
				inData = true
			}
			continue
		}
		if len(fields) != 3 {
			continue
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("vf: %s:%d: malformed sample %q", path, lineNo, line)
			}
			raw = append(raw, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "vf")
	}

	edge := size[0]
	want := edge * edge * edge
	if want != len(raw)/3 {
		return nil, fmt.Errorf("vf: %s: incorrect number of 3D LUT entries. found %d, expected %d", path, len(raw)/3, want)
	}
	if want == 0 {
		return nil, fmt.Errorf("vf: %s: no 3D LUT entries found", path)
	}

	// Reorder blue-fastest file data into opdata's red-fastest storage.
	samples := make([]float32, len(raw))
	i := 0
	for rr := 0; rr < edge; rr++ {
		for gg := 0; gg < edge; gg++ {
			for bb := 0; bb < edge; bb++ {
				dst := (bb*edge*edge + gg*edge + rr) * 3
				samples[dst+0] = float32(raw[i+0])
				samples[dst+1] = float32(raw[i+1])
				samples[dst+2] = float32(raw[i+2])
				i += 3
			}
		}
	}

	var ops []opdata.OpData
	if globalTransform != nil {
		// Nuke pre-scales the transform by the grid size; undo that.
		var m [16]float64
		for row := 0; row < 4; row++ {
			m[row*4+0] = globalTransform[row*4+0] * float64(size[0])
			m[row*4+1] = globalTransform[row*4+1] * float64(size[1])
			m[row*4+2] = globalTransform[row*4+2] * float64(size[2])
			m[row*4+3] = globalTransform[row*4+3]
		}
		mtx := opdata.NewMatrix(opdata.Forward, m, [4]float64{})
		if !mtx.IsIdentity() {
			ops = append(ops, mtx)
		}
	}

	lut := opdata.NewLut3D(opdata.Forward, edge, samples, opdata.InterpLinear)
	lut.Bits = opdata.BitDepth32f
	ops = append(ops, lut)

	return &fileformat.CachedFile{Ops: ops, FileOutputBitDepth: opdata.BitDepth32f}, nil
}
