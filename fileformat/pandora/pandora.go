/*
DESCRIPTION
  pandora.go implements the Pandora .mga/.m3d adapter (spec §4.C):
  token-based grammar (`channel 3d`, `in <N>`, `out <max>`, `format lut`,
  `values red green blue`, then `index R G B` integer quads). Only 3D
  LUTs are supported. Values are rescaled by 1/(max-1); file output
  bit-depth is inferred from `out`. The file stores samples blue-fastest;
  opdata.Lut3D wants red-fastest, so Read reorders on the way in.

  Grammar and the blue-fastest storage quirk grounded on
  original_source/src/OpenColorIO/fileformats/FileFormatPandora.cpp.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pandora implements the Pandora .mga/.m3d file-format adapter.
package pandora

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/fileformat"
	"github.com/ausocean/colorcore/opdata"
)

type format struct {
	name, ext string
}

func (f format) Name() string               { return f.name }
func (f format) Extension() string          { return f.ext }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

func init() {
	fileformat.Register(format{name: "pandora_mga", ext: "mga"})
	fileformat.Register(format{name: "pandora_m3d", ext: "m3d"})
}

func bitDepthFromMax(max int) opdata.BitDepth {
	switch {
	case max <= 256:
		return opdata.BitDepth8
	case max <= 1024:
		return opdata.BitDepth10
	case max <= 4096:
		return opdata.BitDepth12
	case max <= 16384:
		return opdata.BitDepth14
	default:
		return opdata.BitDepth16
	}
}

// edgeLenFromNumPixels returns the cube-root edge length for n total
// entries (n = edge^3), rounding to the nearest integer.
func edgeLenFromNumPixels(n int) int {
	return int(math.Round(math.Cbrt(float64(n))))
}

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	edge := 0
	outMax := 0
	inLut := false
	var raw []int // blue-fastest, RGB triples

	for sc.Scan() {
		lineNo++
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		switch parts[0] {
		case "channel":
			if len(parts) != 2 || parts[1] != "3d" {
				return nil, fmt.Errorf("pandora: %s:%d: only 3D LUTs are currently supported (channel: 3d)", path, lineNo)
			}
		case "in":
			if len(parts) != 2 {
				return nil, fmt.Errorf("pandora: %s:%d: malformed 'in' tag", path, lineNo)
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("pandora: %s:%d: malformed 'in' tag", path, lineNo)
			}
			edge = edgeLenFromNumPixels(n)
		case "out":
			if len(parts) != 2 {
				return nil, fmt.Errorf("pandora: %s:%d: malformed 'out' tag", path, lineNo)
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("pandora: %s:%d: malformed 'out' tag", path, lineNo)
			}
			outMax = n
		case "format":
			if len(parts) != 2 || parts[1] != "lut" {
				return nil, fmt.Errorf("pandora: %s:%d: only LUTs are currently supported (format: lut)", path, lineNo)
			}
		case "values":
			if len(parts) != 4 || parts[1] != "red" || parts[2] != "green" || parts[3] != "blue" {
				return nil, fmt.Errorf("pandora: %s:%d: only rgb LUTs are currently supported (values: red green blue)", path, lineNo)
			}
			inLut = true
		default:
			if !inLut {
				continue
			}
			if len(parts) != 4 {
				return nil, fmt.Errorf("pandora: %s:%d: expected to find 4 integers", path, lineNo)
			}
			var vals [4]int
			for i, p := range parts {
				v, err := strconv.Atoi(p)
				if err != nil {
					return nil, fmt.Errorf("pandora: %s:%d: expected to find 4 integers", path, lineNo)
				}
				vals[i] = v
			}
			raw = append(raw, vals[1], vals[2], vals[3])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "pandora")
	}

	if edge*edge*edge != len(raw)/3 {
		return nil, fmt.Errorf("pandora: %s: incorrect number of 3D LUT entries. found %d, expected %d", path, len(raw)/3, edge*edge*edge)
	}
	if edge*edge*edge == 0 {
		return nil, fmt.Errorf("pandora: %s: no 3D LUT entries found", path)
	}
	if outMax <= 0 {
		return nil, fmt.Errorf("pandora: %s: a valid 'out' tag was not found", path)
	}

	scale := 1.0 / (float64(outMax) - 1.0)
	samples := make([]float32, edge*edge*edge*3)
	// Reorder blue-fastest file data into opdata's red-fastest storage.
	i := 0
	for rr := 0; rr < edge; rr++ {
		for g := 0; g < edge; g++ {
			for b := 0; b < edge; b++ {
				dst := (b*edge*edge + g*edge + rr) * 3
				samples[dst+0] = float32(float64(raw[i+0]) * scale)
				samples[dst+1] = float32(float64(raw[i+1]) * scale)
				samples[dst+2] = float32(float64(raw[i+2]) * scale)
				i += 3
			}
		}
	}

	lut := opdata.NewLut3D(opdata.Forward, edge, samples, opdata.InterpLinear)
	lut.Bits = bitDepthFromMax(outMax)
	return &fileformat.CachedFile{Ops: []opdata.OpData{lut}, FileOutputBitDepth: lut.Bits}, nil
}
