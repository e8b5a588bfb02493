/*
DESCRIPTION
  threedl.go implements the Discreet 3DL (flame/lustre) adapter (spec
  §4.C/§6): a header line of shaper breakpoints followed by LUT_3D
  samples (one row per grid point, red-fastest). Bit depth is inferred
  from the last shaper value via the table in spec §6; a shaper whose
  breakpoints already form a uniform ramp is detected as an identity and
  omitted.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package threedl implements the Discreet .3dl file-format adapter.
package threedl

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

type format struct{}

func (format) Name() string               { return "flame_3dl" }
func (format) Extension() string          { return "3dl" }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

func init() { fileformat.Register(format{}) }

// BitDepthFromMaxShaper implements the §6 inference table.
func BitDepthFromMaxShaper(max int) opdata.BitDepth {
	switch {
	case max <= 511:
		return opdata.BitDepth8
	case max <= 2047:
		return opdata.BitDepth10
	case max <= 8191:
		return opdata.BitDepth12
	case max <= 32767:
		return opdata.BitDepth14
	default:
		return opdata.BitDepth16
	}
}

func maxValueForBitDepth(b opdata.BitDepth) float64 {
	switch b {
	case opdata.BitDepth8:
		return 255
	case opdata.BitDepth10:
		return 1023
	case opdata.BitDepth12:
		return 4095
	case opdata.BitDepth14:
		return 16383
	case opdata.BitDepth16:
		return 65535
	default:
		return 65535
	}
}

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	var shaper []int
	var rows [][3]int

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		ints := make([]int, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("3dl: %s:%d: expected integers, got %q", path, lineNo, line)
			}
			ints[i] = n
		}
		if shaper == nil {
			shaper = ints
			continue
		}
		if len(ints) != 3 {
			return nil, fmt.Errorf("3dl: %s:%d: expected 3 integers per LUT row, got %d", path, lineNo, len(ints))
		}
		rows = append(rows, [3]int{ints[0], ints[1], ints[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "3dl")
	}
	if shaper == nil || len(rows) == 0 {
		return nil, fmt.Errorf("3dl: %s: no shaper/LUT data found", path)
	}

	edge := int(math.Round(math.Cbrt(float64(len(rows)))))
	if edge*edge*edge != len(rows) {
		return nil, fmt.Errorf("3dl: %s: incorrect number of 3D LUT entries: %d is not a perfect cube", path, len(rows))
	}

	maxShaper := shaper[0]
	for _, v := range shaper {
		if v > maxShaper {
			maxShaper = v
		}
	}
	bits := BitDepthFromMaxShaper(maxShaper)
	maxVal := maxValueForBitDepth(bits)

	var ops []opdata.OpData

	shaperSamples := make([][]float32, len(shaper))
	for i, v := range shaper {
		f := float32(float64(v) / maxVal)
		shaperSamples[i] = []float32{f, f, f}
	}
	shaperLut := opdata.NewLut1D(opdata.Forward, 1, onlyFirstChannel(shaperSamples), opdata.InterpLinear, opdata.HueAdjustNone, false)
	shaperLut.Bits = bits
	if !shaperLut.IsIdentity() {
		ops = append(ops, shaperLut)
	}

	samples := make([]float32, len(rows)*3)
	for i, row := range rows {
		samples[i*3+0] = float32(float64(row[0]) / maxVal)
		samples[i*3+1] = float32(float64(row[1]) / maxVal)
		samples[i*3+2] = float32(float64(row[2]) / maxVal)
	}
	lut3D := opdata.NewLut3D(opdata.Forward, edge, samples, opdata.InterpLinear)
	lut3D.Bits = bits
	ops = append(ops, lut3D)

	return &fileformat.CachedFile{Ops: ops, FileOutputBitDepth: bits}, nil
}

func onlyFirstChannel(rows [][]float32) [][]float32 {
	out := make([][]float32, len(rows))
	for i, r := range rows {
		out[i] = []float32{r[0]}
	}
	return out
}
