/*
DESCRIPTION
  truelight.go implements the Truelight .cub adapter (spec §4.C): an
  optional "# InputLUT" 1D shaper section, an optional "# Cube" 3D LUT
  section (already red-fastest, unlike Pandora/VF), and an "# end"
  sentinel after which any trailing profile text is ignored. A file may
  carry either section alone or both.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package truelight implements the Truelight .cub file-format adapter.
package truelight

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

func init() { fileformat.Register(format{}) }

type format struct{}

func (format) Name() string               { return "truelight" }
func (format) Extension() string          { return "cub" }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0

	var shaperRows [][3]float32
	var cubeRows [][3]float32
	section := ""
	done := false

	for !done && sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "# InputLUT"):
			section = "shaper"
			continue
		case strings.HasPrefix(line, "# Cube"):
			section = "cube"
			continue
		case strings.HasPrefix(line, "# end"):
			done = true
			continue
		case strings.HasPrefix(line, "#"):
			// Other comment/header lines (title, iDims, oDims, width,
			// lutLength, and anything unrecognized) carry no op data.
			continue
		}

		if section == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 3 {
			return nil, fmt.Errorf("truelight: %s:%d: expected 3 values, got %d", path, lineNo, len(f))
		}
		var row [3]float32
		for i, tok := range f {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("truelight: %s:%d: malformed value %q", path, lineNo, tok)
			}
			row[i] = float32(v)
		}
		switch section {
		case "shaper":
			shaperRows = append(shaperRows, row)
		case "cube":
			cubeRows = append(cubeRows, row)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "truelight")
	}

	if len(shaperRows) == 0 && len(cubeRows) == 0 {
		return nil, fmt.Errorf("truelight: %s: no InputLUT or Cube section found", path)
	}

	var ops []opdata.OpData
	if len(shaperRows) > 0 {
		samples := make([][]float32, len(shaperRows))
		for i, row := range shaperRows {
			samples[i] = []float32{row[0], row[1], row[2]}
		}
		shaper := opdata.NewLut1D(opdata.Forward, 3, samples, opdata.InterpLinear, opdata.HueAdjustNone, false)
		shaper.Bits = opdata.BitDepth32f
		ops = append(ops, shaper)
	}
	if len(cubeRows) > 0 {
		edge := int(math.Round(math.Cbrt(float64(len(cubeRows)))))
		if edge*edge*edge != len(cubeRows) {
			return nil, fmt.Errorf("truelight: %s: %d is not a perfect cube of 3D LUT entries", path, len(cubeRows))
		}
		samples := make([]float32, len(cubeRows)*3)
		for i, row := range cubeRows {
			samples[i*3+0] = row[0]
			samples[i*3+1] = row[1]
			samples[i*3+2] = row[2]
		}
		lut3D := opdata.NewLut3D(opdata.Forward, edge, samples, opdata.InterpLinear)
		lut3D.Bits = opdata.BitDepth32f
		ops = append(ops, lut3D)
	}

	return &fileformat.CachedFile{Ops: ops, FileOutputBitDepth: opdata.BitDepth32f}, nil
}
