/*
DESCRIPTION
  itx.go implements the Iridas .itx adapter (spec §4.C): a LUT_3D_SIZE
  tag followed by red-fastest 3-float sample lines. No domain tags (no
  Range op is emitted, unlike .cube).

  Grounded on
  original_source/src/OpenColorIO/fileformats/FileFormatIridasItx.cpp.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package itx implements the Iridas .itx file-format adapter.
package itx

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

func (format) Name() string               { return "iridas_itx" }
func (format) Extension() string          { return "itx" }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

func init() { fileformat.Register(format{}) }

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	size3D := 0
	var raw []float64

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if strings.ToUpper(fields[0]) == "LUT_3D_SIZE" {
			if len(fields) != 2 {
				return nil, fmt.Errorf("itx: %s:%d: malformed LUT_3D_SIZE tag %q", path, lineNo, line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("itx: %s:%d: malformed LUT_3D_SIZE value %q", path, lineNo, line)
			}
			size3D = n
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("itx: %s:%d: malformed color triple %q", path, lineNo, line)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("itx: %s:%d: malformed value %q", path, lineNo, line)
			}
			raw = append(raw, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "itx")
	}
	if size3D == 0 {
		return nil, fmt.Errorf("itx: %s: no LUT_3D_SIZE tag found", path)
	}
	want := size3D * size3D * size3D * 3
	if len(raw) != want {
		return nil, fmt.Errorf("itx: %s: incorrect number of 3D LUT entries: expected %d, found %d", path, size3D*size3D*size3D, len(raw)/3)
	}
	samples := make([]float32, len(raw))
	for i, v := range raw {
		samples[i] = float32(v)
	}
	lut := opdata.NewLut3D(opdata.Forward, size3D, samples, opdata.InterpLinear)
	lut.Bits = opdata.BitDepth32f
	return &fileformat.CachedFile{Ops: []opdata.OpData{lut}, FileOutputBitDepth: opdata.BitDepth32f}, nil
}
