/*
DESCRIPTION
  ctf.go implements the CTF/CLF XML declarative-op adapter (spec §4.C):
  a `<ProcessList>` root carrying a `compCLFversion` (or `CLFversion`)
  version string parsed per version.go's three accepted forms, containing
  an ordered sequence of `<Matrix>`, `<Range>`, `<Log>`, `<Gamma>` and
  `<ASC_CDL>` elements — the op-graph subset SPEC_FULL.md scopes this
  adapter to (LUT1D/LUT3D array elements are a larger, separate grammar
  and are out of scope for this adapter; .cube/.itx/.3dl/.spi3d already
  cover LUT-array file formats).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ctf implements the CTF/CLF XML file-format adapter and its
// version-string grammar.
package ctf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/fileformat"
	"github.com/ausocean/colorcore/opdata"
)

func init() {
	fileformat.Register(format{name: "ctf", ext: "ctf", mode: SMPTEShort})
	fileformat.Register(format{name: "clf", ext: "clf", mode: SMPTEXMLNS})
}

type format struct {
	name, ext string
	mode      ParseMode
}

func (f format) Name() string               { return f.name }
func (f format) Extension() string          { return f.ext }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

type xmlMatrix struct {
	Array string `xml:"Array"`
}

type xmlRange struct {
	MinInValue  *float64 `xml:"minInValue"`
	MaxInValue  *float64 `xml:"maxInValue"`
	MinOutValue *float64 `xml:"minOutValue"`
	MaxOutValue *float64 `xml:"maxOutValue"`
}

type xmlLogParams struct {
	Base      string `xml:"base,attr"`
	LinSlope  string `xml:"linSideSlope,attr"`
	LinOffset string `xml:"linSideOffset,attr"`
	LogSlope  string `xml:"logSideSlope,attr"`
	LogOffset string `xml:"logSideOffset,attr"`
}

type xmlLog struct {
	Style  string         `xml:"style,attr"`
	Params []xmlLogParams `xml:"LogParams"`
}

type xmlGammaParams struct {
	Gamma  string `xml:"gamma,attr"`
	Offset string `xml:"offset,attr"`
}

type xmlGamma struct {
	Style  string           `xml:"style,attr"`
	Params []xmlGammaParams `xml:"GammaParams"`
}

type xmlASCCDL struct {
	Style        string `xml:"style,attr"`
	SlopeOffsetPower struct {
		Slope  string `xml:"Slope"`
		Offset string `xml:"Offset"`
		Power  string `xml:"Power"`
	} `xml:"SOPNode"`
	Saturation string `xml:"SatNode>Saturation"`
}

type xmlProcessList struct {
	XMLName        xml.Name    `xml:"ProcessList"`
	CompCLFVersion string      `xml:"compCLFversion,attr"`
	CLFVersion     string      `xml:"CLFversion,attr"`
	Matrices       []xmlMatrix `xml:"Matrix"`
	Ranges         []xmlRange  `xml:"Range"`
	Logs           []xmlLog    `xml:"Log"`
	Gammas         []xmlGamma  `xml:"Gamma"`
	CDLs           []xmlASCCDL `xml:"ASC_CDL"`
}

func (f format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "ctf: %s", path)
	}
	var doc xmlProcessList
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "ctf: %s", path)
	}

	versionStr := doc.CompCLFVersion
	if versionStr == "" {
		versionStr = doc.CLFVersion
	}
	if versionStr != "" {
		if _, err := ParseVersion(versionStr, f.mode); err != nil {
			return nil, errors.Wrapf(err, "ctf: %s", path)
		}
	}

	var ops []opdata.OpData
	for _, m := range doc.Matrices {
		op, err := parseMatrix(m)
		if err != nil {
			return nil, errors.Wrapf(err, "ctf: %s", path)
		}
		ops = append(ops, op)
	}
	for _, rg := range doc.Ranges {
		ops = append(ops, parseRange(rg))
	}
	for _, lg := range doc.Logs {
		op, err := parseLog(lg)
		if err != nil {
			return nil, errors.Wrapf(err, "ctf: %s", path)
		}
		ops = append(ops, op)
	}
	for _, g := range doc.Gammas {
		op, err := parseGamma(g)
		if err != nil {
			return nil, errors.Wrapf(err, "ctf: %s", path)
		}
		ops = append(ops, op)
	}
	for _, cdl := range doc.CDLs {
		op, err := parseCDL(cdl)
		if err != nil {
			return nil, errors.Wrapf(err, "ctf: %s", path)
		}
		ops = append(ops, op)
	}

	return &fileformat.CachedFile{Ops: ops}, nil
}

func parseMatrix(m xmlMatrix) (opdata.OpData, error) {
	// The Array's "dim" attribute is not read; the shape is inferred from
	// the number of values in the element's text.
	fields := strings.Fields(m.Array)
	var vals []float64
	for _, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed Matrix value %q", tok)
		}
		vals = append(vals, v)
	}
	var mat [16]float64
	var offs [4]float64
	switch len(vals) {
	case 12: // 3x4: no 4th row, no offset column beyond 3 rows
		for r := 0; r < 3; r++ {
			mat[r*4+0] = vals[r*4+0]
			mat[r*4+1] = vals[r*4+1]
			mat[r*4+2] = vals[r*4+2]
		}
		mat[3*4+3] = 1
	case 16: // 4x4, no offsets
		copy(mat[:], vals)
	case 20: // 4x5: 4x4 matrix plus an offset column
		for r := 0; r < 4; r++ {
			copy(mat[r*4:r*4+4], vals[r*5:r*5+4])
			offs[r] = vals[r*5+4]
		}
	default:
		return nil, fmt.Errorf("unsupported Matrix Array size %d", len(vals))
	}
	return opdata.NewMatrix(opdata.Forward, mat, offs), nil
}

func boundOrNone(p *float64) opdata.Bound {
	if p == nil {
		return opdata.NoBound
	}
	return opdata.SetBound(*p)
}

func parseRange(rg xmlRange) opdata.OpData {
	return opdata.NewRange(opdata.Forward,
		boundOrNone(rg.MinInValue), boundOrNone(rg.MaxInValue),
		boundOrNone(rg.MinOutValue), boundOrNone(rg.MaxOutValue))
}

func logStyleFromString(s string) opdata.LogStyle {
	switch s {
	case "log2", "log10", "linToLog":
		return opdata.LogStyleLinToLog
	case "logToLin":
		return opdata.LogStyleLogToLin
	case "cameraLinToLog", "cameraLogToLin":
		return opdata.LogStyleCamera
	default:
		return opdata.LogStyleSimple
	}
}

func parseLog(lg xmlLog) (opdata.OpData, error) {
	style := logStyleFromString(lg.Style)
	var params [3]opdata.LogParams
	base := 2.0
	if strings.Contains(lg.Style, "10") {
		base = 10
	}
	def := opdata.DefaultLogParams(base)
	params[0], params[1], params[2] = def, def, def
	for i, p := range lg.Params {
		if i > 2 {
			break
		}
		out, err := fillLogParams(p, base)
		if err != nil {
			return nil, err
		}
		params[i] = out
	}
	return opdata.NewLog(opdata.Forward, style, params), nil
}

func fillLogParams(p xmlLogParams, base float64) (opdata.LogParams, error) {
	out := opdata.LogParams{Base: base, LinSlope: 1, LogSlope: 1}
	var err error
	if p.Base != "" {
		if out.Base, err = strconv.ParseFloat(p.Base, 64); err != nil {
			return out, fmt.Errorf("malformed Log base %q", p.Base)
		}
	}
	if p.LinSlope != "" {
		if out.LinSlope, err = strconv.ParseFloat(p.LinSlope, 64); err != nil {
			return out, fmt.Errorf("malformed linSideSlope %q", p.LinSlope)
		}
	}
	if p.LinOffset != "" {
		if out.LinOffset, err = strconv.ParseFloat(p.LinOffset, 64); err != nil {
			return out, fmt.Errorf("malformed linSideOffset %q", p.LinOffset)
		}
	}
	if p.LogSlope != "" {
		if out.LogSlope, err = strconv.ParseFloat(p.LogSlope, 64); err != nil {
			return out, fmt.Errorf("malformed logSideSlope %q", p.LogSlope)
		}
	}
	if p.LogOffset != "" {
		if out.LogOffset, err = strconv.ParseFloat(p.LogOffset, 64); err != nil {
			return out, fmt.Errorf("malformed logSideOffset %q", p.LogOffset)
		}
	}
	return out, nil
}

func gammaStyleFromString(s string) opdata.GammaStyle {
	switch s {
	case "basicFwd":
		return opdata.GammaBasicFwd
	case "basicRev":
		return opdata.GammaBasicRev
	case "basicMirrorFwd":
		return opdata.GammaBasicMirrorFwd
	case "basicMirrorRev":
		return opdata.GammaBasicMirrorRev
	case "basicPassThruFwd":
		return opdata.GammaBasicPassthruFwd
	case "basicPassThruRev":
		return opdata.GammaBasicPassthruRev
	case "moncurveRev":
		return opdata.GammaMoncurveRev
	case "moncurveMirrorFwd":
		return opdata.GammaMoncurveMirrorFwd
	case "moncurveMirrorRev":
		return opdata.GammaMoncurveMirrorRev
	default:
		return opdata.GammaMoncurveFwd
	}
}

func parseGamma(g xmlGamma) (opdata.OpData, error) {
	style := gammaStyleFromString(g.Style)
	var rgb [3]opdata.GammaParams
	for i := 0; i < 3 && i < len(g.Params); i++ {
		gp := g.Params[i]
		var out opdata.GammaParams
		var err error
		if gp.Gamma != "" {
			if out.Gamma, err = strconv.ParseFloat(gp.Gamma, 64); err != nil {
				return nil, fmt.Errorf("malformed gamma %q", gp.Gamma)
			}
		}
		if gp.Offset != "" {
			if out.Offset, err = strconv.ParseFloat(gp.Offset, 64); err != nil {
				return nil, fmt.Errorf("malformed gamma offset %q", gp.Offset)
			}
		}
		rgb[i] = out
	}
	if len(g.Params) == 1 {
		rgb[1], rgb[2] = rgb[0], rgb[0]
	}
	return opdata.NewGamma(opdata.Forward, style, rgb), nil
}

func cdlStyleFromString(s string) opdata.CDLStyle {
	switch s {
	case "noClampRev":
		return opdata.CDLNoClampRev
	case "noClampFwd":
		return opdata.CDLNoClampFwd
	case "v1.2_Rev":
		return opdata.CDLv12Rev
	default:
		return opdata.CDLv12Fwd
	}
}

func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	f := strings.Fields(s)
	if len(f) != 3 {
		return out, fmt.Errorf("expected 3 values, got %d", len(f))
	}
	for i, tok := range f {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func parseCDL(cdl xmlASCCDL) (opdata.OpData, error) {
	slope := [3]float64{1, 1, 1}
	offset := [3]float64{0, 0, 0}
	power := [3]float64{1, 1, 1}
	sat := 1.0
	var err error
	if strings.TrimSpace(cdl.SlopeOffsetPower.Slope) != "" {
		if slope, err = parseTriple(cdl.SlopeOffsetPower.Slope); err != nil {
			return nil, errors.Wrap(err, "malformed CDL Slope")
		}
	}
	if strings.TrimSpace(cdl.SlopeOffsetPower.Offset) != "" {
		if offset, err = parseTriple(cdl.SlopeOffsetPower.Offset); err != nil {
			return nil, errors.Wrap(err, "malformed CDL Offset")
		}
	}
	if strings.TrimSpace(cdl.SlopeOffsetPower.Power) != "" {
		if power, err = parseTriple(cdl.SlopeOffsetPower.Power); err != nil {
			return nil, errors.Wrap(err, "malformed CDL Power")
		}
	}
	if strings.TrimSpace(cdl.Saturation) != "" {
		if sat, err = strconv.ParseFloat(strings.TrimSpace(cdl.Saturation), 64); err != nil {
			return nil, errors.Wrap(err, "malformed CDL Saturation")
		}
	}
	return opdata.NewCDL(opdata.Forward, cdlStyleFromString(cdl.Style), slope, offset, power, sat), nil
}
