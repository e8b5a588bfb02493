/*
DESCRIPTION
  ccc.go implements the CCC/CDL/CC XML adapters (spec §4.C): each
  `<ColorCorrection>` element yields a CDL op; the `id` attribute keys
  the collection map for cccid selection (fileformat.CachedFile.Select);
  descriptive children of `<ColorCorrection>`, `<SOPNode>` and `<SatNode>`
  are preserved in FormatMetadata for round-tripping.

  A bare `.cc` file is a single `<ColorCorrection>` (no collection); a
  `.cdl` file is a `<ColorDecisionList>` of `<ColorDecision>` wrapping one
  `<ColorCorrection>` each; a `.ccc` file is a
  `<ColorCorrectionCollection>` of `<ColorCorrection>` directly. All three
  share the same per-correction XML shape.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ccc implements the CCC/CDL/CC XML CDL-collection file-format
// adapters.
package ccc

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
	fileformat.Register(format{name: "ColorCorrectionCollection", ext: "ccc"})
	fileformat.Register(format{name: "ColorDecisionList", ext: "cdl"})
	fileformat.Register(format{name: "ColorCorrection", ext: "cc"})
}

type format struct{ name, ext string }

func (f format) Name() string               { return f.name }
func (f format) Extension() string          { return f.ext }
func (format) Caps() fileformat.Capability { return fileformat.CapRead }

type xmlSOPNode struct {
	Description []string `xml:"Description"`
	Slope       string   `xml:"Slope"`
	Offset      string   `xml:"Offset"`
	Power       string   `xml:"Power"`
}

type xmlSatNode struct {
	Description []string `xml:"Description"`
	Saturation  string   `xml:"Saturation"`
}

type xmlColorCorrection struct {
	ID          string     `xml:"id,attr"`
	Description []string   `xml:"Description"`
	SOP         xmlSOPNode `xml:"SOPNode"`
	Sat         xmlSatNode `xml:"SatNode"`
}

type xmlColorDecision struct {
	ColorCorrection xmlColorCorrection `xml:"ColorCorrection"`
}

type xmlColorDecisionList struct {
	XMLName      xml.Name           `xml:"ColorDecisionList"`
	ColorDecisions []xmlColorDecision `xml:"ColorDecision"`
}

type xmlColorCorrectionCollection struct {
	XMLName          xml.Name             `xml:"ColorCorrectionCollection"`
	ColorCorrections []xmlColorCorrection `xml:"ColorCorrection"`
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

func metaFromDescriptions(name string, descs []string) *opdata.FormatMetadata {
	m := &opdata.FormatMetadata{Name: name, Attributes: map[string]string{}}
	m.Value = strings.Join(descs, "; ")
	return m
}

func buildCDL(cc xmlColorCorrection) (opdata.OpData, error) {
	slope := [3]float64{1, 1, 1}
	offset := [3]float64{0, 0, 0}
	power := [3]float64{1, 1, 1}
	sat := 1.0
	var err error
	if strings.TrimSpace(cc.SOP.Slope) != "" {
		if slope, err = parseTriple(cc.SOP.Slope); err != nil {
			return nil, errors.Wrapf(err, "ccc: id %q: malformed Slope", cc.ID)
		}
	}
	if strings.TrimSpace(cc.SOP.Offset) != "" {
		if offset, err = parseTriple(cc.SOP.Offset); err != nil {
			return nil, errors.Wrapf(err, "ccc: id %q: malformed Offset", cc.ID)
		}
	}
	if strings.TrimSpace(cc.SOP.Power) != "" {
		if power, err = parseTriple(cc.SOP.Power); err != nil {
			return nil, errors.Wrapf(err, "ccc: id %q: malformed Power", cc.ID)
		}
	}
	if strings.TrimSpace(cc.Sat.Saturation) != "" {
		if sat, err = strconv.ParseFloat(strings.TrimSpace(cc.Sat.Saturation), 64); err != nil {
			return nil, errors.Wrapf(err, "ccc: id %q: malformed Saturation", cc.ID)
		}
	}

	cdl := opdata.NewCDL(opdata.Forward, opdata.CDLv12Fwd, slope, offset, power, sat)

	root := &opdata.FormatMetadata{Name: "ColorCorrection", Value: strings.Join(cc.Description, "; "), Attributes: map[string]string{"id": cc.ID}}
	root.Children = append(root.Children, metaFromDescriptions("SOPNode", cc.SOP.Description))
	root.Children = append(root.Children, metaFromDescriptions("SatNode", cc.Sat.Description))
	cdl.Meta = root

	return cdl, nil
}

func (format) Read(r io.Reader, path string) (*fileformat.CachedFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "ccc: %s", path)
	}

	var corrections []xmlColorCorrection
	switch {
	case strings.Contains(string(data), "<ColorCorrectionCollection"):
		var doc xmlColorCorrectionCollection
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "ccc: %s", path)
		}
		corrections = doc.ColorCorrections
	case strings.Contains(string(data), "<ColorDecisionList"):
		var doc xmlColorDecisionList
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "ccc: %s", path)
		}
		for _, d := range doc.ColorDecisions {
			corrections = append(corrections, d.ColorCorrection)
		}
	default:
		var cc xmlColorCorrection
		if err := xml.Unmarshal(data, &cc); err != nil {
			return nil, errors.Wrapf(err, "ccc: %s", path)
		}
		corrections = []xmlColorCorrection{cc}
	}

	if len(corrections) == 0 {
		return nil, fmt.Errorf("ccc: %s: no ColorCorrection elements found", path)
	}

	if len(corrections) == 1 && corrections[0].ID == "" {
		// A bare single correction (typical .cc file): no collection
		// wrapper, Select expects an empty cccid to return it directly.
		op, err := buildCDL(corrections[0])
		if err != nil {
			return nil, err
		}
		return &fileformat.CachedFile{Ops: []opdata.OpData{op}}, nil
	}

	col := &fileformat.Collection{ByID: map[string]int{}}
	for i, cc := range corrections {
		op, err := buildCDL(cc)
		if err != nil {
			return nil, err
		}
		col.Ordered = append(col.Ordered, op)
		if cc.ID != "" {
			col.ByID[cc.ID] = i
		}
	}
	return &fileformat.CachedFile{Collection: col}, nil
}
