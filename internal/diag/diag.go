/*
DESCRIPTION
  diag.go renders a Lut1D's sample curve (and its deviation from the
  identity ramp) to a PNG, for use by cmd/lutplot and by diagnostic
  tests that are skipped by default. This is the one home the teacher's
  gonum.org/v1/plot dependency has in this repo (see DESIGN.md).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package diag holds small debugging aids that sit outside the core
// op/pipeline/optimize/eval path: nothing here is consulted when
// building or applying a Processor.
package diag

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/colorcore/opdata"
)

// channelColors gives each of up to 3 channels a distinct, legible line
// color; single-channel LUTs plot in black.
var channelColors = []color.Color{
	color.RGBA{R: 0xd0, A: 0xff},
	color.RGBA{G: 0x90, A: 0xff},
	color.RGBA{B: 0xd0, A: 0xff},
}

// PlotLut1D renders each channel of lut against the identity ramp and
// saves the result as a PNG at path. Only standard-domain LUTs are
// supported; half-domain LUTs would need a log-scaled x axis to be
// legible and aren't plotted here.
func PlotLut1D(lut *opdata.Lut1D, title, path string) error {
	if lut.HalfDomain {
		return errors.New("diag: PlotLut1D: half-domain LUTs are not supported")
	}
	n := len(lut.Samples)
	if n < 2 {
		return errors.New("diag: PlotLut1D: LUT has fewer than 2 samples")
	}

	p, err := plot.New()
	if err != nil {
		return errors.Wrap(err, "diag: PlotLut1D")
	}
	p.Title.Text = title
	p.X.Label.Text = "input"
	p.Y.Label.Text = "output"

	ramp := make([]float64, n)
	floats.Span(ramp, 0, 1)

	names := []string{"R", "G", "B"}
	for c := 0; c < lut.Channels; c++ {
		pts := make(plotter.XYs, n)
		for i := 0; i < n; i++ {
			pts[i].X = ramp[i]
			pts[i].Y = float64(lut.Samples[i][c])
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "diag: PlotLut1D: channel %d", c)
		}
		if lut.Channels == 1 {
			line.Color = color.Black
		} else {
			line.Color = channelColors[c]
		}
		label := "value"
		if lut.Channels == 3 {
			label = names[c]
		}
		p.Add(line)
		p.Legend.Add(label, line)
	}

	identity := make(plotter.XYs, n)
	for i := range ramp {
		identity[i].X = ramp[i]
		identity[i].Y = ramp[i]
	}
	idLine, err := plotter.NewLine(identity)
	if err != nil {
		return errors.Wrap(err, "diag: PlotLut1D: identity ramp")
	}
	idLine.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(idLine)
	p.Legend.Add("identity", idLine)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
