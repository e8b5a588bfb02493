/*
DESCRIPTION
  Lutplot is a bare bones program that renders a 1D LUT file's sample
  curve to a PNG, for eyeballing a shaper or grading curve without
  opening an external plotting tool.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lutplot renders a 1D LUT file to a PNG curve plot.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/fileformat"
	_ "github.com/ausocean/colorcore/fileformat/register"
	"github.com/ausocean/colorcore/internal/diag"
	"github.com/ausocean/colorcore/opdata"
)

func main() {
	inPtr := flag.String("in", "", "Path to the LUT file to plot.")
	outPtr := flag.String("out", "lut.png", "Path to write the rendered PNG to.")
	titlePtr := flag.String("title", "", "Plot title; defaults to the input path.")
	cccidPtr := flag.String("cccid", "", "Sub-transform id to select from a collection file (CCC/CDL/CC).")
	flag.Parse()

	if *inPtr == "" {
		fmt.Fprintln(os.Stderr, "lutplot: -in is required")
		os.Exit(2)
	}

	if err := run(*inPtr, *outPtr, *titlePtr, *cccidPtr); err != nil {
		fmt.Fprintf(os.Stderr, "lutplot: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, title, cccid string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "lutplot")
	}
	defer f.Close()

	cf, err := fileformat.Read(f, inPath)
	if err != nil {
		return errors.Wrap(err, "lutplot")
	}
	ops, err := cf.Select(cccid)
	if err != nil {
		return errors.Wrap(err, "lutplot")
	}

	lut, err := firstLut1D(ops)
	if err != nil {
		return errors.Wrap(err, "lutplot")
	}

	if title == "" {
		title = inPath
	}
	if err := diag.PlotLut1D(lut, title, outPath); err != nil {
		return errors.Wrap(err, "lutplot")
	}
	fmt.Printf("lutplot: wrote %s\n", outPath)
	return nil
}

func firstLut1D(ops []opdata.OpData) (*opdata.Lut1D, error) {
	for _, op := range ops {
		if lut, ok := op.(*opdata.Lut1D); ok {
			return lut, nil
		}
	}
	return nil, errors.Errorf("no Lut1D op found among %d op(s)", len(ops))
}
