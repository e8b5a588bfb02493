/*
DESCRIPTION
  Ocioapply is a bare bones program that runs one image through a
  color-space-to-color-space or display/view Processor built from a
  flat config.ParseSimple file, writing the transformed pixels back out.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ocioapply is a CLI front end for building a Processor from a
// config file and applying it to an image on disk.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/colorcore/config"
	_ "github.com/ausocean/colorcore/fileformat/register"
	"github.com/ausocean/colorcore/opdata"
	"github.com/ausocean/colorcore/optimize"
	"github.com/ausocean/colorcore/pipeline"
	"github.com/ausocean/colorcore/processor"
	"github.com/ausocean/utils/logging"
)

// Logging related constants, mirroring cmd/looper's log rotation policy.
const (
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	configPtr := flag.String("config", "", "Path to a flat config.ParseSimple file.")
	srcPtr := flag.String("src", "", "Source color space name.")
	dstPtr := flag.String("dst", "", "Destination color space name (color-space-to-color-space conversion).")
	displayPtr := flag.String("display", "", "Display name; selects a DisplayViewTransform instead of -dst.")
	viewPtr := flag.String("view", "", "View name; used together with -display.")
	inversePtr := flag.Bool("inverse", false, "Invert the display/view transform.")
	inPtr := flag.String("in", "", "Input image path.")
	outPtr := flag.String("out", "", "Output image path.")
	logPathPtr := flag.String("log", "ocioapply.log", "Path to the rotated log file.")
	verbosePtr := flag.Bool("verbose", false, "Enable debug logging.")
	flag.Parse()

	level := logging.Info
	if *verbosePtr {
		level = logging.Debug
	}
	fileLog := &lumberjack.Logger{
		Filename:   *logPathPtr,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(level, io.MultiWriter(fileLog, os.Stderr), true)

	if err := run(l, *configPtr, *srcPtr, *dstPtr, *displayPtr, *viewPtr, *inversePtr, *inPtr, *outPtr); err != nil {
		l.Error("ocioapply failed", "error", err)
		os.Exit(1)
	}
}

func run(l logging.Logger, configPath, src, dst, display, view string, inverse bool, inPath, outPath string) error {
	if configPath == "" || inPath == "" || outPath == "" {
		return errors.New("ocioapply: -config, -in and -out are required")
	}

	cfgFile, err := os.Open(configPath)
	if err != nil {
		return errors.Wrap(err, "ocioapply")
	}
	defer cfgFile.Close()

	cfg, err := config.ParseSimple(cfgFile)
	if err != nil {
		return errors.Wrap(err, "ocioapply")
	}

	var req pipeline.Request
	switch {
	case display != "":
		dir := opdata.Forward
		if inverse {
			dir = opdata.Inverse
		}
		req = pipeline.DisplayViewTransform{Src: src, Display: display, View: view, Dir: dir}
	case dst != "":
		req = pipeline.ColorSpaceTransform{Src: src, Dst: dst}
	default:
		return errors.New("ocioapply: either -dst or -display/-view is required")
	}

	l.Debug("building pipeline", "src", src, "dst", dst, "display", display, "view", view)
	v, err := pipeline.Build(cfg, req)
	if err != nil {
		return errors.Wrap(err, "ocioapply")
	}

	proc, err := processor.New(v, optimize.All, optimize.ComposeResampleNo, nil)
	if err != nil {
		return errors.Wrap(err, "ocioapply")
	}
	l.Debug("processor built", "cache_id", proc.CacheID(), "is_no_op", proc.IsNoOp(), "channel_crosstalk", proc.HasChannelCrosstalk())

	buf, width, height, err := loadImage(inPath)
	if err != nil {
		return errors.Wrap(err, "ocioapply")
	}
	l.Debug("image loaded", "path", inPath, "width", width, "height", height)

	if err := proc.Apply(buf); err != nil {
		return errors.Wrap(err, "ocioapply")
	}

	if err := saveImage(outPath, buf, width, height); err != nil {
		return errors.Wrap(err, "ocioapply")
	}
	l.Info("wrote output", "path", outPath)
	fmt.Printf("ocioapply: wrote %s\n", outPath)
	return nil
}
