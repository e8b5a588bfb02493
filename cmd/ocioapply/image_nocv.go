//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  image_nocv.go is the default image I/O backend: stdlib image/png and
  image/jpeg decoding, so `go build ./...` works without libopencv
  installed (see cmd/rv/probe_circleci.go for the teacher's analogous
  non-gocv fallback).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// loadImage decodes path (PNG or JPEG) into an interleaved RGBA f32
// buffer in [0,1].
func loadImage(path string) ([]float32, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "ocioapply")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "ocioapply: decode")
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	buf := make([]float32, width*height*4)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			buf[i*4+0] = float32(r) / 0xffff
			buf[i*4+1] = float32(g) / 0xffff
			buf[i*4+2] = float32(bl) / 0xffff
			buf[i*4+3] = float32(a) / 0xffff
			i++
		}
	}
	return buf, width, height, nil
}

// saveImage always writes PNG, regardless of path's extension; this CLI
// is a debugging aid, not a general image converter.
func saveImage(path string, buf []float32, width, height int) error {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: clamp8(buf[i*4+0]),
				G: clamp8(buf[i*4+1]),
				B: clamp8(buf[i*4+2]),
				A: clamp8(buf[i*4+3]),
			})
			i++
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "ocioapply")
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return errors.Wrap(err, "ocioapply: encode")
	}
	return nil
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
