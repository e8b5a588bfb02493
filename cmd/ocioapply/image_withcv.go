//go:build withcv
// +build withcv

/*
DESCRIPTION
  image_withcv.go backs ocioapply's image I/O with gocv/OpenCV, the way
  cmd/rv/probe.go gates its own gocv usage behind the withcv build tag
  so that a default `go build ./...` does not require libopencv.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// loadImage decodes path via OpenCV's IMRead and returns an interleaved
// RGBA f32 buffer in [0,1] (OpenCV's native BGR channel order is
// swapped to RGB here, matching the eval package's RGBA convention).
func loadImage(path string) ([]float32, int, int, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return nil, 0, 0, errors.Errorf("ocioapply: failed to read image %q", path)
	}
	defer mat.Close()

	f32 := gocv.NewMat()
	defer f32.Close()
	mat.ConvertTo(&f32, gocv.MatTypeCV32FC3)

	rows, cols := f32.Rows(), f32.Cols()
	bgr, err := f32.DataPtrFloat32()
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "ocioapply")
	}

	buf := make([]float32, rows*cols*4)
	for i := 0; i < rows*cols; i++ {
		buf[i*4+0] = bgr[i*3+2] / 255 // R
		buf[i*4+1] = bgr[i*3+1] / 255 // G
		buf[i*4+2] = bgr[i*3+0] / 255 // B
		buf[i*4+3] = 1
	}
	return buf, cols, rows, nil
}

// saveImage converts buf back to 8-bit BGR and writes it via OpenCV's
// IMWrite, which picks the codec from path's extension.
func saveImage(path string, buf []float32, width, height int) error {
	out := gocv.NewMatWithSize(height, width, gocv.MatTypeCV32FC3)
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return errors.Wrap(err, "ocioapply")
	}
	for i := 0; i < width*height; i++ {
		data[i*3+0] = buf[i*4+2] * 255 // B
		data[i*3+1] = buf[i*4+1] * 255 // G
		data[i*3+2] = buf[i*4+0] * 255 // R
	}

	u8 := gocv.NewMat()
	defer u8.Close()
	out.ConvertTo(&u8, gocv.MatTypeCV8UC3)

	if !gocv.IMWrite(path, u8) {
		return errors.Errorf("ocioapply: failed to write image %q", path)
	}
	return nil
}
