/*
DESCRIPTION
  eval implements the CPU evaluator: it compiles a finalized op vector
  into a slice of kernels and applies them, in strict per-op order, to
  an interleaved RGBA float32 buffer. Large buffers are split into
  pixel-count chunks and processed by a fixed-size goroutine pool
  (spec §4.F / §5: pixel-independent, but op-order-preserving, within a
  single Apply call).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package eval

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ausocean/colorcore/opvec"
)

// Compile binds a Kernel to every op in v that doesn't already have one,
// using each OpData's own Apply method. It returns a new Vector; v is
// not mutated. Compile never fails: all error conditions were rejected
// at optimize.Run's validate step (spec §4.F: "a kernel may not throw").
func Compile(v opvec.Vector) opvec.Vector {
	out := make(opvec.Vector, len(v))
	for i, op := range v {
		if op.Kernel == nil {
			data := op.Data
			op.Kernel = func(p *[4]float32) { data.Apply(p) }
		}
		out[i] = op
	}
	return out
}

// minChunkPixels keeps small buffers on a single goroutine; splitting a
// handful of pixels across workers costs more in scheduling than it
// saves.
const minChunkPixels = 4096

// Apply runs the compiled op vector over buf, an interleaved RGBA
// float32 buffer (len(buf) a multiple of 4), across
// runtime.GOMAXPROCS(0) worker goroutines. Each worker processes a
// contiguous run of whole pixels strictly in op order; ops never
// reorder or see another worker's pixels, satisfying spec §5's
// ordering guarantee.
func Apply(ops opvec.Vector, buf []float32) error {
	if len(buf)%4 != 0 {
		return fmt.Errorf("eval: buffer length %d is not a multiple of 4", len(buf))
	}
	pixels := len(buf) / 4
	if pixels == 0 {
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if pixels <= minChunkPixels || workers == 1 {
		applyRange(ops, buf, 0, pixels)
		return nil
	}

	chunk := (pixels + workers - 1) / workers
	if chunk < minChunkPixels {
		chunk = minChunkPixels
	}

	var wg sync.WaitGroup
	for start := 0; start < pixels; start += chunk {
		end := start + chunk
		if end > pixels {
			end = pixels
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			applyRange(ops, buf, start, end)
		}(start, end)
	}
	wg.Wait()
	return nil
}

// applyRange runs ops over pixels [start, end) of buf in place.
func applyRange(ops opvec.Vector, buf []float32, start, end int) {
	var p [4]float32
	for px := start; px < end; px++ {
		off := px * 4
		p[0], p[1], p[2], p[3] = buf[off], buf[off+1], buf[off+2], buf[off+3]
		for _, op := range ops {
			op.Apply(&p)
		}
		buf[off], buf[off+1], buf[off+2], buf[off+3] = p[0], p[1], p[2], p[3]
	}
}

// IsNoOp reports whether ops has no observable effect (spec §4.G
// is_no_op, delegated to opvec.Vector.IsNoOp once ops has been
// finalized by optimize.Run).
func IsNoOp(ops opvec.Vector) bool { return ops.IsNoOp() }

// HasChannelCrosstalk reports whether any op in ops mixes channels.
func HasChannelCrosstalk(ops opvec.Vector) bool {
	for _, op := range ops {
		if op.HasChannelCrosstalk() {
			return true
		}
	}
	return false
}
