/*
DESCRIPTION
  log.go implements the Log OpData variant: per-channel
  {base, linSlope, linOffset, logSlope, logOffset, linSideBreak?,
  linearSlope?} covering simple-log, log-to-lin, lin-to-log and
  cameraLog styles.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package opdata

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math"
)

// LogStyle selects which family of Log the op implements.
type LogStyle int

const (
	LogStyleSimple LogStyle = iota
	LogStyleLogToLin
	LogStyleLinToLog
	LogStyleCamera
)

// LogParams are the per-channel log parameters (spec §3).
type LogParams struct {
	Base         float64
	LinSlope     float64
	LinOffset    float64
	LogSlope     float64
	LogOffset    float64
	LinSideBreak float64
	HasBreak     bool
	LinearSlope  float64
	HasLinSlope  bool
}

// DefaultLogParams returns the identity-ish parameter set (slope 1,
// offset 0, base matching style default) used as a starting point.
func DefaultLogParams(base float64) LogParams {
	return LogParams{Base: base, LinSlope: 1, LogSlope: 1}
}

type Log struct {
	dir    Direction
	Style  LogStyle
	Params [3]LogParams // one per R,G,B; a single value may be replicated across all 3
	Bits   BitDepth
	Meta   *FormatMetadata
}

func NewLog(dir Direction, style LogStyle, params [3]LogParams) *Log {
	return &Log{dir: dir, Style: style, Params: params, Meta: emptyMetadata("Log")}
}

func (l *Log) Direction() Direction { return l.dir }

func (l *Log) WithDirection(d Direction) OpData {
	c := l.Clone().(*Log)
	c.dir = d
	return c
}

func (l *Log) Clone() OpData {
	c := *l
	c.Meta = l.Meta.Clone()
	return &c
}

func (l *Log) Validate() error {
	for i, p := range l.Params {
		if p.Base <= 0 || p.Base == 1 {
			return fmt.Errorf("log: channel %d base %v invalid", i, p.Base)
		}
	}
	return nil
}

func (l *Log) IsIdentity() bool { return false }
func (l *Log) IsNoOp() bool     { return false }
func (l *Log) HasChannelCrosstalk() bool { return false }
func (l *Log) Metadata() *FormatMetadata { return l.Meta }
func (l *Log) FileOutputBitDepth() BitDepth { return l.Bits }
func (l *Log) Kind() string { return "Log" }

func (l *Log) CacheID() string {
	h := sha1.New()
	h.Write([]byte("Log"))
	binary.Write(h, binary.LittleEndian, int32(l.dir))
	binary.Write(h, binary.LittleEndian, int32(l.Style))
	for _, p := range l.Params {
		binary.Write(h, binary.LittleEndian, p.Base)
		binary.Write(h, binary.LittleEndian, p.LinSlope)
		binary.Write(h, binary.LittleEndian, p.LinOffset)
		binary.Write(h, binary.LittleEndian, p.LogSlope)
		binary.Write(h, binary.LittleEndian, p.LogOffset)
		binary.Write(h, binary.LittleEndian, p.LinSideBreak)
		binary.Write(h, binary.LittleEndian, p.HasBreak)
		binary.Write(h, binary.LittleEndian, p.LinearSlope)
		binary.Write(h, binary.LittleEndian, p.HasLinSlope)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// smallestPositiveF32 is epsilon for the log kernel's max(eps, .) clamp
// (spec §4.A).
const smallestPositiveF32 = 1.1754944e-38

// Apply evaluates the log op on RGB (alpha unchanged). Forward direction
// is lin-to-log for LogStyleSimple/LinToLog/Camera, log-to-lin for
// LogToLin; Inverse direction swaps the two.
func (l *Log) Apply(p *[4]float32) {
	forward := l.dir == Forward
	linToLog := l.Style != LogStyleLogToLin
	if !forward {
		linToLog = !linToLog
	}
	for c := 0; c < 3; c++ {
		params := l.Params[c]
		if !l.multiChannel() {
			params = l.Params[0]
		}
		if linToLog {
			p[c] = float32(l.linToLogValue(params, float64(p[c])))
		} else {
			p[c] = float32(l.logToLinValue(params, float64(p[c])))
		}
	}
}

func (l *Log) multiChannel() bool { return l.Params[0] != l.Params[1] || l.Params[1] != l.Params[2] }

func (l *Log) linToLogValue(pr LogParams, x float64) float64 {
	if l.Style == LogStyleCamera && pr.HasBreak && x < pr.LinSideBreak {
		slope := pr.LinearSlope
		if !pr.HasLinSlope {
			// Choose slope for C1 continuity at the break point.
			slope = cameraC1Slope(pr)
		}
		breakLog := pr.LogSlope*math.Log(math.Max(smallestPositiveF32, pr.LinSideBreak*pr.LinSlope+pr.LinOffset))/math.Log(pr.Base) + pr.LogOffset
		return breakLog + slope*(x-pr.LinSideBreak)
	}
	arg := math.Max(smallestPositiveF32, x*pr.LinSlope+pr.LinOffset)
	return pr.LogSlope*math.Log(arg)/math.Log(pr.Base) + pr.LogOffset
}

func cameraC1Slope(pr LogParams) float64 {
	// d/dx [logSlope * log_base(x*linSlope+linOffset) + logOffset] at the
	// break point, giving the linear segment the same derivative.
	arg := math.Max(smallestPositiveF32, pr.LinSideBreak*pr.LinSlope+pr.LinOffset)
	return pr.LogSlope * pr.LinSlope / (arg * math.Log(pr.Base))
}

func (l *Log) logToLinValue(pr LogParams, y float64) float64 {
	if l.Style == LogStyleCamera && pr.HasBreak {
		breakLog := pr.LogSlope*math.Log(math.Max(smallestPositiveF32, pr.LinSideBreak*pr.LinSlope+pr.LinOffset))/math.Log(pr.Base) + pr.LogOffset
		if y < breakLog {
			slope := pr.LinearSlope
			if !pr.HasLinSlope {
				slope = cameraC1Slope(pr)
			}
			if slope == 0 {
				return pr.LinSideBreak
			}
			return pr.LinSideBreak + (y-breakLog)/slope
		}
	}
	exponent := (y - pr.LogOffset) / pr.LogSlope
	return (math.Pow(pr.Base, exponent) - pr.LinOffset) / pr.LinSlope
}
