/*
DESCRIPTION
  icc_test.go exercises the matrix/TRC ICC adapter against a minimal
  synthetic profile assembled in-test (header + 6 tags: rXYZ, gXYZ, bXYZ,
  rTRC, gTRC, bTRC), since no real ICC binary fixture ships in the
  retrieval pack.
*/
package icc

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/ausocean/colorcore/opdata"
)

func putS15Fixed16(buf *bytes.Buffer, v float64) {
	binary.Write(buf, binary.BigEndian, int32(v*65536))
}

func xyzTag(x, y, z float64) []byte {
	var buf bytes.Buffer
	buf.WriteString("XYZ ")
	buf.Write(make([]byte, 4)) // reserved
	putS15Fixed16(&buf, x)
	putS15Fixed16(&buf, y)
	putS15Fixed16(&buf, z)
	return buf.Bytes()
}

func curveTagGamma(gamma float64) []byte {
	var buf bytes.Buffer
	buf.WriteString("curv")
	buf.Write(make([]byte, 4)) // reserved
	binary.Write(&buf, binary.BigEndian, uint32(1))
	binary.Write(&buf, binary.BigEndian, uint16(gamma*256))
	return buf.Bytes()
}

func curveTagIdentity() []byte {
	var buf bytes.Buffer
	buf.WriteString("curv")
	buf.Write(make([]byte, 4))
	binary.Write(&buf, binary.BigEndian, uint32(0))
	return buf.Bytes()
}

// buildProfile assembles a minimal ICC profile: 132-byte header+tag-count,
// 6 tag-table entries, then each tag body packed back-to-back.
func buildProfile(t *testing.T, tagBodies map[string][]byte) []byte {
	t.Helper()
	names := []string{"rXYZ", "gXYZ", "bXYZ", "rTRC", "gTRC", "bTRC"}

	var buf bytes.Buffer
	buf.Write(make([]byte, 128)) // header, unused fields
	binary.Write(&buf, binary.BigEndian, uint32(len(names)))

	tableStart := buf.Len()
	buf.Write(make([]byte, 12*len(names))) // placeholder tag table

	offsets := make([]uint32, len(names))
	sizes := make([]uint32, len(names))
	for i, n := range names {
		offsets[i] = uint32(buf.Len())
		body := tagBodies[n]
		sizes[i] = uint32(len(body))
		buf.Write(body)
	}

	out := buf.Bytes()
	for i, n := range names {
		base := tableStart + i*12
		copy(out[base:base+4], n)
		binary.BigEndian.PutUint32(out[base+4:base+8], offsets[i])
		binary.BigEndian.PutUint32(out[base+8:base+12], sizes[i])
	}
	return out
}

func TestReadMatrixOnly(t *testing.T) {
	data := buildProfile(t, map[string][]byte{
		"rXYZ": xyzTag(0.436, 0.222, 0.014),
		"gXYZ": xyzTag(0.385, 0.717, 0.097),
		"bXYZ": xyzTag(0.143, 0.061, 0.714),
		"rTRC": curveTagIdentity(),
		"gTRC": curveTagIdentity(),
		"bTRC": curveTagIdentity(),
	})

	cf, err := format{}.Read(bytes.NewReader(data), "test.icc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 1 {
		t.Fatalf("expected identity TRC to collapse to a single Matrix op, got %d ops", len(cf.Ops))
	}
	m, ok := cf.Ops[0].(*opdata.Matrix)
	if !ok {
		t.Fatalf("expected *opdata.Matrix, got %T", cf.Ops[0])
	}
	p := [4]float32{1, 0, 0, 1}
	m.Apply(&p)
	const tol = 1e-3
	if abs32(p[0]-0.436) > tol || abs32(p[1]-0.222) > tol || abs32(p[2]-0.014) > tol {
		t.Errorf("got %v, want approx [0.436 0.222 0.014]", p)
	}
}

func TestReadWithGammaTRC(t *testing.T) {
	data := buildProfile(t, map[string][]byte{
		"rXYZ": xyzTag(0.436, 0.222, 0.014),
		"gXYZ": xyzTag(0.385, 0.717, 0.097),
		"bXYZ": xyzTag(0.143, 0.061, 0.714),
		"rTRC": curveTagGamma(2.2),
		"gTRC": curveTagGamma(2.2),
		"bTRC": curveTagGamma(2.2),
	})

	cf, err := format{}.Read(bytes.NewReader(data), "test.icc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Ops) != 2 {
		t.Fatalf("expected shaper Lut1D + Matrix, got %d ops", len(cf.Ops))
	}
	if _, ok := cf.Ops[0].(*opdata.Lut1D); !ok {
		t.Errorf("expected first op to be *opdata.Lut1D, got %T", cf.Ops[0])
	}
	if _, ok := cf.Ops[1].(*opdata.Matrix); !ok {
		t.Errorf("expected second op to be *opdata.Matrix, got %T", cf.Ops[1])
	}
}

func TestReadMalformedTag(t *testing.T) {
	data := buildProfile(t, map[string][]byte{
		"rXYZ": xyzTag(0.436, 0.222, 0.014),
		"gXYZ": xyzTag(0.385, 0.717, 0.097),
		"bXYZ": nil, // empty body: fails the XYZType length/signature check
		"rTRC": curveTagIdentity(),
		"gTRC": curveTagIdentity(),
		"bTRC": curveTagIdentity(),
	})
	if _, err := format{}.Read(bytes.NewReader(data), "test.icc"); err == nil {
		t.Error("expected an error for a malformed tag body")
	}
}

func TestReadTooSmall(t *testing.T) {
	if _, err := format{}.Read(strings.NewReader("short"), "test.icc"); err == nil {
		t.Error("expected an error for a too-small file")
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
