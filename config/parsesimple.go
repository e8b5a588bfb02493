/*
DESCRIPTION
  parsesimple.go implements config.ParseSimple: a deliberately tiny flat
  `key: value` / `key:` + indented list-line parser, kept out of the
  "YAML config parsing" non-goal (spec §1) because it understands only
  this narrow subset and exists solely so cmd/ocioapply has something to
  load without a YAML dependency (spec §6 of SPEC_FULL.md).

  Supported shape:

    search_path: dir1, dir2
    context:
      SHOW: foo
    default_view_transform: name
    view_transforms:
      - name: un-tone-map
        reference: display
        to_reference: identity
    colorspaces:
      - name: lin_scene
        reference: scene
        to_reference: identity
      - name: display_srgb
        reference: display
        to_reference: matrix 0.41,0.35,0.18,0 0.21,0.72,0.07,0 0.02,0.12,0.95,0 0,0,0,1

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/ctxvar"
	"github.com/ausocean/colorcore/opdata"
)

// simpleLine is one parsed line: its indent (count of leading spaces,
// plus 2 when the line carries a "- " list marker, so an item's first
// key lines up with its later keys), whether it is a list item, a key
// and a value (value is empty for a "key:" header line).
type simpleLine struct {
	indent int
	isItem bool
	key    string
	value  string
}

func parseSimpleLines(r io.Reader) ([]simpleLine, error) {
	var out []simpleLine
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		trimmed := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(trimmed) == "" || strings.HasPrefix(strings.TrimSpace(trimmed), "#") {
			continue
		}
		indentChars := len(trimmed) - len(strings.TrimLeft(trimmed, " "))
		body := strings.TrimLeft(trimmed, " ")
		isItem := false
		if strings.HasPrefix(body, "- ") {
			isItem = true
			body = body[2:]
			indentChars += 2
		}
		parts := strings.SplitN(body, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("config: parsesimple: line %d: expected \"key: value\", got %q", lineNo, raw)
		}
		out = append(out, simpleLine{
			indent: indentChars,
			isItem: isItem,
			key:    strings.TrimSpace(parts[0]),
			value:  strings.TrimSpace(parts[1]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "config: parsesimple")
	}
	return out, nil
}

// ParseSimple parses the small flat subset documented above into a
// Static config. It is explicitly not a general .ocio/YAML parser.
func ParseSimple(r io.Reader) (*Static, error) {
	lines, err := parseSimpleLines(r)
	if err != nil {
		return nil, err
	}
	b := NewBuilder()

	i := 0
	for i < len(lines) {
		ln := lines[i]
		if ln.indent != 0 {
			i++
			continue
		}
		switch ln.key {
		case "search_path":
			var dirs []string
			for _, d := range strings.Split(ln.value, ",") {
				d = strings.TrimSpace(d)
				if d != "" {
					dirs = append(dirs, d)
				}
			}
			b.SetSearchPath(dirs)
			i++
		case "default_view_transform":
			b.SetDefaultViewTransform(ln.value)
			i++
		case "context":
			i++
			ctx := make(ctxvar.Context)
			for i < len(lines) && lines[i].indent > ln.indent {
				ctx[lines[i].key] = lines[i].value
				i++
			}
			b.SetContext(ctx)
		case "colorspaces":
			i++
			for i < len(lines) && lines[i].indent > ln.indent {
				cs, consumed, err := parseColorSpaceBlock(lines[i:])
				if err != nil {
					return nil, err
				}
				b.AddColorSpace(cs.name, cs.toRef, cs.fromRef, cs.isData, cs.refSpace, cs.encoding)
				i += consumed
			}
		case "view_transforms":
			i++
			for i < len(lines) && lines[i].indent > ln.indent {
				vt, consumed, err := parseViewTransformBlock(lines[i:])
				if err != nil {
					return nil, err
				}
				b.AddViewTransform(vt.name, vt.toRef, vt.fromRef, vt.refSpace)
				i += consumed
			}
		default:
			i++
		}
	}
	return b.Build(), nil
}

func parseColorSpaceBlock(lines []simpleLine) (*staticColorSpace, int, error) {
	if len(lines) == 0 || !lines[0].isItem {
		return nil, 0, fmt.Errorf("config: parsesimple: expected \"- name: ...\" list item")
	}
	base := lines[0].indent
	cs := &staticColorSpace{refSpace: SceneReferred}
	n := 0
	for n < len(lines) && (n == 0 || lines[n].indent >= base) {
		ln := lines[n]
		switch ln.key {
		case "name":
			cs.name = ln.value
		case "reference":
			if ln.value == "display" {
				cs.refSpace = DisplayReferred
			}
		case "encoding":
			cs.encoding = ln.value
		case "is_data":
			cs.isData = ln.value == "true"
		case "to_reference":
			op, err := parseSimpleOp(ln.value, opdata.Forward)
			if err != nil {
				return nil, 0, err
			}
			cs.toRef = op
		case "from_reference":
			op, err := parseSimpleOp(ln.value, opdata.Forward)
			if err != nil {
				return nil, 0, err
			}
			cs.fromRef = op
		}
		n++
		if n < len(lines) && lines[n].isItem {
			break
		}
	}
	if cs.name == "" {
		return nil, n, fmt.Errorf("config: parsesimple: colorspace entry missing name")
	}
	return cs, n, nil
}

// parseViewTransformBlock parses one "- name: ..." view_transforms list
// item, mirroring parseColorSpaceBlock's indent-delimited item scan.
func parseViewTransformBlock(lines []simpleLine) (*staticViewTransform, int, error) {
	if len(lines) == 0 || !lines[0].isItem {
		return nil, 0, fmt.Errorf("config: parsesimple: expected \"- name: ...\" list item")
	}
	base := lines[0].indent
	vt := &staticViewTransform{refSpace: SceneReferred}
	n := 0
	for n < len(lines) && (n == 0 || lines[n].indent >= base) {
		ln := lines[n]
		switch ln.key {
		case "name":
			vt.name = ln.value
		case "reference":
			if ln.value == "display" {
				vt.refSpace = DisplayReferred
			}
		case "to_reference":
			op, err := parseSimpleOp(ln.value, opdata.Forward)
			if err != nil {
				return nil, 0, err
			}
			vt.toRef = op
		case "from_reference":
			op, err := parseSimpleOp(ln.value, opdata.Forward)
			if err != nil {
				return nil, 0, err
			}
			vt.fromRef = op
		}
		n++
		if n < len(lines) && lines[n].isItem {
			break
		}
	}
	if vt.name == "" {
		return nil, n, fmt.Errorf("config: parsesimple: view transform entry missing name")
	}
	return vt, n, nil
}

// parseSimpleOp parses the minimal op grammar ParseSimple supports:
// "identity" or "matrix a,b,c,d a,b,c,d a,b,c,d a,b,c,d" (four
// space-separated rows of four comma-separated f64 each).
func parseSimpleOp(s string, dir opdata.Direction) (opdata.OpData, error) {
	if s == "identity" || s == "" {
		return opdata.NewIdentityMatrix(dir), nil
	}
	if strings.HasPrefix(s, "matrix ") {
		rows := strings.Fields(strings.TrimPrefix(s, "matrix "))
		if len(rows) != 4 {
			return nil, fmt.Errorf("config: parsesimple: matrix needs 4 rows, got %d", len(rows))
		}
		var m [16]float64
		for r, row := range rows {
			cols := strings.Split(row, ",")
			if len(cols) != 4 {
				return nil, fmt.Errorf("config: parsesimple: matrix row %d needs 4 values, got %d", r, len(cols))
			}
			for c, tok := range cols {
				v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
				if err != nil {
					return nil, errors.Wrapf(err, "config: parsesimple: matrix value %q", tok)
				}
				m[r*4+c] = v
			}
		}
		return opdata.NewMatrix(dir, m, [4]float64{}), nil
	}
	return nil, fmt.Errorf("config: parsesimple: unrecognized op expression %q", s)
}
