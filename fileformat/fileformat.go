/*
DESCRIPTION
  fileformat.go defines CachedFile (the result of parsing one external
  LUT/transform file, spec §3/§6), the Format adapter interface each
  concrete format subpackage implements, and a central registry keyed by
  lower-cased file extension (spec §4.C), populated by explicit
  registration at each subpackage's init() rather than load-order-
  dependent static initializers (spec §9's "format registry as a global
  singleton" re-architecture note).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package fileformat defines the CachedFile result type and the Format
// adapter registry that the pipeline builder's FileTransform resolution
// step consults (spec §4.C/§4.D). Concrete formats live in subpackages
// (cube, itx, pandora, vf, threedl, spi, ccc, ctf, icc, truelight); each
// registers itself in its init().
package fileformat

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/ausocean/colorcore/colorerr"
	"github.com/ausocean/colorcore/opdata"
)

// Capability is a bit a Format may declare it supports.
type Capability int

const (
	CapRead Capability = 1 << iota
	CapBake
)

// Collection holds the id -> op mapping and ordered transform list for
// multi-entry formats (CCC/CDL collections, spec §3 CachedFile.collection).
type Collection struct {
	ByID    map[string]int
	Ordered []opdata.OpData
}

// CachedFile is the result of parsing one external file: an owned OpData
// sequence plus, for multi-entry formats, a Collection (spec §3/§6).
type CachedFile struct {
	Ops                []opdata.OpData
	Collection         *Collection
	FileOutputBitDepth opdata.BitDepth
	Meta               *opdata.FormatMetadata
}

// Select returns the sub-transform identified by cccid: a string match
// against Collection.ByID first, falling back to a strict (no trailing
// characters) integer index into Collection.Ordered (spec §4.C CCC
// adapter, spec §4.D FileTransform). For a simple (non-collection) file,
// cccid must be empty and Ops is returned directly.
func (c *CachedFile) Select(cccid string) ([]opdata.OpData, error) {
	if c.Collection == nil {
		if cccid != "" {
			return nil, colorerr.Missing("fileformat: cccid %q given but file has no collection", cccid)
		}
		return c.Ops, nil
	}
	if cccid == "" {
		return nil, colorerr.Missing("fileformat: cccid required to select from a collection file")
	}
	if idx, ok := c.Collection.ByID[cccid]; ok {
		return []opdata.OpData{c.Collection.Ordered[idx]}, nil
	}
	if n, err := strconv.Atoi(cccid); err == nil && strconv.Itoa(n) == cccid {
		if n >= 0 && n < len(c.Collection.Ordered) {
			return []opdata.OpData{c.Collection.Ordered[n]}, nil
		}
	}
	return nil, colorerr.MissingCorrectionf("fileformat: no correction with id %q in collection", cccid)
}

// Format is one registered file-format adapter (spec §4.C).
type Format interface {
	Name() string
	Extension() string
	Caps() Capability
	// Read parses the full contents of a file (already opened, read into
	// memory and about to be closed per spec §5's "no long-lived
	// descriptors") into a CachedFile.
	Read(r io.Reader, path string) (*CachedFile, error)
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]Format)
)

// Register adds f to the registry, keyed by its lower-cased extension.
// Re-registering the same extension replaces the previous entry — there
// is no load-order dependence (spec §9).
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(f.Extension())] = f
}

// Lookup returns the Format registered for ext (with or without a
// leading dot).
func Lookup(ext string) (Format, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	f, ok := registry[ext]
	return f, ok
}

// ForPath returns the Format registered for path's extension.
func ForPath(path string) (Format, error) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return nil, colorerr.New("fileformat: %q has no extension", path)
	}
	ext := path[i+1:]
	f, ok := Lookup(ext)
	if !ok {
		return nil, colorerr.New("fileformat: no format registered for extension %q", ext)
	}
	return f, nil
}

// Read resolves path's format by extension and parses r through it.
func Read(r io.Reader, path string) (*CachedFile, error) {
	f, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	cf, err := f.Read(r, path)
	if err != nil {
		return nil, errors.Wrapf(err, "fileformat: %s", f.Name())
	}
	return cf, nil
}
