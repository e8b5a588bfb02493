/*
DESCRIPTION
  archive.go implements the .ocioz archive format (spec §6): an
  archivability check over a config's search path and FileTransform
  sources, and zip packaging of a config plus its referenced LUT files
  under relative paths.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package archive implements the .ocioz archive format: an
// archivability check and zip packaging of a config and its referenced
// files (spec §6). It works on plain path strings and file contents
// supplied by the caller; it does not read a config.Config itself.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"strings"

	"github.com/ausocean/colorcore/colorerr"
)

// IsArchivablePath reports whether path is an archivable source or
// search-path entry (spec §6): a relative path, optionally beginning
// with "./" or ".\", optionally containing context variables, with no
// absolute prefix, drive letter, or ".." component.
func IsArchivablePath(path string) bool {
	if path == "" {
		return false
	}
	if strings.HasPrefix(path, "$") {
		return false
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return false
	}
	if len(path) >= 2 && path[1] == ':' {
		// Drive letter, e.g. "C:\...".
		return false
	}
	p := path
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, `.\`)
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return false
		}
	}
	return true
}

// CheckArchivable validates every search-path entry and FileTransform
// source named by sources, returning a colorerr.Error naming the first
// offending path.
func CheckArchivable(searchPath []string, sources []string) error {
	for _, p := range searchPath {
		if !IsArchivablePath(p) {
			return colorerr.New("archive: search path entry %q is not archivable", p).WithFile(p, 0)
		}
	}
	for _, p := range sources {
		if !IsArchivablePath(p) {
			return colorerr.New("archive: file transform source %q is not archivable", p).WithFile(p, 0)
		}
	}
	return nil
}

// ConfigEntryName is the name the config body is stored under inside
// the archive.
const ConfigEntryName = "config.ocio"

// Pack writes a .ocioz archive to w: configBody becomes config.ocio,
// and files maps each archive-relative path to its on-disk absolute
// path, which is opened and copied in. Pack does not itself call
// CheckArchivable; callers validate before assembling the files map.
func Pack(w io.Writer, configBody []byte, files map[string]string) error {
	zw := zip.NewWriter(w)

	cfgW, err := zw.Create(ConfigEntryName)
	if err != nil {
		return colorerr.New("archive: %v", err)
	}
	if _, err := cfgW.Write(configBody); err != nil {
		return colorerr.New("archive: %v", err)
	}

	for rel, abs := range files {
		if !IsArchivablePath(rel) {
			return colorerr.New("archive: entry path %q is not archivable", rel)
		}
		if err := copyFileIntoZip(zw, rel, abs); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return colorerr.New("archive: %v", err)
	}
	return nil
}

func copyFileIntoZip(zw *zip.Writer, rel, abs string) error {
	f, err := os.Open(abs)
	if err != nil {
		return colorerr.Missing("archive: %v", err).WithFile(abs, 0)
	}
	defer f.Close()

	entry, err := zw.Create(rel)
	if err != nil {
		return colorerr.New("archive: %v", err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return colorerr.New("archive: %v", err)
	}
	return nil
}
