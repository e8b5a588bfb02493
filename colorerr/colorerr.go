/*
DESCRIPTION
  colorerr.go defines the error kinds raised by the config parser, file
  format adapters and pipeline builder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package colorerr defines the error kinds raised while building a
// pipeline: generic failures, missing files and missing CDL corrections.
package colorerr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of failure. Callers that only need to know
// whether a lookup can fall back (a missing look, a missing file on the
// search path) should test with errors.Is against ErrMissingFile rather
// than switching on Kind.
type Kind int

const (
	// Generic covers bad parameters, malformed files and anything else
	// that is fatal to the build in progress.
	Generic Kind = iota
	// MissingFile means a file could not be located on the search path
	// after context expansion, or a requested cccid is absent from a
	// collection file.
	MissingFile
	// MissingCorrection is the semantically distinct case of a missing
	// cccid. It is reported as MissingFile for backward compatibility
	// (see spec §9); new code should use errors.Is(err, ErrMissingCorrection)
	// when it wants to distinguish the two without breaking callers that
	// only check ErrMissingFile.
	MissingCorrection
)

func (k Kind) String() string {
	switch k {
	case MissingFile:
		return "missing file"
	case MissingCorrection:
		return "missing correction"
	default:
		return "error"
	}
}

// Error is the single error type the core raises. It carries enough
// context (color space, file, line, tag) for a caller to report a
// useful message without parsing the string.
type Error struct {
	Kind    Kind
	Message string

	// Context, populated where relevant; zero values are omitted from
	// Error().
	Space string
	File  string
	Line  int
	Tag   string
}

func (e *Error) Error() string {
	s := e.Message
	if e.Space != "" {
		s = fmt.Sprintf("%s (color space %q)", s, e.Space)
	}
	if e.File != "" {
		if e.Line > 0 {
			s = fmt.Sprintf("%s (%s:%d)", s, e.File, e.Line)
		} else {
			s = fmt.Sprintf("%s (%s)", s, e.File)
		}
	}
	if e.Tag != "" {
		s = fmt.Sprintf("%s [tag %q]", s, e.Tag)
	}
	return s
}

// Is reports whether target is one of the sentinels that this error's
// Kind aliases to. MissingCorrection aliases to ErrMissingFile per the
// backward-compatibility note above, in addition to its own sentinel.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingFile:
		return e.Kind == MissingFile || e.Kind == MissingCorrection
	case ErrMissingCorrection:
		return e.Kind == MissingCorrection
	}
	return false
}

// Sentinels for use with errors.Is. Do not compare Kind directly when a
// sentinel exists; MissingCorrection must match ErrMissingFile too.
var (
	ErrMissingFile       = errors.New("missing file")
	ErrMissingCorrection = errors.New("missing correction")
)

// New builds a generic Error.
func New(format string, args ...any) *Error {
	return &Error{Kind: Generic, Message: fmt.Sprintf(format, args...)}
}

// Missing builds a MissingFile error.
func Missing(format string, args ...any) *Error {
	return &Error{Kind: MissingFile, Message: fmt.Sprintf(format, args...)}
}

// MissingCorrectionf builds a MissingCorrection error.
func MissingCorrectionf(format string, args ...any) *Error {
	return &Error{Kind: MissingCorrection, Message: fmt.Sprintf(format, args...)}
}

// WithSpace returns a copy of e annotated with a color space name.
func (e *Error) WithSpace(name string) *Error { c := *e; c.Space = name; return &c }

// WithFile returns a copy of e annotated with a file path and, optionally,
// a line number (0 to omit).
func (e *Error) WithFile(path string, line int) *Error {
	c := *e
	c.File = path
	c.Line = line
	return &c
}

// WithTag returns a copy of e annotated with the offending tag/keyword.
func (e *Error) WithTag(tag string) *Error { c := *e; c.Tag = tag; return &c }

// IsMissing reports whether err is a missing-file or missing-correction
// error anywhere in its chain, i.e. whether the caller's fallback path
// (e.g. "skip this look") may continue rather than abort the build.
func IsMissing(err error) bool {
	return errors.Is(err, ErrMissingFile)
}
