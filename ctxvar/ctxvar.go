/*
DESCRIPTION
  ctxvar.go implements context-variable expansion for file paths and
  color-space names: `$VAR` / `${VAR}` substitution against a context
  dictionary, followed by search-path resolution (spec §4.D). A Collector
  records which variables were actually consulted during a build so the
  Processor cache key can include exactly those (spec §4.D "a second-pass
  collector records which variables were actually consulted").

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ctxvar implements $VAR/${VAR} context-variable expansion and
// search-path file resolution used by the pipeline builder (spec §4.D).
package ctxvar

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ausocean/colorcore/colorerr"
)

// Context is an immutable dictionary of variable name -> value, consulted
// during expansion (spec §6's Config.context()).
type Context map[string]string

// Collector records which variable names were consulted while expanding
// one or more strings, so a cache key can be built from only the
// variables that actually mattered to this request (spec §4.D).
type Collector struct {
	seen map[string]string
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]string)}
}

// note records that name resolved to value during expansion.
func (c *Collector) note(name, value string) {
	if c == nil {
		return
	}
	c.seen[name] = value
}

// Fingerprint returns a stable, order-independent string encoding of the
// consulted variables and their values, suitable for inclusion in a
// Processor cache key (spec §4.D/§4.G/§6).
func (c *Collector) Fingerprint() string {
	if c == nil || len(c.seen) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.seen))
	for k := range c.seen {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('=')
		b.WriteString(c.seen[n])
		b.WriteByte(';')
	}
	return b.String()
}

// Expand substitutes every $VAR and ${VAR} occurrence in s against ctx,
// recording each consulted name (found or not) in coll. An undefined
// variable expands to the empty string, matching os.Expand's convention;
// the pipeline builder treats a resulting empty path segment as "no
// substitution available" rather than failing expansion itself (a
// missing file is reported later, by the search-path lookup).
func Expand(s string, ctx Context, coll *Collector) string {
	return os.Expand(s, func(name string) string {
		v, ok := ctx[name]
		coll.note(name, v)
		if !ok {
			return ""
		}
		return v
	})
}

// Resolve expands path against ctx, then searches dirs in order for a
// file with that (possibly relative) name. An already-absolute expanded
// path is checked directly. Returns the first match's absolute path, or
// a colorerr MissingFile error naming every directory tried.
func Resolve(path string, ctx Context, dirs []string, coll *Collector) (string, error) {
	expanded := Expand(path, ctx, coll)
	if expanded == "" {
		return "", colorerr.Missing("ctxvar: path expanded to empty string").WithFile(path, 0)
	}
	if filepath.IsAbs(expanded) {
		if _, err := os.Stat(expanded); err == nil {
			return expanded, nil
		}
		return "", colorerr.Missing("ctxvar: file not found").WithFile(expanded, 0)
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, expanded)
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}
	// Also try relative to the current working directory, matching a
	// search path that implicitly includes "."
	if _, err := os.Stat(expanded); err == nil {
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return expanded, nil
		}
		return abs, nil
	}
	tried := strings.Join(dirs, ", ")
	return "", colorerr.Missing("ctxvar: %q not found on search path [%s]", expanded, tried).WithFile(path, 0)
}
