/*
DESCRIPTION
  version.go implements CTF/CLF version-string parsing per spec §6: three
  accepted forms (numeric `M[.m[.r]]`, short SMPTE `ST2136-1:2024`, long
  SMPTE `http://www.smpte-ra.org/ns/2136-1/2024`), the latter two valid
  only under their respective parse modes and both equal to version
  (3,0,0).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ctf

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMode selects which SMPTE spelling (if any) Version accepts
// alongside the always-accepted numeric form (spec §6).
type ParseMode int

const (
	// NumericOnly accepts only MAJOR[.MINOR[.REVISION]].
	NumericOnly ParseMode = iota
	// SMPTEShort additionally accepts "ST2136-1:2024".
	SMPTEShort
	// SMPTEXMLNS additionally accepts the long XML-namespace form.
	SMPTEXMLNS
)

// Version is a parsed (major, minor, revision) triple.
type Version struct {
	Major, Minor, Revision int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision) }

const (
	smpteShort = "ST2136-1:2024"
	smpteXMLNS = "http://www.smpte-ra.org/ns/2136-1/2024"
)

// smpteVersion is the version both SMPTE spellings are equal to.
var smpteVersion = Version{3, 0, 0}

// ParseVersion parses s under mode, per spec §6. An input not matching
// the accepted form(s) for mode returns an error naming every allowed
// format.
func ParseVersion(s string, mode ParseMode) (Version, error) {
	s = strings.TrimSpace(s)

	if mode == SMPTEShort && s == smpteShort {
		return smpteVersion, nil
	}
	if mode == SMPTEXMLNS && s == smpteXMLNS {
		return smpteVersion, nil
	}

	if v, ok := parseNumeric(s); ok {
		return v, nil
	}

	return Version{}, fmt.Errorf(
		"ctf: version %q is not a recognized format; expected MAJOR[.MINOR[.REVISION]]%s",
		s, allowedSuffix(mode))
}

func allowedSuffix(mode ParseMode) string {
	switch mode {
	case SMPTEShort:
		return fmt.Sprintf(", or %q", smpteShort)
	case SMPTEXMLNS:
		return fmt.Sprintf(", or %q", smpteXMLNS)
	default:
		return ""
	}
}

func parseNumeric(s string) (Version, bool) {
	if s == "" {
		return Version{}, false
	}
	parts := strings.SplitN(s, ".", 3)
	for _, p := range parts {
		if p == "" {
			return Version{}, false
		}
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, false
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Revision: nums[2]}, true
}
