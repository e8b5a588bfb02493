/*
DESCRIPTION
  colorerr_test.go exercises Error's Is-chain against the sentinels, the
  With*-annotator copy semantics, and IsMissing's errors.Is-based check.
*/
package colorerr

import (
	"errors"
	"strings"
	"testing"
)

func TestMissingIsErrMissingFile(t *testing.T) {
	err := Missing("file %q not found", "foo.cube")
	if !errors.Is(err, ErrMissingFile) {
		t.Error("Missing() should satisfy errors.Is(err, ErrMissingFile)")
	}
	if errors.Is(err, ErrMissingCorrection) {
		t.Error("Missing() should not satisfy errors.Is(err, ErrMissingCorrection)")
	}
}

func TestMissingCorrectionAliasesBothSentinels(t *testing.T) {
	err := MissingCorrectionf("no correction %q", "shot01")
	if !errors.Is(err, ErrMissingFile) {
		t.Error("MissingCorrectionf() should satisfy errors.Is(err, ErrMissingFile) for backward compatibility")
	}
	if !errors.Is(err, ErrMissingCorrection) {
		t.Error("MissingCorrectionf() should satisfy errors.Is(err, ErrMissingCorrection)")
	}
}

func TestGenericIsNeitherSentinel(t *testing.T) {
	err := New("bad parameter %d", 42)
	if errors.Is(err, ErrMissingFile) || errors.Is(err, ErrMissingCorrection) {
		t.Error("a Generic error should not satisfy either missing sentinel")
	}
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(Missing("missing")) {
		t.Error("IsMissing(Missing(...)) should be true")
	}
	if IsMissing(New("generic")) {
		t.Error("IsMissing(New(...)) should be false")
	}
}

func TestWithAnnotatorsDoNotMutateOriginal(t *testing.T) {
	base := New("something went wrong")
	annotated := base.WithSpace("lin_scene").WithFile("x.cube", 12).WithTag("LUT_1D_SIZE")

	if base.Space != "" || base.File != "" || base.Tag != "" {
		t.Error("annotator methods must not mutate the receiver")
	}
	if annotated.Space != "lin_scene" || annotated.File != "x.cube" || annotated.Line != 12 || annotated.Tag != "LUT_1D_SIZE" {
		t.Errorf("annotated fields not set as expected: %+v", annotated)
	}
}

func TestErrorStringIncludesContext(t *testing.T) {
	err := New("malformed tag").WithFile("a.cube", 3).WithSpace("lin_scene").WithTag("DOMAIN_MIN")
	got := err.Error()
	for _, want := range []string{"malformed tag", "lin_scene", "a.cube:3", "DOMAIN_MIN"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, want it to contain %q", got, want)
		}
	}
}
