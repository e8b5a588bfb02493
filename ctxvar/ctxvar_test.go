/*
DESCRIPTION
  ctxvar_test.go exercises Expand's $VAR/${VAR} substitution and
  Collector bookkeeping, and Resolve's search-path file lookup.
*/
package ctxvar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/colorcore/colorerr"
)

func TestExpand(t *testing.T) {
	ctx := Context{"SHOW": "demo", "SHOT": "010"}
	coll := NewCollector()
	got := Expand("luts/$SHOW/${SHOT}/grade.cube", ctx, coll)
	if want := "luts/demo/010/grade.cube"; got != want {
		t.Errorf("Expand: got %q want %q", got, want)
	}
}

func TestExpandUndefinedVariableIsEmpty(t *testing.T) {
	ctx := Context{}
	got := Expand("luts/$MISSING/grade.cube", ctx, NewCollector())
	if want := "luts//grade.cube"; got != want {
		t.Errorf("Expand: got %q want %q", got, want)
	}
}

func TestCollectorFingerprint(t *testing.T) {
	ctx := Context{"SHOW": "demo", "SHOT": "010"}
	coll := NewCollector()
	Expand("$SHOT/$SHOW", ctx, coll)
	got := coll.Fingerprint()
	if want := "SHOT=010;SHOW=demo;"; got != want {
		t.Errorf("Fingerprint: got %q want %q (should be sorted by name)", got, want)
	}
}

func TestCollectorFingerprintEmpty(t *testing.T) {
	if got := NewCollector().Fingerprint(); got != "" {
		t.Errorf("Fingerprint of an untouched collector: got %q want \"\"", got)
	}
}

func TestCollectorNilIsSafe(t *testing.T) {
	var coll *Collector
	got := Expand("$SHOW", Context{"SHOW": "demo"}, coll)
	if got != "demo" {
		t.Errorf("Expand with a nil Collector: got %q want \"demo\"", got)
	}
	if got := coll.Fingerprint(); got != "" {
		t.Errorf("Fingerprint of a nil Collector: got %q want \"\"", got)
	}
}

func TestResolveFindsFileOnSearchPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "grade.cube"), []byte("TITLE x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := Context{"SHOW": "demo"}
	got, err := Resolve("$SHOW/../grade.cube", ctx, []string{dir}, NewCollector())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want, err := filepath.Abs(filepath.Join(dir, "grade.cube"))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Resolve: got %q want %q", got, want)
	}
}

func TestResolveMissingReturnsColorerrMissing(t *testing.T) {
	_, err := Resolve("nope.cube", Context{}, []string{t.TempDir()}, NewCollector())
	if !colorerr.IsMissing(err) {
		t.Errorf("Resolve for a missing file should return a colorerr Missing error, got %v", err)
	}
}

func TestResolveEmptyExpansionIsMissing(t *testing.T) {
	_, err := Resolve("$UNSET", Context{}, nil, NewCollector())
	if !colorerr.IsMissing(err) {
		t.Errorf("Resolve with an empty expansion should return a colorerr Missing error, got %v", err)
	}
}
