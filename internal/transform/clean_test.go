package transform

import (
	"reflect"
	"testing"

	"ctar/pkg/records"
)

func TestClean(t *testing.T) {
	t.Parallel()

	in := []records.Record{{
		"trimmed":  "  Antananarivo  ",
		"nbsp":     "\u00a0M\u00a0",
		"blank":    "   ",
		"nbspOnly": "\u00a0\u00a0",
		"number":   7,
		"already":  nil,
	}}
	out := Clean{}.Apply(in)

	want := records.Record{
		"trimmed":  "Antananarivo",
		"nbsp":     "M",
		"blank":    nil,
		"nbspOnly": nil,
		"number":   7,
		"already":  nil,
	}
	if !reflect.DeepEqual(out[0], want) {
		t.Errorf("Clean = %v, want %v", out[0], want)
	}
}

func TestCleanInteriorNBSP(t *testing.T) {
	t.Parallel()

	in := []records.Record{{"ctar": "Sainte\u00a0Marie"}}
	out := Clean{}.Apply(in)
	if out[0]["ctar"] != "Sainte Marie" {
		t.Errorf("interior NBSP should become a regular space, got %q", out[0]["ctar"])
	}
}
