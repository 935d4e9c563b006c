package transform

import (
	"strings"

	"ctar/pkg/records"
)

const nbspace = "\u00a0" // U+00A0 NO-BREAK SPACE

// Clean trims whitespace from every string cell and collapses the NBSP
// artifacts that survive the extracts' round-trip through spreadsheet tools.
// Cells left empty after trimming become nil so later steps have a single
// notion of "missing".
type Clean struct{}

func (Clean) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, nbspace, " "))
			if s == "" {
				r[k] = nil
			} else {
				r[k] = s
			}
		}
	}
	return in
}
