package transform

import (
	"fmt"
	"time"

	"ctar/internal/schema"
	"ctar/pkg/records"
)

// VisitDateColumn is the derived column holding the resolved canonical visit
// date as a time.Time, or nil when no candidate parsed.
const VisitDateColumn = "visit_date"

// ResolveDate resolves the canonical visit date from an ordered list of
// candidate columns. The first candidate with a parseable value wins and the
// result is never revisited; unparseable cells are skipped with a warning,
// never fatal. Records where every candidate fails keep a nil visit_date and
// stay in the batch (they still count for non-date aggregations).
type ResolveDate struct {
	Candidates []string
	Layouts    map[string]string // column -> layout; ISO tried as fallback
	Warn       WarnFunc
}

// NewResolveDate builds the resolver for a source variant from the shared
// schema definition.
func NewResolveDate(v schema.Variant, warn WarnFunc) ResolveDate {
	return ResolveDate{
		Candidates: schema.DateCandidates(v),
		Layouts:    schema.DateLayouts,
		Warn:       warn,
	}
}

func (rd ResolveDate) Apply(in []records.Record) []records.Record {
	for i, r := range in {
		if t, ok := r[VisitDateColumn].(time.Time); ok && !t.IsZero() {
			// Already resolved on a previous run; first match is immutable.
			continue
		}
		r[VisitDateColumn] = nil
		for _, col := range rd.Candidates {
			v, ok := r[col]
			if !ok || v == nil {
				continue
			}
			if t, ok := v.(time.Time); ok {
				r[VisitDateColumn] = t
				break
			}
			s, isStr := v.(string)
			if !isStr || s == "" {
				continue
			}
			if t, ok := rd.parse(col, s); ok {
				r[VisitDateColumn] = t
				break
			}
			rd.Warn.Emit(Warning{
				Row:    i,
				Column: col,
				Value:  s,
				Reason: fmt.Sprintf("not a date in layout %q", rd.layoutFor(col)),
			})
		}
	}
	return in
}

func (rd ResolveDate) layoutFor(col string) string {
	if l, ok := rd.Layouts[col]; ok && l != "" {
		return l
	}
	return schema.ISOLayout
}

func (rd ResolveDate) parse(col, s string) (time.Time, bool) {
	if t, err := time.Parse(rd.layoutFor(col), s); err == nil {
		return t, true
	}
	if t, err := time.Parse(schema.ISOLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
