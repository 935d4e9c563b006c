package transform

import (
	"ctar/internal/schema"
	"ctar/pkg/records"
)

// Dedup collapses the multiple visit rows a Central patient generates into
// exactly one record per ref_mordu.
//
// Within a group (rows in original table order) the fillable fields (age,
// sexe, nom, and the resolved visit_date) take the first non-nil value any
// member carries (forward-fill then backward-fill; a field nil on every row
// stays nil, the fill never invents a value absent from the whole group).
// Every other field comes from the first row of the group.
//
// Rows without a ref_mordu are singleton groups: they pass through unmerged
// rather than being rejected or lumped together. Running Dedup on an already
// deduplicated table is a no-op.
type Dedup struct {
	// Key is the patient-identity column, ref_mordu for the Central extract.
	Key string
	// Fill lists the group-fillable fields, visit_date excluded (it is
	// always filled).
	Fill []string
}

// NewDedup builds the Central deduplicator from the shared schema
// definition.
func NewDedup() Dedup {
	return Dedup{Key: schema.ColPatientRef, Fill: schema.FillFields()}
}

func (d Dedup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || d.Key == "" {
		return in
	}

	fill := make([]string, 0, len(d.Fill)+1)
	fill = append(fill, d.Fill...)
	fill = append(fill, VisitDateColumn)

	type group struct {
		first records.Record // merged output, seeded from the first row
	}

	groups := make(map[string]*group, len(in))
	order := make([]*group, 0, len(in))

	for _, r := range in {
		if r.IsEmpty(d.Key) {
			// No stable identity: singleton group.
			order = append(order, &group{first: r})
			continue
		}
		key := r.Key(d.Key)
		g, seen := groups[key]
		if !seen {
			g = &group{first: r}
			groups[key] = g
			order = append(order, g)
			continue
		}
		// Later row of a known patient: backfill gaps in the merged record.
		// First-row values always win, so this is exactly "first non-nil in
		// group order" per fillable field.
		for _, f := range fill {
			if g.first.IsEmpty(f) && !r.IsEmpty(f) {
				g.first[f] = r[f]
			}
		}
	}

	out := make([]records.Record, 0, len(order))
	for _, g := range order {
		out = append(out, g.first)
	}
	return out
}
