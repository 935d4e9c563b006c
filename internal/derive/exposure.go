package derive

import (
	"sort"

	"ctar/internal/schema"
	"ctar/pkg/records"
)

// Exposure category codes used by the clinicians.
const (
	CategoryLick = "LPS" // léchage sur peau saine, superficial lick
	CategoryBite = "MT"  // morsure transdermique, transdermal bite
)

// Exposure is one (anatomical site, category) pair read off a record. A
// record carries zero to eight of them: a patient can be bitten in several
// places at once, so per-site counts legitimately sum past the patient
// count.
type Exposure struct {
	Site     string // human site label, e.g. "Tête"
	Category string // CategoryLick or CategoryBite
}

// Exposures fans a record out over the 8 site-code columns and returns every
// flagged pair. Blank or unknown site codes contribute nothing. Output order
// is fixed (sorted by column name) so reruns compare equal.
func Exposures(r records.Record) []Exposure {
	cols := make([]string, 0, len(schema.SiteColumns))
	for c := range schema.SiteColumns {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	var out []Exposure
	for _, col := range cols {
		v, ok := r[col]
		if !ok || v == nil {
			continue
		}
		code, isStr := v.(string)
		if !isStr {
			continue
		}
		if code != CategoryLick && code != CategoryBite {
			continue
		}
		out = append(out, Exposure{Site: schema.SiteColumns[col], Category: code})
	}
	return out
}
