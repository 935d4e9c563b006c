package transform

import "ctar/pkg/records"

// RowFix overwrites one field of one row, addressed by its position in the
// original extract. These are hand-reviewed corrections of known source-data
// defects, not a general rule: the list is closed and every entry names the
// exact row it touches.
type RowFix struct {
	Row   int // 0-based position in the loaded table
	Field string
	Value string
}

// ValueFix rewrites specific literal cell values of one field wherever they
// occur, e.g. the zero-padded lesion counts the peripheral centers key in by
// hand ("01" -> "1").
type ValueFix struct {
	Field   string
	Rewrite map[string]string
}

// Repair applies the enumerated corrections before any business logic runs.
// Rows outside the table bounds are ignored: the fix list is tied to the
// full extract, and a caller may be analyzing a filtered slice of it.
type Repair struct {
	Rows   []RowFix
	Values []ValueFix
}

func (rp Repair) Apply(in []records.Record) []records.Record {
	for _, fix := range rp.Rows {
		if fix.Row < 0 || fix.Row >= len(in) {
			continue
		}
		in[fix.Row][fix.Field] = fix.Value
	}
	for _, fix := range rp.Values {
		for _, r := range in {
			v, ok := r[fix.Field]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			if repl, ok := fix.Rewrite[s]; ok {
				r[fix.Field] = repl
			}
		}
	}
	return in
}

// PeripheralRepairs is the reviewed correction table for the peripheral
// extract: five rows with a missing or wrong center name, and the
// zero-padded nb_lesion vocabulary.
func PeripheralRepairs() Repair {
	return Repair{
		Rows: []RowFix{
			{Row: 26659, Field: "ctar", Value: "Antsohihy"},
			{Row: 36582, Field: "ctar", Value: "Morondava"},
			{Row: 38479, Field: "ctar", Value: "Vangaindrano"},
			{Row: 42574, Field: "ctar", Value: "Fianarantsoa"},
			{Row: 42575, Field: "ctar", Value: "Fianarantsoa"},
		},
		Values: []ValueFix{
			{
				Field: "nb_lesion",
				Rewrite: map[string]string{
					"01": "1", "02": "2", "03": "3", "04": "4", "05": "5",
					"06": "6", "07": "7", "08": "8", "09": "9",
					"002": "2", "021": "21", "022": "22", "052": "52",
				},
			},
		},
	}
}
