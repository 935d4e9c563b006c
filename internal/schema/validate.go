package schema

import (
	"fmt"
	"sort"
	"strings"

	"ctar/pkg/records"
)

// SchemaError reports columns a table must expose for its declared variant
// but does not. It is fatal for the whole table: proceeding with a
// wrong-variant extract would produce meaningless aggregates, not just
// incomplete ones.
type SchemaError struct {
	Variant Variant
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s table missing columns: %s",
		e.Variant, strings.Join(e.Missing, ", "))
}

// Check verifies that every required column for the variant appears in the
// table header. The table itself is not touched. A nil return means the
// downstream stages may index any required column without further guards.
//
// Column presence is judged on the header, not per row: a loader always
// materializes every header key on every record (missing cells are nil).
func Check(columns []string, v Variant) error {
	req := Required(v)
	if req == nil {
		return fmt.Errorf("schema: unknown source variant %q", v)
	}

	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}

	var missing []string
	for _, c := range req {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{Variant: v, Missing: missing}
	}
	return nil
}

// CheckTable is a convenience for callers that hold records but no separate
// header: the header is reconstructed as the union of keys across rows.
// An empty table passes (there is nothing to misinterpret).
func CheckTable(table []records.Record, v Variant) error {
	if len(table) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var columns []string
	for _, r := range table {
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	return Check(columns, v)
}
