package aggregate

// Table flattens grouped rows into a positional table for a storage sink:
// one column per dimension in dims order, then "count", then the measure
// statistics when requested. Rows are emitted in Sort order so repeated runs
// write byte-identical output.
func Table(rows []Row, dims []string, withMeasure bool) (columns []string, out [][]any) {
	columns = append(columns, dims...)
	columns = append(columns, "count")
	if withMeasure {
		columns = append(columns, "mean", "median", "variance")
	}

	sorted := append([]Row(nil), rows...)
	Sort(sorted, dims)

	out = make([][]any, 0, len(sorted))
	for _, r := range sorted {
		cells := make([]any, 0, len(columns))
		for _, d := range dims {
			cells = append(cells, r.Dims[d])
		}
		cells = append(cells, r.Count)
		if withMeasure {
			cells = append(cells, deref(r.Mean), deref(r.Median), deref(r.Variance))
		}
		out = append(out, cells)
	}
	return columns, out
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
