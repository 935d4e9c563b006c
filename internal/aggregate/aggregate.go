// Package aggregate groups normalized records by caller-chosen dimension
// columns and produces per-group counts and, optionally, summary statistics
// of one numeric measure. Its output rows are the data source every chart
// consumes.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"ctar/internal/derive"
	"ctar/pkg/records"
)

// Virtual dimension names backed by the exposure fan-out rather than a
// scalar column. Grouping by either expands each record into one virtual row
// per flagged (site, category) pair, so per-site counts may legitimately sum
// past the record count.
const (
	DimExposureSite     = "exposure_site"
	DimExposureCategory = "exposure_category"
)

// Row is one output group: the dimension values that identify it, the number
// of contributing records, and measure statistics when a measure was
// requested. Variance is the population variance; a single-record group has
// variance 0. Mean/Median/Variance are nil when no record in the group
// carried a usable measure value.
type Row struct {
	Dims     map[string]string
	Count    int
	Mean     *float64
	Median   *float64
	Variance *float64
}

// GroupBy produces one Row per distinct combination of the requested
// dimension values actually present in the data.
//
// A record whose value for any requested dimension is nil is excluded from
// this grouping (it still participates in groupings that don't touch the nil
// column); the aggregator never coerces missing values into a synthetic
// "Unknown" bucket; labeling nulls is the presentation layer's call.
//
// dims may be empty, yielding a single whole-table row (used for global
// measure statistics). An empty result is a normal outcome, not an error.
// Output row order is unspecified; use Sort for a stable order.
func GroupBy(recs []records.Record, dims []string, measure string) ([]Row, error) {
	for _, d := range dims {
		if d == "" {
			return nil, fmt.Errorf("aggregate: empty dimension name")
		}
	}

	type bucket struct {
		dims   map[string]string
		count  int
		values []float64
	}
	buckets := make(map[string]*bucket)

	for _, r := range recs {
		for _, vals := range expand(r, dims) {
			key := strings.Join(vals, "\x1f")
			b, ok := buckets[key]
			if !ok {
				b = &bucket{dims: make(map[string]string, len(dims))}
				for i, d := range dims {
					b.dims[d] = vals[i]
				}
				buckets[key] = b
			}
			b.count++
			if measure != "" {
				if f, ok := measureValue(r[measure]); ok {
					b.values = append(b.values, f)
				}
			}
		}
	}

	out := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		row := Row{Dims: b.dims, Count: b.count}
		if measure != "" && len(b.values) > 0 {
			m := mean(b.values)
			md := median(b.values)
			vr := variance(b.values, m)
			row.Mean, row.Median, row.Variance = &m, &md, &vr
		}
		out = append(out, row)
	}
	return out, nil
}

// expand materializes the dimension-value tuples one record contributes.
// Without exposure dimensions that is zero tuples (some dim nil) or one;
// with them, one tuple per flagged exposure pair.
func expand(r records.Record, dims []string) [][]string {
	wantsExposure := false
	for _, d := range dims {
		if d == DimExposureSite || d == DimExposureCategory {
			wantsExposure = true
			break
		}
	}

	var exps []derive.Exposure
	if wantsExposure {
		var ok bool
		exps, ok = r[derive.ColExposures].([]derive.Exposure)
		if !ok || len(exps) == 0 {
			return nil // no exposure flags: excluded from exposure groupings
		}
	}

	base := make([]string, len(dims))
	for i, d := range dims {
		if d == DimExposureSite || d == DimExposureCategory {
			continue // filled per exposure below
		}
		v, ok := r[d]
		if !ok || v == nil {
			return nil // nil dimension value excludes the record
		}
		base[i] = records.AsString(v)
	}

	if !wantsExposure {
		return [][]string{base}
	}

	out := make([][]string, 0, len(exps))
	for _, e := range exps {
		tuple := make([]string, len(dims))
		copy(tuple, base)
		for i, d := range dims {
			switch d {
			case DimExposureSite:
				tuple[i] = e.Site
			case DimExposureCategory:
				tuple[i] = e.Category
			}
		}
		out = append(out, tuple)
	}
	return out
}

func measureValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// median of xs; xs is copied, not reordered in place.
func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// variance is the population variance around m; a single observation yields
// 0, not NaN.
func variance(xs []float64, m float64) float64 {
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

// Sort orders rows lexicographically by their values over dims, giving sinks
// and tests a stable order without imposing one on the aggregator contract.
func Sort(rows []Row, dims []string) {
	sort.Slice(rows, func(i, j int) bool {
		for _, d := range dims {
			if rows[i].Dims[d] != rows[j].Dims[d] {
				return rows[i].Dims[d] < rows[j].Dims[d]
			}
		}
		return false
	})
}
