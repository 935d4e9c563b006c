// Package pipeline wires the stages end to end: schema validation, record
// normalization, dimension derivation, and aggregation. It owns the stage
// ordering and the per-stage instrumentation; everything else lives in the
// stage packages.
//
// The pipeline takes its input as arguments and returns fresh values: no
// stage reads ambient state, and the caller's table is cloned once at the
// boundary, so two concurrent analyses over the same raw table cannot
// corrupt each other.
package pipeline

import (
	"fmt"
	"sync/atomic"
	"time"

	"ctar/internal/aggregate"
	"ctar/internal/derive"
	"ctar/internal/metrics"
	"ctar/internal/schema"
	"ctar/internal/transform"
	"ctar/pkg/records"
)

// Analysis is one aggregation request over the normalized table.
type Analysis struct {
	// Name labels the analysis in output and metrics, e.g. "season_by_sex".
	Name string
	// Dims are the grouping dimension columns (source or derived names,
	// plus the virtual exposure_site / exposure_category dimensions).
	Dims []string
	// Measure optionally names a numeric column to summarize per group.
	Measure string
}

// Options tune a run. The zero value is usable.
type Options struct {
	// Job is the metrics job label; defaults to "ctar".
	Job string
	// Warn receives value-level parse warnings. Warnings are always counted
	// in Summary regardless of the sink.
	Warn transform.WarnFunc
}

// Summary reports what a run did, for logs and the Pushgateway.
type Summary struct {
	Loaded     int   // raw rows in
	Normalized int   // records after dedup
	Warnings   int64 // nulled cells
}

// Result is the outcome of one Analysis: the aggregate rows feeding a chart.
type Result struct {
	Analysis Analysis
	Rows     []aggregate.Row
}

// Normalize validates the table against the variant schema and runs the full
// normalization and derivation chain, returning one record per clinical
// encounter. The input table is never mutated. A *schema.SchemaError aborts
// before any row is touched; value-level failures only null cells.
func Normalize(columns []string, table []records.Record, v schema.Variant, opts Options) ([]records.Record, Summary, error) {
	job := opts.Job
	if job == "" {
		job = "ctar"
	}
	sum := Summary{Loaded: len(table)}

	start := time.Now()
	err := schema.Check(columns, v)
	metrics.RecordStep(job, "validate", err, time.Since(start))
	if err != nil {
		return nil, sum, err
	}

	var warned atomic.Int64
	warn := func(w transform.Warning) {
		warned.Add(1)
		opts.Warn.Emit(w)
	}

	chain := buildChain(v, warn)

	start = time.Now()
	out := chain.Apply(records.CloneAll(table))
	metrics.RecordStep(job, "normalize", nil, time.Since(start))

	start = time.Now()
	out = derive.Attach{Variant: v}.Apply(out)
	metrics.RecordStep(job, "derive", nil, time.Since(start))

	sum.Normalized = len(out)
	sum.Warnings = warned.Load()
	metrics.RecordRows(job, "loaded", int64(sum.Loaded))
	metrics.RecordRows(job, "normalized", int64(sum.Normalized))
	metrics.RecordRows(job, "parse_warnings", sum.Warnings)
	return out, sum, nil
}

// buildChain assembles the variant-specific normalization steps in their
// fixed order: clean, repair, resolve date, coerce, dedup.
func buildChain(v schema.Variant, warn transform.WarnFunc) transform.Chain {
	switch v {
	case schema.Central:
		lesions := make([]string, 0, len(schema.LesionColumns))
		for c := range schema.LesionColumns {
			lesions = append(lesions, c)
		}
		return transform.Chain{
			transform.Clean{},
			transform.NewResolveDate(v, warn),
			transform.CoerceAge{Warn: warn},
			transform.CoerceLesions{Columns: lesions, Warn: warn},
			transform.NewDedup(),
		}
	case schema.Peripheral:
		return transform.Chain{
			transform.Clean{},
			transform.PeripheralRepairs(),
			transform.NewResolveDate(v, warn),
			transform.CoerceAge{Warn: warn},
			transform.CoerceLesions{Columns: []string{schema.ColLesionCount}, Warn: warn},
		}
	default:
		return transform.Chain{}
	}
}

// Run normalizes once and evaluates every analysis against the normalized
// records. Analyses that match no records yield an empty (not nil-error)
// result: "no data for this selection" is a normal outcome.
func Run(columns []string, table []records.Record, v schema.Variant, analyses []Analysis, opts Options) ([]Result, Summary, error) {
	job := opts.Job
	if job == "" {
		job = "ctar"
	}

	recs, sum, err := Normalize(columns, table, v, opts)
	if err != nil {
		return nil, sum, err
	}

	results := make([]Result, 0, len(analyses))
	for _, a := range analyses {
		start := time.Now()
		rows, err := aggregate.GroupBy(recs, a.Dims, a.Measure)
		metrics.RecordStep(job, "aggregate", err, time.Since(start))
		if err != nil {
			return nil, sum, fmt.Errorf("analysis %q: %w", a.Name, err)
		}
		metrics.RecordRows(job, "groups", int64(len(rows)))
		results = append(results, Result{Analysis: a, Rows: rows})
	}
	return results, sum, nil
}
