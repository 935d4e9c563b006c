// Package config defines the canonical, JSON-serializable configuration model
// for an analysis job. It is intentionally small, explicit, and dependency-
// free so that job files can be loaded from disk (or other sources) and passed
// through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in job files.
//  3. Minimalism: No third-party config libraries; decoding is performed by the
//     standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "source":   { "path": "CTAR_ipmdata.csv", "variant": "central",
//	                "options": { "encoding": "utf-8" } },
//	  "analyses": [ { "name": "season_by_sex", "dims": ["season","sexe"] } ],
//	  "sink":     { "kind": "csv", "path": "out/season_by_sex.csv" }
//	}
package config

import "encoding/json"

// Job describes one full analysis run in JSON. It is the top-level object
// decoded from a job file.
type Job struct {
	// Source describes the extract to analyze.
	Source Source `json:"source"`

	// Analyses lists the aggregations to evaluate over the normalized table.
	Analyses []Analysis `json:"analyses"`

	// Sink describes where aggregate tables are written.
	Sink Sink `json:"sink"`

	// Metrics optionally configures the Prometheus Pushgateway backend.
	Metrics Metrics `json:"metrics"`
}

// Source identifies the input extract.
type Source struct {
	// Path is the local filesystem path to the CSV or XLSX extract.
	Path string `json:"path"`

	// Variant declares the extract's schema: "central" or "peripheral".
	// The validator rejects a table that does not match it.
	Variant string `json:"variant"`

	// Options is a free-form map interpreted by the loader. Typical keys:
	//   comma (string), encoding (string), sheet (string), header_map (object)
	Options Options `json:"options"`
}

// Analysis is one aggregation request.
type Analysis struct {
	// Name labels the analysis in output files and metrics.
	Name string `json:"name"`

	// Dims are the grouping dimension columns.
	Dims []string `json:"dims"`

	// Measure optionally names a numeric column to summarize per group.
	Measure string `json:"measure"`
}

// Sink selects where aggregate output goes.
type Sink struct {
	// Kind selects the sink implementation: "csv" (default), "sqlite",
	// or "postgres".
	Kind string `json:"kind"`

	// Path is the output file for the csv kind; empty or "-" means stdout.
	// For multiple analyses the analysis name is inserted before the
	// extension.
	Path string `json:"path"`

	// DB carries options for the database sinks.
	DB DBConfig `json:"db"`
}

// DBConfig configures the sqlite and postgres sinks.
type DBConfig struct {
	// DSN is the connection string (pgxpool DSN or SQLite path).
	DSN string `json:"dsn"`

	// Table is the target table name; for multiple analyses the analysis
	// name is appended with an underscore.
	Table string `json:"table"`
}

// Metrics configures the optional Pushgateway backend.
type Metrics struct {
	// GatewayURL is the Pushgateway base URL; empty disables metrics.
	GatewayURL string `json:"gateway_url"`

	// Job is the Pushgateway job grouping key; defaults to "ctar".
	Job string `json:"job"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
// If the value is neither float64 nor int, def is returned.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character loader settings such
// as a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map. This
// simplifies call sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
