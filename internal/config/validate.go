// This file adds a lightweight linter/validator for Job values. It performs
// static checks over a decoded Job and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"

	"ctar/internal/aggregate"
	"ctar/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Job.
//
// Path is a dotted path into the config (e.g. "sink.kind",
// "analyses[1].dims"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidateJob performs static validation / linting of a Job.
//
// It does not mutate the job. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidateJob(j Job) []Issue {
	var issues []Issue
	issues = append(issues, validateSource(j.Source)...)
	issues = append(issues, validateAnalyses(j.Analyses)...)
	issues = append(issues, validateSink(j.Sink, len(j.Analyses))...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source.path must not be empty",
		})
	}

	switch schema.Variant(s.Variant) {
	case schema.Central, schema.Peripheral:
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.variant",
			Message:  `source.variant must be "central" or "peripheral"`,
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.variant",
			Message:  fmt.Sprintf("unknown variant %q; expected \"central\" or \"peripheral\"", s.Variant),
		})
	}

	if enc := s.Options.String("encoding", ""); enc != "" {
		switch strings.ToLower(enc) {
		case "utf-8", "utf8", "latin1", "iso-8859-1", "windows-1252", "cp1252", "utf-16":
		default:
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "source.options.encoding",
				Message:  fmt.Sprintf("encoding %q is not recognized; the loader will reject it", enc),
			})
		}
	}

	return issues
}

// dimKnown reports whether d is a source column, a derived column, or one of
// the virtual exposure dimensions. Unknown dims are warnings, not errors: the
// aggregator tolerates them (every record simply lacks the dim and is
// excluded), but a typo here silently empties the output, which is worth
// flagging up front.
func dimKnown(d string) bool {
	switch d {
	case schema.ColSex, schema.ColAge, schema.ColAnimal, schema.ColAnimalType,
		schema.ColSpecies, schema.ColCenterID, schema.ColCenterName:
		return true
	case "season", "age_bin", "year", "month", "typanim_label":
		return true
	case aggregate.DimExposureSite, aggregate.DimExposureCategory:
		return true
	}
	return false
}

func validateAnalyses(analyses []Analysis) []Issue {
	var issues []Issue

	if len(analyses) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "analyses",
			Message:  "at least one analysis is required",
		})
		return issues
	}

	seen := map[string]int{}
	for i, a := range analyses {
		path := fmt.Sprintf("analyses[%d]", i)
		if strings.TrimSpace(a.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  "name must not be empty; it labels output files and metrics",
			})
		} else if prev, dup := seen[a.Name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  fmt.Sprintf("duplicate analysis name %q (also analyses[%d]); outputs would overwrite each other", a.Name, prev),
			})
		} else {
			seen[a.Name] = i
		}

		for _, d := range a.Dims {
			if !dimKnown(d) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path + ".dims",
					Message:  fmt.Sprintf("dimension %q is not a known source or derived column; groups will be empty if it never appears", d),
				})
			}
		}
	}

	return issues
}

func validateSink(s Sink, analyses int) []Issue {
	var issues []Issue

	kind := s.Kind
	if kind == "" {
		kind = "csv" // default
	}
	switch kind {
	case "csv":
		// Empty path means stdout; nothing further to check.
	case "sqlite", "postgres":
		if strings.TrimSpace(s.DB.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.db.dsn",
				Message:  fmt.Sprintf("sink kind %q requires a dsn", kind),
			})
		}
		if strings.TrimSpace(s.DB.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.db.table",
				Message:  fmt.Sprintf("sink kind %q requires a table name", kind),
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.kind",
			Message:  fmt.Sprintf("unknown sink kind %q; expected \"csv\", \"sqlite\" or \"postgres\"", s.Kind),
		})
	}

	if analyses > 1 && kind == "csv" && (s.Path == "" || s.Path == "-") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sink.path",
			Message:  "multiple analyses share stdout; tables will be concatenated",
		})
	}

	return issues
}

// HasErrors reports whether any issue in the slice is of error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
