package transform

import (
	"math"
	"strconv"

	"ctar/internal/schema"
	"ctar/pkg/records"
)

// CoerceAge parses the age column to an int and nulls values outside the
// plausible [0, 120] range. Unparseable ages are nulled with a warning; they
// are never clamped or defaulted, so a bad cell can only ever remove a
// record from age-keyed aggregations.
type CoerceAge struct {
	Warn WarnFunc
}

func (c CoerceAge) Apply(in []records.Record) []records.Record {
	for i, r := range in {
		v, ok := r[schema.ColAge]
		if !ok || v == nil {
			continue
		}
		age, ok := parseAge(v)
		if !ok {
			c.Warn.Emit(Warning{
				Row:    i,
				Column: schema.ColAge,
				Value:  records.AsString(v),
				Reason: "not a number",
			})
			r[schema.ColAge] = nil
			continue
		}
		if !schema.AgeValid(age) {
			c.Warn.Emit(Warning{
				Row:    i,
				Column: schema.ColAge,
				Value:  records.AsString(v),
				Reason: "outside plausible range",
			})
			r[schema.ColAge] = nil
			continue
		}
		r[schema.ColAge] = age
	}
	return in
}

func parseAge(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case string:
		// The extracts carry ages both as integers and as float-formatted
		// strings ("12.0").
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// CoerceLesions parses the per-site lesion-count columns (Central) and the
// single nb_lesion column (Peripheral) to ints so the aggregator can compute
// measures over them. Bad cells are nulled with a warning.
type CoerceLesions struct {
	Columns []string
	Warn    WarnFunc
}

func (c CoerceLesions) Apply(in []records.Record) []records.Record {
	for i, r := range in {
		for _, col := range c.Columns {
			v, ok := r[col]
			if !ok || v == nil {
				continue
			}
			if _, isInt := v.(int); isInt {
				continue
			}
			n, ok := parseAge(v) // same integer-or-float-string rules
			if !ok || n < 0 {
				c.Warn.Emit(Warning{
					Row:    i,
					Column: col,
					Value:  records.AsString(v),
					Reason: "not a count",
				})
				r[col] = nil
				continue
			}
			r[col] = n
		}
	}
	return in
}
