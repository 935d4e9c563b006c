// Package transform contains the record-normalization steps that turn raw
// CTAR rows into one clean record per clinical encounter. Steps are small,
// composable, and run in a fixed order assembled by the pipeline: clean,
// repair, resolve date, coerce, dedup.
package transform

import "ctar/pkg/records"

// Step transforms a batch of records. Implementations may mutate records in
// place and may return the input slice; callers that need the original table
// must clone it first (the pipeline does, once, at its boundary).
type Step interface {
	Apply(in []records.Record) []records.Record
}

// Chain is an ordered list of steps applied left to right.
type Chain []Step

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, s := range c {
		out = s.Apply(out)
	}
	return out
}

// Warning describes a single cell that failed to parse and was nulled.
// Warnings never abort the run; they are counted and optionally forwarded to
// a sink for operator review.
type Warning struct {
	Row    int    // 0-based position in the batch at the time of the step
	Column string
	Value  string
	Reason string
}

// WarnFunc receives parse warnings. A nil sink drops them; Emit is always
// safe to call.
type WarnFunc func(Warning)

// Emit forwards w to the sink when one is set.
func (f WarnFunc) Emit(w Warning) {
	if f != nil {
		f(w)
	}
}
