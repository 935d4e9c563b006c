// Package records defines the row model shared by every pipeline stage: a
// Record is one table row keyed by column name, with untyped cell values as
// produced by the loader (string, int, float64, time.Time, or nil for a
// missing cell).
package records

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// Record is a single row: column name -> cell value.
type Record map[string]any

// Clone returns a deep-enough copy of r. Cell values are scalars, so a
// shallow map copy is a full copy for our purposes.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneAll copies every record in the table. The pipeline clones its input
// once at the boundary so a caller-shared table is never mutated in place.
func CloneAll(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// IsEmpty reports whether the cell at key is absent, nil, or an empty string.
func (r Record) IsEmpty(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	s, isStr := v.(string)
	return isStr && s == ""
}

// AsString converts common cell types to string without fmt overhead;
// uncommon types fall back to fmt.Sprint. Nil converts to "".
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

// Key builds a composite string key from the named fields, using \x1f as a
// separator and \x00 for nil cells so distinct tuples cannot collide.
func (r Record) Key(fields ...string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		v, ok := r[f]
		if !ok || v == nil {
			b.WriteByte('\x00')
			continue
		}
		b.WriteString(AsString(v))
	}
	return b.String()
}

// Fingerprint hashes the record's sorted key/value pairs with xxh3. Two runs
// over the same raw table produce the same fingerprints, which makes reruns
// cheap to compare in logs and tests.
func (r Record) Fingerprint() uint64 {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(AsString(r[k]))
		b.WriteByte('\x1f')
	}
	return xxh3.HashString(b.String())
}

// FingerprintAll folds the per-record fingerprints of a table into one value.
// Order-sensitive: the same rows in a different order hash differently.
func FingerprintAll(in []Record) uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, r := range in {
		f := r.Fingerprint()
		for i := 0; i < 8; i++ {
			buf[i] = byte(f >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
