// Package loader turns an on-disk CTAR extract (CSV or XLSX) into the
// in-memory table the pipeline consumes: a column list plus one Record per
// row. Delimiter, character set, and header canonicalization live here so
// the core never sees encoding concerns.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ctar/pkg/records"
)

// ErrNoFile reports that the input path does not exist. Callers present this
// distinctly from a malformed file ("no file supplied" vs "wrong schema" vs
// "valid but empty").
var ErrNoFile = errors.New("loader: no input file")

// Options configures loading. All fields are optional; zero values apply
// sensible defaults for the CTAR extracts.
type Options struct {
	// Comma is the CSV field delimiter. The extracts are semicolon-separated;
	// zero defaults to ';'.
	Comma rune

	// Encoding names the source character set: "utf-8" (default),
	// "iso-8859-1", "latin1", "cp1252", or "utf-16".
	Encoding string

	// HeaderMap maps source header names to canonical keys before the
	// default normalization (lowercase, spaces to underscores).
	HeaderMap map[string]string

	// Sheet selects the worksheet for XLSX input. Empty means the first
	// sheet.
	Sheet string
}

// Table is a loaded extract: the header in source order and the rows.
// Every record materializes every column; missing cells are nil.
type Table struct {
	Columns []string
	Rows    []records.Record
	Skipped int // rows dropped for structural reasons (width mismatch)
}

// Open loads path, choosing the reader by file extension (.xlsx for Excel,
// anything else is CSV).
func Open(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoFile, path)
		}
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ReadXLSX(f, opt)
	}
	return ReadCSV(f, opt)
}

// decodeReader wraps r with a charset decoder when the options name a
// non-UTF-8 encoding. Unknown names fail loudly; silently guessing an
// encoding corrupts every accented column label downstream.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "cp1252", "windows-1252":
		enc = charmap.Windows1252
	case "utf-16":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	default:
		return nil, fmt.Errorf("loader: unsupported encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and simple normalization (lowercase, spaces to underscores).
// It also strips a UTF-8 BOM from the first cell if present.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok {
				res[i] = m
				continue
			}
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
