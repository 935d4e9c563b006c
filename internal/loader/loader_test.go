package loader

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ctar/pkg/records"
)

func TestReadCSV_Defaults(t *testing.T) {
	t.Parallel()

	in := "Ref Mordu;Sexe;Age\nR1;M;34\nR2;;7\n"
	tbl, err := ReadCSV(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(tbl.Columns, []string{"ref_mordu", "sexe", "age"}) {
		t.Errorf("columns = %v", tbl.Columns)
	}
	if len(tbl.Rows) != 2 || tbl.Skipped != 0 {
		t.Fatalf("rows = %d skipped = %d", len(tbl.Rows), tbl.Skipped)
	}
	want := records.Record{"ref_mordu": "R2", "sexe": nil, "age": "7"}
	if !reflect.DeepEqual(tbl.Rows[1], want) {
		t.Errorf("row 1 = %v, want %v (empty cells become nil)", tbl.Rows[1], want)
	}
}

func TestReadCSV_CustomComma(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader("a,b\n1,2\n"), Options{Comma: ','})
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0]["a"] != "1" {
		t.Errorf("rows = %v", tbl.Rows)
	}
}

func TestReadCSV_BOM(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader("\ufeffref_mordu;age\nR1;5\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Columns[0] != "ref_mordu" {
		t.Errorf("BOM not stripped from first header: %q", tbl.Columns[0])
	}
}

func TestReadCSV_WidthMismatchSoftFails(t *testing.T) {
	t.Parallel()

	in := "a;b\n1;2\nonly_one\n3;4\n"
	tbl, err := ReadCSV(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", tbl.Skipped)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader(""), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Columns) != 0 || len(tbl.Rows) != 0 {
		t.Errorf("table = %+v, want empty", tbl)
	}
}

func TestReadCSV_Latin1(t *testing.T) {
	t.Parallel()

	// "Tête" with the ê encoded as Latin-1 0xEA.
	in := "site;n\nT\xeate;1\n"
	tbl, err := ReadCSV(strings.NewReader(in), Options{Encoding: "latin1"})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Rows[0]["site"]; got != "Tête" {
		t.Errorf("site = %q, want Tête", got)
	}
}

func TestReadCSV_UnknownEncoding(t *testing.T) {
	t.Parallel()

	if _, err := ReadCSV(strings.NewReader("a\n"), Options{Encoding: "ebcdic"}); err == nil {
		t.Error("unsupported encoding should fail loudly, not guess")
	}
}

func TestNormalizeHeaders(t *testing.T) {
	t.Parallel()

	got := normalizeHeaders(
		[]string{" Date de Consultation ", "ID CTAR", "sexe"},
		Options{HeaderMap: map[string]string{"ID CTAR": "id_ctar"}},
	)
	want := []string{"date_de_consultation", "id_ctar", "sexe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("headers = %v, want %v", got, want)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "absent.csv"), Options{})
	if err == nil || !strings.Contains(err.Error(), "no input file") {
		t.Errorf("err = %v, want ErrNoFile", err)
	}
}

func TestOpen_DispatchesCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "extract.csv")
	if err := os.WriteFile(path, []byte("a;b\n1;2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(tbl.Rows))
	}
}
