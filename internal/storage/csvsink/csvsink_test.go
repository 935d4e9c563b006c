package csvsink

import (
	"bytes"
	"context"
	"testing"
)

func TestWriteRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSink(&buf)

	n, err := s.WriteRows(context.Background(), []string{"season", "count", "mean"}, [][]any{
		{"Fararano", 2, 1.5},
		{"Ritinina", 1, nil},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("written = %d, want 2", n)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	want := "season,count,mean\nFararano,2,1.5\nRitinina,1,\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriteRows_EmptyTableStillWritesHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSink(&buf)
	n, err := s.WriteRows(context.Background(), []string{"a", "b"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("written = %d, want 0", n)
	}
	if got := buf.String(); got != "a,b\n" {
		t.Errorf("output = %q", got)
	}
}

func TestWriteRows_WidthMismatch(t *testing.T) {
	t.Parallel()

	s := NewSink(&bytes.Buffer{})
	if _, err := s.WriteRows(context.Background(), []string{"a", "b"}, [][]any{{"only"}}); err == nil {
		t.Error("expected width mismatch error")
	}
}

func TestWriteRows_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSink(&bytes.Buffer{})
	if _, err := s.WriteRows(ctx, []string{"a"}, nil); err == nil {
		t.Error("expected context error")
	}
}
