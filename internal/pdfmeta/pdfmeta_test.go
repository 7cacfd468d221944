package pdfmeta

// Notes:
// - Fixtures are built in memory by minimalPDF so the tests need neither a
//   browser nor files on disk.

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// minimalPDF builds a structurally valid PDF with the given number of blank
// A4 pages, computing xref offsets as it writes.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	offsets := []int{}

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))

	for range pages {
		writeObj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// TestPageCount
// ---------------------------------------------------------------------------

func TestPageCount(t *testing.T) {
	t.Parallel()

	s := New()
	for _, n := range []int{1, 3} {
		got, err := s.PageCount(minimalPDF(n))
		if err != nil {
			t.Fatalf("PageCount(%d pages) error = %v", n, err)
		}
		if got != n {
			t.Errorf("PageCount() = %d, want %d", got, n)
		}
	}
}

func TestPageCount_Errors(t *testing.T) {
	t.Parallel()

	s := New()
	if _, err := s.PageCount(nil); !errors.Is(err, ErrEmptyPDF) {
		t.Errorf("nil input error = %v, want ErrEmptyPDF", err)
	}
	if _, err := s.PageCount([]byte("not a pdf")); !errors.Is(err, ErrInvalidPDF) {
		t.Errorf("garbage input error = %v, want ErrInvalidPDF", err)
	}
}

// ---------------------------------------------------------------------------
// TestStamp
// ---------------------------------------------------------------------------

func TestStamp_WritesProperties(t *testing.T) {
	t.Parallel()

	s := New()
	out, err := s.Stamp(minimalPDF(2), map[string]string{
		"VisitID": "77",
		"Site":    "Site A",
		"Empty":   "",
	})
	if err != nil {
		t.Fatalf("Stamp() error = %v", err)
	}

	props, err := s.Properties(out)
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if props["VisitID"] != "77" {
		t.Errorf("VisitID = %q, want 77", props["VisitID"])
	}
	if props["Site"] != "Site A" {
		t.Errorf("Site = %q, want %q", props["Site"], "Site A")
	}
	if _, ok := props["Empty"]; ok {
		t.Error("empty property should be skipped")
	}

	n, err := s.PageCount(out)
	if err != nil || n != 2 {
		t.Errorf("PageCount(stamped) = %d, %v; want 2, nil", n, err)
	}
}

func TestStamp_NothingToWrite(t *testing.T) {
	t.Parallel()

	in := minimalPDF(1)
	out, err := New().Stamp(in, map[string]string{"Site": ""})
	if err != nil {
		t.Fatalf("Stamp() error = %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Error("Stamp() with no values should return the input unchanged")
	}
}

func TestStamp_Errors(t *testing.T) {
	t.Parallel()

	s := New()
	if _, err := s.Stamp(nil, map[string]string{"a": "b"}); !errors.Is(err, ErrEmptyPDF) {
		t.Errorf("nil input error = %v, want ErrEmptyPDF", err)
	}
	if _, err := s.Stamp([]byte("%PDF-broken"), map[string]string{"a": "b"}); !errors.Is(err, ErrAnnotate) {
		t.Errorf("broken input error = %v, want ErrAnnotate", err)
	}
}
