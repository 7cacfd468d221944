//go:build integration

package visit2pdf

// Notes:
// - Requires Chrome: rod downloads Chromium on first run unless
//   ROD_BROWSER_BIN points at an installed browser.
// - Page counts are read back with pdfcpu to confirm one page per observation
//   after the cover page.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-visit2pdf/internal/assets"
	"github.com/alnah/go-visit2pdf/internal/pdfmeta"
)

func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}
	if len(data) < 100 {
		t.Errorf("PDF data suspiciously small: %d bytes", len(data))
	}
}

func TestRodConverter_ToPDF_Integration(t *testing.T) {
	conv := newRodConverter(defaultTimeout)
	t.Cleanup(func() { _ = conv.Close() })

	ctx := context.Background()

	t.Run("simple HTML", func(t *testing.T) {
		data, err := conv.ToPDF(ctx, "<html><body><h1>Site A</h1></body></html>", nil)
		if err != nil {
			t.Fatalf("ToPDF() error = %v", err)
		}
		assertValidPDF(t, data)
	})

	t.Run("built-in template has one page per observation", func(t *testing.T) {
		tmpl, err := assets.NewEmbeddedLoader().LoadTemplate(assets.DefaultTemplateName)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		r, err := NewRenderer(RenderOptions{})
		if err != nil {
			t.Fatalf("NewRenderer() error = %v", err)
		}
		htmlContent, err := r.Render(ctx, tmpl, sampleVisitData(3, 2))
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}

		data, err := conv.ToPDF(ctx, htmlContent, DefaultPageSettings())
		if err != nil {
			t.Fatalf("ToPDF() error = %v", err)
		}
		assertValidPDF(t, data)

		pages, err := pdfmeta.New().PageCount(data)
		if err != nil {
			t.Fatalf("PageCount() error = %v", err)
		}
		if pages != 4 {
			t.Errorf("pages = %d, want 4 (cover + 3 observations)", pages)
		}
	})

	t.Run("expired deadline", func(t *testing.T) {
		expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
		defer cancel()

		_, err := conv.ToPDF(expired, "<html></html>", nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, want context.DeadlineExceeded", err)
		}
	})
}

func TestService_Generate_Integration(t *testing.T) {
	resolver, err := assets.NewTemplateResolver("")
	if err != nil {
		t.Fatalf("NewTemplateResolver() error = %v", err)
	}

	svc, err := NewService(&fakeSource{data: sampleVisitData(2, 1)}, resolver,
		WithTimeout(time.Minute),
		WithStamper(pdfmeta.New()),
	)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	out := filepath.Join(t.TempDir(), "report1.pdf")
	res, err := svc.Generate(context.Background(), Request{
		VisitID:  77,
		Template: assets.DefaultTemplateName,
		Output:   out,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	assertValidPDF(t, data)

	if res.Pages != 3 {
		t.Errorf("Pages = %d, want 3", res.Pages)
	}
	props, err := pdfmeta.New().Properties(data)
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}
	if props["VisitID"] != "77" {
		t.Errorf("VisitID property = %q, want 77", props["VisitID"])
	}
}
