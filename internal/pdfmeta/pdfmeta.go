// Package pdfmeta inspects and annotates PDFs produced by the browser.
package pdfmeta

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Sentinel errors for PDF post-processing.
var (
	ErrEmptyPDF   = errors.New("empty PDF")
	ErrInvalidPDF = errors.New("invalid PDF")
	ErrAnnotate   = errors.New("writing PDF properties failed")
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// Stamper counts pages and writes custom document properties.
type Stamper struct {
	conf *model.Configuration
}

// New returns a Stamper using relaxed validation, which tolerates the
// minor deviations Chrome's PDF writer is known for.
func New() *Stamper {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Stamper{conf: conf}
}

// PageCount returns the number of pages in pdf.
func (s *Stamper) PageCount(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, ErrEmptyPDF
	}
	n, err := api.PageCount(bytes.NewReader(pdf), s.conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return n, nil
}

// Stamp returns a copy of pdf carrying props in its document information
// dictionary. Empty values are skipped; with nothing to write the input is
// returned unchanged.
func (s *Stamper) Stamp(pdf []byte, props map[string]string) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyPDF
	}

	filtered := make(map[string]string, len(props))
	for k, v := range props {
		if k != "" && v != "" {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return pdf, nil
	}

	var out bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(pdf), &out, filtered, s.conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnnotate, err)
	}
	return out.Bytes(), nil
}

// Properties returns the custom document properties of pdf.
func (s *Stamper) Properties(pdf []byte) (map[string]string, error) {
	if len(pdf) == 0 {
		return nil, ErrEmptyPDF
	}
	props, err := api.Properties(bytes.NewReader(pdf), s.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return props, nil
}
