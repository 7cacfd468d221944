package visit2pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alnah/go-visit2pdf/internal/fileutil"
)

// Source loads the rows of one visit.
type Source interface {
	FetchVisit(ctx context.Context, visitID int64) (*VisitData, error)
}

// TemplateSource resolves a template reference (file path or built-in name)
// to its text. Implementations read the text fresh on every call.
type TemplateSource interface {
	Resolve(ref string) (string, error)
}

// Stamper inspects and annotates a rendered PDF.
type Stamper interface {
	PageCount(pdf []byte) (int, error)
	Stamp(pdf []byte, props map[string]string) ([]byte, error)
}

// Publisher copies a written report to a remote location.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// htmlRenderer substitutes visit data into a template.
type htmlRenderer interface {
	Render(ctx context.Context, tmpl string, data *VisitData) (string, error)
}

var _ htmlRenderer = (*Renderer)(nil)

// Default request values.
const (
	DefaultOutput   = "report1.pdf"
	DefaultTemplate = "template.html"
	generatorName   = "visit2pdf"
)

// defaultTimeout bounds page load and printing when no timeout is given.
const defaultTimeout = 30 * time.Second

// Request describes one report to generate.
type Request struct {
	VisitID  int64
	Template string        // file path or built-in template name (default: template.html)
	Output   string        // PDF path, overwritten if present (default: report1.pdf)
	Page     *PageSettings // nil means A4 portrait
}

// Result summarizes a generated report.
type Result struct {
	VisitID      int64
	OutputPath   string
	Location     string // remote location when a Publisher is configured
	Pages        int    // 0 when no Stamper is configured
	Observations int
	Bytes        int
}

// Option configures a Service.
type Option func(*Service)

type serviceConfig struct {
	timeout    time.Duration
	renderOpts RenderOptions
}

// WithTimeout sets the page load and print timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("visit2pdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithRenderOptions configures locale, date format, escaping and placeholders.
func WithRenderOptions(opts RenderOptions) Option {
	return func(s *Service) {
		s.cfg.renderOpts = opts
	}
}

// WithStamper enables page counting and document properties.
func WithStamper(st Stamper) Option {
	return func(s *Service) {
		s.stamper = st
	}
}

// WithPublisher uploads each written report.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithLogger routes stage records to l.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service runs the fetch, render, convert and write stages for one visit.
// Create with NewService, call Generate, and Close when done.
type Service struct {
	cfg       serviceConfig
	source    Source
	templates TemplateSource
	renderer  htmlRenderer
	converter pdfConverter
	stamper   Stamper
	publisher Publisher
	log       Logger
}

// NewService creates a Service reading visits from source and templates from
// templates. The browser is launched lazily on the first conversion.
func NewService(source Source, templates TemplateSource, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if templates == nil {
		return nil, ErrNilTemplates
	}

	s := &Service{
		cfg:       serviceConfig{timeout: defaultTimeout},
		source:    source,
		templates: templates,
		log:       NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.renderer == nil {
		r, err := NewRenderer(s.cfg.renderOpts)
		if err != nil {
			return nil, fmt.Errorf("initializing renderer: %w", err)
		}
		s.renderer = r
	}
	if s.converter == nil {
		s.converter = newRodConverter(s.cfg.timeout)
	}
	return s, nil
}

// Generate fetches the visit, fills the template, prints it to PDF and writes
// the file. Each stage runs only if the previous one succeeded.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	req = withRequestDefaults(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	s.log.Debug("fetching visit", "visitID", req.VisitID)
	data, err := s.source.FetchVisit(ctx, req.VisitID)
	if err != nil {
		return nil, fmt.Errorf("fetching visit %d: %w", req.VisitID, err)
	}
	if data == nil || data.Visit == nil {
		return nil, fmt.Errorf("fetching visit %d: %w", req.VisitID, ErrNilVisitData)
	}

	tmpl, err := s.templates.Resolve(req.Template)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if tmpl == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTemplate, req.Template)
	}

	s.log.Debug("rendering template", "template", req.Template, "observations", len(data.Observations))
	htmlContent, err := s.renderer.Render(ctx, tmpl, data)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	s.log.Debug("converting to PDF", "bytes", len(htmlContent))
	pdf, err := s.converter.ToPDF(ctx, htmlContent, req.Page)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res := &Result{
		VisitID:      req.VisitID,
		OutputPath:   req.Output,
		Observations: len(data.Observations),
	}

	if s.stamper != nil {
		pdf, res.Pages, err = s.stamp(pdf, data)
		if err != nil {
			return nil, err
		}
	}

	if err := fileutil.WriteFile(req.Output, pdf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	res.Bytes = len(pdf)
	s.log.Debug("PDF written", "path", req.Output, "bytes", res.Bytes)

	if s.publisher != nil {
		loc, err := s.publisher.Publish(ctx, req.Output)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPublish, err)
		}
		res.Location = loc
		s.log.Info("report published", "location", loc)
	}

	return res, nil
}

// stamp counts pages and writes visit properties into pdf.
func (s *Service) stamp(pdf []byte, data *VisitData) ([]byte, int, error) {
	pages, err := s.stamper.PageCount(pdf)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStamp, err)
	}

	stamped, err := s.stamper.Stamp(pdf, map[string]string{
		"VisitID":   strconv.FormatInt(data.VisitID, 10),
		"Site":      data.Visit.ProjectTitle,
		"Generator": generatorName,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStamp, err)
	}
	return stamped, pages, nil
}

// Close releases the browser. It does not close the Source.
func (s *Service) Close() error {
	if s.converter != nil {
		return s.converter.Close()
	}
	return nil
}

func withRequestDefaults(req Request) Request {
	if req.Template == "" {
		req.Template = DefaultTemplate
	}
	if req.Output == "" {
		req.Output = DefaultOutput
	}
	return req
}

// validateRequest checks the request before any stage runs.
func validateRequest(req Request) error {
	if req.VisitID <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidVisitID, req.VisitID)
	}
	return req.Page.Validate()
}
