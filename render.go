package visit2pdf

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-visit2pdf/internal/dateutil"
)

// Placeholder tokens recognized in report templates.
const (
	TokenSiteName         = "{{siteName}}"
	TokenDate             = "{{date}}"
	TokenConductedBy      = "{{conductedBy}}"
	TokenObservationCount = "{{observationCount}}"
	TokenVisitors         = "{{visitors}}"
	TokenObservations     = "{{observations}}"
)

// ReplaceMode selects how many occurrences of a token are substituted.
type ReplaceMode int

const (
	// ReplaceFirst substitutes only the first occurrence.
	ReplaceFirst ReplaceMode = iota
	// ReplaceAll substitutes every occurrence.
	ReplaceAll
)

// String returns the mode name.
func (m ReplaceMode) String() string {
	switch m {
	case ReplaceFirst:
		return "first"
	case ReplaceAll:
		return "all"
	default:
		return "ReplaceMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Placeholder maps a template token to the value that replaces it.
type Placeholder struct {
	Token string
	Mode  ReplaceMode
	Value func(data *VisitData, f Formatter) string
}

// Formatter turns fetched fields into template text.
// Text escapes HTML special characters unless the formatter is raw.
type Formatter struct {
	raw        bool
	dateLayout dateutil.Layout
}

// Text returns s ready for insertion into HTML.
func (f Formatter) Text(s string) string {
	if f.raw {
		return s
	}
	return html.EscapeString(s)
}

// Date formats t as a calendar date without a time component.
// A zero time (NULL column) formats as an empty string.
func (f Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return f.dateLayout.Format(t)
}

// DefaultPlaceholders returns the substitution table applied to visit
// reports, in application order. Only the site name is replaced globally.
func DefaultPlaceholders() []Placeholder {
	return []Placeholder{
		{
			Token: TokenSiteName,
			Mode:  ReplaceAll,
			Value: func(d *VisitData, f Formatter) string { return f.Text(d.Visit.ProjectTitle) },
		},
		{
			Token: TokenDate,
			Mode:  ReplaceFirst,
			Value: func(d *VisitData, f Formatter) string { return f.Date(d.Visit.CreatedOn) },
		},
		{
			Token: TokenConductedBy,
			Mode:  ReplaceFirst,
			Value: func(d *VisitData, f Formatter) string { return f.Text(d.Visit.CreatedByName) },
		},
		{
			Token: TokenObservationCount,
			Mode:  ReplaceFirst,
			Value: func(d *VisitData, _ Formatter) string { return strconv.Itoa(len(d.Observations)) },
		},
		{
			Token: TokenVisitors,
			Mode:  ReplaceFirst,
			Value: func(d *VisitData, f Formatter) string { return buildVisitorLines(d.Visitors, f) },
		},
		{
			Token: TokenObservations,
			Mode:  ReplaceFirst,
			Value: func(d *VisitData, f Formatter) string { return buildObservationPages(d.Observations, f) },
		},
	}
}

// RenderOptions configures a Renderer.
type RenderOptions struct {
	Locale     string // BCP 47 tag for the date token (default: en-US)
	DateFormat string // Overrides Locale, e.g. "iso" or "DD/MM/YYYY"
	Raw        bool   // Insert fetched values without HTML escaping

	// Placeholders overrides DefaultPlaceholders when non-nil.
	Placeholders []Placeholder
}

// Renderer substitutes visit data into template text.
type Renderer struct {
	placeholders []Placeholder
	formatter    Formatter
}

// NewRenderer creates a Renderer.
// Returns an error for a malformed locale or date format.
func NewRenderer(opts RenderOptions) (*Renderer, error) {
	layout, err := dateutil.ResolveLayout(opts.Locale, opts.DateFormat)
	if err != nil {
		return nil, err
	}

	placeholders := opts.Placeholders
	if placeholders == nil {
		placeholders = DefaultPlaceholders()
	}

	return &Renderer{
		placeholders: placeholders,
		formatter:    Formatter{raw: opts.Raw, dateLayout: layout},
	}, nil
}

// Render applies every placeholder to tmpl in table order.
// Tokens missing from the template are skipped silently.
func (r *Renderer) Render(ctx context.Context, tmpl string, data *VisitData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil || data.Visit == nil {
		return "", ErrNilVisitData
	}

	out := tmpl
	for _, p := range r.placeholders {
		if !strings.Contains(out, p.Token) {
			continue
		}
		out = replace(out, p.Token, p.Value(data, r.formatter), p.Mode)
	}
	return out, nil
}

// replace substitutes token in s according to mode.
func replace(s, token, value string, mode ReplaceMode) string {
	if mode == ReplaceAll {
		return strings.ReplaceAll(s, token, value)
	}
	return strings.Replace(s, token, value, 1)
}

// buildVisitorLines renders one name/title fragment per visitor, unseparated.
func buildVisitorLines(visitors []Visitor, f Formatter) string {
	var b strings.Builder
	for _, v := range visitors {
		fmt.Fprintf(&b, "\n            <h4>%s</h4>\n            <p>%s</p>\n        ",
			f.Text(v.Name), f.Text(v.Title))
	}
	return b.String()
}

// buildObservationPages renders one page per observation, each preceded by a
// page-break marker and labeled with its 1-based position.
func buildObservationPages(observations []Observation, f Formatter) string {
	var b strings.Builder
	for i, obs := range observations {
		fmt.Fprintf(&b, `
            <div class="page-break"></div>
            <div class="container">
                <h2>Observation %d</h2>
                <p><strong>Category:</strong> %s</p>
                <p><strong>Details:</strong> %s</p>
                <p><strong>Title:</strong> %s</p>
                <p><strong>Description:</strong> %s</p>
                <p><strong>Created By:</strong> %s</p>
            </div>
        `,
			i+1,
			f.Text(obs.Type),
			f.Text(obs.Category),
			f.Text(obs.Title),
			f.Text(obs.Description),
			f.Text(obs.CreatedByName),
		)
	}
	return b.String()
}
