// Package dateutil converts user-facing date formats and locales into Go
// time layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// dateTokens maps format tokens to Go layout elements.
// Longer tokens come first so "MMMM" is not read as four "M".
var dateTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"full":     "dddd, MMMM D, YYYY",
}

// Layout is a parsed date format. Token segments hold Go layout elements;
// literal segments are copied to the output without interpretation, so
// "[Visit 1]" stays "Visit 1".
type Layout struct {
	segments []segment
}

type segment struct {
	text    string
	literal bool
}

// Format renders t with the layout.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, seg := range l.segments {
		if seg.literal {
			b.WriteString(seg.text)
			continue
		}
		b.WriteString(t.Format(seg.text))
	}
	return b.String()
}

// appendLiteral adds text as a literal, merging with a preceding literal.
func (l *Layout) appendLiteral(text string) {
	if text == "" {
		return
	}
	if n := len(l.segments); n > 0 && l.segments[n-1].literal {
		l.segments[n-1].text += text
		return
	}
	l.segments = append(l.segments, segment{text: text, literal: true})
}

// ParseDateFormat converts a token format such as "DD/MM/YYYY" into a
// Layout.
//
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd (weekday), ddd.
// Text inside brackets is copied verbatim: "[Visit of] D MMMM".
// Other characters are copied as they are.
func ParseDateFormat(format string) (Layout, error) {
	if format == "" {
		return Layout{}, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return Layout{}, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var l Layout
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				pos := len(format) - len(rest)
				return Layout{}, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, pos)
			}
			l.appendLiteral(literal)
			rest = after
			continue
		}

		layout, n := matchToken(rest)
		if n == 0 {
			l.appendLiteral(rest[:1])
			rest = rest[1:]
			continue
		}
		l.segments = append(l.segments, segment{text: layout})
		rest = rest[n:]
	}

	return l, nil
}

// matchToken returns the layout for the token at the start of s and the
// token length, or 0 when s does not start with a token.
func matchToken(s string) (string, int) {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			return t.layout, len(t.token)
		}
	}
	return "", 0
}
