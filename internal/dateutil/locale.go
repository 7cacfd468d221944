package dateutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLocale indicates a locale that is not a valid BCP 47 tag.
var ErrInvalidLocale = errors.New("invalid locale")

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en-US"

// localeFormats lists the short calendar-date format for each supported
// locale. The first entry is the fallback for unmatched locales.
var localeFormats = []struct {
	tag    language.Tag
	format string
}{
	{language.AmericanEnglish, "M/D/YYYY"},
	{language.BritishEnglish, "DD/MM/YYYY"},
	{language.French, "DD/MM/YYYY"},
	{language.German, "D.M.YYYY"},
	{language.Spanish, "D/M/YYYY"},
	{language.Italian, "D/M/YYYY"},
	{language.Dutch, "D-M-YYYY"},
	{language.Portuguese, "DD/MM/YYYY"},
	{language.Polish, "D.MM.YYYY"},
	{language.Swedish, "YYYY-MM-DD"},
	{language.Japanese, "YYYY/M/D"},
	{language.Chinese, "YYYY/M/D"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(localeFormats))
	for i, lf := range localeFormats {
		tags[i] = lf.tag
	}
	return language.NewMatcher(tags)
}()

// LocaleFormat returns the user-friendly date format for a locale.
// An empty locale resolves to DefaultLocale; a well-formed but unsupported
// locale falls back to the DefaultLocale format.
func LocaleFormat(locale string) (string, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidLocale, locale, err)
	}

	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	return localeFormats[idx].format, nil
}

// LocaleLayout returns the layout for a locale's short date.
func LocaleLayout(locale string) (Layout, error) {
	format, err := LocaleFormat(locale)
	if err != nil {
		return Layout{}, err
	}
	return ParseDateFormat(format)
}

// ResolveLayout returns the layout for an explicit format when set,
// otherwise for the locale. format may be a preset name (iso, european,
// us, long, full) or a token string such as "DD/MM/YYYY". The locale is
// validated even when format overrides it.
func ResolveLayout(locale, format string) (Layout, error) {
	if format == "" {
		return LocaleLayout(locale)
	}
	if _, err := LocaleFormat(locale); err != nil {
		return Layout{}, err
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	return ParseDateFormat(format)
}
