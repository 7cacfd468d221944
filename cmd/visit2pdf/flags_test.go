package main

// Notes:
// - parseFlags: we test short and long forms, the --visit presence tracking
//   and that unknown flags fail.
// - mergeFlags: we test positional visit ID handling, flag overrides and that
//   unset flags leave config values alone.

import (
	"bytes"
	"errors"
	"testing"

	"github.com/alnah/go-visit2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseFlags
// ---------------------------------------------------------------------------

func TestParseFlags(t *testing.T) {
	t.Parallel()

	t.Run("long and short forms", func(t *testing.T) {
		t.Parallel()

		var usage bytes.Buffer
		f, pos, err := parseFlags([]string{
			"-c", "work", "--visit", "77", "--template", "t.html", "-o", "out.pdf",
			"--locale", "fr-FR", "-t", "1m", "-p", "letter", "--orientation", "landscape",
			"--raw-values", "--no-stamp", "--db-driver", "sqlite", "--db-dsn", "file:x.db", "-v",
		}, &usage)
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if len(pos) != 0 {
			t.Errorf("positional = %v, want none", pos)
		}
		if f.common.config != "work" || !f.common.verbose {
			t.Errorf("common = %+v", f.common)
		}
		if !f.visitSet || f.report.visit != 77 {
			t.Errorf("visit = %d (set=%v), want 77", f.report.visit, f.visitSet)
		}
		if f.report.template != "t.html" || f.report.output != "out.pdf" || f.report.locale != "fr-FR" || f.report.timeout != "1m" {
			t.Errorf("report = %+v", f.report)
		}
		if !f.report.rawValues || !f.report.noStamp {
			t.Errorf("bool report flags = %+v", f.report)
		}
		if f.page.size != "letter" || f.page.orientation != "landscape" {
			t.Errorf("page = %+v", f.page)
		}
		if f.db.driver != "sqlite" || f.db.dsn != "file:x.db" {
			t.Errorf("db = %+v", f.db)
		}
	})

	t.Run("positional visit and unset visit flag", func(t *testing.T) {
		t.Parallel()

		f, pos, err := parseFlags([]string{"42", "-q"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if f.visitSet {
			t.Error("visitSet = true without --visit")
		}
		if len(pos) != 1 || pos[0] != "42" {
			t.Errorf("positional = %v, want [42]", pos)
		}
		if !f.common.quiet {
			t.Error("quiet = false")
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseFlags([]string{"--visitid", "1"}, &bytes.Buffer{}); err == nil {
			t.Error("expected error for unknown flag")
		}
	})

	t.Run("non-numeric visit flag", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseFlags([]string{"--visit", "abc"}, &bytes.Buffer{}); err == nil {
			t.Error("expected error for non-numeric --visit")
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergeFlags
// ---------------------------------------------------------------------------

func TestMergeFlags_VisitID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flags      cliFlags
		positional []string
		configured int64
		want       int64
		wantErr    error
	}{
		{name: "positional", positional: []string{"12"}, want: 12},
		{name: "flag", flags: cliFlags{report: reportFlags{visit: 9}, visitSet: true}, want: 9},
		{name: "flag over config", flags: cliFlags{report: reportFlags{visit: 9}, visitSet: true}, configured: 3, want: 9},
		{name: "config kept", configured: 3, want: 3},
		{name: "flag and positional agree", flags: cliFlags{report: reportFlags{visit: 5}, visitSet: true}, positional: []string{"5"}, want: 5},
		{name: "flag and positional disagree", flags: cliFlags{report: reportFlags{visit: 5}, visitSet: true}, positional: []string{"6"}, wantErr: ErrInvalidVisitArg},
		{name: "zero positional", positional: []string{"0"}, wantErr: ErrInvalidVisitArg},
		{name: "text positional", positional: []string{"seven"}, wantErr: ErrInvalidVisitArg},
		{name: "negative flag", flags: cliFlags{report: reportFlags{visit: -1}, visitSet: true}, wantErr: ErrInvalidVisitArg},
		{name: "two positionals", positional: []string{"1", "2"}, wantErr: ErrTooManyArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Report.VisitID = tt.configured
			flags := tt.flags

			err := mergeFlags(&flags, tt.positional, cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("mergeFlags() error = %v", err)
			}
			if cfg.Report.VisitID != tt.want {
				t.Errorf("VisitID = %d, want %d", cfg.Report.VisitID, tt.want)
			}
		})
	}
}

func TestMergeFlags_Overrides(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	f := &cliFlags{
		report: reportFlags{
			template: "custom.html", output: "out/r.pdf", locale: "de-DE",
			dateFormat: "iso", timeout: "5s", rawValues: true, noStamp: true,
		},
		page: pageFlags{size: "legal", orientation: "landscape"},
		db:   databaseFlags{driver: "postgres", dsn: "postgres://x"},
	}

	if err := mergeFlags(f, nil, cfg); err != nil {
		t.Fatalf("mergeFlags() error = %v", err)
	}

	r := cfg.Report
	if r.Template != "custom.html" || r.Output != "out/r.pdf" || r.Locale != "de-DE" || r.DateFormat != "iso" || r.Timeout != "5s" {
		t.Errorf("Report = %+v", r)
	}
	if !r.RawValues || r.Stamp {
		t.Errorf("RawValues = %v, Stamp = %v; want true, false", r.RawValues, r.Stamp)
	}
	if cfg.Page.Size != "legal" || cfg.Page.Orientation != "landscape" {
		t.Errorf("Page = %+v", cfg.Page)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://x" {
		t.Errorf("Database = %+v", cfg.Database)
	}
}

func TestMergeFlags_UnsetKeepsConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Report.Output = "from-file.pdf"
	cfg.Report.RawValues = true

	if err := mergeFlags(&cliFlags{}, nil, cfg); err != nil {
		t.Fatalf("mergeFlags() error = %v", err)
	}
	if cfg.Report.Output != "from-file.pdf" {
		t.Errorf("Output = %q, want from-file.pdf", cfg.Report.Output)
	}
	if !cfg.Report.RawValues || !cfg.Report.Stamp {
		t.Errorf("unset bool flags changed config: %+v", cfg.Report)
	}
}
