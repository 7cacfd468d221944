package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-visit2pdf/internal/config"
)

// Sentinel errors for argument handling.
var (
	ErrNoVisitID       = errors.New("no visit ID specified")
	ErrInvalidVisitArg = errors.New("visit ID must be a positive integer")
	ErrTooManyArgs     = errors.New("too many arguments")
)

// commonFlags holds output and config selection flags.
type commonFlags struct {
	config      string
	quiet       bool
	verbose     bool
	version     bool
	help        bool
	printConfig bool
}

// reportFlags holds flags for what to render and where.
type reportFlags struct {
	visit      int64
	template   string
	output     string
	locale     string
	dateFormat string
	timeout    string
	rawValues  bool
	noStamp    bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
}

// databaseFlags holds connection flags. Credentials are not accepted on the
// command line; use the config file or VISIT2PDF_DB_PASSWORD.
type databaseFlags struct {
	driver string
	dsn    string
}

// cliFlags holds every visit2pdf flag.
type cliFlags struct {
	common commonFlags
	report reportFlags
	page   pageFlags
	db     databaseFlags

	// visitSet records whether --visit was given, since 0 is its zero value.
	visitSet bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show usage")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config as YAML and exit")
}

// addReportFlags adds report flags to a FlagSet.
func addReportFlags(fs *flag.FlagSet, f *reportFlags) {
	fs.Int64Var(&f.visit, "visit", 0, "visit ID to report on")
	fs.StringVar(&f.template, "template", "", "template file path or built-in name")
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path")
	fs.StringVar(&f.locale, "locale", "", "locale for the visit date, e.g. en-US, fr-FR")
	fs.StringVar(&f.dateFormat, "date-format", "", "date format: iso, european, us, long, full, or tokens")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page load and print timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.rawValues, "raw-values", false, "insert database text without HTML escaping")
	fs.BoolVar(&f.noStamp, "no-stamp", false, "skip PDF page count and properties")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
}

// addDatabaseFlags adds database flags to a FlagSet.
func addDatabaseFlags(fs *flag.FlagSet, f *databaseFlags) {
	fs.StringVar(&f.driver, "db-driver", "", "database driver: sqlserver, postgres, mysql, sqlite")
	fs.StringVar(&f.dsn, "db-dsn", "", "full database connection string")
}

// parseFlags parses visit2pdf flags and returns positional args.
// args excludes the program name.
func parseFlags(args []string, usage io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("visit2pdf", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	addReportFlags(fs, &f.report)
	addPageFlags(fs, &f.page)
	addDatabaseFlags(fs, &f.db)

	fs.Usage = func() { printUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.visitSet = fs.Changed("visit")

	return f, fs.Args(), nil
}

// parseVisitArg parses a positional visit ID.
func parseVisitArg(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVisitArg, s)
	}
	return id, nil
}

// mergeFlags applies flags and positional args to cfg (flags win).
// A positional visit ID conflicts with --visit only if they differ.
func mergeFlags(f *cliFlags, positional []string, cfg *config.Config) error {
	switch len(positional) {
	case 0:
	case 1:
		id, err := parseVisitArg(positional[0])
		if err != nil {
			return err
		}
		if f.visitSet && f.report.visit != id {
			return fmt.Errorf("%w: --visit %d and argument %d disagree", ErrInvalidVisitArg, f.report.visit, id)
		}
		cfg.Report.VisitID = id
	default:
		return fmt.Errorf("%w: expected at most one visit ID, got %d", ErrTooManyArgs, len(positional))
	}

	if f.visitSet {
		if f.report.visit <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidVisitArg, f.report.visit)
		}
		cfg.Report.VisitID = f.report.visit
	}

	if f.report.template != "" {
		cfg.Report.Template = f.report.template
	}
	if f.report.output != "" {
		cfg.Report.Output = f.report.output
	}
	if f.report.locale != "" {
		cfg.Report.Locale = f.report.locale
	}
	if f.report.dateFormat != "" {
		cfg.Report.DateFormat = f.report.dateFormat
	}
	if f.report.timeout != "" {
		cfg.Report.Timeout = f.report.timeout
	}
	if f.report.rawValues {
		cfg.Report.RawValues = true
	}
	if f.report.noStamp {
		cfg.Report.Stamp = false
	}

	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}

	if f.db.driver != "" {
		cfg.Database.Driver = f.db.driver
	}
	if f.db.dsn != "" {
		cfg.Database.DSN = f.db.dsn
	}

	return nil
}
