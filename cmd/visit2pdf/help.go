package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: visit2pdf [flags] [visit-id]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a PDF site-visit report from the visit database.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  visit-id    Visit to report on (or --visit, VISIT2PDF_VISIT_ID, report.visitId)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report:")
	fmt.Fprintln(w, "      --visit <n>           Visit ID")
	fmt.Fprintln(w, "      --template <s>        Template file path or built-in name (default: template.html)")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF path (default: report1.pdf)")
	fmt.Fprintln(w, "      --locale <s>          Locale for the visit date (default: en-US)")
	fmt.Fprintln(w, "      --date-format <s>     Date format: iso, european, us, long, full, or tokens")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd, ddd")
	fmt.Fprintln(w, "  -t, --timeout <d>         Page load and print timeout (default: 30s)")
	fmt.Fprintln(w, "      --raw-values          Insert database text without HTML escaping")
	fmt.Fprintln(w, "      --no-stamp            Skip PDF page count and properties")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Database:")
	fmt.Fprintln(w, "      --db-driver <s>       Driver: sqlserver, postgres, mysql, sqlite")
	fmt.Fprintln(w, "      --db-dsn <s>          Full connection string (overrides host/user/name)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logging")
	fmt.Fprintln(w, "      --print-config        Print the effective config (secrets masked) and exit")
	fmt.Fprintln(w, "      --version             Print version and exit")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  VISIT2PDF_CONFIG, VISIT2PDF_VISIT_ID, VISIT2PDF_TEMPLATE, VISIT2PDF_OUTPUT,")
	fmt.Fprintln(w, "  VISIT2PDF_LOCALE, VISIT2PDF_TIMEOUT, VISIT2PDF_DB_DRIVER, VISIT2PDF_DB_HOST,")
	fmt.Fprintln(w, "  VISIT2PDF_DB_PORT, VISIT2PDF_DB_USER, VISIT2PDF_DB_PASSWORD, VISIT2PDF_DB_NAME,")
	fmt.Fprintln(w, "  VISIT2PDF_DB_SCHEMA, VISIT2PDF_DB_DSN, VISIT2PDF_S3_BUCKET, VISIT2PDF_S3_REGION,")
	fmt.Fprintln(w, "  VISIT2PDF_S3_ENDPOINT")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome executable to launch")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Precedence: flags > environment > config file > defaults.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage/config, 3 I/O, 4 browser, 5 database")
}
