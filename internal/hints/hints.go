// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-visit2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// The launcher disables the Chrome sandbox when CI=true or when
// ROD_BROWSER_BIN is set, so the hints point at those two variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
	browserBin := os.Getenv("ROD_BROWSER_BIN")

	if (inCI || IsInContainer()) && os.Getenv("CI") != "true" && browserBin == "" {
		hints = append(hints, "set CI=true to run Chrome without sandbox in Docker/CI")
	}
	if browserBin == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for reports with many observations, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/visit2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/visit2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output file write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForDatabaseConnect returns hints for connection failures to the named driver.
func ForDatabaseConnect(driver string) string {
	hints := []string{"check database.host, database.user and VISIT2PDF_DB_PASSWORD"}

	switch driver {
	case "sqlserver", "postgres", "mysql":
		hints = append(hints, "set database.trustServerCertificate for self-signed certificates")
	case "sqlite":
		hints = []string{"check database.name points to a file in an existing directory"}
	}

	return formatHints(hints)
}

// ForVisitNotFound returns a hint when no visit row matches.
func ForVisitNotFound() string {
	return format("check --visit and database.schema")
}

// ForTemplateNotFound returns hints for template not found errors.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return format("pass a template file path with --template")
	}
	return format("built-in templates: " + strings.Join(available, ", ") + "; or pass a file path")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
