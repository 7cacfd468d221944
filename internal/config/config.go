package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-visit2pdf/internal/dateutil"
	"github.com/alnah/go-visit2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Supported database drivers.
const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLite    = "sqlite"
)

// Defaults applied by DefaultConfig.
const (
	DefaultDriver   = DriverSQLServer
	DefaultSchema   = "EssvNew"
	DefaultTemplate = "template.html"
	DefaultOutput   = "report1.pdf"
	DefaultLocale   = "en-US"
	DefaultTimeout  = "30s"
	DefaultPageSize = "a4"
	DefaultLogLevel = "info"
)

// Field length limits.
const (
	MaxHostLength       = 253  // DNS name limit
	MaxIdentifierLength = 128  // SQL Server sysname
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxDSNLength        = 2048
	MaxLocaleLength     = 35 // BCP 47 practical limit
	MaxDateFormatLength = 50
	MaxBucketLength     = 63 // S3 bucket name limit
	MaxURLLength        = 2048
)

// Config holds all configuration for report generation.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Report   ReportConfig   `yaml:"report"`
	Page     PageConfig     `yaml:"page"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig defines how to reach the visit database.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlserver", "postgres", "mysql", "sqlite"
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"` // 0 = driver default
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	Name                   string `yaml:"name"`   // database name, or file path for sqlite
	Schema                 string `yaml:"schema"` // table qualifier (empty = unqualified)
	DSN                    string `yaml:"dsn"`    // overrides host/user/password/name when set
	Encrypt                bool   `yaml:"encrypt"`
	TrustServerCertificate bool   `yaml:"trustServerCertificate"`
}

// ReportConfig defines what to render and where to write it.
type ReportConfig struct {
	VisitID     int64  `yaml:"visitId"`     // 0 = must be supplied on the command line
	Template    string `yaml:"template"`    // file path or embedded template name
	TemplateDir string `yaml:"templateDir"` // directory searched for named templates
	Output      string `yaml:"output"`
	Locale      string `yaml:"locale"`     // BCP 47 tag for the date placeholder
	DateFormat  string `yaml:"dateFormat"` // overrides locale, e.g. "iso", "DD/MM/YYYY"
	Timeout     string `yaml:"timeout"`    // Go duration, e.g. "30s"
	RawValues   bool   `yaml:"rawValues"`  // insert database text without HTML escaping
	Stamp       bool   `yaml:"stamp"`      // write document properties into the PDF
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string `yaml:"size"`        // "a4", "letter", "legal" (default: "a4")
	Orientation string `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
}

// UploadConfig defines optional publishing of the generated PDF.
type UploadConfig struct {
	S3 S3Config `yaml:"s3"`
}

// S3Config defines an S3-compatible destination. Empty Bucket disables upload.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // custom endpoint, e.g. MinIO
	Prefix    string `yaml:"prefix"`   // key prefix prepended to the output file name
	PathStyle bool   `yaml:"pathStyle"`
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// DefaultConfig returns the configuration used when no file is given:
// SQL Server over an encrypted connection, template.html in, report1.pdf out.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:  DefaultDriver,
			Schema:  DefaultSchema,
			Encrypt: true,
		},
		Report: ReportConfig{
			Template: DefaultTemplate,
			Output:   DefaultOutput,
			Locale:   DefaultLocale,
			Timeout:  DefaultTimeout,
			Stamp:    true,
		},
		Page: PageConfig{
			Size:        DefaultPageSize,
			Orientation: "portrait",
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Validate checks field values and lengths.
// Called automatically by LoadConfig, but available for callers that
// build or override a Config in code.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return err
	}
	if err := c.Report.validate(); err != nil {
		return err
	}

	switch strings.ToLower(c.Page.Size) {
	case "", "a4", "letter", "legal":
	default:
		return fmt.Errorf("%w: page.size %q (must be a4, letter, or legal)", ErrInvalidValue, c.Page.Size)
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.Page.Orientation)
	}

	if err := validateFieldLength("upload.s3.bucket", c.Upload.S3.Bucket, MaxBucketLength); err != nil {
		return err
	}
	if err := validateFieldLength("upload.s3.endpoint", c.Upload.S3.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("upload.s3.prefix", c.Upload.S3.Prefix, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	switch NormalizeDriver(d.Driver) {
	case DriverSQLServer, DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("%w: database.driver %q (must be sqlserver, postgres, mysql, or sqlite)", ErrInvalidValue, d.Driver)
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("%w: database.port %d (must be between 0 and 65535)", ErrInvalidValue, d.Port)
	}

	fields := []struct {
		name  string
		value string
		limit int
	}{
		{"database.host", d.Host, MaxHostLength},
		{"database.user", d.User, MaxIdentifierLength},
		{"database.name", d.Name, MaxPathLength},
		{"database.schema", d.Schema, MaxIdentifierLength},
		{"database.dsn", d.DSN, MaxDSNLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.limit); err != nil {
			return err
		}
	}
	return nil
}

func (r *ReportConfig) validate() error {
	if r.VisitID < 0 {
		return fmt.Errorf("%w: report.visitId %d (must be positive)", ErrInvalidValue, r.VisitID)
	}

	fields := []struct {
		name  string
		value string
		limit int
	}{
		{"report.template", r.Template, MaxPathLength},
		{"report.templateDir", r.TemplateDir, MaxPathLength},
		{"report.output", r.Output, MaxPathLength},
		{"report.locale", r.Locale, MaxLocaleLength},
		{"report.dateFormat", r.DateFormat, MaxDateFormatLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.limit); err != nil {
			return err
		}
	}

	if _, err := dateutil.ResolveLayout(r.Locale, r.DateFormat); err != nil {
		return fmt.Errorf("report.locale/report.dateFormat: %w", err)
	}

	if r.Timeout != "" {
		if _, err := r.TimeoutDuration(); err != nil {
			return err
		}
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty value yields DefaultTimeout.
func (r *ReportConfig) TimeoutDuration() (time.Duration, error) {
	value := r.Timeout
	if value == "" {
		value = DefaultTimeout
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: report.timeout %q: %v", ErrInvalidValue, r.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: report.timeout %q (must be positive)", ErrInvalidValue, r.Timeout)
	}
	return d, nil
}

// NormalizeDriver lowercases a driver name and maps common aliases.
func NormalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "mssql", "azuresql":
		return DriverSQLServer
	case "postgresql", "pgx":
		return DriverPostgres
	case "sqlite3":
		return DriverSQLite
	default:
		return d
	}
}

// Redacted returns a copy with secrets masked, suitable for printing.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.Database.Password != "" {
		cp.Database.Password = redactedValue
	}
	if cp.Database.DSN != "" {
		cp.Database.DSN = redactedValue
	}
	return &cp
}

const redactedValue = "********"

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// Values absent from the file keep their DefaultConfig value.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yamlutil.Marshal(cfg)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/visit2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "visit2pdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
