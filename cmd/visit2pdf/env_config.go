package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	visit2pdf "github.com/alnah/go-visit2pdf"
	"github.com/alnah/go-visit2pdf/internal/config"
)

// ErrInvalidEnv indicates a VISIT2PDF_* variable holds an unusable value.
var ErrInvalidEnv = errors.New("invalid environment variable")

const envPrefix = "VISIT2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Report
	ConfigPath string // VISIT2PDF_CONFIG: config file name or path
	VisitID    int64  // VISIT2PDF_VISIT_ID
	Template   string // VISIT2PDF_TEMPLATE
	Output     string // VISIT2PDF_OUTPUT
	Locale     string // VISIT2PDF_LOCALE
	Timeout    string // VISIT2PDF_TIMEOUT: Go duration, validated with the config

	// Database
	DBDriver   string // VISIT2PDF_DB_DRIVER
	DBHost     string // VISIT2PDF_DB_HOST
	DBPort     int    // VISIT2PDF_DB_PORT
	DBUser     string // VISIT2PDF_DB_USER
	DBPassword string // VISIT2PDF_DB_PASSWORD
	DBName     string // VISIT2PDF_DB_NAME
	DBSchema   string // VISIT2PDF_DB_SCHEMA
	DBDSN      string // VISIT2PDF_DB_DSN

	// Upload
	S3Bucket   string // VISIT2PDF_S3_BUCKET
	S3Region   string // VISIT2PDF_S3_REGION
	S3Endpoint string // VISIT2PDF_S3_ENDPOINT
}

// knownEnvVars lists valid VISIT2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"VISIT2PDF_CONFIG":      true,
	"VISIT2PDF_VISIT_ID":    true,
	"VISIT2PDF_TEMPLATE":    true,
	"VISIT2PDF_OUTPUT":      true,
	"VISIT2PDF_LOCALE":      true,
	"VISIT2PDF_TIMEOUT":     true,
	"VISIT2PDF_DB_DRIVER":   true,
	"VISIT2PDF_DB_HOST":     true,
	"VISIT2PDF_DB_PORT":     true,
	"VISIT2PDF_DB_USER":     true,
	"VISIT2PDF_DB_PASSWORD": true,
	"VISIT2PDF_DB_NAME":     true,
	"VISIT2PDF_DB_SCHEMA":   true,
	"VISIT2PDF_DB_DSN":      true,
	"VISIT2PDF_S3_BUCKET":   true,
	"VISIT2PDF_S3_REGION":   true,
	"VISIT2PDF_S3_ENDPOINT": true,
}

// loadEnvConfig reads configuration from environment variables.
// Numeric variables that are set but malformed return ErrInvalidEnv.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath: getenv("VISIT2PDF_CONFIG"),
		Template:   getenv("VISIT2PDF_TEMPLATE"),
		Output:     getenv("VISIT2PDF_OUTPUT"),
		Locale:     getenv("VISIT2PDF_LOCALE"),
		Timeout:    getenv("VISIT2PDF_TIMEOUT"),

		DBDriver:   getenv("VISIT2PDF_DB_DRIVER"),
		DBHost:     getenv("VISIT2PDF_DB_HOST"),
		DBUser:     getenv("VISIT2PDF_DB_USER"),
		DBPassword: getenv("VISIT2PDF_DB_PASSWORD"),
		DBName:     getenv("VISIT2PDF_DB_NAME"),
		DBSchema:   getenv("VISIT2PDF_DB_SCHEMA"),
		DBDSN:      getenv("VISIT2PDF_DB_DSN"),

		S3Bucket:   getenv("VISIT2PDF_S3_BUCKET"),
		S3Region:   getenv("VISIT2PDF_S3_REGION"),
		S3Endpoint: getenv("VISIT2PDF_S3_ENDPOINT"),
	}

	if v := getenv("VISIT2PDF_VISIT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: VISIT2PDF_VISIT_ID=%q (%v)", ErrInvalidEnv, v, visit2pdf.ErrInvalidVisitID)
		}
		cfg.VisitID = id
	}

	if v := getenv("VISIT2PDF_DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: VISIT2PDF_DB_PORT=%q", ErrInvalidEnv, v)
		}
		cfg.DBPort = port
	}

	return cfg, nil
}

// unknownEnvVars returns the sorted names of unrecognized VISIT2PDF_*
// variables in environ. Helps catch typos like VISIT2PDF_VISITID.
func unknownEnvVars(environ []string) []string {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// applyEnvConfig applies environment variable values to config.
// A set variable overrides the config file, so the precedence is:
// CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Report.Template, env.Template)
	setString(&cfg.Report.Output, env.Output)
	setString(&cfg.Report.Locale, env.Locale)
	setString(&cfg.Report.Timeout, env.Timeout)
	if env.VisitID > 0 {
		cfg.Report.VisitID = env.VisitID
	}

	setString(&cfg.Database.Driver, env.DBDriver)
	setString(&cfg.Database.Host, env.DBHost)
	setString(&cfg.Database.User, env.DBUser)
	setString(&cfg.Database.Password, env.DBPassword)
	setString(&cfg.Database.Name, env.DBName)
	setString(&cfg.Database.Schema, env.DBSchema)
	setString(&cfg.Database.DSN, env.DBDSN)
	if env.DBPort != 0 {
		cfg.Database.Port = env.DBPort
	}

	setString(&cfg.Upload.S3.Bucket, env.S3Bucket)
	setString(&cfg.Upload.S3.Region, env.S3Region)
	setString(&cfg.Upload.S3.Endpoint, env.S3Endpoint)
}

// setString overwrites *dst when value is non-empty.
func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
