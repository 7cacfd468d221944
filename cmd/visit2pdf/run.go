package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	visit2pdf "github.com/alnah/go-visit2pdf"
	"github.com/alnah/go-visit2pdf/internal/assets"
	"github.com/alnah/go-visit2pdf/internal/config"
	"github.com/alnah/go-visit2pdf/internal/hints"
	"github.com/alnah/go-visit2pdf/internal/pdfmeta"
	"github.com/alnah/go-visit2pdf/internal/publish"
	"github.com/alnah/go-visit2pdf/internal/store"
)

const durationPrecision = time.Millisecond

// resolveConfig builds the effective configuration:
// defaults, then the config file, then VISIT2PDF_* variables, then flags.
// Returns the config name it tried to load, for hints.
// A visit ID is required unless only the config is being printed.
func resolveConfig(flags *cliFlags, positional []string, env *Environment) (*config.Config, string, error) {
	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return nil, "", err
	}

	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return nil, configName, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, positional, cfg); err != nil {
		return nil, configName, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, configName, err
	}
	if cfg.Report.VisitID == 0 && !flags.common.printConfig {
		return nil, configName, ErrNoVisitID
	}

	return cfg, configName, nil
}

// generate opens the database, runs the report service and releases both.
// The store is closed on every path once Open has been attempted.
func generate(ctx context.Context, cfg *config.Config, log visit2pdf.Logger, env *Environment) (*visit2pdf.Result, error) {
	resolver, err := assets.NewTemplateResolver(cfg.Report.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	log.Debug("resolving template", "template", cfg.Report.Template, "source", templateSource(cfg.Report.Template, resolver))

	src, err := env.OpenStore(ctx, cfg.Database, log)
	defer func() {
		if src == nil {
			return
		}
		if cerr := src.Close(); cerr != nil {
			log.Warn("closing database", "err", cerr)
			return
		}
		log.Debug("database closed")
	}()
	if err != nil {
		return nil, err
	}

	opts, err := serviceOptions(ctx, cfg, log, env)
	if err != nil {
		return nil, err
	}

	svc, err := env.NewGenerator(src, resolver, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			log.Warn("closing browser", "err", cerr)
		}
	}()

	return svc.Generate(ctx, visit2pdf.Request{
		VisitID:  cfg.Report.VisitID,
		Template: cfg.Report.Template,
		Output:   cfg.Report.Output,
		Page: &visit2pdf.PageSettings{
			Size:        strings.ToLower(cfg.Page.Size),
			Orientation: strings.ToLower(cfg.Page.Orientation),
		},
	})
}

// templateSource describes where ref will be read from.
func templateSource(ref string, resolver *assets.TemplateResolver) string {
	switch {
	case assets.IsTemplatePath(ref):
		return "file"
	case resolver.HasCustomLoader():
		return "dir"
	default:
		return "embedded"
	}
}

// serviceOptions maps report, stamp and upload settings to service options.
func serviceOptions(ctx context.Context, cfg *config.Config, log visit2pdf.Logger, env *Environment) ([]visit2pdf.Option, error) {
	timeout, err := cfg.Report.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []visit2pdf.Option{
		visit2pdf.WithTimeout(timeout),
		visit2pdf.WithRenderOptions(visit2pdf.RenderOptions{
			Locale:     cfg.Report.Locale,
			DateFormat: cfg.Report.DateFormat,
			Raw:        cfg.Report.RawValues,
		}),
		visit2pdf.WithLogger(log),
	}

	if cfg.Report.Stamp {
		opts = append(opts, visit2pdf.WithStamper(pdfmeta.New()))
	}

	if s3cfg := cfg.Upload.S3; s3cfg.Bucket != "" {
		pub, err := env.NewPublisher(ctx, publish.S3Config{
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			Prefix:    s3cfg.Prefix,
			PathStyle: s3cfg.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", visit2pdf.ErrPublish, err)
		}
		opts = append(opts, visit2pdf.WithPublisher(pub))
	}

	return opts, nil
}

// hintFor returns an actionable hint for err, or "".
// cfg may be nil when configuration failed.
func hintFor(err error, cfg *config.Config, configName string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigCandidates(configName))
	case errors.Is(err, store.ErrConnect):
		driver := ""
		if cfg != nil {
			driver = config.NormalizeDriver(cfg.Database.Driver)
		}
		return hints.ForDatabaseConnect(driver)
	case errors.Is(err, visit2pdf.ErrVisitNotFound):
		return hints.ForVisitNotFound()
	case errors.Is(err, assets.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(assets.NewEmbeddedLoader().Names())
	case errors.Is(err, visit2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, visit2pdf.ErrPageLoad),
		errors.Is(err, visit2pdf.ErrPDFGeneration),
		errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, visit2pdf.ErrWritePDF):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}

// userConfigCandidates lists the per-user config files a bare name maps to.
func userConfigCandidates(name string) []string {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "visit2pdf", name+".yaml")}
}
