package main

import (
	"context"
	"io"
	"os"
	"time"

	visit2pdf "github.com/alnah/go-visit2pdf"
	"github.com/alnah/go-visit2pdf/internal/config"
	"github.com/alnah/go-visit2pdf/internal/publish"
	"github.com/alnah/go-visit2pdf/internal/store"
)

// visitStore is a Source that holds a connection.
type visitStore interface {
	visit2pdf.Source
	Close() error
}

// generator produces one report. *visit2pdf.Service implements it.
type generator interface {
	Generate(ctx context.Context, req visit2pdf.Request) (*visit2pdf.Result, error)
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ visitStore = (*store.Store)(nil)
	_ generator  = (*visit2pdf.Service)(nil)
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and the factories for the
// database, the report service and the uploader.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	OpenStore    func(ctx context.Context, cfg config.DatabaseConfig, log visit2pdf.Logger) (visitStore, error)
	NewGenerator func(src visit2pdf.Source, tmpl visit2pdf.TemplateSource, opts ...visit2pdf.Option) (generator, error)
	NewPublisher func(ctx context.Context, cfg publish.S3Config) (visit2pdf.Publisher, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		OpenStore: func(ctx context.Context, cfg config.DatabaseConfig, log visit2pdf.Logger) (visitStore, error) {
			s, err := store.Open(ctx, cfg, store.WithLogger(log))
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		NewGenerator: func(src visit2pdf.Source, tmpl visit2pdf.TemplateSource, opts ...visit2pdf.Option) (generator, error) {
			svc, err := visit2pdf.NewService(src, tmpl, opts...)
			if err != nil {
				return nil, err
			}
			return svc, nil
		},
		NewPublisher: func(ctx context.Context, cfg publish.S3Config) (visit2pdf.Publisher, error) {
			p, err := publish.NewS3(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	}
}
