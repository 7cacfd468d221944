package yamlutil_test

// Notes:
// - Marshal error branch: goccy only fails on values such as channels or funcs,
//   which never reach the config encoder.
// - TestInputSizeLimit mutates MaxInputSize and therefore does not run in parallel.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-visit2pdf/internal/yamlutil"
)

type dbSection struct {
	Driver string `yaml:"driver"`
	Port   int    `yaml:"port"`
}

type sampleConfig struct {
	Database dbSection `yaml:"database"`
	Tags     []string  `yaml:"tags"`
	Encrypt  bool      `yaml:"encrypt"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Decodes known keys and rejects unknown ones
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       []byte
		dest       any
		wantErr    error
		wantSubstr string
		check      func(t *testing.T, v any)
	}{
		{
			name: "nested document",
			data: []byte("database:\n  driver: sqlserver\n  port: 1433\ntags: [a, b]\nencrypt: true\n"),
			dest: &sampleConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*sampleConfig)
				if cfg.Database.Driver != "sqlserver" || cfg.Database.Port != 1433 {
					t.Errorf("Database = %+v, want sqlserver:1433", cfg.Database)
				}
				if len(cfg.Tags) != 2 {
					t.Errorf("Tags = %v, want 2 entries", cfg.Tags)
				}
				if !cfg.Encrypt {
					t.Error("Encrypt = false, want true")
				}
			},
		},
		{
			name: "keeps preset values for absent keys",
			data: []byte("encrypt: false\n"),
			dest: &sampleConfig{Database: dbSection{Driver: "postgres"}, Encrypt: true},
			check: func(t *testing.T, v any) {
				cfg := v.(*sampleConfig)
				if cfg.Database.Driver != "postgres" {
					t.Errorf("Driver = %q, want preset postgres", cfg.Database.Driver)
				}
				if cfg.Encrypt {
					t.Error("Encrypt = true, want false")
				}
			},
		},
		{
			name:       "unknown nested key",
			data:       []byte("database:\n  drvier: mysql\n"),
			dest:       &sampleConfig{},
			wantSubstr: "yamlutil:",
		},
		{
			name:       "syntax error",
			data:       []byte("tags: [unclosed"),
			dest:       &sampleConfig{},
			wantSubstr: "yamlutil:",
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &sampleConfig{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "nil target",
			data:    []byte("encrypt: true"),
			dest:    nil,
			wantErr: yamlutil.ErrNilTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.wantSubstr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantSubstr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Encodes structs with indented sequences
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(&sampleConfig{
		Database: dbSection{Driver: "sqlite", Port: 0},
		Tags:     []string{"visit"},
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(out)
	for _, want := range []string{"database:\n  driver: sqlite", "tags:\n  - visit", "encrypt: false"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q, got:\n%s", want, s)
		}
	}

	var back sampleConfig
	if err := yamlutil.UnmarshalStrict(out, &back); err != nil {
		t.Fatalf("decoding marshaled output: %v", err)
	}
	if back.Database.Driver != "sqlite" {
		t.Errorf("Driver after decode = %q, want sqlite", back.Database.Driver)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Enforces MaxInputSize
// ---------------------------------------------------------------------------

func TestInputSizeLimit(t *testing.T) {
	original := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = original })

	yamlutil.MaxInputSize = 50
	data := []byte("encrypt: true\n" + strings.Repeat("# padding\n", 10))

	err := yamlutil.UnmarshalStrict(data, &sampleConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("error = %v, want ErrInputTooLarge", err)
	}
	if !strings.Contains(err.Error(), "max 50") {
		t.Errorf("error should name the limit, got: %v", err)
	}
}
