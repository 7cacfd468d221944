// Package store reads site-visit records from the reporting database.
//
// A Store holds exactly one connection. FetchVisit issues four read-only
// queries in sequence, one per table, each filtered by the visit identifier.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mssqldialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	visit2pdf "github.com/alnah/go-visit2pdf"
	"github.com/alnah/go-visit2pdf/internal/config"
)

// Sentinel errors for data access.
var (
	ErrConnect           = errors.New("database connection failed")
	ErrQuery             = errors.New("database query failed")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrClosed            = errors.New("store is closed")
)

// Table names queried for one visit.
const (
	TableVisit          = "Visit"
	TableObservation    = "Observation"
	TableVisitor        = "Visitor"
	TableRepresentative = "Representative"
)

const visitIDColumn = "VisitID"

var (
	visitColumns          = []string{"ProjectTitle", "ProjectOU", "CreatedByName", "CreatedOn"}
	observationColumns    = []string{"Type", "Category", "Title", "Description", "CreatedByName"}
	visitorColumns        = []string{"VisitorName", "VisitorTitle"}
	representativeColumns = []string{"RepName", "RepTitle"}
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// Store is a single-connection reader for visit data.
type Store struct {
	db     *bun.DB
	driver string
	schema string
	log    visit2pdf.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes connection and row-count records to l.
func WithLogger(l visit2pdf.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open connects to the database described by cfg and verifies the connection
// with a ping before returning. The pool is capped at one connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (*Store, error) {
	driver := config.NormalizeDriver(cfg.Driver)
	if driver == "" {
		driver = config.DefaultDriver
	}

	driverName, err := sqlDriverName(driver)
	if err != nil {
		return nil, err
	}
	dsn, err := buildDSN(driver, cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{
		driver: driver,
		schema: cfg.Schema,
		log:    visit2pdf.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	s.db = bun.NewDB(sqlDB, newDialect(driver))
	s.log.Debug("database connected", "driver", driver, "host", cfg.Host, "database", cfg.Name)
	return s, nil
}

// newDialect returns the bun dialect for a normalized driver name.
func newDialect(driver string) schema.Dialect {
	switch driver {
	case config.DriverPostgres:
		return pgdialect.New()
	case config.DriverMySQL:
		return mysqldialect.New()
	case config.DriverSQLite:
		return sqlitedialect.New()
	default:
		return mssqldialect.New()
	}
}

// Close releases the connection. Safe on a nil Store and when called twice.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.log.Debug("database connection closed", "driver", s.driver)
	return err
}

// FetchVisit loads the visit header and its observations, visitors and
// representatives. Rows keep the order the database returns them in.
// Returns visit2pdf.ErrVisitNotFound when the visit table has no matching row.
func (s *Store) FetchVisit(ctx context.Context, visitID int64) (*visit2pdf.VisitData, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}

	var visits []visit2pdf.Visit
	if err := s.selectRows(ctx, &visits, TableVisit, visitColumns, visitID); err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return nil, fmt.Errorf("%w: VisitID %d", visit2pdf.ErrVisitNotFound, visitID)
	}
	if len(visits) > 1 {
		s.log.Warn("multiple visit rows, using the first", "visitID", visitID, "rows", len(visits))
	}

	data := &visit2pdf.VisitData{
		VisitID: visitID,
		Visit:   &visits[0],
	}
	if err := s.selectRows(ctx, &data.Observations, TableObservation, observationColumns, visitID); err != nil {
		return nil, err
	}
	if err := s.selectRows(ctx, &data.Visitors, TableVisitor, visitorColumns, visitID); err != nil {
		return nil, err
	}
	if err := s.selectRows(ctx, &data.Representatives, TableRepresentative, representativeColumns, visitID); err != nil {
		return nil, err
	}

	s.log.Debug("visit fetched",
		"visitID", visitID,
		"observations", len(data.Observations),
		"visitors", len(data.Visitors),
		"representatives", len(data.Representatives),
	)
	return data, nil
}

// selectRows runs SELECT <columns> FROM <schema.table> WHERE VisitID = ?
// and scans every row into dest. Identifiers are quoted by the dialect.
func (s *Store) selectRows(ctx context.Context, dest any, table string, columns []string, visitID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	query, args := selectQuery(s.qualified(table), columns, visitID)
	if err := s.db.NewRaw(query, args...).Scan(ctx, dest); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %v", ErrQuery, table, err)
	}
	return nil
}

// qualified prefixes table with the configured schema.
func (s *Store) qualified(table string) string {
	if s.schema == "" {
		return table
	}
	return s.schema + "." + table
}

// selectQuery builds the raw query text and its bun arguments.
func selectQuery(table string, columns []string, visitID int64) (string, []any) {
	args := make([]any, 0, len(columns)+3)
	for _, c := range columns {
		args = append(args, bun.Ident(c))
	}
	args = append(args, bun.Ident(table), bun.Ident(visitIDColumn), visitID)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "SELECT " + placeholders + " FROM ? WHERE ? = ?", args
}
