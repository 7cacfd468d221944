package store

// Notes:
// - Every test opens its own SQLite file under t.TempDir through the real
//   Open path, so DSN handling, the bun dialect and scanning are exercised
//   together.
// - SQL Server, Postgres and MySQL are covered by DSN construction tests only;
//   no server is started here.

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	visit2pdf "github.com/alnah/go-visit2pdf"
	"github.com/alnah/go-visit2pdf/internal/config"
)

const schemaSQL = `
CREATE TABLE Visit (VisitID INTEGER, ProjectTitle TEXT, ProjectOU TEXT, CreatedByName TEXT, CreatedOn DATETIME);
CREATE TABLE Observation (VisitID INTEGER, Type TEXT, Category TEXT, Title TEXT, Description TEXT, CreatedByName TEXT);
CREATE TABLE Visitor (VisitID INTEGER, VisitorName TEXT, VisitorTitle TEXT);
CREATE TABLE Representative (VisitID INTEGER, RepName TEXT, RepTitle TEXT);
`

// openTestStore opens a SQLite-backed store with the visit tables created.
func openTestStore(t *testing.T, schema string, seed ...string) *Store {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "visits.db"),
		Schema: schema,
	}
	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	for _, stmt := range append([]string{schemaSQL}, seed...) {
		if _, err := s.db.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("seed %q: %v", stmt, err)
		}
	}
	return s
}

// ---------------------------------------------------------------------------
// TestFetchVisit
// ---------------------------------------------------------------------------

func TestFetchVisit_AllRowSets(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, "",
		`INSERT INTO Visit VALUES (77, 'Site A', 'OU-1', 'J. Doe', '2024-01-15 10:30:00')`,
		`INSERT INTO Visit VALUES (78, 'Other', 'OU-2', 'X', '2024-02-01 00:00:00')`,
		`INSERT INTO Observation VALUES (77, 'Safety', 'PPE', 'Helmet', 'No helmet', 'J. Doe')`,
		`INSERT INTO Observation VALUES (77, 'Quality', 'Finish', 'Paint', 'Uneven', 'R. Roe')`,
		`INSERT INTO Observation VALUES (78, 'Ignored', '', '', '', '')`,
		`INSERT INTO Visitor VALUES (77, 'Alice', 'Engineer')`,
		`INSERT INTO Representative VALUES (77, 'Bob', 'Owner')`,
	)

	data, err := s.FetchVisit(context.Background(), 77)
	if err != nil {
		t.Fatalf("FetchVisit() error = %v", err)
	}

	if data.VisitID != 77 {
		t.Errorf("VisitID = %d, want 77", data.VisitID)
	}
	if data.Visit.ProjectTitle != "Site A" || data.Visit.ProjectOU != "OU-1" || data.Visit.CreatedByName != "J. Doe" {
		t.Errorf("Visit = %+v", data.Visit)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !data.Visit.CreatedOn.Equal(want) {
		t.Errorf("CreatedOn = %v, want %v", data.Visit.CreatedOn, want)
	}

	if len(data.Observations) != 2 {
		t.Fatalf("Observations = %d rows, want 2", len(data.Observations))
	}
	first := data.Observations[0]
	if first.Type != "Safety" || first.Category != "PPE" || first.Title != "Helmet" ||
		first.Description != "No helmet" || first.CreatedByName != "J. Doe" {
		t.Errorf("Observations[0] = %+v", first)
	}
	if data.Observations[1].Type != "Quality" {
		t.Errorf("Observations[1].Type = %q, want insertion order", data.Observations[1].Type)
	}

	if len(data.Visitors) != 1 || data.Visitors[0] != (visit2pdf.Visitor{Name: "Alice", Title: "Engineer"}) {
		t.Errorf("Visitors = %+v", data.Visitors)
	}
	if len(data.Representatives) != 1 || data.Representatives[0] != (visit2pdf.Representative{Name: "Bob", Title: "Owner"}) {
		t.Errorf("Representatives = %+v", data.Representatives)
	}
}

func TestFetchVisit_EmptyChildTables(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, "", `INSERT INTO Visit VALUES (5, 'Lonely', 'OU', 'Me', '2024-03-01 08:00:00')`)

	data, err := s.FetchVisit(context.Background(), 5)
	if err != nil {
		t.Fatalf("FetchVisit() error = %v", err)
	}
	if len(data.Observations) != 0 || len(data.Visitors) != 0 || len(data.Representatives) != 0 {
		t.Errorf("expected empty child row sets, got %+v", data)
	}
}

func TestFetchVisit_NullColumns(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, "",
		`INSERT INTO Visit VALUES (9, NULL, NULL, NULL, NULL)`,
		`INSERT INTO Visitor VALUES (9, NULL, 'Title only')`,
	)

	data, err := s.FetchVisit(context.Background(), 9)
	if err != nil {
		t.Fatalf("FetchVisit() error = %v", err)
	}
	if data.Visit.ProjectTitle != "" || !data.Visit.CreatedOn.IsZero() {
		t.Errorf("NULL columns should scan as zero values, got %+v", data.Visit)
	}
	if len(data.Visitors) != 1 || data.Visitors[0].Name != "" || data.Visitors[0].Title != "Title only" {
		t.Errorf("Visitors = %+v", data.Visitors)
	}
}

func TestFetchVisit_NotFound(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, "")

	_, err := s.FetchVisit(context.Background(), 404)
	if !errors.Is(err, visit2pdf.ErrVisitNotFound) {
		t.Fatalf("error = %v, want ErrVisitNotFound", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should name the visit ID, got %v", err)
	}
}

func TestFetchVisit_MultipleVisitRowsTakesFirst(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, "",
		`INSERT INTO Visit VALUES (3, 'First', 'OU', 'A', '2024-01-01 00:00:00')`,
		`INSERT INTO Visit VALUES (3, 'Second', 'OU', 'B', '2024-01-02 00:00:00')`,
	)

	data, err := s.FetchVisit(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchVisit() error = %v", err)
	}
	if data.Visit.ProjectTitle != "First" {
		t.Errorf("ProjectTitle = %q, want First", data.Visit.ProjectTitle)
	}
}

func TestFetchVisit_SchemaQualified(t *testing.T) {
	t.Parallel()

	// "main" is SQLite's name for the primary database, so a qualified name
	// resolves to the same tables.
	s := openTestStore(t, "main", `INSERT INTO Visit VALUES (1, 'Qualified', 'OU', 'A', '2024-01-01 00:00:00')`)

	data, err := s.FetchVisit(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchVisit() error = %v", err)
	}
	if data.Visit.ProjectTitle != "Qualified" {
		t.Errorf("ProjectTitle = %q", data.Visit.ProjectTitle)
	}
}

func TestFetchVisit_QueryError(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, "missing_schema")

	_, err := s.FetchVisit(context.Background(), 1)
	if !errors.Is(err, ErrQuery) {
		t.Fatalf("error = %v, want ErrQuery", err)
	}
	if !strings.Contains(err.Error(), TableVisit) {
		t.Errorf("error should name the table, got %v", err)
	}
}

func TestFetchVisit_CanceledContext(t *testing.T) {
	t.Parallel()

	s := openTestStore(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.FetchVisit(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestOpen / TestClose
// ---------------------------------------------------------------------------

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestOpen_PingFailure(t *testing.T) {
	t.Parallel()

	// SQLite cannot create a file inside a directory that does not exist.
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "missing", "visits.db"),
	}
	s, err := Open(context.Background(), cfg)
	if !errors.Is(err, ErrConnect) {
		t.Fatalf("error = %v, want ErrConnect", err)
	}
	if s != nil {
		t.Error("Open() should return a nil store on failure")
	}
}

func TestOpen_SQLOpenFailure(t *testing.T) {
	orig := sqlOpenFunc
	sqlOpenFunc = func(string, string) (*sql.DB, error) { return nil, errors.New("driver missing") }
	t.Cleanup(func() { sqlOpenFunc = orig })

	_, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite})
	if !errors.Is(err, ErrConnect) {
		t.Errorf("error = %v, want ErrConnect", err)
	}
}

func TestClose_NilAndTwice(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}

	s := openTestStore(t, "")
	if err := s.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.FetchVisit(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("FetchVisit after Close error = %v, want ErrClosed", err)
	}
}

// ---------------------------------------------------------------------------
// TestSelectQuery
// ---------------------------------------------------------------------------

func TestSelectQuery(t *testing.T) {
	t.Parallel()

	query, args := selectQuery("EssvNew.Visit", visitColumns, 77)
	if query != "SELECT ?, ?, ?, ? FROM ? WHERE ? = ?" {
		t.Errorf("query = %q", query)
	}
	if len(args) != len(visitColumns)+3 {
		t.Fatalf("args = %d, want %d", len(args), len(visitColumns)+3)
	}
	if id, ok := args[len(args)-1].(int64); !ok || id != 77 {
		t.Errorf("last arg = %v, want int64 77", args[len(args)-1])
	}
}
