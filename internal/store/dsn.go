package store

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/alnah/go-visit2pdf/internal/config"
)

// Default ports per driver, used when config leaves the port at zero.
const (
	defaultSQLServerPort = 1433
	defaultPostgresPort  = 5432
	defaultMySQLPort     = 3306
)

// sqlDriverName maps a config driver to the name registered with database/sql.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case config.DriverSQLServer:
		return "sqlserver", nil
	case config.DriverPostgres:
		// pgx stdlib registers itself as "pgx".
		return "pgx", nil
	case config.DriverMySQL:
		return "mysql", nil
	case config.DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// buildDSN composes a connection string from cfg. A non-empty cfg.DSN is
// returned verbatim.
func buildDSN(driver string, cfg config.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	switch driver {
	case config.DriverSQLServer:
		return sqlServerDSN(cfg), nil
	case config.DriverPostgres:
		return postgresDSN(cfg), nil
	case config.DriverMySQL:
		return mysqlDSN(cfg), nil
	case config.DriverSQLite:
		if cfg.Name == "" {
			return ":memory:", nil
		}
		return cfg.Name, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func hostPort(host string, port, fallback int) string {
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = fallback
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func userInfo(user, password string) *url.Userinfo {
	switch {
	case user == "":
		return nil
	case password == "":
		return url.User(user)
	default:
		return url.UserPassword(user, password)
	}
}

func sqlServerDSN(cfg config.DatabaseConfig) string {
	q := url.Values{}
	if cfg.Name != "" {
		q.Set("database", cfg.Name)
	}
	q.Set("encrypt", strconv.FormatBool(cfg.Encrypt))
	q.Set("TrustServerCertificate", strconv.FormatBool(cfg.TrustServerCertificate))

	u := url.URL{
		Scheme:   "sqlserver",
		User:     userInfo(cfg.User, cfg.Password),
		Host:     hostPort(cfg.Host, cfg.Port, defaultSQLServerPort),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func postgresDSN(cfg config.DatabaseConfig) string {
	sslmode := "disable"
	if cfg.Encrypt {
		sslmode = "verify-full"
		if cfg.TrustServerCertificate {
			sslmode = "require"
		}
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo(cfg.User, cfg.Password),
		Host:     hostPort(cfg.Host, cfg.Port, defaultPostgresPort),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

func mysqlDSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = hostPort(cfg.Host, cfg.Port, defaultMySQLPort)
	mc.DBName = cfg.Name
	mc.ParseTime = true

	switch {
	case !cfg.Encrypt:
		mc.TLSConfig = "false"
	case cfg.TrustServerCertificate:
		mc.TLSConfig = "skip-verify"
	default:
		mc.TLSConfig = "true"
	}
	return mc.FormatDSN()
}
