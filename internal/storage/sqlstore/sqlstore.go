package sqlstore

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"casting-tracker/internal/config"
	"casting-tracker/internal/tracking"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// conn carries the queries shared by the pool and by transactions.
type conn struct {
	q       sqlx.ExtContext
	driver  string
	builder sq.StatementBuilderType
}

func newConn(q sqlx.ExtContext, driver string) *conn {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	return &conn{
		q:       q,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

type Storage struct {
	*conn
	db *sqlx.DB
}

func New(cfg config.Storage) (*Storage, error) {
	const op = "storage.sqlstore.New"

	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened database. The driver name decides the
// placeholder style and the migration set.
func NewWithDB(db *sqlx.DB) *Storage {
	return &Storage{conn: newConn(db, db.DriverName()), db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type txStore struct {
	*conn
}

// RunInTx runs fn inside one database transaction. fn's error is returned
// unchanged so callers can inspect it.
func (s *Storage) RunInTx(ctx context.Context, fn func(tx tracking.Tx) error) error {
	const op = "storage.sqlstore.RunInTx"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&txStore{conn: newConn(tx, s.driver)}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func (s *Storage) inTx(ctx context.Context, fn func(c *conn) error) error {
	return s.RunInTx(ctx, func(tx tracking.Tx) error {
		return fn(tx.(*txStore).conn)
	})
}

func dataSource(cfg config.Storage) (driver, dsn string, err error) {
	switch cfg.Driver {
	case "", "mysql":
		driver = DriverMySQL
	case "postgres", "pgx":
		driver = DriverPostgres
	case "sqlite3", "sqlite":
		driver = DriverSQLite
	default:
		return "", "", fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}

	if cfg.DSN != "" {
		return driver, cfg.DSN, nil
	}

	switch driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.MultiStatements = true
		mc.ClientFoundRows = true
		dsn = mc.FormatDSN()
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:     "/" + cfg.Name,
			RawQuery: "sslmode=disable",
		}
		dsn = u.String()
	case DriverSQLite:
		dsn = SQLiteDSN(cfg.Name)
	}
	return driver, dsn, nil
}

// SQLiteDSN enables foreign keys, which SQLite leaves off by default.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// sum wraps SUM so every driver scans it into an int64.
func (c *conn) sum(expr string) string {
	if c.driver == DriverPostgres {
		return fmt.Sprintf("CAST(COALESCE(SUM(%s), 0) AS BIGINT)", expr)
	}
	return fmt.Sprintf("COALESCE(SUM(%s), 0)", expr)
}

func marker(set bool) *int {
	if !set {
		return nil
	}
	one := 1
	return &one
}
