package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"casting-tracker/internal/config"
	"casting-tracker/internal/storage"
)

var t0 = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(config.Storage{Driver: "sqlite3", Name: filepath.Join(t.TempDir(), "tracker.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate())
	return s
}

func seedOperator(t *testing.T, s *Storage, code string) *storage.Operator {
	t.Helper()

	o := &storage.Operator{ID: uuid.NewString(), Name: "Operator " + code, Code: code, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.CreateOperator(context.Background(), o))
	return o
}

func seedService(t *testing.T, s *Storage, planned ...int64) *storage.Service {
	t.Helper()

	svc := &storage.Service{
		ID:                     uuid.NewString(),
		Client:                 "Fundição Norte",
		Description:            "Bronze flanges",
		PlannedPreparationDate: t0,
		Active:                 true,
		CreatedAt:              t0,
		UpdatedAt:              t0,
	}
	for i, q := range planned {
		svc.Pieces = append(svc.Pieces, storage.Piece{
			ID:              uuid.NewString(),
			Name:            "Piece " + string(rune('A'+i)),
			PlannedQuantity: q,
			MetalType:       "Bronze",
			MaterialBrand:   "CuSn10",
			CreatedAt:       t0,
		})
	}
	require.NoError(t, s.CreateService(context.Background(), svc))
	return svc
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate())
}

func TestDataSource(t *testing.T) {
	driver, dsn, err := dataSource(config.Storage{Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", Name: "tracker"})
	require.NoError(t, err)
	require.Equal(t, DriverMySQL, driver)
	require.Contains(t, dsn, "u:p@tcp(db:3306)/tracker")
	require.Contains(t, dsn, "parseTime=true")
	require.Contains(t, dsn, "multiStatements=true")

	driver, dsn, err = dataSource(config.Storage{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "tracker"})
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, driver)
	require.Equal(t, "postgres://u:p@db:5432/tracker?sslmode=disable", dsn)

	driver, dsn, err = dataSource(config.Storage{Driver: "sqlite3", DSN: "file:custom.db"})
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, driver)
	require.Equal(t, "file:custom.db", dsn)

	_, _, err = dataSource(config.Storage{Driver: "oracle"})
	require.Error(t, err)
}

func TestNewConn_Placeholders(t *testing.T) {
	for driver, want := range map[string]string{
		DriverPostgres: "SELECT id FROM users WHERE email = $1",
		DriverMySQL:    "SELECT id FROM users WHERE email = ?",
		DriverSQLite:   "SELECT id FROM users WHERE email = ?",
	} {
		query, args, err := newConn(nil, driver).builder.
			Select("id").From("users").Where(sq.Eq{"email": "a@b.c"}).ToSql()
		require.NoError(t, err)
		require.Equal(t, want, query, driver)
		require.Equal(t, []interface{}{"a@b.c"}, args)
	}
}
