package sqlstore

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

var userColumns = []string{"id", "name", "email", "password_hash", "created_at", "updated_at"}

func (s *Storage) GetUser(ctx context.Context, id string) (*storage.User, error) {
	return s.userBy(ctx, "storage.sqlstore.GetUser", sq.Eq{"id": id})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	return s.userBy(ctx, "storage.sqlstore.GetUserByEmail", sq.Eq{"email": email})
}

func (s *Storage) userBy(ctx context.Context, op string, where sq.Eq) (*storage.User, error) {
	query, args, err := s.builder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var u storage.User
	if err := sqlx.GetContext(ctx, s.q, &u, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]storage.User, error) {
	const op = "storage.sqlstore.ListUsers"

	query, args, err := s.builder.Select(userColumns...).From("users").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	users := []storage.User{}
	if err := sqlx.SelectContext(ctx, s.q, &users, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func (s *Storage) CreateUser(ctx context.Context, u *storage.User) error {
	const op = "storage.sqlstore.CreateUser"

	query, args, err := s.builder.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (s *Storage) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate, at time.Time) error {
	const op = "storage.sqlstore.UpdateUser"

	set := map[string]interface{}{"updated_at": at}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}

	query, args, err := s.builder.Update("users").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.sqlstore.DeleteUser"

	query, args, err := s.builder.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
