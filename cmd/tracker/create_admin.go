package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"casting-tracker/internal/auth"
	"casting-tracker/internal/storage"
	"casting-tracker/internal/storage/sqlstore"
)

func newCreateAdminCmd(load configLoader) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			store, err := sqlstore.New(cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			u, err := createAdmin(cmd.Context(), store, name, email, password)
			if errors.Is(err, storage.ErrExists) {
				return fmt.Errorf("a user with email %s already exists", email)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s <%s> (%s)\n", color.GreenString("created admin"), u.Name, u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

type userCreator interface {
	CreateUser(ctx context.Context, u *storage.User) error
}

func createAdmin(ctx context.Context, users userCreator, name, email, password string) (*storage.User, error) {
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &storage.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
