package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"casting-tracker/internal/storage"
	"casting-tracker/internal/storage/sqlstore"
)

const defaultSeedFile = "./config/seed.yaml"

type seedFixture struct {
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"users"`
	Operators []struct {
		Name string `yaml:"name"`
		Code string `yaml:"code"`
	} `yaml:"operators"`
	Services []struct {
		ID                     string    `yaml:"id"`
		Client                 string    `yaml:"client"`
		Description            string    `yaml:"description"`
		Notes                  *string   `yaml:"notes"`
		PlannedPreparationDate time.Time `yaml:"planned_preparation_date"`
		Pieces                 []struct {
			Name            string `yaml:"name"`
			PlannedQuantity int64  `yaml:"planned_quantity"`
			MetalType       string `yaml:"metal_type"`
			MaterialBrand   string `yaml:"material_brand"`
		} `yaml:"pieces"`
	} `yaml:"services"`
	RawMaterials []struct {
		Name  string  `yaml:"name"`
		Value float64 `yaml:"value"`
	} `yaml:"raw_materials"`
}

func newSeedCmd(load configLoader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, operators, services and raw materials from a YAML fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			fx, err := readSeed(file)
			if err != nil {
				return err
			}

			store, err := sqlstore.New(cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			return seed(cmd.Context(), store, fx, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&file, "file", defaultSeedFile, "fixture file")
	return cmd
}

func readSeed(path string) (*seedFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var fx seedFixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &fx, nil
}

// seed inserts what is missing. Users match by email, operators by code,
// services by id and raw materials by name, so reruns are harmless.
func seed(ctx context.Context, store *sqlstore.Storage, fx *seedFixture, out io.Writer) error {
	created := color.New(color.FgGreen).SprintFunc()
	skipped := color.New(color.FgYellow).SprintFunc()
	now := time.Now().UTC()

	for _, u := range fx.Users {
		_, err := store.GetUserByEmail(ctx, strings.ToLower(u.Email))
		if err == nil {
			fmt.Fprintln(out, skipped("skip"), "user", u.Email)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if _, err := createAdmin(ctx, store, u.Name, u.Email, u.Password); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		fmt.Fprintln(out, created("create"), "user", u.Email)
	}

	for _, o := range fx.Operators {
		_, err := store.GetOperatorByCode(ctx, o.Code)
		if err == nil {
			fmt.Fprintln(out, skipped("skip"), "operator", o.Code)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		err = store.CreateOperator(ctx, &storage.Operator{
			ID: uuid.NewString(), Name: o.Name, Code: o.Code, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seed operator %s: %w", o.Code, err)
		}
		fmt.Fprintln(out, created("create"), "operator", o.Code, o.Name)
	}

	for _, s := range fx.Services {
		_, err := store.GetServiceWithPieces(ctx, s.ID)
		if err == nil {
			fmt.Fprintln(out, skipped("skip"), "service", s.ID)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		svc := &storage.Service{
			ID:                     s.ID,
			Client:                 s.Client,
			Description:            s.Description,
			Notes:                  s.Notes,
			PlannedPreparationDate: s.PlannedPreparationDate,
			Active:                 true,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		for _, p := range s.Pieces {
			svc.Pieces = append(svc.Pieces, storage.Piece{
				ID:              uuid.NewString(),
				ServiceID:       s.ID,
				Name:            p.Name,
				PlannedQuantity: p.PlannedQuantity,
				MetalType:       p.MetalType,
				MaterialBrand:   p.MaterialBrand,
				CreatedAt:       now,
			})
		}
		if err := store.CreateService(ctx, svc); err != nil {
			return fmt.Errorf("seed service %s: %w", s.ID, err)
		}
		fmt.Fprintln(out, created("create"), "service", s.ID, fmt.Sprintf("(%d pieces)", len(svc.Pieces)))
	}

	existing, err := store.ListRawMaterials(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, rm := range existing {
		names[rm.Name] = true
	}
	for _, rm := range fx.RawMaterials {
		if names[rm.Name] {
			fmt.Fprintln(out, skipped("skip"), "raw material", rm.Name)
			continue
		}
		err := store.CreateRawMaterial(ctx, &storage.RawMaterial{
			ID: uuid.NewString(), Name: rm.Name, Value: rm.Value, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seed raw material %s: %w", rm.Name, err)
		}
		names[rm.Name] = true
		fmt.Fprintln(out, created("create"), "raw material", rm.Name)
	}

	return nil
}
