package sqlstore

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

var linkColumns = []string{"id", "service_id", "raw_material_id", "quantity", "created_at", "updated_at"}

func (c *conn) rawMaterials() sq.SelectBuilder {
	return c.builder.
		Select("rm.id", "rm.name", "rm.value", "rm.created_at", "rm.updated_at",
			"(SELECT COUNT(*) FROM service_raw_materials srm WHERE srm.raw_material_id = rm.id) AS services_count").
		From("raw_materials rm")
}

func (s *Storage) ListRawMaterials(ctx context.Context) ([]storage.RawMaterial, error) {
	const op = "storage.sqlstore.ListRawMaterials"

	query, args, err := s.rawMaterials().OrderBy("rm.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	materials := []storage.RawMaterial{}
	if err := sqlx.SelectContext(ctx, s.q, &materials, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return materials, nil
}

// GetRawMaterial returns the material with the services using it.
func (s *Storage) GetRawMaterial(ctx context.Context, id string) (*storage.RawMaterial, error) {
	const op = "storage.sqlstore.GetRawMaterial"

	query, args, err := s.rawMaterials().Where(sq.Eq{"rm.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var rm storage.RawMaterial
	if err := sqlx.GetContext(ctx, s.q, &rm, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	links, err := s.links(ctx, sq.Eq{"srm.raw_material_id": id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rm.Services = links
	return &rm, nil
}

func (c *conn) rawMaterialExists(ctx context.Context, id string) error {
	query, args, err := c.builder.Select("id").From("raw_materials").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var found string
	if err := sqlx.GetContext(ctx, c.q, &found, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Storage) CreateRawMaterial(ctx context.Context, rm *storage.RawMaterial) error {
	const op = "storage.sqlstore.CreateRawMaterial"

	query, args, err := s.builder.Insert("raw_materials").
		Columns("id", "name", "value", "created_at", "updated_at").
		Values(rm.ID, rm.Name, rm.Value, rm.CreatedAt, rm.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (s *Storage) UpdateRawMaterial(ctx context.Context, id string, upd storage.RawMaterialUpdate, at time.Time) error {
	const op = "storage.sqlstore.UpdateRawMaterial"

	set := map[string]interface{}{"updated_at": at}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Value != nil {
		set["value"] = *upd.Value
	}

	query, args, err := s.builder.Update("raw_materials").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
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

func (s *Storage) DeleteRawMaterial(ctx context.Context, id string) error {
	const op = "storage.sqlstore.DeleteRawMaterial"

	query, args, err := s.builder.Delete("raw_materials").Where(sq.Eq{"id": id}).ToSql()
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

func (c *conn) links(ctx context.Context, where sq.Eq) ([]storage.ServiceRawMaterial, error) {
	query, args, err := c.builder.
		Select("srm.id", "srm.service_id", "srm.raw_material_id", "srm.quantity", "srm.created_at", "srm.updated_at",
			"rm.name AS raw_material_name", "rm.value AS raw_material_value", "sv.client AS service_client").
		From("service_raw_materials srm").
		Join("raw_materials rm ON rm.id = srm.raw_material_id").
		Join("services sv ON sv.id = srm.service_id").
		Where(where).
		OrderBy("rm.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	links := []storage.ServiceRawMaterial{}
	if err := sqlx.SelectContext(ctx, c.q, &links, query, args...); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *Storage) ListServiceRawMaterials(ctx context.Context, serviceID string) ([]storage.ServiceRawMaterial, error) {
	const op = "storage.sqlstore.ListServiceRawMaterials"

	links, err := s.links(ctx, sq.Eq{"srm.service_id": serviceID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return links, nil
}

// UpsertServiceRawMaterial links a raw material to a service, replacing
// the quantity of an existing link. before is nil when the link is new.
func (s *Storage) UpsertServiceRawMaterial(
	ctx context.Context,
	serviceID, rawMaterialID string,
	quantity int64,
	at time.Time,
) (before, after *storage.ServiceRawMaterial, err error) {
	const op = "storage.sqlstore.UpsertServiceRawMaterial"

	err = s.inTx(ctx, func(c *conn) error {
		if _, err := c.GetService(ctx, serviceID); err != nil {
			return err
		}
		if err := c.rawMaterialExists(ctx, rawMaterialID); err != nil {
			return err
		}

		existing, err := c.links(ctx, sq.Eq{"srm.service_id": serviceID, "srm.raw_material_id": rawMaterialID})
		if err != nil {
			return err
		}

		var query string
		var args []interface{}
		if len(existing) > 0 {
			before = &existing[0]
			query, args, err = c.builder.Update("service_raw_materials").
				Set("quantity", quantity).
				Set("updated_at", at).
				Where(sq.Eq{"id": before.ID}).
				ToSql()
		} else {
			query, args, err = c.builder.Insert("service_raw_materials").
				Columns(linkColumns...).
				Values(uuid.NewString(), serviceID, rawMaterialID, quantity, at, at).
				ToSql()
		}
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
			return classify(err)
		}

		current, err := c.links(ctx, sq.Eq{"srm.service_id": serviceID, "srm.raw_material_id": rawMaterialID})
		if err != nil {
			return err
		}
		if len(current) == 0 {
			return storage.ErrNotFound
		}
		after = &current[0]
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return before, after, nil
}

// DeleteServiceRawMaterial removes a link and returns it.
func (s *Storage) DeleteServiceRawMaterial(ctx context.Context, serviceID, rawMaterialID string) (*storage.ServiceRawMaterial, error) {
	const op = "storage.sqlstore.DeleteServiceRawMaterial"

	var removed *storage.ServiceRawMaterial
	err := s.inTx(ctx, func(c *conn) error {
		existing, err := c.links(ctx, sq.Eq{"srm.service_id": serviceID, "srm.raw_material_id": rawMaterialID})
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return storage.ErrNotFound
		}
		removed = &existing[0]

		query, args, err := c.builder.Delete("service_raw_materials").Where(sq.Eq{"id": removed.ID}).ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		res, err := c.q.ExecContext(ctx, query, args...)
		if err != nil {
			return classify(err)
		}
		return affected(res)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return removed, nil
}
