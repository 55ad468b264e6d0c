package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kindlab/metastore/pkg/types"
)

// AttributeDefRepo persists attribute definitions.
type AttributeDefRepo struct {
	store *Store
}

// NewAttributeDefRepo returns a repository bound to the store.
func NewAttributeDefRepo(store *Store) *AttributeDefRepo {
	return &AttributeDefRepo{store: store}
}

const attrDefColumns = "id, name, description, value_type, default_value, required, tag_id"

// Get retrieves an attribute definition by id. A missing id is not an
// error: the result is nil.
func (r *AttributeDefRepo) Get(ctx context.Context, id string) (*types.AttributeDef, error) {
	var def types.AttributeDef
	err := r.store.db.GetContext(ctx, &def,
		"SELECT "+attrDefColumns+" FROM attribute_defs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting attribute def %s: %w", id, err)
	}
	return &def, nil
}

// List returns attribute definitions ordered by name.
func (r *AttributeDefRepo) List(ctx context.Context, p *types.Pagination) ([]types.AttributeDef, error) {
	offset, limit := p.OffsetLimit()
	defs := []types.AttributeDef{}
	err := r.store.db.SelectContext(ctx, &defs,
		"SELECT "+attrDefColumns+" FROM attribute_defs ORDER BY name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing attribute defs: %w", err)
	}
	return defs, nil
}

// Add inserts a new attribute definition. A (name, description) collision
// is reported as types.ErrNameDescriptionNotUnique.
func (r *AttributeDefRepo) Add(ctx context.Context, item *types.AttributeDef) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO attribute_defs (id, name, description, value_type, default_value, required, tag_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Description, item.ValueType.Code(),
		item.DefaultValue, item.IsRequired, item.TagID)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrNameDescriptionNotUnique
		}
		r.store.log.Error().Err(err).Str("name", item.Name).Msg("failed to add attribute def")
		return fmt.Errorf("adding attribute def: %w", err)
	}
	return nil
}

// Update edits an existing attribute definition.
func (r *AttributeDefRepo) Update(ctx context.Context, item *types.AttributeDef) error {
	return r.update(ctx, r.store.db, item)
}

// UpdateTx is Update inside a caller-owned transaction. The management
// layer uses it to combine a definition rename with the listing-cache
// repair in one unit of work.
func (r *AttributeDefRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, item *types.AttributeDef) error {
	return r.update(ctx, tx, item)
}

func (r *AttributeDefRepo) update(ctx context.Context, ex sqlx.ExtContext, item *types.AttributeDef) error {
	_, err := ex.ExecContext(ctx,
		`UPDATE attribute_defs
		 SET name = ?, description = ?, value_type = ?, default_value = ?, required = ?, tag_id = ?
		 WHERE id = ?`,
		item.Name, item.Description, item.ValueType.Code(),
		item.DefaultValue, item.IsRequired, item.TagID, item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrNameDescriptionNotUnique
		}
		r.store.log.Error().Err(err).Str("id", item.ID).Msg("failed to update attribute def")
		return fmt.Errorf("updating attribute def: %w", err)
	}
	return nil
}

// Remove deletes an attribute definition. A foreign-key violation means a
// definition or attribute instance still references it and is reported as
// types.ErrDependenciesExist; the caller enumerates the dependents.
func (r *AttributeDefRepo) Remove(ctx context.Context, id string) error {
	_, err := r.store.db.ExecContext(ctx, "DELETE FROM attribute_defs WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return types.ErrDependenciesExist
		}
		r.store.log.Error().Err(err).Str("id", id).Msg("failed to delete attribute def")
		return fmt.Errorf("deleting attribute def: %w", err)
	}
	return nil
}
