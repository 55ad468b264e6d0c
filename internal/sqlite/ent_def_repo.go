package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kindlab/metastore/pkg/types"
)

// EntityDefRepo persists entity definitions together with their ordered
// attribute membership.
type EntityDefRepo struct {
	store *Store
}

// NewEntityDefRepo returns a repository bound to the store.
func NewEntityDefRepo(store *Store) *EntityDefRepo {
	return &EntityDefRepo{store: store}
}

// Get retrieves an entity definition and its attribute definitions in
// display order. A missing id yields a nil result.
func (r *EntityDefRepo) Get(ctx context.Context, id string) (*types.EntityDef, error) {
	var def types.EntityDef
	err := r.store.db.GetContext(ctx, &def,
		"SELECT id, name, description, listing_attr_def_id FROM entity_defs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting entity def %s: %w", id, err)
	}
	if err := r.loadAttributes(ctx, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// List returns entity definitions ordered by name, each with its ordered
// attribute definitions loaded.
func (r *EntityDefRepo) List(ctx context.Context, p *types.Pagination) ([]types.EntityDef, error) {
	offset, limit := p.OffsetLimit()
	defs := []types.EntityDef{}
	err := r.store.db.SelectContext(ctx, &defs,
		"SELECT id, name, description, listing_attr_def_id FROM entity_defs ORDER BY name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing entity defs: %w", err)
	}
	for i := range defs {
		if err := r.loadAttributes(ctx, &defs[i]); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// ListIDsNames returns (id, name) pairs of all entity definitions ordered
// by name, for selection widgets.
func (r *EntityDefRepo) ListIDsNames(ctx context.Context) ([]types.Ref, error) {
	refs := []types.Ref{}
	err := r.store.db.SelectContext(ctx, &refs,
		"SELECT id, name FROM entity_defs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing entity def refs: %w", err)
	}
	return refs, nil
}

// ListRefsByAttrDefID returns (id, name) pairs of the entity definitions
// whose membership includes the given attribute definition. Used to report
// dependents when an attribute-definition delete is rejected.
func (r *EntityDefRepo) ListRefsByAttrDefID(ctx context.Context, attrDefID string) ([]types.Ref, error) {
	refs := []types.Ref{}
	err := r.store.db.SelectContext(ctx, &refs,
		`SELECT ed.id, ed.name FROM entity_defs ed
		 JOIN entity_defs_attribute_defs_xref edad ON ed.id = edad.entity_def_id
		 WHERE edad.attribute_def_id = ?
		 ORDER BY edad.show_index`, attrDefID)
	if err != nil {
		return nil, fmt.Errorf("listing entity defs by attribute def %s: %w", attrDefID, err)
	}
	return refs, nil
}

// Add inserts the definition row and its membership rows in one unit of
// work. A partial membership write would corrupt the display order, so the
// whole insert rolls back on any failure.
func (r *EntityDefRepo) Add(ctx context.Context, def *types.EntityDef) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO entity_defs (id, name, description, listing_attr_def_id) VALUES (?, ?, ?, ?)",
		def.ID, def.Name, def.Description, def.ListingAttrDefID)
	if err != nil {
		r.store.log.Error().Err(err).Str("name", def.Name).Msg("failed to add entity def")
		return fmt.Errorf("adding entity def: %w", err)
	}

	if err := replaceEntityDefMembership(ctx, tx, def.ID, def.Attributes, false); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity def: %w", err)
	}
	return nil
}

// Update rewrites the definition row and replaces the whole membership.
// Reordering and add/remove of included attributes both go through the
// delete-then-reinsert of the membership rows, atomically.
func (r *EntityDefRepo) Update(ctx context.Context, def *types.EntityDef) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"UPDATE entity_defs SET name = ?, description = ?, listing_attr_def_id = ? WHERE id = ?",
		def.Name, def.Description, def.ListingAttrDefID, def.ID)
	if err != nil {
		r.store.log.Error().Err(err).Str("id", def.ID).Msg("failed to update entity def")
		return fmt.Errorf("updating entity def: %w", err)
	}

	if err := replaceEntityDefMembership(ctx, tx, def.ID, def.Attributes, true); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity def: %w", err)
	}
	return nil
}

// Remove deletes the membership rows and then the definition row. A
// foreign-key violation on the definition row means entities or link
// definitions still depend on it; that is reported as
// types.ErrDependenciesExist, and the caller queries the dependents.
func (r *EntityDefRepo) Remove(ctx context.Context, id string) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM entity_defs_attribute_defs_xref WHERE entity_def_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entity def membership: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM entity_defs WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return types.ErrDependenciesExist
		}
		r.store.log.Error().Err(err).Str("id", id).Msg("failed to delete entity def")
		return fmt.Errorf("deleting entity def: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isForeignKeyViolation(err) {
			return types.ErrDependenciesExist
		}
		return fmt.Errorf("committing entity def delete: %w", err)
	}
	return nil
}

// loadAttributes fills in the ordered attribute definitions of a definition.
func (r *EntityDefRepo) loadAttributes(ctx context.Context, def *types.EntityDef) error {
	attrs := []types.AttributeDef{}
	err := r.store.db.SelectContext(ctx, &attrs,
		`SELECT ad.id, ad.name, ad.description, ad.value_type, ad.default_value, ad.required, ad.tag_id
		 FROM attribute_defs ad
		 JOIN entity_defs_attribute_defs_xref edad ON ad.id = edad.attribute_def_id
		 WHERE edad.entity_def_id = ?
		 ORDER BY edad.show_index`, def.ID)
	if err != nil {
		return fmt.Errorf("loading attributes of entity def %s: %w", def.ID, err)
	}
	def.Attributes = attrs
	return nil
}

// replaceEntityDefMembership rewrites the ordered membership of an entity
// definition inside the caller's transaction. Positions are 1-based and
// follow the slice order.
func replaceEntityDefMembership(ctx context.Context, tx *sqlx.Tx, defID string, attrs []types.AttributeDef, clear bool) error {
	if clear {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM entity_defs_attribute_defs_xref WHERE entity_def_id = ?", defID)
		if err != nil {
			return fmt.Errorf("clearing entity def membership: %w", err)
		}
	}
	for i, attr := range attrs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO entity_defs_attribute_defs_xref (entity_def_id, attribute_def_id, show_index) VALUES (?, ?, ?)",
			defID, attr.ID, i+1)
		if err != nil {
			return fmt.Errorf("inserting entity def membership row %d: %w", i+1, err)
		}
	}
	return nil
}
