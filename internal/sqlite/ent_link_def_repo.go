package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kindlab/metastore/pkg/types"
)

// EntityLinkDefRepo persists entity-link definitions and their attribute
// membership. Unlike entity definitions, the membership is an unordered
// set; attributes are returned ordered by name.
type EntityLinkDefRepo struct {
	store *Store
}

// NewEntityLinkDefRepo returns a repository bound to the store.
func NewEntityLinkDefRepo(store *Store) *EntityLinkDefRepo {
	return &EntityLinkDefRepo{store: store}
}

const entLinkDefColumns = "id, name, description, cardinality, source_entity_def_id, target_entity_def_id"

// Get retrieves an entity-link definition with its attribute definitions.
// A missing id yields a nil result.
func (r *EntityLinkDefRepo) Get(ctx context.Context, id string) (*types.EntityLinkDef, error) {
	var def types.EntityLinkDef
	err := r.store.db.GetContext(ctx, &def,
		"SELECT "+entLinkDefColumns+" FROM entity_link_defs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting entity link def %s: %w", id, err)
	}
	if err := r.loadAttributes(ctx, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// List returns entity-link definitions ordered by name with attributes
// loaded.
func (r *EntityLinkDefRepo) List(ctx context.Context, p *types.Pagination) ([]types.EntityLinkDef, error) {
	offset, limit := p.OffsetLimit()
	defs := []types.EntityLinkDef{}
	err := r.store.db.SelectContext(ctx, &defs,
		"SELECT "+entLinkDefColumns+" FROM entity_link_defs ORDER BY name LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing entity link defs: %w", err)
	}
	for i := range defs {
		if err := r.loadAttributes(ctx, &defs[i]); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// ListRefsByAttrDefID returns (id, name) pairs of the link definitions
// whose membership includes the given attribute definition.
func (r *EntityLinkDefRepo) ListRefsByAttrDefID(ctx context.Context, attrDefID string) ([]types.Ref, error) {
	refs := []types.Ref{}
	err := r.store.db.SelectContext(ctx, &refs,
		`SELECT eld.id, eld.name FROM entity_link_defs eld
		 JOIN entity_link_defs_attribute_defs_xref x ON eld.id = x.entity_link_def_id
		 WHERE x.attribute_def_id = ?
		 ORDER BY eld.name`, attrDefID)
	if err != nil {
		return nil, fmt.Errorf("listing entity link defs by attribute def %s: %w", attrDefID, err)
	}
	return refs, nil
}

// ListRefsByEntityDefID returns (id, name) pairs of the link definitions
// whose source or target is the given entity definition.
func (r *EntityLinkDefRepo) ListRefsByEntityDefID(ctx context.Context, entityDefID string) ([]types.Ref, error) {
	refs := []types.Ref{}
	err := r.store.db.SelectContext(ctx, &refs,
		`SELECT id, name FROM entity_link_defs
		 WHERE source_entity_def_id = ? OR target_entity_def_id = ?
		 ORDER BY name`, entityDefID, entityDefID)
	if err != nil {
		return nil, fmt.Errorf("listing entity link defs by entity def %s: %w", entityDefID, err)
	}
	return refs, nil
}

// Add inserts the definition row and its membership rows atomically.
func (r *EntityLinkDefRepo) Add(ctx context.Context, def *types.EntityLinkDef) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entity_link_defs (id, name, description, cardinality, source_entity_def_id, target_entity_def_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		def.ID, def.Name, def.Description, def.Cardinality.Code(),
		def.SourceEntityDefID, def.TargetEntityDefID)
	if err != nil {
		r.store.log.Error().Err(err).Str("name", def.Name).Msg("failed to add entity link def")
		return fmt.Errorf("adding entity link def: %w", err)
	}

	if err := replaceEntityLinkDefMembership(ctx, tx, def.ID, def.Attributes, false); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity link def: %w", err)
	}
	return nil
}

// Update rewrites the definition row and replaces the membership rows in
// one unit of work.
func (r *EntityLinkDefRepo) Update(ctx context.Context, def *types.EntityLinkDef) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE entity_link_defs
		 SET name = ?, description = ?, cardinality = ?, source_entity_def_id = ?, target_entity_def_id = ?
		 WHERE id = ?`,
		def.Name, def.Description, def.Cardinality.Code(),
		def.SourceEntityDefID, def.TargetEntityDefID, def.ID)
	if err != nil {
		r.store.log.Error().Err(err).Str("id", def.ID).Msg("failed to update entity link def")
		return fmt.Errorf("updating entity link def: %w", err)
	}

	if err := replaceEntityLinkDefMembership(ctx, tx, def.ID, def.Attributes, true); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity link def: %w", err)
	}
	return nil
}

// Remove deletes the membership rows and the definition row. A foreign-key
// violation means link instances still reference the definition; it is
// reported as types.ErrDependenciesExist.
func (r *EntityLinkDefRepo) Remove(ctx context.Context, id string) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM entity_link_defs_attribute_defs_xref WHERE entity_link_def_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entity link def membership: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM entity_link_defs WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return types.ErrDependenciesExist
		}
		r.store.log.Error().Err(err).Str("id", id).Msg("failed to delete entity link def")
		return fmt.Errorf("deleting entity link def: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity link def delete: %w", err)
	}
	return nil
}

func (r *EntityLinkDefRepo) loadAttributes(ctx context.Context, def *types.EntityLinkDef) error {
	attrs := []types.AttributeDef{}
	err := r.store.db.SelectContext(ctx, &attrs,
		`SELECT ad.id, ad.name, ad.description, ad.value_type, ad.default_value, ad.required, ad.tag_id
		 FROM attribute_defs ad
		 JOIN entity_link_defs_attribute_defs_xref x ON ad.id = x.attribute_def_id
		 WHERE x.entity_link_def_id = ?
		 ORDER BY ad.name`, def.ID)
	if err != nil {
		return fmt.Errorf("loading attributes of entity link def %s: %w", def.ID, err)
	}
	def.Attributes = attrs
	return nil
}

func replaceEntityLinkDefMembership(ctx context.Context, tx *sqlx.Tx, defID string, attrs []types.AttributeDef, clear bool) error {
	if clear {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM entity_link_defs_attribute_defs_xref WHERE entity_link_def_id = ?", defID)
		if err != nil {
			return fmt.Errorf("clearing entity link def membership: %w", err)
		}
	}
	for i, attr := range attrs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO entity_link_defs_attribute_defs_xref (entity_link_def_id, attribute_def_id, show_index) VALUES (?, ?, ?)",
			defID, attr.ID, i+1)
		if err != nil {
			return fmt.Errorf("inserting entity link def membership row %d: %w", i+1, err)
		}
	}
	return nil
}
