package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kindlab/metastore/pkg/types"
)

// EntityLinkRepo persists entity-link instances and their attribute
// instances. Links carry no listing cache; list views show the definition
// name and the endpoint ids.
type EntityLinkRepo struct {
	store *Store
}

// NewEntityLinkRepo returns a repository bound to the store.
func NewEntityLinkRepo(store *Store) *EntityLinkRepo {
	return &EntityLinkRepo{store: store}
}

const entLinkColumns = `el.id, eld.name AS kind, el.def_id, el.source_entity_id, el.target_entity_id`

const entLinkAttrQuery = `
SELECT a.id, ad.name, ad.value_type, a.def_id,
       COALESCE(x.show_index, 1000000) AS show_index,
       a.text_value, a.smallint_value, a.integer_value, a.boolean_value
FROM (
    SELECT id, def_id, value AS text_value,
           NULL AS smallint_value, NULL AS integer_value, NULL AS boolean_value
    FROM text_attributes WHERE owner_id = ?1
    UNION ALL
    SELECT id, def_id, NULL, value, NULL, NULL
    FROM smallint_attributes WHERE owner_id = ?1
    UNION ALL
    SELECT id, def_id, NULL, NULL, value, NULL
    FROM integer_attributes WHERE owner_id = ?1
    UNION ALL
    SELECT id, def_id, NULL, NULL, NULL, value
    FROM boolean_attributes WHERE owner_id = ?1
) a
JOIN attribute_defs ad ON ad.id = a.def_id
LEFT JOIN entity_link_defs_attribute_defs_xref x
    ON x.entity_link_def_id = ?2 AND x.attribute_def_id = a.def_id
ORDER BY show_index, ad.name`

// Get retrieves a link with its attribute instances. A missing id yields a
// nil result.
func (r *EntityLinkRepo) Get(ctx context.Context, id string) (*types.EntityLink, error) {
	var link types.EntityLink
	err := r.store.db.GetContext(ctx, &link,
		"SELECT "+entLinkColumns+" FROM entity_links el JOIN entity_link_defs eld ON eld.id = el.def_id WHERE el.id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting entity link %s: %w", id, err)
	}

	rows := []attrRow{}
	if err := r.store.db.SelectContext(ctx, &rows, entLinkAttrQuery, link.ID, link.DefID); err != nil {
		return nil, fmt.Errorf("assembling attributes of entity link %s: %w", id, err)
	}
	bag := partitionAttrRows(rows, link.ID, r.store.log)
	link.TextAttributes = bag.Text
	link.SmallintAttributes = bag.Smallint
	link.IntAttributes = bag.Integer
	link.BooleanAttributes = bag.Boolean
	return &link, nil
}

// List returns link headers ordered by definition name then id.
func (r *EntityLinkRepo) List(ctx context.Context, p *types.Pagination) ([]types.EntityLink, error) {
	offset, limit := p.OffsetLimit()
	links := []types.EntityLink{}
	err := r.store.db.SelectContext(ctx, &links,
		"SELECT "+entLinkColumns+` FROM entity_links el
		 JOIN entity_link_defs eld ON eld.id = el.def_id
		 ORDER BY eld.name, el.id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing entity links: %w", err)
	}
	return links, nil
}

// ListByDefID returns link headers of one definition.
func (r *EntityLinkRepo) ListByDefID(ctx context.Context, defID string, p *types.Pagination) ([]types.EntityLink, error) {
	offset, limit := p.OffsetLimit()
	links := []types.EntityLink{}
	err := r.store.db.SelectContext(ctx, &links,
		"SELECT "+entLinkColumns+` FROM entity_links el
		 JOIN entity_link_defs eld ON eld.id = el.def_id
		 WHERE el.def_id = ?
		 ORDER BY el.id LIMIT ? OFFSET ?`,
		defID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing entity links of def %s: %w", defID, err)
	}
	return links, nil
}

// ListRefsByDefID returns (id, id) pairs of the links of one definition, for
// dependency reporting. Links have no display value, so the id doubles as
// the name.
func (r *EntityLinkRepo) ListRefsByDefID(ctx context.Context, defID string) ([]types.Ref, error) {
	refs := []types.Ref{}
	err := r.store.db.SelectContext(ctx, &refs,
		"SELECT id, id AS name FROM entity_links WHERE def_id = ? ORDER BY id", defID)
	if err != nil {
		return nil, fmt.Errorf("listing entity link refs of def %s: %w", defID, err)
	}
	return refs, nil
}

// ListRefsByEntityID returns (id, id) pairs of the links touching an entity
// as source or target.
func (r *EntityLinkRepo) ListRefsByEntityID(ctx context.Context, entityID string) ([]types.Ref, error) {
	refs := []types.Ref{}
	err := r.store.db.SelectContext(ctx, &refs,
		"SELECT id, id AS name FROM entity_links WHERE source_entity_id = ? OR target_entity_id = ? ORDER BY id",
		entityID, entityID)
	if err != nil {
		return nil, fmt.Errorf("listing entity links of entity %s: %w", entityID, err)
	}
	return refs, nil
}

// Add inserts the link row and all its attribute instances in one unit of
// work.
func (r *EntityLinkRepo) Add(ctx context.Context, link *types.EntityLink) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO entity_links (id, def_id, source_entity_id, target_entity_id) VALUES (?, ?, ?, ?)",
		link.ID, link.DefID, link.SourceEntityID, link.TargetEntityID)
	if err != nil {
		r.store.log.Error().Err(err).Str("def_id", link.DefID).Msg("failed to add entity link")
		return fmt.Errorf("adding entity link: %w", err)
	}

	bag := attrBag{
		Text:     link.TextAttributes,
		Smallint: link.SmallintAttributes,
		Integer:  link.IntAttributes,
		Boolean:  link.BooleanAttributes,
	}
	if err := insertOwnedAttributes(ctx, tx, r.store, link.ID, bag); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity link: %w", err)
	}
	link.TextAttributes = bag.Text
	link.SmallintAttributes = bag.Smallint
	link.IntAttributes = bag.Integer
	link.BooleanAttributes = bag.Boolean
	return nil
}

// Update writes every attribute instance value of the link.
func (r *EntityLinkRepo) Update(ctx context.Context, link *types.EntityLink) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range link.TextAttributes {
		if _, err := tx.ExecContext(ctx,
			"UPDATE text_attributes SET value = ? WHERE id = ?", a.Value, a.ID); err != nil {
			return fmt.Errorf("updating text_attributes row: %w", err)
		}
	}
	for _, a := range link.SmallintAttributes {
		if _, err := tx.ExecContext(ctx,
			"UPDATE smallint_attributes SET value = ? WHERE id = ?", a.Value, a.ID); err != nil {
			return fmt.Errorf("updating smallint_attributes row: %w", err)
		}
	}
	for _, a := range link.IntAttributes {
		if _, err := tx.ExecContext(ctx,
			"UPDATE integer_attributes SET value = ? WHERE id = ?", a.Value, a.ID); err != nil {
			return fmt.Errorf("updating integer_attributes row: %w", err)
		}
	}
	for _, a := range link.BooleanAttributes {
		if _, err := tx.ExecContext(ctx,
			"UPDATE boolean_attributes SET value = ? WHERE id = ?", a.Value, a.ID); err != nil {
			return fmt.Errorf("updating boolean_attributes row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity link update: %w", err)
	}
	return nil
}

// Remove deletes the link's attribute instances from all four typed
// relations and then the link row, atomically.
func (r *EntityLinkRepo) Remove(ctx context.Context, id string) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteOwnedAttributes(ctx, tx, id); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM entity_links WHERE id = ?", id)
	if err != nil {
		r.store.log.Error().Err(err).Str("id", id).Msg("failed to delete entity link")
		return fmt.Errorf("deleting entity link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity link delete: %w", err)
	}
	return nil
}
