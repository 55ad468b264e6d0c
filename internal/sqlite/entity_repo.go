package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/kindlab/metastore/pkg/types"
)

// EntityRepo persists entity instances and their attribute instances across
// the four typed relations.
type EntityRepo struct {
	store *Store
}

// NewEntityRepo returns a repository bound to the store.
func NewEntityRepo(store *Store) *EntityRepo {
	return &EntityRepo{store: store}
}

const entityColumns = `e.id, ed.name AS kind, e.def_id,
	e.listing_attr_def_id, e.listing_attr_name, e.listing_attr_value`

// entityAttrQuery fans in across the four typed relations for one owner and
// joins the membership xref to recover display positions. Attributes not in
// the current membership sort last.
const entityAttrQuery = `
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
LEFT JOIN entity_defs_attribute_defs_xref x
    ON x.entity_def_id = ?2 AND x.attribute_def_id = a.def_id
ORDER BY show_index, ad.name`

// Get retrieves an entity with its attribute instances assembled in the
// definition's display order. A missing id yields a nil result.
func (r *EntityRepo) Get(ctx context.Context, id string) (*types.Entity, error) {
	var ent types.Entity
	err := r.store.db.GetContext(ctx, &ent,
		"SELECT "+entityColumns+" FROM entities e JOIN entity_defs ed ON ed.id = e.def_id WHERE e.id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting entity %s: %w", id, err)
	}

	rows := []attrRow{}
	if err := r.store.db.SelectContext(ctx, &rows, entityAttrQuery, ent.ID, ent.DefID); err != nil {
		return nil, fmt.Errorf("assembling attributes of entity %s: %w", id, err)
	}
	bag := partitionAttrRows(rows, ent.ID, r.store.log)
	ent.AttributesOrder = bag.Order
	ent.TextAttributes = bag.Text
	ent.SmallintAttributes = bag.Smallint
	ent.IntAttributes = bag.Integer
	ent.BooleanAttributes = bag.Boolean
	return &ent, nil
}

// List returns entity headers ordered by their listing value. Attribute
// instances are not loaded; list views read only the denormalized cache.
func (r *EntityRepo) List(ctx context.Context, p *types.Pagination) ([]types.Entity, error) {
	offset, limit := p.OffsetLimit()
	ents := []types.Entity{}
	err := r.store.db.SelectContext(ctx, &ents,
		"SELECT "+entityColumns+` FROM entities e
		 JOIN entity_defs ed ON ed.id = e.def_id
		 ORDER BY e.listing_attr_value, e.id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	return ents, nil
}

// ListByDefID returns entity headers of one definition ordered by their
// listing value.
func (r *EntityRepo) ListByDefID(ctx context.Context, defID string, p *types.Pagination) ([]types.Entity, error) {
	offset, limit := p.OffsetLimit()
	ents := []types.Entity{}
	err := r.store.db.SelectContext(ctx, &ents,
		"SELECT "+entityColumns+` FROM entities e
		 JOIN entity_defs ed ON ed.id = e.def_id
		 WHERE e.def_id = ?
		 ORDER BY e.listing_attr_value, e.id LIMIT ? OFFSET ?`,
		defID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing entities of def %s: %w", defID, err)
	}
	return ents, nil
}

// ListRefsByDefID returns (id, listing value) pairs of the entities of one
// definition. Used to report dependents when a definition delete is rejected.
func (r *EntityRepo) ListRefsByDefID(ctx context.Context, defID string) ([]types.Ref, error) {
	refs := []types.Ref{}
	err := r.store.db.SelectContext(ctx, &refs,
		"SELECT id, listing_attr_value AS name FROM entities WHERE def_id = ? ORDER BY listing_attr_value, id",
		defID)
	if err != nil {
		return nil, fmt.Errorf("listing entity refs of def %s: %w", defID, err)
	}
	return refs, nil
}

// Add inserts the entity row and all its attribute instances in one unit of
// work. Instances without an id get one.
func (r *EntityRepo) Add(ctx context.Context, ent *types.Entity) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entities (id, def_id, listing_attr_def_id, listing_attr_name, listing_attr_value)
		 VALUES (?, ?, ?, ?, ?)`,
		ent.ID, ent.DefID, ent.ListingAttrDefID, ent.ListingAttrName, ent.ListingAttrValue)
	if err != nil {
		r.store.log.Error().Err(err).Str("def_id", ent.DefID).Msg("failed to add entity")
		return fmt.Errorf("adding entity: %w", err)
	}

	bag := attrBag{
		Text:     ent.TextAttributes,
		Smallint: ent.SmallintAttributes,
		Integer:  ent.IntAttributes,
		Boolean:  ent.BooleanAttributes,
	}
	if err := insertOwnedAttributes(ctx, tx, r.store, ent.ID, bag); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity: %w", err)
	}
	ent.TextAttributes = bag.Text
	ent.SmallintAttributes = bag.Smallint
	ent.IntAttributes = bag.Integer
	ent.BooleanAttributes = bag.Boolean
	return nil
}

// Update writes every attribute instance value, refreshing the listing cache
// in the same transaction whenever the written attribute is the listing one.
func (r *EntityRepo) Update(ctx context.Context, ent *types.Entity) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range ent.TextAttributes {
		if err := r.updateAttr(ctx, tx, ent, "text_attributes", a.ID, a.DefID, a.Value, a.Value); err != nil {
			return err
		}
	}
	for _, a := range ent.SmallintAttributes {
		listing := strconv.FormatInt(int64(a.Value), 10)
		if err := r.updateAttr(ctx, tx, ent, "smallint_attributes", a.ID, a.DefID, a.Value, listing); err != nil {
			return err
		}
	}
	for _, a := range ent.IntAttributes {
		listing := strconv.FormatInt(int64(a.Value), 10)
		if err := r.updateAttr(ctx, tx, ent, "integer_attributes", a.ID, a.DefID, a.Value, listing); err != nil {
			return err
		}
	}
	for _, a := range ent.BooleanAttributes {
		listing := strconv.FormatBool(a.Value)
		if err := r.updateAttr(ctx, tx, ent, "boolean_attributes", a.ID, a.DefID, a.Value, listing); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity update: %w", err)
	}
	return nil
}

// updateAttr writes one attribute instance value and, when the instance is
// the entity's listing attribute, mirrors the value into the listing cache.
func (r *EntityRepo) updateAttr(ctx context.Context, tx *sqlx.Tx, ent *types.Entity, table, id, defID string, value any, listingValue string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE "+table+" SET value = ? WHERE id = ?", value, id)
	if err != nil {
		r.store.log.Error().Err(err).Str("table", table).Str("attr_id", id).Msg("failed to update attribute")
		return fmt.Errorf("updating %s row: %w", table, err)
	}
	if defID != "" && defID == ent.ListingAttrDefID {
		_, err = tx.ExecContext(ctx,
			"UPDATE entities SET listing_attr_value = ? WHERE id = ?", listingValue, ent.ID)
		if err != nil {
			return fmt.Errorf("updating entity listing value: %w", err)
		}
		ent.ListingAttrValue = listingValue
	}
	return nil
}

// Remove deletes the entity's attribute instances from all four relations and
// then the entity row, atomically. A foreign-key violation on the entity row
// means links still reference it.
func (r *EntityRepo) Remove(ctx context.Context, id string) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteOwnedAttributes(ctx, tx, id); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM entities WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return types.ErrDependenciesExist
		}
		r.store.log.Error().Err(err).Str("id", id).Msg("failed to delete entity")
		return fmt.Errorf("deleting entity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entity delete: %w", err)
	}
	return nil
}

// UpdateListingAttrNameValueByEntDefID repairs the listing cache of every
// entity of a definition after the definition's listing attribute changed.
// Each entity's cached value is re-read from whichever typed relation holds
// its instance of the new listing attribute; entities without one get an
// empty value. Single statement, so the repair is atomic.
func (r *EntityRepo) UpdateListingAttrNameValueByEntDefID(ctx context.Context, entDefID, attrDefID, attrName string) error {
	_, err := r.store.db.ExecContext(ctx, `
		UPDATE entities SET
		    listing_attr_def_id = ?2,
		    listing_attr_name = ?3,
		    listing_attr_value = COALESCE(
		        (SELECT value FROM text_attributes WHERE owner_id = entities.id AND def_id = ?2),
		        (SELECT CAST(value AS TEXT) FROM smallint_attributes WHERE owner_id = entities.id AND def_id = ?2),
		        (SELECT CAST(value AS TEXT) FROM integer_attributes WHERE owner_id = entities.id AND def_id = ?2),
		        (SELECT CASE value WHEN 0 THEN 'false' ELSE 'true' END
		         FROM boolean_attributes WHERE owner_id = entities.id AND def_id = ?2),
		        '')
		WHERE def_id = ?1`,
		entDefID, attrDefID, attrName)
	if err != nil {
		r.store.log.Error().Err(err).Str("ent_def_id", entDefID).Str("attr_def_id", attrDefID).
			Msg("failed to repair listing cache")
		return fmt.Errorf("repairing listing cache for entity def %s: %w", entDefID, err)
	}
	return nil
}

// UpdateListingAttrNameByAttrDefID propagates an attribute-definition rename
// into the cached listing name of every entity listing by it.
func (r *EntityRepo) UpdateListingAttrNameByAttrDefID(ctx context.Context, attrDefID, name string) error {
	return r.updateListingAttrName(ctx, r.store.db, attrDefID, name)
}

// UpdateListingAttrNameByAttrDefIDTx is the rename propagation inside a
// caller-owned transaction, so it can commit together with the definition
// rename itself.
func (r *EntityRepo) UpdateListingAttrNameByAttrDefIDTx(ctx context.Context, tx *sqlx.Tx, attrDefID, name string) error {
	return r.updateListingAttrName(ctx, tx, attrDefID, name)
}

func (r *EntityRepo) updateListingAttrName(ctx context.Context, ex sqlx.ExtContext, attrDefID, name string) error {
	_, err := ex.ExecContext(ctx,
		"UPDATE entities SET listing_attr_name = ? WHERE listing_attr_def_id = ?", name, attrDefID)
	if err != nil {
		return fmt.Errorf("propagating listing attribute name for def %s: %w", attrDefID, err)
	}
	return nil
}
