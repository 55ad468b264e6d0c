package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/kindlab/metastore/pkg/types"
)

// attrRow is the fan-in shape of the attribute assembly query. Each row comes
// from exactly one typed relation; the other value columns are NULL.
type attrRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	ValueType     string         `db:"value_type"`
	DefID         string         `db:"def_id"`
	ShowIndex     int            `db:"show_index"`
	TextValue     sql.NullString `db:"text_value"`
	SmallintValue sql.NullInt64  `db:"smallint_value"`
	IntegerValue  sql.NullInt64  `db:"integer_value"`
	BooleanValue  sql.NullBool   `db:"boolean_value"`
}

// attrBag collects the partitioned attribute instances of one owner.
type attrBag struct {
	Order    []types.AttributeRef
	Text     []types.TextAttribute
	Smallint []types.SmallintAttribute
	Integer  []types.IntegerAttribute
	Boolean  []types.BooleanAttribute
}

// partitionAttrRows splits assembly rows into the typed collections,
// preserving the row order in the display sequence. Rows whose definition
// carries a value-type code without a backing relation are skipped with a
// warning instead of failing the read.
func partitionAttrRows(rows []attrRow, ownerID string, log zerolog.Logger) attrBag {
	bag := attrBag{
		Order:    []types.AttributeRef{},
		Text:     []types.TextAttribute{},
		Smallint: []types.SmallintAttribute{},
		Integer:  []types.IntegerAttribute{},
		Boolean:  []types.BooleanAttribute{},
	}
	for _, row := range rows {
		vt := types.AttributeValueType(row.ValueType)
		switch vt {
		case types.ValueTypeText:
			bag.Text = append(bag.Text, types.TextAttribute{
				ID: row.ID, Name: row.Name, Value: row.TextValue.String,
				DefID: row.DefID, OwnerID: ownerID,
			})
		case types.ValueTypeSmallInteger:
			bag.Smallint = append(bag.Smallint, types.SmallintAttribute{
				ID: row.ID, Name: row.Name, Value: int16(row.SmallintValue.Int64),
				DefID: row.DefID, OwnerID: ownerID,
			})
		case types.ValueTypeInteger:
			bag.Integer = append(bag.Integer, types.IntegerAttribute{
				ID: row.ID, Name: row.Name, Value: int32(row.IntegerValue.Int64),
				DefID: row.DefID, OwnerID: ownerID,
			})
		case types.ValueTypeBoolean:
			bag.Boolean = append(bag.Boolean, types.BooleanAttribute{
				ID: row.ID, Name: row.Name, Value: row.BooleanValue.Bool,
				DefID: row.DefID, OwnerID: ownerID,
			})
		default:
			log.Warn().
				Str("owner_id", ownerID).
				Str("attr_id", row.ID).
				Str("value_type", row.ValueType).
				Msg("skipping attribute with unsupported value type")
			continue
		}
		bag.Order = append(bag.Order, types.AttributeRef{
			ValueType:   vt,
			AttributeID: row.ID,
		})
	}
	return bag
}

// insertOwnedAttributes writes the typed attribute rows of a freshly created
// owner inside the caller's transaction. Instances without an id get one.
func insertOwnedAttributes(ctx context.Context, tx *sqlx.Tx, store *Store, ownerID string, bag attrBag) error {
	for i := range bag.Text {
		a := &bag.Text[i]
		if a.ID == "" {
			a.ID = store.NewID()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO text_attributes (id, owner_id, def_id, value) VALUES (?, ?, ?, ?)",
			a.ID, ownerID, a.DefID, a.Value)
		if err != nil {
			return fmt.Errorf("inserting text attribute: %w", err)
		}
	}
	for i := range bag.Smallint {
		a := &bag.Smallint[i]
		if a.ID == "" {
			a.ID = store.NewID()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO smallint_attributes (id, owner_id, def_id, value) VALUES (?, ?, ?, ?)",
			a.ID, ownerID, a.DefID, a.Value)
		if err != nil {
			return fmt.Errorf("inserting smallint attribute: %w", err)
		}
	}
	for i := range bag.Integer {
		a := &bag.Integer[i]
		if a.ID == "" {
			a.ID = store.NewID()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO integer_attributes (id, owner_id, def_id, value) VALUES (?, ?, ?, ?)",
			a.ID, ownerID, a.DefID, a.Value)
		if err != nil {
			return fmt.Errorf("inserting integer attribute: %w", err)
		}
	}
	for i := range bag.Boolean {
		a := &bag.Boolean[i]
		if a.ID == "" {
			a.ID = store.NewID()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO boolean_attributes (id, owner_id, def_id, value) VALUES (?, ?, ?, ?)",
			a.ID, ownerID, a.DefID, a.Value)
		if err != nil {
			return fmt.Errorf("inserting boolean attribute: %w", err)
		}
	}
	return nil
}

// deleteOwnedAttributes removes every attribute instance of an owner from
// all four typed relations inside the caller's transaction.
func deleteOwnedAttributes(ctx context.Context, tx *sqlx.Tx, ownerID string) error {
	for _, table := range []string{
		"text_attributes", "smallint_attributes", "integer_attributes", "boolean_attributes",
	} {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE owner_id = ?", ownerID)
		if err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}
	return nil
}
