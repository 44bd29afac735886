package db

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/dori/getitdone/internal/model"
	"github.com/google/uuid"
)

// Modification is a sparse patch plus tag edits applied to a stored item
type Modification struct {
	Patch      *model.Item
	AddTags    []string
	RemoveTags []string
}

// AddItem inserts a new item and its tags and returns the new id
func (db *DB) AddItem(item *model.Item) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, err
	}

	row := item.ToRow()
	now := db.now().Unix()
	var id int64

	err := db.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO items (creation, last_update, update_count, deadline, title, description, completion, priority)
			VALUES (?, ?, 0, ?, ?, ?, ?, ?)
		`, now, now, row.Deadline, row.Title, row.Description, row.Completion, row.Priority)
		if err != nil {
			return storeErr("insert item", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return storeErr("read new item id", err)
		}

		if err := insertTags(tx, id, item.Tags.Get()); err != nil {
			return err
		}

		return touch(tx, id, now)
	})
	if err != nil {
		return 0, err
	}

	db.log.Debugw("item added", "id", id, "tags", item.Tags.Len())
	return id, nil
}

// UpdateItem writes the modified fields of an existing item. Only modified
// scalar columns are assigned, and only the tag difference is applied. An
// item with nothing modified is a no-op.
func (db *DB) UpdateItem(item *model.Item) error {
	if item.IsNew() {
		return model.Preconditionf("update requires an item id")
	}
	if err := item.ValidateModified(); err != nil {
		return err
	}

	set := assignments(item)
	added, removed := item.Tags.Difference()
	if set.Len() == 0 && len(added) == 0 && len(removed) == 0 {
		return nil
	}

	now := db.now().Unix()
	err := db.Transaction(func(tx *sql.Tx) error {
		if err := touch(tx, item.ID, now); err != nil {
			return err
		}

		if set.Len() > 0 {
			query := "UPDATE items SET " + set.SQL() + " WHERE id = ?"
			if _, err := tx.Exec(query, append(set.Args(), item.ID)...); err != nil {
				return storeErr(fmt.Sprintf("update item %d", item.ID), err)
			}
		}

		if err := insertTags(tx, item.ID, added); err != nil {
			return err
		}
		for _, tag := range removed {
			if _, err := tx.Exec(`DELETE FROM tags WHERE item_id = ? AND tag = ?`, item.ID, tag); err != nil {
				return storeErr(fmt.Sprintf("remove tag %s from item %d", tag, item.ID), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	item.MarkPersisted(now)
	db.log.Debugw("item updated", "id", item.ID, "columns", set.Len(), "tags_added", len(added), "tags_removed", len(removed))
	return nil
}

// EditItem loads an item, applies the modification and stores it. Tags may
// not be added and removed at the same time.
func (db *DB) EditItem(id int64, mod Modification) (*model.Item, error) {
	if both := model.Intersect(mod.AddTags, mod.RemoveTags); len(both) > 0 {
		return nil, model.Preconditionf("tags both added and removed: %s", strings.Join(both, ", "))
	}

	item, err := db.GetItem(id)
	if err != nil {
		return nil, err
	}

	if mod.Patch != nil {
		if err := item.ApplyModification(mod.Patch); err != nil {
			return nil, err
		}
	}
	if err := item.Tags.Edit(mod.AddTags, mod.RemoveTags); err != nil {
		return nil, err
	}

	if err := db.UpdateItem(item); err != nil {
		return nil, err
	}
	return db.GetItem(id)
}

// DeleteItems archives then removes each item. Every id is handled in its
// own transaction; the first failure stops the loop.
func (db *DB) DeleteItems(ids ...int64) error {
	for _, id := range ids {
		err := db.Transaction(func(tx *sql.Tx) error {
			item, err := getItem(tx, id)
			if err != nil {
				return err
			}

			rec := model.NewArchiveRecord(uuid.NewString(), item, db.now())
			if err := insertArchive(tx, rec); err != nil {
				return err
			}

			if _, err := tx.Exec(`DELETE FROM tags WHERE item_id = ?`, id); err != nil {
				return storeErr(fmt.Sprintf("delete tags of item %d", id), err)
			}
			if _, err := tx.Exec(`DELETE FROM items WHERE id = ?`, id); err != nil {
				return storeErr(fmt.Sprintf("delete item %d", id), err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		db.log.Debugw("item archived", "id", id)
	}
	return nil
}

// GetItem returns a single item by id
func (db *DB) GetItem(id int64) (*model.Item, error) {
	return getItem(db, id)
}

// QueryItems returns the items matching the modified fields of criteria.
// An unmodified criteria item matches everything.
func (db *DB) QueryItems(criteria *model.Item) ([]*model.Item, error) {
	p := criteriaFor(criteria)
	query := viewQuery + " " + p.SQL() + " ORDER BY id"

	rows, err := db.Query(query, p.Args()...)
	if err != nil {
		return nil, storeErr("query items", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, storeErr("query items", err)
	}
	return items, nil
}

// RawQuery runs a caller-supplied query against item_view. A fragment such
// as "WHERE completion < ?" is appended to the view select; text starting
// with SELECT or WITH runs as-is and must return the view's id and title
// columns.
func (db *DB) RawQuery(query string, params ...any) ([]*model.Item, error) {
	q := strings.TrimSpace(query)
	if !isFullQuery(q) {
		q = viewQuery + " " + q
	}

	rows, err := db.Query(q, params...)
	if err != nil {
		return nil, queryErr(err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, queryErr(err)
	}
	return items, nil
}

// queryErr classifies a failed caller query: an unavailable store is
// ErrStoreIO, everything else is the query's fault.
func queryErr(err error) error {
	if storeDown(err) {
		return storeErr("run query", err)
	}
	return fmt.Errorf("%w: %v", model.ErrQuery, err)
}

// storeDown reports errors of a closed or lost connection. database/sql
// does not export its closed-database error, so it is matched by text.
func storeDown(err error) bool {
	return errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		strings.Contains(err.Error(), "sql: database is closed")
}

func isFullQuery(q string) bool {
	head := strings.ToUpper(q)
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH")
}

// criteriaFor tolerates a nil criteria item
func criteriaFor(item *model.Item) *Predicate {
	if item == nil {
		return &Predicate{}
	}
	return criteria(item)
}

// Helper functions

// touch records one mutation of the item: bumps update_count and
// last_update. It reports ErrNotFound for an unknown id.
func touch(q queryer, id, now int64) error {
	res, err := q.Exec(`UPDATE items SET update_count = update_count + 1, last_update = ? WHERE id = ?`, now, id)
	if err != nil {
		return storeErr(fmt.Sprintf("touch item %d", id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(fmt.Sprintf("touch item %d", id), err)
	}
	if n == 0 {
		return model.NotFoundf("no such item: %d", id)
	}
	return nil
}

// insertTags adds tags to an item; a tag it already carries is kept as is
func insertTags(q queryer, id int64, tags []string) error {
	for _, tag := range tags {
		if _, err := q.Exec(`INSERT OR IGNORE INTO tags (item_id, tag) VALUES (?, ?)`, id, tag); err != nil {
			return storeErr(fmt.Sprintf("tag item %d with %s", id, tag), err)
		}
	}
	return nil
}

func getItem(q queryer, id int64) (*model.Item, error) {
	rows, err := q.Query(viewQuery+" WHERE id = ?", id)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("load item %d", id), err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("load item %d", id), err)
	}
	if len(items) == 0 {
		return nil, model.NotFoundf("no such item: %d", id)
	}
	return items[0], nil
}

var errMissingColumns = errors.New("result must include id and title columns")

// scanItems reads rows by column name so full user queries may order or
// omit the optional view columns.
func scanItems(rows *sql.Rows) ([]*model.Item, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	if _, err := rowDest(&model.Row{}, cols); err != nil {
		return nil, err
	}

	var items []*model.Item
	for rows.Next() {
		var row model.Row
		dest, _ := rowDest(&row, cols)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		items = append(items, model.FromRow(row))
	}
	return items, rows.Err()
}

func rowDest(row *model.Row, cols []string) ([]any, error) {
	dest := make([]any, len(cols))
	var hasID, hasTitle bool
	for i, col := range cols {
		switch strings.ToLower(col) {
		case "id", "rowid":
			dest[i] = &row.ID
			hasID = true
		case "creation":
			dest[i] = &row.Creation
		case "last_update":
			dest[i] = &row.LastUpdate
		case "update_count":
			dest[i] = &row.UpdateCount
		case "deadline":
			dest[i] = &row.Deadline
		case "title":
			dest[i] = &row.Title
			hasTitle = true
		case "description":
			dest[i] = &row.Description
		case "completion":
			dest[i] = &row.Completion
		case "priority":
			dest[i] = &row.Priority
		case "tags":
			dest[i] = &row.Tags
		default:
			dest[i] = new(any)
		}
	}
	if !hasID || !hasTitle {
		return nil, errMissingColumns
	}
	return dest, nil
}
