package db

import (
	"database/sql"
	"fmt"

	"github.com/dori/getitdone/internal/model"
)

// ListTags returns every tag in use with its item count, ordered by tag
func (db *DB) ListTags() ([]model.TagCount, error) {
	rows, err := db.Query(`
		SELECT tag, COUNT(*)
		FROM tags
		GROUP BY tag
		ORDER BY tag
	`)
	if err != nil {
		return nil, storeErr("list tags", err)
	}
	defer rows.Close()

	var tags []model.TagCount
	for rows.Next() {
		var t model.TagCount
		if err := rows.Scan(&t.Tag, &t.Items); err != nil {
			return nil, storeErr("scan tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list tags", err)
	}

	return tags, nil
}

// RenameTag moves every item tagged from onto to. Items already carrying
// to keep a single copy. It returns the number of items touched.
func (db *DB) RenameTag(from, to string) (int, error) {
	if err := model.ValidateTags([]string{to}); err != nil {
		return 0, err
	}
	if from == to {
		return 0, nil
	}

	var ids []int64
	err := db.Transaction(func(tx *sql.Tx) error {
		rows, err := tx.Query(`SELECT item_id FROM tags WHERE tag = ? ORDER BY item_id`, from)
		if err != nil {
			return storeErr(fmt.Sprintf("find items tagged %s", from), err)
		}
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return storeErr("scan item id", err)
			}
			ids = append(ids, id)
		}
		rows.Close()
		if len(ids) == 0 {
			return model.NotFoundf("no item tagged %s", from)
		}

		now := db.now().Unix()
		for _, id := range ids {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO tags (item_id, tag) VALUES (?, ?)`, id, to); err != nil {
				return storeErr(fmt.Sprintf("tag item %d with %s", id, to), err)
			}
			if _, err := tx.Exec(`DELETE FROM tags WHERE item_id = ? AND tag = ?`, id, from); err != nil {
				return storeErr(fmt.Sprintf("remove tag %s from item %d", from, id), err)
			}
			if err := touch(tx, id, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.log.Debugw("tag renamed", "from", from, "to", to, "items", len(ids))
	return len(ids), nil
}
