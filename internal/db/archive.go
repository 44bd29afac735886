package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dori/getitdone/internal/model"
)

func insertArchive(q queryer, rec model.ArchiveRecord) error {
	var deadline sql.NullInt64
	if rec.Deadline != nil {
		deadline = sql.NullInt64{Int64: rec.Deadline.Unix(), Valid: true}
	}

	_, err := q.Exec(`
		INSERT INTO archive (archive_id, archive_time, item_id, creation, last_update, update_count,
			deadline, title, description, completion, priority, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ArchiveID, rec.ArchiveTime.Unix(), rec.ItemID, rec.Creation.Unix(), rec.LastUpdate.Unix(),
		rec.UpdateCount, deadline, rec.Title, rec.Description, rec.Completion, rec.Priority,
		model.JoinTags(rec.Tags))
	if err != nil {
		return storeErr(fmt.Sprintf("archive item %d", rec.ItemID), err)
	}
	return nil
}

// ListArchive returns archived items, most recently archived first.
// A limit of zero or less returns every record.
func (db *DB) ListArchive(limit int) ([]model.ArchiveRecord, error) {
	query := `
		SELECT archive_id, archive_time, item_id, creation, last_update, update_count,
			deadline, title, description, completion, priority, tags
		FROM archive
		ORDER BY archive_time DESC, item_id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, storeErr("list archive", err)
	}
	defer rows.Close()

	var records []model.ArchiveRecord
	for rows.Next() {
		var (
			rec                            model.ArchiveRecord
			archived, creation, lastUpdate int64
			deadline, completion, priority sql.NullInt64
			description, tags              sql.NullString
		)
		err := rows.Scan(&rec.ArchiveID, &archived, &rec.ItemID, &creation, &lastUpdate,
			&rec.UpdateCount, &deadline, &rec.Title, &description, &completion, &priority, &tags)
		if err != nil {
			return nil, storeErr("scan archive record", err)
		}

		rec.ArchiveTime = time.Unix(archived, 0)
		rec.Creation = time.Unix(creation, 0)
		rec.LastUpdate = time.Unix(lastUpdate, 0)
		if deadline.Valid {
			d := time.Unix(deadline.Int64, 0)
			rec.Deadline = &d
		}
		if description.Valid {
			rec.Description = &description.String
		}
		if completion.Valid {
			c := int(completion.Int64)
			rec.Completion = &c
		}
		if priority.Valid {
			p := int(priority.Int64)
			rec.Priority = &p
		}
		rec.Tags = model.SplitTags(tags.String)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list archive", err)
	}

	return records, nil
}
