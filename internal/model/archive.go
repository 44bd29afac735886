package model

import (
	"time"
)

// ArchiveRecord is the snapshot of a deleted item
type ArchiveRecord struct {
	ArchiveID   string    `json:"archive_id"`
	ArchiveTime time.Time `json:"archive_time"`

	ItemID      int64      `json:"item_id"`
	Creation    time.Time  `json:"creation"`
	LastUpdate  time.Time  `json:"last_update"`
	UpdateCount int64      `json:"update_count"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completion  *int       `json:"completion,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// NewArchiveRecord snapshots item at the given archive time
func NewArchiveRecord(archiveID string, item *Item, at time.Time) ArchiveRecord {
	return ArchiveRecord{
		ArchiveID:   archiveID,
		ArchiveTime: at,
		ItemID:      item.ID,
		Creation:    item.Creation,
		LastUpdate:  item.LastUpdate,
		UpdateCount: item.UpdateCount,
		Title:       item.Title.Value(),
		Description: item.Description.Ptr(),
		Deadline:    item.Deadline.Ptr(),
		Completion:  item.Completion.Ptr(),
		Priority:    item.Priority.Ptr(),
		Tags:        item.Tags.Get(),
	}
}
