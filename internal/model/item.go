package model

import (
	"database/sql"
	"strings"
	"time"
)

// Column names of the scalar item fields, in the order they are written.
const (
	ColTitle       = "title"
	ColDescription = "description"
	ColDeadline    = "deadline"
	ColCompletion  = "completion"
	ColPriority    = "priority"
)

// Item represents one task. ID, Creation, LastUpdate and UpdateCount are
// owned by the store; the tracked fields record what the caller changed.
type Item struct {
	ID          int64
	Creation    time.Time
	LastUpdate  time.Time
	UpdateCount int64

	Title       Tracked[string]
	Description Tracked[string]
	Deadline    Tracked[time.Time]
	Completion  Tracked[int]
	Priority    Tracked[int]
	Tags        TrackedSet
}

// Row is the flat form of an item as stored in item_view
type Row struct {
	ID          int64
	Creation    int64
	LastUpdate  int64
	UpdateCount int64
	Deadline    sql.NullInt64
	Title       sql.NullString
	Description sql.NullString
	Completion  sql.NullInt64
	Priority    sql.NullInt64
	Tags        sql.NullString // comma-joined
}

// Field is one modified scalar field ready to be bound as a SQL argument.
// Value is nil when the field was cleared.
type Field struct {
	Column string
	Value  any
	Text   bool
}

// NewItem returns an empty, new item
func NewItem() *Item {
	return &Item{Tags: NewTrackedSet()}
}

// FromRow hydrates an item; every field is unmodified
func FromRow(row Row) *Item {
	item := &Item{
		ID:          row.ID,
		Creation:    unixTime(row.Creation),
		LastUpdate:  unixTime(row.LastUpdate),
		UpdateCount: row.UpdateCount,
		Tags:        NewTrackedSet(SplitTags(row.Tags.String)...),
	}
	if row.Title.Valid {
		item.Title = Loaded(row.Title.String)
	}
	if row.Description.Valid {
		item.Description = Loaded(row.Description.String)
	}
	if row.Deadline.Valid {
		item.Deadline = Loaded(time.Unix(row.Deadline.Int64, 0))
	}
	if row.Completion.Valid {
		item.Completion = Loaded(int(row.Completion.Int64))
	}
	if row.Priority.Valid {
		item.Priority = Loaded(int(row.Priority.Int64))
	}
	return item
}

// unixTime maps 0, the unset timestamp, to the zero time
func unixTime(s int64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(s, 0)
}

// ToRow flattens the item's current values
func (i *Item) ToRow() Row {
	row := Row{
		ID:          i.ID,
		UpdateCount: i.UpdateCount,
	}
	if v, ok := i.Title.Get(); ok {
		row.Title = sql.NullString{String: v, Valid: true}
	}
	if !i.Creation.IsZero() {
		row.Creation = i.Creation.Unix()
	}
	if !i.LastUpdate.IsZero() {
		row.LastUpdate = i.LastUpdate.Unix()
	}
	if v, ok := i.Description.Get(); ok {
		row.Description = sql.NullString{String: v, Valid: true}
	}
	if v, ok := i.Deadline.Get(); ok {
		row.Deadline = sql.NullInt64{Int64: v.Unix(), Valid: true}
	}
	if v, ok := i.Completion.Get(); ok {
		row.Completion = sql.NullInt64{Int64: int64(v), Valid: true}
	}
	if v, ok := i.Priority.Get(); ok {
		row.Priority = sql.NullInt64{Int64: int64(v), Valid: true}
	}
	if i.Tags.Len() > 0 {
		row.Tags = sql.NullString{String: JoinTags(i.Tags.Get()), Valid: true}
	}
	return row
}

// IsNew returns true if the item has not been persisted yet
func (i *Item) IsNew() bool {
	return i.ID == 0
}

// IsModified returns true if any tracked field is modified
func (i *Item) IsModified() bool {
	return i.Title.IsModified() || i.Description.IsModified() ||
		i.Deadline.IsModified() || i.Completion.IsModified() ||
		i.Priority.IsModified() || i.Tags.IsModified()
}

// ModifiedFields returns the modified scalar fields in column order.
// Times are converted to unix seconds.
func (i *Item) ModifiedFields() []Field {
	var fields []Field
	if i.Title.IsModified() {
		fields = append(fields, Field{ColTitle, nullable(i.Title.Ptr()), true})
	}
	if i.Description.IsModified() {
		fields = append(fields, Field{ColDescription, nullable(i.Description.Ptr()), true})
	}
	if i.Deadline.IsModified() {
		var v any
		if d, ok := i.Deadline.Get(); ok {
			v = d.Unix()
		}
		fields = append(fields, Field{ColDeadline, v, false})
	}
	if i.Completion.IsModified() {
		fields = append(fields, Field{ColCompletion, nullable(i.Completion.Ptr()), false})
	}
	if i.Priority.IsModified() {
		fields = append(fields, Field{ColPriority, nullable(i.Priority.Ptr()), false})
	}
	return fields
}

// MarkPersisted records a successful update at the given unix time: the
// modified flags are cleared and the audit fields follow the store.
func (i *Item) MarkPersisted(now int64) {
	i.Title.commit()
	i.Description.commit()
	i.Deadline.commit()
	i.Completion.commit()
	i.Priority.commit()
	i.Tags.Commit()
	i.UpdateCount++
	i.LastUpdate = time.Unix(now, 0)
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// ApplyModification copies every modified field of other into i. It fails,
// leaving i untouched, if the resulting title would be empty.
func (i *Item) ApplyModification(other *Item) error {
	if other.Title.IsModified() {
		if title, ok := other.Title.Get(); !ok || strings.TrimSpace(title) == "" {
			return Validationf("title cannot be empty")
		}
	}
	if err := other.ValidateModified(); err != nil {
		return err
	}

	applyTracked(&i.Title, other.Title)
	applyTracked(&i.Description, other.Description)
	applyTracked(&i.Deadline, other.Deadline)
	applyTracked(&i.Completion, other.Completion)
	applyTracked(&i.Priority, other.Priority)
	if other.Tags.IsModified() {
		i.Tags.Set(other.Tags.Get()...)
	}
	return nil
}

func applyTracked[T any](dst *Tracked[T], src Tracked[T]) {
	if !src.IsModified() {
		return
	}
	if v, ok := src.Get(); ok {
		dst.Set(v)
	} else {
		dst.Unset()
	}
}

// Validate checks a complete item before it is inserted
func (i *Item) Validate() error {
	title, ok := i.Title.Get()
	if !ok || strings.TrimSpace(title) == "" {
		return Validationf("title is required")
	}
	if err := validateCompletion(i.Completion); err != nil {
		return err
	}
	return ValidateTags(i.Tags.Get())
}

// ValidateModified checks only the fields that will be written by an update
func (i *Item) ValidateModified() error {
	if i.Title.IsModified() {
		if title, ok := i.Title.Get(); !ok || strings.TrimSpace(title) == "" {
			return Validationf("title cannot be empty")
		}
	}
	if i.Completion.IsModified() {
		if err := validateCompletion(i.Completion); err != nil {
			return err
		}
	}
	added, _ := i.Tags.Difference()
	return ValidateTags(added)
}

func validateCompletion(c Tracked[int]) error {
	if v, ok := c.Get(); ok && (v < 0 || v > 100) {
		return Validationf("completion %d out of range 0-100", v)
	}
	return nil
}

// ValidateTags rejects empty tags and tags that cannot be stored in the
// comma-joined archive column.
func ValidateTags(tags []string) error {
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return Validationf("empty tag")
		}
		if strings.ContainsAny(t, ", \t\n") {
			return Validationf("tag %q contains a comma or whitespace", t)
		}
	}
	return nil
}

// IsDone returns true if completion is 100
func (i *Item) IsDone() bool {
	c, ok := i.Completion.Get()
	return ok && c >= 100
}

// IsOverdue returns true if the item is not done and the whole day of its
// deadline has passed at now
func (i *Item) IsOverdue(now time.Time) bool {
	d, ok := i.Deadline.Get()
	if !ok || i.IsDone() {
		return false
	}
	return now.After(d.AddDate(0, 0, 1))
}

// SplitTags parses a comma-joined tag list
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags builds the comma-joined form of a tag list
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
