package db

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dori/getitdone/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndQueryByTag(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	id, err := db.AddItem(newItem("buy milk", "#errand"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = db.AddItem(newItem("call mum", "#family"))
	require.NoError(t, err)

	criteria := model.NewItem()
	criteria.Tags.Set("#errand")
	items, err := db.QueryItems(criteria)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "buy milk", got.Title.Value())
	assert.Equal(t, []string{"#errand"}, got.Tags.Get())
	assert.False(t, got.Completion.IsSet())
	assert.Equal(t, int64(1), got.UpdateCount)
	assert.Equal(t, int64(1700000000), got.Creation.Unix())
	assert.False(t, got.IsModified())
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	_, err := db.AddItem(newItem("  ", "#a"))
	require.ErrorIs(t, err, model.ErrValidation)

	var items, tags int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&items))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&tags))
	assert.Zero(t, items)
	assert.Zero(t, tags)
}

func TestAddRejectsCompletionOutOfRange(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	item := newItem("x")
	item.Completion.Set(150)
	_, err := db.AddItem(item)
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateUnsetCompletion(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	item := newItem("x")
	item.Completion.Set(20)
	id, err := db.AddItem(item)
	require.NoError(t, err)

	patch := model.NewItem()
	patch.Completion.Unset()
	_, err = db.EditItem(id, Modification{Patch: patch})
	require.NoError(t, err)

	got, err := db.GetItem(id)
	require.NoError(t, err)
	assert.False(t, got.Completion.IsSet())
	assert.Equal(t, int64(2), got.UpdateCount)
	assert.Equal(t, "x", got.Title.Value())
}

func TestUpdateWritesOnlyModified(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	item := newItem("write report", "#work", "#q3")
	item.Priority.Set(1)
	item.Description.Set("draft")
	id, err := db.AddItem(item)
	require.NoError(t, err)

	loaded, err := db.GetItem(id)
	require.NoError(t, err)

	db.now = func() time.Time { return time.Unix(1700000100, 0) }
	loaded.Priority.Set(5)
	loaded.Tags.Remove("#q3")
	loaded.Tags.Add("#q4")
	require.NoError(t, db.UpdateItem(loaded))

	assert.False(t, loaded.IsModified(), "a stored item is no longer modified")
	assert.Equal(t, int64(2), loaded.UpdateCount)

	got, err := db.GetItem(id)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Priority.Value())
	assert.Equal(t, "draft", got.Description.Value())
	assert.Equal(t, []string{"#q4", "#work"}, got.Tags.Get())
	assert.Equal(t, int64(1700000100), got.LastUpdate.Unix())
	assert.Equal(t, int64(1700000000), got.Creation.Unix())
}

func TestUpdateNoopRunsNoSQL(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	id, err := db.AddItem(newItem("idle"))
	require.NoError(t, err)
	item, err := db.GetItem(id)
	require.NoError(t, err)

	// A closed database fails every statement, so success proves none ran
	require.NoError(t, db.Close())
	assert.NoError(t, db.UpdateItem(item))
	assert.Equal(t, int64(1), item.UpdateCount)
}

func TestUpdateRequiresID(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	err := db.UpdateItem(newItem("no id"))
	assert.ErrorIs(t, err, model.ErrPrecondition)
}

func TestUpdateUnknownID(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	item := model.FromRow(model.Row{ID: 42, Title: sql.NullString{String: "ghost", Valid: true}})
	item.Priority.Set(1)
	assert.ErrorIs(t, db.UpdateItem(item), model.ErrNotFound)

	_, err := db.EditItem(42, Modification{AddTags: []string{"#a"}})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateRejectsEmptyTitle(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	id, err := db.AddItem(newItem("keep"))
	require.NoError(t, err)

	patch := model.NewItem()
	patch.Title.Set("")
	_, err = db.EditItem(id, Modification{Patch: patch})
	require.ErrorIs(t, err, model.ErrValidation)

	got, err := db.GetItem(id)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title.Value())
	assert.Equal(t, int64(1), got.UpdateCount)
}

func TestEditIntersectingTags(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	id, err := db.AddItem(newItem("x", "#a"))
	require.NoError(t, err)

	_, err = db.EditItem(id, Modification{AddTags: []string{"#a"}, RemoveTags: []string{"#a"}})
	require.ErrorIs(t, err, model.ErrPrecondition)

	got, err := db.GetItem(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"#a"}, got.Tags.Get())
	assert.Equal(t, int64(1), got.UpdateCount)
}

func TestEditTags(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	id, err := db.AddItem(newItem("x", "#a", "#b"))
	require.NoError(t, err)

	got, err := db.EditItem(id, Modification{AddTags: []string{"#c"}, RemoveTags: []string{"#a", "#zz"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"#b", "#c"}, got.Tags.Get())
	assert.Equal(t, int64(2), got.UpdateCount)
}

func TestUpdateAddsExistingTag(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	id, err := db.AddItem(newItem("buy milk", "#errand"))
	require.NoError(t, err)

	// A sparse update knows nothing of the stored tags
	item := model.FromRow(model.Row{ID: id, Title: sql.NullString{String: "buy milk", Valid: true}})
	item.Tags.Add("#errand", "#home")
	item.Priority.Set(2)
	require.NoError(t, db.UpdateItem(item))

	got, err := db.GetItem(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"#errand", "#home"}, got.Tags.Get())
	assert.Equal(t, 2, got.Priority.Value())
	assert.Equal(t, int64(2), got.UpdateCount)

	got, err = db.EditItem(id, Modification{AddTags: []string{"#errand"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"#errand", "#home"}, got.Tags.Get())
}

func TestDeleteArchives(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	item := newItem("old chore", "#home", "#weekly")
	item.Completion.Set(100)
	item.Deadline.Set(time.Unix(1750000000, 0))
	id, err := db.AddItem(item)
	require.NoError(t, err)
	keep, err := db.AddItem(newItem("still here"))
	require.NoError(t, err)

	require.NoError(t, db.DeleteItems(id))

	items, err := db.QueryItems(model.NewItem())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0].ID)

	_, err = db.GetItem(id)
	assert.ErrorIs(t, err, model.ErrNotFound)

	var orphanTags int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tags WHERE item_id = ?`, id).Scan(&orphanTags))
	assert.Zero(t, orphanTags)

	records, err := db.ListArchive(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.NotEmpty(t, rec.ArchiveID)
	assert.Equal(t, id, rec.ItemID)
	assert.Equal(t, "old chore", rec.Title)
	assert.Equal(t, int64(1), rec.UpdateCount)
	require.NotNil(t, rec.Completion)
	assert.Equal(t, 100, *rec.Completion)
	require.NotNil(t, rec.Deadline)
	assert.Equal(t, int64(1750000000), rec.Deadline.Unix())
	assert.Nil(t, rec.Priority)
	assert.ElementsMatch(t, []string{"#weekly", "#home"}, rec.Tags)
}

func TestDeleteKeepsItemWhenArchiveFails(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	id, err := db.AddItem(newItem("precious", "#keep"))
	require.NoError(t, err)

	_, err = db.Exec(`DROP TABLE archive`)
	require.NoError(t, err)

	err = db.DeleteItems(id)
	require.ErrorIs(t, err, model.ErrStoreIO)

	got, err := db.GetItem(id)
	require.NoError(t, err, "item must survive a failed archive")
	assert.Equal(t, "precious", got.Title.Value())
	assert.Equal(t, []string{"#keep"}, got.Tags.Get())
}

func TestDeleteStopsAtUnknownID(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	first, err := db.AddItem(newItem("first"))
	require.NoError(t, err)
	last, err := db.AddItem(newItem("last"))
	require.NoError(t, err)

	err = db.DeleteItems(first, 99, last)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = db.GetItem(first)
	assert.ErrorIs(t, err, model.ErrNotFound, "ids before the failure are archived")
	_, err = db.GetItem(last)
	assert.NoError(t, err, "ids after the failure are untouched")

	records, err := db.ListArchive(0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestQueryCriteria(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	milk := newItem("buy milk", "#errand")
	milk.Completion.Set(50)
	_, err := db.AddItem(milk)
	require.NoError(t, err)

	bread := newItem("buy bread", "#errand")
	_, err = db.AddItem(bread)
	require.NoError(t, err)

	_, err = db.AddItem(newItem("read book"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		build  func(*model.Item)
		titles []string
	}{
		{"all", func(*model.Item) {}, []string{"buy milk", "buy bread", "read book"}},
		{"title substring", func(i *model.Item) { i.Title.Set("buy") }, []string{"buy milk", "buy bread"}},
		{"completion exact", func(i *model.Item) { i.Completion.Set(50) }, []string{"buy milk"}},
		{"completion null", func(i *model.Item) { i.Completion.Unset() }, []string{"buy bread", "read book"}},
		{"untagged", func(i *model.Item) { i.Tags.Set() }, []string{"read book"}},
		{"combined", func(i *model.Item) {
			i.Title.Set("bread")
			i.Tags.Set("#errand", "#other")
		}, []string{"buy bread"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria := model.NewItem()
			tt.build(criteria)
			items, err := db.QueryItems(criteria)
			require.NoError(t, err)

			var titles []string
			for _, item := range items {
				titles = append(titles, item.Title.Value())
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestQueryItemTagsComplete(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	_, err := db.AddItem(newItem("x", "#a", "#b", "#c"))
	require.NoError(t, err)

	criteria := model.NewItem()
	criteria.Tags.Set("#b")
	items, err := db.QueryItems(criteria)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"#a", "#b", "#c"}, items[0].Tags.Get())
}

func TestRawQuery(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	for _, c := range []int{10, 100, 60} {
		item := newItem("task")
		item.Completion.Set(c)
		_, err := db.AddItem(item)
		require.NoError(t, err)
	}

	items, err := db.RawQuery("WHERE completion > ? ORDER BY completion", 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 60, items[0].Completion.Value())
	assert.Equal(t, 100, items[1].Completion.Value())

	items, err = db.RawQuery("select id, title from item_view where completion = 10")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.False(t, items[0].Completion.IsSet(), "columns not selected stay absent")

	_, err = db.RawQuery("WHERE (completion > 3")
	assert.ErrorIs(t, err, model.ErrQuery)

	_, err = db.RawQuery("SELECT completion FROM item_view")
	assert.True(t, errors.Is(err, model.ErrQuery))
}

func TestClosedStoreErrorKind(t *testing.T) {
	db := openTestDB(t, DriverCGO)
	require.NoError(t, db.Close())

	_, err := db.QueryItems(model.NewItem())
	assert.ErrorIs(t, err, model.ErrStoreIO)
	assert.NotErrorIs(t, err, model.ErrQuery)

	_, err = db.RawQuery("WHERE priority > 1")
	assert.ErrorIs(t, err, model.ErrStoreIO)
	assert.NotErrorIs(t, err, model.ErrQuery)

	_, err = db.GetItem(1)
	assert.ErrorIs(t, err, model.ErrStoreIO)
}
