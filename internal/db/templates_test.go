package db

import (
	"testing"

	"github.com/dori/getitdone/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRun(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	done := newItem("done")
	done.Completion.Set(100)
	_, err := db.AddItem(done)
	require.NoError(t, err)

	half := newItem("half")
	half.Completion.Set(50)
	_, err = db.AddItem(half)
	require.NoError(t, err)

	_, err = db.AddItem(newItem("untouched"))
	require.NoError(t, err)

	require.NoError(t, db.AddTemplate(model.Template{Name: "open", Query: "WHERE completion < 100"}))

	items, err := db.RunTemplate("open")
	require.NoError(t, err)
	require.Len(t, items, 1, "NULL completion does not compare below 100")
	assert.Equal(t, "half", items[0].Title.Value())
}

func TestTemplateParams(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	for _, p := range []int{1, 5, 9} {
		item := newItem("p")
		item.Priority.Set(p)
		_, err := db.AddItem(item)
		require.NoError(t, err)
	}

	require.NoError(t, db.AddTemplate(model.Template{Name: "prio", Query: "WHERE priority >= ? AND priority <= ?"}))

	items, err := db.RunTemplate("prio", 2, 9)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestTemplateUnknown(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	_, err := db.RunTemplate("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = db.GetTemplate("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTemplateCRUD(t *testing.T) {
	db := openTestDB(t, DriverCGO)

	require.NoError(t, db.AddTemplate(model.Template{Name: "b", Query: "WHERE priority > 0"}))
	require.NoError(t, db.AddTemplate(model.Template{Name: "a", Query: "WHERE deadline IS NOT NULL"}))

	err := db.AddTemplate(model.Template{Name: "a", Query: "WHERE 1"})
	assert.ErrorIs(t, err, model.ErrPrecondition)

	err = db.AddTemplate(model.Template{Name: "empty", Query: " "})
	assert.ErrorIs(t, err, model.ErrValidation)

	all, err := db.ListTemplates()
	require.NoError(t, err)
	assert.Equal(t, []model.Template{
		{Name: "a", Query: "WHERE deadline IS NOT NULL"},
		{Name: "b", Query: "WHERE priority > 0"},
	}, all)

	some, err := db.ListTemplates("b", "zz")
	require.NoError(t, err)
	assert.Len(t, some, 1)

	require.NoError(t, db.DeleteTemplates("a", "zz"))
	all, err = db.ListTemplates()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Name)
}
