package cli

import (
	"bytes"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/getitdone/internal/model"
)

func testPrinter(t *testing.T) (*Printer, *IO, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	p, err := NewPrinter(&out, "nord")
	require.NoError(t, err)
	p.now = func() time.Time { return testNow }
	return p, NewIO(nil, &out, &out), &out
}

func TestFormatItem(t *testing.T) {
	p, _, _ := testPrinter(t)

	item := model.FromRow(model.Row{
		ID:         1,
		Title:      sql.NullString{String: "x", Valid: true},
		Deadline:   sql.NullInt64{Int64: time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local).Unix(), Valid: true},
		Completion: sql.NullInt64{Int64: 20, Valid: true},
		Priority:   sql.NullInt64{Int64: 2, Valid: true},
		Tags:       sql.NullString{String: "#b,#a", Valid: true},
	})
	assert.Equal(t, "[  1]  2!  20% @26/10/20 #a,#b x", p.FormatItem(item))

	bare := model.FromRow(model.Row{ID: 12, Title: sql.NullString{String: "bare", Valid: true}})
	assert.Equal(t, "[ 12]                     bare", p.FormatItem(bare))
}

func TestNewPrinterUnknownTheme(t *testing.T) {
	_, err := NewPrinter(&bytes.Buffer{}, "neon")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestPrintTemplatesAndTags(t *testing.T) {
	p, o, out := testPrinter(t)

	p.PrintTemplates(o, []model.Template{{Name: "open", Query: "WHERE completion < 100"}})
	p.PrintTags(o, []model.TagCount{{Tag: "#home", Items: 3}})

	assert.Equal(t, "[        open] WHERE completion < 100\n#home                3\n", out.String())
}

func TestPrintArchive(t *testing.T) {
	p, o, out := testPrinter(t)

	done := 100
	p.PrintArchive(o, []model.ArchiveRecord{{
		ArchiveID:   "a1",
		ItemID:      4,
		Title:       "old",
		Completion:  &done,
		Tags:        []string{"#a"},
		ArchiveTime: time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local),
	}})

	assert.Equal(t, "2026-10-18 [  4]     100%           #a old\n", out.String())
}
