package ui

import (
	"fmt"

	"github.com/dori/getitdone/internal/model"
)

// Fields are the plain text columns of an item
type Fields struct {
	ID, Priority, Completion, Deadline, Tags, Title string
}

// FormatFields renders the columns shared by listings and the browser
func FormatFields(item *model.Item) Fields {
	f := Fields{
		ID:    fmt.Sprintf("%3d", item.ID),
		Tags:  model.JoinTags(item.Tags.Get()),
		Title: item.Title.Value(),
	}
	if p, ok := item.Priority.Get(); ok {
		f.Priority = fmt.Sprintf("%2d!", p)
	}
	if c, ok := item.Completion.Get(); ok {
		f.Completion = fmt.Sprintf("%3d%%", c)
	}
	if d, ok := item.Deadline.Get(); ok {
		f.Deadline = d.Local().Format("@06/01/02")
	}
	return f
}
