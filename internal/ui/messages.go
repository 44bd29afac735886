package ui

import (
	"github.com/dori/getitdone/internal/model"
)

// Messages for inter-component communication

// ItemsLoadedMsg contains loaded items
type ItemsLoadedMsg struct {
	Items []*model.Item
	Err   error
}

// ItemUpdatedMsg indicates an item was stored
type ItemUpdatedMsg struct {
	Item *model.Item
	Err  error
}

// ItemsArchivedMsg indicates items were archived
type ItemsArchivedMsg struct {
	IDs []int64
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}
