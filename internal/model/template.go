package model

// Template is a named, stored query fragment run against item_view
type Template struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}
