package model

// TagCount is a tag with the number of live items carrying it
type TagCount struct {
	Tag   string `json:"tag"`
	Items int    `json:"items"`
}
