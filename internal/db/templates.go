package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dori/getitdone/internal/model"
)

// AddTemplate stores a named query. Names are unique.
func (db *DB) AddTemplate(t model.Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return model.Validationf("template name is required")
	}
	if strings.TrimSpace(t.Query) == "" {
		return model.Validationf("template %s has an empty query", t.Name)
	}

	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM templates WHERE name = ?`, t.Name).Scan(&exists)
	if err != nil {
		return storeErr(fmt.Sprintf("look up template %s", t.Name), err)
	}
	if exists > 0 {
		return model.Preconditionf("template %s already exists", t.Name)
	}

	if _, err := db.Exec(`INSERT INTO templates (name, query) VALUES (?, ?)`, t.Name, t.Query); err != nil {
		return storeErr(fmt.Sprintf("add template %s", t.Name), err)
	}
	db.log.Debugw("template added", "name", t.Name)
	return nil
}

// DeleteTemplates removes templates by name; unknown names are ignored
func (db *DB) DeleteTemplates(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	query := `DELETE FROM templates WHERE name IN (` + Placeholders(len(names)) + `)`
	if _, err := db.Exec(query, args...); err != nil {
		return storeErr("delete templates", err)
	}
	return nil
}

// ListTemplates returns the named templates, or all of them when no name is
// given, ordered by name.
func (db *DB) ListTemplates(names ...string) ([]model.Template, error) {
	p := &Predicate{}
	if len(names) > 0 {
		p.In("name", names...)
	}

	rows, err := db.Query(`SELECT name, query FROM templates `+p.SQL()+` ORDER BY name`, p.Args()...)
	if err != nil {
		return nil, storeErr("list templates", err)
	}
	defer rows.Close()

	var templates []model.Template
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.Name, &t.Query); err != nil {
			return nil, storeErr("scan template", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list templates", err)
	}

	return templates, nil
}

// GetTemplate returns one template by name
func (db *DB) GetTemplate(name string) (*model.Template, error) {
	t := model.Template{Name: name}
	err := db.QueryRow(`SELECT query FROM templates WHERE name = ?`, name).Scan(&t.Query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFoundf("no such template: %s", name)
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("load template %s", name), err)
	}
	return &t, nil
}

// RunTemplate runs the named template's query with params bound in order
func (db *DB) RunTemplate(name string, params ...any) ([]*model.Item, error) {
	t, err := db.GetTemplate(name)
	if err != nil {
		return nil, err
	}
	return db.RawQuery(t.Query, params...)
}
