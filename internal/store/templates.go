// File path: internal/store/templates.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateTemplate persists a template record together with its extracted
// fields. Field positions follow slice order.
func (s *Store) CreateTemplate(ctx context.Context, tmpl Template) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if strings.TrimSpace(tmpl.ID) == "" {
		return errors.New("template id required")
	}
	now := time.Now().UTC()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create template: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO templates (id, name, blob_path, format, created_at, updated_at)
                 VALUES (?, ?, ?, ?, ?, ?)`,
		tmpl.ID, tmpl.Name, tmpl.BlobPath, tmpl.Format, now, now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert template: %w", err)
	}
	for i, field := range tmpl.Fields {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO template_fields (template_id, position, name, type_hint, label)
                         VALUES (?, ?, ?, ?, ?)`,
			tmpl.ID, i, field.Name, field.TypeHint, field.Label)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert template field %q: %w", field.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create template: %w", err)
	}
	return nil
}

// GetTemplate returns a template and its ordered extracted fields.
func (s *Store) GetTemplate(ctx context.Context, id string) (Template, error) {
	if err := s.ensureReady(); err != nil {
		return Template{}, err
	}
	var tmpl Template
	err := s.db.GetContext(ctx, &tmpl,
		`SELECT id, name, blob_path, format, created_at, updated_at FROM templates WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Template{}, fmt.Errorf("get template: %w", err)
	}
	fields, err := s.templateFields(ctx, id)
	if err != nil {
		return Template{}, err
	}
	tmpl.Fields = fields
	return tmpl, nil
}

func (s *Store) templateFields(ctx context.Context, templateID string) ([]TemplateField, error) {
	var fields []TemplateField
	err := s.db.SelectContext(ctx, &fields,
		`SELECT name, COALESCE(type_hint, '') AS type_hint, COALESCE(label, '') AS label, position
                 FROM template_fields WHERE template_id = ? ORDER BY position`, templateID)
	if err != nil {
		return nil, fmt.Errorf("template fields: %w", err)
	}
	return fields, nil
}

// ListTemplates returns all templates ordered by name, without fields.
func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var templates []Template
	err := s.db.SelectContext(ctx, &templates,
		`SELECT id, name, blob_path, format, created_at, updated_at FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// DeleteTemplate removes a template and its fields. Service links cascade.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}
