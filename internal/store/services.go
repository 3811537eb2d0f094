// File path: internal/store/services.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateService persists a service and the ordered set of templates selected
// for it. Template order is the generation order reported in batch results.
func (s *Store) CreateService(ctx context.Context, svc Service, templateIDs []string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if strings.TrimSpace(svc.ID) == "" {
		return errors.New("service id required")
	}
	now := time.Now().UTC()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create service: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO services (id, name, created_at) VALUES (?, ?, ?)`,
		svc.ID, svc.Name, now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert service: %w", err)
	}
	for i, templateID := range templateIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO service_templates (service_id, template_id, position) VALUES (?, ?, ?)`,
			svc.ID, templateID, i)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("link template %s: %w", templateID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create service: %w", err)
	}
	return nil
}

// GetService returns a service record.
func (s *Store) GetService(ctx context.Context, id string) (Service, error) {
	if err := s.ensureReady(); err != nil {
		return Service{}, err
	}
	var svc Service
	err := s.db.GetContext(ctx, &svc,
		`SELECT id, name, created_at FROM services WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Service{}, fmt.Errorf("service %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Service{}, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

// ServiceTemplates returns the service's selected templates, fields included,
// in their configured order.
func (s *Store) ServiceTemplates(ctx context.Context, serviceID string) ([]Template, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var templates []Template
	err := s.db.SelectContext(ctx, &templates,
		`SELECT t.id, t.name, t.blob_path, t.format, t.created_at, t.updated_at
                 FROM service_templates st
                 INNER JOIN templates t ON t.id = st.template_id
                 WHERE st.service_id = ?
                 ORDER BY st.position`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("service templates: %w", err)
	}
	for i := range templates {
		fields, err := s.templateFields(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Fields = fields
	}
	return templates, nil
}
