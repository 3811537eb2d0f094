// File path: internal/store/intakes.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateIntake opens a draft intake for a service.
func (s *Store) CreateIntake(ctx context.Context, id, serviceID string) (Intake, error) {
	if err := s.ensureReady(); err != nil {
		return Intake{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Intake{}, errors.New("intake id required")
	}
	if _, err := s.GetService(ctx, serviceID); err != nil {
		return Intake{}, err
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO intakes (id, service_id, status, created_at, updated_at)
                 VALUES (?, ?, ?, ?, ?)`,
		id, serviceID, IntakeStatusDraft, now, now)
	if err != nil {
		return Intake{}, fmt.Errorf("insert intake: %w", err)
	}
	return Intake{ID: id, ServiceID: serviceID, Status: IntakeStatusDraft, CreatedAt: now, UpdatedAt: now}, nil
}

// GetIntake returns an intake together with its client data map.
func (s *Store) GetIntake(ctx context.Context, id string) (Intake, error) {
	if err := s.ensureReady(); err != nil {
		return Intake{}, err
	}
	var intake Intake
	err := s.db.GetContext(ctx, &intake,
		`SELECT id, service_id, status, created_at, updated_at, submitted_at
                 FROM intakes WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Intake{}, fmt.Errorf("intake %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Intake{}, fmt.Errorf("get intake: %w", err)
	}
	rows := []struct {
		Field string `db:"field"`
		Value string `db:"value"`
	}{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT field, value FROM intake_data WHERE intake_id = ?`, id); err != nil {
		return Intake{}, fmt.Errorf("intake data: %w", err)
	}
	if len(rows) > 0 {
		intake.ClientData = make(map[string]string, len(rows))
		for _, row := range rows {
			intake.ClientData[row.Field] = row.Value
		}
	}
	return intake, nil
}

// SaveIntakeData upserts the provided field values into the intake's client
// data map. Partial saves are allowed at any point before submission; values
// merge over prior saves key by key.
func (s *Store) SaveIntakeData(ctx context.Context, id string, data map[string]string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	intake, err := s.GetIntake(ctx, id)
	if err != nil {
		return err
	}
	if intake.Status != IntakeStatusDraft {
		return fmt.Errorf("intake %s is %s: %w", id, intake.Status, ErrIntakeImmutable)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save intake data: %w", err)
	}
	for field, value := range data {
		trimmed := strings.TrimSpace(field)
		if trimmed == "" {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO intake_data (intake_id, field, value) VALUES (?, ?, ?)
                         ON CONFLICT(intake_id, field) DO UPDATE SET value = excluded.value`,
			id, trimmed, value)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("save field %q: %w", trimmed, err)
		}
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE intakes SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("touch intake: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save intake data: %w", err)
	}
	return nil
}

// SubmitIntake finalizes a draft intake.
func (s *Store) SubmitIntake(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE intakes SET status = ?, submitted_at = ?, updated_at = ?
                 WHERE id = ? AND status = ?`,
		IntakeStatusSubmitted, now, now, id, IntakeStatusDraft)
	if err != nil {
		return fmt.Errorf("submit intake: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("submit intake result: %w", err)
	}
	if affected == 0 {
		intake, err := s.GetIntake(ctx, id)
		if err != nil {
			return err
		}
		return fmt.Errorf("intake %s already %s: %w", id, intake.Status, ErrIntakeImmutable)
	}
	return nil
}

// MarkIntakeCompleted records that documents have been generated for the
// intake. Safe to call repeatedly.
func (s *Store) MarkIntakeCompleted(ctx context.Context, id string) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE intakes SET status = ?, updated_at = ? WHERE id = ? AND status != ?`,
		IntakeStatusCompleted, time.Now().UTC(), id, IntakeStatusDraft)
	if err != nil {
		return fmt.Errorf("complete intake: %w", err)
	}
	return nil
}
