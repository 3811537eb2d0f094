// File path: internal/store/artifacts.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateArtifact persists a generated artifact record.
func (s *Store) CreateArtifact(ctx context.Context, artifact Artifact) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if strings.TrimSpace(artifact.ID) == "" {
		return errors.New("artifact id required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (id, intake_id, template_id, blob_path, generated_at, succeeded, error_message)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		artifact.ID, artifact.IntakeID, artifact.TemplateID, artifact.BlobPath,
		artifact.GeneratedAt.UTC(), artifact.Succeeded, artifact.ErrorMessage)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

// GetArtifact returns one artifact record.
func (s *Store) GetArtifact(ctx context.Context, id string) (Artifact, error) {
	if err := s.ensureReady(); err != nil {
		return Artifact{}, err
	}
	var artifact Artifact
	err := s.db.GetContext(ctx, &artifact,
		`SELECT id, intake_id, template_id, blob_path, generated_at, succeeded, error_message
                 FROM artifacts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Artifact{}, fmt.Errorf("artifact %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("get artifact: %w", err)
	}
	return artifact, nil
}

// ListArtifacts returns all artifacts recorded for an intake, newest first.
func (s *Store) ListArtifacts(ctx context.Context, intakeID string) ([]Artifact, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var artifacts []Artifact
	err := s.db.SelectContext(ctx, &artifacts,
		`SELECT id, intake_id, template_id, blob_path, generated_at, succeeded, error_message
                 FROM artifacts WHERE intake_id = ? ORDER BY generated_at DESC, id`, intakeID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return artifacts, nil
}

// DeleteArtifacts removes every artifact record for an intake and returns the
// blob paths that backed them so the caller can release the binaries.
// Idempotent: deleting an intake with no artifacts succeeds with zero paths.
func (s *Store) DeleteArtifacts(ctx context.Context, intakeID string) ([]string, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var paths []string
	if err := s.db.SelectContext(ctx, &paths,
		`SELECT blob_path FROM artifacts WHERE intake_id = ?`, intakeID); err != nil {
		return nil, fmt.Errorf("collect artifact paths: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM artifacts WHERE intake_id = ?`, intakeID); err != nil {
		return nil, fmt.Errorf("delete artifacts: %w", err)
	}
	return paths, nil
}
