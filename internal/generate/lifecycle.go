// File path: internal/generate/lifecycle.go
package generate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/belriyad/docgen/internal/blob"
	"github.com/belriyad/docgen/internal/common"
	"github.com/belriyad/docgen/internal/store"
)

// Catalog is the slice of the metadata store the pipeline depends on.
// *store.Store satisfies it; tests substitute stubs.
type Catalog interface {
	GetIntake(ctx context.Context, id string) (store.Intake, error)
	GetService(ctx context.Context, id string) (store.Service, error)
	ServiceTemplates(ctx context.Context, serviceID string) ([]store.Template, error)
	CreateArtifact(ctx context.Context, artifact store.Artifact) error
	DeleteArtifacts(ctx context.Context, intakeID string) ([]string, error)
	MarkIntakeCompleted(ctx context.Context, id string) error
}

// Lifecycle is the sole mutator of artifact state. It enforces at most one
// concurrent generation per (intake, template) pair via an in-process lease
// and keeps catalog records and blob binaries consistent.
type Lifecycle struct {
	catalog Catalog
	blobs   blob.Store

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Lease represents exclusive generation rights for one (intake, template)
// pair. Release is safe to call more than once.
type Lease struct {
	manager    *Lifecycle
	key        string
	intakeID   string
	templateID string
	released   bool
}

// NewLifecycle constructs the artifact lifecycle manager.
func NewLifecycle(catalog Catalog, blobs blob.Store) *Lifecycle {
	return &Lifecycle{
		catalog:  catalog,
		blobs:    blobs,
		inflight: make(map[string]struct{}),
	}
}

func leaseKey(intakeID, templateID string) string {
	return intakeID + "\x00" + templateID
}

// Begin acquires the generation lease for the pair, or reports
// ErrGenerationInProgress when another generation holds it.
func (l *Lifecycle) Begin(intakeID, templateID string) (*Lease, error) {
	key := leaseKey(intakeID, templateID)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.inflight[key]; held {
		return nil, fmt.Errorf("intake %s template %s: %w", intakeID, templateID, ErrGenerationInProgress)
	}
	l.inflight[key] = struct{}{}
	return &Lease{manager: l, key: key, intakeID: intakeID, templateID: templateID}, nil
}

// Release frees the pair for subsequent generations.
func (lease *Lease) Release() {
	if lease == nil || lease.released {
		return
	}
	lease.released = true
	lease.manager.mu.Lock()
	delete(lease.manager.inflight, lease.key)
	lease.manager.mu.Unlock()
}

// CreateArtifact uploads the assembled document and records the artifact.
// The caller must hold the pair's lease for the duration of the pipeline.
func (l *Lifecycle) CreateArtifact(ctx context.Context, lease *Lease, document []byte) (store.Artifact, error) {
	if lease == nil || lease.released {
		return store.Artifact{}, fmt.Errorf("artifact create without active lease: %w", ErrGenerationInProgress)
	}
	artifact := store.Artifact{
		ID:          uuid.NewString(),
		IntakeID:    lease.intakeID,
		TemplateID:  lease.templateID,
		GeneratedAt: time.Now().UTC(),
		Succeeded:   true,
	}
	path := fmt.Sprintf("artifacts/%s/%s.docx", lease.intakeID, artifact.ID)
	storedPath, err := l.blobs.Upload(ctx, path, document)
	if err != nil {
		return store.Artifact{}, fmt.Errorf("upload artifact binary: %v: %w", err, ErrPersistenceFailed)
	}
	artifact.BlobPath = storedPath
	if err := l.catalog.CreateArtifact(ctx, artifact); err != nil {
		// Do not leave an orphaned binary behind a failed record insert.
		if cleanupErr := l.blobs.Delete(ctx, storedPath); cleanupErr != nil {
			common.Logger().Warn("lifecycle: orphan blob cleanup failed", "path", storedPath, "error", cleanupErr)
		}
		return store.Artifact{}, fmt.Errorf("record artifact: %v: %w", err, ErrPersistenceFailed)
	}
	common.Logger().Info("lifecycle: artifact created",
		"artifact", artifact.ID, "intake", lease.intakeID, "template", lease.templateID, "bytes", len(document))
	return artifact, nil
}

// DeleteExisting removes all prior artifacts for an intake, records first and
// then binaries, returning how many records were removed. Idempotent: an
// intake with no artifacts deletes zero. Any storage failure aborts the
// caller's regeneration.
func (l *Lifecycle) DeleteExisting(ctx context.Context, intakeID string) (int, error) {
	paths, err := l.catalog.DeleteArtifacts(ctx, intakeID)
	if err != nil {
		return 0, fmt.Errorf("delete artifact records: %v: %w", err, ErrPersistenceFailed)
	}
	for _, path := range paths {
		if err := l.blobs.Delete(ctx, path); err != nil {
			return 0, fmt.Errorf("delete artifact binary %s: %v: %w", path, err, ErrPersistenceFailed)
		}
	}
	if len(paths) > 0 {
		common.Logger().Info("lifecycle: prior artifacts removed", "intake", intakeID, "count", len(paths))
	}
	return len(paths), nil
}
