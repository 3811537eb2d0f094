// File path: internal/generate/orchestrator.go

// Package generate implements the document-generation pipeline: template
// extraction, field mapping, generative filling, verification, assembly, and
// artifact lifecycle, orchestrated per intake with partial-failure isolation.
package generate

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/belriyad/docgen/internal/blob"
	"github.com/belriyad/docgen/internal/common"
	"github.com/belriyad/docgen/internal/extract"
	"github.com/belriyad/docgen/internal/llm"
	"github.com/belriyad/docgen/internal/mapping"
	"github.com/belriyad/docgen/internal/notify"
	"github.com/belriyad/docgen/internal/store"
)

// Orchestrator is the pipeline entry point. One orchestrator serves all
// intakes; per-pair exclusivity lives in the Lifecycle.
type Orchestrator struct {
	catalog   Catalog
	blobs     blob.Store
	producer  *Producer
	lifecycle *Lifecycle
	aliases   mapping.AliasResolver
	notifier  notify.Sender
	notifyTo  string
	cfg       Config
}

// New constructs an orchestrator over the provided collaborators.
func New(catalog Catalog, blobs blob.Store, provider llm.Provider, cfg Config, opts ...Option) *Orchestrator {
	cfg = DefaultConfig().Merge(cfg)
	settings := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	aliases := settings.aliases
	if aliases == nil {
		aliases = mapping.DefaultAliases()
	}
	return &Orchestrator{
		catalog:   catalog,
		blobs:     blobs,
		producer:  NewProducer(provider, cfg),
		lifecycle: NewLifecycle(catalog, blobs),
		aliases:   aliases,
		notifier:  settings.notifier,
		notifyTo:  settings.notifyTo,
		cfg:       cfg,
	}
}

// Lifecycle exposes the artifact lifecycle manager for read accessors.
func (o *Orchestrator) Lifecycle() *Lifecycle {
	return o.lifecycle
}

// GenerateDocuments runs the pipeline for every template selected by the
// intake's service. Per-template failures never escalate to batch failures;
// only the load phase and the pre-regeneration delete are batch-fatal.
func (o *Orchestrator) GenerateDocuments(ctx context.Context, intakeID string, regenerate bool) (BatchResult, error) {
	logger := common.Logger()
	if o.cfg.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.OverallTimeout)
		defer cancel()
	}

	intake, err := o.catalog.GetIntake(ctx, intakeID)
	if err != nil {
		return BatchResult{}, err
	}
	if intake.Status == store.IntakeStatusDraft {
		return BatchResult{}, fmt.Errorf("intake %s: %w", intakeID, ErrIntakeNotSubmitted)
	}
	if _, err := o.catalog.GetService(ctx, intake.ServiceID); err != nil {
		return BatchResult{}, err
	}
	templates, err := o.catalog.ServiceTemplates(ctx, intake.ServiceID)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{IntakeID: intakeID}
	if regenerate {
		removed, err := o.lifecycle.DeleteExisting(ctx, intakeID)
		if err != nil {
			logger.Error("generate: regeneration delete failed, aborting batch",
				"intake", intakeID, "error", err)
			return BatchResult{}, err
		}
		result.Regenerated = removed
	}

	logger.Info("generate: batch started",
		"intake", intakeID, "templates", len(templates), "regenerate", regenerate)

	// Outcomes are indexed by the template's position in the service's
	// template list so ordering stays stable under concurrency.
	result.Outcomes = make([]TemplateOutcome, len(templates))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.cfg.Concurrency)
	for i, tmpl := range templates {
		group.Go(func() error {
			result.Outcomes[i] = o.runTemplate(groupCtx, intake, tmpl)
			return nil
		})
	}
	// Workers never return errors; failures live in the outcome ledger.
	_ = group.Wait()

	result.tally()
	if result.Succeeded > 0 {
		if err := o.catalog.MarkIntakeCompleted(context.WithoutCancel(ctx), intakeID); err != nil {
			logger.Warn("generate: mark intake completed failed", "intake", intakeID, "error", err)
		}
	}
	logger.Info("generate: batch finished",
		"intake", intakeID,
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed)
	o.sendSummary(result)
	return result, nil
}

// runTemplate drives one template through extract, map, generate, verify,
// assemble, and persist. Every failure is captured as the template's outcome.
func (o *Orchestrator) runTemplate(ctx context.Context, intake store.Intake, tmpl store.Template) TemplateOutcome {
	logger := common.Logger()
	outcome := TemplateOutcome{TemplateID: tmpl.ID, TemplateName: tmpl.Name}

	if err := ctx.Err(); err != nil {
		return outcome.fail(StatusTimeout, err)
	}

	lease, err := o.lifecycle.Begin(intake.ID, tmpl.ID)
	if err != nil {
		return outcome.fail(StatusInProgress, err)
	}
	defer lease.Release()

	buffer, err := o.blobs.Download(ctx, tmpl.BlobPath)
	if err != nil {
		return outcome.fail(classifyStatus(err, StatusPersistenceFailed), err)
	}
	format, err := extract.ParseFormat(tmpl.Format)
	if err != nil {
		return outcome.fail(StatusExtractionFailed, err)
	}
	templateText, err := extract.Extract(buffer, format)
	if err != nil {
		return outcome.fail(classifyStatus(err, StatusExtractionFailed), err)
	}

	// Mapping is computed fresh on every generation; client data may have
	// changed since the last run.
	fieldNames := make([]string, len(tmpl.Fields))
	for i, field := range tmpl.Fields {
		fieldNames[i] = field.Name
	}
	resolved, stats := mapping.Resolve(fieldNames, intake.ClientData, o.aliases)
	outcome.Mapping = stats
	logger.Info("generate: mapping resolved",
		"intake", intake.ID,
		"template", tmpl.Name,
		"exact", stats.Exact,
		"alias", stats.Alias,
		"partial", stats.Partial,
		"unmatched", stats.Unmatched)

	filledText, err := o.producer.Generate(ctx, templateText, resolved, tmpl.Name)
	if err != nil {
		return outcome.fail(classifyStatus(err, StatusProviderUnavailable), err)
	}

	report, err := Verify(filledText, resolved)
	outcome.Verification = &report
	if err != nil {
		logger.Error("generate: verification failed",
			"intake", intake.ID,
			"template", tmpl.Name,
			"inserted", report.Inserted(),
			"checked", len(report.Checks),
			"error", err)
		return outcome.fail(StatusVerificationMismatch, err)
	}

	document, err := Assemble(filledText, tmpl.Name, o.cfg.MaxDocumentBytes)
	if err != nil {
		return outcome.fail(classifyStatus(err, StatusAssemblyFailed), err)
	}

	artifact, err := o.lifecycle.CreateArtifact(ctx, lease, document)
	if err != nil {
		return outcome.fail(classifyStatus(err, StatusPersistenceFailed), err)
	}

	outcome.Status = StatusSuccess
	outcome.ArtifactID = artifact.ID
	return outcome
}

func (o TemplateOutcome) fail(status Status, err error) TemplateOutcome {
	o.Status = status
	if err != nil {
		o.Error = err.Error()
	}
	return o
}

// classifyStatus maps an error onto the outcome taxonomy, preferring the
// specific pipeline error over the stage's fallback status.
func classifyStatus(err error, fallback Status) Status {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return StatusTimeout
	case errors.Is(err, extract.ErrExtractionFailed):
		return StatusExtractionFailed
	case errors.Is(err, llm.ErrRejected):
		return StatusProviderRejected
	case errors.Is(err, llm.ErrTimeout):
		return StatusProviderTimeout
	case errors.Is(err, llm.ErrUnavailable):
		return StatusProviderUnavailable
	case errors.Is(err, ErrVerificationMismatch):
		return StatusVerificationMismatch
	case errors.Is(err, ErrAssemblyFailed):
		return StatusAssemblyFailed
	case errors.Is(err, ErrGenerationInProgress):
		return StatusInProgress
	case errors.Is(err, ErrPersistenceFailed) || errors.Is(err, blob.ErrNotFound):
		return StatusPersistenceFailed
	default:
		return fallback
	}
}

// sendSummary fires the batch notification without blocking the caller.
func (o *Orchestrator) sendSummary(result BatchResult) {
	if o.notifier == nil || o.notifyTo == "" {
		return
	}
	msg := notify.Message{
		To:      o.notifyTo,
		Subject: fmt.Sprintf("Document generation finished for intake %s", result.IntakeID),
		Body: fmt.Sprintf("Templates processed: %d\nSucceeded: %d\nFailed: %d\n",
			result.Total, result.Succeeded, result.Failed),
	}
	go func() {
		if err := o.notifier.Send(context.Background(), msg); err != nil {
			common.Logger().Warn("generate: batch notification failed", "error", err)
		}
	}()
}
