package scrape

import (
	"context"
	"time"

	"github.com/fwojciec/docwatch"
)

// Reconciler diffs freshly parsed descriptors against the tracked document
// set and upserts into the document registry.
//
// Documents previously tracked but absent from a batch are left untouched:
// the source listing is a superset view, not authoritative for deletions,
// because a transient fetch or parse failure must not be mistaken for a
// genuine removal.
type Reconciler struct {
	Tracked  docwatch.TrackedDocumentService
	Registry docwatch.RegistryService

	// Now returns the current time. Defaults to time.Now; injected in tests.
	Now func() time.Time
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

// Reconcile processes descriptors one at a time. Per-descriptor failures are
// recorded in the report and never abort the batch or roll back earlier
// descriptors.
func (r *Reconciler) Reconcile(ctx context.Context, descriptors []docwatch.DocumentDescriptor) *docwatch.ReconcileReport {
	report := &docwatch.ReconcileReport{}

	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			r.recordError(report, d.ExternalID, docwatch.ErrorMessage(err))
			continue
		}

		hash := Fingerprint(d)

		existing, err := r.Tracked.FindTrackedDocumentByExternalID(ctx, d.ExternalID)
		switch {
		case err != nil && docwatch.ErrorCode(err) == docwatch.ENOTFOUND:
			r.create(ctx, report, d, hash)
		case err != nil:
			r.recordError(report, d.ExternalID, docwatch.ErrorMessage(err))
		case existing.ContentHash == hash:
			r.touch(ctx, report, existing)
		default:
			r.update(ctx, report, existing, d, hash)
		}
	}

	return report
}

// create registers a new document: a registry entry first, then the tracked
// record pointing at it.
func (r *Reconciler) create(ctx context.Context, report *docwatch.ReconcileReport, d docwatch.DocumentDescriptor, hash string) {
	entry := &docwatch.RegistryEntry{
		Title:        d.Title,
		Type:         d.Type,
		SourceURL:    d.ExternalURL,
		VersionLabel: d.VersionLabel,
		PublishedAt:  d.PublishedAt,
	}
	if err := r.Registry.CreateEntry(ctx, entry); err != nil {
		r.recordError(report, d.ExternalID, docwatch.ErrorMessage(err))
		return
	}

	now := r.now()
	doc := &docwatch.TrackedDocument{
		ExternalID:    d.ExternalID,
		Title:         d.Title,
		Type:          d.Type,
		ExternalURL:   d.ExternalURL,
		RegistryID:    entry.ID,
		ContentHash:   hash,
		VersionLabel:  d.VersionLabel,
		PublishedAt:   d.PublishedAt,
		FirstSeenAt:   now,
		LastCheckedAt: now,
		Status:        docwatch.StatusActive,
	}
	if err := r.Tracked.CreateTrackedDocument(ctx, doc); err != nil {
		r.recordError(report, d.ExternalID, docwatch.ErrorMessage(err))
		return
	}

	report.Created++
}

// touch refreshes LastCheckedAt on an unchanged document. A document that
// previously errored returns to active: it reconciled cleanly this run.
func (r *Reconciler) touch(ctx context.Context, report *docwatch.ReconcileReport, existing *docwatch.TrackedDocument) {
	now := r.now()
	status := docwatch.StatusActive
	empty := ""
	upd := docwatch.TrackedDocumentUpdate{
		LastCheckedAt: &now,
	}
	if existing.Status == docwatch.StatusError {
		upd.Status = &status
		upd.ErrorMessage = &empty
	}
	if _, err := r.Tracked.UpdateTrackedDocument(ctx, existing.ExternalID, upd); err != nil {
		r.recordError(report, existing.ExternalID, docwatch.ErrorMessage(err))
		return
	}

	report.Unchanged++
}

// update propagates changed metadata to the registry entry and then to the
// tracked record. A registry failure marks the tracked document as errored
// but does not abort the batch.
func (r *Reconciler) update(ctx context.Context, report *docwatch.ReconcileReport, existing *docwatch.TrackedDocument, d docwatch.DocumentDescriptor, hash string) {
	registryID := existing.RegistryID
	if registryID == "" {
		// The first upsert never completed; heal by creating the entry now.
		entry := &docwatch.RegistryEntry{
			Title:        d.Title,
			Type:         d.Type,
			SourceURL:    d.ExternalURL,
			VersionLabel: d.VersionLabel,
			PublishedAt:  d.PublishedAt,
		}
		if err := r.Registry.CreateEntry(ctx, entry); err != nil {
			r.markError(ctx, existing.ExternalID, docwatch.ErrorMessage(err))
			r.recordError(report, existing.ExternalID, docwatch.ErrorMessage(err))
			return
		}
		registryID = entry.ID
	} else {
		upd := docwatch.RegistryEntryUpdate{
			Title:        &d.Title,
			Type:         &d.Type,
			SourceURL:    &d.ExternalURL,
			VersionLabel: &d.VersionLabel,
			PublishedAt:  d.PublishedAt,
		}
		if _, err := r.Registry.UpdateEntry(ctx, registryID, upd); err != nil {
			r.markError(ctx, existing.ExternalID, docwatch.ErrorMessage(err))
			r.recordError(report, existing.ExternalID, docwatch.ErrorMessage(err))
			return
		}
	}

	now := r.now()
	status := docwatch.StatusActive
	empty := ""
	upd := docwatch.TrackedDocumentUpdate{
		Title:         &d.Title,
		Type:          &d.Type,
		ExternalURL:   &d.ExternalURL,
		RegistryID:    &registryID,
		ContentHash:   &hash,
		VersionLabel:  &d.VersionLabel,
		PublishedAt:   d.PublishedAt,
		LastCheckedAt: &now,
		Status:        &status,
		ErrorMessage:  &empty,
	}
	if _, err := r.Tracked.UpdateTrackedDocument(ctx, existing.ExternalID, upd); err != nil {
		r.recordError(report, existing.ExternalID, docwatch.ErrorMessage(err))
		return
	}

	report.Updated++
}

// recordError appends a per-descriptor error to the report.
func (r *Reconciler) recordError(report *docwatch.ReconcileReport, externalID, reason string) {
	report.Errors = append(report.Errors, docwatch.ReconcileError{
		ExternalID: externalID,
		Reason:     reason,
	})
}

// markError transitions a tracked document to error status. Best effort: a
// failure here is already being reported for the descriptor.
func (r *Reconciler) markError(ctx context.Context, externalID, message string) {
	status := docwatch.StatusError
	upd := docwatch.TrackedDocumentUpdate{
		Status:       &status,
		ErrorMessage: &message,
	}
	_, _ = r.Tracked.UpdateTrackedDocument(ctx, externalID, upd)
}
