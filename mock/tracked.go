package mock

import (
	"context"

	"github.com/fwojciec/docwatch"
)

var _ docwatch.TrackedDocumentService = (*TrackedDocumentService)(nil)

// TrackedDocumentService is a mock implementation of
// docwatch.TrackedDocumentService.
type TrackedDocumentService struct {
	CreateTrackedDocumentFn           func(ctx context.Context, doc *docwatch.TrackedDocument) error
	FindTrackedDocumentByExternalIDFn func(ctx context.Context, externalID string) (*docwatch.TrackedDocument, error)
	FindTrackedDocumentsFn            func(ctx context.Context, filter docwatch.TrackedDocumentFilter) ([]*docwatch.TrackedDocument, error)
	UpdateTrackedDocumentFn           func(ctx context.Context, externalID string, upd docwatch.TrackedDocumentUpdate) (*docwatch.TrackedDocument, error)
	StatisticsFn                      func(ctx context.Context) (*docwatch.Statistics, error)
}

func (s *TrackedDocumentService) CreateTrackedDocument(ctx context.Context, doc *docwatch.TrackedDocument) error {
	return s.CreateTrackedDocumentFn(ctx, doc)
}

func (s *TrackedDocumentService) FindTrackedDocumentByExternalID(ctx context.Context, externalID string) (*docwatch.TrackedDocument, error) {
	return s.FindTrackedDocumentByExternalIDFn(ctx, externalID)
}

func (s *TrackedDocumentService) FindTrackedDocuments(ctx context.Context, filter docwatch.TrackedDocumentFilter) ([]*docwatch.TrackedDocument, error) {
	return s.FindTrackedDocumentsFn(ctx, filter)
}

func (s *TrackedDocumentService) UpdateTrackedDocument(ctx context.Context, externalID string, upd docwatch.TrackedDocumentUpdate) (*docwatch.TrackedDocument, error) {
	return s.UpdateTrackedDocumentFn(ctx, externalID, upd)
}

func (s *TrackedDocumentService) Statistics(ctx context.Context) (*docwatch.Statistics, error) {
	return s.StatisticsFn(ctx)
}
