package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
)

// DocumentNumberer issues per-tenant document numbers such as Q-00001
type DocumentNumberer struct {
	seqRepo  repository.SequenceRepository
	settings *SettingsService
}

// NewDocumentNumberer creates a new document numberer
func NewDocumentNumberer(seqRepo repository.SequenceRepository, settings *SettingsService) *DocumentNumberer {
	return &DocumentNumberer{seqRepo: seqRepo, settings: settings}
}

// Next returns the next number of the tenant's series for kind
func (n *DocumentNumberer) Next(ctx context.Context, tenantID uuid.UUID, kind entity.DocumentKind) (string, error) {
	settings, err := n.settings.ForTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}
	value, err := n.seqRepo.Next(ctx, tenantID, kind)
	if err != nil {
		return "", err
	}
	return entity.FormatDocumentNumber(settings.Prefix(kind), value), nil
}
