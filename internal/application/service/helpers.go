package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	infraRepo "github.com/sangkips/shopfloor-api/internal/infrastructure/repository"
	"github.com/sangkips/shopfloor-api/pkg/apperror"
)

// tenantFromContext returns the active tenant or ErrTenantRequired
func tenantFromContext(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, apperror.ErrTenantRequired
	}
	return tenantID, nil
}

// staleAsConflict turns a lost state race into a 409 carrying msg
func staleAsConflict(err error, msg string) error {
	if errors.Is(err, repository.ErrStaleState) {
		return apperror.NewConflictError(msg)
	}
	return err
}

func money(currency string, v float64) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%s %.2f", currency, v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
