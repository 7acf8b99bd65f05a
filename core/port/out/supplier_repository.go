// Package out defines the outbound ports of the supplier service.
package out

import (
	"context"

	"supplier_server/core/domain"
)

// SupplierRepository is the outbound port for supplier persistence.
// Lookup methods return (nil, nil) when no document matches.
type SupplierRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Supplier, error)
	FindByEmail(ctx context.Context, email string) (*domain.Supplier, error)
	FindAll(ctx context.Context) ([]domain.Supplier, error)
	FindByCriteria(ctx context.Context, criteria []domain.Criterion) ([]domain.Supplier, error)

	// Insert persists a new supplier with version 0.
	Insert(ctx context.Context, supplier *domain.Supplier) error

	// Replace overwrites the supplier document conditionally: the write only
	// applies when the stored version still equals expectedVersion, and bumps
	// the version by exactly 1. It reports false when the condition failed
	// (concurrent writer won the race).
	Replace(ctx context.Context, supplier *domain.Supplier, expectedVersion int) (bool, error)

	// DeleteByID removes the document; deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
	LastnamesByPrefix(ctx context.Context, prefix string) ([]string, error)
	EmailsByPrefix(ctx context.Context, prefix string) ([]string, error)
}
