// Package media implements the multimedia application logic: binary blobs
// attached to supplier records.
package media

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"supplier_server/core/port/out"
	"supplier_server/pkg/apperr"
)

// Service stores and retrieves one blob per supplier id.
type Service struct {
	suppliers out.SupplierRepository
	store     out.MediaStore
	timeout   time.Duration
	log       zerolog.Logger
}

// NewService creates the multimedia service.
func NewService(suppliers out.SupplierRepository, store out.MediaStore, log zerolog.Logger) *Service {
	return &Service{
		suppliers: suppliers,
		store:     store,
		timeout:   500 * time.Millisecond,
		log:       log.With().Str("component", "media_service").Logger(),
	}
}

// Find returns the blob stored for the supplier id, or (nil, nil) when the
// record does not exist or has no blob.
func (s *Service) Find(ctx context.Context, id string) (*out.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.suppliers.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return s.store.Get(ctx, id)
}

// Save stores the blob for the supplier id, replacing any previous one.
// Fails with NotFound when the record does not exist.
func (s *Service) Save(ctx context.Context, id, contentType string, content io.Reader) error {
	existsCtx, cancel := context.WithTimeout(ctx, s.timeout)
	exists, err := s.suppliers.ExistsByID(existsCtx, id)
	cancel()
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Lieferant " + id)
	}

	// Uploads may be large; no short bound on the store write itself.
	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("could not remove previous media")
	}
	return s.store.Put(ctx, id, contentType, content)
}
