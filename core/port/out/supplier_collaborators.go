package out

import (
	"context"
	"io"

	"supplier_server/core/domain"
)

// UserRepository is the outbound port of the identity store.
// FindByUsername returns (nil, nil) when the username is unknown.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
}

// SupplierCache is the per-id read-through cache. Implementations are best
// effort: a cache failure degrades to a miss, never to a request failure.
type SupplierCache interface {
	Get(ctx context.Context, id string) (*domain.Supplier, bool)
	Put(ctx context.Context, supplier *domain.Supplier)
	Remove(ctx context.Context, id string)
}

// Notifier sends the best-effort notification about a newly created supplier.
// Errors are handled (logged) by the implementation, never surfaced.
type Notifier interface {
	NotifyCreated(supplier *domain.Supplier)
}

// EventBus broadcasts supplier lifecycle events to stream subscribers.
type EventBus interface {
	Publish(event domain.SupplierEvent)
}

// Media is a stored binary blob with its content type.
type Media struct {
	ContentType string
	Length      int64
	Content     io.ReadCloser
}

// MediaStore is the outbound port for binary blob storage, keyed by the
// supplier id. Get returns (nil, nil) when no blob is stored for the id.
type MediaStore interface {
	Get(ctx context.Context, id string) (*Media, error)
	Put(ctx context.Context, id, contentType string, content io.Reader) error
	Delete(ctx context.Context, id string) error
}
