package domain

// EventType classifies a supplier lifecycle event.
type EventType string

const (
	EventCreated EventType = "lieferant.created"
	EventUpdated EventType = "lieferant.updated"
	EventDeleted EventType = "lieferant.deleted"
)

// SupplierEvent is broadcast to event-stream subscribers after a write
// completes. Supplier is nil for delete events.
type SupplierEvent struct {
	Type     EventType `json:"type"`
	ID       string    `json:"id"`
	Seq      int64     `json:"seq"`
	Supplier *Supplier `json:"lieferant,omitempty"`
}
