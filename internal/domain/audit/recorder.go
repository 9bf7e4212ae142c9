// Package audit defines the audit trail port used by domain services.
// Recording is best-effort: a failed write must never abort the
// operation that produced it.
package audit

import (
	"context"
	"time"

	"stationops/internal/core/id"
	"stationops/pkg/logger"
)

// Action identifies the kind of audited operation.
type Action string

const (
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionClose       Action = "close"
	ActionUnlock      Action = "unlock"
	ActionRelock      Action = "relock"
	ActionDelete      Action = "delete"
	ActionMarkPaid    Action = "mark_paid"
	ActionPriceChange Action = "price_change"
	ActionLogin       Action = "login"
)

// Entry is a single audit event. OldValues/NewValues carry the entity
// snapshot before and after the operation (nil when not applicable).
type Entry struct {
	Action      Action
	EntityType  string
	EntityID    id.ID
	Description string
	OldValues   map[string]any
	NewValues   map[string]any
	BranchID    *id.ID
	OccurredAt  time.Time
}

// Recorder persists audit entries. Implemented by the postgres audit service.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Filter narrows audit queries.
type Filter struct {
	EntityType string
	EntityID   *id.ID
	Action     Action
	BranchID   *id.ID
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Reader retrieves previously recorded entries.
type Reader interface {
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

// BestEffort records the entry and swallows any failure, logging it at
// warn level. Domain services call this after a successful mutation.
func BestEffort(ctx context.Context, r Recorder, entry Entry) {
	if r == nil {
		return
	}
	if err := r.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}
