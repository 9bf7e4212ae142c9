package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	appctx "stationops/internal/core/context"
	"stationops/internal/core/id"
	"stationops/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// auditRow is the persisted shape of an audit entry. Large change sets
// are stored zstd-compressed; small ones stay as plain JSONB.
type auditRow struct {
	ID                id.ID           `db:"id"`
	Action            string          `db:"action"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Description       string          `db:"description"`
	OldValues         json.RawMessage `db:"old_values"`
	NewValues         json.RawMessage `db:"new_values"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	BranchID          *id.ID          `db:"branch_id"`
	ActorID           string          `db:"actor_id"`
	ActorName         string          `db:"actor_name"`
	CreatedAt         time.Time       `db:"created_at"`
}

type compressedChanges struct {
	Old map[string]any `json:"old,omitempty"`
	New map[string]any `json:"new,omitempty"`
}

// AuditService persists audit entries to the audit_logs table.
// Implements audit.Recorder and audit.Reader.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

var (
	_ audit.Recorder = (*AuditService)(nil)
	_ audit.Reader   = (*AuditService)(nil)
)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record persists one audit entry, attributing it to the context actor.
// Callers treat this as best-effort; errors are returned for the caller
// to swallow and log, never to escalate.
func (s *AuditService) Record(ctx context.Context, entry audit.Entry) error {
	row := auditRow{
		ID:              id.New(),
		Action:          string(entry.Action),
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Description:     entry.Description,
		BranchID:        entry.BranchID,
		CompressionAlgo: CompressionNone,
		CreatedAt:       entry.OccurredAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	if actor := appctx.GetActor(ctx); actor != nil {
		row.ActorID = actor.ID
		row.ActorName = actor.DisplayName
	}

	oldJSON, newJSON, err := marshalChanges(entry)
	if err != nil {
		return err
	}

	if len(oldJSON)+len(newJSON) > s.compressThreshold {
		combined, err := json.Marshal(compressedChanges{Old: entry.OldValues, New: entry.NewValues})
		if err != nil {
			return fmt.Errorf("marshal changes: %w", err)
		}
		row.ChangesCompressed = s.encoder.EncodeAll(combined, nil)
		row.CompressionAlgo = CompressionZstd
	} else {
		row.OldValues = oldJSON
		row.NewValues = newJSON
	}

	sql := `
		INSERT INTO audit_logs (
			id, action, entity_type, entity_id, description,
			old_values, new_values, changes_compressed, compression_algo,
			branch_id, actor_id, actor_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		row.ID, row.Action, row.EntityType, row.EntityID, row.Description,
		row.OldValues, row.NewValues, row.ChangesCompressed, row.CompressionAlgo,
		row.BranchID, row.ActorID, row.ActorName, row.CreatedAt,
	)
	return err
}

// List retrieves audit entries matching the filter, newest first.
func (s *AuditService) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	q := squirrel.Select(
		"id", "action", "entity_type", "entity_id", "description",
		"old_values", "new_values", "changes_compressed", "compression_algo",
		"branch_id", "actor_id", "actor_name", "created_at",
	).
		From("audit_logs").
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("created_at DESC")

	if filter.EntityType != "" {
		q = q.Where(squirrel.Eq{"entity_type": filter.EntityType})
	}
	if filter.EntityID != nil {
		q = q.Where(squirrel.Eq{"entity_id": *filter.EntityID})
	}
	if filter.Action != "" {
		q = q.Where(squirrel.Eq{"action": string(filter.Action)})
	}
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.To})
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	q = q.Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var r auditRow
		if err := rows.Scan(
			&r.ID, &r.Action, &r.EntityType, &r.EntityID, &r.Description,
			&r.OldValues, &r.NewValues, &r.ChangesCompressed, &r.CompressionAlgo,
			&r.BranchID, &r.ActorID, &r.ActorName, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}

		entry := audit.Entry{
			Action:      audit.Action(r.Action),
			EntityType:  r.EntityType,
			EntityID:    r.EntityID,
			Description: r.Description,
			BranchID:    r.BranchID,
			OccurredAt:  r.CreatedAt,
		}

		if r.CompressionAlgo == CompressionZstd && len(r.ChangesCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(r.ChangesCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress changes: %w", err)
			}
			var changes compressedChanges
			if err := json.Unmarshal(decompressed, &changes); err != nil {
				return nil, fmt.Errorf("unmarshal changes: %w", err)
			}
			entry.OldValues = changes.Old
			entry.NewValues = changes.New
		} else {
			if len(r.OldValues) > 0 {
				_ = json.Unmarshal(r.OldValues, &entry.OldValues)
			}
			if len(r.NewValues) > 0 {
				_ = json.Unmarshal(r.NewValues, &entry.NewValues)
			}
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func marshalChanges(entry audit.Entry) (oldJSON, newJSON json.RawMessage, err error) {
	if entry.OldValues != nil {
		oldJSON, err = json.Marshal(entry.OldValues)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal old values: %w", err)
		}
	}
	if entry.NewValues != nil {
		newJSON, err = json.Marshal(entry.NewValues)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal new values: %w", err)
		}
	}
	return oldJSON, newJSON, nil
}

// Diff calculates the difference between old and new entity states.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !equal(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

func equal(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
