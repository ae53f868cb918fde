package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	corecontext "cuentas/internal/core/context"
	"cuentas/internal/core/id"
	"cuentas/internal/domain/audit"
	"cuentas/pkg/logger"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditRecord is the stored shape of one audit trail event. Large payloads
// (full document state including the payment table) are zstd-compressed.
type AuditRecord struct {
	ID                id.ID           `db:"id"`
	EntityID          id.ID           `db:"entity_id"`
	Action            audit.Action    `db:"action"`
	UserID            string          `db:"user_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	Details           json.RawMessage `db:"details"`
	CreatedAt         time.Time       `db:"created_at"`
}

// Compile-time check that AuditService implements audit.Recorder.
var _ audit.Recorder = (*AuditService)(nil)

// AuditService persists audit events. A failed write never fails the
// business operation; it is logged and dropped.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

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
		compressThreshold: 10 * 1024,
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditService) Record(ctx context.Context, event audit.Event) {
	record := AuditRecord{
		ID:       event.ID,
		EntityID: event.EntityID,
		Action:   event.Action,
		UserID:   event.UserID,
	}

	if record.UserID == "" {
		record.UserID = corecontext.GetUserID(ctx)
	}
	if id.IsNil(record.ID) {
		record.ID = id.New()
	}
	record.CreatedAt = event.At
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			logger.Error(ctx, "audit payload marshal failed", "action", event.Action, "error", err)
			return
		}
		record.Payload = payload
	}

	if event.Details != nil {
		details, err := json.Marshal(event.Details)
		if err != nil {
			logger.Error(ctx, "audit details marshal failed", "action", event.Action, "error", err)
			return
		}
		record.Details = details
	}

	record.CompressionAlgo = CompressionNone
	if len(record.Payload) > s.compressThreshold {
		record.PayloadCompressed = s.encoder.EncodeAll(record.Payload, nil)
		record.Payload = nil
		record.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO audit_log (
			id, entity_id, action, user_id,
			payload, payload_compressed, compression_algo, details,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		record.ID, record.EntityID, record.Action, record.UserID,
		record.Payload, record.PayloadCompressed, record.CompressionAlgo,
		record.Details, record.CreatedAt,
	)
	if err != nil {
		logger.Error(ctx, "audit write failed",
			"entity_id", record.EntityID,
			"action", record.Action,
			"error", err)
	}
}

// GetEntityHistory retrieves the audit trail for an entity, newest first.
// Compressed payloads are transparently decompressed.
func (s *AuditService) GetEntityHistory(ctx context.Context, entityID id.ID, limit int) ([]AuditRecord, error) {
	sql := `
		SELECT id, entity_id, action, user_id,
			   payload, payload_compressed, compression_algo, details,
			   created_at
		FROM audit_log
		WHERE entity_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []AuditRecord
	for rows.Next() {
		var r AuditRecord
		err := rows.Scan(
			&r.ID, &r.EntityID, &r.Action, &r.UserID,
			&r.Payload, &r.PayloadCompressed, &r.CompressionAlgo, &r.Details,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		if r.CompressionAlgo == CompressionZstd && len(r.PayloadCompressed) > 0 {
			payload, err := s.decoder.DecodeAll(r.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			r.Payload = payload
			r.PayloadCompressed = nil
		}

		records = append(records, r)
	}

	return records, rows.Err()
}
