package postgres

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"greenbook/internal/core/id"
	"greenbook/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used for the
// detail payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditSink implements audit.Sink on PostgreSQL. Large detail payloads
// (a batch of events renders a long line) are zstd-compressed.
type AuditSink struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewAuditSink creates a durable audit sink.
func NewAuditSink(txManager *TxManager) (*AuditSink, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditSink{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// Record inserts one audit entry. Runs outside the caller's transaction:
// audit happens after commit and must not prolong it.
func (s *AuditSink) Record(ctx context.Context, entry audit.Entry) error {
	detail := []byte(entry.Detail)
	var detailCompressed []byte
	algo := CompressionNone
	if len(detail) > s.compressThreshold {
		detailCompressed = s.encoder.EncodeAll(detail, nil)
		detail = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO audit_log (
			id, actor, action, detail, detail_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		id.New(), entry.Actor, entry.Action,
		detail, detailCompressed, string(algo), entry.At,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// History returns the most recent audit entries, newest first,
// decompressing details where needed.
func (s *AuditSink) History(ctx context.Context, limit int) ([]audit.Entry, error) {
	sql := `
		SELECT actor, action, detail, detail_compressed, compression_algo, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var detail, compressed []byte
		var algo string
		if err := rows.Scan(&e.Actor, &e.Action, &detail, &compressed, &algo, &e.At); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if CompressionAlgo(algo) == CompressionZstd && len(compressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress detail: %w", err)
			}
			detail = decompressed
		}
		e.Detail = string(detail)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Ensure interface compliance.
var _ audit.Sink = (*AuditSink)(nil)
