package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/meschbach/tradeingest/pkg/store"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store is a single connection session against PostgreSQL.
type Store struct {
	conn *pgx.Conn
}

var _ store.Store = (*Store)(nil)

// Connect opens the session described by url and verifies it responds.
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Describe reports the user, host and database of the session.
func (s *Store) Describe() string {
	cfg := s.conn.Config()
	return fmt.Sprintf("user=%s host=%s database=%s", cfg.User, cfg.Host, cfg.Database)
}

func failSpan(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

func (s *Store) BulkWrite(parent context.Context, trades []model.Trade) error {
	ctx, span := tracer.Start(parent, "BulkWrite", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("tradeingest.count", len(trades))))
	defer span.End()

	source := pgx.CopyFromSlice(len(trades), func(i int) ([]any, error) {
		return tradeArgs(trades[i]), nil
	})
	copied, err := s.conn.CopyFrom(ctx, pgx.Identifier{store.Extent}, tradeColumns, source)
	if err != nil {
		failSpan(span, err, "copy failed")
		return store.Wrap(store.OpBulkWrite, err)
	}
	if copied != int64(len(trades)) {
		err := fmt.Errorf("copied %d of %d trades", copied, len(trades))
		failSpan(span, err, "short copy")
		return store.Wrap(store.OpBulkWrite, err)
	}
	return nil
}

// Query declares an updatable cursor inside a new transaction.  The transaction ends when the cursor is closed.
func (s *Store) Query(parent context.Context, threshold decimal.Decimal) (store.Cursor, error) {
	ctx, span := tracer.Start(parent, "Query", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("tradeingest.threshold", threshold.String())))
	defer span.End()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		failSpan(span, err, "begin failed")
		return nil, store.Wrap(store.OpQuery, err)
	}
	if _, err := tx.Exec(ctx, declareCursorSQL, toNumeric(threshold)); err != nil {
		failSpan(span, err, "declare failed")
		return nil, store.Wrap(store.OpQuery, errors.Join(err, tx.Rollback(ctx)))
	}
	return &cursor{tx: tx}, nil
}

func (s *Store) PrepareInsert(parent context.Context) (store.BatchStatement, error) {
	ctx, span := tracer.Start(parent, "PrepareInsert", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if _, err := s.conn.Prepare(ctx, insertStatementID, insertSQL); err != nil {
		failSpan(span, err, "prepare failed")
		return nil, store.Wrap(store.OpPrepare, err)
	}
	return &batchStatement{conn: s.conn, batch: &pgx.Batch{}}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// Exec runs DDL or maintenance statements outside the trade operations.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := s.conn.Exec(ctx, sql, args...)
	return err
}

// Count reports the number of stored trades.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var out int64
	err := s.conn.QueryRow(ctx, "SELECT count(*) FROM "+store.Extent).Scan(&out)
	return out, err
}
