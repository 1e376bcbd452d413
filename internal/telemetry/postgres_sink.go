package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresSink persists telemetry events for later triage
type PostgresSink struct {
	db *sqlx.DB
}

// NewPostgresSink creates a PostgreSQL-backed reporter
func NewPostgresSink(db *sqlx.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// OpenPostgresSink connects to the given DSN and prepares the schema
func OpenPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	sink := NewPostgresSink(db)
	if err := sink.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return sink, nil
}

// EnsureSchema creates the telemetry table if it does not exist
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS upload_telemetry (
			id          UUID PRIMARY KEY,
			action      TEXT NOT NULL,
			file_name   TEXT,
			file_size   BIGINT,
			tier        TEXT,
			code        TEXT,
			message     TEXT,
			metadata    JSONB,
			occurred_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

type eventRecord struct {
	ID         string    `db:"id"`
	Action     string    `db:"action"`
	FileName   string    `db:"file_name"`
	FileSize   int64     `db:"file_size"`
	Tier       string    `db:"tier"`
	Code       string    `db:"code"`
	Message    string    `db:"message"`
	Metadata   []byte    `db:"metadata"`
	OccurredAt time.Time `db:"occurred_at"`
}

// Report inserts the event
func (s *PostgresSink) Report(ctx context.Context, event Event) error {
	meta, err := json.Marshal(event.Metadata)
	if err != nil {
		meta = []byte("{}")
	}
	record := eventRecord{
		ID:         event.ID,
		Action:     event.Action,
		FileName:   event.FileName,
		FileSize:   event.FileSize,
		Tier:       event.Tier,
		Code:       event.Code,
		Message:    event.Message,
		Metadata:   meta,
		OccurredAt: event.OccurredAt,
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO upload_telemetry (
			id, action, file_name, file_size, tier, code, message, metadata, occurred_at
		) VALUES (
			:id, :action, :file_name, :file_size, :tier, :code, :message, :metadata, :occurred_at
		)
	`, record)
	return err
}

// Close releases the underlying connection pool
func (s *PostgresSink) Close() error {
	return s.db.Close()
}
