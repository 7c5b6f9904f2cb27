package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"brew_control/internal/models"

	"github.com/google/uuid"
)

// sqliteTimestamp is how occurred_at is written and compared.
const sqliteTimestamp = "2006-01-02 15:04:05"

const selectEventsSQL = `SELECT id, occurred_at, type, message, meta FROM brew_events`

// EventQuery selects a slice of the brew log. Zero fields do not filter.
type EventQuery struct {
	From  time.Time // inclusive
	To    time.Time // inclusive
	Type  string
	Limit int // keep only the newest Limit events
}

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event. EventID and OccurredAt are filled in when
// empty.
func (r *EventSQLite) Append(ctx context.Context, e models.BrewEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	var meta *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			meta = &s
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO brew_events (id, occurred_at, type, message, meta) VALUES (?, ?, ?, ?, ?)`,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimestamp),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", e.Type, err)
	}
	return nil
}

// List returns matching events oldest first. With a Limit the newest
// events win and the result is still oldest first.
func (r *EventSQLite) List(ctx context.Context, q EventQuery) ([]models.BrewEvent, error) {
	query, args := buildEventQuery(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]models.BrewEvent, 0, 64)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	if q.Limit > 0 {
		slices.Reverse(out)
	}
	return out, nil
}

func buildEventQuery(q EventQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.From.UTC().Format(sqliteTimestamp))
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, q.To.UTC().Format(sqliteTimestamp))
	}
	if typ := strings.ToUpper(strings.TrimSpace(q.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	var b strings.Builder
	b.WriteString(selectEventsSQL)
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	if q.Limit > 0 {
		b.WriteString(" ORDER BY occurred_at DESC, rowid DESC LIMIT ?")
		args = append(args, q.Limit)
	} else {
		b.WriteString(" ORDER BY occurred_at ASC, rowid ASC")
	}
	return b.String(), args
}

func scanEvent(rows *sql.Rows) (models.BrewEvent, error) {
	var (
		ev   models.BrewEvent
		meta sql.NullString
	)
	if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
		return models.BrewEvent{}, fmt.Errorf("scan event: %w", err)
	}
	ev.OccurredAt = ev.OccurredAt.UTC()
	if meta.Valid && meta.String != "" {
		var v any
		if err := json.Unmarshal([]byte(meta.String), &v); err == nil {
			ev.Metadata = v
		} else {
			ev.Metadata = meta.String
		}
	}
	return ev, nil
}
