package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brew_control"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

const (
	brewStatusRowID = 1

	upsertStatusSQL = `
		INSERT INTO brew_status (id, tick, brew_status, active_step, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tick=excluded.tick,
			brew_status=excluded.brew_status,
			active_step=excluded.active_step,
			payload=excluded.payload,
			updated_at=excluded.updated_at
	`

	selectStatusSQL = `SELECT payload FROM brew_status WHERE id=?`
)

// Save upserts the single brew_status row. The full snapshot is stored as
// JSON; tick, brew status and active step are duplicated into columns for
// ad-hoc queries.
func (r *StatusSQLite) Save(ctx context.Context, st brew_control.Status) error {
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	} else {
		st.UpdatedAt = st.UpdatedAt.UTC()
	}

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	_, err = r.db.ExecContext(ctx, upsertStatusSQL,
		brewStatusRowID,
		int64(st.Tick),
		string(st.Sequencer.Status),
		st.Sequencer.ActiveStep,
		string(payload),
		st.UpdatedAt,
	)
	return err
}

// Load returns the saved snapshot, or a zero Status if none was saved yet.
func (r *StatusSQLite) Load(ctx context.Context) (brew_control.Status, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, selectStatusSQL, brewStatusRowID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return brew_control.Status{}, nil
		}
		return brew_control.Status{}, err
	}

	var st brew_control.Status
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return brew_control.Status{}, fmt.Errorf("decode status payload: %w", err)
	}
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, nil
}
