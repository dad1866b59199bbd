// Package recorder keeps a sqlite history of every state written by the host.
package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"darksky-sensors/host"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const schema = `
create table if not exists states (
	id           integer primary key autoincrement,
	entity_id    text    not null,
	state        text    not null,
	attributes   text    not null,
	last_changed integer not null,
	last_updated integer not null,
	context_id   text    not null
);
create index if not exists ix_states_entity_id_last_updated on states (entity_id, last_updated)`

const insertState = `
insert into states (entity_id, state, attributes, last_changed, last_updated, context_id)
values (:entity_id, :state, :attributes, :last_changed, :last_updated, :context_id)`

const selectHistory = `
select entity_id, state, attributes, last_changed, last_updated, context_id
from states
where entity_id = ?
order by last_updated desc, id desc
limit ?`

type stateRow struct {
	EntityID    string `db:"entity_id"`
	State       string `db:"state"`
	Attributes  string `db:"attributes"`
	LastChanged int64  `db:"last_changed"`
	LastUpdated int64  `db:"last_updated"`
	ContextID   string `db:"context_id"`
}

// Recorder is a host.StateWriter backed by sqlite
type Recorder struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

var _ host.StateWriter = (*Recorder)(nil)

// Open opens (or creates) the database at path
func Open(path string, logger *logrus.Logger) (*Recorder, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recorder database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create recorder schema: %w", err)
	}

	return &Recorder{
		db:     db,
		logger: logger.WithFields(logrus.Fields{"component": "recorder", "path": path}),
	}, nil
}

// Close closes the database
func (r *Recorder) Close() error {
	return r.db.Close()
}

// WriteState appends state to the history
func (r *Recorder) WriteState(ctx context.Context, state host.State) error {
	attrs, err := json.Marshal(state.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes of %s: %w", state.EntityID, err)
	}

	row := stateRow{
		EntityID:    state.EntityID,
		State:       state.State,
		Attributes:  string(attrs),
		LastChanged: state.LastChanged.UnixNano(),
		LastUpdated: state.LastUpdated.UnixNano(),
		ContextID:   state.Context.ID,
	}
	if _, err := r.db.NamedExecContext(ctx, insertState, row); err != nil {
		return fmt.Errorf("failed to record state of %s: %w", state.EntityID, err)
	}
	return nil
}

// History returns up to limit states of entityID, newest first
func (r *Recorder) History(ctx context.Context, entityID string, limit int) ([]host.State, error) {
	var rows []stateRow
	if err := r.db.SelectContext(ctx, &rows, selectHistory, entityID, limit); err != nil {
		return nil, fmt.Errorf("failed to load history of %s: %w", entityID, err)
	}

	states := make([]host.State, 0, len(rows))
	for _, row := range rows {
		var attrs map[string]any
		if err := json.Unmarshal([]byte(row.Attributes), &attrs); err != nil {
			return nil, fmt.Errorf("failed to decode attributes of %s: %w", entityID, err)
		}
		states = append(states, host.State{
			EntityID:    row.EntityID,
			State:       row.State,
			Attributes:  attrs,
			LastChanged: time.Unix(0, row.LastChanged).UTC(),
			LastUpdated: time.Unix(0, row.LastUpdated).UTC(),
			Context:     host.Context{ID: row.ContextID},
		})
	}
	return states, nil
}

// Purge deletes states last updated before the cutoff and returns the number removed
func (r *Recorder) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `delete from states where last_updated < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge states: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	r.logger.WithFields(logrus.Fields{"removed": n, "before": before.Format(time.RFC3339)}).Info("purged old states")
	return n, nil
}

// StartPurge deletes states older than keepDays once a day until ctx is done
func (r *Recorder) StartPurge(ctx context.Context, keepDays int) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -keepDays)
				if _, err := r.Purge(ctx, cutoff); err != nil {
					r.logger.WithError(err).Error("purge failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
