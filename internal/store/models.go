package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/wire"
)

// Summary describes one stored model.
type Summary struct {
	ID          string `json:"id"`
	UID         string `json:"uid"`
	Description string `json:"description"`
	StartDate   int64  `json:"startDate"`
	RunDays     int64  `json:"runDays"`
	Revisions   int64  `json:"revisions"`
	Hash        string `json:"hash"`
}

// Revision is one saved version of a model.
type Revision struct {
	Number int64  `json:"revision"`
	Hash   string `json:"hash"`
}

// Save stores snap under id, assigning a new id when id is empty, and
// returns the id. A result section on snap is not stored.
//
// Saving content identical to the model's latest revision is a no-op.
func (s *Store) Save(ctx context.Context, id string, snap wire.Snapshot) (string, error) {
	snap.Result = nil
	payload, err := model.MarshalCanonical(snap)
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	hash, err := snap.Hash()
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	if id == "" {
		id = s.newID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", id, err)
	}
	defer tx.Rollback()

	var head int64
	var headHash string
	err = tx.QueryRowContext(ctx, `
		SELECT m.head, r.content_hash
		FROM models m JOIN revisions r ON r.model_id = m.id AND r.revision = m.head
		WHERE m.id = ?
	`, id).Scan(&head, &headHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return "", fmt.Errorf("save %s: read head: %w", id, err)
	case headHash == hash:
		s.logger.Debug("save unchanged", "id", id, "revision", head, "hash", hash)
		return id, nil
	}

	var meta model.ModelMetaData
	if snap.ModelMetaData != nil {
		meta = *snap.ModelMetaData
	}
	next := head + 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO models (id, uid, description, start_date, run_days, head)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uid = excluded.uid,
			description = excluded.description,
			start_date = excluded.start_date,
			run_days = excluded.run_days,
			head = excluded.head
	`, id, meta.UID, meta.Description, meta.StartDate, meta.RunDays, next)
	if err != nil {
		return "", fmt.Errorf("save %s: write model: %w", id, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO revisions (model_id, revision, content_hash, payload)
		VALUES (?, ?, ?, ?)
	`, id, next, hash, string(payload))
	if err != nil {
		return "", fmt.Errorf("save %s: write revision: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save %s: commit: %w", id, err)
	}
	s.logger.Debug("model saved", "id", id, "revision", next, "hash", hash)
	return id, nil
}

// Load returns the latest revision of a model.
func (s *Store) Load(ctx context.Context, id string) (wire.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT r.payload
		FROM models m JOIN revisions r ON r.model_id = m.id AND r.revision = m.head
		WHERE m.id = ?
	`, id).Scan(&payload)
	return decodePayload(id, payload, err)
}

// LoadRevision returns a specific revision of a model.
func (s *Store) LoadRevision(ctx context.Context, id string, revision int64) (wire.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM revisions WHERE model_id = ? AND revision = ?
	`, id, revision).Scan(&payload)
	return decodePayload(id, payload, err)
}

func decodePayload(id, payload string, err error) (wire.Snapshot, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return wire.Snapshot{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return wire.Snapshot{}, fmt.Errorf("load %s: %w", id, err)
	}
	snap, err := wire.Decode([]byte(payload))
	if err != nil {
		return wire.Snapshot{}, fmt.Errorf("load %s: %w", id, err)
	}
	return snap, nil
}

// List returns every stored model ordered by id.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.uid, m.description, m.start_date, m.run_days, m.head, r.content_hash
		FROM models m JOIN revisions r ON r.model_id = m.id AND r.revision = m.head
		ORDER BY m.id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.UID, &sum.Description, &sum.StartDate, &sum.RunDays, &sum.Revisions, &sum.Hash); err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return summaries, nil
}

// Revisions lists a model's revisions, oldest first.
func (s *Store) Revisions(ctx context.Context, id string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT revision, content_hash FROM revisions
		WHERE model_id = ?
		ORDER BY revision ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("revisions %s: %w", id, err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.Number, &r.Hash); err != nil {
			return nil, fmt.Errorf("revisions %s: %w", id, err)
		}
		revs = append(revs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revisions %s: %w", id, err)
	}
	if len(revs) == 0 {
		return nil, fmt.Errorf("revisions %s: %w", id, ErrNotFound)
	}
	return revs, nil
}

// FindByHash returns the ids of models whose latest revision has the given
// content hash, ordered by id.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id
		FROM revisions r JOIN models m ON m.id = r.model_id AND m.head = r.revision
		WHERE r.content_hash = ?
		ORDER BY m.id ASC COLLATE BINARY
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("find by hash: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
