package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	rj, err := json.Marshal(q.Rules)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO quizzes (id,title,questions_json,rules_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json, rules_json=EXCLUDED.rules_json`,
		q.ID, q.Title, string(qj), string(rj), time.Now().Unix())
	if err != nil {
		return err
	}

	// Replace the quiz's weight rows wholesale: stale mappings from removed
	// options must not keep contributing to scores.
	if ids := optionIDs(q); len(ids) > 0 {
		del := fmt.Sprintf(`DELETE FROM weights WHERE option_id IN (%s)`, placeholders(len(ids)))
		if _, err := tx.ExecContext(ctx, del, ids...); err != nil {
			return err
		}
	}
	for _, w := range q.Weights {
		if err := upsertWeight(ctx, tx, w); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetQuiz(ctx context.Context, id int64) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,questions_json,rules_json,created_at FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var qjson, rjson string
	if err := row.Scan(&q.ID, &q.Title, &qjson, &rjson, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(rjson), &q.Rules); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// PutWeight is a single atomic upsert. The original system did a read
// then insert-or-update, which races under concurrent edits.
func (s *SQLStore) PutWeight(ctx context.Context, w Weight) error {
	return upsertWeight(ctx, s.db, w)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertWeight(ctx context.Context, db execer, w Weight) error {
	_, err := db.ExecContext(ctx, `INSERT INTO weights (option_id,target_kind,target_id,weight)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (option_id,target_kind,target_id) DO UPDATE SET weight=EXCLUDED.weight`,
		w.OptionID, w.TargetKind, w.TargetID, ClampWeight(w.Weight))
	return err
}

func (s *SQLStore) WeightsForOptions(ctx context.Context, optionIDs []int64) ([]Weight, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(optionIDs))
	for i, id := range optionIDs {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT option_id,target_kind,target_id,weight FROM weights WHERE option_id IN (%s)`,
		placeholders(len(optionIDs)))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Weight
	for rows.Next() {
		var w Weight
		if err := rows.Scan(&w.OptionID, &w.TargetKind, &w.TargetID, &w.Weight); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func optionIDs(q Quiz) []any {
	var out []any
	for _, question := range q.Questions {
		for _, o := range question.Options {
			out = append(out, o.ID)
		}
	}
	return out
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ",")
}
