package analytics

import (
	"context"
	"database/sql"
	"time"

	"github.com/quizfunnel/quizfunnel/internal/engine"
)

// Interaction kinds on recommended items.
const (
	InteractionView  = "view"
	InteractionClick = "click"
)

// SQLRecorder persists quiz performance counters, the response log and
// result interactions. Counter bumps are single atomic upserts; the
// source system's read-then-write pattern lost increments under load.
type SQLRecorder struct {
	db *sql.DB
}

func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

func (s *SQLRecorder) QuizStarted(ctx context.Context, quizID int64) error {
	return s.bump(ctx, quizID, "starts", 1, 0)
}

func (s *SQLRecorder) QuizCompleted(ctx context.Context, quizID int64) error {
	return s.bump(ctx, quizID, "completions", 0, 1)
}

func (s *SQLRecorder) bump(ctx context.Context, quizID int64, column string, starts, completions int) error {
	// column is one of two fixed names, never user input.
	_, err := s.db.ExecContext(ctx, `INSERT INTO quiz_performance (quiz_id,starts,completions,updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (quiz_id) DO UPDATE SET `+column+`=quiz_performance.`+column+`+1, updated_at=EXCLUDED.updated_at`,
		quizID, starts, completions, time.Now().Unix())
	return err
}

func (s *SQLRecorder) LogResponses(ctx context.Context, sessionID string, quizID int64, email string, answers map[int64]engine.Answer) error {
	now := time.Now().Unix()
	for questionID, a := range answers {
		switch {
		case a.OptionID != 0:
			if err := s.insertResponse(ctx, sessionID, quizID, questionID, a.OptionID, "", email, now); err != nil {
				return err
			}
		case len(a.OptionIDs) > 0:
			for _, id := range a.OptionIDs {
				if err := s.insertResponse(ctx, sessionID, quizID, questionID, id, "", email, now); err != nil {
					return err
				}
			}
		case a.Text != "":
			if err := s.insertResponse(ctx, sessionID, quizID, questionID, 0, a.Text, email, now); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SQLRecorder) insertResponse(ctx context.Context, sessionID string, quizID, questionID, optionID int64, text, email string, now int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO responses (session_id,quiz_id,question_id,option_id,custom_answer,email,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		sessionID, quizID, questionID, optionID, text, email, now)
	return err
}

// RecordInteraction logs a view/click on a recommended item.
func (s *SQLRecorder) RecordInteraction(ctx context.Context, quizID, itemID int64, kind string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO result_interactions (quiz_id,item_id,kind,created_at)
		VALUES ($1,$2,$3,$4)`,
		quizID, itemID, kind, time.Now().Unix())
	return err
}
