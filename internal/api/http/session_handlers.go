package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizfunnel/quizfunnel/internal/engine"
	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

type stepBody struct {
	SessionID string         `json:"session_id"`
	Question  *quiz.Question `json:"question,omitempty"`
	Completed bool           `json:"completed"`
	AtStart   bool           `json:"at_start,omitempty"`
}

func toStepBody(s engine.Step) stepBody {
	return stepBody{
		SessionID: s.State.ID,
		Question:  s.Question,
		Completed: s.State.Completed,
	}
}

func StartSessionHandler(ctrl *engine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID int64 `json:"quiz_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.QuizID == 0 {
			http.Error(w, "quiz_id required", 400)
			return
		}
		step, err := ctrl.Start(r.Context(), req.QuizID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStepBody(step))
	}
}

func SubmitAnswerHandler(ctrl *engine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			QuestionID int64            `json:"question_id"`
			Answer     engine.RawAnswer `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.QuestionID == 0 {
			http.Error(w, "question_id required", 400)
			return
		}
		step, err := ctrl.SubmitAnswer(r.Context(), id, req.QuestionID, req.Answer)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStepBody(step))
	}
}

func AdvanceHandler(ctrl *engine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		step, err := ctrl.Advance(r.Context(), id)
		if err != nil {
			var ne *engine.NavigationError
			if errors.As(err, &ne) {
				if ne.AtEnd {
					// Advancing a finished session is a flagged no-op.
					body := toStepBody(step)
					body.Completed = true
					writeJSON(w, http.StatusOK, body)
					return
				}
				// Traversal guard tripped: the rule graph is looping.
				writeJSON(w, http.StatusConflict, errBody{Error: ne.Reason})
				return
			}
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStepBody(step))
	}
}

func RetreatHandler(ctrl *engine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		step, err := ctrl.Retreat(r.Context(), id)
		if err != nil {
			var ne *engine.NavigationError
			if errors.As(err, &ne) && ne.AtStart {
				body := toStepBody(step)
				body.AtStart = true
				writeJSON(w, http.StatusOK, body)
				return
			}
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStepBody(step))
	}
}

func CompleteHandler(ctrl *engine.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		res, err := ctrl.Complete(r.Context(), id)
		if err != nil {
			var ce *engine.CatalogError
			if errors.As(err, &ce) {
				// Degraded result: serve what was confirmed, log the rest.
				log.Printf("complete %s: %v", id, ce)
				writeJSON(w, http.StatusOK, res)
				return
			}
			var ne *engine.NavigationError
			if errors.As(err, &ne) {
				writeJSON(w, http.StatusConflict, errBody{Error: ne.Reason})
				return
			}
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
