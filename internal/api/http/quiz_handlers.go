package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quizfunnel/quizfunnel/internal/engine"
	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

// UploadQuizHandler upserts a full definition. The quiz is compiled
// first so corrupt authoring data is rejected at the door instead of
// surfacing mid-session.
func UploadQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if q.ID == 0 {
			http.Error(w, "quiz id required", 400)
			return
		}
		if _, err := engine.Compile(q); err != nil {
			writeEngineError(w, err)
			return
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"id": q.ID})
	}
}

// GetQuizHandler serves the respondent-safe projection: questions,
// options and branching rules, but never the recommendation weights
// (the scoring table is the quiz's answer key).
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "quizID"), 10, 64)
		if err != nil {
			http.Error(w, "bad quiz id", 400)
			return
		}
		q, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		q.Weights = nil
		writeJSON(w, http.StatusOK, q)
	}
}

// PutWeightHandler upserts one recommendation weight atomically.
func PutWeightHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var wt quiz.Weight
		if err := json.NewDecoder(r.Body).Decode(&wt); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if wt.OptionID == 0 || wt.TargetID == 0 {
			http.Error(w, "option_id and target_id required", 400)
			return
		}
		if wt.TargetKind != quiz.TargetItem && wt.TargetKind != quiz.TargetCategory {
			http.Error(w, "target_kind must be item or category", 400)
			return
		}
		if err := store.PutWeight(r.Context(), wt); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
