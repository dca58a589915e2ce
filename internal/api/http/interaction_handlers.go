package http

import (
	"encoding/json"
	"net/http"

	"github.com/quizfunnel/quizfunnel/internal/analytics"
)

// TrackInteractionHandler logs a view/click on a recommended item.
func TrackInteractionHandler(rec *analytics.SQLRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID int64  `json:"quiz_id"`
			ItemID int64  `json:"item_id"`
			Kind   string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.Kind != analytics.InteractionView && req.Kind != analytics.InteractionClick {
			http.Error(w, "kind must be view or click", 400)
			return
		}
		if req.QuizID == 0 || req.ItemID == 0 {
			http.Error(w, "quiz_id and item_id required", 400)
			return
		}
		if err := rec.RecordInteraction(r.Context(), req.QuizID, req.ItemID, req.Kind); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
