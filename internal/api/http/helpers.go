package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/quizfunnel/quizfunnel/internal/engine"
	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeEngineError maps the engine taxonomy onto HTTP. Navigation no-ops
// are handled by the individual handlers (they are flags, not failures).
func writeEngineError(w http.ResponseWriter, err error) {
	var ve *engine.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errBody{Error: ve.Reason, Field: ve.Field})
		return
	}
	var de *engine.DefinitionError
	if errors.As(err, &de) {
		// Corrupt authoring data: abort the session, surface verbatim.
		log.Printf("definition error: %v", de)
		writeJSON(w, http.StatusInternalServerError, errBody{Error: de.Error()})
		return
	}
	if errors.Is(err, engine.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, errBody{Error: "session not found"})
		return
	}
	if errors.Is(err, quiz.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errBody{Error: "quiz not found"})
		return
	}
	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errBody{Error: "internal error"})
}
