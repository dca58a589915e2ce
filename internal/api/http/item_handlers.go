package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quizfunnel/quizfunnel/internal/catalog"
)

// ItemWriter is the write half of the catalog, used by the sync endpoint.
type ItemWriter interface {
	PutItem(ctx context.Context, it catalog.Item) error
}

// UpsertItemHandler ingests one catalog item. The storefront pushes its
// products here so recommendations can be confirmed without calling back
// into the shop on every completion.
func UpsertItemHandler(store ItemWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			catalog.Item
			Visible *bool `json:"visible"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.ID == 0 || req.Name == "" {
			http.Error(w, "id and name required", 400)
			return
		}
		it := req.Item
		// Item's Visible field is excluded from JSON on the read side, so
		// take it from the explicit request field; absent means visible.
		it.Visible = req.Visible == nil || *req.Visible
		if err := store.PutItem(r.Context(), it); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
