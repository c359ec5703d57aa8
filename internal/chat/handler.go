// internal/chat/handler.go
package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"embedchat/internal/token"
	"embedchat/pkg/problems"
)

// RegisterRoutes mounts the query endpoint. Callers must already hold a
// verified bearer token (token.RequireBearer runs ahead of this route).
// POST /v1/widget/query  body: { query }
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/v1/widget/query", func(w http.ResponseWriter, req *http.Request) {
		started := time.Now()
		cl, ok := token.ClaimsFrom(req.Context())
		if !ok {
			http.Error(w, "missing bearer", http.StatusUnauthorized)
			return
		}
		var body struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		if strings.TrimSpace(body.Query) == "" {
			svc.RecordUsage(req.Context(), cl, http.StatusBadRequest, started)
			problems.Write(w, http.StatusBadRequest, "missing-query", "Missing query", "query is required")
			return
		}
		answer, err := svc.Answer(req.Context(), cl, body.Query)
		if err != nil {
			svc.RecordUsage(req.Context(), cl, http.StatusForbidden, started)
			problems.Write(w, http.StatusForbidden, "unauthorized", "Unauthorized", "app no longer available")
			return
		}
		svc.RecordUsage(req.Context(), cl, http.StatusOK, started)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"answer": answer})
	})
}
