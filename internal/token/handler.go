package token

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"embedchat/pkg/problems"
)

// RegisterRoutes mounts the token exchange endpoint.
// POST /v1/widget/token  body: { secret }
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/v1/widget/token", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Secret string `json:"secret"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)

		grant, err := svc.Issue(req.Context(), body.Secret, RequestOrigin(req))
		switch {
		case errors.Is(err, ErrMissingCredential):
			problems.Write(w, http.StatusBadRequest, "missing-secret", "Missing credential", "secret is required")
			return
		case errors.Is(err, ErrUnauthorized):
			problems.Write(w, http.StatusForbidden, "unauthorized", "Unauthorized", "secret or origin not authorized")
			return
		case err != nil:
			problems.Write(w, http.StatusInternalServerError, "token-issuance", "Token issuance failed", "could not issue token")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    grant.Token,
			"expireAt": grant.ExpireAt.UTC().Format(time.RFC3339),
		})
	})
}

// RequestOrigin derives the embedding page's origin (scheme+host) from the
// inbound request. Proxies set X-Forwarded-Proto; direct TLS otherwise.
func RequestOrigin(r *http.Request) string {
	proto := r.Header.Get("X-Forwarded-Proto")
	if i := strings.Index(proto, ","); i > 0 {
		proto = proto[:i]
	}
	proto = strings.TrimSpace(proto)
	if proto == "" {
		if r.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	return proto + "://" + r.Host
}
