package token

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"embedchat/pkg/apps"
)

func newTestRouter(t *testing.T) (chi.Router, *Codec) {
	t.Helper()
	codec, err := NewCodec("handler-test-secret", time.Minute)
	require.NoError(t, err)
	dir := &fakeDir{bySecret: map[string]apps.App{"s1": testApp}}
	svc := NewService(dir, codec, NewMemoryCache(), zap.NewNop().Sugar())

	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	r.Group(func(gr chi.Router) {
		gr.Use(RequireBearer(codec))
		gr.Post("/v1/widget/query", func(w http.ResponseWriter, req *http.Request) {
			cl, _ := ClaimsFrom(req.Context())
			w.Write([]byte(cl.AppID))
		})
	})
	return r, codec
}

func postToken(r chi.Router, host, proto, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/widget/token", bytes.NewBufferString(body))
	req.Host = host
	req.Header.Set("X-Forwarded-Proto", proto)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTokenEndpointIssuesForAuthorizedOrigin(t *testing.T) {
	r, codec := newTestRouter(t)

	rec := postToken(r, "a.com", "https", `{"secret":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token    string `json:"token"`
		ExpireAt string `json:"expireAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	expireAt, err := time.Parse(time.RFC3339, out.ExpireAt)
	require.NoError(t, err)
	assert.True(t, expireAt.After(time.Now()))

	cl, ok := codec.Verify(out.Token)
	require.True(t, ok)
	assert.Equal(t, "T1", cl.AppID)
	assert.Equal(t, "https://a.com", cl.AuthorizedOrigin)
}

func TestTokenEndpointRejectsForeignOrigin(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := postToken(r, "b.com", "https", `{"secret":"s1"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestTokenEndpointRejectsMissingSecret(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := postToken(r, "a.com", "https", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBearerMiddleware(t *testing.T) {
	r, codec := newTestRouter(t)
	tok, _, err := codec.Mint(testApp)
	require.NoError(t, err)

	post := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/widget/query", bytes.NewBufferString(`{"query":"hi"}`))
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post("Bearer " + tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "T1", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, post("").Code)
	assert.Equal(t, http.StatusUnauthorized, post("Bearer "+tok[:len(tok)-2]).Code)
}

func TestRequestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/widget/token", nil)
	req.Host = "a.com"
	assert.Equal(t, "http://a.com", RequestOrigin(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://a.com", RequestOrigin(req))

	req.Header.Set("X-Forwarded-Proto", "https, http")
	assert.Equal(t, "https://a.com", RequestOrigin(req))
}
