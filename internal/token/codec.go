package token

import (
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"embedchat/pkg/apps"
)

// Claims carried by a widget access token.
type Claims struct {
	AppID            string
	DocID            string
	OwnerID          string
	AuthorizedOrigin string
	ExpiresAt        time.Time
}

// Codec mints and verifies signed widget access tokens (HS256 over a
// shared signing secret). Verification is self-contained: no store lookup
// on the query hot path.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec fails when the signing secret is absent; that is a startup
// misconfiguration, never a per-call error.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("widget token signing secret not configured")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Codec{key: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Mint signs a token binding the app's identity to its authorized origin,
// expiring at now + TTL.
func (c *Codec) Mint(app apps.App) (string, time.Time, error) {
	now := c.now()
	expireAt := now.Add(c.ttl)
	tok, err := jwt.NewBuilder().
		IssuedAt(now).
		Expiration(expireAt).
		Claim("appId", app.ID).
		Claim("docId", app.DocID).
		Claim("ownerId", app.OwnerID).
		Claim("authorizedOrigin", app.AuthorizedOrigin).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, c.key))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expireAt, nil
}

// Verify checks signature and expiry. It is pure: callers may probe a
// token without side effects. Any failure (bad signature, malformed
// payload, expired) yields the false sentinel, never an error value;
// a stale cache entry is steady-state, not exceptional.
func (c *Codec) Verify(raw string) (Claims, bool) {
	jt, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, c.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(c.now)),
	)
	if err != nil {
		return Claims{}, false
	}
	return Claims{
		AppID:            stringClaim(jt, "appId"),
		DocID:            stringClaim(jt, "docId"),
		OwnerID:          stringClaim(jt, "ownerId"),
		AuthorizedOrigin: stringClaim(jt, "authorizedOrigin"),
		ExpiresAt:        jt.Expiration(),
	}, true
}

func stringClaim(jt jwt.Token, name string) string {
	if v, ok := jt.Get(name); ok {
		s, _ := v.(string)
		return s
	}
	return ""
}
