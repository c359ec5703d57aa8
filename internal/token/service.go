package token

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"embedchat/pkg/apps"
)

var (
	// ErrMissingCredential: the caller omitted the app secret (400-class).
	ErrMissingCredential = errors.New("app secret is required")
	// ErrUnauthorized: unknown secret or origin mismatch (403-class). The
	// two cases are deliberately indistinguishable to the caller.
	ErrUnauthorized = errors.New("unauthorized")
)

// Grant is the outcome of a successful issuance call.
type Grant struct {
	Token    string
	ExpireAt time.Time
	Reused   bool
}

// Service orchestrates secret validation, origin matching, cache reuse
// and minting. Concurrent calls for the same app may race past the cache
// and both mint; last writer wins and both grants stay valid.
type Service struct {
	dir   apps.Directory
	codec *Codec
	cache Cache
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewService(dir apps.Directory, codec *Codec, cache Cache, log *zap.SugaredLogger) *Service {
	return &Service{dir: dir, codec: codec, cache: cache, log: log, now: time.Now}
}

// Issue exchanges an app secret presented from origin for a signed access
// token. It always yields a usable token or an authorization failure,
// never a "cache miss" error.
func (s *Service) Issue(ctx context.Context, secret, origin string) (Grant, error) {
	if strings.TrimSpace(secret) == "" {
		issueFailures.WithLabelValues("missing_secret").Inc()
		return Grant{}, ErrMissingCredential
	}

	// App existence and origin binding are re-checked on every call, cache
	// hit or not, so a rotated or deleted app stops being served at once.
	app, err := s.dir.ResolveAppBySecret(ctx, secret)
	if err != nil {
		issueFailures.WithLabelValues("unauthorized").Inc()
		return Grant{}, ErrUnauthorized
	}
	if app.AuthorizedOrigin != origin {
		issueFailures.WithLabelValues("unauthorized").Inc()
		return Grant{}, ErrUnauthorized
	}

	if entry, cached := s.cache.Get(ctx, app.ID); cached {
		// Undecodable entries (expired, tampered, malformed) count as
		// ordinary misses, never as errors: issuance silently supersedes
		// them with a fresh mint.
		if cl, ok := s.codec.Verify(entry.Token); ok {
			// A cached token minted for a different origin must not be
			// replayed from this one.
			if cl.AuthorizedOrigin != origin {
				issueFailures.WithLabelValues("unauthorized").Inc()
				return Grant{}, ErrUnauthorized
			}
			if s.now().Before(entry.ExpireAt) {
				issuedTotal.WithLabelValues("reused").Inc()
				return Grant{Token: entry.Token, ExpireAt: entry.ExpireAt, Reused: true}, nil
			}
		}
	}

	tok, expireAt, err := s.codec.Mint(app)
	if err != nil {
		return Grant{}, err
	}
	s.cache.Put(ctx, app.ID, Entry{Token: tok, ExpireAt: expireAt})
	issuedTotal.WithLabelValues("minted").Inc()
	s.log.Infow("widget token minted", "app", app.ID, "origin", origin, "expireAt", expireAt)
	return Grant{Token: tok, ExpireAt: expireAt}, nil
}
