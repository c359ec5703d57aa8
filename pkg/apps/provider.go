package apps

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no app matches the given secret or id.
var ErrNotFound = errors.New("app not found")

// Directory resolves registered apps. App creation, rotation and billing
// live in the (separate) account service; this side only reads.
type Directory interface {
	// Resolve app from the widget's embedded secret.
	ResolveAppBySecret(ctx context.Context, secret string) (App, error)
	// Resolve from id (token claims carry the app id).
	ResolveAppByID(ctx context.Context, id string) (App, error)
}
