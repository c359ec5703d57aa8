// internal/chat/service.go
package chat

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"embedchat/internal/token"
	"embedchat/pkg/apps"
	"embedchat/pkg/middleware"
)

// Answerer produces the bot's reply for a query against an app's document.
// The real implementation lives in the retrieval service; dev deployments
// get a placeholder.
type Answerer interface {
	Answer(ctx context.Context, app apps.App, query string) (string, error)
}

type placeholderAnswerer struct{}

func (placeholderAnswerer) Answer(_ context.Context, app apps.App, _ string) (string, error) {
	return "The assistant for " + app.Name + " is not connected yet.", nil
}

// Service resolves the calling app from verified token claims, delegates
// to the Answerer and records a usage event.
type Service struct {
	dir      apps.Directory
	pool     *pgxpool.Pool // nil in dev: usage recording disabled
	answerer Answerer
	log      *zap.SugaredLogger
}

func NewService(dir apps.Directory, pool *pgxpool.Pool, answerer Answerer, log *zap.SugaredLogger) *Service {
	if answerer == nil {
		answerer = placeholderAnswerer{}
	}
	return &Service{dir: dir, pool: pool, answerer: answerer, log: log}
}

// Answer re-resolves the app so a token outliving its app stops working.
func (s *Service) Answer(ctx context.Context, cl token.Claims, query string) (string, error) {
	app, err := s.dir.ResolveAppByID(ctx, cl.AppID)
	if err != nil {
		return "", err
	}
	return s.answerer.Answer(ctx, app, query)
}

// RecordUsage writes one usage_events row; no-op without a pool.
func (s *Service) RecordUsage(ctx context.Context, cl token.Claims, statusCode int, started time.Time) {
	if s.pool == nil {
		return
	}
	var owner any
	if cl.OwnerID != "" {
		owner = cl.OwnerID
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO usage_events(app_id,owner_id,kind,request_id,status_code,duration_ms)
	  VALUES ($1,$2,'query',$3,$4,$5)`,
		cl.AppID, owner, middleware.RequestIDFrom(ctx), statusCode, time.Since(started).Milliseconds())
	if err != nil {
		s.log.Warnw("usage event", "app", cl.AppID, "err", err)
	}
}
