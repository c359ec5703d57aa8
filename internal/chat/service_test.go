package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"embedchat/internal/token"
	"embedchat/pkg/apps"
)

type cannedAnswerer struct{ reply string }

func (c cannedAnswerer) Answer(_ context.Context, _ apps.App, _ string) (string, error) {
	return c.reply, nil
}

func newChatService(answerer Answerer) *Service {
	dir := apps.NewMemoryDirectory([]apps.SeedEntry{
		{ID: "T1", OwnerID: "owner-1", Name: "acme", DocID: "doc-1", Secret: "s1", AuthorizedOrigin: "https://a.com"},
	})
	return NewService(dir, nil, answerer, zap.NewNop().Sugar())
}

func TestAnswerResolvesAppFromClaims(t *testing.T) {
	svc := newChatService(cannedAnswerer{reply: "hello from acme"})
	got, err := svc.Answer(context.Background(), token.Claims{AppID: "T1"}, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello from acme", got)
}

func TestAnswerRejectsUnknownApp(t *testing.T) {
	svc := newChatService(nil)
	_, err := svc.Answer(context.Background(), token.Claims{AppID: "gone"}, "hi")
	assert.ErrorIs(t, err, apps.ErrNotFound)
}

func TestPlaceholderAnswererNamesApp(t *testing.T) {
	svc := newChatService(nil)
	got, err := svc.Answer(context.Background(), token.Claims{AppID: "T1"}, "hi")
	require.NoError(t, err)
	assert.Contains(t, got, "acme")
}

func TestRecordUsageWithoutPoolIsNoop(t *testing.T) {
	svc := newChatService(nil)
	// Must not panic with a nil pool.
	svc.RecordUsage(context.Background(), token.Claims{AppID: "T1"}, 200, time.Now())
}
