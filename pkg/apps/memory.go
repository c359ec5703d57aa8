// pkg/apps/memory.go
package apps

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type memDirectory struct {
	log      *zap.SugaredLogger
	bySecret map[string]App
	byID     map[string]App
}

// NewMemoryDirectoryFromEnv builds a Directory from APP_SEED_JSON or an
// APP_SEED_FILE YAML document. Dev/test only; raw secrets stay in memory.
func NewMemoryDirectoryFromEnv(log *zap.SugaredLogger) Directory {
	var entries []SeedEntry
	if seed := os.Getenv("APP_SEED_JSON"); seed != "" {
		if err := json.Unmarshal([]byte(seed), &entries); err != nil {
			log.Warnw("app seed json", "err", err)
		}
	} else if path := os.Getenv("APP_SEED_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warnw("app seed file", "path", path, "err", err)
		} else if err := yaml.Unmarshal(raw, &entries); err != nil {
			log.Warnw("app seed yaml", "path", path, "err", err)
		}
	}
	return NewMemoryDirectory(entries)
}

// NewMemoryDirectory builds a Directory from explicit seed entries.
func NewMemoryDirectory(entries []SeedEntry) Directory {
	m := &memDirectory{bySecret: map[string]App{}, byID: map[string]App{}}
	for _, e := range entries {
		a := App{ID: e.ID, OwnerID: e.OwnerID, Name: e.Name, DocID: e.DocID, AuthorizedOrigin: e.AuthorizedOrigin}
		m.bySecret[e.Secret] = a
		m.byID[e.ID] = a
	}
	return m
}

func (m *memDirectory) ResolveAppBySecret(ctx context.Context, secret string) (App, error) {
	if a, ok := m.bySecret[secret]; ok {
		return a, nil
	}
	return App{}, ErrNotFound
}

func (m *memDirectory) ResolveAppByID(ctx context.Context, id string) (App, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return App{}, ErrNotFound
}
