package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/infrastructure/store"
	"github.com/taskboard/core/internal/ports"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		ExpiresIn:  time.Hour,
		Issuer:     "taskboard-test",
		CookieName: "token",
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.json")
	s, err := store.New(config.StoreConfig{Path: path}, logger.NewNop())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return s
}

type testEnv struct {
	store  *store.Store
	auth   *AuthService
	boards *BoardService
	tasks  *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := newTestStore(t)
	log := logger.NewNop()
	return &testEnv{
		store:  st,
		auth:   NewAuthService(st, testJWTConfig(), log),
		boards: NewBoardService(st, log),
		tasks:  NewTaskService(st, log),
	}
}

// register creates a user and returns its identity.
func (env *testEnv) register(t *testing.T, username, password string) *ports.Identity {
	t.Helper()

	identity, err := env.auth.Register(context.Background(), ports.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return identity
}

func strPtr(s string) *string {
	return &s
}
