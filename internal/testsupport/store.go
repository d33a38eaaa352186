package testsupport

import (
	"context"
	"testing"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/configs"
)

// MustOpen opens a migrated sqlite database for the given config and closes
// it when the test ends.
func MustOpen(t testing.TB, cfg *configs.Config) *database.Handle {
	t.Helper()

	connector := database.NewConnector(cfg)
	handle, err := connector.Handle(context.Background())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = connector.Close()
	})
	return handle
}

// NewHandle is MustOpen over a fresh NewConfig.
func NewHandle(t testing.TB) *database.Handle {
	t.Helper()
	return MustOpen(t, NewConfig(t))
}
