package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/JoaoGSDC/streamline-app/configs"
)

// TestSessionSecret signs session cookies in tests.
const TestSessionSecret = "streamline-test-secret-0123456789abcdef"

// NewConfig produces a sqlite-backed config rooted in a per-test temp dir.
func NewConfig(t testing.TB) *configs.Config {
	t.Helper()

	cfg := configs.Default()
	cfg.Database.Driver = configs.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "streamline.db")
	cfg.Session.Secret = TestSessionSecret
	cfg.Twitch.FrontendURL = "http://frontend.test"
	cfg.Log.Level = "error"
	return &cfg
}
