package database_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	database "github.com/JoaoGSDC/streamline-app/Database"
	"github.com/JoaoGSDC/streamline-app/Database/schema"
	"github.com/JoaoGSDC/streamline-app/configs"
)

func sqliteConfig(t *testing.T) *configs.Config {
	t.Helper()
	cfg := configs.Default()
	cfg.Database.Driver = configs.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	return &cfg
}

func TestConnectorCollapsesConcurrentInit(t *testing.T) {
	connector := database.NewConnector(sqliteConfig(t))
	t.Cleanup(func() { _ = connector.Close() })

	const callers = 16
	handles := make([]*database.Handle, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = connector.Handle(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if handles[i] != handles[0] {
			t.Fatalf("caller %d observed a different handle", i)
		}
	}
}

func TestConnectorRejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Driver = "mysql"
	connector := database.NewConnector(cfg)

	if _, err := connector.Handle(context.Background()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	// The failure is remembered rather than retried.
	if _, err := connector.Handle(context.Background()); err == nil {
		t.Fatal("expected cached error on second call")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	connector := database.NewConnector(sqliteConfig(t))
	t.Cleanup(func() { _ = connector.Close() })

	handle, err := connector.Handle(context.Background())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if err := schema.Migrate(context.Background(), handle.DB, handle.Driver); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	for _, table := range []string{"streamers", "games", "streamer_games", "scheduled_streams"} {
		var name string
		err := handle.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestRebind(t *testing.T) {
	pg := &database.Handle{Driver: configs.DriverPostgres}
	got := pg.Rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)")
	want := "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)"
	if got != want {
		t.Fatalf("postgres rebind: got %q want %q", got, want)
	}

	lite := &database.Handle{Driver: configs.DriverSQLite}
	if q := "SELECT ? "; lite.Rebind(q) != q {
		t.Fatalf("sqlite rebind should be identity")
	}
}
