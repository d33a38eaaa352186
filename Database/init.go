package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/JoaoGSDC/streamline-app/Database/schema"
	"github.com/JoaoGSDC/streamline-app/configs"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Handle is the process-wide database handle. Queries are written with "?"
// placeholders and passed through Rebind before execution.
type Handle struct {
	*sql.DB
	Driver string
}

// Rebind rewrites "?" placeholders into the dialect's bind syntax.
func (h *Handle) Rebind(query string) string {
	if !h.IsPostgres() {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// IsPostgres reports whether the handle talks to PostgreSQL.
func (h *Handle) IsPostgres() bool {
	return h.Driver == configs.DriverPostgres
}

// Connector opens the database at most once. Concurrent callers of Handle
// block on the same initialisation and observe the same handle or error.
type Connector struct {
	config *configs.Config

	once   sync.Once
	handle *Handle
	err    error
}

func NewConnector(config *configs.Config) *Connector {
	return &Connector{config: config}
}

func (c *Connector) Handle(ctx context.Context) (*Handle, error) {
	c.once.Do(func() {
		c.handle, c.err = open(ctx, c.config)
	})
	return c.handle, c.err
}

func (c *Connector) Close() error {
	if c.handle == nil {
		return nil
	}
	return c.handle.Close()
}

func open(ctx context.Context, config *configs.Config) (*Handle, error) {
	driver := config.Database.Driver
	dsn := config.GetDatabaseURL()

	switch driver {
	case configs.DriverPostgres:
	case configs.DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	if driver == configs.DriverSQLite {
		// A single connection keeps writers serialised.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	if err := schema.Migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}

	utils.Infof("Connected to %s database", driver)
	return &Handle{DB: db, Driver: driver}, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
