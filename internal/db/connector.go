// Package db opens connections to the source and warehouse MySQL databases.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"finwarehouse/pkg/errors"
	"finwarehouse/pkg/models"
)

// openFunc is a seam for tests; production code always uses sql.Open.
type openFunc func(driverName, dataSourceName string) (*sql.DB, error)

// Connector opens connections for a pipeline run. There is no pooling: the
// pipeline is single-threaded and each connection is exclusively owned by the
// caller, who must Close it on every exit path.
type Connector struct {
	cfg  *models.Config
	open openFunc
}

func NewConnector(cfg *models.Config) *Connector {
	return &Connector{cfg: cfg, open: sql.Open}
}

// OpenSource connects to the operational source database.
func (c *Connector) OpenSource(ctx context.Context) (*sql.DB, error) {
	return c.connect(ctx, c.cfg.Source, "source")
}

// OpenWarehouse connects to the warehouse database.
func (c *Connector) OpenWarehouse(ctx context.Context) (*sql.DB, error) {
	return c.connect(ctx, c.cfg.Warehouse, "warehouse")
}

// connect tries the primary DSN first and falls back once with TLS disabled,
// mirroring servers that reject the preferred TLS handshake. If both attempts
// fail the error from the first attempt is reported.
func (c *Connector) connect(ctx context.Context, d models.Database, role string) (*sql.DB, error) {
	conn, primaryErr := c.tryOpen(ctx, DSN(d, "preferred"))
	if primaryErr == nil {
		return conn, nil
	}

	conn, fallbackErr := c.tryOpen(ctx, DSN(d, "false"))
	if fallbackErr == nil {
		return conn, nil
	}

	return nil, errors.ConnectionError(
		fmt.Sprintf("failed to connect to %s database", role), primaryErr).
		WithContext("host", fmt.Sprintf("%s:%d", d.Host, d.Port)).
		WithContext("database", d.Name).
		WithContext("fallback_error", fallbackErr.Error())
}

func (c *Connector) tryOpen(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := c.open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Single sequential writer; pooling would only hide connection errors.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// DSN builds a go-sql-driver DSN for the given database and TLS mode.
func DSN(d models.Database, tlsMode string) string {
	charset := d.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&tls=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, charset, tlsMode)
}
