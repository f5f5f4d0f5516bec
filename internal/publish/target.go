// Package publish pushes a page's flattened block list to an external
// store, the deploy step of the page builder. Targets share one small
// interface so the CLI and MCP layers don't care which driver backs
// the published site.
package publish

import (
	"context"
	"fmt"
	"time"
)

// Record is the published shape of a page: metadata plus the canonical
// block list as JSON.
type Record struct {
	PageID      string
	Slug        string
	Name        string
	BlocksJSON  string
	PublishedAt time.Time
}

// Target upserts published pages keyed by slug.
type Target interface {
	Publish(ctx context.Context, rec *Record) error
	Close() error
}

// Spec describes the configured publish destination.
type Spec struct {
	Driver   string // mysql, postgres, mongodb
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
	// Table is the destination table or collection; defaults to
	// "published_pages".
	Table string
}

func (s Spec) table() string {
	if s.Table == "" {
		return "published_pages"
	}
	return s.Table
}

// New creates a Target for the given destination.
func New(spec Spec) (Target, error) {
	switch spec.Driver {
	case "mysql":
		return newSQLTarget("mysql", buildMySQLDSN(spec), spec.table())
	case "postgres":
		return newSQLTarget("postgres", buildPostgresDSN(spec), spec.table())
	case "mongodb":
		return newMongoTarget(spec)
	default:
		return nil, fmt.Errorf("unsupported publish driver: %s", spec.Driver)
	}
}
