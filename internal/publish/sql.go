package publish

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// sqlTarget publishes to MySQL or Postgres. The destination table is
// created on first use and keyed by slug.
type sqlTarget struct {
	driver string
	db     *sql.DB
	table  string
}

func newSQLTarget(driver, dsn, table string) (*sqlTarget, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	t := &sqlTarget{driver: driver, db: db, table: table}
	if err := t.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

func (t *sqlTarget) ensureTable() error {
	var ddl string
	switch t.driver {
	case "mysql":
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			slug VARCHAR(255) PRIMARY KEY,
			page_id VARCHAR(64) NOT NULL,
			name TEXT NOT NULL,
			blocks_json LONGTEXT NOT NULL,
			published_at DATETIME NOT NULL
		)`, t.table)
	case "postgres":
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			slug TEXT PRIMARY KEY,
			page_id TEXT NOT NULL,
			name TEXT NOT NULL,
			blocks_json TEXT NOT NULL,
			published_at TIMESTAMPTZ NOT NULL
		)`, t.table)
	default:
		return fmt.Errorf("unsupported sql driver: %s", t.driver)
	}
	if _, err := t.db.Exec(ddl); err != nil {
		return fmt.Errorf("ensure %s table: %w", t.driver, err)
	}
	return nil
}

func (t *sqlTarget) Publish(ctx context.Context, rec *Record) error {
	var query string
	switch t.driver {
	case "mysql":
		query = fmt.Sprintf(`INSERT INTO %s (slug, page_id, name, blocks_json, published_at)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				page_id = VALUES(page_id),
				name = VALUES(name),
				blocks_json = VALUES(blocks_json),
				published_at = VALUES(published_at)`, t.table)
	case "postgres":
		query = fmt.Sprintf(`INSERT INTO %s (slug, page_id, name, blocks_json, published_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO UPDATE SET
				page_id = EXCLUDED.page_id,
				name = EXCLUDED.name,
				blocks_json = EXCLUDED.blocks_json,
				published_at = EXCLUDED.published_at`, t.table)
	default:
		return fmt.Errorf("unsupported sql driver: %s", t.driver)
	}

	_, err := t.db.ExecContext(ctx, query, rec.Slug, rec.PageID, rec.Name, rec.BlocksJSON, rec.PublishedAt)
	if err != nil {
		return fmt.Errorf("upsert page %s: %w", rec.Slug, err)
	}
	return nil
}

func (t *sqlTarget) Close() error {
	return t.db.Close()
}

// buildMySQLDSN constructs a MySQL DSN from the destination spec.
func buildMySQLDSN(spec Spec) string {
	port := spec.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		spec.Username, spec.Password, spec.Host, port, spec.Database,
	)
	if spec.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}

// buildPostgresDSN constructs a Postgres connection string from the
// destination spec.
func buildPostgresDSN(spec Spec) string {
	port := spec.Port
	if port == 0 {
		port = 5432
	}
	sslMode := spec.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		spec.Host, port, spec.Username, spec.Password, spec.Database, sslMode,
	)
}
