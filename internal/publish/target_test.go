package publish

import (
	"strings"
	"testing"
)

func TestBuildMySQLDSN(t *testing.T) {
	spec := Spec{Host: "db.example.com", Database: "site", Username: "deploy", Password: "s3cret"}
	dsn := buildMySQLDSN(spec)
	want := "deploy:s3cret@tcp(db.example.com:3306)/site?parseTime=true&charset=utf8mb4"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}

	spec.SSLMode = "require"
	if dsn := buildMySQLDSN(spec); !strings.Contains(dsn, "&tls=true") {
		t.Errorf("dsn missing tls flag: %q", dsn)
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	spec := Spec{Host: "localhost", Port: 5433, Database: "site", Username: "deploy", Password: "pw"}
	dsn := buildPostgresDSN(spec)
	want := "host=localhost port=5433 user=deploy password=pw dbname=site sslmode=disable"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}
}

func TestSpecTableDefault(t *testing.T) {
	if got := (Spec{}).table(); got != "published_pages" {
		t.Errorf("default table = %q", got)
	}
	if got := (Spec{Table: "pages_live"}).table(); got != "pages_live" {
		t.Errorf("table = %q, want pages_live", got)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(Spec{Driver: "oracle"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
