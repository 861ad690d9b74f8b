package storage

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func TestMigrate_AppliesSchema(t *testing.T) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if err := Migrate(conn); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	version, dirty, err := MigrationVersion(conn)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if dirty {
		t.Error("schema marked dirty after clean migration")
	}
	if version == 0 {
		t.Error("version should be set after migration")
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if err := Migrate(conn); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
