package shared

import (
	"context"
	"testing"
)

func TestMigrations(t *testing.T) {
	ctx := context.Background()

	t.Run("Migrations are complete and sorted", func(t *testing.T) {
		migrations, err := Migrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}
		if migrations[0].Name != "create_tables" {
			t.Errorf("expected first migration create_tables, got %q", migrations[0].Name)
		}
		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: %d after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}
	})

	t.Run("MigrateUp and MigrateDown", func(t *testing.T) {
		db, err := OpenDatabase(ctx, DatabaseConfig{Path: ":memory:", MaxOpenConns: 1})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := MigrateUp(ctx, db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}
		for _, table := range []string{"notes", "playlist_tracks"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist: %v", table, err)
			}
		}

		if err := MigrateDown(ctx, db); err != nil {
			t.Fatalf("MigrateDown() error = %v", err)
		}
		if _, err := db.Exec("SELECT 1 FROM notes LIMIT 1"); err == nil {
			t.Error("notes table should be dropped after rollback")
		}
		if err := MigrateDown(ctx, db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})

	t.Run("MigrateUp is idempotent", func(t *testing.T) {
		db, err := MemoryDatabase(ctx)
		if err != nil {
			t.Fatalf("MemoryDatabase() error = %v", err)
		}
		defer db.Close()

		if err := MigrateUp(ctx, db); err != nil {
			t.Fatalf("second MigrateUp() error = %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatal(err)
		}
		migrations, _ := Migrations()
		if count != len(migrations) {
			t.Errorf("expected %d applied migrations, got %d", len(migrations), count)
		}
	})

	t.Run("OpenDatabase requires a path", func(t *testing.T) {
		if _, err := OpenDatabase(ctx, DatabaseConfig{}); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestSplitStatements(t *testing.T) {
	script := "-- header\nCREATE TABLE a (x TEXT); -- trailing\n\nCREATE TABLE b (y TEXT);\n"
	got := splitStatements(script)
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
	}
	if got[0] != "CREATE TABLE a (x TEXT)" {
		t.Errorf("unexpected first statement %q", got[0])
	}
}
