package sqldb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestIsPostgres(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"", false},
		{":memory:", false},
		{"data/campusqa.db", false},
		{"postgres://u:p@localhost:5432/db", true},
		{"postgresql://u:p@localhost/db?sslmode=disable", true},
		{"mysql://u:p@localhost/db", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			if got := IsPostgres(tt.dsn); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRebindDollar(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM users WHERE id = ?", "SELECT * FROM users WHERE id = $1"},
		{"DELETE FROM questions WHERE user_id = ? AND id NOT IN (SELECT id FROM questions WHERE user_id = ? LIMIT ?)",
			"DELETE FROM questions WHERE user_id = $1 AND id NOT IN (SELECT id FROM questions WHERE user_id = $2 LIMIT $3)"},
	}
	for _, tt := range tests {
		if got := rebindDollar(tt.in); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestRebind_SQLiteUnchanged(t *testing.T) {
	d := &DB{dialect: SQLite}
	q := "SELECT * FROM users WHERE id = ?"
	if got := d.Rebind(q); got != q {
		t.Errorf("expected %q, got %q", q, got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil) {
		t.Error("nil must not be a unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %s", "constraint failed: UNIQUE constraint failed: users.username (2067)")) {
		t.Error("expected sqlite message to match")
	}
	if IsUniqueViolation(fmt.Errorf("connection refused")) {
		t.Error("unexpected match")
	}
}

func TestMillisRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 30, 0, 123_000_000, time.UTC)
	if got := FromMillis(Millis(now)); !got.Equal(now) {
		t.Errorf("expected %v, got %v", now, got)
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	d, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if d.Dialect() != SQLite {
		t.Errorf("expected sqlite dialect, got %s", d.Dialect())
	}
	if err := d.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	for _, table := range []string{"users", "questions", "search_logs"} {
		var n int
		row := d.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err := row.Scan(&n); err != nil {
			t.Fatalf("scan %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}

	// schema is idempotent
	if err := d.Migrate(DirectionUp, 0); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := d.Migrate(DirectionDown, 1); err == nil {
		t.Error("expected error for sqlite down migration")
	}
}

func TestOpen_SQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "campusqa.db")
	d, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if _, err := d.ExecContext(context.Background(),
		"INSERT INTO search_logs (query, results_count, search_type, created_at) VALUES (?, ?, ?, ?)",
		"library hours", 2, "semantic", Millis(time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestOpen_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "campusqa",
			"POSTGRES_PASSWORD": "campusqa",
			"POSTGRES_DB":       "campusqa",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://campusqa:campusqa@%s:%s/campusqa?sslmode=disable", host, port.Port())
	d, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if d.Dialect() != Postgres {
		t.Errorf("expected postgres dialect, got %s", d.Dialect())
	}

	var id int64
	err = d.QueryRowContext(ctx, d.Rebind(
		"INSERT INTO users (username, email, hashed_password, is_active, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id"),
		"alice", "alice@example.edu", "hash", true, false, Millis(time.Now())).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	_, err = d.ExecContext(ctx, d.Rebind(
		"INSERT INTO users (username, email, hashed_password, is_active, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		"alice", "other@example.edu", "hash", true, false, Millis(time.Now()))
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	if err := d.Migrate(DirectionUp, 0); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
}
