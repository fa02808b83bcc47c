package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDSNFromSupabasePieces(t *testing.T) {
	password := `p@ss word"with'quotes/&?`
	dsn, err := DSN(map[string]string{
		"SUPABASE_DB_HOST":     "db.abc.supabase.co",
		"SUPABASE_DB_USER":     "postgres.abc",
		"SUPABASE_DB_PASSWORD": password,
		"SUPABASE_DB_PORT":     "6543",
	})
	if err != nil {
		t.Fatalf("DSN: %v", err)
	}

	cfg, err := pgconn.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("driver rejects %q: %v", dsn, err)
	}
	if cfg.Password != password {
		t.Errorf("password = %q, want %q", cfg.Password, password)
	}
	if cfg.Host != "db.abc.supabase.co" || cfg.Port != 6543 || cfg.User != "postgres.abc" || cfg.Database != "postgres" {
		t.Errorf("config = host %q port %d user %q db %q", cfg.Host, cfg.Port, cfg.User, cfg.Database)
	}
	if cfg.TLSConfig == nil {
		t.Error("sslmode should default to require")
	}
}

func TestDSNPrefersDatabaseURL(t *testing.T) {
	dsn, err := DSN(map[string]string{"DATABASE_URL": "postgres://u:p@localhost/app", "SUPABASE_DB_HOST": "ignored"})
	if err != nil || dsn != "postgres://u:p@localhost/app" {
		t.Errorf("dsn = %q, err = %v", dsn, err)
	}
	if _, err := DSN(map[string]string{}); err == nil {
		t.Error("expected an error without any connection settings")
	}
}
