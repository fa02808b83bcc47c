package database

import (
	"fmt"
	stdlog "log"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// DSN builds the connection string. DATABASE_URL wins; otherwise the
// SUPABASE_DB_* pieces are assembled into a postgres:// URL, which escapes
// whatever the password contains.
func DSN(cfg map[string]string) (string, error) {
	if dsn := config.GetString(cfg, "DATABASE_URL", ""); dsn != "" {
		return dsn, nil
	}
	host := config.GetString(cfg, "SUPABASE_DB_HOST", "")
	if host == "" {
		return "", fmt.Errorf("DATABASE_URL or SUPABASE_DB_HOST must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User: url.UserPassword(
			config.GetString(cfg, "SUPABASE_DB_USER", "postgres"),
			config.GetString(cfg, "SUPABASE_DB_PASSWORD", ""),
		),
		Host:     net.JoinHostPort(host, config.GetString(cfg, "SUPABASE_DB_PORT", "5432")),
		Path:     "/" + config.GetString(cfg, "SUPABASE_DB_NAME", "postgres"),
		RawQuery: url.Values{"sslmode": {config.GetString(cfg, "SUPABASE_DB_SSLMODE", "require")}}.Encode(),
	}
	return u.String(), nil
}

// Open connects to Postgres, registers the read replica when
// DATABASE_REPLICA_URL is set and checks the connection.
func Open(cfg map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(cfg, "DB_SLOW_QUERY_SECONDS", 10)) * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(cfg),
		},
	)

	// PreferSimpleProtocol keeps us compatible with the Supabase transaction pooler
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if replica := config.GetString(cfg, "DATABASE_REPLICA_URL", ""); replica != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			})},
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: !config.IsProduction(cfg),
		}).
			SetMaxOpenConns(config.GetInt(cfg, "DB_MAX_OPEN_CONNS", 10)).
			SetConnMaxIdleTime(5 * time.Minute))
		if err != nil {
			return nil, fmt.Errorf("error registering read replica: %w", err)
		}
		log.Info().Msg("Read replica registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.GetInt(cfg, "DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetMaxIdleConns(config.GetInt(cfg, "DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}
