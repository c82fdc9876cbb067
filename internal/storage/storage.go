package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql migrations_postgres/*.sql
var migrations embed.FS

const (
	driverSQLite   = "sqlite"
	driverPostgres = "pgx"
)

type Store struct {
	db     *sql.DB
	driver string
}

type AuditLog struct {
	ID        int64
	GuildID   string
	UserID    string
	Level     string
	Event     string
	Details   string
	CreatedAt time.Time
}

// New opens a sqlite database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open(driverSQLite, dbPath)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases shared and serialises sqlite writers
	db.SetMaxOpenConns(1)
	return &Store{db: db, driver: driverSQLite}, nil
}

// NewPostgres opens a Postgres database through the pgx stdlib driver.
func NewPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open(driverPostgres, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db, driver: driverPostgres}, nil
}

// Open picks the backend: a postgres:// URL wins over a sqlite path. It
// returns a nil store when neither is configured.
func Open(ctx context.Context, databaseURL, databasePath string) (*Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgres(ctx, databaseURL)
	case databaseURL != "":
		return nil, fmt.Errorf("unsupported database url scheme: %q", databaseURL)
	case databasePath != "":
		return New(databasePath)
	default:
		return nil, nil
	}
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) Migrate() error {
	dir := "migrations"
	if s.driver == driverPostgres {
		dir = "migrations_postgres"
	}
	entries, err := migrations.ReadDir(dir)
	if err != nil {
		return err
	}

	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := migrations.ReadFile(path.Join(dir, file))
		if err != nil {
			return err
		}
		for _, stmt := range splitStatements(string(content)) {
			if _, err := s.db.Exec(stmt); err != nil {
				if isIgnorableMigrationError(err) {
					continue
				}
				return fmt.Errorf("migration %s failed: %w", file, err)
			}
		}
	}
	return nil
}

func (s *Store) AddAuditLog(ctx context.Context, log AuditLog) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO audit_logs (guild_id, user_id, level, event, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), log.GuildID, log.UserID, log.Level, log.Event, log.Details, log.CreatedAt.Unix())
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, guildID string, since time.Time) ([]AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, guild_id, user_id, level, event, details, created_at
		FROM audit_logs
		WHERE guild_id = ? AND created_at >= ?
		ORDER BY created_at DESC, id DESC
	`), guildID, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var log AuditLog
		var created int64
		if err := rows.Scan(&log.ID, &log.GuildID, &log.UserID, &log.Level, &log.Event, &log.Details, &created); err != nil {
			return nil, err
		}
		log.CreatedAt = time.Unix(created, 0)
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (s *Store) CleanupAuditLogs(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM audit_logs WHERE created_at < ?`), cutoff.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
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

func splitStatements(content string) []string {
	var out []string
	for _, stmt := range strings.Split(content, ";") {
		if strings.TrimSpace(stmt) != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func isIgnorableMigrationError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "duplicate column name") || strings.Contains(message, "already exists")
}
