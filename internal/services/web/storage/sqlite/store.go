package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/seedshift/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/seedshift/internal/services/web/storage"
	"github.com/louisbranch/seedshift/internal/services/web/storage/sqlite/migrations"
	"github.com/louisbranch/seedshift/internal/variation/attr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for variant overrides.
type Store struct {
	sqlDB  *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ webstorage.Store = (*Store)(nil)

// Open opens and migrates a variant store. A nil logger discards reports
// about skipped rows.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, logger: logger, now: time.Now}
	applied, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "")
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", zap.Strings("migrations", applied))
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// PutVariants upserts the candidates of one element attribute.
func (s *Store) PutVariants(ctx context.Context, override webstorage.VariantOverride) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	kind, key, err := normalizeKey(override.Kind, override.Key)
	if err != nil {
		return err
	}
	if len(override.Candidates) == 0 {
		return errors.New("at least one candidate is required")
	}
	for i, candidate := range override.Candidates {
		if strings.TrimSpace(candidate) == "" {
			return fmt.Errorf("candidate %d is empty", i)
		}
	}
	payload, err := json.Marshal(override.Candidates)
	if err != nil {
		return fmt.Errorf("encode candidates: %w", err)
	}
	updatedAt := override.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO variant_overrides (kind, element_key, candidates_json, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(kind, element_key) DO UPDATE SET
		   candidates_json = excluded.candidates_json,
		   updated_at = excluded.updated_at`,
		string(kind), key, string(payload), updatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put variant override: %w", err)
	}
	return nil
}

// DeleteVariants removes the override of one element attribute. Deleting a
// missing override is not an error.
func (s *Store) DeleteVariants(ctx context.Context, kind attr.Kind, key string) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	kind, key, err := normalizeKey(kind, key)
	if err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM variant_overrides WHERE kind = ? AND element_key = ?`,
		string(kind), key,
	); err != nil {
		return fmt.Errorf("delete variant override: %w", err)
	}
	return nil
}

// ListVariants returns every usable override ordered by update time. Rows
// with an unknown kind or unreadable candidates are logged and skipped.
func (s *Store) ListVariants(ctx context.Context) ([]webstorage.VariantOverride, error) {
	if s == nil || s.sqlDB == nil {
		return nil, errors.New("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT kind, element_key, candidates_json, updated_at
		 FROM variant_overrides
		 ORDER BY updated_at, kind, element_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("list variant overrides: %w", err)
	}
	defer rows.Close()

	var overrides []webstorage.VariantOverride
	for rows.Next() {
		var (
			kindRaw   string
			key       string
			payload   string
			updatedAt int64
		)
		if err := rows.Scan(&kindRaw, &key, &payload, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan variant override: %w", err)
		}
		kind, ok := attr.ParseKind(kindRaw)
		if !ok {
			s.skip(kindRaw, key, errors.New("unknown kind"))
			continue
		}
		candidates, err := decodeCandidates(payload)
		if err != nil {
			s.skip(kindRaw, key, err)
			continue
		}
		overrides = append(overrides, webstorage.VariantOverride{
			Kind:       kind,
			Key:        key,
			Candidates: candidates,
			UpdatedAt:  time.UnixMilli(updatedAt).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant overrides: %w", err)
	}
	return overrides, nil
}

func (s *Store) skip(kind, key string, err error) {
	s.logger.Warn("skipping variant override",
		zap.String("kind", kind),
		zap.String("key", key),
		zap.Error(err),
	)
}

func decodeCandidates(payload string) ([]string, error) {
	var candidates []string
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, errors.New("no candidates")
	}
	for i, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			return nil, fmt.Errorf("candidate %d is empty", i)
		}
	}
	return candidates, nil
}

func normalizeKey(kind attr.Kind, key string) (attr.Kind, string, error) {
	parsed, ok := attr.ParseKind(string(kind))
	if !ok {
		return "", "", fmt.Errorf("unknown variant kind %q", kind)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", errors.New("element key is required")
	}
	return parsed, key, nil
}
