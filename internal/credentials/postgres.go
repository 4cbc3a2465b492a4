package credentials

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/storefront/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore хранит токены в таблице ключ–значение PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresStore подключается к БД и применяет миграции схемы.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{
		pool:   pool,
		delays: []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, time.Second},
	}

	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Load читает пару токенов. Второе значение false, если токена доступа нет.
func (s *PostgresStore) Load(ctx context.Context) (model.Credentials, bool, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value FROM credentials WHERE key IN ($1, $2)`,
		KeyAccessToken, KeyRefreshToken,
	)
	if err != nil {
		return model.Credentials{}, false, fmt.Errorf("select credentials: %w", err)
	}
	defer rows.Close()

	var c model.Credentials
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Credentials{}, false, fmt.Errorf("scan credential: %w", err)
		}
		switch key {
		case KeyAccessToken:
			c.Access = value
		case KeyRefreshToken:
			c.Refresh = value
		}
	}

	if err := rows.Err(); err != nil {
		return model.Credentials{}, false, fmt.Errorf("rows error: %w", err)
	}

	if c.Access == "" {
		return model.Credentials{}, false, nil
	}
	return c, true, nil
}

// AccessToken возвращает сохранённый токен доступа или пустую строку.
func (s *PostgresStore) AccessToken(ctx context.Context) (string, error) {
	var token string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM credentials WHERE key = $1`,
		KeyAccessToken,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("select access token: %w", err)
	}
	return token, nil
}

// Save записывает оба токена одной транзакцией.
func (s *PostgresStore) Save(ctx context.Context, c model.Credentials) error {
	return s.withRetry(ctx, func() error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		for _, kv := range [][2]string{{KeyAccessToken, c.Access}, {KeyRefreshToken, c.Refresh}} {
			_, err := tx.Exec(ctx,
				`INSERT INTO credentials (key, value, updated_at) VALUES ($1, $2, now())
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
				kv[0], kv[1],
			)
			if err != nil {
				return fmt.Errorf("upsert %s: %w", kv[0], err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// Clear удаляет оба токена одной командой.
func (s *PostgresStore) Clear(ctx context.Context) error {
	return s.withRetry(ctx, func() error {
		_, err := s.pool.Exec(ctx,
			`DELETE FROM credentials WHERE key IN ($1, $2)`,
			KeyAccessToken, KeyRefreshToken,
		)
		if err != nil {
			return fmt.Errorf("delete credentials: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i <= len(s.delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(s.delays) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		timer := time.NewTimer(s.delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// isRetryable сообщает, стоит ли повторить операцию с хранилищем.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}
