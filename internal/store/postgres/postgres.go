// Package postgres implements store.Store on PostgreSQL through pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"TODO_WEB-APP/internal/config"
	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/store"
)

const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		email         TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id          UUID PRIMARY KEY,
		seq         BIGSERIAL,
		owner_email TEXT NOT NULL,
		text        TEXT NOT NULL,
		done        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_owner_seq_idx ON tasks (owner_email, seq DESC)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		email      TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
}

// Store is a store.Store backed by a pgx connection pool
type Store struct {
	db *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Open connects to PostgreSQL, pings it within cfg.ConnTimeout and creates
// the tables if they are missing.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// simple protocol is required behind PgBouncer in transaction mode
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "todo-web-app"
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.QueryTimeout.Milliseconds())
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Store{db: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx,
		`SELECT name, email, password_hash, created_at FROM users WHERE email = $1`,
		email).Scan(&user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		user.Name, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindTasksByOwner(ctx context.Context, ownerEmail string) ([]models.Task, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id::text, owner_email, text, done, created_at
		 FROM tasks WHERE owner_email = $1 ORDER BY seq DESC`,
		ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Task, error) {
		var t models.Task
		err := row.Scan(&t.ID, &t.OwnerEmail, &t.Text, &t.Done, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("task id: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO tasks (id, owner_email, text, done) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		id.String(), task.OwnerEmail, task.Text, task.Done).Scan(&task.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = id.String()
	return nil
}

func (s *Store) UpdateTaskDone(ctx context.Context, ownerEmail, taskID string, done bool) error {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil // cannot match any row
	}

	if _, err := s.db.Exec(ctx,
		`UPDATE tasks SET done = $1 WHERE id = $2 AND owner_email = $3`,
		done, id.String(), ownerEmail); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, ownerEmail, taskID string) error {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil
	}

	if _, err := s.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_email = $2`,
		id.String(), ownerEmail); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO sessions (token, email, name, expires_at) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		session.Token, session.Email, session.Name, session.ExpiresAt).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) FindSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.db.QueryRow(ctx,
		`SELECT token, email, name, created_at, expires_at FROM sessions WHERE token = $1`,
		token).Scan(&session.Token, &session.Email, &session.Name, &session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}
