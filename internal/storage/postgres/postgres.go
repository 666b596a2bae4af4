package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ButyrinIA/portfolio/internal/models"
	"github.com/ButyrinIA/portfolio/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		views BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0)
	);
	CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
	CREATE TABLE IF NOT EXISTS contact_messages (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const postColumns = `id, title, author, content, created_at, views`

type Options struct {
	DSN      string
	MaxConns int32
	// Migrate создает таблицы, если их еще нет
	Migrate bool
}

type PostgresStorage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, opts Options) (*PostgresStorage, error) {
	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if opts.Migrate {
		if _, err := pool.Exec(ctx, schema); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &PostgresStorage{pool: pool}, nil
}

func (s *PostgresStorage) CreatePost(ctx context.Context, post *models.Post) error {
	var row pgx.Row
	if post.CreatedAt.IsZero() {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO posts (title, author, content, views)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			post.Title, post.Author, post.Content, post.Views)
	} else {
		row = s.pool.QueryRow(ctx, `
			INSERT INTO posts (title, author, content, views, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			post.Title, post.Author, post.Content, post.Views, post.CreatedAt)
	}
	if err := row.Scan(&post.ID, &post.CreatedAt); err != nil {
		return unavailable("create post", err)
	}
	return nil
}

func (s *PostgresStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1`, id)
	return scanPost(row, "get post")
}

func (s *PostgresStorage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, unavailable("list posts", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.Content, &p.CreatedAt, &p.Views); err != nil {
			return nil, unavailable("list posts", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list posts", err)
	}

	return posts, nil
}

// GetPostAndRecordView выполняет инкремент и чтение одним запросом:
// параллельные вызовы упорядочены блокировкой строки, каждый видит свой инкремент
func (s *PostgresStorage) GetPostAndRecordView(ctx context.Context, id int64) (*models.Post, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE posts
		SET views = views + 1
		WHERE id = $1
		RETURNING `+postColumns, id)
	return scanPost(row, "record view")
}

func (s *PostgresStorage) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, submitted_at`,
		msg.Name, msg.Email, msg.Message).Scan(&msg.ID, &msg.SubmittedAt)
	if err != nil {
		return unavailable("create contact message", err)
	}
	return nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

func scanPost(row pgx.Row, op string) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Author, &p.Content, &p.CreatedAt, &p.Views)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, unavailable(op, err)
	}
	return &p, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
}
