package storage

import (
	"context"
	"errors"

	"github.com/ButyrinIA/portfolio/internal/models"
)

var (
	ErrNotFound    = errors.New("post not found")
	ErrUnavailable = errors.New("storage unavailable")
)

type Storage interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context) ([]*models.Post, error)
	// GetPostAndRecordView увеличивает views и возвращает пост после
	// инкремента; обновление и чтение - один атомарный шаг
	GetPostAndRecordView(ctx context.Context, id int64) (*models.Post, error)
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
	Ping(ctx context.Context) error
	Close() error
}
