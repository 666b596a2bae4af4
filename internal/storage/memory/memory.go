package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ButyrinIA/portfolio/internal/models"
	"github.com/ButyrinIA/portfolio/internal/storage"
)

type MemoryStorage struct {
	posts    map[int64]*models.Post
	messages []*models.ContactMessage
	nextPost int64
	nextMsg  int64
	closed   bool
	mu       sync.RWMutex
}

func New() *MemoryStorage {
	return &MemoryStorage{
		posts: make(map[int64]*models.Post),
	}
}

func (s *MemoryStorage) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrUnavailable
	}

	if post.ID == 0 {
		s.nextPost++
		post.ID = s.nextPost
	} else if _, exists := s.posts[post.ID]; exists {
		return fmt.Errorf("post %d already exists", post.ID)
	}
	if post.ID > s.nextPost {
		s.nextPost = post.ID
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *MemoryStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrUnavailable
	}

	post, exists := s.posts[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	out := *post
	return &out, nil
}

func (s *MemoryStorage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrUnavailable
	}

	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		p := *post
		posts = append(posts, &p)
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

func (s *MemoryStorage) GetPostAndRecordView(ctx context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storage.ErrUnavailable
	}

	post, exists := s.posts[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	post.Views++

	out := *post
	return &out, nil
}

func (s *MemoryStorage) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrUnavailable
	}

	s.nextMsg++
	msg.ID = s.nextMsg
	msg.SubmittedAt = time.Now().UTC()

	stored := *msg
	s.messages = append(s.messages, &stored)
	return nil
}

// ContactMessages возвращает копии сообщений в порядке отправки
func (s *MemoryStorage) ContactMessages() []models.ContactMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ContactMessage, len(s.messages))
	for i, m := range s.messages {
		out[i] = *m
	}
	return out
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.ErrUnavailable
	}
	return nil
}

func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = make(map[int64]*models.Post)
	s.messages = nil
	s.closed = true
	return nil
}
