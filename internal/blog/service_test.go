package blog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ButyrinIA/portfolio/internal/metrics"
	"github.com/ButyrinIA/portfolio/internal/models"
	"github.com/ButyrinIA/portfolio/internal/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// мок для интерфейса storage.Storage
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) CreatePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockStorage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockStorage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *mockStorage) GetPostAndRecordView(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockStorage) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestListPosts(t *testing.T) {
	store := &mockStorage{}
	createdAt := time.Now()
	posts := []*models.Post{
		{ID: 2, Title: "Новый", Author: "user1", CreatedAt: createdAt},
		{ID: 1, Title: "Старый", Author: "user1", CreatedAt: createdAt.Add(-time.Hour)},
	}
	store.On("ListPosts", mock.Anything).Return(posts, nil)

	svc := New(store)
	result, err := svc.ListPosts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, posts, result)
	store.AssertExpectations(t)
}

func TestListPosts_Empty(t *testing.T) {
	store := &mockStorage{}
	store.On("ListPosts", mock.Anything).Return(([]*models.Post)(nil), nil)

	result, err := New(store).ListPosts(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestListPosts_Error(t *testing.T) {
	store := &mockStorage{}
	store.On("ListPosts", mock.Anything).Return(([]*models.Post)(nil), storage.ErrUnavailable)

	result, err := New(store).ListPosts(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Equal(t, "failed to list posts: storage unavailable", err.Error())
	store.AssertExpectations(t)
}

func TestGetPost(t *testing.T) {
	store := &mockStorage{}
	post := &models.Post{ID: 1, Title: "Тестовый пост", Views: 5}
	store.On("GetPost", mock.Anything, int64(1)).Return(post, nil)

	result, err := New(store).GetPost(context.Background(), "1")
	assert.NoError(t, err)
	assert.Equal(t, post, result)
	store.AssertNotCalled(t, "GetPostAndRecordView", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestGetPost_NotFound(t *testing.T) {
	store := &mockStorage{}
	store.On("GetPost", mock.Anything, int64(999)).Return((*models.Post)(nil), storage.ErrNotFound)

	_, err := New(store).GetPost(context.Background(), "999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	store.AssertExpectations(t)
}

func TestInvalidIDNeverReachesStorage(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-3", "+5", "007", " 1", "1.5", "99999999999999999999"} {
		t.Run(raw, func(t *testing.T) {
			store := &mockStorage{}
			svc := New(store)

			_, err := svc.GetPost(context.Background(), raw)
			assert.ErrorIs(t, err, ErrInvalidInput)

			_, err = svc.GetPostAndRecordView(context.Background(), raw)
			assert.ErrorIs(t, err, ErrInvalidInput)

			store.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "GetPostAndRecordView", mock.Anything, mock.Anything)
		})
	}
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]int64{"1": 1, "42": 42, "9223372036854775807": 9223372036854775807} {
		id, err := ParseID(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, id)
	}
}

func TestDottedDomainEmail(t *testing.T) {
	svc := New(&mockStorage{})
	for email, ok := range map[string]bool{
		"ivan@example.com":   true,
		"a@mail.example.org": true,
		"ivan@localhost":     false,
		"ivan@example.":      false,
	} {
		err := svc.validate.Struct(&models.ContactMessage{Name: "Иван", Email: email, Message: "Привет"})
		assert.Equal(t, ok, err == nil, email)
	}
}

func TestGetPostAndRecordView(t *testing.T) {
	store := &mockStorage{}
	post := &models.Post{ID: 1, Title: "Тестовый пост", Content: "Содержимое", Views: 6}
	store.On("GetPostAndRecordView", mock.Anything, int64(1)).Return(post, nil)

	before := testutil.ToFloat64(metrics.PostViewsRecorded)
	result, err := New(store).GetPostAndRecordView(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, post, result)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PostViewsRecorded))
	store.AssertExpectations(t)
}

func TestGetPostAndRecordView_Errors(t *testing.T) {
	for _, sentinel := range []error{storage.ErrNotFound, storage.ErrUnavailable} {
		store := &mockStorage{}
		store.On("GetPostAndRecordView", mock.Anything, int64(42)).Return((*models.Post)(nil), sentinel)

		before := testutil.ToFloat64(metrics.PostViewsRecorded)
		_, err := New(store).GetPostAndRecordView(context.Background(), "42")
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, before, testutil.ToFloat64(metrics.PostViewsRecorded), "Неудачный вызов не должен учитываться")
	}
}

func TestSubmitContact(t *testing.T) {
	store := &mockStorage{}
	store.On("CreateContactMessage", mock.Anything, mock.AnythingOfType("*models.ContactMessage")).
		Run(func(args mock.Arguments) {
			msg := args.Get(1).(*models.ContactMessage)
			msg.ID = 10
			msg.SubmittedAt = time.Now()
		}).
		Return(nil)

	msg, err := New(store).SubmitContact(context.Background(), "  Иван ", "ivan@example.com", "Привет")
	require.NoError(t, err)
	assert.Equal(t, int64(10), msg.ID)
	assert.Equal(t, "Иван", msg.Name)
	store.AssertExpectations(t)
}

func TestSubmitContact_Validation(t *testing.T) {
	cases := []struct {
		name, email, message string
		want                 string
	}{
		{"", "ivan@example.com", "Привет", "Name, email, and message are required"},
		{"Иван", "   ", "Привет", "Name, email, and message are required"},
		{"Иван", "ivan@example.com", "", "Name, email, and message are required"},
		{"Иван", "not-an-email", "Привет", "Invalid email format"},
		{"Иван", "ivan@localhost", "Привет", "Invalid email format"},
		{"Иван", "ivan@example.com", strings.Repeat("a", 5001), "Message must be at most 5000 characters"},
	}
	for _, tc := range cases {
		store := &mockStorage{}
		_, err := New(store).SubmitContact(context.Background(), tc.name, tc.email, tc.message)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "ожидалась ValidationError, получено %v", err)
		assert.Equal(t, tc.want, verr.Message)
		assert.ErrorIs(t, err, ErrInvalidInput)
		store.AssertNotCalled(t, "CreateContactMessage", mock.Anything, mock.Anything)
	}
}

func TestSubmitContact_StorageError(t *testing.T) {
	store := &mockStorage{}
	store.On("CreateContactMessage", mock.Anything, mock.Anything).Return(storage.ErrUnavailable)

	_, err := New(store).SubmitContact(context.Background(), "Иван", "ivan@example.com", "Привет")
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}
