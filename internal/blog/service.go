package blog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ButyrinIA/portfolio/internal/metrics"
	"github.com/ButyrinIA/portfolio/internal/models"
	"github.com/ButyrinIA/portfolio/internal/storage"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput отклоняет запрос до обращения к хранилищу.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError несет сообщение для клиента.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Service - операции блога и формы обратной связи поверх storage.Storage
type Service struct {
	Storage  storage.Storage
	validate *validator.Validate
}

// New создает новый Service
func New(storage storage.Storage) *Service {
	v := validator.New()
	_ = v.RegisterValidation("dotted_domain", dottedDomain)
	return &Service{Storage: storage, validate: v}
}

// ListPosts возвращает все посты, новые первыми
func (s *Service) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.Storage.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

// GetPost читает пост без изменения счетчика просмотров
func (s *Service) GetPost(ctx context.Context, rawID string) (*models.Post, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	post, err := s.Storage.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return post, nil
}

// GetPostAndRecordView засчитывает просмотр и возвращает пост после инкремента
func (s *Service) GetPostAndRecordView(ctx context.Context, rawID string) (*models.Post, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	post, err := s.Storage.GetPostAndRecordView(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to record view for post %d: %w", id, err)
	}
	metrics.PostViewsRecorded.Inc()
	return post, nil
}

// SubmitContact проверяет и сохраняет сообщение из формы обратной связи
func (s *Service) SubmitContact(ctx context.Context, name, email, message string) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}
	if err := s.validateContact(msg); err != nil {
		return nil, err
	}
	if err := s.Storage.CreateContactMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return msg, nil
}

// Ping проверяет доступность хранилища
func (s *Service) Ping(ctx context.Context) error {
	return s.Storage.Ping(ctx)
}

func (s *Service) validateContact(msg *models.ContactMessage) error {
	err := s.validate.Struct(msg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}

	// Сначала обязательные поля, затем формат
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return &ValidationError{Message: "Name, email, and message are required"}
		}
	}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "email", "dotted_domain":
			return &ValidationError{Message: "Invalid email format"}
		case "max":
			return &ValidationError{Message: fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())}
		}
	}
	return &ValidationError{Message: fieldErrs.Error()}
}

// dottedDomain требует точку внутри домена: a@b.c, но не a@localhost
func dottedDomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	domain := s[at+1:]
	return len(domain) >= 3 && strings.Contains(domain[1:len(domain)-1], ".")
}

// ParseID принимает только положительные десятичные идентификаторы без знака
// и ведущих нулей
func ParseID(raw string) (int64, error) {
	if !canonicalID(raw) {
		return 0, fmt.Errorf("%w: post id %q", ErrInvalidInput, raw)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: post id %q", ErrInvalidInput, raw)
	}
	return id, nil
}

func canonicalID(raw string) bool {
	if raw == "" || raw[0] < '1' || raw[0] > '9' {
		return false
	}
	for i := 1; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}
