package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/validation"
)

const (
	defaultContactLimit = 20
	maxContactLimit     = 100
)

// ContactService はお問い合わせメッセージのビジネスロジックのインターフェース
type ContactService interface {
	Submit(ctx context.Context, in ContactSubmitInput) (*model.ContactMessage, error)
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	// Get returns the message and marks it read.
	Get(ctx context.Context, id int64) (*model.ContactMessage, error)
	Update(ctx context.Context, id int64, in ContactUpdateInput) (*model.ContactMessage, error)
	Delete(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context) (int, error)
}

type contactServiceImpl struct {
	repo repository.ContactRepository
}

// NewContactService は ContactService を生成する
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

func (s *contactServiceImpl) Submit(ctx context.Context, in ContactSubmitInput) (*model.ContactMessage, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, fieldError("message", "message is required")
	}
	msg := &model.ContactMessage{FullName: in.FullName, Email: in.Email, Message: in.Message}
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}
	slog.Info("contact message received", "contact_id", msg.ID)
	return msg, nil
}

// List は status を正規化し、limit を 1..100（既定 20）に丸める
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	switch opts.Status {
	case "", "all", "read", "unread":
	default:
		return nil, fieldError("status", "status must be one of all, read, unread")
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultContactLimit
	}
	if opts.Limit > maxContactLimit {
		opts.Limit = maxContactLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, opts)
}

func (s *contactServiceImpl) Get(ctx context.Context, id int64) (*model.ContactMessage, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *contactServiceImpl) Update(ctx context.Context, id int64, in ContactUpdateInput) (*model.ContactMessage, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	msg := &model.ContactMessage{
		ID:       id,
		FullName: in.FullName,
		Email:    in.Email,
		IsRead:   in.IsRead,
		Version:  in.Version,
	}
	if err := s.repo.Update(ctx, msg); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *contactServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *contactServiceImpl) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}
