package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/validation"
)

// ArticleService は記事のビジネスロジックのインターフェース
type ArticleService interface {
	ListPublished(ctx context.Context) ([]*model.Article, error)
	// GetPublished hides drafts behind ErrNotFound.
	GetPublished(ctx context.Context, id int64) (*model.Article, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*model.Article, error)

	ListAll(ctx context.Context) ([]*model.Article, error)
	Get(ctx context.Context, id int64) (*model.Article, error)
	Create(ctx context.Context, in ArticleInput) (*model.Article, error)
	Update(ctx context.Context, id int64, in ArticleInput) (*model.Article, error)
	Delete(ctx context.Context, id int64) error
	SetThumbnail(ctx context.Context, id int64, url string) error
}

type articleServiceImpl struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
}

// NewArticleService は ArticleService を生成する
func NewArticleService(articles repository.ArticleRepository, categories repository.CategoryRepository) ArticleService {
	return &articleServiceImpl{articles: articles, categories: categories}
}

func (s *articleServiceImpl) ListPublished(ctx context.Context) ([]*model.Article, error) {
	return s.articles.List(ctx, model.ArticleListOptions{PublishedOnly: true})
}

func (s *articleServiceImpl) GetPublished(ctx context.Context, id int64) (*model.Article, error) {
	a, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsPublished {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *articleServiceImpl) ListByCategory(ctx context.Context, categoryID int64) ([]*model.Article, error) {
	return s.articles.List(ctx, model.ArticleListOptions{PublishedOnly: true, CategoryID: categoryID})
}

func (s *articleServiceImpl) ListAll(ctx context.Context) ([]*model.Article, error) {
	return s.articles.List(ctx, model.ArticleListOptions{})
}

func (s *articleServiceImpl) Get(ctx context.Context, id int64) (*model.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// checkCategory はカテゴリの存在を確認する
func (s *articleServiceImpl) checkCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCategory
		}
		return fmt.Errorf("get category: %w", err)
	}
	return nil
}

func (s *articleServiceImpl) Create(ctx context.Context, in ArticleInput) (*model.Article, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	a := &model.Article{
		Title:        in.Title,
		Content:      in.Content,
		ThumbnailURL: in.ThumbnailURL,
		IsPublished:  in.IsPublished,
		CategoryID:   in.CategoryID,
	}
	if err := s.articles.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, ErrInvalidCategory
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	slog.Info("article created", "article_id", a.ID, "category_id", a.CategoryID)
	return s.articles.GetByID(ctx, a.ID)
}

func (s *articleServiceImpl) Update(ctx context.Context, id int64, in ArticleInput) (*model.Article, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	a := &model.Article{
		ID:           id,
		Title:        in.Title,
		Content:      in.Content,
		ThumbnailURL: in.ThumbnailURL,
		IsPublished:  in.IsPublished,
		CategoryID:   in.CategoryID,
		Version:      in.Version,
	}
	if err := s.articles.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, ErrInvalidCategory
		}
		return nil, err
	}
	return s.articles.GetByID(ctx, id)
}

func (s *articleServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("article deleted", "article_id", id)
	return nil
}

func (s *articleServiceImpl) SetThumbnail(ctx context.Context, id int64, url string) error {
	return s.articles.UpdateThumbnail(ctx, id, url)
}
