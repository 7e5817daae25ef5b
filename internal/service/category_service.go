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

// CategoryService はカテゴリのビジネスロジックのインターフェース
type CategoryService interface {
	List(ctx context.Context) ([]*model.Category, error)
	Get(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*model.Category, error)
	// Delete fails with ErrCategoryInUse while articles reference the category.
	Delete(ctx context.Context, id int64) error
}

type categoryServiceImpl struct {
	repo repository.CategoryRepository
}

// NewCategoryService は CategoryService を生成する（DI: CategoryRepository を注入）
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryServiceImpl{repo: repo}
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*model.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryServiceImpl) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryServiceImpl) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	c := &model.Category{Name: in.Name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	slog.Info("category created", "category_id", c.ID)
	return c, nil
}

func (s *categoryServiceImpl) Update(ctx context.Context, id int64, in CategoryInput) (*model.Category, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	c := &model.Category{ID: id, Name: in.Name, Version: in.Version}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete は記事数を先に確認し、残っていれば削除しない。
// 確認と削除の間に記事が追加された場合も FK (RESTRICT) が ErrInUse を返す。
func (s *categoryServiceImpl) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.CountArticles(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return ErrCategoryInUse
		}
		return err
	}
	slog.Info("category deleted", "category_id", id)
	return nil
}
