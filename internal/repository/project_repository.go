package repository

import (
	"context"

	"github.com/bioweb/backend/internal/model"
)

// ProjectRepository はプロジェクト永続化のインターフェース
type ProjectRepository interface {
	// List returns projects ordered by display order.
	List(ctx context.Context, publishedOnly bool) ([]*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id int64) error
	// IncrementViewCount atomically bumps the counter and returns the new value.
	IncrementViewCount(ctx context.Context, id int64) (int, error)
	UpdateThumbnail(ctx context.Context, id int64, url string) error
}
