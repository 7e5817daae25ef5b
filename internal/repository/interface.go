package repository

import (
	"context"
	"time"

	"github.com/bioweb/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// AdminUserRepository は管理者アカウント永続化のインターフェース
type AdminUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	FindByID(ctx context.Context, id int64) (*model.AdminUser, error)
	Create(ctx context.Context, user *model.AdminUser) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Count(ctx context.Context) (int, error)
}

// CategoryRepository はカテゴリ永続化のインターフェース
type CategoryRepository interface {
	// List returns every category with its article count.
	List(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	// Update renames the category. c.Version == 0 skips the version check.
	Update(ctx context.Context, c *model.Category) error
	// Delete returns ErrInUse while articles still reference the category.
	Delete(ctx context.Context, id int64) error
	CountArticles(ctx context.Context, id int64) (int, error)
}

// ArticleRepository は記事永続化のインターフェース
type ArticleRepository interface {
	// List returns articles newest first.
	List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error)
	GetByID(ctx context.Context, id int64) (*model.Article, error)
	// Create returns ErrInvalidReference when the category does not exist.
	Create(ctx context.Context, a *model.Article) error
	Update(ctx context.Context, a *model.Article) error
	Delete(ctx context.Context, id int64) error
	UpdateThumbnail(ctx context.Context, id int64, url string) error
}

// SiteConfigRepository はサイト設定（単一行）永続化のインターフェース
type SiteConfigRepository interface {
	// Get returns the singleton row, creating it with defaults on first access.
	Get(ctx context.Context) (*model.SiteConfiguration, error)
	Update(ctx context.Context, cfg *model.SiteConfiguration) error
	// Reset restores defaults and zeroes the view counter.
	Reset(ctx context.Context) (*model.SiteConfiguration, error)
	// IncrementViewCount atomically bumps the counter and returns the new value.
	IncrementViewCount(ctx context.Context) (int, error)
	UpdateAvatarURL(ctx context.Context, url string) error
	UpdateCVPath(ctx context.Context, path string) error
}

// MaintenanceRepository covers whole-database chores used by seeding.
type MaintenanceRepository interface {
	Counts(ctx context.Context) (*model.DataCounts, error)
	// DeleteAll removes every content row in foreign-key order.
	DeleteAll(ctx context.Context) error
}
