package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bioweb/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgArticleRepository は ArticleRepository の PostgreSQL 実装
type PgArticleRepository struct {
	pool *pgxpool.Pool
}

// NewPgArticleRepository は PgArticleRepository を生成する
func NewPgArticleRepository(pool *pgxpool.Pool) *PgArticleRepository {
	return &PgArticleRepository{pool: pool}
}

var _ ArticleRepository = (*PgArticleRepository)(nil)

const articleColumns = `a.id, a.title, a.content, a.thumbnail_url, a.is_published, a.category_id, c.name,
	a.version, a.created_at, a.updated_at`

func scanArticle(row pgx.Row) (*model.Article, error) {
	var a model.Article
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.ThumbnailURL, &a.IsPublished, &a.CategoryID,
		&a.CategoryName, &a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// List は記事一覧を新しい順に取得する
func (r *PgArticleRepository) List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error) {
	var conditions []string
	var args []any
	if opts.PublishedOnly {
		conditions = append(conditions, "a.is_published")
	}
	if opts.CategoryID != 0 {
		args = append(args, opts.CategoryID)
		conditions = append(conditions, fmt.Sprintf("a.category_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+articleColumns+` FROM articles a JOIN categories c ON c.id = a.category_id`+where+
			` ORDER BY a.created_at DESC, a.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetByID は ID で記事を取得する（公開状態は問わない）
func (r *PgArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	a, err := scanArticle(r.pool.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM articles a JOIN categories c ON c.id = a.category_id WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// Create は記事を作成し、カテゴリ名を含めて a を埋め直す
func (r *PgArticleRepository) Create(ctx context.Context, a *model.Article) error {
	err := r.pool.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO articles (title, content, thumbnail_url, is_published, category_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, category_id, version, created_at, updated_at
		 )
		 SELECT ins.id, c.name, ins.version, ins.created_at, ins.updated_at
		 FROM ins JOIN categories c ON c.id = ins.category_id`,
		a.Title, a.Content, a.ThumbnailURL, a.IsPublished, a.CategoryID,
	).Scan(&a.ID, &a.CategoryName, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return fmt.Errorf("category %d: %w", a.CategoryID, ErrInvalidReference)
	}
	return err
}

// Update は記事を更新する
func (r *PgArticleRepository) Update(ctx context.Context, a *model.Article) error {
	err := r.pool.QueryRow(ctx,
		`WITH upd AS (
			UPDATE articles SET title = $2, content = $3, thumbnail_url = $4, is_published = $5,
				category_id = $6, version = version + 1, updated_at = NOW()
			WHERE id = $1 AND ($7 = 0 OR version = $7)
			RETURNING category_id, version, created_at, updated_at
		 )
		 SELECT c.name, upd.version, upd.created_at, upd.updated_at
		 FROM upd JOIN categories c ON c.id = upd.category_id`,
		a.ID, a.Title, a.Content, a.ThumbnailURL, a.IsPublished, a.CategoryID, a.Version,
	).Scan(&a.CategoryName, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return fmt.Errorf("category %d: %w", a.CategoryID, ErrInvalidReference)
	case errors.Is(err, pgx.ErrNoRows):
		return missedUpdate(ctx, r.pool, "articles", a.ID)
	default:
		return err
	}
}

// Delete は記事を削除する
func (r *PgArticleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateThumbnail はサムネイル URL だけを差し替える
func (r *PgArticleRepository) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE articles SET thumbnail_url = $2, version = version + 1, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
