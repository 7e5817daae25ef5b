package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bioweb/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgCategoryRepository は CategoryRepository の PostgreSQL 実装
type PgCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPgCategoryRepository は PgCategoryRepository を生成する
func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{pool: pool}
}

var _ CategoryRepository = (*PgCategoryRepository)(nil)

const categorySelect = `SELECT c.id, c.name, c.version, c.created_at, COUNT(a.id)
	FROM categories c LEFT JOIN articles a ON a.category_id = c.id`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Version, &c.CreatedAt, &c.ArticleCount); err != nil {
		return nil, err
	}
	return &c, nil
}

// List はカテゴリ一覧を記事数付きで取得する
func (r *PgCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.pool.Query(ctx, categorySelect+` GROUP BY c.id ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID は ID でカテゴリを取得する
func (r *PgCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, categorySelect+` WHERE c.id = $1 GROUP BY c.id`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// Create はカテゴリを作成する
func (r *PgCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, version, created_at`,
		c.Name,
	).Scan(&c.ID, &c.Version, &c.CreatedAt)
	c.ArticleCount = 0
	return err
}

// Update はカテゴリ名を更新する
func (r *PgCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $2, version = version + 1
		 WHERE id = $1 AND ($3 = 0 OR version = $3)
		 RETURNING version`,
		c.ID, c.Name, c.Version,
	).Scan(&c.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return missedUpdate(ctx, r.pool, "categories", c.ID)
	}
	return err
}

// Delete はカテゴリを削除する。記事が残っている場合は ErrInUse
func (r *PgCategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category %d: %w", id, ErrInUse)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountArticles はカテゴリに属する記事数を返す
func (r *PgCategoryRepository) CountArticles(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE category_id = $1`, id).Scan(&n)
	return n, err
}
