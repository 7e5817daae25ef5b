package repository

import (
	"context"
	"errors"

	"github.com/bioweb/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgProjectRepository は ProjectRepository の PostgreSQL 実装
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgProjectRepository は PgProjectRepository を生成する
func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

var _ ProjectRepository = (*PgProjectRepository)(nil)

const projectColumns = `id, name, description, github_url, project_url, thumbnail_url, technologies,
	display_order, is_published, view_count, version, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.GitHubURL, &p.ProjectURL, &p.ThumbnailURL,
		&p.Technologies, &p.DisplayOrder, &p.IsPublished, &p.ViewCount, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// List はプロジェクト一覧を表示順で取得する
func (r *PgProjectRepository) List(ctx context.Context, publishedOnly bool) ([]*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if publishedOnly {
		query += ` WHERE is_published`
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetByID は ID でプロジェクトを取得する
func (r *PgProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// Create はプロジェクトを作成する
func (r *PgProjectRepository) Create(ctx context.Context, p *model.Project) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO projects (name, description, github_url, project_url, thumbnail_url, technologies, display_order, is_published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, view_count, version, created_at, updated_at`,
		p.Name, p.Description, p.GitHubURL, p.ProjectURL, p.ThumbnailURL, p.Technologies, p.DisplayOrder, p.IsPublished,
	).Scan(&p.ID, &p.ViewCount, &p.Version, &p.CreatedAt, &p.UpdatedAt)
}

// Update はプロジェクトを更新する（閲覧数は変更しない）
func (r *PgProjectRepository) Update(ctx context.Context, p *model.Project) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE projects SET name = $2, description = $3, github_url = $4, project_url = $5, thumbnail_url = $6,
			technologies = $7, display_order = $8, is_published = $9, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND ($10 = 0 OR version = $10)
		 RETURNING view_count, version, created_at, updated_at`,
		p.ID, p.Name, p.Description, p.GitHubURL, p.ProjectURL, p.ThumbnailURL, p.Technologies, p.DisplayOrder,
		p.IsPublished, p.Version,
	).Scan(&p.ViewCount, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return missedUpdate(ctx, r.pool, "projects", p.ID)
	}
	return err
}

// Delete はプロジェクトを削除する
func (r *PgProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViewCount は閲覧数を原子的に 1 増やす
func (r *PgProjectRepository) IncrementViewCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`UPDATE projects SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`, id,
	).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return n, err
}

// UpdateThumbnail はサムネイル URL だけを差し替える
func (r *PgProjectRepository) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET thumbnail_url = $2, version = version + 1, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
