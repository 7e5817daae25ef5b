package repository

import (
	"context"
	"errors"

	"github.com/bioweb/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSiteConfigRepository は SiteConfigRepository の PostgreSQL 実装。
// 行は id = 1 の 1 行のみ（CHECK 制約で保証）。
type PgSiteConfigRepository struct {
	pool *pgxpool.Pool
}

// NewPgSiteConfigRepository は PgSiteConfigRepository を生成する
func NewPgSiteConfigRepository(pool *pgxpool.Pool) *PgSiteConfigRepository {
	return &PgSiteConfigRepository{pool: pool}
}

var _ SiteConfigRepository = (*PgSiteConfigRepository)(nil)

const siteConfigColumns = `id, full_name, job_title, avatar_url, bio_summary, email, phone_number, address,
	github_url, linkedin_url, facebook_url, cv_file_path, view_count, version, updated_at`

func scanSiteConfig(row pgx.Row) (*model.SiteConfiguration, error) {
	var c model.SiteConfiguration
	if err := row.Scan(&c.ID, &c.FullName, &c.JobTitle, &c.AvatarURL, &c.BioSummary, &c.Email, &c.PhoneNumber,
		&c.Address, &c.GitHubURL, &c.LinkedInURL, &c.FacebookURL, &c.CVFilePath, &c.ViewCount, &c.Version,
		&c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ensure は設定行がなければ既定値で作成する。同時に呼ばれても二重作成しない
func (r *PgSiteConfigRepository) ensure(ctx context.Context) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO site_configuration (id, full_name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		model.SiteConfigurationID, model.DefaultFullName)
	return err
}

// Get は設定を取得する（初回アクセス時に作成）
func (r *PgSiteConfigRepository) Get(ctx context.Context) (*model.SiteConfiguration, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	return scanSiteConfig(r.pool.QueryRow(ctx,
		`SELECT `+siteConfigColumns+` FROM site_configuration WHERE id = $1`, model.SiteConfigurationID))
}

// Update は閲覧数以外の項目を更新する
func (r *PgSiteConfigRepository) Update(ctx context.Context, c *model.SiteConfiguration) error {
	if c.ID != model.SiteConfigurationID {
		return ErrNotFound
	}
	err := r.pool.QueryRow(ctx,
		`UPDATE site_configuration SET full_name = $2, job_title = $3, avatar_url = $4, bio_summary = $5,
			email = $6, phone_number = $7, address = $8, github_url = $9, linkedin_url = $10,
			facebook_url = $11, cv_file_path = $12, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND ($13 = 0 OR version = $13)
		 RETURNING view_count, version, updated_at`,
		c.ID, c.FullName, c.JobTitle, c.AvatarURL, c.BioSummary, c.Email, c.PhoneNumber, c.Address,
		c.GitHubURL, c.LinkedInURL, c.FacebookURL, c.CVFilePath, c.Version,
	).Scan(&c.ViewCount, &c.Version, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return missedUpdate(ctx, r.pool, "site_configuration", int64(c.ID))
	}
	return err
}

// Reset は全項目を既定値に戻し、閲覧数を 0 にする
func (r *PgSiteConfigRepository) Reset(ctx context.Context) (*model.SiteConfiguration, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	return scanSiteConfig(r.pool.QueryRow(ctx,
		`UPDATE site_configuration SET full_name = $2, job_title = '', avatar_url = '', bio_summary = '',
			email = '', phone_number = '', address = '', github_url = '', linkedin_url = '', facebook_url = '',
			cv_file_path = '', view_count = 0, version = version + 1, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+siteConfigColumns,
		model.SiteConfigurationID, model.DefaultFullName))
}

// IncrementViewCount は閲覧数を原子的に 1 増やす
func (r *PgSiteConfigRepository) IncrementViewCount(ctx context.Context) (int, error) {
	if err := r.ensure(ctx); err != nil {
		return 0, err
	}
	var n int
	err := r.pool.QueryRow(ctx,
		`UPDATE site_configuration SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`,
		model.SiteConfigurationID,
	).Scan(&n)
	return n, err
}

func (r *PgSiteConfigRepository) UpdateAvatarURL(ctx context.Context, url string) error {
	return r.updateColumn(ctx, "avatar_url", url)
}

func (r *PgSiteConfigRepository) UpdateCVPath(ctx context.Context, path string) error {
	return r.updateColumn(ctx, "cv_file_path", path)
}

// column は呼び出し側の定数のみ
func (r *PgSiteConfigRepository) updateColumn(ctx context.Context, column, value string) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE site_configuration SET `+column+` = $2, version = version + 1, updated_at = NOW() WHERE id = $1`,
		model.SiteConfigurationID, value)
	return err
}
