package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bioweb/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgAdminUserRepository は AdminUserRepository の PostgreSQL 実装
type PgAdminUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgAdminUserRepository は PgAdminUserRepository を生成する
func NewPgAdminUserRepository(pool *pgxpool.Pool) *PgAdminUserRepository {
	return &PgAdminUserRepository{pool: pool}
}

var _ AdminUserRepository = (*PgAdminUserRepository)(nil)

const adminUserColumns = `id, username, password_hash, last_login, created_at`

func scanAdminUser(row pgx.Row) (*model.AdminUser, error) {
	var u model.AdminUser
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.LastLogin, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByUsername はユーザー名で管理者を取得する
func (r *PgAdminUserRepository) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	return scanAdminUser(r.pool.QueryRow(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE username = $1`, username))
}

// FindByID は ID で管理者を取得する
func (r *PgAdminUserRepository) FindByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	return scanAdminUser(r.pool.QueryRow(ctx,
		`SELECT `+adminUserColumns+` FROM admin_users WHERE id = $1`, id))
}

// Create は管理者を作成する
func (r *PgAdminUserRepository) Create(ctx context.Context, user *model.AdminUser) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (username, password_hash) VALUES ($1, $2)
		 RETURNING id, created_at`,
		user.Username, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
}

// UpdateLastLogin は最終ログイン日時を記録する
func (r *PgAdminUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE admin_users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePasswordHash はパスワードハッシュを差し替える
func (r *PgAdminUserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE admin_users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgAdminUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n)
	return n, err
}
