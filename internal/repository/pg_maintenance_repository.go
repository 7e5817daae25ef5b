package repository

import (
	"context"
	"fmt"

	"github.com/bioweb/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgMaintenanceRepository は MaintenanceRepository の PostgreSQL 実装
type PgMaintenanceRepository struct {
	pool *pgxpool.Pool
}

// NewPgMaintenanceRepository は PgMaintenanceRepository を生成する
func NewPgMaintenanceRepository(pool *pgxpool.Pool) *PgMaintenanceRepository {
	return &PgMaintenanceRepository{pool: pool}
}

var _ MaintenanceRepository = (*PgMaintenanceRepository)(nil)

// Counts はテーブルごとの行数を返す
func (r *PgMaintenanceRepository) Counts(ctx context.Context) (*model.DataCounts, error) {
	var c model.DataCounts
	err := r.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM admin_users),
		        (SELECT COUNT(*) FROM site_configuration),
		        (SELECT COUNT(*) FROM categories),
		        (SELECT COUNT(*) FROM articles),
		        (SELECT COUNT(*) FROM projects),
		        (SELECT COUNT(*) FROM contact_messages)`,
	).Scan(&c.AdminUsers, &c.SiteConfigurations, &c.Categories, &c.Articles, &c.Projects, &c.ContactMessages)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// 外部キーの順に削除する
var deleteOrder = []string{
	"articles",
	"contact_messages",
	"projects",
	"categories",
	"site_configuration",
	"admin_users",
}

// DeleteAll は全データを 1 トランザクションで削除する
func (r *PgMaintenanceRepository) DeleteAll(ctx context.Context) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, table := range deleteOrder {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		return nil
	})
}
