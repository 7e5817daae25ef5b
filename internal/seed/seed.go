// Package seed は初期データの投入・再投入・件数確認を行う。
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/pkg/auth"
)

// Admin is the account created on an empty admin table. Seeding skips the
// account when either field is empty.
type Admin struct {
	Username string
	Password string
}

// Repositories groups the stores the seeder writes to.
type Repositories struct {
	Admins      repository.AdminUserRepository
	Site        repository.SiteConfigRepository
	Categories  repository.CategoryRepository
	Articles    repository.ArticleRepository
	Projects    repository.ProjectRepository
	Maintenance repository.MaintenanceRepository
}

// Seeder は各テーブルが空のときだけサンプルデータを投入する
type Seeder struct {
	repos Repositories
	admin Admin
}

func New(repos Repositories, admin Admin) *Seeder {
	return &Seeder{repos: repos, admin: admin}
}

// Counts はテーブルごとの件数を返す
func (s *Seeder) Counts(ctx context.Context) (*model.DataCounts, error) {
	return s.repos.Maintenance.Counts(ctx)
}

// Reset は全データを削除してから Seed をやり直す
func (s *Seeder) Reset(ctx context.Context) (*model.DataCounts, error) {
	if err := s.repos.Maintenance.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("delete all: %w", err)
	}
	slog.Warn("all content deleted for reseed")
	return s.Seed(ctx)
}

// Seed はテーブルごとに冪等。既にデータがあるテーブルには触らない
func (s *Seeder) Seed(ctx context.Context) (*model.DataCounts, error) {
	counts, err := s.repos.Maintenance.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	steps := []struct {
		name  string
		empty bool
		run   func(context.Context) error
	}{
		{"admin_users", counts.AdminUsers == 0, s.seedAdmin},
		{"site_configuration", counts.SiteConfigurations == 0, s.seedSiteConfiguration},
		{"categories", counts.Categories == 0, s.seedCategories},
		{"projects", counts.Projects == 0, s.seedProjects},
		{"articles", counts.Articles == 0, s.seedArticles},
	}
	for _, step := range steps {
		if !step.empty {
			slog.Debug("seed skipped, table not empty", "table", step.name)
			continue
		}
		if err := step.run(ctx); err != nil {
			return nil, fmt.Errorf("seed %s: %w", step.name, err)
		}
		slog.Info("seeded", "table", step.name)
	}
	return s.repos.Maintenance.Counts(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.admin.Username == "" || s.admin.Password == "" {
		slog.Warn("no admin credentials configured, admin account not seeded")
		return nil
	}
	hash, err := auth.HashPasswordStrong(s.admin.Password)
	if err != nil {
		return err
	}
	return s.repos.Admins.Create(ctx, &model.AdminUser{Username: s.admin.Username, PasswordHash: hash})
}

func (s *Seeder) seedSiteConfiguration(ctx context.Context) error {
	cfg, err := s.repos.Site.Get(ctx)
	if err != nil {
		return err
	}
	cfg.FullName = "Site Owner"
	cfg.JobTitle = "Full-stack Developer"
	cfg.BioSummary = "Welcome to my personal site. Edit this profile from the admin page."
	cfg.Email = "owner@example.com"
	cfg.GitHubURL = "https://github.com/"
	cfg.Version = 0
	return s.repos.Site.Update(ctx, cfg)
}

var sampleCategories = []string{"Programming", "Tutorials", "Personal"}

func (s *Seeder) seedCategories(ctx context.Context) error {
	for _, name := range sampleCategories {
		if err := s.repos.Categories.Create(ctx, &model.Category{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

var sampleProjects = []model.Project{
	{
		Name:         "Bio Website",
		Description:  "Personal portfolio site with a blog and an admin area.",
		Technologies: "Go, PostgreSQL, React",
		DisplayOrder: 1,
		IsPublished:  true,
	},
	{
		Name:         "Quiz App",
		Description:  "Mobile and web multiple-choice quiz application.",
		Technologies: "Vue, Flutter, SQL",
		DisplayOrder: 2,
		IsPublished:  true,
	},
}

func (s *Seeder) seedProjects(ctx context.Context) error {
	for _, p := range sampleProjects {
		if err := s.repos.Projects.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}

// seedArticles は最初のカテゴリにサンプル記事を作る。カテゴリが無ければ何もしない
func (s *Seeder) seedArticles(ctx context.Context) error {
	cats, err := s.repos.Categories.List(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return nil
	}
	categoryID := cats[0].ID
	for _, c := range cats {
		if c.Name == sampleCategories[0] {
			categoryID = c.ID
			break
		}
	}

	articles := []*model.Article{
		{
			Title:       "Welcome to the bio website",
			Content:     "This is the first post on this site.",
			IsPublished: true,
			CategoryID:  categoryID,
		},
		{
			Title:       "Learning journey",
			Content:     "Notes on moving from mobile development to the web.",
			IsPublished: true,
			CategoryID:  categoryID,
		},
	}
	for _, a := range articles {
		if err := s.repos.Articles.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
