package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bioweb/backend/internal/metrics"
	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/validation"
	"github.com/bioweb/backend/internal/viewlimit"
)

// ProjectService はプロジェクトのビジネスロジックのインターフェース
type ProjectService interface {
	ListPublished(ctx context.Context) ([]*model.Project, error)
	// GetPublished returns a published project and counts the visit of client
	// at most once per cooldown window.
	GetPublished(ctx context.Context, id int64, client string) (*model.Project, error)

	ListAll(ctx context.Context) ([]*model.Project, error)
	Get(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, in ProjectInput) (*model.Project, error)
	Update(ctx context.Context, id int64, in ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id int64) error
	SetThumbnail(ctx context.Context, id int64, url string) error
}

type projectServiceImpl struct {
	repo    repository.ProjectRepository
	limiter viewlimit.Limiter
}

// NewProjectService は ProjectService を生成する（DI: ProjectRepository と Limiter を注入）
func NewProjectService(repo repository.ProjectRepository, limiter viewlimit.Limiter) ProjectService {
	return &projectServiceImpl{repo: repo, limiter: limiter}
}

func (s *projectServiceImpl) ListPublished(ctx context.Context) ([]*model.Project, error) {
	return s.repo.List(ctx, true)
}

func (s *projectServiceImpl) GetPublished(ctx context.Context, id int64, client string) (*model.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, ErrNotFound
	}

	// 閲覧数のカウント失敗は表示を妨げない
	ok, err := s.limiter.Allow(ctx, viewlimit.Key("project:"+strconv.FormatInt(id, 10), client))
	if err != nil {
		slog.Warn("view limiter failed", "project_id", id, "error", err)
		return p, nil
	}
	metrics.RecordView("project", ok)
	if !ok {
		return p, nil
	}
	n, err := s.repo.IncrementViewCount(ctx, id)
	if err != nil {
		slog.Warn("failed to increment project views", "project_id", id, "error", err)
		return p, nil
	}
	p.ViewCount = n
	return p, nil
}

func (s *projectServiceImpl) ListAll(ctx context.Context) ([]*model.Project, error) {
	return s.repo.List(ctx, false)
}

func (s *projectServiceImpl) Get(ctx context.Context, id int64) (*model.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func fromProjectInput(in ProjectInput) *model.Project {
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}
	return &model.Project{
		Name:         in.Name,
		Description:  in.Description,
		GitHubURL:    in.GitHubURL,
		ProjectURL:   in.ProjectURL,
		ThumbnailURL: in.ThumbnailURL,
		Technologies: in.Technologies,
		DisplayOrder: in.DisplayOrder,
		IsPublished:  published,
		Version:      in.Version,
	}
}

func (s *projectServiceImpl) Create(ctx context.Context, in ProjectInput) (*model.Project, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	p := fromProjectInput(in)
	p.Version = 0
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	slog.Info("project created", "project_id", p.ID)
	return p, nil
}

func (s *projectServiceImpl) Update(ctx context.Context, id int64, in ProjectInput) (*model.Project, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	p := fromProjectInput(in)
	p.ID = id
	if in.IsPublished == nil {
		// 省略時は現在の公開状態を維持する
		cur, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p.IsPublished = cur.IsPublished
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *projectServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("project deleted", "project_id", id)
	return nil
}

func (s *projectServiceImpl) SetThumbnail(ctx context.Context, id int64, url string) error {
	return s.repo.UpdateThumbnail(ctx, id, url)
}
