package service

import (
	"context"
	"log/slog"

	"github.com/bioweb/backend/internal/metrics"
	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/validation"
	"github.com/bioweb/backend/internal/viewlimit"
)

// SiteConfigService はサイト設定（プロフィール・連絡先・訪問数）のインターフェース
type SiteConfigService interface {
	Get(ctx context.Context) (*model.SiteConfiguration, error)
	Public(ctx context.Context) (*model.PublicProfile, error)
	AboutMe(ctx context.Context) (*model.AboutMe, error)
	ContactInfo(ctx context.Context) (*model.ContactInfo, error)

	// Update replaces every editable field. id must be the singleton's id.
	Update(ctx context.Context, id int, in SiteConfigInput) (*model.SiteConfiguration, error)
	UpdateAboutMe(ctx context.Context, in AboutMeInput) (*model.SiteConfiguration, error)
	UpdateContactInfo(ctx context.Context, in ContactInfoInput) (*model.SiteConfiguration, error)
	// Reset restores the defaults and zeroes the visit counter.
	Reset(ctx context.Context, id int) (*model.SiteConfiguration, error)

	// RegisterView counts a site visit of client at most once per cooldown window.
	RegisterView(ctx context.Context, client string) (*model.ViewResult, error)

	SetAvatar(ctx context.Context, url string) error
	SetCV(ctx context.Context, path string) error
	CVPath(ctx context.Context) (string, error)
}

type siteConfigServiceImpl struct {
	repo    repository.SiteConfigRepository
	limiter viewlimit.Limiter
}

// NewSiteConfigService は SiteConfigService を生成する
func NewSiteConfigService(repo repository.SiteConfigRepository, limiter viewlimit.Limiter) SiteConfigService {
	return &siteConfigServiceImpl{repo: repo, limiter: limiter}
}

func (s *siteConfigServiceImpl) Get(ctx context.Context) (*model.SiteConfiguration, error) {
	return s.repo.Get(ctx)
}

func (s *siteConfigServiceImpl) Public(ctx context.Context) (*model.PublicProfile, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	p := cfg.PublicProfile()
	return &p, nil
}

func (s *siteConfigServiceImpl) AboutMe(ctx context.Context) (*model.AboutMe, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	a := cfg.AboutMe()
	return &a, nil
}

func (s *siteConfigServiceImpl) ContactInfo(ctx context.Context) (*model.ContactInfo, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	c := cfg.ContactInfo()
	return &c, nil
}

func (s *siteConfigServiceImpl) Update(ctx context.Context, id int, in SiteConfigInput) (*model.SiteConfiguration, error) {
	if id != model.SiteConfigurationID {
		return nil, ErrNotFound
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.ApplyAboutMe(model.AboutMe{
		FullName:   in.FullName,
		JobTitle:   in.JobTitle,
		AvatarURL:  in.AvatarURL,
		BioSummary: in.BioSummary,
	})
	cfg.ApplyContactInfo(model.ContactInfo{
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		GitHubURL:   in.GitHubURL,
		LinkedInURL: in.LinkedInURL,
		FacebookURL: in.FacebookURL,
	})
	cfg.CVFilePath = in.CVFilePath
	return s.save(ctx, cfg, in.Version)
}

func (s *siteConfigServiceImpl) UpdateAboutMe(ctx context.Context, in AboutMeInput) (*model.SiteConfiguration, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.ApplyAboutMe(model.AboutMe{
		FullName:   in.FullName,
		JobTitle:   in.JobTitle,
		AvatarURL:  in.AvatarURL,
		BioSummary: in.BioSummary,
	})
	return s.save(ctx, cfg, in.Version)
}

func (s *siteConfigServiceImpl) UpdateContactInfo(ctx context.Context, in ContactInfoInput) (*model.SiteConfiguration, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.ApplyContactInfo(model.ContactInfo{
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		GitHubURL:   in.GitHubURL,
		LinkedInURL: in.LinkedInURL,
		FacebookURL: in.FacebookURL,
	})
	return s.save(ctx, cfg, in.Version)
}

// save はクライアントが読んだ version を使って更新する（0 はチェックなし）
func (s *siteConfigServiceImpl) save(ctx context.Context, cfg *model.SiteConfiguration, version int) (*model.SiteConfiguration, error) {
	cfg.Version = version
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	slog.Info("site configuration updated", "version", cfg.Version)
	return cfg, nil
}

func (s *siteConfigServiceImpl) Reset(ctx context.Context, id int) (*model.SiteConfiguration, error) {
	if id != model.SiteConfigurationID {
		return nil, ErrNotFound
	}
	cfg, err := s.repo.Reset(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("site configuration reset")
	return cfg, nil
}

func (s *siteConfigServiceImpl) RegisterView(ctx context.Context, client string) (*model.ViewResult, error) {
	ok, err := s.limiter.Allow(ctx, viewlimit.Key("site", client))
	if err != nil {
		return nil, err
	}
	metrics.RecordView("site", ok)
	if ok {
		n, err := s.repo.IncrementViewCount(ctx)
		if err != nil {
			return nil, err
		}
		return &model.ViewResult{ViewCount: n, Counted: true}, nil
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &model.ViewResult{ViewCount: cfg.ViewCount}, nil
}

func (s *siteConfigServiceImpl) SetAvatar(ctx context.Context, url string) error {
	return s.repo.UpdateAvatarURL(ctx, url)
}

func (s *siteConfigServiceImpl) SetCV(ctx context.Context, path string) error {
	return s.repo.UpdateCVPath(ctx, path)
}

func (s *siteConfigServiceImpl) CVPath(ctx context.Context) (string, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return cfg.CVFilePath, nil
}
