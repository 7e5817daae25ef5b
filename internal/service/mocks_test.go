package service

import (
	"context"
	"time"

	"github.com/bioweb/backend/internal/model"
)

// ---------------------------------------------------------------------------
// mockAdminUserRepository
// ---------------------------------------------------------------------------

type mockAdminUserRepository struct {
	findByUsernameFunc     func(ctx context.Context, username string) (*model.AdminUser, error)
	updateLastLoginFunc    func(ctx context.Context, id int64, at time.Time) error
	updatePasswordHashFunc func(ctx context.Context, id int64, hash string) error
}

func (m *mockAdminUserRepository) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, ErrNotFound
}

func (m *mockAdminUserRepository) FindByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	return nil, ErrNotFound
}

func (m *mockAdminUserRepository) Create(ctx context.Context, user *model.AdminUser) error {
	return nil
}

func (m *mockAdminUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if m.updateLastLoginFunc != nil {
		return m.updateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *mockAdminUserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordHashFunc != nil {
		return m.updatePasswordHashFunc(ctx, id, hash)
	}
	return nil
}

func (m *mockAdminUserRepository) Count(ctx context.Context) (int, error) {
	return 0, nil
}

// ---------------------------------------------------------------------------
// mockCategoryRepository
// ---------------------------------------------------------------------------

type mockCategoryRepository struct {
	listFunc          func(ctx context.Context) ([]*model.Category, error)
	getByIDFunc       func(ctx context.Context, id int64) (*model.Category, error)
	createFunc        func(ctx context.Context, c *model.Category) error
	updateFunc        func(ctx context.Context, c *model.Category) error
	deleteFunc        func(ctx context.Context, id int64) error
	countArticlesFunc func(ctx context.Context, id int64) (int, error)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCategoryRepository) CountArticles(ctx context.Context, id int64) (int, error) {
	if m.countArticlesFunc != nil {
		return m.countArticlesFunc(ctx, id)
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// mockArticleRepository
// ---------------------------------------------------------------------------

type mockArticleRepository struct {
	listFunc            func(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error)
	getByIDFunc         func(ctx context.Context, id int64) (*model.Article, error)
	createFunc          func(ctx context.Context, a *model.Article) error
	updateFunc          func(ctx context.Context, a *model.Article) error
	deleteFunc          func(ctx context.Context, id int64) error
	updateThumbnailFunc func(ctx context.Context, id int64, url string) error
}

func (m *mockArticleRepository) List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockArticleRepository) Create(ctx context.Context, a *model.Article) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return nil
}

func (m *mockArticleRepository) Update(ctx context.Context, a *model.Article) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, a)
	}
	return nil
}

func (m *mockArticleRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockArticleRepository) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	if m.updateThumbnailFunc != nil {
		return m.updateThumbnailFunc(ctx, id, url)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockProjectRepository
// ---------------------------------------------------------------------------

type mockProjectRepository struct {
	listFunc               func(ctx context.Context, publishedOnly bool) ([]*model.Project, error)
	getByIDFunc            func(ctx context.Context, id int64) (*model.Project, error)
	createFunc             func(ctx context.Context, p *model.Project) error
	updateFunc             func(ctx context.Context, p *model.Project) error
	deleteFunc             func(ctx context.Context, id int64) error
	incrementViewCountFunc func(ctx context.Context, id int64) (int, error)
	updateThumbnailFunc    func(ctx context.Context, id int64, url string) error
}

func (m *mockProjectRepository) List(ctx context.Context, publishedOnly bool) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, publishedOnly)
	}
	return nil, nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockProjectRepository) Create(ctx context.Context, p *model.Project) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return nil
}

func (m *mockProjectRepository) Update(ctx context.Context, p *model.Project) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, p)
	}
	return nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProjectRepository) IncrementViewCount(ctx context.Context, id int64) (int, error) {
	if m.incrementViewCountFunc != nil {
		return m.incrementViewCountFunc(ctx, id)
	}
	return 0, nil
}

func (m *mockProjectRepository) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	if m.updateThumbnailFunc != nil {
		return m.updateThumbnailFunc(ctx, id, url)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockSiteConfigRepository — 単一行をメモリに保持する
// ---------------------------------------------------------------------------

type mockSiteConfigRepository struct {
	cfg        *model.SiteConfiguration
	updateFunc func(ctx context.Context, cfg *model.SiteConfiguration) error
}

func newMockSiteConfigRepository() *mockSiteConfigRepository {
	return &mockSiteConfigRepository{cfg: model.DefaultSiteConfiguration()}
}

func (m *mockSiteConfigRepository) Get(ctx context.Context) (*model.SiteConfiguration, error) {
	c := *m.cfg
	return &c, nil
}

func (m *mockSiteConfigRepository) Update(ctx context.Context, cfg *model.SiteConfiguration) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, cfg)
	}
	if cfg.Version != 0 && cfg.Version != m.cfg.Version {
		return ErrConflict
	}
	cfg.Version = m.cfg.Version + 1
	c := *cfg
	m.cfg = &c
	return nil
}

func (m *mockSiteConfigRepository) Reset(ctx context.Context) (*model.SiteConfiguration, error) {
	v := m.cfg.Version
	m.cfg = model.DefaultSiteConfiguration()
	m.cfg.Version = v + 1
	return m.Get(ctx)
}

func (m *mockSiteConfigRepository) IncrementViewCount(ctx context.Context) (int, error) {
	m.cfg.ViewCount++
	return m.cfg.ViewCount, nil
}

func (m *mockSiteConfigRepository) UpdateAvatarURL(ctx context.Context, url string) error {
	m.cfg.AvatarURL = url
	return nil
}

func (m *mockSiteConfigRepository) UpdateCVPath(ctx context.Context, path string) error {
	m.cfg.CVFilePath = path
	return nil
}

// ---------------------------------------------------------------------------
// mockContactRepository
// ---------------------------------------------------------------------------

type mockContactRepository struct {
	saveFunc        func(ctx context.Context, msg *model.ContactMessage) error
	listFunc        func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	getByIDFunc     func(ctx context.Context, id int64) (*model.ContactMessage, error)
	markReadFunc    func(ctx context.Context, id int64) (*model.ContactMessage, error)
	updateFunc      func(ctx context.Context, msg *model.ContactMessage) error
	deleteFunc      func(ctx context.Context, id int64) error
	countUnreadFunc func(ctx context.Context) (int, error)
}

func (m *mockContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, msg)
	}
	return nil
}

func (m *mockContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockContactRepository) GetByID(ctx context.Context, id int64) (*model.ContactMessage, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockContactRepository) MarkRead(ctx context.Context, id int64) (*model.ContactMessage, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockContactRepository) Update(ctx context.Context, msg *model.ContactMessage) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, msg)
	}
	return nil
}

func (m *mockContactRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockContactRepository) CountUnread(ctx context.Context) (int, error) {
	if m.countUnreadFunc != nil {
		return m.countUnreadFunc(ctx)
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// mockLimiter / mockTokenIssuer
// ---------------------------------------------------------------------------

type mockLimiter struct {
	allowFunc func(ctx context.Context, key string) (bool, error)
	keys      []string
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.keys = append(m.keys, key)
	if m.allowFunc != nil {
		return m.allowFunc(ctx, key)
	}
	return true, nil
}

type mockTokenIssuer struct {
	issueFunc func(username string) (string, time.Time, error)
}

func (m *mockTokenIssuer) Issue(username string) (string, time.Time, error) {
	if m.issueFunc != nil {
		return m.issueFunc(username)
	}
	return "token-for-" + username, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}
