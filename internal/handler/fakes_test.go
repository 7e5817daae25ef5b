package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bioweb/backend/internal/model"
	"github.com/bioweb/backend/internal/repository"
)

// memDB はハンドラの結合テスト用のインメモリストア。
// 各リポジトリインターフェースは memDB を包む小さな型で実装する
type memDB struct {
	mu         sync.Mutex
	nextID     int64
	admins     map[int64]*model.AdminUser
	categories map[int64]*model.Category
	articles   map[int64]*model.Article
	projects   map[int64]*model.Project
	messages   map[int64]*model.ContactMessage
	site       *model.SiteConfiguration
}

func newMemDB() *memDB {
	return &memDB{
		admins:     map[int64]*model.AdminUser{},
		categories: map[int64]*model.Category{},
		articles:   map[int64]*model.Article{},
		projects:   map[int64]*model.Project{},
		messages:   map[int64]*model.ContactMessage{},
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) Ping(ctx context.Context) error { return nil }

// ---------------------------------------------------------------------------
// admin users
// ---------------------------------------------------------------------------

type memAdminRepo struct{ *memDB }

func (r memAdminRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			c := *a
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memAdminRepo) FindByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r memAdminRepo) Create(ctx context.Context, u *model.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.id()
	c := *u
	r.admins[u.ID] = &c
	return nil
}

func (r memAdminRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		a.LastLogin = &at
	}
	return nil
}

func (r memAdminRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		a.PasswordHash = hash
		return nil
	}
	return repository.ErrNotFound
}

func (r memAdminRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.admins), nil
}

// ---------------------------------------------------------------------------
// categories
// ---------------------------------------------------------------------------

type memCategoryRepo struct{ *memDB }

func (r memCategoryRepo) withCount(c *model.Category) *model.Category {
	out := *c
	out.ArticleCount = 0
	for _, a := range r.articles {
		if a.CategoryID == c.ID {
			out.ArticleCount++
		}
	}
	return &out
}

func (r memCategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Category{}
	for _, c := range r.categories {
		out = append(out, r.withCount(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCategoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[id]; ok {
		return r.withCount(c), nil
	}
	return nil, repository.ErrNotFound
}

func (r memCategoryRepo) Create(ctx context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	c.Version = 1
	c.CreatedAt = time.Now()
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r memCategoryRepo) Update(ctx context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.categories[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if c.Version != 0 && c.Version != cur.Version {
		return repository.ErrConflict
	}
	cur.Name = c.Name
	cur.Version++
	return nil
}

func (r memCategoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return repository.ErrNotFound
	}
	for _, a := range r.articles {
		if a.CategoryID == id {
			return repository.ErrInUse
		}
	}
	delete(r.categories, id)
	return nil
}

func (r memCategoryRepo) CountArticles(ctx context.Context, id int64) (int, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, nil
	}
	return c.ArticleCount, nil
}

// ---------------------------------------------------------------------------
// articles
// ---------------------------------------------------------------------------

type memArticleRepo struct{ *memDB }

func (r memArticleRepo) fill(a *model.Article) *model.Article {
	out := *a
	if c, ok := r.categories[a.CategoryID]; ok {
		out.CategoryName = c.Name
	}
	return &out
}

func (r memArticleRepo) List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Article{}
	for _, a := range r.articles {
		if opts.PublishedOnly && !a.IsPublished {
			continue
		}
		if opts.CategoryID != 0 && a.CategoryID != opts.CategoryID {
			continue
		}
		out = append(out, r.fill(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memArticleRepo) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.articles[id]; ok {
		return r.fill(a), nil
	}
	return nil, repository.ErrNotFound
}

func (r memArticleRepo) Create(ctx context.Context, a *model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[a.CategoryID]; !ok {
		return repository.ErrInvalidReference
	}
	a.ID = r.id()
	a.Version = 1
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.articles[a.ID] = &cp
	return nil
}

func (r memArticleRepo) Update(ctx context.Context, a *model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.articles[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if a.Version != 0 && a.Version != cur.Version {
		return repository.ErrConflict
	}
	v := cur.Version + 1
	cp := *a
	cp.Version = v
	cp.CreatedAt = cur.CreatedAt
	r.articles[a.ID] = &cp
	return nil
}

func (r memArticleRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r memArticleRepo) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ThumbnailURL = url
	return nil
}

// ---------------------------------------------------------------------------
// projects
// ---------------------------------------------------------------------------

type memProjectRepo struct{ *memDB }

func (r memProjectRepo) List(ctx context.Context, publishedOnly bool) ([]*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Project{}
	for _, p := range r.projects {
		if publishedOnly && !p.IsPublished {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r memProjectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r memProjectRepo) Create(ctx context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.id()
	p.Version = 1
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r memProjectRepo) Update(ctx context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.projects[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Version != 0 && p.Version != cur.Version {
		return repository.ErrConflict
	}
	cp := *p
	cp.Version = cur.Version + 1
	cp.ViewCount = cur.ViewCount
	r.projects[p.ID] = &cp
	return nil
}

func (r memProjectRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r memProjectRepo) IncrementViewCount(ctx context.Context, id int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	p.ViewCount++
	return p.ViewCount, nil
}

func (r memProjectRepo) UpdateThumbnail(ctx context.Context, id int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ThumbnailURL = url
	return nil
}

// ---------------------------------------------------------------------------
// site configuration
// ---------------------------------------------------------------------------

type memSiteRepo struct{ *memDB }

func (r memSiteRepo) ensure() *model.SiteConfiguration {
	if r.site == nil {
		r.memDB.site = model.DefaultSiteConfiguration()
		r.memDB.site.Version = 1
	}
	return r.site
}

func (r memSiteRepo) Get(ctx context.Context) (*model.SiteConfiguration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *r.ensure()
	return &c, nil
}

func (r memSiteRepo) Update(ctx context.Context, cfg *model.SiteConfiguration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.ensure()
	if cfg.Version != 0 && cfg.Version != cur.Version {
		return repository.ErrConflict
	}
	cp := *cfg
	cp.Version = cur.Version + 1
	cp.ViewCount = cur.ViewCount
	r.memDB.site = &cp
	cfg.Version = cp.Version
	return nil
}

func (r memSiteRepo) Reset(ctx context.Context) (*model.SiteConfiguration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.ensure().Version
	r.memDB.site = model.DefaultSiteConfiguration()
	r.memDB.site.Version = v + 1
	c := *r.site
	return &c, nil
}

func (r memSiteRepo) IncrementViewCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.ensure()
	s.ViewCount++
	return s.ViewCount, nil
}

func (r memSiteRepo) UpdateAvatarURL(ctx context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure().AvatarURL = url
	return nil
}

func (r memSiteRepo) UpdateCVPath(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure().CVFilePath = path
	return nil
}

// ---------------------------------------------------------------------------
// contact messages
// ---------------------------------------------------------------------------

type memContactRepo struct{ *memDB }

func (r memContactRepo) Save(ctx context.Context, msg *model.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.id()
	msg.Version = 1
	msg.SentAt = time.Now()
	cp := *msg
	r.messages[msg.ID] = &cp
	return nil
}

func (r memContactRepo) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.ContactMessage{}
	for _, m := range r.messages {
		if (opts.Status == "read" && !m.IsRead) || (opts.Status == "unread" && m.IsRead) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memContactRepo) GetByID(ctx context.Context, id int64) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.messages[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r memContactRepo) MarkRead(ctx context.Context, id int64) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.IsRead = true
	m.ReadCount++
	cp := *m
	return &cp, nil
}

func (r memContactRepo) Update(ctx context.Context, msg *model.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[msg.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if msg.Version != 0 && msg.Version != m.Version {
		return repository.ErrConflict
	}
	m.FullName, m.Email, m.IsRead = msg.FullName, msg.Email, msg.IsRead
	m.Version++
	return nil
}

func (r memContactRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r memContactRepo) CountUnread(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if !m.IsRead {
			n++
		}
	}
	return n, nil
}
