package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/service"
	"github.com/bioweb/backend/pkg/auth"
)

// RouterConfig はルーティングに関わる設定
type RouterConfig struct {
	// Development exposes the seed routes.
	Development     bool
	CORSOrigins     []string
	StaticDir       string
	UploadDir       string
	UploadURLPrefix string
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// Services はハンドラが使うサービス一式
type Services struct {
	DB         repository.DB
	Gate       *auth.Gate
	Auth       service.AuthService
	Categories service.CategoryService
	Articles   service.ArticleService
	Projects   service.ProjectService
	Site       service.SiteConfigService
	Contact    service.ContactService
	Uploads    service.UploadService
	// Seeder may be nil outside development.
	Seeder Seeder
}

// NewRouter は API 全体の http.Handler を組み立てる
func NewRouter(cfg RouterConfig, s Services) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", auth.HeaderAdminUsername, auth.HeaderAdminPassword},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	admin := s.Gate.RequireAdmin

	categories := NewCategoryHandler(s.Categories)
	articles := NewArticleHandler(s.Articles)
	projects := NewProjectHandler(s.Projects)
	site := NewSiteConfigHandler(s.Site)
	authH := NewAuthHandler(s.Auth)
	uploads := NewUploadHandler(s.Uploads)
	contact := NewContactHandler(s.Contact)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health(s.DB))

		r.Route("/Auth", func(r chi.Router) {
			r.With(httprate.Limit(cfg.LoginRateLimit, cfg.LoginRateWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(tooManyRequests),
			)).Post("/admin/login", authH.Login)
			r.With(admin).Get("/validate-token", authH.ValidateToken)
			r.With(admin).Post("/change-password", authH.ChangePassword)
		})

		r.Route("/Category", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Get("/{id}", categories.Get)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", categories.Create)
				r.Put("/{id}", categories.Update)
				r.Delete("/{id}", categories.Delete)
			})
		})

		r.Route("/Article", func(r chi.Router) {
			r.Get("/", articles.ListPublished)
			r.Get("/{id}", articles.GetPublished)
			r.Get("/category/{id}", articles.ListByCategory)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/admin", articles.ListAll)
				r.Get("/admin/{id}", articles.Get)
				r.Post("/", articles.Create)
				r.Put("/{id}", articles.Update)
				r.Delete("/{id}", articles.Delete)
			})
		})

		r.Route("/Project", func(r chi.Router) {
			r.Get("/", projects.ListPublished)
			r.Get("/{id}", projects.GetPublished)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/admin", projects.ListAll)
				r.Get("/admin/{id}", projects.Get)
				r.Post("/", projects.Create)
				r.Put("/{id}", projects.Update)
				r.Delete("/{id}", projects.Delete)
			})
		})

		r.Route("/SiteConfiguration", func(r chi.Router) {
			r.Get("/public", site.Public)
			r.Get("/about-me", site.AboutMe)
			r.Get("/contact", site.ContactInfo)
			r.Post("/view", site.RegisterView)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/", site.Get)
				r.Get("/{id}", site.Get)
				r.Put("/about-me", site.UpdateAboutMe)
				r.Put("/contact", site.UpdateContactInfo)
				r.Put("/{id}", site.Update)
				r.Delete("/{id}", site.Reset)
			})
		})

		r.Route("/Upload", func(r chi.Router) {
			r.Get("/cv/download", uploads.DownloadCV)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/file-info/{category}/{fileName}", uploads.FileInfo)
				r.Delete("/file/{category}/{fileName}", uploads.DeleteFile)
				r.Post("/{kind}", uploads.Upload)
			})
		})

		r.Route("/Contact", func(r chi.Router) {
			r.Post("/", contact.Submit)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/", contact.List)
				r.Get("/unread-count", contact.UnreadCount)
				r.Get("/{id}", contact.Get)
				r.Put("/{id}", contact.Update)
				r.Delete("/{id}", contact.Delete)
			})
		})

		// 開発環境のみ。本番では登録しない
		if cfg.Development && s.Seeder != nil {
			seed := NewSeedHandler(s.Seeder)
			r.Route("/Seed", func(r chi.Router) {
				r.Post("/force-seed", seed.ForceSeed)
				r.Get("/check-data", seed.CheckData)
			})
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeFail(w, http.StatusNotFound, "Endpoint not found")
		})
	})

	if cfg.UploadDir != "" {
		prefix := strings.TrimSuffix(cfg.UploadURLPrefix, "/")
		fs := http.StripPrefix(prefix+"/", noDirListing(http.FileServer(http.Dir(cfg.UploadDir))))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}

	if cfg.StaticDir != "" {
		r.NotFound(spaHandler(cfg.StaticDir))
	}

	return r
}

// noDirListing はディレクトリ一覧を 404 にする
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// spaHandler は静的ファイルを返し、存在しないパスは index.html にフォールバックする
func spaHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	}
}
