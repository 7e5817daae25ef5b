package handler

import (
	"net/http"

	"github.com/bioweb/backend/internal/service"
)

// SiteConfigHandler はサイト設定・自己紹介・連絡先の HTTP ハンドラ
type SiteConfigHandler struct {
	svc service.SiteConfigService
}

func NewSiteConfigHandler(svc service.SiteConfigService) *SiteConfigHandler {
	return &SiteConfigHandler{svc: svc}
}

const siteConfig = "Site configuration"

// Get は GET /api/SiteConfiguration と GET /api/SiteConfiguration/{id} を処理する（管理者）
func (h *SiteConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Get(r.Context())
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "Site configuration retrieved", cfg)
}

// Public は GET /api/SiteConfiguration/public を処理する
func (h *SiteConfigHandler) Public(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Public(r.Context())
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "Public profile retrieved", p)
}

// AboutMe は GET /api/SiteConfiguration/about-me を処理する
func (h *SiteConfigHandler) AboutMe(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.AboutMe(r.Context())
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "About me retrieved", a)
}

// ContactInfo は GET /api/SiteConfiguration/contact を処理する
func (h *SiteConfigHandler) ContactInfo(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.ContactInfo(r.Context())
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "Contact info retrieved", c)
}

// Update は PUT /api/SiteConfiguration/{id} を処理する（管理者）
func (h *SiteConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	var in service.SiteConfigInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	cfg, err := h.svc.Update(r.Context(), int(id), in)
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "Site configuration updated", cfg)
}

// UpdateAboutMe は PUT /api/SiteConfiguration/about-me を処理する（管理者）
func (h *SiteConfigHandler) UpdateAboutMe(w http.ResponseWriter, r *http.Request) {
	var in service.AboutMeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	cfg, err := h.svc.UpdateAboutMe(r.Context(), in)
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "About me updated", cfg.AboutMe())
}

// UpdateContactInfo は PUT /api/SiteConfiguration/contact を処理する（管理者）
func (h *SiteConfigHandler) UpdateContactInfo(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInfoInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	cfg, err := h.svc.UpdateContactInfo(r.Context(), in)
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "Contact info updated", cfg.ContactInfo())
}

// Reset は DELETE /api/SiteConfiguration/{id} を処理する（管理者）。初期値に戻す
func (h *SiteConfigHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	cfg, err := h.svc.Reset(r.Context(), int(id))
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "Site configuration reset", cfg)
}

// RegisterView は POST /api/SiteConfiguration/view を処理する
func (h *SiteConfigHandler) RegisterView(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RegisterView(r.Context(), clientIP(r))
	if err != nil {
		writeError(w, r, err, siteConfig)
		return
	}
	writeOK(w, http.StatusOK, "View registered", res)
}
