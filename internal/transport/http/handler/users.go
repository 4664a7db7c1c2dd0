package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-posts-api/internal/application/user"
	"github.com/go-posts-api/internal/domain"
	s3infra "github.com/go-posts-api/internal/infrastructure/s3"
	"github.com/go-posts-api/internal/pkg/validate"
	"github.com/go-posts-api/internal/transport/http/middleware"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

// UserHandler handles user CRUD endpoints.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, domain.ErrBadParams)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePage(r)
	users, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: users, NextCursor: next})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, domain.ErrBadParams)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	isAdmin := claims.Role == domain.RoleAdmin
	u, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, isAdmin, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	isAdmin := claims.Role == domain.RoleAdmin
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, isAdmin); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user deleted"})
}

// UploadAvatar accepts a multipart form with an "avatar" file field.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		httpError(w, domain.ErrBadParams)
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		httpError(w, domain.ErrBadParams)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = s3infra.DetectContentType(header.Filename)
	}
	u, err := h.svc.UploadAvatar(r.Context(), chi.URLParam(r, "id"), claims.UserID, header.Filename, file, contentType)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetAvatar streams the user's stored avatar image.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	rc, key, err := h.svc.GetAvatar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", s3infra.DetectContentType(key))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
