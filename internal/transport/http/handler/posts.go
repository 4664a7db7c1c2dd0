package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-posts-api/internal/application/post"
	"github.com/go-posts-api/internal/domain"
	"github.com/go-posts-api/internal/pkg/validate"
	"github.com/go-posts-api/internal/transport/http/middleware"
)

// PostHandler handles post CRUD endpoints.
type PostHandler struct {
	svc post.Service
}

func NewPostHandler(svc post.Service) *PostHandler { return &PostHandler{svc: svc} }

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, domain.ErrBadParams)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	created, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, cursor := parsePage(r)
	posts, next, err := h.svc.List(r.Context(), limit, cursor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: posts, NextCursor: next})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, domain.ErrBadParams)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	isAdmin := claims.Role == domain.RoleAdmin
	updated, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, isAdmin, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "post deleted"})
}

// ListByUser returns the posts owned by the user in the URL.
func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: posts})
}

func parsePage(r *http.Request) (limit int, cursor string) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	return limit, r.URL.Query().Get("cursor")
}
