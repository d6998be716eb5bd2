package events

import (
	"net/http"
	"strings"

	eventsdomain "eventboard-go/internal/domain/events"
	"eventboard-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

const maxNameLength = 50

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func validateName(w http.ResponseWriter, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return false
	}
	if len([]rune(name)) > maxNameLength {
		writeError(w, http.StatusBadRequest, "invalid_request", "name must be at most 50 characters")
		return false
	}
	return true
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	categories, err := h.Events.ListCategories(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("categories.list: list categories failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, toCategoryResponse(category))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if !validateName(w, req.Name) {
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Events.CreateCategory(r.Context(), eventsdomain.CreateCategoryInput{
		UserID: user.ID,
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("categories.create: create rejected", err, "user_id", user.ID)
			return
		}
		h.log.InternalError("categories.create: create category failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(*created))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	categoryID := chi.URLParam(r, "id")
	if err := h.Events.DeleteCategory(r.Context(), user.ID, categoryID); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("categories.delete: delete rejected", err, "user_id", user.ID, "category_id", categoryID)
			return
		}
		h.log.InternalError("categories.delete: delete category failed", err, "user_id", user.ID, "category_id", categoryID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projects, err := h.Events.ListProjects(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("projects.list: list projects failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		response = append(response, toProjectResponse(project))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if !validateName(w, req.Name) {
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Events.CreateProject(r.Context(), eventsdomain.CreateProjectInput{
		UserID:      user.ID,
		Name:        req.Name,
		Color:       req.Color,
		Icon:        req.Icon,
		Description: req.Description,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("projects.create: create rejected", err, "user_id", user.ID)
			return
		}
		h.log.InternalError("projects.create: create project failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(*created))
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	projectID := chi.URLParam(r, "id")
	if err := h.Events.DeleteProject(r.Context(), user.ID, projectID); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("projects.delete: delete rejected", err, "user_id", user.ID, "project_id", projectID)
			return
		}
		h.log.InternalError("projects.delete: delete project failed", err, "user_id", user.ID, "project_id", projectID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
