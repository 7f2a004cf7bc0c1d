package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bloghub/bloghub-go/internal/middleware"
	"github.com/bloghub/bloghub-go/internal/model"
	"github.com/bloghub/bloghub-go/internal/service"
	"github.com/bloghub/bloghub-go/internal/validation"
)

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	service *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// HandleList handles GET /api/posts requests.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), parseListQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeList(w, http.StatusOK, result)
}

// HandleGet handles GET /api/posts/{id} requests. Authentication is
// optional: anonymous callers see published posts only.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var caller *model.AuthUser
	if c, ok := middleware.CallerFromContext(r.Context()); ok {
		caller = &c
	}

	resp, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeData(w, http.StatusOK, resp)
}

// HandleCreate handles POST /api/posts requests.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	var req model.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeData(w, http.StatusCreated, resp)
}

// HandleUpdate handles PUT /api/posts/{id} requests.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	id, ok := postID(w, r)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		writePostError(w, err)
		return
	}

	writeData(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/posts/{id} requests.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	id, ok := postID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		writePostError(w, err)
		return
	}

	writeData(w, http.StatusOK, struct{}{})
}

// writePostError maps post service errors to HTTP statuses.
func writePostError(w http.ResponseWriter, err error) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoleCannotPost),
		errors.Is(err, service.ErrNotPostOwner),
		errors.Is(err, service.ErrPostNotPublished):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// postID parses the {id} URL parameter. Non-numeric ids report the same
// not-found shape as absent posts.
func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, service.ErrPostNotFound.Error())
		return 0, false
	}
	return id, true
}

// parseListQuery reads the list query parameters. Unparsable numbers
// fall back to the service defaults.
func parseListQuery(r *http.Request) model.ListPostsRequest {
	q := r.URL.Query()

	req := model.ListPostsRequest{
		Search: q.Get("search"),
		Status: q.Get("status"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		req.Limit = limit
	}
	if author, err := strconv.ParseInt(q.Get("author"), 10, 64); err == nil {
		req.AuthorID = author
	}

	if tags := q.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				req.Tags = append(req.Tags, tag)
			}
		}
	}

	return req
}
