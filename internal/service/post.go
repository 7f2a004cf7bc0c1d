package service

import (
	"context"
	"errors"
	"math"

	"github.com/bloghub/bloghub-go/internal/authz"
	"github.com/bloghub/bloghub-go/internal/model"
	"github.com/bloghub/bloghub-go/internal/repository"
	"github.com/bloghub/bloghub-go/internal/validation"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrRoleCannotPost   = errors.New("role does not allow creating posts")
	ErrNotPostOwner     = errors.New("not authorized to modify this post")
	ErrPostNotPublished = errors.New("this post is not published")
)

const defaultPageSize = 10

// PostStore is the persistence contract the post service depends on.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, int, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}

// PostService handles post business logic: validation, authorization
// and the list pagination envelope.
type PostService struct {
	posts PostStore
}

// NewPostService creates a new PostService.
func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

// Create makes a new post owned by the caller. Only authors and admins
// may create posts; the role check runs before validation, matching the
// order of the route middleware chain.
func (s *PostService) Create(ctx context.Context, caller model.AuthUser, req model.CreatePostRequest) (model.PostResponse, error) {
	if !authz.CanCreatePost(caller.Role) {
		return model.PostResponse{}, ErrRoleCannotPost
	}

	if err := validation.CreatePost(&req); err != nil {
		return model.PostResponse{}, err
	}

	status := model.Status(req.Status)
	if req.Status == "" {
		status = model.StatusDraft
	}

	post := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: caller.ID,
		Tags:     req.Tags,
		Status:   status,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return model.PostResponse{}, err
	}

	// Reload for store-assigned timestamps and the joined author fields.
	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return model.PostResponse{}, err
	}

	return created.PublicPost(), nil
}

// Get returns a single post. Drafts are only visible to their author.
func (s *PostService) Get(ctx context.Context, caller *model.AuthUser, id int64) (model.PostResponse, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, err
	}

	if !authz.CanViewPost(caller, post) {
		return model.PostResponse{}, ErrPostNotPublished
	}

	return post.PublicPost(), nil
}

// Update applies a partial update to a post owned by the caller (or any
// post when the caller is an admin). Existence is checked before
// authorization so absent posts report 404, not 403.
func (s *PostService) Update(ctx context.Context, caller model.AuthUser, id int64, req model.UpdatePostRequest) (model.PostResponse, error) {
	if err := validation.UpdatePost(&req); err != nil {
		return model.PostResponse{}, err
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, err
	}

	if !authz.CanModifyPost(caller, post.AuthorID) {
		return model.PostResponse{}, ErrNotPostOwner
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.Status != nil {
		post.Status = model.Status(*req.Status)
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, err
	}

	updated, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return model.PostResponse{}, err
	}

	return updated.PublicPost(), nil
}

// Delete removes a post owned by the caller (or any post for admins).
// Deleting the same post twice reports not found on the second call.
func (s *PostService) Delete(ctx context.Context, caller model.AuthUser, id int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if !authz.CanModifyPost(caller, post.AuthorID) {
		return ErrNotPostOwner
	}

	err = s.posts.Delete(ctx, id)
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}

// List returns a page of posts with the pagination envelope fields.
// When no status filter is given the listing is restricted to published
// posts, so anonymous and default listings never expose drafts. The
// limit is not capped.
func (s *PostService) List(ctx context.Context, req model.ListPostsRequest) (model.ListPostsResult, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	status := model.Status(req.Status)
	if req.Status == "" {
		status = model.StatusPublished
	}

	filter := model.PostFilter{
		Status:   status,
		AuthorID: req.AuthorID,
		Tags:     req.Tags,
		Search:   req.Search,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return model.ListPostsResult{}, err
	}

	items := make([]model.PostResponse, len(posts))
	for i := range posts {
		items[i] = posts[i].PublicPost()
	}

	return model.ListPostsResult{
		Posts:       items,
		Count:       len(items),
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}
