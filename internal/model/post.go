package model

import "time"

// Status marks a post as a private draft or publicly visible.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether the status is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// MaxPostTags is the most tags a single post may carry.
const MaxPostTags = 5

// Post represents a blog post in the database. Author holds the joined
// author columns when the post was loaded through the posts store.
type Post struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  int64
	Tags      []string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Author    PostAuthor
}

// PostAuthor is the subset of user fields embedded in post responses.
type PostAuthor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreatePostRequest represents a post creation request.
type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
}

// UpdatePostRequest represents a partial post update. Nil fields are
// left untouched.
type UpdatePostRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
	Status  *string   `json:"status"`
}

// PostResponse represents post data for API responses.
type PostResponse struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    PostAuthor `json:"author"`
	Tags      []string   `json:"tags"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PublicPost converts a Post to its API representation.
func (p *Post) PublicPost() PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		Tags:      tags,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PostFilter is the store-level predicate for listing posts.
type PostFilter struct {
	Status   Status
	AuthorID int64
	Tags     []string
	Search   string
	Limit    int
	Offset   int
}

// ListPostsRequest carries the parsed query parameters of a list request.
type ListPostsRequest struct {
	Page     int
	Limit    int
	Tags     []string
	AuthorID int64
	Search   string
	Status   string
}

// ListPostsResult is a page of posts plus the pagination envelope fields.
type ListPostsResult struct {
	Posts       []PostResponse
	Count       int
	Total       int
	TotalPages  int
	CurrentPage int
}
