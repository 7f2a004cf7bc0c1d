package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bloghub/bloghub-go/internal/model"
)

var ErrPostNotFound = errors.New("post not found")

// PostRepository handles post persistence operations.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// postColumns are the post fields plus the joined author columns, in
// scan order for scanPost.
const postColumns = `p.id, p.title, p.content, p.author_id, p.tags, p.status, p.created_at, p.updated_at,
	u.id, u.name, u.email`

// Create inserts a new post and sets the generated ID on the post struct.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	tags, err := marshalTags(post.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO posts (title, content, author_id, tags, status) VALUES (?, ?, ?, CAST(? AS JSON), ?)`

	result, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.AuthorID, tags, post.Status)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	post.ID = id
	return nil
}

// GetByID retrieves a post with its author by post ID.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id = ?`, postColumns)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// List retrieves a page of posts matching the filter, newest first,
// together with the total number of matches.
func (r *PostRepository) List(ctx context.Context, filter model.PostFilter) ([]model.Post, int, error) {
	where, args, err := buildPostFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	countQuery := "SELECT COUNT(*) FROM posts p" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN users u ON u.id = p.author_id%s
		ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`, postColumns, where)

	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *post)
	}

	return posts, total, rows.Err()
}

// Update writes the mutable post fields and refreshes updated_at.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	tags, err := marshalTags(post.Tags)
	if err != nil {
		return err
	}

	// No RowsAffected check here: MySQL reports zero affected rows for
	// an update that changes no values, which is not the same as the
	// post being absent. Callers verify existence before updating.
	query := `UPDATE posts SET title = ?, content = ?, tags = CAST(? AS JSON), status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	_, err = r.db.ExecContext(ctx, query, post.Title, post.Content, tags, post.Status, post.ID)
	return err
}

// Delete removes a post permanently.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// buildPostFilter assembles the WHERE clause shared by List and its
// count query. All predicates touch only post columns so the count can
// skip the author join.
func buildPostFilter(filter model.PostFilter) (string, []any, error) {
	var clauses []string
	var args []any

	if filter.Status != "" {
		clauses = append(clauses, "p.status = ?")
		args = append(args, filter.Status)
	}
	if filter.AuthorID != 0 {
		clauses = append(clauses, "p.author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if len(filter.Tags) > 0 {
		// Any-of semantics: a post matches when it shares at least one tag.
		tags, err := json.Marshal(filter.Tags)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "JSON_OVERLAPS(p.tags, CAST(? AS JSON))")
		args = append(args, string(tags))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		clauses = append(clauses, "(LOWER(p.title) LIKE ? OR LOWER(p.content) LIKE ?)")
		args = append(args, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// likePattern builds a case-insensitive substring LIKE pattern,
// escaping the LIKE metacharacters in the search term.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(search))
	return "%" + escaped + "%"
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	post := &model.Post{}
	var tags sql.NullString

	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorID, &tags, &post.Status,
		&post.CreatedAt, &post.UpdatedAt,
		&post.Author.ID, &post.Author.Name, &post.Author.Email,
	)
	if err != nil {
		return nil, err
	}

	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &post.Tags); err != nil {
			return nil, fmt.Errorf("decoding post tags: %w", err)
		}
	}

	return post, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
