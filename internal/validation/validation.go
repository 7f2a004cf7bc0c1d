// Package validation holds the request-shape rules for the API. Each
// validator normalizes its request in place (trimming, lowercasing) and
// returns the first rule violation as an *Error so handlers can map it
// to a 400 without touching the store.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/bloghub/bloghub-go/internal/model"
)

// Error is a single failed validation rule.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fieldError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

const (
	minNameLen     = 2
	minPasswordLen = 6
	minTitleLen    = 3
	maxTitleLen    = 100
	minContentLen  = 10
)

// Register validates and normalizes a registration request.
func Register(req *model.RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fieldError("name", "name is required")
	}
	if len([]rune(req.Name)) < minNameLen {
		return fieldError("name", fmt.Sprintf("name must be at least %d characters", minNameLen))
	}

	if err := email(&req.Email); err != nil {
		return err
	}

	if err := password(req.Password); err != nil {
		return err
	}

	if req.Role != "" && !model.Role(req.Role).Valid() {
		return fieldError("role", "role must be reader, author, or admin")
	}

	return nil
}

// Login validates and normalizes a login request.
func Login(req *model.LoginRequest) error {
	if err := email(&req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return fieldError("password", "password is required")
	}
	return nil
}

// CreatePost validates and normalizes a post creation request.
func CreatePost(req *model.CreatePostRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return fieldError("title", "title is required")
	}
	if err := title(req.Title); err != nil {
		return err
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return fieldError("content", "content is required")
	}
	if err := content(req.Content); err != nil {
		return err
	}

	req.Tags = normalizeTags(req.Tags)
	if err := tags(req.Tags); err != nil {
		return err
	}

	if req.Status != "" && !model.Status(req.Status).Valid() {
		return fieldError("status", "status must be either draft or published")
	}

	return nil
}

// UpdatePost validates and normalizes a partial post update. Absent
// fields are skipped.
func UpdatePost(req *model.UpdatePostRequest) error {
	if req.Title != nil {
		*req.Title = strings.TrimSpace(*req.Title)
		if err := title(*req.Title); err != nil {
			return err
		}
	}
	if req.Content != nil {
		*req.Content = strings.TrimSpace(*req.Content)
		if err := content(*req.Content); err != nil {
			return err
		}
	}
	if req.Tags != nil {
		*req.Tags = normalizeTags(*req.Tags)
		if err := tags(*req.Tags); err != nil {
			return err
		}
	}
	if req.Status != nil && !model.Status(*req.Status).Valid() {
		return fieldError("status", "status must be either draft or published")
	}
	return nil
}

func email(addr *string) error {
	*addr = strings.ToLower(strings.TrimSpace(*addr))
	if *addr == "" {
		return fieldError("email", "email is required")
	}
	parsed, err := mail.ParseAddress(*addr)
	if err != nil || parsed.Address != *addr {
		return fieldError("email", "please provide a valid email")
	}
	return nil
}

func password(pw string) error {
	if pw == "" {
		return fieldError("password", "password is required")
	}
	if len(pw) < minPasswordLen {
		return fieldError("password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	var hasDigit, hasUpper bool
	for _, r := range pw {
		hasDigit = hasDigit || unicode.IsDigit(r)
		hasUpper = hasUpper || unicode.IsUpper(r)
	}
	if !hasDigit {
		return fieldError("password", "password must contain at least one number")
	}
	if !hasUpper {
		return fieldError("password", "password must contain at least one uppercase letter")
	}
	return nil
}

func title(s string) error {
	if n := len([]rune(s)); n < minTitleLen || n > maxTitleLen {
		return fieldError("title", fmt.Sprintf("title must be between %d and %d characters", minTitleLen, maxTitleLen))
	}
	return nil
}

func content(s string) error {
	if len([]rune(s)) < minContentLen {
		return fieldError("content", fmt.Sprintf("content must be at least %d characters", minContentLen))
	}
	return nil
}

func tags(ts []string) error {
	if len(ts) > model.MaxPostTags {
		return fieldError("tags", fmt.Sprintf("maximum %d tags allowed", model.MaxPostTags))
	}
	return nil
}

// normalizeTags trims and lowercases each tag and drops empties.
func normalizeTags(ts []string) []string {
	out := ts[:0]
	for _, t := range ts {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
