// Package authz centralizes the role and ownership policy for posts.
// Every decision is a pure function over the caller and the target so
// handlers and services never hand-roll permission checks.
package authz

import "github.com/bloghub/bloghub-go/internal/model"

// CanCreatePost reports whether a role may create posts. Readers are
// consumers only.
func CanCreatePost(role model.Role) bool {
	return role == model.RoleAuthor || role == model.RoleAdmin
}

// CanModifyPost reports whether the caller may update or delete a post
// written by authorID. Owners and admins qualify.
func CanModifyPost(caller model.AuthUser, authorID int64) bool {
	return caller.ID == authorID || caller.Role == model.RoleAdmin
}

// CanViewPost reports whether the caller may read the post. Published
// posts are public. Drafts are visible only to the user who wrote
// them — admins included only when they are the author.
func CanViewPost(caller *model.AuthUser, post *model.Post) bool {
	if post.Status != model.StatusDraft {
		return true
	}
	return caller != nil && caller.ID == post.AuthorID
}
