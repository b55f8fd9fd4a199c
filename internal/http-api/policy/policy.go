// Package policy is the single place where authorization decisions are made.
// Handlers build a Principal from the request context and ask Allow for an
// allow/deny verdict per (principal, action, resource) triple.
package policy

import "reviewhub/internal/http-api/models"

type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

type ResourceKind int

const (
	ResourceUser ResourceKind = iota
	ResourceCatalog // categories, genres, titles
	ResourceReview
	ResourceComment
)

// Principal is the acting identity. Anonymous requests use the zero value.
type Principal struct {
	ID            string
	Role          string
	IsStaff       bool
	Authenticated bool
}

// Anonymous is the principal for requests without a valid token.
var Anonymous = Principal{}

// Resource describes the target of an action. AuthorID is only meaningful
// for author-owned kinds (reviews, comments).
type Resource struct {
	Kind     ResourceKind
	AuthorID string
}

// Allow evaluates the endpoint policies:
//
//	users:            admin only, every action
//	catalog:          read anyone, write/delete admin
//	reviews/comments: read anyone, create any authenticated user,
//	                  update/delete author, moderator or admin
func Allow(p Principal, action Action, r Resource) bool {
	switch r.Kind {
	case ResourceUser:
		return isAdmin(p)
	case ResourceCatalog:
		if action == ActionRead {
			return true
		}
		return isAdmin(p)
	case ResourceReview, ResourceComment:
		switch action {
		case ActionRead:
			return true
		case ActionCreate:
			return p.Authenticated
		default:
			return isAdmin(p) || isModerator(p) || isAuthor(p, r)
		}
	}
	return false
}

// isAdmin treats the staff flag as admin-equivalent.
func isAdmin(p Principal) bool {
	return p.Authenticated && (p.Role == models.RoleAdmin || p.IsStaff)
}

func isModerator(p Principal) bool {
	return p.Authenticated && p.Role == models.RoleModerator
}

func isAuthor(p Principal, r Resource) bool {
	return p.Authenticated && r.AuthorID != "" && p.ID == r.AuthorID
}
