// Package store defines the data-access contracts implemented by the
// PostgreSQL layer in store/postgres.
package store

import (
	"context"

	"github.com/feedbackhq/feedback-collector/types"
)

// UserStore handles admin account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *types.User) (string, error)
	GetUserByID(ctx context.Context, id string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	CountAdmins(ctx context.Context) (int, error)
}

// FeedbackTypeStore handles feedback category persistence. Mutating
// operations are owner-checked: a type absent or owned by another admin
// yields the same opaque not-found error.
type FeedbackTypeStore interface {
	CreateType(ctx context.Context, ft *types.FeedbackType) (string, error)
	GetOwnedType(ctx context.Context, id, adminID string) (*types.FeedbackType, error)
	UpdateType(ctx context.Context, ft *types.FeedbackType) error
	ToggleType(ctx context.Context, id, adminID string) (*types.FeedbackType, error)
	DeleteType(ctx context.Context, id, adminID string) error
	ListActiveTypes(ctx context.Context, search string) ([]types.FeedbackType, error)
	ListTypesByOwner(ctx context.Context, adminID, search string) ([]types.FeedbackType, error)
	FindActiveByName(ctx context.Context, name string) (*types.FeedbackType, error)
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
}

// FeedbackStore handles submissions. Every admin-facing operation is
// ownership-scoped: it only ever sees feedback whose type was created by the
// given admin, with the scope re-derived per call from one shared
// implementation so list, count, stats, export, and delete can never
// disagree.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb *types.Feedback) (string, error)
	ListFeedback(ctx context.Context, adminID string, filter types.FeedbackFilter, page, limit int) ([]types.FeedbackListItem, int, error)
	GetStats(ctx context.Context, adminID string) (*types.FeedbackStats, error)
	DeleteFeedback(ctx context.Context, id, adminID string) error
	ExportFeedback(ctx context.Context, adminID string, filter types.FeedbackFilter) ([]types.FeedbackExportRow, error)
}
