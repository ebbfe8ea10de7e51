package handlers

import (
	"context"

	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/feedbackhq/feedback-collector/middleware"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

// MockUserStore implements store.UserStore for handler tests.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *types.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) CountAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockFeedbackTypeStore implements store.FeedbackTypeStore for handler tests.
type MockFeedbackTypeStore struct {
	mock.Mock
}

func (m *MockFeedbackTypeStore) CreateType(ctx context.Context, ft *types.FeedbackType) (string, error) {
	args := m.Called(ctx, ft)
	return args.String(0), args.Error(1)
}

func (m *MockFeedbackTypeStore) GetOwnedType(ctx context.Context, id, adminID string) (*types.FeedbackType, error) {
	args := m.Called(ctx, id, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackType), args.Error(1)
}

func (m *MockFeedbackTypeStore) UpdateType(ctx context.Context, ft *types.FeedbackType) error {
	args := m.Called(ctx, ft)
	return args.Error(0)
}

func (m *MockFeedbackTypeStore) ToggleType(ctx context.Context, id, adminID string) (*types.FeedbackType, error) {
	args := m.Called(ctx, id, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackType), args.Error(1)
}

func (m *MockFeedbackTypeStore) DeleteType(ctx context.Context, id, adminID string) error {
	args := m.Called(ctx, id, adminID)
	return args.Error(0)
}

func (m *MockFeedbackTypeStore) ListActiveTypes(ctx context.Context, search string) ([]types.FeedbackType, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FeedbackType), args.Error(1)
}

func (m *MockFeedbackTypeStore) ListTypesByOwner(ctx context.Context, adminID, search string) ([]types.FeedbackType, error) {
	args := m.Called(ctx, adminID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FeedbackType), args.Error(1)
}

func (m *MockFeedbackTypeStore) FindActiveByName(ctx context.Context, name string) (*types.FeedbackType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackType), args.Error(1)
}

func (m *MockFeedbackTypeStore) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockFeedbackStore implements store.FeedbackStore for handler tests.
type MockFeedbackStore struct {
	mock.Mock
}

func (m *MockFeedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (string, error) {
	args := m.Called(ctx, fb)
	return args.String(0), args.Error(1)
}

func (m *MockFeedbackStore) ListFeedback(ctx context.Context, adminID string, filter types.FeedbackFilter, page, limit int) ([]types.FeedbackListItem, int, error) {
	args := m.Called(ctx, adminID, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.FeedbackListItem), args.Int(1), args.Error(2)
}

func (m *MockFeedbackStore) GetStats(ctx context.Context, adminID string) (*types.FeedbackStats, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FeedbackStats), args.Error(1)
}

func (m *MockFeedbackStore) DeleteFeedback(ctx context.Context, id, adminID string) error {
	args := m.Called(ctx, id, adminID)
	return args.Error(0)
}

func (m *MockFeedbackStore) ExportFeedback(ctx context.Context, adminID string, filter types.FeedbackFilter) ([]types.FeedbackExportRow, error) {
	args := m.Called(ctx, adminID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FeedbackExportRow), args.Error(1)
}

// newTestRouter builds a gin engine with the error-handling middleware and,
// when adminID is non-empty, a stub identity the way the auth middleware
// would set it.
func newTestRouter(adminID string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if adminID != "" {
		r.Use(func(c *gin.Context) {
			c.Set(string(middleware.UserIDKey), adminID)
			c.Next()
		})
	}
	return r
}
