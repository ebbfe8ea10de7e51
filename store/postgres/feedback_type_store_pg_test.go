package postgres

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTypeStore(t *testing.T) (pgxmock.PgxPoolIface, *pgFeedbackTypeStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &pgFeedbackTypeStore{db: mock}
}

func typeRows(ft types.FeedbackType) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "description", "is_active", "color", "icon",
		"created_by", "created_at", "updated_at",
	}).AddRow(
		ft.ID, ft.Name, ft.Description, ft.IsActive, ft.Color, ft.Icon,
		ft.CreatedBy, ft.CreatedAt, ft.UpdatedAt,
	)
}

func sampleType() types.FeedbackType {
	now := time.Now()
	return types.FeedbackType{
		ID:          "type-1",
		Name:        "Bug Report",
		Description: "Something is broken",
		IsActive:    true,
		Color:       "#EF4444",
		Icon:        "Bug",
		CreatedBy:   "admin-1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateType(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectQuery(`INSERT INTO feedback_types`).
		WithArgs("Bug Report", "Something is broken", true, "#EF4444", "Bug", "admin-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("type-1"))

	ft := sampleType()
	ft.ID = ""
	id, err := store.CreateType(context.Background(), &ft)

	require.NoError(t, err)
	assert.Equal(t, "type-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateType_DuplicateName(t *testing.T) {
	mock, store := newTypeStore(t)

	// The unique index on lower(name) is the last line of defense behind the
	// handler's pre-check; its violation maps to the same conflict error.
	mock.ExpectQuery(`INSERT INTO feedback_types`).
		WithArgs("Bug Report", "Something is broken", true, "#EF4444", "Bug", "admin-1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	ft := sampleType()
	ft.ID = ""
	_, err := store.CreateType(context.Background(), &ft)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)
	assert.Equal(t, "Feedback type with this name already exists", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnedType_NotOwned(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectQuery(`SELECT .+ FROM feedback_types`).
		WithArgs("type-other", "admin-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "description", "is_active", "color", "icon",
			"created_by", "created_at", "updated_at",
		}))

	_, err := store.GetOwnedType(context.Background(), "type-other", "admin-1")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	assert.Equal(t, "Feedback type not found", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateType_NotOwned(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectExec(`UPDATE feedback_types`).
		WithArgs("Bug Report", "Something is broken", "#EF4444", "Bug", "type-1", "admin-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ft := sampleType()
	ft.CreatedBy = "admin-2"
	err := store.UpdateType(context.Background(), &ft)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleType(t *testing.T) {
	mock, store := newTypeStore(t)

	toggled := sampleType()
	toggled.IsActive = false
	mock.ExpectQuery(`SET is_active = NOT is_active`).
		WithArgs("type-1", "admin-1").
		WillReturnRows(typeRows(toggled))

	ft, err := store.ToggleType(context.Background(), "type-1", "admin-1")

	require.NoError(t, err)
	assert.False(t, ft.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteType_NotOwned(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectExec(`DELETE FROM feedback_types`).
		WithArgs("type-1", "admin-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.DeleteType(context.Background(), "type-1", "admin-2")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByName_Miss(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectQuery(`lower\(name\) = lower\(\$1\) AND is_active`).
		WithArgs("Nonexistent").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "description", "is_active", "color", "icon",
			"created_by", "created_at", "updated_at",
		}))

	ft, err := store.FindActiveByName(context.Background(), "Nonexistent")

	require.NoError(t, err)
	assert.Nil(t, ft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByName(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectQuery(`lower\(name\) = lower\(\$1\) AND is_active`).
		WithArgs("bug report").
		WillReturnRows(typeRows(sampleType()))

	ft, err := store.FindActiveByName(context.Background(), "bug report")

	require.NoError(t, err)
	require.NotNil(t, ft)
	assert.Equal(t, "Bug Report", ft.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNameExists(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("Bug Report", "").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.NameExists(context.Background(), "Bug Report", "")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveTypes(t *testing.T) {
	mock, store := newTypeStore(t)

	mock.ExpectQuery(`WHERE is_active = true`).
		WithArgs("bug").
		WillReturnRows(typeRows(sampleType()))

	result, err := store.ListActiveTypes(context.Background(), "bug")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Bug Report", result[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
