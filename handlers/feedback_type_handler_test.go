package handlers

import (
	"net/http"
	"testing"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateType(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	typeStore.On("NameExists", mock.Anything, "Bug Report", "").Return(false, nil)
	typeStore.On("CreateType", mock.Anything, mock.MatchedBy(func(ft *types.FeedbackType) bool {
		return ft.Name == "Bug Report" &&
			ft.IsActive &&
			ft.Color == types.DefaultTypeColor &&
			ft.Icon == types.DefaultTypeIcon &&
			ft.CreatedBy == "admin-1"
	})).Return("type-1", nil)

	r := newTestRouter("admin-1")
	r.POST("/feedback-types", h.CreateType)

	w := performJSON(t, r, http.MethodPost, "/feedback-types", types.FeedbackTypeCreate{
		Name: "Bug Report",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Feedback type created successfully", body["message"])
	typeStore.AssertExpectations(t)
}

func TestCreateType_ShortName(t *testing.T) {
	h := NewFeedbackTypeHandler(new(MockFeedbackTypeStore))
	r := newTestRouter("admin-1")
	r.POST("/feedback-types", h.CreateType)

	w := performJSON(t, r, http.MethodPost, "/feedback-types", types.FeedbackTypeCreate{
		Name: "B",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := fieldMessages(t, decodeBody(t, w))
	assert.Equal(t, "Name must be at least 2 characters", fields["name"])
}

func TestCreateType_BadColor(t *testing.T) {
	h := NewFeedbackTypeHandler(new(MockFeedbackTypeStore))
	r := newTestRouter("admin-1")
	r.POST("/feedback-types", h.CreateType)

	w := performJSON(t, r, http.MethodPost, "/feedback-types", types.FeedbackTypeCreate{
		Name:  "Bug Report",
		Color: "red",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := fieldMessages(t, decodeBody(t, w))
	assert.Equal(t, "Color must be a valid hex color", fields["color"])
}

func TestCreateType_DuplicateName(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	typeStore.On("NameExists", mock.Anything, "Bug Report", "").Return(true, nil)

	r := newTestRouter("admin-1")
	r.POST("/feedback-types", h.CreateType)

	w := performJSON(t, r, http.MethodPost, "/feedback-types", types.FeedbackTypeCreate{
		Name: "Bug Report",
	})

	// Duplicate names answer 400, which existing clients rely on.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Feedback type with this name already exists", body["message"])
	typeStore.AssertNotCalled(t, "CreateType", mock.Anything, mock.Anything)
}

func TestUpdateType_NotOwned(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	typeStore.On("GetOwnedType", mock.Anything, "type-other", "admin-1").
		Return(nil, apperrors.TypeNotFound())

	r := newTestRouter("admin-1")
	r.PUT("/feedback-types/:id", h.UpdateType)

	w := performJSON(t, r, http.MethodPut, "/feedback-types/type-other", types.FeedbackTypeCreate{
		Name: "Renamed",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Feedback type not found", body["message"])
	typeStore.AssertNotCalled(t, "UpdateType", mock.Anything, mock.Anything)
}

func TestUpdateType(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	existing := &types.FeedbackType{
		ID:        "type-1",
		Name:      "Bug Report",
		IsActive:  true,
		Color:     "#EF4444",
		Icon:      "Bug",
		CreatedBy: "admin-1",
	}
	typeStore.On("GetOwnedType", mock.Anything, "type-1", "admin-1").Return(existing, nil)
	typeStore.On("NameExists", mock.Anything, "Defects", "type-1").Return(false, nil)
	typeStore.On("UpdateType", mock.Anything, mock.MatchedBy(func(ft *types.FeedbackType) bool {
		return ft.ID == "type-1" && ft.Name == "Defects" && ft.CreatedBy == "admin-1"
	})).Return(nil)

	r := newTestRouter("admin-1")
	r.PUT("/feedback-types/:id", h.UpdateType)

	w := performJSON(t, r, http.MethodPut, "/feedback-types/type-1", types.FeedbackTypeCreate{
		Name:  "Defects",
		Color: "#10B981",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Feedback type updated successfully", body["message"])
	typeStore.AssertExpectations(t)
}

func TestToggleType(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	typeStore.On("ToggleType", mock.Anything, "type-1", "admin-1").
		Return(&types.FeedbackType{ID: "type-1", Name: "Bug Report", IsActive: false}, nil)

	r := newTestRouter("admin-1")
	r.PATCH("/feedback-types/:id/toggle", h.ToggleType)

	w := performJSON(t, r, http.MethodPatch, "/feedback-types/type-1/toggle", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Feedback type deactivated successfully", body["message"])
}

func TestDeleteType(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	typeStore.On("DeleteType", mock.Anything, "type-1", "admin-1").Return(nil)

	r := newTestRouter("admin-1")
	r.DELETE("/feedback-types/:id", h.DeleteType)

	w := performJSON(t, r, http.MethodDelete, "/feedback-types/type-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Feedback type deleted successfully", body["message"])
}

func TestListActiveTypes(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	typeStore.On("ListActiveTypes", mock.Anything, "bug").
		Return([]types.FeedbackType{{ID: "type-1", Name: "Bug Report", IsActive: true}}, nil)

	r := newTestRouter("")
	r.GET("/feedback-types", h.ListActiveTypes)

	w := performJSON(t, r, http.MethodGet, "/feedback-types?search=bug", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	typeStore.AssertExpectations(t)
}

func TestListAdminTypes(t *testing.T) {
	typeStore := new(MockFeedbackTypeStore)
	h := NewFeedbackTypeHandler(typeStore)

	typeStore.On("ListTypesByOwner", mock.Anything, "admin-1", "").
		Return([]types.FeedbackType{
			{ID: "type-1", Name: "Bug Report", IsActive: true},
			{ID: "type-2", Name: "Old Surveys", IsActive: false},
		}, nil)

	r := newTestRouter("admin-1")
	r.GET("/feedback-types/admin", h.ListAdminTypes)

	w := performJSON(t, r, http.MethodGet, "/feedback-types/admin", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	typeStore.AssertExpectations(t)
}
