// Package types holds the domain model and the request/response shapes shared
// between handlers and stores.
package types

import "time"

// RoleAdmin is the only privileged role; everything else is treated as an
// ordinary (rejected) identity on admin endpoints.
const RoleAdmin = "admin"

// User is an admin account able to own feedback types.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserResponse is the client-facing projection of a User.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ToResponse strips credentials and timestamps for API output.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// FeedbackType is an admin-defined category feedback is classified under.
// Names are globally unique case-insensitively even though each type has a
// single owner: admins share one namespace.
type FeedbackType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Default display hints applied when a type is created without them.
const (
	DefaultTypeColor = "#3B82F6"
	DefaultTypeIcon  = "FileText"
)

// FeedbackTypeCreate is the create/update payload for feedback types.
type FeedbackTypeCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Feedback is a single end-user submission. Records are immutable after
// creation; Type holds the type name as it read at submission time.
type Feedback struct {
	ID             string    `json:"id"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Type           string    `json:"type"`
	FeedbackTypeID string    `json:"feedbackTypeId"`
	Message        string    `json:"message"`
	Rating         int       `json:"rating"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FeedbackCreate is the public submission payload.
type FeedbackCreate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

// FeedbackTypeRef is the embedded type projection returned with listed
// feedback (name, color and icon for display).
type FeedbackTypeRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// FeedbackListItem is a feedback record joined with its owning type. The type
// reference is nil for orphaned records whose type was deleted.
type FeedbackListItem struct {
	Feedback
	FeedbackType *FeedbackTypeRef `json:"feedbackType,omitempty"`
}

// FeedbackFilter narrows admin-facing feedback queries. All fields are
// optional; the ownership scope is applied regardless.
type FeedbackFilter struct {
	TypeName string
	Rating   *int
	Search   string
}

// Pagination describes the page window of a list response. Total is the total
// number of pages, not records.
type Pagination struct {
	Current int  `json:"current"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// FeedbackListResponse is the admin list endpoint payload.
type FeedbackListResponse struct {
	Feedbacks  []FeedbackListItem `json:"feedbacks"`
	Pagination Pagination         `json:"pagination"`
}

// MonthlyCount is one month bucket in the stats response.
type MonthlyCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// TypeCount is one per-type slice in the stats response.
type TypeCount struct {
	TypeID string `json:"typeId"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Count  int    `json:"count"`
}

// FeedbackStats aggregates an admin's feedback: overall count, mean rating
// rounded to one decimal, trailing-six-month buckets, and per-type counts.
type FeedbackStats struct {
	TotalFeedback    int            `json:"totalFeedback"`
	AverageRating    float64        `json:"averageRating"`
	MonthlyFeedback  []MonthlyCount `json:"monthlyFeedback"`
	TypeDistribution []TypeCount    `json:"typeDistribution"`
}

// FeedbackExportRow is the flattened record shape the CSV/PDF renderers
// consume. Type carries the current type name when the type still exists,
// otherwise the denormalized submission-time name.
type FeedbackExportRow struct {
	Name      string
	Email     string
	Type      string
	Message   string
	Rating    int
	CreatedAt time.Time
}

// RegisterRequest is the admin self-registration payload.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse returns a signed token plus the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse reports service liveness.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
