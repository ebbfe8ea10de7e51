package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/logger"
	appstore "github.com/feedbackhq/feedback-collector/store"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/jackc/pgx/v5"
)

// Ensure pgUserStore implements store.UserStore.
var _ appstore.UserStore = (*pgUserStore)(nil)

type pgUserStore struct {
	db DB
}

// NewPgUserStore creates a new PostgreSQL user store.
func NewPgUserStore(db DB) appstore.UserStore {
	return &pgUserStore{db: db}
}

// CreateUser inserts a new admin account and returns its id. Emails are
// stored lowercase so lookups stay case-insensitive.
func (s *pgUserStore) CreateUser(ctx context.Context, user *types.User) (string, error) {
	log := logger.GetLogger()

	var id string
	err := s.db.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id`,
		strings.TrimSpace(user.Username),
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.PasswordHash,
		user.Role,
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return "", apperrors.Conflict("User with this email or username already exists")
		}
		log.Errorw("Failed to create user", "email", logger.MaskEmail(user.Email), "error", err)
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	log.Infow("Created user", "userId", id, "email", logger.MaskEmail(user.Email))
	return id, nil
}

// GetUserByID retrieves a user by primary key.
func (s *pgUserStore) GetUserByID(ctx context.Context, id string) (*types.User, error) {
	query := `
        SELECT id, username, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE id = $1`

	var user types.User
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User")
		}
		logger.GetLogger().Errorw("Failed to get user", "userId", id, "error", err)
		return nil, fmt.Errorf("failed to execute GetUserByID query: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *pgUserStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	query := `
        SELECT id, username, email, password_hash, role, created_at, updated_at
        FROM users
        WHERE email = lower($1)`

	var user types.User
	err := s.db.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User")
		}
		logger.GetLogger().Errorw("Failed to get user by email", "email", logger.MaskEmail(email), "error", err)
		return nil, fmt.Errorf("failed to execute GetUserByEmail query: %w", err)
	}
	return &user, nil
}

// UserExists reports whether a user with the given username or email exists.
func (s *pgUserStore) UserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM users WHERE username = $1 OR email = lower($2)
        )`,
		strings.TrimSpace(username),
		strings.TrimSpace(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to execute UserExists query: %w", err)
	}
	return exists, nil
}

// CountAdmins returns the number of admin accounts.
func (s *pgUserStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = $1`, types.RoleAdmin,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CountAdmins query: %w", err)
	}
	return count, nil
}
