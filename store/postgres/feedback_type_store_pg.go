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

// Ensure pgFeedbackTypeStore implements store.FeedbackTypeStore.
var _ appstore.FeedbackTypeStore = (*pgFeedbackTypeStore)(nil)

type pgFeedbackTypeStore struct {
	db DB
}

// NewPgFeedbackTypeStore creates a new PostgreSQL feedback type store.
func NewPgFeedbackTypeStore(db DB) appstore.FeedbackTypeStore {
	return &pgFeedbackTypeStore{db: db}
}

const feedbackTypeColumns = `id, name, description, is_active, color, icon, created_by, created_at, updated_at`

func scanFeedbackType(row pgx.Row, ft *types.FeedbackType) error {
	return row.Scan(
		&ft.ID,
		&ft.Name,
		&ft.Description,
		&ft.IsActive,
		&ft.Color,
		&ft.Icon,
		&ft.CreatedBy,
		&ft.CreatedAt,
		&ft.UpdatedAt,
	)
}

// CreateType inserts a new feedback type. Name uniqueness is global and
// case-insensitive; a collision maps to a Conflict error whether it is caught
// by the pre-check in the handler or by the unique index here.
func (s *pgFeedbackTypeStore) CreateType(ctx context.Context, ft *types.FeedbackType) (string, error) {
	log := logger.GetLogger()

	var id string
	err := s.db.QueryRow(ctx, `
        INSERT INTO feedback_types (name, description, is_active, color, icon, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		strings.TrimSpace(ft.Name),
		ft.Description,
		ft.IsActive,
		ft.Color,
		ft.Icon,
		ft.CreatedBy,
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return "", apperrors.Conflict("Feedback type with this name already exists")
		}
		log.Errorw("Failed to create feedback type", "name", ft.Name, "error", err)
		return "", fmt.Errorf("failed to insert feedback type: %w", err)
	}

	log.Infow("Created feedback type", "typeId", id, "name", ft.Name, "createdBy", ft.CreatedBy)
	return id, nil
}

// GetOwnedType retrieves a type only when it belongs to adminID. An absent id
// and a foreign-owned id both return the same opaque not-found error.
func (s *pgFeedbackTypeStore) GetOwnedType(ctx context.Context, id, adminID string) (*types.FeedbackType, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM feedback_types
        WHERE id = $1 AND created_by = $2`, feedbackTypeColumns)

	var ft types.FeedbackType
	err := scanFeedbackType(s.db.QueryRow(ctx, query, id, adminID), &ft)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.TypeNotFound()
		}
		logger.GetLogger().Errorw("Failed to get feedback type", "typeId", id, "error", err)
		return nil, fmt.Errorf("failed to execute GetOwnedType query: %w", err)
	}
	return &ft, nil
}

// UpdateType rewrites the mutable display fields of an owned type. CreatedBy
// is never touched; ownership is enforced in the predicate.
func (s *pgFeedbackTypeStore) UpdateType(ctx context.Context, ft *types.FeedbackType) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE feedback_types
        SET name = $1, description = $2, color = $3, icon = $4, updated_at = now()
        WHERE id = $5 AND created_by = $6`,
		strings.TrimSpace(ft.Name),
		ft.Description,
		ft.Color,
		ft.Icon,
		ft.ID,
		ft.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("Feedback type with this name already exists")
		}
		logger.GetLogger().Errorw("Failed to update feedback type", "typeId", ft.ID, "error", err)
		return fmt.Errorf("failed to update feedback type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.TypeNotFound()
	}
	return nil
}

// ToggleType flips is_active on an owned type and returns the updated row.
// Existing feedback records are not cascaded.
func (s *pgFeedbackTypeStore) ToggleType(ctx context.Context, id, adminID string) (*types.FeedbackType, error) {
	query := fmt.Sprintf(`
        UPDATE feedback_types
        SET is_active = NOT is_active, updated_at = now()
        WHERE id = $1 AND created_by = $2
        RETURNING %s`, feedbackTypeColumns)

	var ft types.FeedbackType
	err := scanFeedbackType(s.db.QueryRow(ctx, query, id, adminID), &ft)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.TypeNotFound()
		}
		logger.GetLogger().Errorw("Failed to toggle feedback type", "typeId", id, "error", err)
		return nil, fmt.Errorf("failed to toggle feedback type: %w", err)
	}
	return &ft, nil
}

// DeleteType removes an owned type outright. Feedback referencing it is left
// in place (soft-orphan: unreachable through the ownership scope afterwards).
func (s *pgFeedbackTypeStore) DeleteType(ctx context.Context, id, adminID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM feedback_types WHERE id = $1 AND created_by = $2`, id, adminID)
	if err != nil {
		logger.GetLogger().Errorw("Failed to delete feedback type", "typeId", id, "error", err)
		return fmt.Errorf("failed to delete feedback type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.TypeNotFound()
	}
	logger.GetLogger().Infow("Deleted feedback type", "typeId", id, "adminId", adminID)
	return nil
}

// ListActiveTypes returns active types for the public picker, optionally
// narrowed by a case-insensitive name substring, sorted by name.
func (s *pgFeedbackTypeStore) ListActiveTypes(ctx context.Context, search string) ([]types.FeedbackType, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM feedback_types
        WHERE is_active = true AND ($1 = '' OR name ILIKE '%%' || $1 || '%%')
        ORDER BY name ASC`, feedbackTypeColumns)

	return s.queryTypes(ctx, query, strings.TrimSpace(search))
}

// ListTypesByOwner returns every type the admin created, active or not,
// newest first.
func (s *pgFeedbackTypeStore) ListTypesByOwner(ctx context.Context, adminID, search string) ([]types.FeedbackType, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM feedback_types
        WHERE created_by = $1 AND ($2 = '' OR name ILIKE '%%' || $2 || '%%')
        ORDER BY created_at DESC`, feedbackTypeColumns)

	return s.queryTypes(ctx, query, adminID, strings.TrimSpace(search))
}

// FindActiveByName resolves a submission's type label to an active type by
// exact case-insensitive name match. A miss returns nil, not an error, so the
// intake handler can answer with its own invalid-type error.
func (s *pgFeedbackTypeStore) FindActiveByName(ctx context.Context, name string) (*types.FeedbackType, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM feedback_types
        WHERE lower(name) = lower($1) AND is_active = true`, feedbackTypeColumns)

	var ft types.FeedbackType
	err := scanFeedbackType(s.db.QueryRow(ctx, query, strings.TrimSpace(name)), &ft)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.GetLogger().Errorw("Failed to resolve feedback type by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to execute FindActiveByName query: %w", err)
	}
	return &ft, nil
}

// NameExists reports whether any type (active or not) carries the name,
// case-insensitively, excluding excludeID when non-empty so renames don't
// collide with themselves.
func (s *pgFeedbackTypeStore) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM feedback_types
            WHERE lower(name) = lower($1) AND ($2 = '' OR id <> $2::uuid)
        )`,
		strings.TrimSpace(name),
		excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to execute NameExists query: %w", err)
	}
	return exists, nil
}

func (s *pgFeedbackTypeStore) queryTypes(ctx context.Context, query string, args ...any) ([]types.FeedbackType, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		logger.GetLogger().Errorw("Failed to list feedback types", "error", err)
		return nil, fmt.Errorf("failed to query feedback types: %w", err)
	}
	defer rows.Close()

	result := []types.FeedbackType{}
	for rows.Next() {
		var ft types.FeedbackType
		if err := scanFeedbackType(rows, &ft); err != nil {
			return nil, fmt.Errorf("failed to scan feedback type row: %w", err)
		}
		result = append(result, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feedback type rows iteration failed: %w", err)
	}
	return result, nil
}
