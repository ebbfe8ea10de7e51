package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/logger"
	appstore "github.com/feedbackhq/feedback-collector/store"
	"github.com/feedbackhq/feedback-collector/types"
)

// Ensure pgFeedbackStore implements store.FeedbackStore.
var _ appstore.FeedbackStore = (*pgFeedbackStore)(nil)

type pgFeedbackStore struct {
	db DB
}

// NewPgFeedbackStore creates a new PostgreSQL feedback store.
func NewPgFeedbackStore(db DB) appstore.FeedbackStore {
	return &pgFeedbackStore{db: db}
}

// ownerScope is the resolved set of feedback type ids an admin may see. It is
// re-derived on every request; list, count, stats, export, and delete all
// build their predicates from the same scope so they can never disagree.
type ownerScope struct {
	typeIDs []string
}

func (sc *ownerScope) empty() bool {
	return len(sc.typeIDs) == 0
}

// resolveScope loads the admin's ACTIVE type ids, then — when a type-name
// filter is present — replaces the set with the active types whose name
// contains the filter substring (case-insensitive). The replacement semantics
// mean a filter that matches nothing yields an empty scope, not the full one.
func (s *pgFeedbackStore) resolveScope(ctx context.Context, adminID, typeNameFilter string) (*ownerScope, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, name FROM feedback_types
        WHERE created_by = $1 AND is_active = true`, adminID)
	if err != nil {
		logger.GetLogger().Errorw("Failed to resolve owned feedback types", "adminId", adminID, "error", err)
		return nil, fmt.Errorf("failed to resolve owner scope: %w", err)
	}
	defer rows.Close()

	filter := strings.ToLower(strings.TrimSpace(typeNameFilter))
	scope := &ownerScope{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan owned type row: %w", err)
		}
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		scope.typeIDs = append(scope.typeIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("owned type rows iteration failed: %w", err)
	}
	return scope, nil
}

// scopeWhere builds the WHERE clause and arguments shared by every scoped
// feedback query: membership in the resolved type id set, conjoined with the
// optional exact-rating and free-text conditions.
func scopeWhere(scope *ownerScope, filter types.FeedbackFilter) (string, []any) {
	conditions := []string{"f.feedback_type_id = ANY($1::uuid[])"}
	args := []any{scope.typeIDs}

	if filter.Rating != nil {
		args = append(args, *filter.Rating)
		conditions = append(conditions, fmt.Sprintf("f.rating = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(f.name ILIKE $%d OR f.email ILIKE $%d OR f.message ILIKE $%d)", n, n, n))
	}

	return strings.Join(conditions, " AND "), args
}

// CreateFeedback persists a public submission. The caller has already
// resolved the active type; the denormalized type name travels with the row.
func (s *pgFeedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (string, error) {
	log := logger.GetLogger()

	var id string
	err := s.db.QueryRow(ctx, `
        INSERT INTO feedback (name, email, type, feedback_type_id, message, rating)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		strings.TrimSpace(fb.Name),
		strings.ToLower(strings.TrimSpace(fb.Email)),
		fb.Type,
		fb.FeedbackTypeID,
		strings.TrimSpace(fb.Message),
		fb.Rating,
	).Scan(&id)

	if err != nil {
		log.Errorw("Failed to create feedback", "type", fb.Type, "error", err)
		return "", fmt.Errorf("failed to insert feedback: %w", err)
	}

	log.Infow("Created feedback", "feedbackId", id, "type", fb.Type, "rating", fb.Rating)
	return id, nil
}

// ListFeedback returns one page of the admin's scoped feedback plus the total
// record count for the identical predicate. A zero-type scope short-circuits
// to an empty page.
func (s *pgFeedbackStore) ListFeedback(ctx context.Context, adminID string, filter types.FeedbackFilter, page, limit int) ([]types.FeedbackListItem, int, error) {
	scope, err := s.resolveScope(ctx, adminID, filter.TypeName)
	if err != nil {
		return nil, 0, err
	}
	if scope.empty() {
		return []types.FeedbackListItem{}, 0, nil
	}

	where, args := scopeWhere(scope, filter)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM feedback f WHERE %s`, where)
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.GetLogger().Errorw("Failed to count feedback", "adminId", adminID, "error", err)
		return nil, 0, fmt.Errorf("failed to count feedback: %w", err)
	}

	offset := (page - 1) * limit
	pageArgs := append(args, limit, offset)
	listQuery := fmt.Sprintf(`
        SELECT f.id, f.name, f.email, f.type, f.feedback_type_id, f.message,
               f.rating, f.created_at, f.updated_at,
               t.id, t.name, t.color, t.icon
        FROM feedback f
        LEFT JOIN feedback_types t ON t.id = f.feedback_type_id
        WHERE %s
        ORDER BY f.created_at DESC
        LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	rows, err := s.db.Query(ctx, listQuery, pageArgs...)
	if err != nil {
		logger.GetLogger().Errorw("Failed to list feedback", "adminId", adminID, "error", err)
		return nil, 0, fmt.Errorf("failed to query feedback page: %w", err)
	}
	defer rows.Close()

	items := []types.FeedbackListItem{}
	for rows.Next() {
		var item types.FeedbackListItem
		var refID, refName, refColor, refIcon *string
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Email,
			&item.Type,
			&item.FeedbackTypeID,
			&item.Message,
			&item.Rating,
			&item.CreatedAt,
			&item.UpdatedAt,
			&refID,
			&refName,
			&refColor,
			&refIcon,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		if refID != nil {
			item.FeedbackType = &types.FeedbackTypeRef{
				ID:    *refID,
				Name:  *refName,
				Color: *refColor,
				Icon:  *refIcon,
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("feedback rows iteration failed: %w", err)
	}

	return items, total, nil
}

// GetStats aggregates the admin's scoped feedback: total count, mean rating
// rounded to one decimal, trailing-six-month buckets ordered by year then
// month, and per-type counts with display color. Zero owned types yields the
// zero-valued stats object.
func (s *pgFeedbackStore) GetStats(ctx context.Context, adminID string) (*types.FeedbackStats, error) {
	scope, err := s.resolveScope(ctx, adminID, "")
	if err != nil {
		return nil, err
	}

	stats := &types.FeedbackStats{
		MonthlyFeedback:  []types.MonthlyCount{},
		TypeDistribution: []types.TypeCount{},
	}
	if scope.empty() {
		return stats, nil
	}

	where, args := scopeWhere(scope, types.FeedbackFilter{})

	var avg float64
	totalQuery := fmt.Sprintf(
		`SELECT COUNT(*), COALESCE(AVG(f.rating), 0) FROM feedback f WHERE %s`, where)
	if err := s.db.QueryRow(ctx, totalQuery, args...).Scan(&stats.TotalFeedback, &avg); err != nil {
		logger.GetLogger().Errorw("Failed to aggregate feedback totals", "adminId", adminID, "error", err)
		return nil, fmt.Errorf("failed to aggregate feedback totals: %w", err)
	}
	stats.AverageRating = math.Round(avg*10) / 10

	monthlyQuery := fmt.Sprintf(`
        SELECT EXTRACT(YEAR FROM f.created_at)::int,
               EXTRACT(MONTH FROM f.created_at)::int,
               COUNT(*)::int
        FROM feedback f
        WHERE %s AND f.created_at >= now() - interval '6 months'
        GROUP BY 1, 2
        ORDER BY 1, 2`, where)

	rows, err := s.db.Query(ctx, monthlyQuery, args...)
	if err != nil {
		logger.GetLogger().Errorw("Failed to aggregate monthly feedback", "adminId", adminID, "error", err)
		return nil, fmt.Errorf("failed to aggregate monthly feedback: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mc types.MonthlyCount
		if err := rows.Scan(&mc.Year, &mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly bucket: %w", err)
		}
		stats.MonthlyFeedback = append(stats.MonthlyFeedback, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly bucket rows iteration failed: %w", err)
	}

	typeQuery := fmt.Sprintf(`
        SELECT t.id, t.name, t.color, COUNT(*)::int
        FROM feedback f
        JOIN feedback_types t ON t.id = f.feedback_type_id
        WHERE %s
        GROUP BY t.id, t.name, t.color
        ORDER BY COUNT(*) DESC`, where)

	typeRows, err := s.db.Query(ctx, typeQuery, args...)
	if err != nil {
		logger.GetLogger().Errorw("Failed to aggregate type distribution", "adminId", adminID, "error", err)
		return nil, fmt.Errorf("failed to aggregate type distribution: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var tc types.TypeCount
		if err := typeRows.Scan(&tc.TypeID, &tc.Name, &tc.Color, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type distribution row: %w", err)
		}
		stats.TypeDistribution = append(stats.TypeDistribution, tc)
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("type distribution rows iteration failed: %w", err)
	}

	return stats, nil
}

// DeleteFeedback removes one scoped record. The scope is re-derived and the
// id must fall inside it; a miss for either reason reports the same opaque
// not-found error, so foreign ids cannot be probed.
func (s *pgFeedbackStore) DeleteFeedback(ctx context.Context, id, adminID string) error {
	scope, err := s.resolveScope(ctx, adminID, "")
	if err != nil {
		return err
	}
	if scope.empty() {
		return apperrors.FeedbackNotFound()
	}

	tag, err := s.db.Exec(ctx, `
        DELETE FROM feedback
        WHERE id = $1 AND feedback_type_id = ANY($2::uuid[])`,
		id, scope.typeIDs)
	if err != nil {
		logger.GetLogger().Errorw("Failed to delete feedback", "feedbackId", id, "error", err)
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.FeedbackNotFound()
	}

	logger.GetLogger().Infow("Deleted feedback", "feedbackId", id, "adminId", adminID)
	return nil
}

// ExportFeedback returns every scoped record matching the filter, newest
// first, flattened for the renderers. An admin with no active types gets a
// not-found error here (unlike list/stats), matching the export contract.
func (s *pgFeedbackStore) ExportFeedback(ctx context.Context, adminID string, filter types.FeedbackFilter) ([]types.FeedbackExportRow, error) {
	scope, err := s.resolveScope(ctx, adminID, "")
	if err != nil {
		return nil, err
	}
	if scope.empty() {
		return nil, apperrors.New(apperrors.NotFoundError, "No feedback types found for this admin", "")
	}

	// The type-name filter replaces the scope set, after the zero-types check.
	if strings.TrimSpace(filter.TypeName) != "" {
		scope, err = s.resolveScope(ctx, adminID, filter.TypeName)
		if err != nil {
			return nil, err
		}
		if scope.empty() {
			return []types.FeedbackExportRow{}, nil
		}
	}

	where, args := scopeWhere(scope, filter)
	query := fmt.Sprintf(`
        SELECT f.name, f.email, COALESCE(t.name, f.type), f.message, f.rating, f.created_at
        FROM feedback f
        LEFT JOIN feedback_types t ON t.id = f.feedback_type_id
        WHERE %s
        ORDER BY f.created_at DESC`, where)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		logger.GetLogger().Errorw("Failed to export feedback", "adminId", adminID, "error", err)
		return nil, fmt.Errorf("failed to query feedback export: %w", err)
	}
	defer rows.Close()

	result := []types.FeedbackExportRow{}
	for rows.Next() {
		var row types.FeedbackExportRow
		if err := rows.Scan(&row.Name, &row.Email, &row.Type, &row.Message, &row.Rating, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("export rows iteration failed: %w", err)
	}
	return result, nil
}
