package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/SAP-F-2025/interview-session-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultListLimit = 50

// columns refreshed when an attempt is saved again, e.g. after late self-marking
var attemptOutcomeColumns = []string{
	"score", "accuracy", "answered", "answers", "end_reason", "time_spent", "finished_at", "updated_at",
}

var attemptSortColumns = map[string]string{
	"finished_at": "finished_at",
	"created_at":  "created_at",
	"accuracy":    "accuracy",
	"score":       "score",
	"time_spent":  "time_spent",
}

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a AttemptPostgreSQL) Save(ctx context.Context, record *models.AttemptRecord) error {
	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "attempt_id"}},
			DoUpdates: clause.AssignmentColumns(attemptOutcomeColumns),
		}).
		Create(record).Error
}

func (a AttemptPostgreSQL) GetByAttemptID(ctx context.Context, attemptID string) (*models.AttemptRecord, error) {
	var record models.AttemptRecord
	if err := a.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrAttemptNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (a AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.AttemptRecord, int64, error) {
	var records []*models.AttemptRecord
	var total int64

	// apply filter first
	query := a.db.WithContext(ctx).Model(&models.AttemptRecord{})
	query = applyAttemptFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = applyPaginationAndSort(query, filters)

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

type interviewStatsRow struct {
	TotalAttempts   int64
	TimedOut        int64
	AverageAccuracy float64
	BestScore       int
	AverageTimeUsed float64
}

func (a AttemptPostgreSQL) StatsByInterview(ctx context.Context, interviewID int) (*models.InterviewStats, error) {
	var row interviewStatsRow

	err := a.db.WithContext(ctx).
		Model(&models.AttemptRecord{}).
		Where("interview_id = ?", interviewID).
		Select(`COUNT(*) AS total_attempts,
			COALESCE(SUM(CASE WHEN end_reason = ? THEN 1 ELSE 0 END), 0) AS timed_out,
			COALESCE(AVG(accuracy), 0) AS average_accuracy,
			COALESCE(MAX(score), 0) AS best_score,
			COALESCE(AVG(time_spent), 0) AS average_time_used`, models.EndReasonTimedOut).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attempts for interview %d: %w", interviewID, err)
	}

	return &models.InterviewStats{
		InterviewID:     interviewID,
		TotalAttempts:   row.TotalAttempts,
		TimedOut:        row.TimedOut,
		AverageAccuracy: row.AverageAccuracy,
		BestScore:       row.BestScore,
		AverageTimeUsed: row.AverageTimeUsed,
	}, nil
}

// applyAttemptFilters applies common filters to a query
func applyAttemptFilters(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.InterviewID != nil {
		query = query.Where("interview_id = ?", *filters.InterviewID)
	}
	if filters.SessionID != "" {
		query = query.Where("session_id = ?", filters.SessionID)
	}
	if filters.EndReason != nil {
		query = query.Where("end_reason = ?", *filters.EndReason)
	}
	if filters.DateFrom != nil {
		query = query.Where("finished_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		// date_to names a whole day
		query = query.Where("finished_at < ?", filters.DateTo.AddDate(0, 0, 1))
	}
	return query
}

// applyPaginationAndSort applies pagination and sorting to a query
func applyPaginationAndSort(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	column, ok := attemptSortColumns[filters.SortBy]
	if !ok {
		column = "finished_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s, id %s", column, order, order))

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query = query.Limit(limit)
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
