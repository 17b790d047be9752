package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/SAP-F-2025/interview-session-service/internal/repositories"
	"github.com/SAP-F-2025/interview-session-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName  = "Attempts"
	exportTimeLayout = "2006-01-02 15:04:05"
	maxExportRows    = 500
)

// AttemptRecorder receives the outcome of finished sessions.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, record *models.AttemptRecord) error
}

type HistoryPage struct {
	Attempts []*models.AttemptRecord `json:"attempts"`
	Total    int64                   `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

type HistoryService interface {
	AttemptRecorder
	List(ctx context.Context, filters repositories.AttemptFilters) (*HistoryPage, error)
	Get(ctx context.Context, attemptID string) (*models.AttemptRecord, error)
	Stats(ctx context.Context, interviewID int) (*models.InterviewStats, error)
	ExportToExcel(ctx context.Context, filters repositories.AttemptFilters) ([]byte, error)
}

type historyService struct {
	repo      repositories.AttemptRepository
	validator *validator.Validator
	logger    *slog.Logger
	opLog     *ServiceLogger
}

func NewHistoryService(repo repositories.AttemptRepository, v *validator.Validator, logger *slog.Logger) HistoryService {
	return &historyService{
		repo:      repo,
		validator: v,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "interview-session", Component: "history"}),
	}
}

func (s *historyService) RecordAttempt(ctx context.Context, record *models.AttemptRecord) error {
	op := s.opLog.WithOperation(ctx, "record_attempt", "attempt", record.AttemptID)

	if err := s.repo.Save(ctx, record); err != nil {
		err = fmt.Errorf("failed to save attempt %s: %w", record.AttemptID, err)
		op.LogResult(err)
		return err
	}

	op.LogResult(nil)
	return nil
}

func (s *historyService) List(ctx context.Context, filters repositories.AttemptFilters) (*HistoryPage, error) {
	op := s.opLog.WithOperation(ctx, "list_attempts", "attempt", "*")

	if err := s.validator.Validate(filters); err != nil {
		op.LogResult(err)
		return nil, err
	}

	records, total, err := s.repo.List(ctx, filters)
	if err != nil {
		err = fmt.Errorf("failed to list attempts: %w", err)
		op.LogResult(err)
		return nil, err
	}

	op.LogResult(nil)
	return &HistoryPage{
		Attempts: records,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}

func (s *historyService) Get(ctx context.Context, attemptID string) (*models.AttemptRecord, error) {
	record, err := s.repo.GetByAttemptID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt %s: %w", attemptID, err)
	}
	return record, nil
}

func (s *historyService) Stats(ctx context.Context, interviewID int) (*models.InterviewStats, error) {
	op := s.opLog.WithOperation(ctx, "interview_stats", "interview", strconv.Itoa(interviewID))

	stats, err := s.repo.StatsByInterview(ctx, interviewID)
	op.LogResult(err)
	return stats, err
}

func (s *historyService) ExportToExcel(ctx context.Context, filters repositories.AttemptFilters) ([]byte, error) {
	op := s.opLog.WithOperation(ctx, "export_attempts", "attempt", "*")

	if filters.Limit <= 0 || filters.Limit > maxExportRows {
		filters.Limit = maxExportRows
	}
	records, _, err := s.repo.List(ctx, filters)
	if err != nil {
		err = fmt.Errorf("failed to get attempts for export: %w", err)
		op.LogResult(err)
		return nil, err
	}

	data, err := s.writeAttemptsWorkbook(records)
	op.LogResult(err)
	return data, err
}

func (s *historyService) writeAttemptsWorkbook(records []*models.AttemptRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{
		"Attempt ID", "Session ID", "Interview ID", "Interview", "Score", "Total",
		"Accuracy (%)", "Answered", "End Reason", "Time Spent (minutes)", "Started At", "Finished At",
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write Excel headers: %w", err)
	}

	for rowIndex, record := range records {
		row := []interface{}{
			record.AttemptID,
			record.SessionID,
			record.InterviewID,
			record.InterviewTitle,
			record.Score,
			record.Total,
			record.Accuracy,
			record.Answered,
			string(record.EndReason),
			float64(record.TimeSpent) / 60,
			record.StartedAt.Format(exportTimeLayout),
			record.FinishedAt.Format(exportTimeLayout),
		}

		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row %d: %w", rowIndex+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

// newAttemptRecord captures a finished session for the history store.
func newAttemptRecord(attemptID, sessionID string, st attemptSnapshot) *models.AttemptRecord {
	answers, err := json.Marshal(st.Answers)
	if err != nil {
		answers = []byte("{}")
	}

	return &models.AttemptRecord{
		AttemptID:      attemptID,
		SessionID:      sessionID,
		InterviewID:    st.Summary.InterviewID,
		InterviewTitle: st.Summary.InterviewTitle,
		Score:          st.Summary.Score,
		Total:          st.Summary.Total,
		Accuracy:       st.Summary.Accuracy,
		Answered:       st.Summary.Answered,
		Answers:        answers,
		EndReason:      st.Summary.EndReason,
		TimeSpent:      st.Summary.TimeSpent(),
		StartedAt:      st.StartedAt.UTC(),
		FinishedAt:     st.FinishedAt.UTC(),
	}
}
