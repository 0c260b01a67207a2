package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ExportResults renders every session of the assessment as a flat table,
// one row per session, one trailing column per question. Creator ownership
// is enforced; absent and not-owned assessments both read as not found.
func (s *exportService) ExportResults(ctx context.Context, assessmentID, teacherID, format string) (*ExportResult, error) {
	assessment, err := s.repo.Assessment().GetOwnedWithQuestions(ctx, nil, assessmentID, teacherID)
	if err != nil {
		if repositories.IsNotVisible(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	questions := assessment.Questions

	sessions, err := s.repo.Session().GetByAssessment(ctx, nil, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	s.logger.Info("Exporting results", "assessment_id", assessmentID, "format", format, "sessions", len(sessions))

	header := buildExportHeader(questions)
	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, buildExportRow(session, questions))
	}

	baseName := whitespaceRun.ReplaceAllString(assessment.Title, "_") + "_results"

	switch format {
	case ExportFormatXLSX:
		data, err := renderXLSX(header, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to render xlsx: %w", err)
		}
		return &ExportResult{
			Filename:    baseName + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case "", ExportFormatCSV:
		data, err := renderCSV(header, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to render csv: %w", err)
		}
		return &ExportResult{
			Filename:    baseName + ".csv",
			ContentType: "text/csv",
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrBadRequest, format)
	}
}

// buildExportHeader lists the fixed columns followed by one column per
// question, labeled with a truncated question id and its marks.
func buildExportHeader(questions []models.AssessmentQuestion) []string {
	header := []string{"Student ID", "Submission Date", "Status", "Score", "Feedback"}
	for _, q := range questions {
		header = append(header, fmt.Sprintf("Q%s (%d marks)", shortID(q.ID), q.Marks))
	}
	return header
}

func buildExportRow(session *models.AssessmentSession, questions []models.AssessmentQuestion) []string {
	feedback := ""
	if session.Feedback != nil {
		feedback = *session.Feedback
	}

	row := []string{
		session.UserID,
		session.EndTime.Format("2006-01-02 15:04:05"),
		string(session.Status),
		strconv.FormatFloat(session.Score, 'f', -1, 64),
		feedback,
	}

	scores := make(map[string]*float64)
	for _, response := range session.Responses {
		scores[response.QuestionID] = response.Score
	}

	for _, q := range questions {
		cell := "N/A"
		if score, answered := scores[q.ID]; answered && score != nil {
			cell = strconv.FormatFloat(*score, 'f', -1, 64)
		}
		row = append(row, cell)
	}

	return row
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func renderXLSX(header []string, rows [][]string) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Results"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	writeRow := func(rowIdx int, values []string) error {
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
