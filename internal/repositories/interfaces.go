package repositories

import (
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type AssessmentFilters struct {
	CreatorID   *string              `json:"creator_id"`
	IsPublished *bool                `json:"is_published"`
	Type        *models.QuestionType `json:"type"`
	DateFrom    *time.Time           `json:"date_from"`
	DateTo      *time.Time           `json:"date_to"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
	SortBy      string               `json:"sort_by"`    // "created_at", "title"
	SortOrder   string               `json:"sort_order"` // "asc", "desc"
}
