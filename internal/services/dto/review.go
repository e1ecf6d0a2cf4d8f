package dto

import (
	"time"

	"folio_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type SubmitReviewRequest struct {
	// Указатель: rating=0 - это переданное значение (будет обрезано до 1),
	// а не отсутствующее поле.
	Rating          *int   `json:"rating" validate:"required"`
	Body            string `json:"body" validate:"required,max=4000"`
	ProjectName     string `json:"project_name" validate:"omitempty,max=200"`
	Company         string `json:"company" validate:"omitempty,max=200"`
	Position        string `json:"position" validate:"omitempty,max=200"`
	WorkDescription string `json:"work_description" validate:"omitempty,max=4000"`
}

type DenyReviewRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type RequestChangesRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

type SetFeaturedRequest struct {
	// Указатель, чтобы отличать "false" от "поле не передано".
	Featured *bool `json:"featured" validate:"required"`
}

type AddCommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// AdminReviewListQuery - параметры админской выдачи.
// Пустой status означает "все статусы".
type AdminReviewListQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,is-review-status"`
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ID              string              `json:"id"`
	AuthorID        string              `json:"author_id"`
	AuthorName      string              `json:"author_name"`
	Avatar          string              `json:"avatar,omitempty"`
	Rating          int                 `json:"rating"`
	Body            string              `json:"body"`
	ProjectName     string              `json:"project_name,omitempty"`
	Company         string              `json:"company,omitempty"`
	Position        string              `json:"position,omitempty"`
	WorkDescription string              `json:"work_description,omitempty"`
	Status          models.ReviewStatus `json:"status"`
	DenialReason    *string             `json:"denial_reason,omitempty"`
	Featured        bool                `json:"featured"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// AdminReviewResponse - отзыв в админской выдаче, с количеством
// комментариев в треде модерации.
type AdminReviewResponse struct {
	ReviewResponse
	CommentCount int64 `json:"comment_count"`
}

type CommentResponse struct {
	ID         string          `json:"id"`
	ReviewID   string          `json:"review_id"`
	AuthorID   string          `json:"author_id"`
	AuthorName string          `json:"author_name"`
	AuthorRole models.UserRole `json:"author_role"`
	Body       string          `json:"body"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// ModerationStats - счетчики для админской панели.
type ModerationStats struct {
	Total            int64 `json:"total"`
	Pending          int64 `json:"pending"`
	Approved         int64 `json:"approved"`
	Denied           int64 `json:"denied"`
	ChangesRequested int64 `json:"changes_requested"`
	Featured         int64 `json:"featured"`
}
