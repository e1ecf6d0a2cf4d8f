package repositories

import (
	"errors"

	"gorm.io/gorm"

	"folio_backend/internal/models"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// ReviewWithCommentCount - строка админской выдачи: отзыв плюс
// количество комментариев в его треде.
type ReviewWithCommentCount struct {
	models.Review
	CommentCount int64
}

// StatusCounts - количество отзывов по статусам.
type StatusCounts struct {
	Total            int64
	Pending          int64
	Approved         int64
	Denied           int64
	ChangesRequested int64
	Featured         int64
}

type ReviewRepository interface {
	// Review operations
	CreateReview(db *gorm.DB, review *models.Review) error
	FindReviewByID(db *gorm.DB, id string) (*models.Review, error)
	UpdateStatus(db *gorm.DB, id string, status models.ReviewStatus, denialReason *string) error
	SetFeatured(db *gorm.DB, id string, featured bool) error
	DeleteReview(db *gorm.DB, id string) error

	// Listings
	FindApprovedReviews(db *gorm.DB, page, pageSize int) ([]models.Review, int64, error)
	FindFeaturedReviews(db *gorm.DB, limit int) ([]models.Review, error)
	FindAllWithCommentCounts(db *gorm.DB, status models.ReviewStatus) ([]ReviewWithCommentCount, error)
	CountByStatus(db *gorm.DB) (*StatusCounts, error)

	// Comment operations
	CreateComment(db *gorm.DB, comment *models.ReviewComment) error
	FindCommentsByReview(db *gorm.DB, reviewID string) ([]models.ReviewComment, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

// ---------------- Review operations ----------------

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindReviewByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// UpdateStatus пишет статус и denial_reason одним UPDATE.
// denial_reason всегда перезаписывается: он не-NULL только у denied,
// любой переход из denied его очищает.
func (r *ReviewRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ReviewStatus, denialReason *string) error {
	result := db.Model(&models.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        status,
		"denial_reason": denialReason,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) SetFeatured(db *gorm.DB, id string, featured bool) error {
	result := db.Model(&models.Review{}).Where("id = ?", id).Update("featured", featured)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// DeleteReview удаляет отзыв вместе с тредом комментариев.
// Комментарии удаляются явно, чтобы не зависеть от того,
// включен ли FK cascade на стороне конкретной БД.
func (r *ReviewRepositoryImpl) DeleteReview(db *gorm.DB, id string) error {
	if err := db.Where("review_id = ?", id).Delete(&models.ReviewComment{}).Error; err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ---------------- Listings ----------------

func (r *ReviewRepositoryImpl) FindApprovedReviews(db *gorm.DB, page, pageSize int) ([]models.Review, int64, error) {
	var total int64
	if err := db.Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusApproved).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	offset := (page - 1) * pageSize
	err := db.Where("status = ?", models.ReviewStatusApproved).
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&reviews).Error

	return reviews, total, err
}

func (r *ReviewRepositoryImpl) FindFeaturedReviews(db *gorm.DB, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("status = ? AND featured = ?", models.ReviewStatusApproved, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// FindAllWithCommentCounts возвращает отзывы (опционально одного статуса)
// вместе с количеством комментариев в их тредах.
func (r *ReviewRepositoryImpl) FindAllWithCommentCounts(db *gorm.DB, status models.ReviewStatus) ([]ReviewWithCommentCount, error) {
	query := db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		ReviewID string
		Cnt      int64
	}
	var counts []countRow
	if err := db.Model(&models.ReviewComment{}).
		Select("review_id, COUNT(*) as cnt").
		Group("review_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	countByID := make(map[string]int64, len(counts))
	for _, c := range counts {
		countByID[c.ReviewID] = c.Cnt
	}

	result := make([]ReviewWithCommentCount, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, ReviewWithCommentCount{
			Review:       review,
			CommentCount: countByID[review.ID],
		})
	}
	return result, nil
}

func (r *ReviewRepositoryImpl) CountByStatus(db *gorm.DB) (*StatusCounts, error) {
	var counts StatusCounts

	if err := db.Model(&models.Review{}).Count(&counts.Total).Error; err != nil {
		return nil, err
	}

	byStatus := map[models.ReviewStatus]*int64{
		models.ReviewStatusPending:          &counts.Pending,
		models.ReviewStatusApproved:         &counts.Approved,
		models.ReviewStatusDenied:           &counts.Denied,
		models.ReviewStatusChangesRequested: &counts.ChangesRequested,
	}
	for status, dst := range byStatus {
		if err := db.Model(&models.Review{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&models.Review{}).Where("featured = ?", true).Count(&counts.Featured).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

// ---------------- Comment operations ----------------

func (r *ReviewRepositoryImpl) CreateComment(db *gorm.DB, comment *models.ReviewComment) error {
	return db.Create(comment).Error
}

// FindCommentsByReview возвращает тред в хронологическом порядке.
func (r *ReviewRepositoryImpl) FindCommentsByReview(db *gorm.DB, reviewID string) ([]models.ReviewComment, error) {
	var comments []models.ReviewComment
	err := db.Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
