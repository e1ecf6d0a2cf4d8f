package services

import (
	"errors"

	"gorm.io/gorm"

	"folio_backend/internal/models"
	"folio_backend/internal/repositories"
	"folio_backend/internal/services/dto"
	"folio_backend/pkg/apperrors"
)

// ReviewService - машина состояний модерации отзывов плюс тред
// комментариев. Все четыре статуса достижимы из любого другого:
// терминальных состояний нет, админ может пере-одобрить отклоненный
// отзыв. Жесткое правило только одно - гигиена полей
// (denial_reason живет строго вместе со статусом denied).
//
// Конкурентные переходы по одному отзыву разрешаются как
// last-write-wins на стороне БД, версионирования нет.
type ReviewService interface {
	// Submission (любой аутентифицированный пользователь)
	Submit(db *gorm.DB, userID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	DeleteOwn(db *gorm.DB, userID, reviewID string) error

	// Public listings (контракт "что видит посетитель")
	ListApproved(db *gorm.DB, page, pageSize int) (*dto.ReviewListResponse, error)
	ListFeatured(db *gorm.DB, limit int) ([]*dto.ReviewResponse, error)

	// Moderation (только администратор)
	ListAllForAdmin(db *gorm.DB, adminID string, status models.ReviewStatus) ([]*dto.AdminReviewResponse, error)
	ModerationStats(db *gorm.DB, adminID string) (*dto.ModerationStats, error)
	Approve(db *gorm.DB, adminID, reviewID string) (*dto.ReviewResponse, error)
	Deny(db *gorm.DB, adminID, reviewID string, reason *string) (*dto.ReviewResponse, error)
	RequestChanges(db *gorm.DB, adminID, reviewID, comment string) (*dto.ReviewResponse, error)
	SetFeatured(db *gorm.DB, adminID, reviewID string, featured bool) (*dto.ReviewResponse, error)
	Delete(db *gorm.DB, adminID, reviewID string) error

	// Comment thread (администратор или автор отзыва)
	ListComments(db *gorm.DB, userID, reviewID string) ([]*dto.CommentResponse, error)
	AddComment(db *gorm.DB, userID, reviewID, body string) (*dto.CommentResponse, error)
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
	}
}

// ---------------- Submission ----------------

func (s *reviewService) Submit(db *gorm.DB, userID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("User not found")
		}
		return nil, err
	}

	rating := 0
	if req.Rating != nil {
		rating = *req.Rating
	}

	review := &models.Review{
		AuthorID: user.ID,
		// Снимок автора на момент подачи
		AuthorName:      user.Name,
		Avatar:          user.Avatar,
		Rating:          clampRating(rating),
		Body:            req.Body,
		ProjectName:     req.ProjectName,
		Company:         req.Company,
		Position:        req.Position,
		WorkDescription: req.WorkDescription,
		Status:          models.ReviewStatusPending,
	}

	if err := s.reviewRepo.CreateReview(db, review); err != nil {
		return nil, err
	}

	return buildReviewResponse(review), nil
}

// DeleteOwn удаляет отзыв самого автора. "Не существует" и "не твой"
// намеренно возвращают одну и ту же ошибку: факт существования чужого
// отзыва не раскрывается.
func (s *reviewService) DeleteOwn(db *gorm.DB, userID, reviewID string) error {
	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrReviewNotFoundOrForbidden
		}
		return err
	}

	if review.AuthorID != userID {
		return apperrors.ErrReviewNotFoundOrForbidden
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return s.reviewRepo.DeleteReview(tx, reviewID)
	})
}

// ---------------- Public listings ----------------

func (s *reviewService) ListApproved(db *gorm.DB, page, pageSize int) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindApprovedReviews(db, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, buildReviewResponse(&reviews[i]))
	}

	return &dto.ReviewListResponse{
		Reviews:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

func (s *reviewService) ListFeatured(db *gorm.DB, limit int) ([]*dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindFeaturedReviews(db, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, buildReviewResponse(&reviews[i]))
	}
	return responses, nil
}

// ---------------- Moderation ----------------

// ListAllForAdmin возвращает отзывы всех статусов с количеством
// комментариев; пустой status - без фильтра.
func (s *reviewService) ListAllForAdmin(db *gorm.DB, adminID string, status models.ReviewStatus) ([]*dto.AdminReviewResponse, error) {
	if _, err := s.requireAdmin(db, adminID); err != nil {
		return nil, err
	}

	rows, err := s.reviewRepo.FindAllWithCommentCounts(db, status)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.AdminReviewResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, &dto.AdminReviewResponse{
			ReviewResponse: *buildReviewResponse(&rows[i].Review),
			CommentCount:   rows[i].CommentCount,
		})
	}
	return responses, nil
}

func (s *reviewService) ModerationStats(db *gorm.DB, adminID string) (*dto.ModerationStats, error) {
	if _, err := s.requireAdmin(db, adminID); err != nil {
		return nil, err
	}

	counts, err := s.reviewRepo.CountByStatus(db)
	if err != nil {
		return nil, err
	}

	return &dto.ModerationStats{
		Total:            counts.Total,
		Pending:          counts.Pending,
		Approved:         counts.Approved,
		Denied:           counts.Denied,
		ChangesRequested: counts.ChangesRequested,
		Featured:         counts.Featured,
	}, nil
}

func (s *reviewService) Approve(db *gorm.DB, adminID, reviewID string) (*dto.ReviewResponse, error) {
	return s.transition(db, adminID, reviewID, models.ReviewStatusApproved, nil)
}

func (s *reviewService) Deny(db *gorm.DB, adminID, reviewID string, reason *string) (*dto.ReviewResponse, error) {
	return s.transition(db, adminID, reviewID, models.ReviewStatusDenied, reason)
}

// RequestChanges - единственный мульти-записный переход: смена статуса
// и комментарий администратора коммитятся одной транзакцией, по
// отдельности они не наблюдаемы.
func (s *reviewService) RequestChanges(db *gorm.DB, adminID, reviewID, comment string) (*dto.ReviewResponse, error) {
	admin, err := s.requireAdmin(db, adminID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.UpdateStatus(tx, reviewID, models.ReviewStatusChangesRequested, nil); err != nil {
			return err
		}
		return s.reviewRepo.CreateComment(tx, &models.ReviewComment{
			ReviewID:   reviewID,
			AuthorID:   admin.ID,
			AuthorName: admin.Name,
			AuthorRole: models.UserRoleAdmin,
			Body:       comment,
		})
	})
	if err != nil {
		return nil, mapReviewRepoError(err)
	}

	return s.loadResponse(db, reviewID)
}

func (s *reviewService) SetFeatured(db *gorm.DB, adminID, reviewID string, featured bool) (*dto.ReviewResponse, error) {
	if _, err := s.requireAdmin(db, adminID); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.SetFeatured(db, reviewID, featured); err != nil {
		return nil, mapReviewRepoError(err)
	}
	return s.loadResponse(db, reviewID)
}

func (s *reviewService) Delete(db *gorm.DB, adminID, reviewID string) error {
	if _, err := s.requireAdmin(db, adminID); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return s.reviewRepo.DeleteReview(tx, reviewID)
	})
	return mapReviewRepoError(err)
}

// ---------------- Comment thread ----------------

func (s *reviewService) ListComments(db *gorm.DB, userID, reviewID string) ([]*dto.CommentResponse, error) {
	if _, _, err := s.authorizeThreadAccess(db, userID, reviewID); err != nil {
		return nil, err
	}

	comments, err := s.reviewRepo.FindCommentsByReview(db, reviewID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, buildCommentResponse(&comments[i]))
	}
	return responses, nil
}

// AddComment добавляет комментарий в тред. Статус отзыва не меняется -
// этим операция отличается от RequestChanges.
func (s *reviewService) AddComment(db *gorm.DB, userID, reviewID, body string) (*dto.CommentResponse, error) {
	user, _, err := s.authorizeThreadAccess(db, userID, reviewID)
	if err != nil {
		return nil, err
	}

	// Роль автора - снимок на момент комментария
	role := models.UserRoleUser
	if user.Role == models.UserRoleAdmin {
		role = models.UserRoleAdmin
	}

	comment := &models.ReviewComment{
		ReviewID:   reviewID,
		AuthorID:   user.ID,
		AuthorName: user.Name,
		AuthorRole: role,
		Body:       body,
	}
	if err := s.reviewRepo.CreateComment(db, comment); err != nil {
		return nil, err
	}

	return buildCommentResponse(comment), nil
}

// ---------------- Helper methods ----------------

// requireAdmin проверяет роль вызывающего ДО любого обращения к
// отзывам: не-админ получает Forbidden даже для несуществующего ID
// и не может отличить "запрещено" от "не найдено".
func (s *reviewService) requireAdmin(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInsufficientPermissions
		}
		return nil, err
	}
	if user.Role != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return user, nil
}

// authorizeThreadAccess - тред комментариев читают и пишут только
// администратор и автор отзыва.
func (s *reviewService) authorizeThreadAccess(db *gorm.DB, userID, reviewID string) (*models.User, *models.Review, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, apperrors.NewUnauthorizedError("User not found")
		}
		return nil, nil, err
	}

	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		return nil, nil, mapReviewRepoError(err)
	}

	if user.Role != models.UserRoleAdmin && review.AuthorID != userID {
		return nil, nil, apperrors.ErrCommentThreadAccessDenied
	}
	return user, review, nil
}

// transition выполняет одиночный переход статуса. UpdateStatus пишет
// status и denial_reason одним UPDATE, так что инвариант
// "denial_reason != NULL <=> status = denied" держится после любой операции.
func (s *reviewService) transition(db *gorm.DB, adminID, reviewID string, status models.ReviewStatus, denialReason *string) (*dto.ReviewResponse, error) {
	if _, err := s.requireAdmin(db, adminID); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.UpdateStatus(db, reviewID, status, denialReason); err != nil {
		return nil, mapReviewRepoError(err)
	}
	return s.loadResponse(db, reviewID)
}

func (s *reviewService) loadResponse(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		return nil, mapReviewRepoError(err)
	}
	return buildReviewResponse(review), nil
}

// clampRating приводит рейтинг в [1,5]. Политика мягкости: значение вне
// диапазона не отклоняется, а обрезается.
func clampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}

func mapReviewRepoError(err error) error {
	if errors.Is(err, repositories.ErrReviewNotFound) {
		return apperrors.ErrReviewNotFound
	}
	return err
}

func buildReviewResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:              review.ID,
		AuthorID:        review.AuthorID,
		AuthorName:      review.AuthorName,
		Avatar:          review.Avatar,
		Rating:          review.Rating,
		Body:            review.Body,
		ProjectName:     review.ProjectName,
		Company:         review.Company,
		Position:        review.Position,
		WorkDescription: review.WorkDescription,
		Status:          review.Status,
		DenialReason:    review.DenialReason,
		Featured:        review.Featured,
		CreatedAt:       review.CreatedAt,
		UpdatedAt:       review.UpdatedAt,
	}
}

func buildCommentResponse(comment *models.ReviewComment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:         comment.ID,
		ReviewID:   comment.ReviewID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		AuthorRole: comment.AuthorRole,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
