package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio_backend/internal/middleware"
	"folio_backend/internal/models"
	"folio_backend/internal/services"
	"folio_backend/internal/services/dto"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

// RegisterRoutes собирает операции в три группы с разными guard'ами.
// Проверка прав живет на границе группы, а не внутри хендлеров:
// забыть ее на отдельной ручке невозможно.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes - только то, что видит посетитель
	public := r.Group("/reviews")
	{
		public.GET("", h.ListApproved)
		public.GET("/featured", h.ListFeatured)
	}

	// Protected routes - любой аутентифицированный пользователь
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("", h.SubmitReview)
		reviews.DELETE("/:reviewId", h.DeleteOwnReview)
		reviews.GET("/:reviewId/comments", h.GetReviewComments)
		reviews.POST("/:reviewId/comments", h.AddReviewComment)
	}

	// Admin routes
	admin := r.Group("/admin/reviews")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.GetAdminReviews)
		admin.GET("/stats", h.GetModerationStats)
		admin.POST("/:reviewId/approve", h.ApproveReview)
		admin.POST("/:reviewId/deny", h.DenyReview)
		admin.POST("/:reviewId/request-changes", h.RequestReviewChanges)
		admin.PUT("/:reviewId/featured", h.ToggleReviewFeatured)
		admin.DELETE("/:reviewId", h.DeleteReview)
	}
}

// --- Public handlers ---

func (h *ReviewHandler) ListApproved(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.ListApproved(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews.Reviews,
		"total":   reviews.Total,
		"page":    page,
		"pages":   reviews.TotalPages,
	})
}

func (h *ReviewHandler) ListFeatured(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 6)
	if limit <= 0 {
		limit = 6
	}

	reviews, err := h.reviewService.ListFeatured(h.GetDB(c), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// --- Member handlers ---

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Submit(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) DeleteOwnReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	if err := h.reviewService.DeleteOwn(h.GetDB(c), userID, reviewID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func (h *ReviewHandler) GetReviewComments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	comments, err := h.reviewService.ListComments(h.GetDB(c), userID, reviewID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"total":    len(comments),
	})
}

func (h *ReviewHandler) AddReviewComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	var req dto.AddCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.reviewService.AddComment(h.GetDB(c), userID, reviewID, req.Body)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// --- Admin handlers ---

func (h *ReviewHandler) GetAdminReviews(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.AdminReviewListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	reviews, err := h.reviewService.ListAllForAdmin(h.GetDB(c), adminID, models.ReviewStatus(query.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

func (h *ReviewHandler) GetModerationStats(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.reviewService.ModerationStats(h.GetDB(c), adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	review, err := h.reviewService.Approve(h.GetDB(c), adminID, reviewID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DenyReview(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	var req dto.DenyReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Deny(h.GetDB(c), adminID, reviewID, req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) RequestReviewChanges(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	var req dto.RequestChangesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.RequestChanges(h.GetDB(c), adminID, reviewID, req.Comment)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) ToggleReviewFeatured(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	var req dto.SetFeaturedRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.SetFeatured(h.GetDB(c), adminID, reviewID, *req.Featured)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	if err := h.reviewService.Delete(h.GetDB(c), adminID, reviewID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
