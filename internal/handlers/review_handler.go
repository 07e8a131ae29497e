package handlers

import (
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"
	"shuttlebook/internal/validators"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview submits a review for one of the caller's completed bookings
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var request validators.ReviewCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateReviewCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, &services.CreateReviewInput{
		BookingID: request.BookingID,
		Rating:    request.Rating,
		Comment:   request.Comment,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Review created successfully", review)
}

// DeleteReview removes a review (owner, or any admin)
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, userID, isAdmin(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review deleted successfully", nil)
}

// ListTripReviews returns the reviews for a trip, paginated
func (h *ReviewHandler) ListTripReviews(c *gin.Context) {
	tripID, ok := pathID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ListTripReviews(c.Request.Context(), tripID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", map[string]interface{}{
		"reviews": reviews,
	}, meta)
}

// ListDriverReviews returns the reviews attributed to a driver, paginated
func (h *ReviewHandler) ListDriverReviews(c *gin.Context) {
	driverID, ok := pathID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ListDriverReviews(c.Request.Context(), driverID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", map[string]interface{}{
		"reviews": reviews,
	}, meta)
}
