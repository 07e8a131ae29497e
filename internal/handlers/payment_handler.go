package handlers

import (
	"shuttlebook/internal/models"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"
	"shuttlebook/internal/validators"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateOrder registers a gateway order for the client to pay against
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var request validators.OrderCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateOrderCreate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), userID, request.Amount, request.Currency)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Order created successfully", order)
}

// VerifyPayment applies an out-of-band payment confirmation to a booking
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var request validators.PaymentVerifyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidatePaymentVerify(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	assertion := &models.PaymentAssertion{
		OrderID:   request.OrderID,
		PaymentID: request.PaymentID,
		Signature: request.Signature,
	}
	booking, err := h.paymentService.ReconcilePayment(c.Request.Context(), userID, request.BookingID, assertion)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment verified successfully", booking)
}
