package handlers

import (
	"shuttlebook/internal/models"
	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"
	"shuttlebook/internal/validators"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Register creates a user and returns an access token
func (h *AuthHandler) Register(c *gin.Context) {
	var request validators.UserRegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateUserRegister(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	user, token, err := h.userService.Register(c.Request.Context(), &models.User{
		Name:  request.Name,
		Phone: request.Phone,
		Email: request.Email,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "User registered successfully", map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Token issues an access token for an existing user
func (h *AuthHandler) Token(c *gin.Context) {
	var request validators.TokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	if errs := validators.ValidateTokenRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	user, token, err := h.userService.IssueToken(c.Request.Context(), request.Phone)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Token issued successfully", map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}
