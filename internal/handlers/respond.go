package handlers

import (
	"errors"
	"net/http"

	"shuttlebook/internal/services"
	"shuttlebook/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// handleServiceError translates the service error taxonomy into HTTP. The
// stable machine code and message travel in the standard error envelope.
func handleServiceError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		utils.InternalServerErrorResponse(c)
		return
	}

	var status int
	switch svcErr.Kind {
	case services.KindInvalidInput, services.KindRejected:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindInvalidState:
		status = http.StatusUnprocessableEntity
	case services.KindConflict:
		status = http.StatusConflict
	default:
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.ErrorResponse(c, status, svcErr.Code, svcErr.Message)
}

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}
	return userID, true
}

// pathID parses the named ObjectID path parameter.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool {
	role, exists := c.Get("user_role")
	if !exists {
		return false
	}
	roleStr, ok := role.(string)
	return ok && roleStr == "admin"
}
