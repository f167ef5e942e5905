package handlers

import (
	"errors"
	"net/http"

	"court_booking_backend/internal/services"
	"court_booking_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// kindResponses maps service error kinds to HTTP status and error code.
var kindResponses = map[services.Kind]struct {
	status int
	code   string
}{
	services.KindValidation:             {http.StatusBadRequest, utils.ErrCodeValidationFailed},
	services.KindSlotUnavailable:        {http.StatusBadRequest, utils.ErrCodeSlotUnavailable},
	services.KindNotFoundOrUnauthorized: {http.StatusBadRequest, utils.ErrCodeNotFoundOrUnauth},
	services.KindNotFound:               {http.StatusNotFound, utils.ErrCodeNotFound},
	services.KindConflict:               {http.StatusConflict, utils.ErrCodeConflict},
	services.KindUnauthorized:           {http.StatusUnauthorized, utils.ErrCodeUnauthorized},
}

// respondServiceError writes the failure body for err. Persistence failures are
// logged with op and answered with a generic message.
func respondServiceError(c *gin.Context, err error, op string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if r, ok := kindResponses[svcErr.Kind]; ok {
			utils.RespondWithError(c, utils.NewAPIError(r.status, r.code, svcErr.Message, ""))
			return
		}
	}
	utils.RespondInternal(c, err, op)
}

// respondInvalidPayload answers a body that could not be decoded or failed its binding tags.
func respondInvalidPayload(c *gin.Context, err error, op string) {
	utils.LogDebug(op+": failed to bind JSON", map[string]interface{}{"error": err.Error()})
	if msg, ok := bindingMessage(err); ok {
		utils.RespondValidationFailed(c, msg)
		return
	}
	utils.RespondValidationFailed(c, "Invalid request payload")
}

// respondSuccess writes body with "success": true added.
func respondSuccess(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}
