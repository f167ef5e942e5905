package middleware

import (
	"fmt"

	"court_booking_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into the standard 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.RespondInternal(c, fmt.Errorf("panic: %v", recovered), "Recovered from panic")
	})
}
