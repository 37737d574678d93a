package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/ticket-reply-service/internal/auth"
)

// DebugToken reports only whether the secret exists, its length and two characters from each end.
// Not registered in production.
func DebugToken(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, a.Info())
	}
}
