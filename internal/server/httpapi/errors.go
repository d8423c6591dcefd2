package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/gin-gonic/gin"
)

const msgInvalidLogin = "Invalid username or password"

// writeError maps service errors to responses. Only validation, conflict
// and bad-request errors carry their message to the client; anything
// unexpected is recorded on the context for the request log and reported
// as a generic 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": common.Reason(err)})
	case errors.Is(err, common.ErrorConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// bindForm binds a form or JSON body, answering 400 on malformed input.
func bindForm(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return false
	}
	return true
}
