package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/catalog-api/internal/validation"
)

// ErrorResponse is the body of every non-2xx API answer
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: msg})
}

func respondValidation(c *gin.Context, verr *validation.Error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Message: validation.Message,
		Errors:  verr.Fields,
	})
}

func respondNotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Not found")
}

func respondInternal(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
