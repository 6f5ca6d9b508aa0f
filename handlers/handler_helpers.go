package handlers

import (
	"errors"
	"net/http"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Response Helpers
// =============================================================================

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, code int, error, message string) {
	c.JSON(code, models.ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	})
}

// respondBadRequest sends a 400 error response
func respondBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, "Invalid request", message)
}

// respondMissingParam sends a 400 error for missing parameters
func respondMissingParam(c *gin.Context, param string) {
	respondWithError(c, http.StatusBadRequest, "Missing parameter", param+" is required")
}

// respondInternalError sends a 500 error response
func respondInternalError(c *gin.Context, message string) {
	respondWithError(c, http.StatusInternalServerError, "Internal error", message)
}

// respondNotFound sends a 404 error response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, "Not found", message)
}

// respondUnauthorized sends a 401 error response
func respondUnauthorized(c *gin.Context, message string) {
	respondWithError(c, http.StatusUnauthorized, "Unauthorized", message)
}

// respondServiceError maps service sentinel errors onto status codes
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondBadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondNotFound(c, err.Error())
	default:
		respondInternalError(c, err.Error())
	}
}

// =============================================================================
// Request Helpers
// =============================================================================

// parseContentType validates an optional content type query value
func parseContentType(raw string) (models.ContentType, bool) {
	if raw == "" {
		return "", true
	}
	ct := models.ContentType(raw)
	return ct, ct.Valid()
}

// filtersOf builds the metadata filter map, skipping empty values
func filtersOf(kv ...string) map[string]string {
	filters := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			filters[kv[i]] = kv[i+1]
		}
	}
	return filters
}
