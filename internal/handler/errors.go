package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unit-converter/internal/models"
)

const persistenceWarning = `199 unit-converter "changes were not persisted"`

// respondError maps core errors onto status codes. Rate errors carry the
// current rate status so callers can show the offline state.
func respondError(c *gin.Context, logger *zap.Logger, err error, status func() models.RateStatus) {
	if status == nil {
		status = func() models.RateStatus { return models.RateStatus{} }
	}

	switch {
	case models.IsConversionError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrRatesUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "rates": status()})
	case errors.Is(err, models.ErrRefresh):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "rates": status()})
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// persisted reports whether a mutation reached storage. A persistence
// failure sets the Warning header; any other error is returned.
func persisted(c *gin.Context, logger *zap.Logger, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, models.ErrPersistence) {
		logger.Warn("mutation kept in memory only", zap.Error(err))
		c.Header("Warning", persistenceWarning)
		return false, nil
	}
	return false, err
}
