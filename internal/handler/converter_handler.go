// internal/handler/converter_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unit-converter/internal/models"
	"unit-converter/internal/service"
)

type ConverterHandler struct {
	service *service.ConversionService
	logger  *zap.Logger
}

func NewConverterHandler(service *service.ConversionService, logger *zap.Logger) *ConverterHandler {
	return &ConverterHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ConverterHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.service.Categories()})
}

func (h *ConverterHandler) Convert(c *gin.Context) {
	var req models.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Convert(c.Request.Context(), &req)
	if _, perr := persisted(c, h.logger, err); perr != nil {
		respondError(c, h.logger, perr, h.service.RateStatus)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ConverterHandler) GetRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"table":  h.service.Rates(),
		"status": h.service.RateStatus(),
	})
}

func (h *ConverterHandler) GetRateStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.RateStatus())
}

// RefreshRates refreshes synchronously, or in the background with
// ?async=true.
func (h *ConverterHandler) RefreshRates(c *gin.Context) {
	async, _ := strconv.ParseBool(c.DefaultQuery("async", "false"))
	if async {
		h.service.RefreshRatesAsync(c.Request.Context())
		c.JSON(http.StatusAccepted, h.service.RateStatus())
		return
	}

	err := h.service.RefreshRates(c.Request.Context())
	if _, perr := persisted(c, h.logger, err); perr != nil {
		respondError(c, h.logger, perr, h.service.RateStatus)
		return
	}

	c.JSON(http.StatusOK, h.service.RateStatus())
}
