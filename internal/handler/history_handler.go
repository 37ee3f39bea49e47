// internal/handler/history_handler.go
package handler

import (
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unit-converter/internal/models"
	"unit-converter/internal/service"
)

type HistoryHandler struct {
	history *service.HistoryStore
	logger  *zap.Logger
}

func NewHistoryHandler(history *service.HistoryStore, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

func (h *HistoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": h.history.List(),
		"limit":   h.history.Limit(),
	})
}

type historyGroupResponse struct {
	Day     string                `json:"day"`
	Entries []models.HistoryEntry `json:"entries"`
}

// Grouped answers GET /history/grouped?tz=Europe/Berlin. Days are UTC
// unless tz names an IANA zone.
func (h *HistoryHandler) Grouped(c *gin.Context) {
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time zone"})
			return
		}
	}

	groups := h.history.GroupedByDay(loc)
	out := make([]historyGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, historyGroupResponse{Day: g.Label(), Entries: g.Entries})
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// Add records a conversion the caller already performed.
func (h *HistoryHandler) Add(c *gin.Context) {
	var req models.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.history.Add(c.Request.Context(), req.Value, req.Result, req.FromUnit, req.ToUnit, category)
	ok, err := persisted(c, h.logger, err)
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry, "persisted": ok})
}

func (h *HistoryHandler) Remove(c *gin.Context) {
	err := h.history.Remove(c.Request.Context(), c.Param("id"))
	ok, err := persisted(c, h.logger, err)
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": h.history.List(), "persisted": ok})
}

func (h *HistoryHandler) Clear(c *gin.Context) {
	ok, err := persisted(c, h.logger, h.history.Clear(c.Request.Context()))
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": []models.HistoryEntry{}, "persisted": ok})
}
