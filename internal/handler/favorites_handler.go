// internal/handler/favorites_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unit-converter/internal/models"
	"unit-converter/internal/service"
)

type FavoritesHandler struct {
	favorites *service.FavoritesStore
	logger    *zap.Logger
}

func NewFavoritesHandler(favorites *service.FavoritesStore, logger *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
		logger:    logger,
	}
}

func (h *FavoritesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": h.favorites.List()})
}

func (h *FavoritesHandler) Toggle(c *gin.Context) {
	var req models.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isFavorite, err := h.favorites.Toggle(c.Request.Context(), category, req.FromUnit, req.ToUnit, req.Name)
	ok, err := persisted(c, h.logger, err)
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}

	c.JSON(http.StatusOK, models.FavoriteToggleResponse{
		Favorite:  isFavorite,
		Favorites: h.favorites.List(),
		Persisted: ok,
	})
}

// Check answers GET /favorites/check?category=&from=&to=.
func (h *FavoritesHandler) Check(c *gin.Context) {
	category, err := models.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorite": h.favorites.IsFavorite(category, c.Query("from"), c.Query("to")),
	})
}

func (h *FavoritesHandler) Remove(c *gin.Context) {
	err := h.favorites.Remove(c.Request.Context(), c.Param("id"))
	ok, err := persisted(c, h.logger, err)
	if err != nil {
		respondError(c, h.logger, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": h.favorites.List(), "persisted": ok})
}
