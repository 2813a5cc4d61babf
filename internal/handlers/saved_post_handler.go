package handlers

import (
	"net/http"

	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/lucasmnd/toile/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles the save/unsave toggle and the saved-posts listing
type SavedPostHandler struct {
	collections *services.CollectionService
	savedPosts  *services.SavedPostsService
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(collections *services.CollectionService, savedPosts *services.SavedPostsService) *SavedPostHandler {
	return &SavedPostHandler{collections: collections, savedPosts: savedPosts}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/save-post", h.SavePost)
	g.GET("/saved-posts", h.ListSavedPosts)
}

// SavePost toggles a post in and out of a collection
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SavePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	action, err := h.collections.SavePost(c.Request().Context(), userID, req.PostID, req.CollectionName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "action": action})
}

// ListSavedPosts returns the user's saved posts, optionally filtered by
// collection name, along with the collection set for the sidebar
func (h *SavedPostHandler) ListSavedPosts(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	collectionName := c.QueryParam("collectionName")

	views, cols, err := h.savedPosts.List(c.Request().Context(), userID, collectionName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"savedPosts":  views,
		"collections": cols,
	})
}
