package handlers

import (
	"net/http"

	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/lucasmnd/toile/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CollectionHandler handles saved-post collection HTTP requests
type CollectionHandler struct {
	collections *services.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collections *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// RegisterCollectionRoutes registers collection routes
func (h *CollectionHandler) RegisterCollectionRoutes(g *echo.Group) {
	g.GET("/collections", h.ListCollections)
	g.POST("/collections", h.CreateCollection)
	g.POST("/collections/rename", h.RenameCollection)
	g.POST("/collections/color", h.SetCollectionColor)
	g.POST("/collections/toggle-pin", h.ToggleCollectionPin)
	g.POST("/collections/delete", h.DeleteCollection)
}

// ListCollections returns the user's collections, pinned first
func (h *CollectionHandler) ListCollections(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	cols, err := h.collections.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "collections": cols})
}

// CreateCollection creates a new named collection
func (h *CollectionHandler) CreateCollection(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCollectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	col, err := h.collections.Create(c.Request().Context(), userID, req.CollectionName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "collection": col})
}

// RenameCollection renames a collection and migrates its saved-post entries
func (h *CollectionHandler) RenameCollection(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RenameCollectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.collections.Rename(c.Request().Context(), userID, req.CollectionID, req.NewName); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SetCollectionColor sets a collection's display color
func (h *CollectionHandler) SetCollectionColor(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SetCollectionColorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.collections.SetColor(c.Request().Context(), userID, req.CollectionID, req.Color); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ToggleCollectionPin flips a collection's pinned flag
func (h *CollectionHandler) ToggleCollectionPin(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ToggleCollectionPinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pinned, err := h.collections.TogglePin(c.Request().Context(), userID, req.CollectionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "pinned": pinned})
}

// DeleteCollection removes a collection; the posts saved in it are kept
func (h *CollectionHandler) DeleteCollection(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.DeleteCollectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.collections.Delete(c.Request().Context(), userID, req.CollectionID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
