package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/ports"
)

const (
	msgFilenameRequired = "Filename is required."
	msgParseFavorites   = "Error parsing favorites data."
)

// FavoriteHandler handles the favorites endpoints
type FavoriteHandler struct {
	favoriteService ports.FavoriteService
	logger          *logger.Logger
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService ports.FavoriteService, logger *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// AddFavorite godoc
// @Summary Add a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body ports.AddFavoriteRequest true "Document file name"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /favorites [post]
func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	var req ports.AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: msgFilenameRequired})
	}

	_, err := h.favoriteService.AddFavorite(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: msgFilenameRequired})
		case errors.Is(err, entities.ErrConflict):
			h.logger.Warnw("Favorite already exists", "recette_file", req.RecetteFile)
			return echo.NewHTTPError(http.StatusConflict, ErrorResponse{Error: "This favorite already exists."})
		case errors.Is(err, entities.ErrNotFound):
			h.logger.Warnw("File does not exist", "error", err, "recette_file", req.RecetteFile)
			return echo.NewHTTPError(http.StatusNotFound, ErrorResponse{Error: "File does not exist."})
		case errors.Is(err, entities.ErrStoreCorrupt):
			h.logger.Errorw("Error parsing favorites data", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: msgParseFavorites})
		default:
			h.logger.Errorw("Error in adding favorite", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: "An error occurred while processing the request."})
		}
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Favorite added successfully!"})
}

// ListFavorites godoc
// @Summary List favorites
// @Tags favorites
// @Produce json
// @Success 200 {array} entities.Favorite
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} ErrorResponse
// @Router /favorites [get]
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	favorites, err := h.favoriteService.ListFavorites(c.Request().Context())
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrNoFavorites):
			return c.JSON(http.StatusNotFound, MessageResponse{Message: "No favorites found."})
		case errors.Is(err, entities.ErrStoreCorrupt):
			h.logger.Errorw("Error parsing favorites data", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: msgParseFavorites})
		default:
			h.logger.Errorw("Error reading favorites file", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: "An error occurred while retrieving favorites."})
		}
	}

	return c.JSON(http.StatusOK, favorites)
}

// RemoveFavorite godoc
// @Summary Remove a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body ports.RemoveFavoriteRequest true "Document file name"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /favorites [delete]
func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	var req ports.RemoveFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: msgFilenameRequired})
	}

	_, err := h.favoriteService.RemoveFavorite(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: msgFilenameRequired})
		case errors.Is(err, entities.ErrFavoriteNotFound):
			return echo.NewHTTPError(http.StatusNotFound, ErrorResponse{Error: "Favorite not found."})
		case errors.Is(err, entities.ErrStoreCorrupt):
			h.logger.Errorw("Error parsing favorites data", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: msgParseFavorites})
		default:
			h.logger.Errorw("Error deleting favorite", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: "An error occurred while deleting the favorite."})
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Favorite deleted successfully."})
}
