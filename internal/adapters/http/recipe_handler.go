package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/ports"
)

// RecipeHandler serves the read-only catalog
type RecipeHandler struct {
	recipeService ports.RecipeService
	version       string
	logger        *logger.Logger
}

// NewRecipeHandler creates a new recipe handler. version is returned verbatim
// by the info endpoint.
func NewRecipeHandler(recipeService ports.RecipeService, version string, logger *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		version:       version,
		logger:        logger,
	}
}

// Info godoc
// @Summary Server version
// @Tags catalog
// @Produce plain
// @Success 200 {string} string
// @Router /info [get]
func (h *RecipeHandler) Info(c echo.Context) error {
	return c.String(http.StatusOK, h.version)
}

// Search godoc
// @Summary List recipes or fetch one recipe document
// @Description Without a recette query parameter returns the whole catalog. With it, serves <recette>.html.
// @Tags catalog
// @Produce json,html
// @Param recette query string false "Document name without extension"
// @Success 200 {array} object
// @Failure 404 {string} string
// @Failure 500 {object} ErrorResponse
// @Router /search [get]
func (h *RecipeHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.QueryParam("recette")

	if name == "" {
		recipes, err := h.recipeService.ListRecipes(ctx)
		if err != nil {
			h.logger.Errorw("Error parsing JSON data", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: "Error parsing JSON data."})
		}
		return c.JSON(http.StatusOK, recipes)
	}

	path, err := h.recipeService.GetRecipeDocument(ctx, name)
	if err != nil {
		h.logger.Warnw("File not found", "error", err, "recette", name)
		return c.String(http.StatusNotFound, "File not Found")
	}

	return c.File(path)
}

// GetRecipe godoc
// @Summary Download the document of one recipe
// @Tags catalog
// @Produce octet-stream
// @Param id path int true "Recipe ID"
// @Success 200 {file} file
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /recette/{id} [get]
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	doc, err := h.recipeService.GetRecipeByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidInput):
			return c.String(http.StatusBadRequest, "Invalid recette ID.")
		case errors.Is(err, entities.ErrRecipeNotFound):
			return c.String(http.StatusNotFound, "Document not found.")
		case errors.Is(err, entities.ErrDocumentNotFound):
			h.logger.Warnw("HTML file not found for the document", "error", err, "id", c.Param("id"))
			return c.String(http.StatusNotFound, "HTML file not found for the provided document.")
		default:
			h.logger.Errorw("Internal server error", "error", err, "id", c.Param("id"))
			return c.String(http.StatusInternalServerError, "Internal server error.")
		}
	}

	return c.Attachment(doc.Path, doc.FileName)
}
