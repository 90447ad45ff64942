package handlers

import (
	"errors"
	"net/http"

	"github.com/vishnucprasad/gotodo-server/internal/auth"
	"github.com/vishnucprasad/gotodo-server/internal/dto"
	"github.com/vishnucprasad/gotodo-server/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category CRUD for the authenticated user.
type CategoryHandler struct {
	svc *service.CategoryService
}

// NewCategoryHandler returns a new CategoryHandler.
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// Create godoc
// @Summary      Create a category
// @Tags         category
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateCategoryRequest  true  "Category body"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  map[string]string
// @Router       /category/create [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Name, req.Color)
	if err != nil {
		if errors.Is(err, service.ErrInvalidColor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, dto.NewCategoryResponse(cat))
}

// List godoc
// @Summary      List all categories
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CategoryResponse
// @Router       /category/all [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponses(list))
}

// GetByID godoc
// @Summary      Get a category by ID
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /category/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cat, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load category"})
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponse(cat))
}

// Update godoc
// @Summary      Update a category
// @Tags         category
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Category ID"
// @Param        body  body      dto.EditCategoryRequest  true  "Partial update"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /category/{id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.EditCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidColor):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update category"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponse(cat))
}

// Delete godoc
// @Summary      Delete a category
// @Tags         category
// @Security     BearerAuth
// @Param        id   path  int  true  "Category ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /category/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}
	c.Status(http.StatusNoContent)
}
