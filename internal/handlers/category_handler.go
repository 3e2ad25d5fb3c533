package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"NomeCategoria" binding:"required,max=100"`
}

func (h *HandlerManager) registerCategoryRoutes(public, admin *gin.RouterGroup) {
	public.GET("/categorias", h.ListCategories)
	admin.POST("/categorias", h.CreateCategory)
	admin.DELETE("/categorias/:id", h.DeleteCategory)
}

func (h *HandlerManager) ListCategories(c *gin.Context) {
	list, err := h.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *HandlerManager) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	cat, err := h.Categories.Create(c.Request.Context(), actor(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *HandlerManager) DeleteCategory(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Categories.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "category deleted", nil)
}
