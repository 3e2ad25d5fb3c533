package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

type userBlockRequest struct {
	BlockedID uint `json:"IdBloqueado" binding:"required"`
}

type adminBlockRequest struct {
	BlockedID uint    `json:"IdBloqueado" binding:"required"`
	Reason    string  `json:"Motivo" binding:"max=255"`
	EndsAt    *string `json:"DataFimBloqueio"`
}

func (h *HandlerManager) registerBlockRoutes(authed, admin *gin.RouterGroup) {
	authed.GET("/bloqueios/utilizador", h.ListUserBlocks)
	authed.GET("/bloqueios/utilizador/check", h.CheckUserBlock)
	authed.POST("/bloqueios/utilizador", h.BlockUser)
	authed.DELETE("/bloqueios/utilizador/:id", h.UnblockUser)

	admin.GET("/bloqueios/admin", h.ListAdminBlocks)
	admin.GET("/bloqueios/admin/:id", h.GetAdminBlock)
	admin.POST("/bloqueios/admin", h.AdminBlock)
	admin.DELETE("/bloqueios/admin/:id", h.RemoveAdminBlock)
	authed.GET("/bloqueios/admin/check/:id", h.CheckAdminBlock)
}

func (h *HandlerManager) ListUserBlocks(c *gin.Context) {
	blocks, err := h.Blocks.ListUserBlocks(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": blocks})
}

// GET /bloqueios/utilizador/check?idUtilizador=
func (h *HandlerManager) CheckUserBlock(c *gin.Context) {
	other, err := optionalUintQuery(c, "idUtilizador")
	if err != nil {
		respondError(c, err)
		return
	}
	if other == nil {
		respondError(c, errors.Validation("idUtilizador is required"))
		return
	}
	status, err := h.Blocks.CheckUserBlock(c.Request.Context(), actor(c), *other)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *HandlerManager) BlockUser(c *gin.Context) {
	var req userBlockRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	block, err := h.Blocks.BlockUser(c.Request.Context(), actor(c), req.BlockedID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *HandlerManager) UnblockUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Blocks.UnblockUser(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "user unblocked", nil)
}

func (h *HandlerManager) ListAdminBlocks(c *gin.Context) {
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	blocks, total, err := h.Blocks.ListAdminBlocks(c.Request.Context(), actor(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, blocks, total, p, Link{Rel: "bloquear-utilizador", Href: "/bloqueios/admin", Method: http.MethodPost})
}

func (h *HandlerManager) GetAdminBlock(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	block, err := h.Blocks.GetAdminBlock(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *HandlerManager) AdminBlock(c *gin.Context) {
	var req adminBlockRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	in := services.AdminBlockInput{UserID: req.BlockedID, Reason: req.Reason}
	if req.EndsAt != nil && strings.TrimSpace(*req.EndsAt) != "" {
		end, err := parseEndDate(*req.EndsAt)
		if err != nil {
			respondError(c, err)
			return
		}
		in.EndsAt = &end
	}
	block, err := h.Blocks.AdminBlock(c.Request.Context(), actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// parseEndDate accepts a full RFC 3339 timestamp or a bare date, which means
// the start of that day in UTC.
func parseEndDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(services.DateLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, errors.Validation("DataFimBloqueio must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

func (h *HandlerManager) RemoveAdminBlock(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Blocks.RemoveAdminBlock(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "admin block removed", nil)
}

// CheckAdminBlock reports whether a user is currently blocked by an admin.
func (h *HandlerManager) CheckAdminBlock(c *gin.Context) {
	userID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	block, err := h.Blocks.CheckAdminBlock(c.Request.Context(), actor(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{"bloqueado": block != nil, "bloqueio": block}
	if block != nil {
		body["message"] = services.BlockedMessage(block)
	}
	c.JSON(http.StatusOK, body)
}
