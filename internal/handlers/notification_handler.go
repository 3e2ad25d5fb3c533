package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

type createNotificationRequest struct {
	Message    string `json:"Mensagem" binding:"required"`
	Recipients []uint `json:"IdRecipientes" binding:"required,min=1"`
}

type associateRequest struct {
	NotificationID uint `json:"IdNotificacao" binding:"required"`
	UserID         uint `json:"IdUtilizador" binding:"required"`
}

func (h *HandlerManager) registerNotificationRoutes(authed, admin *gin.RouterGroup) {
	admin.GET("/notificacoes", h.ListNotifications)
	authed.GET("/notificacoes/minhas", h.MyNotifications)
	admin.POST("/notificacoes", h.CreateNotification)
	admin.POST("/notificacoes/associar", h.AssociateNotification)
	authed.PUT("/notificacoes/:id/lida", h.MarkNotificationRead)
	admin.DELETE("/notificacoes/:id", h.DeleteNotification)

	authed.GET("/ws/notificacoes", h.NotificationStream)
}

func (h *HandlerManager) ListNotifications(c *gin.Context) {
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	list, total, err := h.Notifications.List(c.Request.Context(), actor(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, Link{Rel: "criar-notificacao", Href: "/notificacoes", Method: http.MethodPost})
}

func (h *HandlerManager) MyNotifications(c *gin.Context) {
	list, err := h.Notifications.ListMine(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *HandlerManager) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	n, err := h.Notifications.Create(c.Request.Context(), actor(c), req.Message, req.Recipients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *HandlerManager) AssociateNotification(c *gin.Context) {
	var req associateRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	r, err := h.Notifications.Associate(c.Request.Context(), actor(c), req.NotificationID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// MarkNotificationRead takes the id of the recipient row, not of the
// notification itself.
func (h *HandlerManager) MarkNotificationRead(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	r, err := h.Notifications.MarkRead(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *HandlerManager) DeleteNotification(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Notifications.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "notification deleted", nil)
}

// NotificationStream upgrades to a websocket that receives the caller's
// messages and notifications as they happen.
func (h *HandlerManager) NotificationStream(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "realtime notifications are disabled"})
		return
	}
	userID := actor(c).UserID
	if err := h.Hub.ServeWS(c.Writer, c.Request, userID); err != nil {
		// the upgrader has already answered the request
		logger.Warn("Websocket upgrade failed", "user_id", userID, "error", err)
	}
}
