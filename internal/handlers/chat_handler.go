package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

type sendMessageRequest struct {
	RecipientID uint   `json:"IdDestinatario" binding:"required"`
	Content     string `json:"Conteudo" binding:"required"`
}

func (h *HandlerManager) registerMessageRoutes(authed *gin.RouterGroup) {
	authed.GET("/mensagens", h.Conversation)
	authed.GET("/mensagens/conversas", h.Conversations)
	authed.POST("/mensagens", h.SendMessage)
	authed.DELETE("/mensagens/:id", h.DeleteMessage)
}

// GET /mensagens?idDestinatario=&page=&limit=
func (h *HandlerManager) Conversation(c *gin.Context) {
	other, err := optionalUintQuery(c, "idDestinatario")
	if err != nil {
		respondError(c, err)
		return
	}
	if other == nil {
		respondError(c, errors.Validation("idDestinatario is required"))
		return
	}
	p, err := parsePage(c, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	msgs, total, err := h.Messages.Conversation(c.Request.Context(), actor(c), *other, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, msgs, total, p, Link{Rel: "enviar-mensagem", Href: "/mensagens", Method: http.MethodPost})
}

func (h *HandlerManager) Conversations(c *gin.Context) {
	list, err := h.Messages.Conversations(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *HandlerManager) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	msg, err := h.Messages.Send(c.Request.Context(), actor(c), req.RecipientID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *HandlerManager) DeleteMessage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Messages.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "message deleted", nil)
}
