package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/internal/services"
)

type createReviewRequest struct {
	ListingID uint   `json:"IdAnuncio" binding:"required"`
	SubjectID uint   `json:"IdAvaliado" binding:"required"`
	Rating    int    `json:"Classificacao" binding:"required"`
	Comment   string `json:"Comentario" binding:"required"`
}

type updateReviewRequest struct {
	Rating  int    `json:"Classificacao" binding:"required"`
	Comment string `json:"Comentario" binding:"required"`
}

func (h *HandlerManager) registerReviewRoutes(public, authed *gin.RouterGroup) {
	public.GET("/avaliacoes", h.ListReviews)
	authed.POST("/avaliacoes", h.CreateReview)
	authed.PUT("/avaliacoes/:id", h.UpdateReview)
	authed.DELETE("/avaliacoes/:id", h.DeleteReview)
}

// GET /avaliacoes?idAvaliado=&page=&limit=
func (h *HandlerManager) ListReviews(c *gin.Context) {
	subject, err := optionalUintQuery(c, "idAvaliado")
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, total, err := h.Reviews.List(c.Request.Context(), subject, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, reviews, total, p, Link{Rel: "criar-avaliacao", Href: "/avaliacoes", Method: http.MethodPost})
}

// Rating range and comment length are checked by the service so that the
// messages match the other entry points.
func (h *HandlerManager) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	review, err := h.Reviews.Create(c.Request.Context(), actor(c), services.ReviewInput{
		ListingID: req.ListingID,
		SubjectID: req.SubjectID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *HandlerManager) UpdateReview(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateReviewRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	review, err := h.Reviews.Update(c.Request.Context(), actor(c), id, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *HandlerManager) DeleteReview(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Reviews.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "review deleted", nil)
}
