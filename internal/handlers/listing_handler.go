package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/internal/middleware"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

type createListingRequest struct {
	Name           string   `json:"Nome" binding:"required,max=255"`
	Description    string   `json:"Descricao" binding:"max=2000"`
	Price          *float64 `json:"Preco" binding:"required"`
	Quantity       *int     `json:"Quantidade" binding:"required"`
	PickupLocation string   `json:"LocalRecolha" binding:"required,max=255"`
	PickupWindow   string   `json:"HorarioRecolha" binding:"required,max=100"`
	PickupDate     string   `json:"DataRecolha" binding:"required,isodate"`
	ExpiresOn      string   `json:"DataValidade" binding:"required,isodate"`
	CategoryID     uint     `json:"IdProdutoCategoria" binding:"required"`
	ImageURL       string   `json:"ImagemAnuncio" binding:"max=500"`
}

// updateListingRequest doubles as the legacy state-transition body: the web
// client reserves and cancels through PUT /anuncios/:id.
type updateListingRequest struct {
	Name           *string  `json:"Nome" binding:"omitempty,max=255"`
	Description    *string  `json:"Descricao" binding:"omitempty,max=2000"`
	Price          *float64 `json:"Preco"`
	Quantity       *int     `json:"Quantidade"`
	PickupLocation *string  `json:"LocalRecolha" binding:"omitempty,max=255"`
	PickupWindow   *string  `json:"HorarioRecolha" binding:"omitempty,max=100"`
	PickupDate     *string  `json:"DataRecolha" binding:"omitempty,isodate"`
	ExpiresOn      *string  `json:"DataValidade" binding:"omitempty,isodate"`
	CategoryID     *uint    `json:"IdProdutoCategoria"`
	ImageURL       *string  `json:"ImagemAnuncio" binding:"omitempty,max=500"`

	State      *int            `json:"IdEstadoAnuncio"`
	ReservedBy json.RawMessage `json:"IdUtilizadorReserva"`
}

type confirmCodeRequest struct {
	Code string `json:"codigo" binding:"required"`
}

func (h *HandlerManager) registerListingRoutes(public, authed, admin *gin.RouterGroup) {
	public.GET("/anuncios", h.SearchListings)
	public.GET("/anuncios/:id", h.GetListing)
	public.GET("/anuncios/utilizador/:userId", h.ListingsByUser)
	public.GET("/anuncios/categoria/:categoryId", h.ListingsByCategory)

	admin.GET("/anuncios/reservas", h.AllReservations)
	authed.GET("/anuncios/reservas/:userId", h.ReservationsByUser)
	authed.POST("/anuncios", h.CreateListing)
	authed.PUT("/anuncios/:id", h.UpdateListing)
	authed.POST("/anuncios/:id/reservar", h.ReserveListing)
	authed.POST("/anuncios/:id/cancelar", h.CancelReservation)
	authed.POST("/anuncios/:id/confirmarCodigo", h.ConfirmDelivery)
	authed.DELETE("/anuncios/:id", h.DeleteListing)
}

// GET /anuncios?categoria=&nome=&localRecolha=&precoMax=&dataRecolha=&exclude=&page=&limit=
func (h *HandlerManager) SearchListings(c *gin.Context) {
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	q := services.SearchQuery{
		Name:           c.Query("nome"),
		PickupLocation: c.Query("localRecolha"),
		PickupDate:     strings.TrimSpace(c.Query("dataRecolha")),
		Page:           p,
	}
	if q.CategoryID, err = optionalUintQuery(c, "categoria"); err != nil {
		respondError(c, err)
		return
	}
	if q.ExcludeID, err = optionalUintQuery(c, "exclude"); err != nil {
		respondError(c, err)
		return
	}
	if raw := strings.TrimSpace(c.Query("precoMax")); raw != "" {
		v, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			respondError(c, errors.Validation("precoMax must be a number"))
			return
		}
		q.MaxPrice = &v
	}

	list, total, err := h.Listings.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p, Link{Rel: "criar-anuncio", Href: "/anuncios", Method: http.MethodPost})
}

func (h *HandlerManager) GetListing(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	viewer, _ := middleware.ActorFrom(c)
	listing, err := h.Listings.Get(c.Request.Context(), viewer, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *HandlerManager) ListingsByUser(c *gin.Context) {
	userID, err := idParam(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	viewer, _ := middleware.ActorFrom(c)
	list, total, err := h.Listings.ByOwner(c.Request.Context(), viewer, userID, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p)
}

func (h *HandlerManager) ListingsByCategory(c *gin.Context) {
	categoryID, err := idParam(c, "categoryId")
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	list, total, err := h.Listings.ByCategory(c.Request.Context(), categoryID, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p)
}

func (h *HandlerManager) AllReservations(c *gin.Context) {
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	list, total, err := h.Listings.AllReservations(c.Request.Context(), actor(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p)
}

func (h *HandlerManager) ReservationsByUser(c *gin.Context) {
	userID, err := idParam(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	list, total, err := h.Listings.ReservationsOf(c.Request.Context(), actor(c), userID, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, p)
}

func (h *HandlerManager) CreateListing(c *gin.Context) {
	var req createListingRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	listing, err := h.Listings.Create(c.Request.Context(), actor(c), services.ListingInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		PickupLocation: req.PickupLocation,
		PickupWindow:   req.PickupWindow,
		PickupDate:     req.PickupDate,
		ExpiresOn:      req.ExpiresOn,
		CategoryID:     req.CategoryID,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// UpdateListing edits a listing, or reserves (IdEstadoAnuncio=2) or cancels
// (IdEstadoAnuncio=1 with a null IdUtilizadorReserva) it.
func (h *HandlerManager) UpdateListing(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateListingRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.State != nil && models.ListingState(*req.State) == models.ListingReserved:
		listing, err := h.Listings.Reserve(ctx, actor(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, "listing reserved", listing)
	case req.State != nil && models.ListingState(*req.State) == models.ListingAvailable && string(req.ReservedBy) == "null":
		listing, err := h.Listings.Cancel(ctx, actor(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, "reservation cancelled", listing)
	default:
		listing, err := h.Listings.Update(ctx, actor(c), id, services.ListingPatch{
			Name:           req.Name,
			Description:    req.Description,
			Price:          req.Price,
			Quantity:       req.Quantity,
			PickupLocation: req.PickupLocation,
			PickupWindow:   req.PickupWindow,
			PickupDate:     req.PickupDate,
			ExpiresOn:      req.ExpiresOn,
			CategoryID:     req.CategoryID,
			ImageURL:       req.ImageURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}

func (h *HandlerManager) ReserveListing(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	listing, err := h.Listings.Reserve(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "listing reserved", listing)
}

func (h *HandlerManager) CancelReservation(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	listing, err := h.Listings.Cancel(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "reservation cancelled", listing)
}

func (h *HandlerManager) ConfirmDelivery(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req confirmCodeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	listing, err := h.Listings.ConfirmDelivery(c.Request.Context(), actor(c), id, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "delivery confirmed", listing)
}

func (h *HandlerManager) DeleteListing(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Listings.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "listing deleted", nil)
}
