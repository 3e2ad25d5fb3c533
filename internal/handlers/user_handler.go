package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/josepguedes/Projeto-2/internal/services"
)

type registerRequest struct {
	Name     string `json:"Nome" binding:"required,max=255"`
	Email    string `json:"Email" binding:"required,email"`
	Password string `json:"Password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"Email" binding:"required"`
	Password string `json:"Password" binding:"required"`
}

type updateUserRequest struct {
	Name         *string `json:"Nome" binding:"omitempty,max=255"`
	Email        *string `json:"Email" binding:"omitempty,email"`
	Password     *string `json:"Password" binding:"omitempty,min=6"`
	NIF          *string `json:"Nif"`
	BirthDate    *string `json:"DataNascimento" binding:"omitempty,isodate"`
	ProfileImage *string `json:"ImagemPerfil" binding:"omitempty,max=500"`
	Role         *string `json:"Funcao"`
}

func (h *HandlerManager) registerUserRoutes(public, authed *gin.RouterGroup) {
	public.POST("/utilizadores/register", h.Register)
	public.POST("/utilizadores/login", h.Login)
	public.GET("/utilizadores/:id", h.GetUser)

	authed.GET("/utilizadores", h.ListUsers)
	authed.PUT("/utilizadores/:id", h.UpdateUser)
}

func (h *HandlerManager) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.Users.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *HandlerManager) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	token, user, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *HandlerManager) GetUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *HandlerManager) ListUsers(c *gin.Context) {
	p, err := parsePage(c, 10)
	if err != nil {
		respondError(c, err)
		return
	}
	users, total, err := h.Users.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, users, total, p)
}

func (h *HandlerManager) UpdateUser(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.Users.Update(c.Request.Context(), actor(c), id, services.UserPatch{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		NIF:          req.NIF,
		BirthDate:    req.BirthDate,
		ProfileImage: req.ProfileImage,
		Role:         req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
