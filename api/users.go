package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/airline-service/internal/service/auth"
)

type UserHandler struct {
	service auth.AuthUseCase
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

type tokenResponse struct {
	Access string       `json:"access"`
	User   userResponse `json:"user"`
}

func NewUserHandler(service auth.AuthUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/me", RequireAuth(), h.me)
}

func (h *UserHandler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, IsStaff: user.IsStaff})
}

func (h *UserHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		Access: token,
		User:   userResponse{ID: user.ID, Email: user.Email, IsStaff: user.IsStaff},
	})
}

func (h *UserHandler) me(c *gin.Context) {
	id, _ := identityFrom(c)
	user, err := h.service.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email, IsStaff: user.IsStaff})
}
