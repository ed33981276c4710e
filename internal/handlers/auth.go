package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/idiom-hub/backend/internal/middleware"
	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/service"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer struct {
	Secret string
	TTL    time.Duration
}

func (t TokenIssuer) issue(user *models.User) (string, error) {
	return middleware.GenerateToken(t.Secret, user, t.TTL)
}

type AuthHandler struct {
	users  *service.UserService
	tokens TokenIssuer
}

func NewAuthHandler(users *service.UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user, "User registered successfully")
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user, "Login successful")
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User, message string) {
	token, err := h.tokens.issue(user)
	if err != nil {
		respondError(c, models.NewInternalError(err))
		return
	}
	c.JSON(status, models.AuthResponse{Token: token, User: *user, Message: message})
}

// Profile returns the authenticated user
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}
