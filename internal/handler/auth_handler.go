package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hospital-directory/internal/middleware"
	"hospital-directory/internal/models"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	authService  *service.AuthService
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, cookieMaxAge time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken, int(h.cookieMaxAge.Seconds()))

	utils.SuccessResponse(c, gin.H{
		"access_token": response.AccessToken,
		"user":         response.User,
	})
}

// Refresh generates a new access token from refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token": accessToken,
	})
}

// Logout revokes the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		// If no cookie, just clear it and return success
		h.setRefreshCookie(c, "", -1)
		utils.MessageResponse(c, "Logged out successfully")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		utils.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	utils.MessageResponse(c, "Logged out successfully")
}

// Register handles user registration. Anyone may create a user account;
// creating an admin needs an admin token unless no account exists yet.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, models.Role(req.Role), middleware.Role(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken, int(h.cookieMaxAge.Seconds()))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"access_token": response.AccessToken,
			"user":         response.User,
		},
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(refreshCookie, value, maxAge, "/", "", h.secureCookie, true)
}
