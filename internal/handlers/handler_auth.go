package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/dto"
	"github.com/lumina-tracker/lumina_backend/internal/middleware"
	"github.com/lumina-tracker/lumina_backend/internal/platform/config"
	"github.com/lumina-tracker/lumina_backend/internal/utils"
)

// authHandler handles the Google OAuth flow and session lifecycle.
type authHandler struct {
	cfg     *config.Config
	session portssvc.SessionSvcFacade
}

func newAuthHandler(cfg *config.Config, session portssvc.SessionSvcFacade) *authHandler {
	return &authHandler{cfg: cfg, session: session}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, session portssvc.SessionSvcFacade) {
	h := newAuthHandler(cfg, session)

	auth := r.Group("/auth")
	{
		auth.GET("/google/login", h.googleLogin)
		auth.POST("/google/callback", h.googleCallback)
		auth.POST("/logout", h.logout)
	}
}

// googleLogin godoc
// @Summary Get the Google consent URL
// @Description Returns the URL the client should redirect the user to for Google sign-in
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/google/login [get]
func (h *authHandler) googleLogin(c *gin.Context) {
	state := utils.RandomBase36(24)
	c.JSON(http.StatusOK, gin.H{"url": h.session.AuthCodeURL(state), "state": state})
}

// googleCallback godoc
// @Summary Exchange the OAuth code for a session
// @Description Trades the authorization code for tokens, establishes the spreadsheet session and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleCallbackRequest true "Authorization code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Code exchange failed"
// @Router /auth/google/callback [post]
func (h *authHandler) googleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GoogleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GoogleCallback", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.session.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		logger.Error("OAuth code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to authenticate with Google"})
		return
	}

	token, err := utils.GenerateJWT(user.Email, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	logger.Info("User authenticated", slog.String("email", user.Email))
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: *user})
}

// logout godoc
// @Summary Sign out
// @Description Drops the spreadsheet session; the expense store falls back to the local snapshot
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	h.session.SignOut()
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}
