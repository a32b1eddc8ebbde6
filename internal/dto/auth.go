package dto

import "github.com/lumina-tracker/lumina_backend/internal/core/domain"

// GoogleCallbackRequest carries the authorization code from the OAuth
// redirect.
type GoogleCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// AuthResponse is returned after a successful code exchange.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
