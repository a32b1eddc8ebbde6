package services

import (
	"context"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
)

// SessionWatcherSvc emits current-user transitions. Ledger stores subscribe
// and initialize on the none->authenticated edge.
type SessionWatcherSvc interface {
	CurrentUser() *domain.User
	// Subscribe registers fn for user transitions and returns a cancel
	// function. fn receives nil on sign-out.
	Subscribe(fn func(*domain.User)) func()
}

// SessionSvcFacade is the full auth surface: the watcher plus the OAuth code
// exchange that establishes a session.
type SessionSvcFacade interface {
	SessionWatcherSvc

	// AuthCodeURL returns the provider URL to redirect the user to for
	// consent, carrying the CSRF state string.
	AuthCodeURL(state string) string
	// ExchangeCode trades an authorization code for tokens, fetches the
	// user info and publishes the authenticated user.
	ExchangeCode(ctx context.Context, code string) (*domain.User, error)
	// SignOut drops the session and publishes nil.
	SignOut()
}
