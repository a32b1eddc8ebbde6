package googleauth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/lumina-tracker/lumina_backend/internal/core/domain"
	portssvc "github.com/lumina-tracker/lumina_backend/internal/core/ports/services"
	"github.com/lumina-tracker/lumina_backend/internal/core/signal"
	"github.com/lumina-tracker/lumina_backend/internal/platform/config"
)

// Service is the Google OAuth session adapter. It owns the single active
// session: the exchanged token, the derived token source handed to the
// spreadsheet adapter, and the published current user.
type Service struct {
	oauth2Config *oauth2.Config

	mu          sync.Mutex
	tokenSource oauth2.TokenSource
	user        *signal.Signal[*domain.User]
}

// NewService builds the adapter from application config. The scopes cover
// the userinfo endpoints plus full spreadsheet access for the ledger sync.
func NewService(cfg *config.Config) *Service {
	return &Service{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/spreadsheets",
			},
			Endpoint: google.Endpoint,
		},
		user: signal.New[*domain.User](nil),
	}
}

var _ portssvc.SessionSvcFacade = (*Service)(nil)

// AuthCodeURL returns the URL to redirect the user to for Google login.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode trades an authorization code for tokens, fetches the user
// info and publishes the authenticated user.
func (s *Service) ExchangeCode(ctx context.Context, code string) (*domain.User, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	tokenSource := s.oauth2Config.TokenSource(context.Background(), token)

	svc, err := goauth2.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}

	user := &domain.User{Email: info.Email, Name: info.Name}

	s.mu.Lock()
	s.tokenSource = tokenSource
	s.mu.Unlock()
	s.user.Set(user)
	return user, nil
}

// SignOut drops the session and publishes nil.
func (s *Service) SignOut() {
	s.mu.Lock()
	s.tokenSource = nil
	s.mu.Unlock()
	s.user.Set(nil)
}

func (s *Service) CurrentUser() *domain.User {
	return s.user.Get()
}

func (s *Service) Subscribe(fn func(*domain.User)) func() {
	return s.user.Subscribe(fn)
}

// TokenSource exposes the active session's token source for API clients.
// The second return is false while no session is active.
func (s *Service) TokenSource() (oauth2.TokenSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenSource, s.tokenSource != nil
}
