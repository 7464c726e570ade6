package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/port"
)

// SessionService manages the admin bearer token: it is held by the remote
// store adapter and persisted so it survives restarts.
type SessionService struct {
	auth  port.Authenticator
	creds port.CredentialStore
	log   *logrus.Logger
}

func NewSessionService(auth port.Authenticator, creds port.CredentialStore, logger *logrus.Logger) *SessionService {
	return &SessionService{auth: auth, creds: creds, log: logger}
}

func (s *SessionService) Login(ctx context.Context, username, password string) (domain.Credential, error) {
	cred, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		s.log.WithError(err).WithField("username", username).Warn("SessionService: login failed")
		return domain.Credential{}, err
	}

	s.auth.SetToken(cred.Token)
	if err := s.creds.SaveToken(ctx, cred.Token); err != nil {
		// the session still works for this process
		s.log.WithError(err).Warn("SessionService: persisting token failed")
	}

	s.log.WithField("username", cred.Username).Info("SessionService: logged in")
	return cred, nil
}

func (s *SessionService) Logout(ctx context.Context) error {
	s.auth.ClearToken()
	if err := s.creds.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear persisted token: %w", err)
	}
	s.log.Info("SessionService: logged out")
	return nil
}

// Restore loads a token persisted by an earlier process. It reports whether a
// token was found.
func (s *SessionService) Restore(ctx context.Context) (bool, error) {
	token, err := s.creds.LoadToken(ctx)
	if err != nil {
		return false, fmt.Errorf("load persisted token: %w", err)
	}
	if token == "" {
		return false, nil
	}
	s.auth.SetToken(token)
	s.log.Info("SessionService: restored persisted session")
	return true, nil
}

func (s *SessionService) IsAuthenticated() bool {
	return s.auth.Token() != ""
}
