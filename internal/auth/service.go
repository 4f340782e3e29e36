/*
Package auth implements the single-admin session flow.

There is exactly one admin account, configured through the environment
(username plus bcrypt password hash). A successful login issues a signed
session token carried in an HttpOnly cookie; every admin route behind
[middleware.RequireAdmin] verifies that token. Logout is a cookie
expiry — tokens are not tracked server-side, so a logged-out token stays
cryptographically valid until its TTL runs out.
*/
package auth

import (
	"log/slog"

	"github.com/taibuivan/lumina/internal/platform/apperr"
	"github.com/taibuivan/lumina/internal/platform/sec"
)

// Service checks admin credentials and issues session tokens.
type Service struct {
	username     string
	passwordHash string
	tokens       *sec.TokenService
	logger       *slog.Logger
}

// NewService creates the auth service.
func NewService(username, passwordHash string, tokens *sec.TokenService, logger *slog.Logger) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		tokens:       tokens,
		logger:       logger,
	}
}

/*
Login verifies the credentials and returns a session token.

Description: Username and password failures return the same UNAUTHORIZED
error, so the response does not reveal which half was wrong.

Parameters:
  - username: string
  - password: string

Returns:
  - string: The signed session token
  - error: UNAUTHORIZED on bad credentials, token signing failures
*/
func (service *Service) Login(username, password string) (string, error) {

	if username != service.username || !sec.CheckPassword(service.passwordHash, password) {
		service.logger.Warn("login_rejected",
			slog.String("username", username),
		)
		return "", apperr.Unauthorized("Invalid credentials")
	}

	token, err := service.tokens.IssueToken(username)
	if err != nil {
		return "", apperr.Internal(err)
	}

	service.logger.Info("login_succeeded",
		slog.String("username", username),
	)

	return token, nil
}

// SessionTTL exposes the token lifetime for cookie expiry.
func (service *Service) SessionTTL() int {
	return int(service.tokens.TTL().Seconds())
}
