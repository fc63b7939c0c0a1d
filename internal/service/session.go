package service

import (
	"context"
	"fmt"

	"github.com/nventon/user-backend/internal/events"
	"github.com/nventon/user-backend/internal/hash"
	"github.com/nventon/user-backend/internal/logging"
	"github.com/nventon/user-backend/internal/models"
	"github.com/nventon/user-backend/internal/repo"
	"github.com/nventon/user-backend/internal/tokens"
	"github.com/nventon/user-backend/internal/transport"
)

type SessionService struct {
	Repo     *repo.GormRepo
	Codec    *tokens.Codec
	Producer *events.Producer
}

// Login checks the credential pair and, on success, mints a fresh token and
// persists its fingerprint for this user. Existing sessions are untouched,
// so concurrent logins each get their own independent token.
func (s *SessionService) Login(ctx context.Context, username, password string) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "session.login", "username", username)

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_failed", "reason", "unknown username")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		// Same outcome as an unknown username on purpose.
		l.Warn("login_failed", "reason", "password mismatch")
		return nil, ErrUserNotFound
	}

	value, exp, err := s.Codec.Mint()
	if err != nil {
		return nil, err
	}

	token := models.Token{
		Token:     hash.Sha256Hex(value),
		UserID:    user.ID,
		ExpiresAt: exp.Unix(),
	}
	if err := s.Repo.CreateToken(ctx, &token); err != nil {
		return nil, err
	}

	if err := s.Producer.PublishEvent(ctx, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_login",
		"user_id":  user.ID,
		"username": user.Username,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("login_successful")
	return &transport.LoginResult{
		User:      transport.ToPublic(user),
		Token:     value,
		ExpiresAt: exp,
	}, nil
}

// Logout revokes one session by deleting its stored token row. The token's
// signature and embedded expiry stay intact; removal alone invalidates it.
func (s *SessionService) Logout(ctx context.Context, username, tokenValue string) error {
	l := logging.FromContext(ctx).With("svc", "session.logout", "username", username)

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("logout_failed", "reason", "unknown username")
			return ErrUserNotFound
		}
		return err
	}

	matches, err := s.Repo.FindTokensForUser(ctx, user.ID, hash.Sha256Hex(tokenValue))
	if err != nil {
		return err
	}
	if len(matches) != 1 {
		// Zero means already revoked or never issued. More than one would
		// break the unique token constraint and is treated the same way.
		l.Warn("logout_failed", "reason", "token not found", "matches", len(matches))
		return ErrTokenNotExist
	}

	if err := s.Repo.DeleteToken(ctx, &matches[0]); err != nil {
		return err
	}

	if err := s.Producer.PublishEvent(ctx, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logout",
		"user_id":  user.ID,
		"username": user.Username,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("logout_successful")
	return nil
}

// TryToken verifies a presented token without mutating anything. Signature
// and expiry are checked first; only a token that still parses is looked up
// against the user's stored sessions, so an expired-but-recorded token is
// reported as expired rather than revoked.
func (s *SessionService) TryToken(ctx context.Context, username, tokenValue string) (bool, error) {
	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	if _, err := s.Codec.Parse(tokenValue); err != nil {
		return false, err
	}

	matches, err := s.Repo.FindTokensForUser(ctx, user.ID, hash.Sha256Hex(tokenValue))
	if err != nil {
		return false, err
	}
	return len(matches) == 1, nil
}
