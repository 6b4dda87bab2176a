package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

var errSessionExpired = errors.New("session expired")

// AuthStore is the storage the auth service needs.
type AuthStore interface {
	storage.UserStore
	storage.SessionStore
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         AuthStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store AuthStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// SignUp creates a new user account.
func (s *AuthService) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	username := strings.TrimSpace(req.Msg.Username)
	s.logger.Info("SignUp request", "username", username)

	user, err := s.authenticator.Register(ctx, username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "username", username, "error", err)
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(&api.SignUpResponse{User: toAPIUser(user)}), nil
}

// SignIn authenticates a user and starts a new session.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	username := strings.TrimSpace(req.Msg.Username)
	s.logger.Info("SignIn request", "username", username)

	if username == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", username, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(pair), nil
}

// Refresh exchanges a refresh token for a new token pair. The old session
// is revoked, so every refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, req *connect.Request[api.RefreshRequest]) (*connect.Response[api.RefreshResponse], error) {
	claims, err := s.jwtManager.Validate(req.Msg.RefreshToken, auth.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh with invalid token", "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, errSessionExpired)
	}

	session, err := s.store.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeUnauthenticated, errSessionExpired)
		}
		s.logger.Error("Failed to load session", "session_id", claims.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if !session.Active(time.Now().Unix()) || session.UserID != claims.UserID {
		s.logger.Warn("Refresh with inactive session", "session_id", session.ID, "user_id", claims.UserID)
		return nil, connect.NewError(connect.CodeUnauthenticated, errSessionExpired)
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeUnauthenticated, errSessionExpired)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	// A concurrent refresh with the same token may have revoked it first.
	if err := s.store.RevokeSession(ctx, session.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Refresh token reused", "session_id", session.ID, "user_id", claims.UserID)
			return nil, connect.NewError(connect.CodeUnauthenticated, errSessionExpired)
		}
		s.logger.Error("Failed to revoke session", "session_id", session.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session refreshed", "user_id", user.ID)
	return connect.NewResponse(pair), nil
}

// SignOut revokes the session behind the given refresh token. Without a
// token there is nothing to revoke and the call succeeds.
func (s *AuthService) SignOut(ctx context.Context, req *connect.Request[api.SignOutRequest]) (*connect.Response[api.SignOutResponse], error) {
	if req.Msg.RefreshToken == "" {
		return connect.NewResponse(&api.SignOutResponse{}), nil
	}

	claims, err := s.jwtManager.Validate(req.Msg.RefreshToken, auth.RefreshToken)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	if err := s.store.RevokeSession(ctx, claims.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("Failed to revoke session", "session_id", claims.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed out", "user_id", claims.UserID)
	return connect.NewResponse(&api.SignOutResponse{}), nil
}

// Me returns the currently authenticated user.
func (s *AuthService) Me(ctx context.Context, req *connect.Request[api.MeRequest]) (*connect.Response[api.MeResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.MeResponse{User: toAPIUser(user)}), nil
}

// issueTokens starts a session for user and signs an access/refresh pair.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*api.TokenPair, error) {
	expiresAt := time.Now().Add(s.jwtManager.RefreshTTL())
	session := &models.Session{
		UserID:    user.ID,
		ExpiresAt: expiresAt.Unix(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		s.logger.Error("Failed to create session", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	access, err := s.jwtManager.GenerateAccess(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	refresh, err := s.jwtManager.GenerateRefresh(user, session.ID, expiresAt)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return &api.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTTL().Seconds()),
		User:         toAPIUser(user),
	}, nil
}
