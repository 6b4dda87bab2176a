package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/pkg/api"
)

func TestSignUp(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	resp, err := ts.auth.SignUp(ctx, connect.NewRequest(&api.SignUpRequest{
		Username: "alice",
		Password: testPassword,
	}))
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if resp.Msg.User.ID == "" || resp.Msg.User.Username != "alice" {
		t.Errorf("unexpected user: %+v", resp.Msg.User)
	}

	tests := []struct {
		name     string
		username string
		password string
		want     connect.Code
	}{
		{name: "duplicate username", username: "alice", password: testPassword, want: connect.CodeAlreadyExists},
		{name: "duplicate username ignores case", username: "ALICE", password: testPassword, want: connect.CodeAlreadyExists},
		{name: "username too short", username: "al", password: testPassword, want: connect.CodeInvalidArgument},
		{name: "username with spaces", username: "al ice", password: testPassword, want: connect.CodeInvalidArgument},
		{name: "weak password", username: "bob", password: "password", want: connect.CodeInvalidArgument},
		{name: "password without special", username: "bob", password: "Passw0rdd", want: connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.auth.SignUp(ctx, connect.NewRequest(&api.SignUpRequest{
				Username: tt.username,
				Password: tt.password,
			}))
			assertCode(t, err, tt.want)
		})
	}
}

func TestSignIn(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	pair := ts.signUp(t, "alice")
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", pair.ExpiresIn)
	}
	if pair.User.Username != "alice" {
		t.Errorf("Username = %s, want alice", pair.User.Username)
	}

	t.Run("wrong password", func(t *testing.T) {
		_, err := ts.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Username: "alice", Password: "Wr0ng!pass"}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := ts.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Username: "nobody", Password: testPassword}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestMe(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	pair := ts.signUp(t, "alice")

	resp, err := ts.auth.Me(ctx, withToken(pair.AccessToken, &api.MeRequest{}))
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if resp.Msg.User.ID != pair.User.ID {
		t.Errorf("Me returned %s, want %s", resp.Msg.User.ID, pair.User.ID)
	}

	_, err = ts.auth.Me(ctx, connect.NewRequest(&api.MeRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	// Refresh tokens are not accepted as access tokens.
	_, err = ts.auth.Me(ctx, withToken(pair.RefreshToken, &api.MeRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestRefreshRotatesSession(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	pair := ts.signUp(t, "alice")

	resp, err := ts.auth.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{RefreshToken: pair.RefreshToken}))
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if resp.Msg.RefreshToken == pair.RefreshToken {
		t.Error("expected a new refresh token")
	}
	if _, err := ts.auth.Me(ctx, withToken(resp.Msg.AccessToken, &api.MeRequest{})); err != nil {
		t.Errorf("new access token rejected: %v", err)
	}

	// The old refresh token was consumed.
	_, err = ts.auth.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{RefreshToken: pair.RefreshToken}))
	assertCode(t, err, connect.CodeUnauthenticated)

	// Access tokens cannot refresh.
	_, err = ts.auth.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{RefreshToken: resp.Msg.AccessToken}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

// revokingStore revokes every session right after it is read, as a
// concurrent Refresh with the same token would.
type revokingStore struct {
	AuthStore
}

func (s revokingStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.AuthStore.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.AuthStore.RevokeSession(ctx, id); err != nil {
		return nil, err
	}
	return session, nil
}

func TestRefreshLosesRace(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	pair := ts.signUp(t, "alice")

	store := revokingStore{AuthStore: ts.store}
	svc := NewAuthService(auth.NewPasswordAuthenticator(ts.store), ts.jwt, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{RefreshToken: pair.RefreshToken}))
	assertCode(t, err, connect.CodeUnauthenticated)

	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Message() != errSessionExpired.Error() {
		t.Errorf("message = %q, want %q", connectErr.Message(), errSessionExpired)
	}
}

func TestSignOut(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	pair := ts.signUp(t, "alice")

	if _, err := ts.auth.SignOut(ctx, connect.NewRequest(&api.SignOutRequest{})); err != nil {
		t.Fatalf("SignOut without token failed: %v", err)
	}

	if _, err := ts.auth.SignOut(ctx, withToken(pair.AccessToken, &api.SignOutRequest{RefreshToken: pair.RefreshToken})); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	_, err := ts.auth.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{RefreshToken: pair.RefreshToken}))
	assertCode(t, err, connect.CodeUnauthenticated)

	// Signing out twice is harmless.
	if _, err := ts.auth.SignOut(ctx, withToken(pair.AccessToken, &api.SignOutRequest{RefreshToken: pair.RefreshToken})); err != nil {
		t.Errorf("second SignOut failed: %v", err)
	}
}
