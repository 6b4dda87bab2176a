package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/events"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

const testPassword = "Secr3t!pass"

// testServer runs every service behind the real auth interceptors.
type testServer struct {
	store  *sqlite.SQLiteStore
	events *events.Recorder
	jwt    *auth.JWTManager

	auth        apiconnect.AuthServiceClient
	groups      apiconnect.GroupServiceClient
	members     apiconnect.MemberServiceClient
	categories  apiconnect.CategoryServiceClient
	expenses    apiconnect.ExpenseServiceClient
	invitations apiconnect.InvitationServiceClient
}

// setupTestServer creates a test server backed by a temporary database.
func setupTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	recorder := &events.Recorder{}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger)

	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, optional))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, recorder), required))
	mux.Handle(apiconnect.NewMemberServiceHandler(NewMemberService(store, recorder), required))
	mux.Handle(apiconnect.NewCategoryServiceHandler(NewCategoryService(store), required))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, recorder), required))
	mux.Handle(apiconnect.NewInvitationServiceHandler(NewInvitationService(store, recorder), required))

	server := httptest.NewServer(mux)

	ts := &testServer{
		store:       store,
		events:      recorder,
		jwt:         jwtManager,
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:      apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		members:     apiconnect.NewMemberServiceClient(http.DefaultClient, server.URL),
		categories:  apiconnect.NewCategoryServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		invitations: apiconnect.NewInvitationServiceClient(http.DefaultClient, server.URL),
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return ts, cleanup
}

// withToken builds a request carrying the access token.
func withToken[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

// signUp registers username and returns a signed-in token pair.
func (ts *testServer) signUp(t *testing.T, username string) *api.TokenPair {
	t.Helper()
	ctx := context.Background()

	if _, err := ts.auth.SignUp(ctx, connect.NewRequest(&api.SignUpRequest{
		Username: username,
		Password: testPassword,
	})); err != nil {
		t.Fatalf("SignUp(%s) failed: %v", username, err)
	}

	resp, err := ts.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{
		Username: username,
		Password: testPassword,
	}))
	if err != nil {
		t.Fatalf("SignIn(%s) failed: %v", username, err)
	}
	return resp.Msg
}

// createGroup creates a group owned by token's user with name-only members.
func (ts *testServer) createGroup(t *testing.T, token, name string, memberNames ...string) *api.CreateGroupResponse {
	t.Helper()

	req := &api.CreateGroupRequest{Name: name}
	for _, n := range memberNames {
		req.Members = append(req.Members, &api.NewMember{Name: n})
	}

	resp, err := ts.groups.CreateGroup(context.Background(), withToken(token, req))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg
}

// join invites username to the group and accepts the invitation.
func (ts *testServer) join(t *testing.T, adminToken, groupID string, user *api.TokenPair, role string) *api.Member {
	t.Helper()
	ctx := context.Background()

	inv, err := ts.invitations.SendInvitation(ctx, withToken(adminToken, &api.SendInvitationRequest{
		GroupID:  groupID,
		Username: user.User.Username,
		Role:     role,
	}))
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	resp, err := ts.invitations.AcceptInvitation(ctx, withToken(user.AccessToken, &api.AcceptInvitationRequest{
		InvitationID: inv.Msg.Invitation.ID,
	}))
	if err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	return resp.Msg.Member
}

func (ts *testServer) balances(t *testing.T, token, groupID string) *api.GetBalancesResponse {
	t.Helper()

	resp, err := ts.groups.GetBalances(context.Background(), withToken(token, &api.GetBalancesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	return resp.Msg
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("error code = %v, want %v (%v)", got, want, err)
	}
}

func memberByName(t *testing.T, members []*api.Member, name string) *api.Member {
	t.Helper()

	for _, m := range members {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("member %q not found", name)
	return nil
}
