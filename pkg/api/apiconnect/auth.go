package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "settleup.v1.AuthService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	// AuthServiceSignUpProcedure is the path of the AuthService.SignUp RPC.
	AuthServiceSignUpProcedure = "/settleup.v1.AuthService/SignUp"
	// AuthServiceSignInProcedure is the path of the AuthService.SignIn RPC.
	AuthServiceSignInProcedure = "/settleup.v1.AuthService/SignIn"
	// AuthServiceRefreshProcedure is the path of the AuthService.Refresh RPC.
	AuthServiceRefreshProcedure = "/settleup.v1.AuthService/Refresh"
	// AuthServiceSignOutProcedure is the path of the AuthService.SignOut RPC.
	AuthServiceSignOutProcedure = "/settleup.v1.AuthService/SignOut"
	// AuthServiceMeProcedure is the path of the AuthService.Me RPC.
	AuthServiceMeProcedure = "/settleup.v1.AuthService/Me"
)

// AuthServiceHandler is implemented by the AuthService server.
// It handles account registration and token issuance.
type AuthServiceHandler interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	Refresh(context.Context, *connect.Request[api.RefreshRequest]) (*connect.Response[api.RefreshResponse], error)
	SignOut(context.Context, *connect.Request[api.SignOutRequest]) (*connect.Response[api.SignOutResponse], error)
	Me(context.Context, *connect.Request[api.MeRequest]) (*connect.Response[api.MeResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	signUp := connect.NewUnaryHandler(AuthServiceSignUpProcedure, svc.SignUp, opts...)
	signIn := connect.NewUnaryHandler(AuthServiceSignInProcedure, svc.SignIn, opts...)
	refresh := connect.NewUnaryHandler(AuthServiceRefreshProcedure, svc.Refresh, opts...)
	signOut := connect.NewUnaryHandler(AuthServiceSignOutProcedure, svc.SignOut, opts...)
	me := connect.NewUnaryHandler(AuthServiceMeProcedure, svc.Me, opts...)
	return "/settleup.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceSignUpProcedure:
			signUp.ServeHTTP(w, r)
		case AuthServiceSignInProcedure:
			signIn.ServeHTTP(w, r)
		case AuthServiceRefreshProcedure:
			refresh.ServeHTTP(w, r)
		case AuthServiceSignOutProcedure:
			signOut.ServeHTTP(w, r)
		case AuthServiceMeProcedure:
			me.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for the settleup.v1.AuthService service.
type AuthServiceClient interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	Refresh(context.Context, *connect.Request[api.RefreshRequest]) (*connect.Response[api.RefreshResponse], error)
	SignOut(context.Context, *connect.Request[api.SignOutRequest]) (*connect.Response[api.SignOutResponse], error)
	Me(context.Context, *connect.Request[api.MeRequest]) (*connect.Response[api.MeResponse], error)
}

// NewAuthServiceClient constructs a client for the settleup.v1.AuthService service.
// The URL supplied should be the base URL of the server (for example,
// http://localhost:8080).
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		signUp: connect.NewClient[api.SignUpRequest, api.SignUpResponse](httpClient, baseURL+AuthServiceSignUpProcedure, opts...),
		signIn: connect.NewClient[api.SignInRequest, api.SignInResponse](httpClient, baseURL+AuthServiceSignInProcedure, opts...),
		refresh: connect.NewClient[api.RefreshRequest, api.RefreshResponse](httpClient, baseURL+AuthServiceRefreshProcedure, opts...),
		signOut: connect.NewClient[api.SignOutRequest, api.SignOutResponse](httpClient, baseURL+AuthServiceSignOutProcedure, opts...),
		me: connect.NewClient[api.MeRequest, api.MeResponse](httpClient, baseURL+AuthServiceMeProcedure, opts...),
	}
}

type authServiceClient struct {
	signUp *connect.Client[api.SignUpRequest, api.SignUpResponse]
	signIn *connect.Client[api.SignInRequest, api.SignInResponse]
	refresh *connect.Client[api.RefreshRequest, api.RefreshResponse]
	signOut *connect.Client[api.SignOutRequest, api.SignOutResponse]
	me *connect.Client[api.MeRequest, api.MeResponse]
}

func (c *authServiceClient) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	return c.signUp.CallUnary(ctx, req)
}

func (c *authServiceClient) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *authServiceClient) Refresh(ctx context.Context, req *connect.Request[api.RefreshRequest]) (*connect.Response[api.RefreshResponse], error) {
	return c.refresh.CallUnary(ctx, req)
}

func (c *authServiceClient) SignOut(ctx context.Context, req *connect.Request[api.SignOutRequest]) (*connect.Response[api.SignOutResponse], error) {
	return c.signOut.CallUnary(ctx, req)
}

func (c *authServiceClient) Me(ctx context.Context, req *connect.Request[api.MeRequest]) (*connect.Response[api.MeResponse], error) {
	return c.me.CallUnary(ctx, req)
}
