package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// InvitationServiceName is the fully-qualified name of the InvitationService service.
const InvitationServiceName = "settleup.v1.InvitationService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	// InvitationServiceSendInvitationProcedure is the path of the InvitationService.SendInvitation RPC.
	InvitationServiceSendInvitationProcedure = "/settleup.v1.InvitationService/SendInvitation"
	// InvitationServiceListGroupInvitationsProcedure is the path of the InvitationService.ListGroupInvitations RPC.
	InvitationServiceListGroupInvitationsProcedure = "/settleup.v1.InvitationService/ListGroupInvitations"
	// InvitationServiceListMyInvitationsProcedure is the path of the InvitationService.ListMyInvitations RPC.
	InvitationServiceListMyInvitationsProcedure = "/settleup.v1.InvitationService/ListMyInvitations"
	// InvitationServiceAcceptInvitationProcedure is the path of the InvitationService.AcceptInvitation RPC.
	InvitationServiceAcceptInvitationProcedure = "/settleup.v1.InvitationService/AcceptInvitation"
	// InvitationServiceDeclineInvitationProcedure is the path of the InvitationService.DeclineInvitation RPC.
	InvitationServiceDeclineInvitationProcedure = "/settleup.v1.InvitationService/DeclineInvitation"
)

// InvitationServiceHandler is implemented by the InvitationService server.
// It invites registered users into groups.
type InvitationServiceHandler interface {
	SendInvitation(context.Context, *connect.Request[api.SendInvitationRequest]) (*connect.Response[api.SendInvitationResponse], error)
	ListGroupInvitations(context.Context, *connect.Request[api.ListGroupInvitationsRequest]) (*connect.Response[api.ListGroupInvitationsResponse], error)
	ListMyInvitations(context.Context, *connect.Request[api.ListMyInvitationsRequest]) (*connect.Response[api.ListMyInvitationsResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	DeclineInvitation(context.Context, *connect.Request[api.DeclineInvitationRequest]) (*connect.Response[api.DeclineInvitationResponse], error)
}

// NewInvitationServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewInvitationServiceHandler(svc InvitationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	sendInvitation := connect.NewUnaryHandler(InvitationServiceSendInvitationProcedure, svc.SendInvitation, opts...)
	listGroupInvitations := connect.NewUnaryHandler(InvitationServiceListGroupInvitationsProcedure, svc.ListGroupInvitations, opts...)
	listMyInvitations := connect.NewUnaryHandler(InvitationServiceListMyInvitationsProcedure, svc.ListMyInvitations, opts...)
	acceptInvitation := connect.NewUnaryHandler(InvitationServiceAcceptInvitationProcedure, svc.AcceptInvitation, opts...)
	declineInvitation := connect.NewUnaryHandler(InvitationServiceDeclineInvitationProcedure, svc.DeclineInvitation, opts...)
	return "/settleup.v1.InvitationService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case InvitationServiceSendInvitationProcedure:
			sendInvitation.ServeHTTP(w, r)
		case InvitationServiceListGroupInvitationsProcedure:
			listGroupInvitations.ServeHTTP(w, r)
		case InvitationServiceListMyInvitationsProcedure:
			listMyInvitations.ServeHTTP(w, r)
		case InvitationServiceAcceptInvitationProcedure:
			acceptInvitation.ServeHTTP(w, r)
		case InvitationServiceDeclineInvitationProcedure:
			declineInvitation.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// InvitationServiceClient is a client for the settleup.v1.InvitationService service.
type InvitationServiceClient interface {
	SendInvitation(context.Context, *connect.Request[api.SendInvitationRequest]) (*connect.Response[api.SendInvitationResponse], error)
	ListGroupInvitations(context.Context, *connect.Request[api.ListGroupInvitationsRequest]) (*connect.Response[api.ListGroupInvitationsResponse], error)
	ListMyInvitations(context.Context, *connect.Request[api.ListMyInvitationsRequest]) (*connect.Response[api.ListMyInvitationsResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	DeclineInvitation(context.Context, *connect.Request[api.DeclineInvitationRequest]) (*connect.Response[api.DeclineInvitationResponse], error)
}

// NewInvitationServiceClient constructs a client for the settleup.v1.InvitationService service.
// The URL supplied should be the base URL of the server (for example,
// http://localhost:8080).
func NewInvitationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) InvitationServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &invitationServiceClient{
		sendInvitation: connect.NewClient[api.SendInvitationRequest, api.SendInvitationResponse](httpClient, baseURL+InvitationServiceSendInvitationProcedure, opts...),
		listGroupInvitations: connect.NewClient[api.ListGroupInvitationsRequest, api.ListGroupInvitationsResponse](httpClient, baseURL+InvitationServiceListGroupInvitationsProcedure, opts...),
		listMyInvitations: connect.NewClient[api.ListMyInvitationsRequest, api.ListMyInvitationsResponse](httpClient, baseURL+InvitationServiceListMyInvitationsProcedure, opts...),
		acceptInvitation: connect.NewClient[api.AcceptInvitationRequest, api.AcceptInvitationResponse](httpClient, baseURL+InvitationServiceAcceptInvitationProcedure, opts...),
		declineInvitation: connect.NewClient[api.DeclineInvitationRequest, api.DeclineInvitationResponse](httpClient, baseURL+InvitationServiceDeclineInvitationProcedure, opts...),
	}
}

type invitationServiceClient struct {
	sendInvitation *connect.Client[api.SendInvitationRequest, api.SendInvitationResponse]
	listGroupInvitations *connect.Client[api.ListGroupInvitationsRequest, api.ListGroupInvitationsResponse]
	listMyInvitations *connect.Client[api.ListMyInvitationsRequest, api.ListMyInvitationsResponse]
	acceptInvitation *connect.Client[api.AcceptInvitationRequest, api.AcceptInvitationResponse]
	declineInvitation *connect.Client[api.DeclineInvitationRequest, api.DeclineInvitationResponse]
}

func (c *invitationServiceClient) SendInvitation(ctx context.Context, req *connect.Request[api.SendInvitationRequest]) (*connect.Response[api.SendInvitationResponse], error) {
	return c.sendInvitation.CallUnary(ctx, req)
}

func (c *invitationServiceClient) ListGroupInvitations(ctx context.Context, req *connect.Request[api.ListGroupInvitationsRequest]) (*connect.Response[api.ListGroupInvitationsResponse], error) {
	return c.listGroupInvitations.CallUnary(ctx, req)
}

func (c *invitationServiceClient) ListMyInvitations(ctx context.Context, req *connect.Request[api.ListMyInvitationsRequest]) (*connect.Response[api.ListMyInvitationsResponse], error) {
	return c.listMyInvitations.CallUnary(ctx, req)
}

func (c *invitationServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

func (c *invitationServiceClient) DeclineInvitation(ctx context.Context, req *connect.Request[api.DeclineInvitationRequest]) (*connect.Response[api.DeclineInvitationResponse], error) {
	return c.declineInvitation.CallUnary(ctx, req)
}
