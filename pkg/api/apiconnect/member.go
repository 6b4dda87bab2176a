package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// MemberServiceName is the fully-qualified name of the MemberService service.
const MemberServiceName = "settleup.v1.MemberService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	// MemberServiceListMembersProcedure is the path of the MemberService.ListMembers RPC.
	MemberServiceListMembersProcedure = "/settleup.v1.MemberService/ListMembers"
	// MemberServiceAddMemberProcedure is the path of the MemberService.AddMember RPC.
	MemberServiceAddMemberProcedure = "/settleup.v1.MemberService/AddMember"
	// MemberServiceUpdateMemberProcedure is the path of the MemberService.UpdateMember RPC.
	MemberServiceUpdateMemberProcedure = "/settleup.v1.MemberService/UpdateMember"
	// MemberServiceUpdateMemberRoleProcedure is the path of the MemberService.UpdateMemberRole RPC.
	MemberServiceUpdateMemberRoleProcedure = "/settleup.v1.MemberService/UpdateMemberRole"
	// MemberServiceRemoveMemberProcedure is the path of the MemberService.RemoveMember RPC.
	MemberServiceRemoveMemberProcedure = "/settleup.v1.MemberService/RemoveMember"
)

// MemberServiceHandler is implemented by the MemberService server.
// It manages the members of a group.
type MemberServiceHandler interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error)
	UpdateMemberRole(context.Context, *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listMembers := connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...)
	addMember := connect.NewUnaryHandler(MemberServiceAddMemberProcedure, svc.AddMember, opts...)
	updateMember := connect.NewUnaryHandler(MemberServiceUpdateMemberProcedure, svc.UpdateMember, opts...)
	updateMemberRole := connect.NewUnaryHandler(MemberServiceUpdateMemberRoleProcedure, svc.UpdateMemberRole, opts...)
	removeMember := connect.NewUnaryHandler(MemberServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	return "/settleup.v1.MemberService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case MemberServiceListMembersProcedure:
			listMembers.ServeHTTP(w, r)
		case MemberServiceAddMemberProcedure:
			addMember.ServeHTTP(w, r)
		case MemberServiceUpdateMemberProcedure:
			updateMember.ServeHTTP(w, r)
		case MemberServiceUpdateMemberRoleProcedure:
			updateMemberRole.ServeHTTP(w, r)
		case MemberServiceRemoveMemberProcedure:
			removeMember.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// MemberServiceClient is a client for the settleup.v1.MemberService service.
type MemberServiceClient interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	UpdateMember(context.Context, *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error)
	UpdateMemberRole(context.Context, *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
}

// NewMemberServiceClient constructs a client for the settleup.v1.MemberService service.
// The URL supplied should be the base URL of the server (for example,
// http://localhost:8080).
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MemberServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &memberServiceClient{
		listMembers: connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+MemberServiceListMembersProcedure, opts...),
		addMember: connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+MemberServiceAddMemberProcedure, opts...),
		updateMember: connect.NewClient[api.UpdateMemberRequest, api.UpdateMemberResponse](httpClient, baseURL+MemberServiceUpdateMemberProcedure, opts...),
		updateMemberRole: connect.NewClient[api.UpdateMemberRoleRequest, api.UpdateMemberRoleResponse](httpClient, baseURL+MemberServiceUpdateMemberRoleProcedure, opts...),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+MemberServiceRemoveMemberProcedure, opts...),
	}
}

type memberServiceClient struct {
	listMembers *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	addMember *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	updateMember *connect.Client[api.UpdateMemberRequest, api.UpdateMemberResponse]
	updateMemberRole *connect.Client[api.UpdateMemberRoleRequest, api.UpdateMemberRoleResponse]
	removeMember *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
}

func (c *memberServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	return c.updateMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) UpdateMemberRole(ctx context.Context, req *connect.Request[api.UpdateMemberRoleRequest]) (*connect.Response[api.UpdateMemberRoleResponse], error) {
	return c.updateMemberRole.CallUnary(ctx, req)
}

func (c *memberServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}
