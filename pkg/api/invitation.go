package api

type Invitation struct {
	ID              string `json:"id"`
	GroupID         string `json:"group_id"`
	GroupName       string `json:"group_name"`
	GroupColor      string `json:"group_color"`
	MemberCount     int    `json:"member_count"`
	InvitedUserID   string `json:"invited_user_id"`
	InviteeUsername string `json:"invitee_username"`
	InvitedBy       string `json:"invited_by"`
	InviterUsername string `json:"inviter_username"`
	Role            string `json:"role"`
	CreatedAt       int64  `json:"created_at"`
}

type SendInvitationRequest struct {
	GroupID  string `json:"group_id"`
	Username string `json:"username"`

	// Role is user or watcher; defaults to user.
	Role string `json:"role,omitempty"`
}

type SendInvitationResponse struct {
	Invitation *Invitation `json:"invitation"`
}

type ListGroupInvitationsRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupInvitationsResponse struct {
	Invitations []*Invitation `json:"invitations"`
}

type ListMyInvitationsRequest struct{}

type ListMyInvitationsResponse struct {
	Invitations []*Invitation `json:"invitations"`
}

type AcceptInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
}

type AcceptInvitationResponse struct {
	Member *Member `json:"member"`
}

type DeclineInvitationRequest struct {
	InvitationID string `json:"invitation_id"`
}

type DeclineInvitationResponse struct{}
