package models

// Invitation is a pending request for a user to join a group.
type Invitation struct {
	ID            string
	GroupID       string
	InvitedUserID string
	InvitedBy     string

	// Role is the role the user gets on accepting (user or watcher).
	Role Role

	CreatedAt int64
}

// InvitationDetails is an invitation joined with what the invitee needs to
// decide on it.
type InvitationDetails struct {
	Invitation

	GroupName        string
	GroupDescription string
	GroupColor       string
	MemberCount      int

	InviterUsername string
	InviteeUsername string
}
