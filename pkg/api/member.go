package api

type Member struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	UserID    string `json:"user_id,omitempty"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

type ListMembersRequest struct {
	GroupID string `json:"group_id"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type UpdateMemberRequest struct {
	GroupID  string  `json:"group_id"`
	MemberID string  `json:"member_id"`
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
}

type UpdateMemberResponse struct {
	Member *Member `json:"member"`
}

type UpdateMemberRoleRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
}

type UpdateMemberRoleResponse struct {
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
}

type RemoveMemberResponse struct{}
