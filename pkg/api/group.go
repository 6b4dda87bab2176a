package api

type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	CreatedAt   int64  `json:"created_at"`
}

type GroupWithStats struct {
	Group
	MemberCount  int     `json:"member_count"`
	ExpenseCount int     `json:"expense_count"`
	TotalAmount  float64 `json:"total_amount"`
}

// NewMember describes a name-only member created together with a group.
type NewMember struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type CreateGroupRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color,omitempty"`
	Members     []*NewMember `json:"members,omitempty"`
}

type CreateGroupResponse struct {
	Group   *Group    `json:"group"`
	Members []*Member `json:"members"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*GroupWithStats `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group   *Group    `json:"group"`
	Members []*Member `json:"members"`

	// Role is the caller's role in the group.
	Role string `json:"role"`
}

// UpdateGroupRequest is a partial update: nil fields are left unchanged.
type UpdateGroupRequest struct {
	GroupID     string  `json:"group_id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type LeaveGroupRequest struct {
	GroupID string `json:"group_id"`
}

type LeaveGroupResponse struct{}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type MemberBalance struct {
	Member

	// Balance is positive when the member is owed money.
	Balance float64 `json:"balance"`
}

// Settlement is a suggested payment that clears debts.
type Settlement struct {
	From   *Member `json:"from"`
	To     *Member `json:"to"`
	Amount float64 `json:"amount"`
}

type GetBalancesResponse struct {
	MemberBalances []*MemberBalance `json:"member_balances"`
	Settlements    []*Settlement    `json:"settlements"`
	TotalSpent     float64          `json:"total_spent"`
}
