package service

import (
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/pkg/api"
)

// memberColors is cycled through for members created without a color.
var memberColors = []string{"indigo", "amber", "emerald", "rose", "sky", "violet", "orange", "teal", "pink", "lime"}

const defaultGroupColor = "indigo"

func pickColor(color string, i int) string {
	if color != "" {
		return color
	}
	return memberColors[i%len(memberColors)]
}

// toAmount converts stored cents to the API's decimal amount.
func toAmount(cents int64) float64 {
	return calculator.Cents(cents).Float64()
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Color:       g.Color,
		CreatedAt:   g.CreatedAt,
	}
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Name:      m.Name,
		Color:     m.Color,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

func toAPIMembers(members []*models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return out
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{
		ID:        c.ID,
		GroupID:   c.GroupID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}

// toAPIExpense converts an expense, resolving the payer, split members and
// category from the given lookups. Missing entries are left nil.
func toAPIExpense(e *models.Expense, members map[string]*api.Member, categories map[string]*api.Category) *api.Expense {
	out := &api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Title:        e.Title,
		Amount:       toAmount(e.Amount),
		Date:         e.Date,
		PaidBy:       e.PaidBy,
		CategoryID:   e.CategoryID,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		PaidByMember: members[e.PaidBy],
		Splits:       make([]*api.Split, len(e.Splits)),
	}
	if e.CategoryID != "" {
		out.Category = categories[e.CategoryID]
	}
	for i, s := range e.Splits {
		out.Splits[i] = &api.Split{
			MemberID:   s.MemberID,
			Amount:     toAmount(s.Amount),
			IsIncluded: s.IsIncluded,
			Member:     members[s.MemberID],
		}
	}
	return out
}

func toAPIInvitation(inv *models.InvitationDetails) *api.Invitation {
	return &api.Invitation{
		ID:              inv.ID,
		GroupID:         inv.GroupID,
		GroupName:       inv.GroupName,
		GroupColor:      inv.GroupColor,
		MemberCount:     inv.MemberCount,
		InvitedUserID:   inv.InvitedUserID,
		InviteeUsername: inv.InviteeUsername,
		InvitedBy:       inv.InvitedBy,
		InviterUsername: inv.InviterUsername,
		Role:            string(inv.Role),
		CreatedAt:       inv.CreatedAt,
	}
}

func toAPIInvitations(invs []*models.InvitationDetails) []*api.Invitation {
	out := make([]*api.Invitation, len(invs))
	for i, inv := range invs {
		out[i] = toAPIInvitation(inv)
	}
	return out
}
