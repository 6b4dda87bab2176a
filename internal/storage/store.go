// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	SessionStore
	GroupStore
	MemberStore
	CategoryStore
	ExpenseStore
	InvitationStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore manages registered accounts.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionStore manages refresh-token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)

	// RevokeSession marks an active session as revoked. It returns
	// ErrNotFound when the session is unknown or already revoked, so only one
	// of several concurrent callers succeeds.
	RevokeSession(ctx context.Context, id string) error
}

// GroupStore manages groups.
type GroupStore interface {
	// CreateGroup persists a group together with its initial members and
	// default category in a single transaction. IDs and timestamps are
	// filled in by the store.
	CreateGroup(ctx context.Context, group *models.Group, members []*models.Member, category *models.Category) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group and everything that belongs to it.
	DeleteGroup(ctx context.Context, id string) error

	// ListGroupsForUser returns the groups the user is a member of, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupStats, error)
}

// MemberStore manages group members.
type MemberStore interface {
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, id string) (*models.Member, error)

	// GetMemberByUser returns the member linking userID to groupID.
	GetMemberByUser(ctx context.Context, groupID, userID string) (*models.Member, error)

	// ListMembers returns the group's members in creation order.
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)
	CountMembers(ctx context.Context, groupID string) (int, error)
	UpdateMember(ctx context.Context, member *models.Member) error

	// DetachMember unlinks the member from its user. The member row and its
	// expense history stay in place.
	DetachMember(ctx context.Context, id string) error

	// DeleteMember removes the member row. Expenses and splits that
	// reference the member are kept.
	DeleteMember(ctx context.Context, id string) error
}

// CategoryStore manages expense categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetDefaultCategory(ctx context.Context, groupID string) (*models.Category, error)

	// ListCategories returns the group's categories, default first, with
	// spending totals.
	ListCategories(ctx context.Context, groupID string) ([]*models.CategoryStats, error)
	UpdateCategory(ctx context.Context, category *models.Category) error

	// DeleteCategory removes the category. Expenses that used it are left
	// without a category.
	DeleteCategory(ctx context.Context, id string) error
}

// ExpenseStore manages expenses and their splits.
type ExpenseStore interface {
	// CreateExpense persists the expense and its splits in one transaction.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// UpdateExpense replaces the expense fields and all of its splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	// ListExpenses returns one page of expenses, newest first, and the total
	// number of expenses in the group.
	ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, int, error)

	// ListAllExpenses returns every expense in the group with its splits.
	ListAllExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
}

// InvitationStore manages pending group invitations.
type InvitationStore interface {
	// CreateInvitation returns ErrConflict if the user already has a pending
	// invitation to the group.
	CreateInvitation(ctx context.Context, invitation *models.Invitation) error
	GetInvitation(ctx context.Context, id string) (*models.Invitation, error)
	ListGroupInvitations(ctx context.Context, groupID string) ([]*models.InvitationDetails, error)
	ListUserInvitations(ctx context.Context, userID string) ([]*models.InvitationDetails, error)
	DeleteInvitation(ctx context.Context, id string) error

	// AcceptInvitation creates the member row and deletes the invitation in
	// a single transaction.
	AcceptInvitation(ctx context.Context, invitation *models.Invitation, member *models.Member) error
}
