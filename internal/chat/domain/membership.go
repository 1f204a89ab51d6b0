package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleOwner  Role = "Owner"
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// Membership is the (user, chat) composite-key record carrying role and the
// visibility window: messages_visible_from <= messages_received_until <= now.
type Membership struct {
	ChatID                int
	UserID                int
	Role                  Role
	MemberSince           time.Time
	MessagesVisibleFrom   time.Time
	MessagesReceivedUntil time.Time
}

// MembershipRepository is the typed persistence contract for memberships.
type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	// CreateMany implements create_memberships_many(list) under one transaction.
	CreateMany(ctx context.Context, ms []*Membership) error
	Get(ctx context.Context, chatID, userID int) (*Membership, error)
	// FindByUser implements find_memberships_by_user(user).
	FindByUser(ctx context.Context, userID int) ([]*Membership, error)
	// FindByChat implements find_memberships_by_chat(chat).
	FindByChat(ctx context.Context, chatID int) ([]*Membership, error)
	UpdateRole(ctx context.Context, chatID, userID int, role Role) error
	// TransferOwnership implements transfer_ownership(from,to,chat): verifies
	// both rows exist and atomically swaps Owner↔Admin in one transaction.
	TransferOwnership(ctx context.Context, chatID, fromUser, toUser int) error
	Delete(ctx context.Context, chatID, userID int) error
}
