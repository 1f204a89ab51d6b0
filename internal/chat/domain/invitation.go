package domain

import (
	"context"
	"time"
)

type InvitationState string

const (
	InvitationPending  InvitationState = "Pending"
	InvitationAccepted InvitationState = "Accepted"
	InvitationRejected InvitationState = "Rejected"
)

// Invitation records an offer to join a chat. At most one Pending invitation
// may exist for a given (chat, invited user) pair at any time.
type Invitation struct {
	ID            int
	ChatID        int
	InvitedUserID int
	InvitingUserID int
	State         InvitationState
	CreatedAt     time.Time
}

// InvitationRepository is the typed persistence contract for invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	Get(ctx context.Context, id int) (*Invitation, error)
	// HasPending reports whether a Pending invitation already exists for
	// the given (chat, invited user) pair.
	HasPending(ctx context.Context, chatID, invitedUserID int) (bool, error)
	FindPendingForUser(ctx context.Context, userID int) ([]*Invitation, error)
	UpdateState(ctx context.Context, id int, state InvitationState) error
}
