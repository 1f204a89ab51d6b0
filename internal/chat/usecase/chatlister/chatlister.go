// Package chatlister adapts MembershipRepository to realtime.ChatLister, the
// seam that lets the websocket handler resolve a user's chat set without the
// realtime package importing any chat usecase.
package chatlister

import (
	"context"

	"github.com/code19m/pulsechat/internal/chat/domain"
)

type adapter struct {
	membershipRepo domain.MembershipRepository
}

func New(membershipRepo domain.MembershipRepository) *adapter {
	return &adapter{membershipRepo: membershipRepo}
}

func (a *adapter) ListChatIDsForUser(ctx context.Context, userID int) ([]int, error) {
	memberships, err := a.membershipRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(memberships))
	for i, m := range memberships {
		ids[i] = m.ChatID
	}
	return ids, nil
}
