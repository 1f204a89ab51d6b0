package accountuc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/code19m/pulsechat/internal/chat/domain"
)

func memberSince(userID int, role domain.Role, since time.Time) *domain.Membership {
	return &domain.Membership{ChatID: 1, UserID: userID, Role: role, MemberSince: since}
}

func TestPickSuccessorPrefersMostSeniorAdmin(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	members := []*domain.Membership{
		memberSince(1, domain.RoleOwner, now.Add(-48*time.Hour)),
		memberSince(2, domain.RoleAdmin, now.Add(-2*time.Hour)),
		memberSince(3, domain.RoleAdmin, now.Add(-24*time.Hour)), // most senior admin
		memberSince(4, domain.RoleMember, now.Add(-72*time.Hour)),
	}

	successor := pickSuccessor(members, 1)
	assert.Equal(t, 3, successor)
}

func TestPickSuccessorFallsBackToMostSeniorMember(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	members := []*domain.Membership{
		memberSince(1, domain.RoleOwner, now.Add(-48*time.Hour)),
		memberSince(2, domain.RoleMember, now.Add(-1*time.Hour)),
		memberSince(3, domain.RoleMember, now.Add(-50*time.Hour)), // most senior member
	}

	successor := pickSuccessor(members, 1)
	assert.Equal(t, 3, successor)
}

func TestPickSuccessorNeverReturnsActor(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	members := []*domain.Membership{
		memberSince(1, domain.RoleOwner, now),
	}

	successor := pickSuccessor(members, 1)
	assert.Equal(t, 0, successor)
}
