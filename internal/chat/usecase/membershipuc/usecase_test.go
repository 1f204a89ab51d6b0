package membershipuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/code19m/pulsechat/internal/auth/domain"
	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/internal/chat/usecase/membershipuc"
	"github.com/code19m/pulsechat/internal/realtime"
	"github.com/code19m/pulsechat/pkg/errs"
)

type fakeChatRepo struct {
	chats  map[int]*domain.Chat
	nextID int
}

func newFakeChatRepo() *fakeChatRepo { return &fakeChatRepo{chats: make(map[int]*domain.Chat)} }

func (r *fakeChatRepo) Create(_ context.Context, chat *domain.Chat) error {
	r.nextID++
	chat.ID = r.nextID
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) GetByID(_ context.Context, id int) (*domain.Chat, error) {
	if c, ok := r.chats[id]; ok {
		return c, nil
	}
	return nil, errs.ErrNotFound
}

func (r *fakeChatRepo) FindPrivateBetween(_ context.Context, _, _ int) (*domain.Chat, error) {
	return nil, errs.ErrNotFound
}

func (r *fakeChatRepo) Delete(_ context.Context, id int) error {
	delete(r.chats, id)
	return nil
}

type fakeMembershipRepo struct {
	byChat map[int]map[int]*domain.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{byChat: make(map[int]map[int]*domain.Membership)}
}

func (r *fakeMembershipRepo) Create(_ context.Context, m *domain.Membership) error {
	if r.byChat[m.ChatID] == nil {
		r.byChat[m.ChatID] = make(map[int]*domain.Membership)
	}
	r.byChat[m.ChatID][m.UserID] = m
	return nil
}

func (r *fakeMembershipRepo) CreateMany(ctx context.Context, ms []*domain.Membership) error {
	for _, m := range ms {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeMembershipRepo) Get(_ context.Context, chatID, userID int) (*domain.Membership, error) {
	if m, ok := r.byChat[chatID][userID]; ok {
		return m, nil
	}
	return nil, errs.ErrNotFound
}

func (r *fakeMembershipRepo) FindByUser(_ context.Context, userID int) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, members := range r.byChat {
		if m, ok := members[userID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) FindByChat(_ context.Context, chatID int) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, m := range r.byChat[chatID] {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMembershipRepo) UpdateRole(_ context.Context, chatID, userID int, role domain.Role) error {
	m, ok := r.byChat[chatID][userID]
	if !ok {
		return errs.ErrNotFound
	}
	m.Role = role
	return nil
}

func (r *fakeMembershipRepo) TransferOwnership(_ context.Context, chatID, fromUser, toUser int) error {
	from, ok := r.byChat[chatID][fromUser]
	if !ok {
		return errs.ErrNotFound
	}
	to, ok := r.byChat[chatID][toUser]
	if !ok {
		return errs.ErrNotFound
	}
	from.Role = domain.RoleAdmin
	to.Role = domain.RoleOwner
	return nil
}

func (r *fakeMembershipRepo) Delete(_ context.Context, chatID, userID int) error {
	delete(r.byChat[chatID], userID)
	return nil
}

type fakeInvitationRepo struct {
	invitations map[int]*domain.Invitation
	nextID      int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[int]*domain.Invitation)}
}

func (r *fakeInvitationRepo) Create(_ context.Context, inv *domain.Invitation) error {
	r.nextID++
	inv.ID = r.nextID
	r.invitations[inv.ID] = inv
	return nil
}

func (r *fakeInvitationRepo) Get(_ context.Context, id int) (*domain.Invitation, error) {
	if inv, ok := r.invitations[id]; ok {
		return inv, nil
	}
	return nil, errs.ErrNotFound
}

func (r *fakeInvitationRepo) HasPending(_ context.Context, chatID, invitedUserID int) (bool, error) {
	for _, inv := range r.invitations {
		if inv.ChatID == chatID && inv.InvitedUserID == invitedUserID && inv.State == domain.InvitationPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvitationRepo) FindPendingForUser(_ context.Context, userID int) ([]*domain.Invitation, error) {
	var out []*domain.Invitation
	for _, inv := range r.invitations {
		if inv.InvitedUserID == userID && inv.State == domain.InvitationPending {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) UpdateState(_ context.Context, id int, state domain.InvitationState) error {
	inv, ok := r.invitations[id]
	if !ok {
		return errs.ErrNotFound
	}
	inv.State = state
	return nil
}

type fakeMessageRepo struct {
	messages []*domain.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m *domain.Message) error {
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeMessageRepo) FindInChat(
	_ context.Context, _ int, _ time.Time, _ *time.Time, _ int,
) ([]*domain.Message, error) {
	return r.messages, nil
}

type fakeUserRepo struct {
	users map[int]*authdomain.User
}

func newFakeUserRepo(users ...*authdomain.User) *fakeUserRepo {
	m := make(map[int]*authdomain.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) Create(_ context.Context, u *authdomain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*authdomain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errs.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeUserRepo) SearchByUsernamePrefix(_ context.Context, _ string, _ int) ([]*authdomain.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *authdomain.User) error {
	r.users[u.ID] = u
	return nil
}

type harness struct {
	uc             membershipuc.UseCase
	chatRepo       *fakeChatRepo
	membershipRepo *fakeMembershipRepo
	invitationRepo *fakeInvitationRepo
	messageRepo    *fakeMessageRepo
	userRepo       *fakeUserRepo
}

func newHarness(users ...*authdomain.User) *harness {
	chatRepo := newFakeChatRepo()
	membershipRepo := newFakeMembershipRepo()
	invitationRepo := newFakeInvitationRepo()
	messageRepo := &fakeMessageRepo{}
	userRepo := newFakeUserRepo(users...)

	uc := membershipuc.New(
		chatRepo, membershipRepo, invitationRepo, messageRepo, userRepo,
		realtime.NewFabric(8), realtime.NewRegistry(8),
	)

	return &harness{
		uc: uc, chatRepo: chatRepo, membershipRepo: membershipRepo,
		invitationRepo: invitationRepo, messageRepo: messageRepo, userRepo: userRepo,
	}
}

func user(id int, username string) *authdomain.User {
	return &authdomain.User{ID: id, Username: username}
}

func TestCreateChatGroupMakesActorOwner(t *testing.T) {
	h := newHarness(user(1, "alice"))
	ctx := context.Background()

	resp, err := h.uc.CreateChat(ctx, membershipuc.CreateChatReq{
		ActorID: 1, Type: "Group", Title: "Team", UserIDs: []int{2},
	})
	require.NoError(t, err)

	m, err := h.membershipRepo.Get(ctx, resp.ChatID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, m.Role)
}

func TestCreateChatPrivateRejectsSelf(t *testing.T) {
	h := newHarness(user(1, "alice"))

	_, err := h.uc.CreateChat(context.Background(), membershipuc.CreateChatReq{
		ActorID: 1, Type: "Private", UserIDs: []int{1},
	})
	assert.ErrorIs(t, err, domain.ErrCannotMessageSelf)
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
}

func TestUpdateMemberRoleAdminCannotPromoteToAdmin(t *testing.T) {
	h := newHarness(user(1, "owner"), user(2, "admin"), user(3, "member"))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 1, Role: domain.RoleOwner, MemberSince: now}))
	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 2, Role: domain.RoleAdmin, MemberSince: now}))
	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 3, Role: domain.RoleMember, MemberSince: now}))

	// an Admin may move a Member to Member (no-op) but never grant Admin.
	err := h.uc.UpdateMemberRole(ctx, membershipuc.UpdateMemberRoleReq{
		ActorID: 2, ChatID: 1, UserID: 3, Role: string(domain.RoleAdmin),
	})
	assert.ErrorIs(t, err, domain.ErrNotAuthorizedForRole)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}

func TestUpdateMemberRoleOwnerMayPromoteToAdmin(t *testing.T) {
	h := newHarness(user(1, "owner"), user(2, "member"))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 1, Role: domain.RoleOwner, MemberSince: now}))
	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 2, Role: domain.RoleMember, MemberSince: now}))

	err := h.uc.UpdateMemberRole(ctx, membershipuc.UpdateMemberRoleReq{
		ActorID: 1, ChatID: 1, UserID: 2, Role: string(domain.RoleAdmin),
	})
	require.NoError(t, err)

	m, err := h.membershipRepo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, m.Role)
}

func TestUpdateMemberRoleCannotGrantOwner(t *testing.T) {
	h := newHarness(user(1, "owner"), user(2, "member"))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 1, Role: domain.RoleOwner, MemberSince: now}))
	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 2, Role: domain.RoleMember, MemberSince: now}))

	err := h.uc.UpdateMemberRole(ctx, membershipuc.UpdateMemberRoleReq{
		ActorID: 1, ChatID: 1, UserID: 2, Role: string(domain.RoleOwner),
	})
	assert.ErrorIs(t, err, domain.ErrCannotGrantOwner)
	assert.Equal(t, errs.KindBadRequest, errs.KindOf(err))
}

func TestRemoveMemberRejectsRemovingOwner(t *testing.T) {
	h := newHarness(user(1, "owner"), user(2, "admin"))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 1, Role: domain.RoleOwner, MemberSince: now}))
	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 2, Role: domain.RoleAdmin, MemberSince: now}))

	err := h.uc.RemoveMember(ctx, membershipuc.RemoveMemberReq{ActorID: 2, ChatID: 1, UserID: 1})
	assert.Error(t, err)
}

func TestLeaveChatRejectsSoleOwner(t *testing.T) {
	h := newHarness(user(1, "owner"))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 1, Role: domain.RoleOwner, MemberSince: now}))

	err := h.uc.LeaveChat(ctx, membershipuc.LeaveChatReq{ActorID: 1, ChatID: 1})
	assert.ErrorIs(t, err, domain.ErrSoleOwnerMustTransfer)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestLeaveChatAllowsMember(t *testing.T) {
	h := newHarness(user(1, "owner"), user(2, "member"))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 1, Role: domain.RoleOwner, MemberSince: now}))
	require.NoError(t, h.membershipRepo.Create(ctx, &domain.Membership{ChatID: 1, UserID: 2, Role: domain.RoleMember, MemberSince: now}))

	err := h.uc.LeaveChat(ctx, membershipuc.LeaveChatReq{ActorID: 2, ChatID: 1})
	require.NoError(t, err)

	_, err = h.membershipRepo.Get(ctx, 1, 2)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRespondToInvitationAcceptReportsErrorOnMismatchedUser(t *testing.T) {
	h := newHarness(user(1, "owner"), user(2, "invitee"))
	ctx := context.Background()

	require.NoError(t, h.invitationRepo.Create(ctx, &domain.Invitation{
		ChatID: 1, InvitedUserID: 2, InvitingUserID: 1, State: domain.InvitationPending,
	}))

	err := h.uc.RespondToInvitation(ctx, membershipuc.RespondToInvitationReq{
		ActorID: 99, InvitationID: 1, Action: "accept",
	})
	assert.Error(t, err)
}

func TestRespondToInvitationRejectsSecondResponse(t *testing.T) {
	h := newHarness(user(1, "owner"), user(2, "invitee"))
	ctx := context.Background()

	require.NoError(t, h.invitationRepo.Create(ctx, &domain.Invitation{
		ChatID: 1, InvitedUserID: 2, InvitingUserID: 1, State: domain.InvitationPending,
	}))

	err := h.uc.RespondToInvitation(ctx, membershipuc.RespondToInvitationReq{
		ActorID: 2, InvitationID: 1, Action: "accept",
	})
	require.NoError(t, err)

	err = h.uc.RespondToInvitation(ctx, membershipuc.RespondToInvitationReq{
		ActorID: 2, InvitationID: 1, Action: "accept",
	})
	assert.ErrorIs(t, err, domain.ErrInvitationNotPending)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}
