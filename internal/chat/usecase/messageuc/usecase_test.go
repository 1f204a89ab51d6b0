package messageuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/internal/chat/usecase/messageuc"
	"github.com/code19m/pulsechat/internal/realtime"
	"github.com/code19m/pulsechat/pkg/errs"
)

type fakeMembershipRepo struct {
	memberships map[int]map[int]*domain.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[int]map[int]*domain.Membership)}
}

func (r *fakeMembershipRepo) put(m *domain.Membership) {
	if r.memberships[m.ChatID] == nil {
		r.memberships[m.ChatID] = make(map[int]*domain.Membership)
	}
	r.memberships[m.ChatID][m.UserID] = m
}

func (r *fakeMembershipRepo) Create(_ context.Context, m *domain.Membership) error {
	r.put(m)
	return nil
}

func (r *fakeMembershipRepo) CreateMany(_ context.Context, ms []*domain.Membership) error {
	for _, m := range ms {
		r.put(m)
	}
	return nil
}

func (r *fakeMembershipRepo) Get(_ context.Context, chatID, userID int) (*domain.Membership, error) {
	if m, ok := r.memberships[chatID][userID]; ok {
		return m, nil
	}
	return nil, errs.ErrNotFound
}

func (r *fakeMembershipRepo) FindByUser(_ context.Context, _ int) ([]*domain.Membership, error) {
	return nil, nil
}

func (r *fakeMembershipRepo) FindByChat(_ context.Context, _ int) ([]*domain.Membership, error) {
	return nil, nil
}

func (r *fakeMembershipRepo) UpdateRole(_ context.Context, _, _ int, _ domain.Role) error {
	return nil
}

func (r *fakeMembershipRepo) TransferOwnership(_ context.Context, _, _, _ int) error {
	return nil
}

func (r *fakeMembershipRepo) Delete(_ context.Context, chatID, userID int) error {
	delete(r.memberships[chatID], userID)
	return nil
}

type fakeMessageRepo struct {
	created []*domain.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m *domain.Message) error {
	r.created = append(r.created, m)
	return nil
}

func (r *fakeMessageRepo) FindInChat(
	_ context.Context, _ int, _ time.Time, _ *time.Time, _ int,
) ([]*domain.Message, error) {
	return r.created, nil
}

const validCreatedAt = "2026-01-01T00:00:00Z"

func newHarness() (messageuc.UseCase, *fakeMembershipRepo, *fakeMessageRepo, *realtime.Fabric) {
	membershipRepo := newFakeMembershipRepo()
	messageRepo := &fakeMessageRepo{}
	fabric := realtime.NewFabric(8)

	uc := messageuc.New(messageRepo, membershipRepo, fabric, nil)
	return uc, membershipRepo, messageRepo, fabric
}

func TestProcessInboundRejectsSystemMessageKind(t *testing.T) {
	uc, membershipRepo, _, _ := newHarness()
	membershipRepo.put(&domain.Membership{ChatID: 1, UserID: 7, MessagesVisibleFrom: time.Now()})

	err := uc.ProcessInbound(context.Background(), 7, realtime.ChatMessageData{
		ChatID: 1, SenderID: 7, Content: "hi", MessageType: string(domain.MessageKindSystem), CreatedAt: validCreatedAt,
	})
	require.Error(t, err)
	assert.Equal(t, "system messages not allowed", err.Error())
}

func TestProcessInboundRejectsMalformedCreatedAt(t *testing.T) {
	uc, membershipRepo, _, _ := newHarness()
	membershipRepo.put(&domain.Membership{ChatID: 1, UserID: 7, MessagesVisibleFrom: time.Now()})

	err := uc.ProcessInbound(context.Background(), 7, realtime.ChatMessageData{
		ChatID: 1, SenderID: 7, Content: "hi", MessageType: string(domain.MessageKindUser), CreatedAt: "not-a-timestamp",
	})
	require.Error(t, err)
	assert.Equal(t, "malformed message", err.Error())
}

func TestProcessInboundRejectsSpoofedSender(t *testing.T) {
	uc, membershipRepo, _, _ := newHarness()
	membershipRepo.put(&domain.Membership{ChatID: 1, UserID: 7, MessagesVisibleFrom: time.Now()})

	err := uc.ProcessInbound(context.Background(), 7, realtime.ChatMessageData{
		ChatID: 1, SenderID: 8, Content: "hi", MessageType: string(domain.MessageKindUser), CreatedAt: validCreatedAt,
	})
	require.Error(t, err)
	assert.Equal(t, "malformed message", err.Error())
}

func TestProcessInboundRejectsNonMember(t *testing.T) {
	uc, _, _, _ := newHarness()

	err := uc.ProcessInbound(context.Background(), 7, realtime.ChatMessageData{
		ChatID: 1, SenderID: 7, Content: "hi", MessageType: string(domain.MessageKindUser), CreatedAt: validCreatedAt,
	})
	assert.ErrorIs(t, err, domain.ErrNotMember)
}

func TestProcessInboundRejectsEmptyContent(t *testing.T) {
	uc, membershipRepo, _, _ := newHarness()
	membershipRepo.put(&domain.Membership{ChatID: 1, UserID: 7, MessagesVisibleFrom: time.Now()})

	err := uc.ProcessInbound(context.Background(), 7, realtime.ChatMessageData{
		ChatID: 1, SenderID: 7, Content: "", MessageType: string(domain.MessageKindUser), CreatedAt: validCreatedAt,
	})
	require.Error(t, err)
	assert.Equal(t, "malformed message", err.Error())
}

func TestProcessInboundPublishesThenPersists(t *testing.T) {
	uc, membershipRepo, messageRepo, fabric := newHarness()
	membershipRepo.put(&domain.Membership{ChatID: 1, UserID: 7, MessagesVisibleFrom: time.Now()})
	sub := fabric.Subscribe(1)

	err := uc.ProcessInbound(context.Background(), 7, realtime.ChatMessageData{
		ChatID: 1, SenderID: 7, Content: "hello", MessageType: string(domain.MessageKindUser), CreatedAt: validCreatedAt,
	})
	require.NoError(t, err)

	ev, ok := sub.Next()
	require.True(t, ok)
	assert.Equal(t, realtime.EventChatMessage, ev.Type)

	require.Len(t, messageRepo.created, 1)
	assert.Equal(t, "hello", messageRepo.created[0].Content)
	assert.Equal(t, 7, messageRepo.created[0].SenderID)
}

func TestProcessInboundSucceedsWithNoSubscribers(t *testing.T) {
	uc, membershipRepo, messageRepo, _ := newHarness()
	membershipRepo.put(&domain.Membership{ChatID: 1, UserID: 7, MessagesVisibleFrom: time.Now()})

	// ErrNoReceivers from the fabric must not block persistence.
	err := uc.ProcessInbound(context.Background(), 7, realtime.ChatMessageData{
		ChatID: 1, SenderID: 7, Content: "hello", MessageType: string(domain.MessageKindUser), CreatedAt: validCreatedAt,
	})
	require.NoError(t, err)
	assert.Len(t, messageRepo.created, 1)
}

func TestListHistoryRejectsNonMember(t *testing.T) {
	uc, _, _, _ := newHarness()

	_, err := uc.ListHistory(context.Background(), messageuc.ListHistoryReq{ActorID: 7, ChatID: 1})
	assert.ErrorIs(t, err, domain.ErrNotMember)
}

func TestListHistoryReturnsMessages(t *testing.T) {
	uc, membershipRepo, messageRepo, _ := newHarness()
	membershipRepo.put(&domain.Membership{ChatID: 1, UserID: 7, MessagesVisibleFrom: time.Now()})
	messageRepo.created = append(messageRepo.created, &domain.Message{
		ID: 1, ChatID: 1, SenderID: 7, Content: "hi", Kind: domain.MessageKindUser, CreatedAt: time.Now(),
	})

	resp, err := uc.ListHistory(context.Background(), messageuc.ListHistoryReq{ActorID: 7, ChatID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "hi", resp.Messages[0].Content)
}
