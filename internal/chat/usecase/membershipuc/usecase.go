package membershipuc

import (
	"context"
	"fmt"
	"time"

	authdomain "github.com/code19m/pulsechat/internal/auth/domain"
	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/internal/realtime"
	"github.com/code19m/pulsechat/pkg/errs"
)

type useCase struct {
	chatRepo       domain.ChatRepository
	membershipRepo domain.MembershipRepository
	invitationRepo domain.InvitationRepository
	messageRepo    domain.MessageRepository
	userRepo       authdomain.UserRepository
	fabric         *realtime.Fabric
	registry       *realtime.Registry
}

func New(
	chatRepo domain.ChatRepository,
	membershipRepo domain.MembershipRepository,
	invitationRepo domain.InvitationRepository,
	messageRepo domain.MessageRepository,
	userRepo authdomain.UserRepository,
	fabric *realtime.Fabric,
	registry *realtime.Registry,
) UseCase {
	return &useCase{
		chatRepo:       chatRepo,
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		messageRepo:    messageRepo,
		userRepo:       userRepo,
		fabric:         fabric,
		registry:       registry,
	}
}

// emitSystemMessage persists a SystemMessage into chatID and publishes it,
// in that order: membership mutations require the broadcast to never arrive
// ahead of the committed state it describes, the opposite ordering from the
// inbound chat-message path.
func (uc *useCase) emitSystemMessage(ctx context.Context, chatID int, content string) {
	msg := &domain.Message{
		ChatID:    chatID,
		SenderID:  0,
		Content:   content,
		Kind:      domain.MessageKindSystem,
		CreatedAt: time.Now(),
	}

	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return
	}

	_ = uc.fabric.Publish(chatID, &realtime.Event{
		Type: realtime.EventChatMessage,
		Data: realtime.MessageData{
			ChatID:      chatID,
			SenderID:    0,
			Content:     msg.Content,
			MessageType: string(domain.MessageKindSystem),
			CreatedAt:   msg.CreatedAt,
		},
	})
}

func (uc *useCase) CreateChat(ctx context.Context, req CreateChatReq) (*CreateChatResp, error) {
	const op = "membershipuc.CreateChat"
	now := time.Now()

	switch domain.ChatType(req.Type) {
	case domain.ChatTypePrivate:
		otherID := req.UserIDs[0]
		if otherID == req.ActorID {
			return nil, errs.Wrap(op, domain.ErrCannotMessageSelf)
		}

		if _, err := uc.chatRepo.FindPrivateBetween(ctx, req.ActorID, otherID); err == nil {
			return nil, errs.Wrap(op, domain.ErrPrivateChatExists)
		} else if errs.KindOf(err) != errs.KindNotFound {
			return nil, errs.Wrap(op, err)
		}

		chat := &domain.Chat{Type: domain.ChatTypePrivate}
		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			return nil, errs.Wrap(op, err)
		}

		memberships := []*domain.Membership{
			newMembership(chat.ID, req.ActorID, domain.RoleMember, now),
			newMembership(chat.ID, otherID, domain.RoleMember, now),
		}
		if err := uc.membershipRepo.CreateMany(ctx, memberships); err != nil {
			return nil, errs.Wrap(op, err)
		}

		return &CreateChatResp{ChatID: chat.ID}, nil

	case domain.ChatTypeGroup:
		chat := &domain.Chat{
			Type:        domain.ChatTypeGroup,
			Title:       req.Title,
			Description: req.Description,
		}
		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			return nil, errs.Wrap(op, err)
		}

		if err := uc.membershipRepo.Create(ctx, newMembership(chat.ID, req.ActorID, domain.RoleOwner, now)); err != nil {
			return nil, errs.Wrap(op, err)
		}

		return &CreateChatResp{ChatID: chat.ID}, nil

	default:
		return nil, errs.Wrap(op, errs.NewValidationError("unsupported chat type"))
	}
}

func newMembership(chatID, userID int, role domain.Role, now time.Time) *domain.Membership {
	return &domain.Membership{
		ChatID:                chatID,
		UserID:                userID,
		Role:                  role,
		MemberSince:           now,
		MessagesVisibleFrom:   now,
		MessagesReceivedUntil: now,
	}
}

func (uc *useCase) ListMyChats(ctx context.Context, req ListMyChatsReq) (*ListMyChatsResp, error) {
	const op = "membershipuc.ListMyChats"

	memberships, err := uc.membershipRepo.FindByUser(ctx, req.ActorID)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	items := make([]ChatListItem, 0, len(memberships))
	for _, m := range memberships {
		chat, err := uc.chatRepo.GetByID(ctx, m.ChatID)
		if err != nil {
			continue
		}
		items = append(items, ChatListItem{
			ChatID:      chat.ID,
			Type:        string(chat.Type),
			Title:       chat.Title,
			Description: chat.Description,
			Role:        string(m.Role),
		})
	}

	return &ListMyChatsResp{Chats: items}, nil
}

func (uc *useCase) ListMembers(ctx context.Context, req ListMembersReq) (*ListMembersResp, error) {
	const op = "membershipuc.ListMembers"

	if _, err := uc.requireMembership(ctx, req.ChatID, req.ActorID); err != nil {
		return nil, errs.Wrap(op, err)
	}

	memberships, err := uc.membershipRepo.FindByChat(ctx, req.ChatID)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	items := make([]MemberItem, 0, len(memberships))
	for _, m := range memberships {
		user, err := uc.userRepo.GetByID(ctx, m.UserID)
		if err != nil {
			continue
		}
		items = append(items, MemberItem{
			UserID:      user.ID,
			Username:    user.Username,
			Role:        string(m.Role),
			MemberSince: m.MemberSince.Format(time.RFC3339),
		})
	}

	return &ListMembersResp{Members: items}, nil
}

func (uc *useCase) requireMembership(ctx context.Context, chatID, userID int) (*domain.Membership, error) {
	m, err := uc.membershipRepo.Get(ctx, chatID, userID)
	if err != nil {
		return nil, errs.ReplaceOn(err, errs.ErrNotFound, domain.ErrNotMember)
	}
	return m, nil
}

func (uc *useCase) InviteToChat(ctx context.Context, req InviteToChatReq) (*InviteToChatResp, error) {
	const op = "membershipuc.InviteToChat"

	actorMembership, err := uc.requireMembership(ctx, req.ChatID, req.ActorID)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}
	if actorMembership.Role != domain.RoleOwner && actorMembership.Role != domain.RoleAdmin {
		return nil, errs.NewForbiddenError("only an owner or admin may invite")
	}

	invitee, err := uc.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, errs.ReplaceOn(err, errs.ErrNotFound, errs.NewNotFoundError("user_id", "user not found"))
	}
	if invitee.IsDeleted() {
		return nil, errs.NewNotFoundError("user_id", "user not found")
	}

	if _, err := uc.membershipRepo.Get(ctx, req.ChatID, req.UserID); err == nil {
		return nil, errs.NewConflictError("user_id", "user is already a member")
	}

	hasPending, err := uc.invitationRepo.HasPending(ctx, req.ChatID, req.UserID)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}
	if hasPending {
		return nil, errs.Wrap(op, domain.ErrInvitationExists)
	}

	if err := uc.ensurePrivateChatBetween(ctx, req.ActorID, req.UserID, fmt.Sprintf(
		"%s invited you to a chat", actorUsername(ctx, uc.userRepo, req.ActorID),
	)); err != nil {
		return nil, errs.Wrap(op, err)
	}

	inv := &domain.Invitation{
		ChatID:         req.ChatID,
		InvitedUserID:  req.UserID,
		InvitingUserID: req.ActorID,
		State:          domain.InvitationPending,
		CreatedAt:      time.Now(),
	}
	if err := uc.invitationRepo.Create(ctx, inv); err != nil {
		return nil, errs.Wrap(op, err)
	}

	uc.registry.Notify(req.UserID, realtime.ControlSignal{
		Kind: realtime.ControlNotify,
		Event: &realtime.Event{
			Type: realtime.EventInvitation,
			Data: realtime.InvitationData{
				InvitationID:   inv.ID,
				ChatID:         inv.ChatID,
				InvitingUserID: inv.InvitingUserID,
				State:          string(inv.State),
			},
		},
	})

	return &InviteToChatResp{InvitationID: inv.ID}, nil
}

func actorUsername(ctx context.Context, userRepo authdomain.UserRepository, userID int) string {
	u, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return "someone"
	}
	return u.Username
}

// ensurePrivateChatBetween reuses or creates a Private chat between a and b
// and narrates msg into it, per invite_to_chat's requirement to keep the
// invitation visible in a DM regardless of the target chat's own visibility.
func (uc *useCase) ensurePrivateChatBetween(ctx context.Context, a, b int, msg string) error {
	chat, err := uc.chatRepo.FindPrivateBetween(ctx, a, b)
	if err != nil {
		if errs.KindOf(err) != errs.KindNotFound {
			return err
		}
		now := time.Now()
		chat = &domain.Chat{Type: domain.ChatTypePrivate}
		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			return err
		}
		memberships := []*domain.Membership{
			newMembership(chat.ID, a, domain.RoleMember, now),
			newMembership(chat.ID, b, domain.RoleMember, now),
		}
		if err := uc.membershipRepo.CreateMany(ctx, memberships); err != nil {
			return err
		}
	}

	uc.emitSystemMessage(ctx, chat.ID, msg)
	return nil
}

func (uc *useCase) ListPendingInvitations(
	ctx context.Context,
	req ListPendingInvitationsReq,
) (*ListPendingInvitationsResp, error) {
	const op = "membershipuc.ListPendingInvitations"

	invitations, err := uc.invitationRepo.FindPendingForUser(ctx, req.ActorID)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}

	items := make([]InvitationItem, 0, len(invitations))
	for _, inv := range invitations {
		items = append(items, InvitationItem{
			InvitationID:   inv.ID,
			ChatID:         inv.ChatID,
			InvitingUserID: inv.InvitingUserID,
			CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		})
	}

	return &ListPendingInvitationsResp{Invitations: items}, nil
}

func (uc *useCase) RespondToInvitation(ctx context.Context, req RespondToInvitationReq) error {
	const op = "membershipuc.RespondToInvitation"

	inv, err := uc.invitationRepo.Get(ctx, req.InvitationID)
	if err != nil {
		return errs.ReplaceOn(err, errs.ErrNotFound, errs.NewNotFoundError("invitation_id", "invitation not found"))
	}
	if inv.InvitedUserID != req.ActorID {
		return errs.NewForbiddenError("invitation does not belong to you")
	}
	if inv.State != domain.InvitationPending {
		return errs.Wrap(op, domain.ErrInvitationNotPending)
	}

	if req.Action == "reject" {
		return errs.Wrap(op, uc.invitationRepo.UpdateState(ctx, inv.ID, domain.InvitationRejected))
	}

	now := time.Now()
	if err := uc.membershipRepo.Create(ctx, newMembership(inv.ChatID, req.ActorID, domain.RoleMember, now)); err != nil {
		return errs.Wrap(op, err)
	}
	if err := uc.invitationRepo.UpdateState(ctx, inv.ID, domain.InvitationAccepted); err != nil {
		return errs.Wrap(op, err)
	}

	uc.emitSystemMessage(ctx, inv.ChatID, fmt.Sprintf(
		"%s joined the chat", actorUsername(ctx, uc.userRepo, req.ActorID),
	))

	uc.registry.Notify(req.ActorID, realtime.ControlSignal{
		Kind:   realtime.ControlAddChat,
		ChatID: inv.ChatID,
	})

	return nil
}

func (uc *useCase) UpdateMemberRole(ctx context.Context, req UpdateMemberRoleReq) error {
	const op = "membershipuc.UpdateMemberRole"

	actorMembership, err := uc.requireMembership(ctx, req.ChatID, req.ActorID)
	if err != nil {
		return errs.Wrap(op, err)
	}

	targetMembership, err := uc.membershipRepo.Get(ctx, req.ChatID, req.UserID)
	if err != nil {
		return errs.ReplaceOn(err, errs.ErrNotFound, domain.ErrNotMember)
	}

	newRole := domain.Role(req.Role)
	if newRole == domain.RoleOwner {
		return errs.Wrap(op, domain.ErrCannotGrantOwner)
	}

	switch actorMembership.Role {
	case domain.RoleOwner:
		// may set any non-owner member to Admin or Member
	case domain.RoleAdmin:
		if targetMembership.Role != domain.RoleMember || newRole != domain.RoleMember {
			return errs.Wrap(op, domain.ErrNotAuthorizedForRole)
		}
	default:
		return errs.NewForbiddenError("only an owner or admin may change roles")
	}

	if targetMembership.Role == domain.RoleOwner {
		return errs.Wrap(op, domain.ErrCannotGrantOwner)
	}

	if err := uc.membershipRepo.UpdateRole(ctx, req.ChatID, req.UserID, newRole); err != nil {
		return errs.Wrap(op, err)
	}

	uc.emitSystemMessage(ctx, req.ChatID, fmt.Sprintf(
		"%s is now %s", actorUsername(ctx, uc.userRepo, req.UserID), newRole,
	))

	return nil
}

func (uc *useCase) TransferOwnership(ctx context.Context, req TransferOwnershipReq) error {
	const op = "membershipuc.TransferOwnership"

	actorMembership, err := uc.requireMembership(ctx, req.ChatID, req.ActorID)
	if err != nil {
		return errs.Wrap(op, err)
	}
	if actorMembership.Role != domain.RoleOwner {
		return errs.NewForbiddenError("only the owner may transfer ownership")
	}

	if _, err := uc.membershipRepo.Get(ctx, req.ChatID, req.NewOwnerID); err != nil {
		return errs.ReplaceOn(err, errs.ErrNotFound, domain.ErrNotMember)
	}

	if err := uc.membershipRepo.TransferOwnership(ctx, req.ChatID, req.ActorID, req.NewOwnerID); err != nil {
		return errs.Wrap(op, err)
	}

	uc.emitSystemMessage(ctx, req.ChatID, fmt.Sprintf(
		"%s transferred ownership to %s",
		actorUsername(ctx, uc.userRepo, req.ActorID),
		actorUsername(ctx, uc.userRepo, req.NewOwnerID),
	))

	return nil
}

func (uc *useCase) RemoveMember(ctx context.Context, req RemoveMemberReq) error {
	const op = "membershipuc.RemoveMember"

	actorMembership, err := uc.requireMembership(ctx, req.ChatID, req.ActorID)
	if err != nil {
		return errs.Wrap(op, err)
	}
	if actorMembership.Role != domain.RoleOwner && actorMembership.Role != domain.RoleAdmin {
		return errs.NewForbiddenError("only an owner or admin may remove members")
	}

	targetMembership, err := uc.membershipRepo.Get(ctx, req.ChatID, req.UserID)
	if err != nil {
		return errs.ReplaceOn(err, errs.ErrNotFound, domain.ErrNotMember)
	}
	if targetMembership.Role == domain.RoleOwner {
		return errs.NewForbiddenError("the owner cannot be removed")
	}

	if err := uc.membershipRepo.Delete(ctx, req.ChatID, req.UserID); err != nil {
		return errs.Wrap(op, err)
	}

	uc.registry.Notify(req.UserID, realtime.ControlSignal{
		Kind:   realtime.ControlRemoveChat,
		ChatID: req.ChatID,
	})

	uc.emitSystemMessage(ctx, req.ChatID, fmt.Sprintf(
		"%s was removed", actorUsername(ctx, uc.userRepo, req.UserID),
	))

	return nil
}

func (uc *useCase) LeaveChat(ctx context.Context, req LeaveChatReq) error {
	const op = "membershipuc.LeaveChat"

	membership, err := uc.requireMembership(ctx, req.ChatID, req.ActorID)
	if err != nil {
		return errs.Wrap(op, err)
	}
	if membership.Role == domain.RoleOwner {
		return errs.Wrap(op, domain.ErrSoleOwnerMustTransfer)
	}

	if err := uc.membershipRepo.Delete(ctx, req.ChatID, req.ActorID); err != nil {
		return errs.Wrap(op, err)
	}

	uc.registry.Notify(req.ActorID, realtime.ControlSignal{
		Kind:   realtime.ControlRemoveChat,
		ChatID: req.ChatID,
	})

	uc.emitSystemMessage(ctx, req.ChatID, fmt.Sprintf(
		"%s left the chat", actorUsername(ctx, uc.userRepo, req.ActorID),
	))

	return nil
}
