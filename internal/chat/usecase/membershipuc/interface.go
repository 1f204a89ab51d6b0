package membershipuc

import (
	"context"

	"github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/val"
)

type UseCase interface {
	CreateChat(ctx context.Context, req CreateChatReq) (*CreateChatResp, error)
	ListMyChats(ctx context.Context, req ListMyChatsReq) (*ListMyChatsResp, error)
	ListMembers(ctx context.Context, req ListMembersReq) (*ListMembersResp, error)
	InviteToChat(ctx context.Context, req InviteToChatReq) (*InviteToChatResp, error)
	ListPendingInvitations(ctx context.Context, req ListPendingInvitationsReq) (*ListPendingInvitationsResp, error)
	RespondToInvitation(ctx context.Context, req RespondToInvitationReq) error
	UpdateMemberRole(ctx context.Context, req UpdateMemberRoleReq) error
	TransferOwnership(ctx context.Context, req TransferOwnershipReq) error
	RemoveMember(ctx context.Context, req RemoveMemberReq) error
	LeaveChat(ctx context.Context, req LeaveChatReq) error
}

type CreateChatReq struct {
	ActorID     int      `json:"-"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	UserIDs     []int    `json:"user_ids"`
}

func (req CreateChatReq) Validate() error {
	var verr error

	switch domain.ChatType(req.Type) {
	case domain.ChatTypeGroup:
		if err := val.ValidateChatTitle(req.Title); err != nil {
			verr = errs.AddFieldError(verr, "title", err.Error())
		}
		if err := val.ValidateChatDescription(req.Description); err != nil {
			verr = errs.AddFieldError(verr, "description", err.Error())
		}
	case domain.ChatTypePrivate:
		if len(req.UserIDs) != 1 {
			verr = errs.AddFieldError(verr, "user_ids", "private chat requires exactly one other user")
		}
	default:
		verr = errs.AddFieldError(verr, "type", "type must be Group or Private")
	}

	return verr
}

type CreateChatResp struct {
	ChatID int `json:"chat_id"`
}

type ListMyChatsReq struct {
	ActorID int `json:"-"`
}

func (req ListMyChatsReq) Validate() error {
	return nil
}

type ChatListItem struct {
	ChatID      int    `json:"chat_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Role        string `json:"role"`
}

type ListMyChatsResp struct {
	Chats []ChatListItem `json:"chats"`
}

type ListMembersReq struct {
	ActorID int `json:"-"`
	ChatID  int `path:"chat_id"`
}

func (req ListMembersReq) Validate() error {
	var verr error
	if req.ChatID <= 0 {
		verr = errs.AddFieldError(verr, "chat_id", "invalid chat id")
	}
	return verr
}

type MemberItem struct {
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	MemberSince string `json:"member_since"`
}

type ListMembersResp struct {
	Members []MemberItem `json:"members"`
}

type InviteToChatReq struct {
	ActorID int `json:"-"`
	ChatID  int `path:"chat_id"`
	UserID  int `path:"user_id"`
}

func (req InviteToChatReq) Validate() error {
	var verr error
	if req.ChatID <= 0 {
		verr = errs.AddFieldError(verr, "chat_id", "invalid chat id")
	}
	if req.UserID <= 0 {
		verr = errs.AddFieldError(verr, "user_id", "invalid user id")
	}
	return verr
}

type InviteToChatResp struct {
	InvitationID int `json:"invitation_id"`
}

type ListPendingInvitationsReq struct {
	ActorID int `json:"-"`
}

func (req ListPendingInvitationsReq) Validate() error {
	return nil
}

type InvitationItem struct {
	InvitationID  int    `json:"invitation_id"`
	ChatID        int    `json:"chat_id"`
	InvitingUserID int   `json:"inviting_user_id"`
	CreatedAt     string `json:"created_at"`
}

type ListPendingInvitationsResp struct {
	Invitations []InvitationItem `json:"invitations"`
}

type RespondToInvitationReq struct {
	ActorID      int    `json:"-"`
	InvitationID int    `path:"invitation_id"`
	Action       string `path:"action"`
}

func (req RespondToInvitationReq) Validate() error {
	var verr error
	if req.InvitationID <= 0 {
		verr = errs.AddFieldError(verr, "invitation_id", "invalid invitation id")
	}
	if req.Action != "accept" && req.Action != "reject" {
		verr = errs.AddFieldError(verr, "action", "action must be accept or reject")
	}
	return verr
}

type UpdateMemberRoleReq struct {
	ActorID int    `json:"-"`
	ChatID  int    `path:"chat_id"`
	UserID  int    `path:"user_id"`
	Role    string `json:"role"`
}

func (req UpdateMemberRoleReq) Validate() error {
	var verr error
	if req.ChatID <= 0 {
		verr = errs.AddFieldError(verr, "chat_id", "invalid chat id")
	}
	if req.UserID <= 0 {
		verr = errs.AddFieldError(verr, "user_id", "invalid user id")
	}
	if domain.Role(req.Role) != domain.RoleAdmin && domain.Role(req.Role) != domain.RoleMember {
		verr = errs.AddFieldError(verr, "role", "role must be Admin or Member")
	}
	return verr
}

type TransferOwnershipReq struct {
	ActorID     int `json:"-"`
	ChatID      int `path:"chat_id"`
	NewOwnerID  int `path:"new_owner_id"`
}

func (req TransferOwnershipReq) Validate() error {
	var verr error
	if req.ChatID <= 0 {
		verr = errs.AddFieldError(verr, "chat_id", "invalid chat id")
	}
	if req.NewOwnerID <= 0 {
		verr = errs.AddFieldError(verr, "new_owner_id", "invalid user id")
	}
	return verr
}

type RemoveMemberReq struct {
	ActorID int `json:"-"`
	ChatID  int `path:"chat_id"`
	UserID  int `path:"user_id"`
}

func (req RemoveMemberReq) Validate() error {
	var verr error
	if req.ChatID <= 0 {
		verr = errs.AddFieldError(verr, "chat_id", "invalid chat id")
	}
	if req.UserID <= 0 {
		verr = errs.AddFieldError(verr, "user_id", "invalid user id")
	}
	return verr
}

type LeaveChatReq struct {
	ActorID int `json:"-"`
	ChatID  int `path:"chat_id"`
}

func (req LeaveChatReq) Validate() error {
	var verr error
	if req.ChatID <= 0 {
		verr = errs.AddFieldError(verr, "chat_id", "invalid chat id")
	}
	return verr
}
